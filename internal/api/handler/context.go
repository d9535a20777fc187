package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID extracts the user identity injected by the Auth middleware and
// performs a fast-fail check before any service call: a missing or empty id
// means the middleware did not run (or the token carried no subject), so the
// request is rejected before reaching the core.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
