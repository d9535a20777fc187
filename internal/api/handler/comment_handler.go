package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/commonroom/community-platform/internal/core/domain"
	"github.com/commonroom/community-platform/internal/core/ports"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type createCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type listCommentsResponse struct {
	Data []domain.Comment `json:"data"`
}

// Create handles POST /posts/:id/comments.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Post id"
// @Param        body  body      createCommentRequest  true  "Comment"
// @Success      201   {object}  domain.Comment
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /posts/{id}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	comment, err := h.service.Add(c.Request().Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// List handles GET /posts/:id/comments.
//
// @Summary      List a post's comments
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  listCommentsResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	comments, err := h.service.ListByPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return c.JSON(http.StatusOK, listCommentsResponse{Data: comments})
}

// Delete handles DELETE /comments/:id (author only).
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        id  path  string  true  "Comment id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
