package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/commonroom/community-platform/internal/api/metrics"
	"github.com/commonroom/community-platform/internal/core/ports"
)

// CommunityHandler handles HTTP requests for communities and membership.
type CommunityHandler struct {
	service ports.CommunityService
}

func NewCommunityHandler(service ports.CommunityService) *CommunityHandler {
	return &CommunityHandler{service: service}
}

// Create handles POST /communities.
//
// @Summary      Create a community
// @Tags         communities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCommunityRequest  true  "Community details"
// @Success      201   {object}  communityResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /communities [post]
func (h *CommunityHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createCommunityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	community, err := h.service.Create(c.Request().Context(), ports.CreateCommunityInput{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   userID,
	})
	if err != nil {
		return err
	}

	metrics.CommunitiesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toCommunityResponse(community))
}

// List handles GET /communities.
//
// @Summary      List all communities
// @Tags         communities
// @Produce      json
// @Success      200  {object}  listCommunitiesResponse
// @Router       /communities [get]
func (h *CommunityHandler) List(c echo.Context) error {
	communities, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	data := make([]communityResponse, len(communities))
	for i := range communities {
		data[i] = toCommunityResponse(&communities[i])
	}
	return c.JSON(http.StatusOK, listCommunitiesResponse{Data: data})
}

// Get handles GET /communities/:id.
//
// @Summary      Get a community by id
// @Tags         communities
// @Produce      json
// @Param        id   path      string  true  "Community id"
// @Success      200  {object}  communityResponse
// @Failure      404  {object}  errorResponse
// @Router       /communities/{id} [get]
func (h *CommunityHandler) Get(c echo.Context) error {
	community, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommunityResponse(community))
}

// Update handles PUT /communities/:id (creator only).
//
// @Summary      Update a community
// @Tags         communities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Community id"
// @Param        body  body      updateCommunityRequest  true  "Patch"
// @Success      200   {object}  communityResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /communities/{id} [put]
func (h *CommunityHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateCommunityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	community, err := h.service.Update(c.Request().Context(), ports.UpdateCommunityInput{
		CommunityID: c.Param("id"),
		RequesterID: userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommunityResponse(community))
}

// Delete handles DELETE /communities/:id (creator only). Posts referencing
// the community are not removed.
//
// @Summary      Delete a community
// @Tags         communities
// @Security     BearerAuth
// @Param        id  path  string  true  "Community id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /communities/{id} [delete]
func (h *CommunityHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Join handles POST /communities/:id/join. Joining twice yields 409.
//
// @Summary      Join a community
// @Tags         communities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Community id"
// @Success      200  {object}  communityResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /communities/{id}/join [post]
func (h *CommunityHandler) Join(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	community, err := h.service.Join(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	metrics.MembershipChangesTotal.WithLabelValues("join").Inc()
	return c.JSON(http.StatusOK, toCommunityResponse(community))
}

// Leave handles POST /communities/:id/leave. Leaving when not a member
// yields 409.
//
// @Summary      Leave a community
// @Tags         communities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Community id"
// @Success      200  {object}  communityResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /communities/{id}/leave [post]
func (h *CommunityHandler) Leave(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	community, err := h.service.Leave(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	metrics.MembershipChangesTotal.WithLabelValues("leave").Inc()
	return c.JSON(http.StatusOK, toCommunityResponse(community))
}
