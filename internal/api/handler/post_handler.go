package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/commonroom/community-platform/internal/api/metrics"
	"github.com/commonroom/community-platform/internal/core/ports"
)

// PostHandler handles HTTP requests for posts, votes, and feeds.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /posts.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post details"
// @Success      201   {object}  postResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.Create(c.Request().Context(), ports.CreatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		CommunityID: req.CommunityID,
		AuthorID:    userID,
	})
	if err != nil {
		return err
	}

	scope := "profile"
	if req.CommunityID != "" {
		scope = "community"
	}
	metrics.PostsCreatedTotal.WithLabelValues(scope).Inc()

	return c.JSON(http.StatusCreated, toPostResponse(view))
}

// Get handles GET /posts/:id.
//
// @Summary      Get a post by id
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	view, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(view))
}

// Delete handles DELETE /posts/:id (author only).
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id  path  string  true  "Post id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Feed handles GET /posts/feed — the global feed, newest first, with an
// optional ?q= substring filter.
//
// @Summary      Home feed
// @Tags         feeds
// @Produce      json
// @Param        q    query     string  false  "Case-insensitive filter over title and content"
// @Success      200  {object}  feedResponse
// @Router       /posts/feed [get]
func (h *PostHandler) Feed(c echo.Context) error {
	metrics.FeedRequestsTotal.WithLabelValues("home").Inc()

	views, err := h.service.HomeFeed(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFeedResponse(views))
}

// Popular handles GET /posts/popular — the global feed ordered by score.
//
// @Summary      Popular feed
// @Tags         feeds
// @Produce      json
// @Success      200  {object}  feedResponse
// @Router       /posts/popular [get]
func (h *PostHandler) Popular(c echo.Context) error {
	metrics.FeedRequestsTotal.WithLabelValues("popular").Inc()

	views, err := h.service.PopularFeed(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFeedResponse(views))
}

// Trending handles GET /posts/trending — top posts from the score leaderboard.
//
// @Summary      Trending posts
// @Tags         feeds
// @Produce      json
// @Param        limit  query     int  false  "Max posts to return (default 25)"
// @Success      200    {object}  feedResponse
// @Router       /posts/trending [get]
func (h *PostHandler) Trending(c echo.Context) error {
	metrics.FeedRequestsTotal.WithLabelValues("trending").Inc()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	views, err := h.service.Trending(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFeedResponse(views))
}

// CommunityFeed handles GET /communities/:id/posts.
//
// @Summary      Community feed
// @Tags         feeds
// @Produce      json
// @Param        id   path      string  true  "Community id"
// @Success      200  {object}  feedResponse
// @Router       /communities/{id}/posts [get]
func (h *PostHandler) CommunityFeed(c echo.Context) error {
	metrics.FeedRequestsTotal.WithLabelValues("community").Inc()

	views, err := h.service.CommunityFeed(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFeedResponse(views))
}

// Search handles GET /search?q= — reuses the home-feed filter.
//
// @Summary      Search posts
// @Tags         feeds
// @Produce      json
// @Param        q    query     string  true  "Search term"
// @Success      200  {object}  feedResponse
// @Router       /search [get]
func (h *PostHandler) Search(c echo.Context) error {
	metrics.FeedRequestsTotal.WithLabelValues("search").Inc()

	views, err := h.service.HomeFeed(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFeedResponse(views))
}

// Upvote handles PUT /posts/:id/upvote. A repeated upvote toggles the vote
// off; an existing downvote is withdrawn first.
//
// @Summary      Upvote a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  voteResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id}/upvote [put]
func (h *PostHandler) Upvote(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	result, err := h.service.Upvote(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	metrics.VotesCastTotal.WithLabelValues("up", voteAction(result.Removed)).Inc()
	return c.JSON(http.StatusOK, toVoteResponse(result))
}

// Downvote handles PUT /posts/:id/downvote, symmetric to Upvote.
//
// @Summary      Downvote a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  voteResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id}/downvote [put]
func (h *PostHandler) Downvote(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	result, err := h.service.Downvote(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	metrics.VotesCastTotal.WithLabelValues("down", voteAction(result.Removed)).Inc()
	return c.JSON(http.StatusOK, toVoteResponse(result))
}

func voteAction(removed bool) string {
	if removed {
		return "removed"
	}
	return "added"
}
