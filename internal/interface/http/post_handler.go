package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/pkg/response"
	"github.com/corpboard/corpboard/pkg/validation"
)

type PostHandler struct {
	Posts  *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(posts *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Posts: posts, Logger: logger}
}

// viewerKey identifies the viewer for view-count dedupe.
func viewerKey(p *application.Principal) string {
	return "user:" + strconv.FormatInt(p.ID, 10)
}

// List GET /api/boards/:id/posts
func (h *PostHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	boardID, ok := idParam(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	in := application.PostListInput{
		BoardID:        boardID,
		Search:         c.Query("search"),
		QnaStatus:      c.Query("qna_status"),
		SortBy:         c.DefaultQuery("sort_by", "created_at"),
		SortDesc:       c.DefaultQuery("sort_dir", "desc") != "asc",
		IncludeDeleted: c.Query("include_deleted") == "true",
		Page:           page,
		PageSize:       pageSize,
	}
	result, err := h.Posts.List(c.Request.Context(), p, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, result, "ok")
}

// Create POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in application.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	view, err := h.Posts.Create(c.Request.Context(), p, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, view, "post created")
}

// Get GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	view, err := h.Posts.Get(c.Request.Context(), p, id, viewerKey(p))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, view, "ok")
}

// Update PATCH /api/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in application.PostUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	view, err := h.Posts.Update(c.Request.Context(), p, id, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, view, "post updated")
}

// Delete DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Posts.Delete(c.Request.Context(), p, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK[any](c, nil, "post deleted")
}

// Search GET /api/posts/search?q=...
func (h *PostHandler) Search(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	q := c.Query("q")
	if q == "" {
		response.FailStatus(c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Posts.Search(c.Request.Context(), p, q, size)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, hits, "ok")
}
