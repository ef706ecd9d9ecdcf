package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/pkg/response"
	"github.com/corpboard/corpboard/pkg/validation"
)

type CommentHandler struct {
	Comments *application.CommentService
	Logger   *logrus.Logger
}

func NewCommentHandler(comments *application.CommentService, logger *logrus.Logger) *CommentHandler {
	return &CommentHandler{Comments: comments, Logger: logger}
}

// List GET /api/posts/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	comments, err := h.Comments.ListForPost(c.Request.Context(), p, postID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, comments, "ok")
}

// Create POST /api/posts/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in application.CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	view, err := h.Comments.Create(c.Request.Context(), p, postID, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, view, "comment created")
}

// Update PATCH /api/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in application.CommentUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	view, err := h.Comments.Update(c.Request.Context(), p, id, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, view, "comment updated")
}

// Delete DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Comments.Delete(c.Request.Context(), p, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK[any](c, nil, "comment deleted")
}
