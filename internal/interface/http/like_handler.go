package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/pkg/response"
)

type LikeHandler struct {
	Likes  *application.LikeService
	Logger *logrus.Logger
}

func NewLikeHandler(likes *application.LikeService, logger *logrus.Logger) *LikeHandler {
	return &LikeHandler{Likes: likes, Logger: logger}
}

// Toggle POST /api/posts/:id/like
func (h *LikeHandler) Toggle(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	status, err := h.Likes.Toggle(c.Request.Context(), p, postID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, status, "ok")
}

// Status GET /api/posts/:id/like
func (h *LikeHandler) Status(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	status, err := h.Likes.Status(c.Request.Context(), p, postID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, status, "ok")
}
