package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/pkg/response"
)

type BoardHandler struct {
	Boards *application.BoardService
	Logger *logrus.Logger
}

func NewBoardHandler(boards *application.BoardService, logger *logrus.Logger) *BoardHandler {
	return &BoardHandler{Boards: boards, Logger: logger}
}

// List returns the boards the caller may read. GET /api/boards.
func (h *BoardHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	boards, err := h.Boards.ListVisible(c.Request.Context(), p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, toBoardBodies(boards), "ok")
}

// Get GET /api/boards/:id
func (h *BoardHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	b, err := h.Boards.Get(c.Request.Context(), id, p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, toBoardBody(b), "ok")
}
