package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/pkg/response"
)

type MenuHandler struct {
	Menus  *application.MenuService
	Logger *logrus.Logger
}

func NewMenuHandler(menus *application.MenuService, logger *logrus.Logger) *MenuHandler {
	return &MenuHandler{Menus: menus, Logger: logger}
}

// List returns the active menus visible to the caller's role. GET /api/menus.
func (h *MenuHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	menus, err := h.Menus.ListVisible(c.Request.Context(), p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, toMenuBodies(menus), "ok")
}
