package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/pkg/response"
)

type DashboardHandler struct {
	Dashboard *application.DashboardService
	Logger    *logrus.Logger
}

func NewDashboardHandler(dashboard *application.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{Dashboard: dashboard, Logger: logger}
}

// Summary GET /api/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	sum, err := h.Dashboard.Summary(c.Request.Context(), p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, sum, "ok")
}
