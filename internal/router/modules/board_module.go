package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corpboard/corpboard/internal/container"
	handlers "github.com/corpboard/corpboard/internal/interface/http"
	"github.com/corpboard/corpboard/internal/interface/middleware"
)

// BoardModule wires the user-facing navigation surface: menus filtered by
// the caller's role, boards behind the permission gate, and the dashboard.
type BoardModule struct {
	Menus     *handlers.MenuHandler
	Boards    *handlers.BoardHandler
	Dashboard *handlers.DashboardHandler
}

func NewBoardModule(menus *handlers.MenuHandler, boards *handlers.BoardHandler, dashboard *handlers.DashboardHandler) *BoardModule {
	return &BoardModule{Menus: menus, Boards: boards, Dashboard: dashboard}
}

func (m *BoardModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRepos(), container.GetJWT()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.GET("/menus", m.Menus.List)
		auth.GET("/boards", m.Boards.List)
		auth.GET("/boards/:id", m.Boards.Get)
		auth.GET("/dashboard", m.Dashboard.Summary)
	}
}
