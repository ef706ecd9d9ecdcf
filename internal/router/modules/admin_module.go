package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corpboard/corpboard/internal/container"
	handlers "github.com/corpboard/corpboard/internal/interface/http"
	"github.com/corpboard/corpboard/internal/interface/middleware"
)

// AdminModule wires the administration surface behind the ADMIN role:
// menu tree management, the board registry, users, and the role matrix.
type AdminModule struct {
	Menus  *handlers.AdminMenuHandler
	Boards *handlers.AdminBoardHandler
	Users  *handlers.AdminUserHandler
	Matrix *handlers.MatrixHandler
}

func NewAdminModule(menus *handlers.AdminMenuHandler, boards *handlers.AdminBoardHandler, users *handlers.AdminUserHandler, matrix *handlers.MatrixHandler) *AdminModule {
	return &AdminModule{Menus: menus, Boards: boards, Users: users, Matrix: matrix}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRepos(), container.GetJWT()))
	admin.Use(middleware.RequireAdmin())
	admin.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		admin.GET("/menus", m.Menus.List)
		admin.POST("/menus", m.Menus.Create)
		admin.PUT("/menus/reorder", m.Menus.Reorder)
		admin.PATCH("/menus/:id", m.Menus.Update)
		admin.DELETE("/menus/:id", m.Menus.Delete)

		admin.GET("/boards", m.Boards.List)
		admin.POST("/boards", m.Boards.Create)
		admin.PATCH("/boards/:id", m.Boards.Update)
		admin.DELETE("/boards/:id", m.Boards.Delete)

		admin.GET("/users", m.Users.List)
		admin.PUT("/users/:id/role", m.Users.ChangeRole)
		admin.PUT("/users/:id/lock", m.Users.SetLocked)

		admin.GET("/role-matrix", m.Matrix.Get)
		admin.PUT("/role-matrix", m.Matrix.Put)
	}
}
