package router

import (
	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/internal/container"
	handlers "github.com/corpboard/corpboard/internal/interface/http"
	"github.com/corpboard/corpboard/internal/router/modules"
	"github.com/corpboard/corpboard/pkg/helpers"
)

// InitModules builds every service and handler from the container singletons
// and registers the feature modules. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repos := container.GetRepos()
	txr := container.GetTxRunner()

	perms := application.NewPermissionService(repos, logger)
	authSvc := application.NewAuthService(repos, container.GetJWT(), logger)
	menuSvc := application.NewMenuService(repos, txr, perms, logger)
	boardSvc := application.NewBoardService(repos, perms, logger)
	matrixSvc := application.NewMatrixService(repos, txr, logger)
	postSvc := application.NewPostService(repos, perms, container.GetViewGuard(), logger, container.GetES(), cfg.ESPostsIndex)
	commentSvc := application.NewCommentService(repos, perms, container.GetRabbitPub(), logger)
	likeSvc := application.NewLikeService(repos, perms, logger)
	attachSvc := application.NewAttachmentService(repos, perms, container.GetObjectStore(), logger)
	adminUserSvc := application.NewAdminUserService(repos, logger)
	dashSvc := application.NewDashboardService(repos, perms, container.GetRedis(), logger)

	cookie := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, cookie, logger)))
	r.Add(modules.NewBoardModule(
		handlers.NewMenuHandler(menuSvc, logger),
		handlers.NewBoardHandler(boardSvc, logger),
		handlers.NewDashboardHandler(dashSvc, logger),
	))
	r.Add(modules.NewPostModule(
		handlers.NewPostHandler(postSvc, logger),
		handlers.NewCommentHandler(commentSvc, logger),
		handlers.NewLikeHandler(likeSvc, logger),
		handlers.NewAttachmentHandler(attachSvc, logger),
	))
	r.Add(modules.NewAdminModule(
		handlers.NewAdminMenuHandler(menuSvc, logger),
		handlers.NewAdminBoardHandler(boardSvc, logger),
		handlers.NewAdminUserHandler(adminUserSvc, logger),
		handlers.NewMatrixHandler(matrixSvc, logger),
	))
}
