package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corpboard/corpboard/internal/container"
	handlers "github.com/corpboard/corpboard/internal/interface/http"
	"github.com/corpboard/corpboard/internal/interface/middleware"
)

// PostModule wires the content layer: posts, comments, likes, attachments.
type PostModule struct {
	Posts       *handlers.PostHandler
	Comments    *handlers.CommentHandler
	Likes       *handlers.LikeHandler
	Attachments *handlers.AttachmentHandler
}

func NewPostModule(posts *handlers.PostHandler, comments *handlers.CommentHandler, likes *handlers.LikeHandler, attachments *handlers.AttachmentHandler) *PostModule {
	return &PostModule{Posts: posts, Comments: comments, Likes: likes, Attachments: attachments}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRepos(), container.GetJWT()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.GET("/boards/:id/posts", m.Posts.List)
		auth.POST("/posts", m.Posts.Create)
		auth.GET("/posts/search", m.Posts.Search)
		auth.GET("/posts/:id", m.Posts.Get)
		auth.PATCH("/posts/:id", m.Posts.Update)
		auth.DELETE("/posts/:id", m.Posts.Delete)

		auth.GET("/posts/:id/comments", m.Comments.List)
		auth.POST("/posts/:id/comments", m.Comments.Create)
		auth.PATCH("/comments/:id", m.Comments.Update)
		auth.DELETE("/comments/:id", m.Comments.Delete)

		auth.POST("/posts/:id/like", m.Likes.Toggle)
		auth.GET("/posts/:id/like", m.Likes.Status)

		auth.POST("/posts/:id/attachments", m.Attachments.Upload)
		auth.GET("/attachments/:id", m.Attachments.Download)
	}
}
