package router

import "github.com/gin-gonic/gin"

// Module is one feature surface (auth, boards, posts, admin) registering its
// routes on the shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
