package router

import "github.com/gin-gonic/gin"

// Module is a self-contained route bundle (auth plus user CRUD lives in one
// module today). Register receives the /api group and attaches the module's
// routes and route-level middleware to it.
type Module interface {
	Register(rg *gin.RouterGroup)
}
