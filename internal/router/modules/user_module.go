package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/picshare/picshare-api/internal/container"
	handlers "github.com/picshare/picshare-api/internal/interface/http"
	"github.com/picshare/picshare-api/internal/interface/middleware"
	"github.com/picshare/picshare-api/pkg/helpers"
)

// UserModule wires the auth and user handlers into routes.
// Public: POST /api/auth/signin, POST /api/auth/signup
// Protected: GET /api/users, GET /api/users/:id, PUT /api/users,
// DELETE /api/users/:id, GET /api/search/users
type UserModule struct {
	Auth  *handlers.AuthHandler
	Users *handlers.UserHandler
	JWT   *helpers.JWTManager
}

func NewUserModule(auth *handlers.AuthHandler, users *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Auth: auth, Users: users, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Public with per-IP rate limiting; signin is the enumeration target so
	// it gets the tightest budget.
	signinLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	signupLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/signin", signinLimiter, m.Auth.SignIn)
	rg.POST("/auth/signup", signupLimiter, m.Auth.SignUp)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUsername(), nil),
	)
	{
		auth.GET("/users", m.Users.List)
		// registered outside /users: gin's tree rejects a static segment
		// next to the :id wildcard
		auth.GET("/search/users", m.Users.Search)
		auth.GET("/users/:id", m.Users.Get)
		auth.PUT("/users", m.Users.Update)
		auth.DELETE("/users/:id", m.Users.Delete)
	}
}
