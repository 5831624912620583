package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/picshare/picshare-api/internal/application"
	"github.com/picshare/picshare-api/internal/domain/repository"
	"github.com/picshare/picshare-api/internal/infrastructure/memory"
	"github.com/picshare/picshare-api/internal/interface/middleware"
	"github.com/picshare/picshare-api/pkg/helpers"
	"github.com/picshare/picshare-api/pkg/validation"
)

const testJWTSecret = "integration-test-secret-key-with-more-than-sixty-four-bytes-of-entropy!!"

var validationOnce sync.Once

// setupAPI wires the handlers against the in-memory store with the real
// bcrypt hasher and the real token codec, mirroring the production routes.
func setupAPI(t *testing.T) (*gin.Engine, *helpers.JWTManager) {
	t.Helper()
	return setupAPIWithRepo(t, memory.NewUserRepository())
}

func setupAPIWithRepo(t *testing.T, repo repository.UserRepository) (*gin.Engine, *helpers.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validationOnce.Do(validation.Init)

	jwtManager, err := helpers.NewJWTManager(testJWTSecret, time.Hour)
	require.NoError(t, err)

	svc := application.NewService(repo, helpers.BcryptHasher{}, jwtManager, nil, nil, nil, "")
	auth := NewAuthHandler(svc, nil)
	users := NewUserHandler(svc, nil)

	r := gin.New()
	r.Use(middleware.RequireJSON())
	api := r.Group("/api")
	api.POST("/auth/signin", auth.SignIn)
	api.POST("/auth/signup", auth.SignUp)

	protected := api.Group("")
	protected.Use(middleware.Auth(jwtManager))
	protected.GET("/users", users.List)
	protected.GET("/users/:id", users.Get)
	protected.PUT("/users", users.Update)
	protected.DELETE("/users/:id", users.Delete)
	protected.GET("/search/users", users.Search)

	return r, jwtManager
}

func doJSON(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

const signupJoao = `{"fullName":"João Silva","username":"joao123","email":"joao@email.com","password":"password123"}`

func signupUser(t *testing.T, r *gin.Engine, body string) map[string]any {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/auth/signup", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)
}

func tokenFor(t *testing.T, jwtManager *helpers.JWTManager, username string) string {
	t.Helper()
	tok, err := jwtManager.Generate(username)
	require.NoError(t, err)
	return tok
}
