package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUp_CreatesUserWithoutExposingPassword(t *testing.T) {
	r, _ := setupAPI(t)

	w := doJSON(r, http.MethodPost, "/api/auth/signup", signupJoao, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "João Silva", body["fullName"])
	assert.Equal(t, "joao123", body["username"])
	assert.Equal(t, "joao@email.com", body["email"])
	assert.Len(t, body, 4)
	assert.NotContains(t, body, "password")
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	r, _ := setupAPI(t)
	signupUser(t, r, signupJoao)

	w := doJSON(r, http.MethodPost, "/api/auth/signup",
		`{"fullName":"Other Person","username":"otheruser","email":"joao@email.com","password":"password123"}`, "")

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email already in use", decodeBody(t, w)["error"])
}

func TestSignUp_DuplicateUsername(t *testing.T) {
	r, _ := setupAPI(t)
	signupUser(t, r, signupJoao)

	w := doJSON(r, http.MethodPost, "/api/auth/signup",
		`{"fullName":"Other Person","username":"joao123","email":"other@email.com","password":"password123"}`, "")

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "username already in use", decodeBody(t, w)["error"])
}

func TestSignUp_MalformedJSON(t *testing.T) {
	r, _ := setupAPI(t)

	w := doJSON(r, http.MethodPost, "/api/auth/signup", `{"fullName": "broken`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignUp_MissingContentType(t *testing.T) {
	r, _ := setupAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(signupJoao))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestSignUp_ValidationDetails(t *testing.T) {
	r, _ := setupAPI(t)

	w := doJSON(r, http.MethodPost, "/api/auth/signup",
		`{"fullName":"João Silva","username":"joao123","email":"not-an-email","password":"short"}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	details, ok := body["details"].(map[string]any)
	require.True(t, ok, w.Body.String())
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "min length 8", details["password"])
}

func TestSignIn_ReturnsUsernameAndToken(t *testing.T) {
	r, jwtManager := setupAPI(t)
	signupUser(t, r, signupJoao)

	w := doJSON(r, http.MethodPost, "/api/auth/signin",
		`{"username":"joao123","password":"password123"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Len(t, body, 2)
	assert.Equal(t, "joao123", body["username"])

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.True(t, jwtManager.Validate(token))

	subject, err := jwtManager.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "joao123", subject)
}

func TestSignIn_BadCredentialsAreUniform(t *testing.T) {
	r, _ := setupAPI(t)
	signupUser(t, r, signupJoao)

	wrongPwd := doJSON(r, http.MethodPost, "/api/auth/signin",
		`{"username":"joao123","password":"wrongpassword"}`, "")
	unknownUser := doJSON(r, http.MethodPost, "/api/auth/signin",
		`{"username":"nobody","password":"password123"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPwd.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	// identical bodies so callers cannot probe which usernames exist
	assert.Equal(t, wrongPwd.Body.String(), unknownUser.Body.String())
}

func TestSignIn_MissingFields(t *testing.T) {
	r, _ := setupAPI(t)

	w := doJSON(r, http.MethodPost, "/api/auth/signin", `{"username":"joao123"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
