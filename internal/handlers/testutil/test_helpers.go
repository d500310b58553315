package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Maryann878/LinguAfrika-sub000/internal/accounts"
	"github.com/Maryann878/LinguAfrika-sub000/internal/api"
	"github.com/Maryann878/LinguAfrika-sub000/internal/app"
	iauth "github.com/Maryann878/LinguAfrika-sub000/internal/auth"
	"github.com/Maryann878/LinguAfrika-sub000/internal/models"
	"github.com/Maryann878/LinguAfrika-sub000/internal/services"
	"github.com/Maryann878/LinguAfrika-sub000/pkg/response"
)

// Env encapsulates a fully-wired API instance backed by an in-memory database
// for handler tests.
type Env struct {
	T      *testing.T
	DB     *gorm.DB
	Store  *accounts.Store
	Router *gin.Engine
	JWT    *iauth.JWTService
}

// Options tweaks the environment before the router is built.
type Options struct {
	RateLimit app.RateLimitConfig
}

// NewEnv provisions a fresh handler test environment with migrations applied.
// Rate limiting is disabled unless configured through opts.
func NewEnv(t *testing.T, opts ...Options) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	store, err := accounts.NewStore(db)
	require.NoError(t, err)

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:          "test-suite-super-secret-key-32-bytes!!",
		Issuer:          "test-suite",
		SessionTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	authSvc, err := services.NewAuthService(store, jwtSvc, nil)
	require.NoError(t, err)

	cfg := &app.Config{}
	if len(opts) > 0 {
		cfg.RateLimit = opts[0].RateLimit
	}

	router, err := api.NewRouter(db, jwtSvc, authSvc, cfg)
	require.NoError(t, err)

	return &Env{
		T:      t,
		DB:     db,
		Store:  store,
		Router: router,
		JWT:    jwtSvc,
	}
}

// Signup registers an account through the API and returns the stored record,
// which carries the pending verification code.
func (e *Env) Signup(username, email, password string) *models.Account {
	e.T.Helper()

	payload := map[string]string{
		"username": username,
		"email":    email,
		"mobile":   "+2348012345678",
		"password": password,
	}

	w := e.Request(http.MethodPost, "/api/auth/signup", payload, "")
	require.Equal(e.T, http.StatusCreated, w.Code, w.Body.String())

	account, err := e.Store.FindByEmail(context.Background(), email)
	require.NoError(e.T, err)
	return account
}

// VerifiedAccount registers and verifies an account in one step.
func (e *Env) VerifiedAccount(username, email, password string) *models.Account {
	e.T.Helper()

	account := e.Signup(username, email, password)
	require.NotNil(e.T, account.VerificationCode)

	payload := map[string]string{"email": email, "code": *account.VerificationCode}
	w := e.Request(http.MethodPost, "/api/auth/verify", payload, "")
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())

	verified, err := e.Store.FindByID(context.Background(), account.ID)
	require.NoError(e.T, err)
	return verified
}

// Login authenticates and returns the top-level session token.
func (e *Env) Login(identifier, password string) string {
	e.T.Helper()

	payload := map[string]string{"identifier": identifier, "password": password}
	w := e.Request(http.MethodPost, "/api/auth/login", payload, "")
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())

	resp := DecodeResponse(e.T, w)
	require.True(e.T, resp.Success, w.Body.String())
	require.NotEmpty(e.T, resp.Token)
	return resp.Token
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Token   string              `json:"token"`
	Error   *response.ErrorInfo `json:"error"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON
// encoding and the Authorization header automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}
