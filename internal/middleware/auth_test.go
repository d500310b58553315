package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/Maryann878/LinguAfrika-sub000/internal/auth"
	"github.com/Maryann878/LinguAfrika-sub000/internal/models"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *iauth.JWTService) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:          "middleware-test-secret",
		Issuer:          "linguafrika",
		SessionTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", Auth(jwtSvc), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"account_id": c.GetString(CtxAccountIDKey)})
	})

	return r, jwtSvc
}

func issueToken(t *testing.T, jwtSvc *iauth.JWTService) string {
	t.Helper()

	token, err := jwtSvc.GenerateSessionToken(iauth.SessionTokenInput{
		AccountID: "account-1",
		Email:     "amara@example.com",
		Role:      models.RoleStudent,
	})
	require.NoError(t, err)
	return token
}

func TestAuthAcceptsBearerHeader(t *testing.T) {
	r, jwtSvc := newAuthTestRouter(t)
	token := issueToken(t, jwtSvc)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "account-1")
}

func TestAuthAcceptsTokenCookie(t *testing.T) {
	r, jwtSvc := newAuthTestRouter(t)
	token := issueToken(t, jwtSvc)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestAuthRejectsTokenFromOtherSecret(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	other, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret: "a-completely-different-secret",
		Issuer: "linguafrika",
	})
	require.NoError(t, err)
	token := issueToken(t, other)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
