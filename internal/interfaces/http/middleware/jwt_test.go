package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piora/backend/internal/infrastructure/auth"
	"github.com/piora/backend/internal/infrastructure/config"
)

func newJWTTestService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func newAuthedEngine(cfg JWTMiddlewareConfig) *gin.Engine {
	engine := gin.New()
	engine.Use(JWTAuth(cfg))
	engine.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})
	engine.GET("/public/info", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func mintAccessToken(t *testing.T, svc *auth.JWTService, userID uuid.UUID) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: userID,
		Email:  "shopper@example.com",
		Name:   "Shopper",
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newJWTTestService()
	userID := uuid.New()
	engine := newAuthedEngine(JWTMiddlewareConfig{JWTService: svc})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+mintAccessToken(t, svc, userID))
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	engine := newAuthedEngine(JWTMiddlewareConfig{JWTService: newJWTTestService()})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_INVALID")
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	engine := newAuthedEngine(JWTMiddlewareConfig{JWTService: newJWTTestService()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, "Basic dXNlcjpwYXNz")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_GarbageToken(t *testing.T) {
	engine := newAuthedEngine(JWTMiddlewareConfig{JWTService: newJWTTestService()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+"not.a.token")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_INVALID")
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	shortLived := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test-issuer",
	})
	engine := newAuthedEngine(JWTMiddlewareConfig{JWTService: shortLived})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+mintAccessToken(t, shortLived, uuid.New()))
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestJWTAuth_RefreshTokenRejected(t *testing.T) {
	svc := newJWTTestService()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{UserID: uuid.New()})
	require.NoError(t, err)
	engine := newAuthedEngine(JWTMiddlewareConfig{JWTService: svc})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.RefreshToken)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_BlacklistedToken(t *testing.T) {
	svc := newJWTTestService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	userID := uuid.New()
	token := mintAccessToken(t, svc, userID)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Hour))

	engine := newAuthedEngine(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: blacklist})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestJWTAuth_AllSessionsInvalidated(t *testing.T) {
	svc := newJWTTestService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	userID := uuid.New()
	token := mintAccessToken(t, svc, userID)

	// Invalidation timestamp after issuance kills the session.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, blacklist.AddUserTokensToBlacklist(context.Background(), userID.String(), time.Hour))

	engine := newAuthedEngine(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: blacklist})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestJWTAuth_SkipPaths(t *testing.T) {
	engine := newAuthedEngine(JWTMiddlewareConfig{
		JWTService:       newJWTTestService(),
		SkipPathPrefixes: []string{"/public"},
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public/info", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
