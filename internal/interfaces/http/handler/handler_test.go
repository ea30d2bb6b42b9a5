package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cartapp "github.com/piora/backend/internal/application/cart"
	catalogapp "github.com/piora/backend/internal/application/catalog"
	identityapp "github.com/piora/backend/internal/application/identity"
	"github.com/piora/backend/internal/infrastructure/auth"
	"github.com/piora/backend/internal/infrastructure/config"
	"github.com/piora/backend/internal/interfaces/http/dto"
	"github.com/piora/backend/internal/interfaces/http/middleware"
	"github.com/piora/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := dto.RegisterValidations(); err != nil {
		panic(err)
	}
}

// testEnv wires real services over mocked repositories behind a full
// engine, so tests exercise routing, auth and JSON mapping end to end.
type testEnv struct {
	engine       *gin.Engine
	jwt          *auth.JWTService
	blacklist    *auth.InMemoryTokenBlacklist
	google       *fakeGoogleVerifier
	userRepo     *MockUserRepository
	productRepo  *MockProductRepository
	categoryRepo *MockCategoryRepository
	cartRepo     *MockCartRepository
}

func newTestEnv() *testEnv {
	env := &testEnv{
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			RefreshSecret:          "test-refresh-secret-key-32-chars",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 7 * 24 * time.Hour,
			Issuer:                 "test-issuer",
			MaxRefreshCount:        10,
		}),
		blacklist:    auth.NewInMemoryTokenBlacklist(),
		google:       &fakeGoogleVerifier{},
		userRepo:     new(MockUserRepository),
		productRepo:  new(MockProductRepository),
		categoryRepo: new(MockCategoryRepository),
		cartRepo:     new(MockCartRepository),
	}

	authService := identityapp.NewAuthService(
		env.userRepo, env.jwt, env.blacklist, env.google,
		identityapp.DefaultAuthServiceConfig(), zap.NewNop(),
	)
	productService := catalogapp.NewProductService(env.productRepo, env.categoryRepo, fakeObjectStorage{})
	categoryService := catalogapp.NewCategoryService(env.categoryRepo,
		catalogapp.NewNoOpTransactionScope(env.categoryRepo, env.productRepo), fakeObjectStorage{})
	cartService := cartapp.NewCartService(env.cartRepo,
		cartapp.NewNoOpTransactionScope(env.cartRepo, env.productRepo))

	env.engine = gin.New()
	env.engine.Use(middleware.RequestID())

	jwtAuth := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:     env.jwt,
		TokenBlacklist: env.blacklist,
	})

	apiRouter := router.New(env.engine, jwtAuth)
	apiRouter.Mount(
		NewAuthHandler(authService),
		NewProductHandler(productService),
		NewCategoryHandler(categoryService),
		NewCartHandler(cartService),
	)

	return env
}

func (e *testEnv) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	pair, err := e.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: userID,
		Email:  "shopper@example.com",
		Name:   "Shopper",
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func (e *testEnv) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// decodeResponse unmarshals the standard response envelope.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error, "expected an error envelope, got %s", w.Body.String())
	return resp.Error.Code
}

func dataField(t *testing.T, w *httptest.ResponseRecorder, field string) any {
	t.Helper()
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Data, "expected data in %s", w.Body.String())
	m, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data is not an object: %s", w.Body.String())
	return m[field]
}
