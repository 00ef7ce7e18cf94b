package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"wallet-ledger/internal/api/handlers"
	"wallet-ledger/pkg/auth"
	"wallet-ledger/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (*fiber.App, *auth.JWTManager) {
	t.Helper()
	logger := zap.NewNop()
	jwtManager := auth.NewJWTManager("router-secret", time.Minute, time.Hour)
	app := SetupRouter(Handlers{
		Auth:        handlers.NewAuthHandler(nil, logger),
		Category:    handlers.NewCategoryHandler(nil, logger),
		SubCategory: handlers.NewSubCategoryHandler(nil, logger),
		Transaction: handlers.NewTransactionHandler(nil, nil, logger),
	}, jwtManager, config.ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second}, logger)
	return app, jwtManager
}

func TestHealth(t *testing.T) {
	app, _ := newTestRouter(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app, _ := newTestRouter(t)

	for _, path := range []string{"/api/v1/categories", "/api/v1/subcategories/count", "/api/v1/transactions/net-amount", "/api/v1/me"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestAdminRoutesNeedAdminRole(t *testing.T) {
	app, jwtManager := newTestRouter(t)
	token, err := jwtManager.GenerateToken("u1", "ann", "ann@example.com", []string{auth.RoleUser})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/admin/users/00000000-0000-0000-0000-000000000001/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
