package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-api/models"
	"catalog-api/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func protectedEndpoint(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	chain := AuthMiddleware(testSecret)(
		RequirePermission(models.PermissionUpdateProduct)(handler))
	return chain, &called
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	chain, called := protectedEndpoint(t)

	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, httptest.NewRequest("PATCH", "/update-product/x", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, *called)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	chain, called := protectedEndpoint(t)

	req := httptest.NewRequest("PATCH", "/update-product/x", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, *called)
}

func TestAdminTokenPasses(t *testing.T) {
	chain, called := protectedEndpoint(t)

	token, err := utils.GenerateJWT(testSecret, primitive.NewObjectID().Hex(), "admin")
	require.NoError(t, err)

	req := httptest.NewRequest("PATCH", "/update-product/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, *called)
}

func TestUserRoleForbidden(t *testing.T) {
	chain, called := protectedEndpoint(t)

	token, err := utils.GenerateJWT(testSecret, primitive.NewObjectID().Hex(), "user")
	require.NoError(t, err)

	req := httptest.NewRequest("PATCH", "/update-product/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, *called)
}

func TestWrongSecretRejected(t *testing.T) {
	chain, called := protectedEndpoint(t)

	token, err := utils.GenerateJWT("other-secret", primitive.NewObjectID().Hex(), "admin")
	require.NoError(t, err)

	req := httptest.NewRequest("PATCH", "/update-product/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, *called)
}

func TestMalformedUserIDRejected(t *testing.T) {
	chain, called := protectedEndpoint(t)

	token, err := utils.GenerateJWT(testSecret, "not-an-object-id", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest("PATCH", "/update-product/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, *called)
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission("admin", models.PermissionUpdateProduct))
	assert.False(t, HasPermission("user", models.PermissionUpdateProduct))
	assert.False(t, HasPermission("unknown-role", models.PermissionUpdateProduct))
}
