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
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/infrastructure/auth"
	"github.com/haulstack/tms/internal/infrastructure/config"
)

func newAuthRouter(jwtService *auth.JWTService, blacklist auth.TokenBlacklist) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(AuthConfig{JWTService: jwtService, Blacklist: blacklist, Logger: zap.NewNop()}))
	r.GET("/whoami", func(c *gin.Context) {
		sctx := GetSecurityContext(c)
		if sctx == nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": sctx.UserID.String(), "role": string(sctx.Role)})
	})
	r.GET("/loads", RequirePermission(identity.PermViewLoads), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	})
}

func issueToken(t *testing.T, jwtService *auth.JWTService, permissions []string) (*auth.TokenPair, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		CompanyID:   uuid.New(),
		UserID:      userID,
		Email:       "pat@example.com",
		Role:        "dispatcher",
		Permissions: permissions,
	})
	require.NoError(t, err)
	return pair, userID
}

func TestAuth_ValidToken(t *testing.T) {
	jwtService := testJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	r := newAuthRouter(jwtService, blacklist)

	pair, userID := issueToken(t, jwtService, []string{"can_view_loads"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "dispatcher")
}

func TestAuth_MissingHeader(t *testing.T) {
	jwtService := testJWTService()
	r := newAuthRouter(jwtService, auth.NewInMemoryTokenBlacklist())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuth_GarbageToken(t *testing.T) {
	jwtService := testJWTService()
	r := newAuthRouter(jwtService, auth.NewInMemoryTokenBlacklist())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestAuth_RefreshTokenRejected(t *testing.T) {
	jwtService := testJWTService()
	r := newAuthRouter(jwtService, auth.NewInMemoryTokenBlacklist())

	pair, _ := issueToken(t, jwtService, nil)

	// Refresh tokens must not pass where access tokens are expected.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_RevokedUserTokens(t *testing.T) {
	jwtService := testJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	r := newAuthRouter(jwtService, blacklist)

	pair, userID := issueToken(t, jwtService, nil)

	// Logout-everywhere invalidates tokens issued at or before the cutoff.
	require.NoError(t, blacklist.AddUserTokensToBlacklist(context.Background(), userID.String(), time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestRequirePermission(t *testing.T) {
	jwtService := testJWTService()
	r := newAuthRouter(jwtService, auth.NewInMemoryTokenBlacklist())

	granted, _ := issueToken(t, jwtService, []string{"can_view_loads"})
	denied, _ := issueToken(t, jwtService, []string{"can_view_invoices"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/loads", nil)
	req.Header.Set("Authorization", "Bearer "+granted.AccessToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/loads", nil)
	req.Header.Set("Authorization", "Bearer "+denied.AccessToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "can_view_loads")
}
