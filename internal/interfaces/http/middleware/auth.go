package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/infrastructure/auth"
	"github.com/haulstack/tms/internal/interfaces/http/dto"
)

const (
	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "

	// ClaimsKey is the gin context key holding the validated *auth.Claims
	ClaimsKey = "jwt_claims"
	// SecurityContextKey is the gin context key holding *identity.SecurityContext
	SecurityContextKey = "security_context"
)

// AuthConfig configures the authentication middleware
type AuthConfig struct {
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist
	Logger     *zap.Logger
}

// Auth validates the bearer token, checks revocation, and attaches both
// the claims and a SecurityContext to the request. The SecurityContext is
// also placed on the request context so row scoping applies in repositories.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractBearerToken(c)
		if !ok {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			code, message := authErrorCode(err)
			if cfg.Logger != nil {
				cfg.Logger.Warn("Token validation failed",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path))
			}
			abortUnauthorized(c, code, message)
			return
		}

		if revoked := checkRevocation(c, cfg, claims); revoked {
			abortUnauthorized(c, dto.ErrCodeTokenRevoked, "Token has been revoked")
			return
		}

		sctx, err := securityContextFromClaims(claims)
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeInvalidToken, "Invalid token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(SecurityContextKey, sctx)
		c.Request = c.Request.WithContext(
			identity.WithSecurityContext(c.Request.Context(), sctx))

		c.Next()
	}
}

// checkRevocation consults the blacklist. Lookup failures fail open so a
// blacklist outage does not take down the whole API; they are logged.
func checkRevocation(c *gin.Context, cfg AuthConfig, claims *auth.Claims) bool {
	if cfg.Blacklist == nil {
		return false
	}
	ctx := c.Request.Context()

	if jti := claims.ID; jti != "" {
		revoked, err := cfg.Blacklist.IsBlacklisted(ctx, jti)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Blacklist lookup failed", zap.Error(err))
			}
		} else if revoked {
			return true
		}
	}

	if claims.IssuedAt != nil {
		invalidated, err := cfg.Blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAt.Time)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("User token invalidation lookup failed", zap.Error(err))
			}
			return false
		}
		return invalidated
	}
	return false
}

func securityContextFromClaims(claims *auth.Claims) (*identity.SecurityContext, error) {
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, err
	}
	companyID, err := claims.GetCompanyUUID()
	if err != nil {
		return nil, err
	}
	driverID, err := claims.GetDriverUUID()
	if err != nil {
		return nil, err
	}
	customerID, err := claims.GetCustomerUUID()
	if err != nil {
		return nil, err
	}

	perms := make([]identity.Permission, 0, len(claims.Permissions))
	for _, p := range claims.Permissions {
		perms = append(perms, identity.Permission(p))
	}

	return &identity.SecurityContext{
		UserID:      userID,
		CompanyID:   companyID,
		Role:        identity.Role(claims.Role),
		Superuser:   claims.Superuser,
		Permissions: identity.NewPermissionSet(perms...),
		DriverID:    driverID,
		CustomerID:  customerID,
	}, nil
}

func extractBearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(authHeaderKey)
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(header, bearerPrefix)
	return token, token != ""
}

func authErrorCode(err error) (string, string) {
	switch err {
	case auth.ErrExpiredToken:
		return dto.ErrCodeTokenExpired, "Token has expired"
	case auth.ErrTokenNotYetValid:
		return dto.ErrCodeInvalidToken, "Token is not yet valid"
	case auth.ErrInvalidTokenType:
		return dto.ErrCodeInvalidToken, "Invalid token type"
	default:
		return dto.ErrCodeInvalidToken, "Invalid token"
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// RequirePermission rejects callers lacking the given permission
func RequirePermission(p identity.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		sctx := GetSecurityContext(c)
		if sctx == nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !sctx.Can(p) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Missing permission: "+string(p)))
			return
		}
		c.Next()
	}
}

// GetClaims retrieves the validated JWT claims from the gin context
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetSecurityContext retrieves the caller's security context
func GetSecurityContext(c *gin.Context) *identity.SecurityContext {
	if v, ok := c.Get(SecurityContextKey); ok {
		if sctx, ok := v.(*identity.SecurityContext); ok {
			return sctx
		}
	}
	return nil
}
