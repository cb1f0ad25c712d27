package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"college-erp/internal/model"
	"college-erp/pkg/jwt"
	"college-erp/pkg/response"
)

const (
	codeUnauthenticated = 10002
	codeForbidden       = 10003
)

// TokenChecker reports revoked token ids. *redis.Client implements it.
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func deny(c *gin.Context, msg string) {
	response.Unauthorized(c, codeUnauthenticated, msg)
	c.Abort()
}

// JWTAuth verifies the bearer token and copies its claims onto the
// context. Every role except SuperAdmin must be bound to a college.
// A nil checker skips the revocation lookup; lookup failures let the
// request through.
func JWTAuth(jwtMgr *jwt.Manager, checker TokenChecker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			deny(c, "missing authorization header")
			return
		}
		raw, ok := bearerToken(header)
		if !ok {
			deny(c, "malformed authorization header")
			return
		}
		claims, err := jwtMgr.ParseToken(raw)
		if err != nil {
			deny(c, "invalid or expired token")
			return
		}
		if claims.Role != model.RoleSuperAdmin && claims.CollegeID == "" {
			deny(c, "token is not bound to a college")
			return
		}

		if checker != nil && claims.ID != "" {
			revoked, err := checker.IsBlacklisted(c.Request.Context(), claims.ID)
			switch {
			case err != nil:
				LoggerFrom(c, logger).Warn("token blacklist lookup failed", zap.Error(err))
			case revoked:
				deny(c, "token has been revoked")
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("college_id", claims.CollegeID)
		c.Set("token_jti", claims.ID)
		if claims.ExpiresAt != nil {
			c.Set("token_exp", claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// RoleAuth allows only the listed roles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		role := c.GetString("role")
		switch {
		case role == "":
			deny(c, "unauthenticated")
		case !allowed[role]:
			response.Forbidden(c, codeForbidden, "permission denied")
			c.Abort()
		default:
			c.Next()
		}
	}
}
