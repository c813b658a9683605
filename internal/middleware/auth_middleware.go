package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/app/models/dto"
	"github.com/yigit/rosterhub/internal/pkg/auth"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxAccountID = "accountID"
	CtxEmail     = "email"
	CtxRole      = "role"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth validates the bearer token and stores the account identity on the
// request context
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Invalid authorization header")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			message := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrorCodeExpiredToken
				message = "Token has expired"
			}
			abortUnauthorized(c, code, message)
			return
		}

		c.Set(CtxAccountID, claims.AccountID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, claims.Role)

		c.Next()
	}
}

// RequireRole rejects requests whose token does not carry one of the given
// roles. Must run after JWTAuth.
func (m *AuthMiddleware) RequireRole(roles ...models.ActorRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actual := c.GetString(CtxRole)
		for _, role := range roles {
			if actual == string(role) {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")
		errorDetail = errorDetail.WithDetails("This operation requires role: " + rolesList(roles))
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}

// AccountID returns the authenticated account's ID from the request context.
func AccountID(c *gin.Context) int64 {
	return c.GetInt64(CtxAccountID)
}

func rolesList(roles []models.ActorRole) string {
	out := ""
	for i, role := range roles {
		if i > 0 {
			out += " or "
		}
		out += string(role)
	}
	return out
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
