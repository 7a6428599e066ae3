package middleware

import (
	"strings"

	"github.com/ManvithReddyyy/vinnu-app/internal/config"
	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/repository"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid bearer token and puts the parsed claims
// into the context under "user".
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(token, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TryAuthMiddleware parses a bearer token when one is present but lets the
// request through either way. Handlers that vary their output for logged-in
// viewers use this on public routes.
func TryAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := util.ParseJWT(token, cfg.JWT.Secret); err == nil {
				c.Set("user", claims)
			}
		}
		c.Next()
	}
}

// RoleMiddleware allows only the named roles. Superadmin passes every role
// check.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	allowed := make(map[model.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if claims.Role != model.RoleSuperAdmin && !allowed[claims.Role] {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActivityMiddleware stamps last_login for authenticated requests so the
// admin console can show who has been around recently. Runs after the
// handler and never fails the request.
func ActivityMiddleware(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if claims := util.GetUserFromContext(c); claims != nil {
			go userRepo.UpdateLastSeen(claims.UserID)
		}
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
