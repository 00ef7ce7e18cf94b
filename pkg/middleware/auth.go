package middleware

import (
	"strings"

	"wallet-ledger/internal/policy"
	"wallet-ledger/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const callerKey = "caller"

// AuthMiddleware validates the bearer token and stores the request's policy.Caller.
// Admin status is taken from the token roles here and not looked up again downstream.
func AuthMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		if token == "" {
			logger.Warn("Missing authorization token", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization token required",
			})
		}
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			logger.Warn("Invalid token", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		SetCaller(c, policy.Caller{
			UserID:  claims.UserID,
			IsAdmin: claims.HasRole(auth.RoleAdmin),
		})

		return c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. Must run after AuthMiddleware.
func RequireAdmin(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFrom(c)
		if !ok || !caller.IsAdmin {
			logger.Warn("Admin route denied", zap.String("path", c.Path()), zap.String("user_id", caller.UserID))
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin role required",
			})
		}
		return c.Next()
	}
}

func SetCaller(c *fiber.Ctx, caller policy.Caller) {
	c.Locals(callerKey, caller)
}

func CallerFrom(c *fiber.Ctx) (policy.Caller, bool) {
	caller, ok := c.Locals(callerKey).(policy.Caller)
	if !ok || !caller.Authenticated() {
		return policy.Caller{}, false
	}
	return caller, true
}
