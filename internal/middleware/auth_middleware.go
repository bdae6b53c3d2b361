package middleware

import (
	"strings"

	"github.com/fadilmartias/career-compass/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Auth validates the Bearer token and stores the claims in request locals:
// user_id, email, and the role flags is_admin/is_clerk/is_affiliate.
func Auth() fiber.Handler {
	secret := []byte(config.LoadJWTConfig().Secret)

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !tkn.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", stringClaim(claims, "sub"))
		c.Locals("email", stringClaim(claims, "email"))
		c.Locals("is_admin", boolClaim(claims, "is_admin"))
		c.Locals("is_clerk", boolClaim(claims, "is_clerk"))
		c.Locals("is_affiliate", boolClaim(claims, "is_affiliate"))

		return c.Next()
	}
}

// RequireRole gates a route on one of the role flags set by Auth.
// Admins pass every role check.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, _ := c.Locals("is_admin").(bool); isAdmin {
			return c.Next()
		}
		if ok, _ := c.Locals("is_" + role).(bool); !ok {
			return fiber.NewError(fiber.StatusForbidden, "forbidden")
		}
		return c.Next()
	}
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

func boolClaim(claims jwt.MapClaims, key string) bool {
	v, _ := claims[key].(bool)
	return v
}
