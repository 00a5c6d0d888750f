package middleware

import (
	"github.com/geoincidents/backend/internal/apperr"
	"github.com/geoincidents/backend/internal/config"
	"github.com/geoincidents/backend/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Envelope{
				Success: false,
				Error:   "Unauthorized: invalid or expired token",
			})
		},
	})
}

// Claims returns the verified JWT claims set by JWTProtected, or nil when the
// route is not behind it.
func Claims(c *fiber.Ctx) jwt.MapClaims {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}

// UserID extracts the authenticated user's ID from the request token.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims := Claims(c)
	if claims == nil {
		return uuid.Nil, apperr.Unauthorized("Unauthorized")
	}
	raw, _ := claims["userId"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Unauthorized("Unauthorized")
	}
	return id, nil
}

// Role extracts the role claim; empty when absent.
func Role(c *fiber.Ctx) string {
	claims := Claims(c)
	if claims == nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}
