package middleware

import (
	"strings"

	"github.com/geoincidents/backend/internal/config"
	"github.com/geoincidents/backend/internal/dto"
	"github.com/geoincidents/backend/internal/models"
	"github.com/geoincidents/backend/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminRequired grants access when any of the following holds:
// 1. the X-Admin-Token header matches the configured operator token,
// 2. the token's email is on the configured admin list,
// 3. the token's role claim is admin,
// 4. the user's current DB role is admin (covers promotions newer than the token).
func AdminRequired(users repository.UserRepository, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		claims := Claims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Envelope{
				Success: false, Error: "Unauthorized",
			})
		}

		email, _ := claims["email"].(string)
		if contains(adminEmails, email) {
			return c.Next()
		}

		if role, _ := claims["role"].(string); role == models.RoleAdmin {
			return c.Next()
		}

		if raw, _ := claims["userId"].(string); raw != "" {
			if userID, err := uuid.Parse(raw); err == nil {
				if user, err := users.FindByID(userID); err == nil && user != nil && user.Role == models.RoleAdmin {
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.Envelope{
			Success: false, Error: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
