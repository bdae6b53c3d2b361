package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// currentUserID reads the authenticated user's id set by middleware.Auth.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("user_id").(string)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("no authenticated user in context")
	}
	return uuid.Parse(raw)
}

func isStaff(c *fiber.Ctx) bool {
	admin, _ := c.Locals("is_admin").(bool)
	clerk, _ := c.Locals("is_clerk").(bool)
	return admin || clerk
}
