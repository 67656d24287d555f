package handlers

import (
	"tefa-hub/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// actorFromCtx builds the acting user from locals set by the auth
// middleware. ok is false when the request is unauthenticated.
func actorFromCtx(c *fiber.Ctx) (domain.Actor, bool) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return domain.Actor{}, false
	}

	name, _ := c.Locals("name").(string)
	role, _ := c.Locals("role").(string)

	return domain.Actor{
		ID:   userID,
		Name: name,
		Role: domain.Role(role),
	}, true
}
