package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getAgentID reads the authenticated agent's ID set by the auth middleware.
func getAgentID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("agentID").(string)
	if !ok || raw == "" {
		return uuid.Nil, errors.New("agent ID not found in context")
	}

	agentID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("invalid agent ID in context")
	}

	return agentID, nil
}
