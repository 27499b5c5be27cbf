package handler

import (
	"errors"

	"go-orders-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helpers to pull user info from the JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // Fallback (shouldn't happen in protected routes)
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

// getUserUUID returns the authenticated user's id as a UUID, or nil
func getUserUUID(c *fiber.Ctx) *uuid.UUID {
	id, err := uuid.Parse(getUserID(c))
	if err != nil {
		return nil
	}
	return &id
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// errStatus maps domain error kinds to HTTP status codes
func errStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrExpired):
		return fiber.StatusGone
	case errors.Is(err, service.ErrConflict):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// domainError writes the standard error response for a service failure
func domainError(c *fiber.Ctx, err error) error {
	return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
}
