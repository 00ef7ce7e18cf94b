package handlers

import (
	"errors"

	"wallet-ledger/internal/policy"
	"wallet-ledger/internal/service"
	"wallet-ledger/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func getCaller(c *fiber.Ctx) (policy.Caller, error) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return policy.Caller{}, fiber.ErrUnauthorized
	}
	return caller, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(param))
	return id, err == nil
}

// respondError maps service errors to HTTP statuses. Unknown errors are logged and hidden.
func respondError(c *fiber.Ctx, logger *zap.Logger, action string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrReference):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrUserExists):
		status = fiber.StatusConflict
	case errors.Is(err, service.ErrPermissionDenied):
		status = fiber.StatusForbidden
	case errors.Is(err, service.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	}

	if status == fiber.StatusInternalServerError {
		logger.Error(action+" failed", zap.Error(err), zap.String("path", c.Path()))
		return c.Status(status).JSON(fiber.Map{
			"error": action + " failed",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
