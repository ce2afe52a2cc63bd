package controller

import (
	"errors"

	"github.com/Hirdyansh9/priv-lens/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// currentUserId reads the authenticated user id placed by the JWT
// middleware.
func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	uid, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Login required")
	}
	return uid, nil
}

// httpError translates service sentinels into transport errors; anything
// unrecognized bubbles up as a 500 through the error handler.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		return fiber.NewError(fiber.StatusConflict, "Username already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, service.ErrPolicyNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Chat not found or access denied")
	case errors.Is(err, service.ErrChatQuotaExceeded):
		return fiber.NewError(fiber.StatusTooManyRequests, "Daily message limit reached. Please try again tomorrow.")
	case errors.Is(err, service.ErrNotAPolicy):
		return fiber.NewError(fiber.StatusBadRequest,
			"The provided input does not appear to be a valid privacy policy. Please paste the full text of a policy to continue.")
	case errors.Is(err, service.ErrSourceUnavailable):
		return fiber.NewError(fiber.StatusBadRequest, "Could not load content from the provided URL. "+
			"The page might not be a valid privacy policy page.")
	case errors.Is(err, service.ErrPolicyTooLarge):
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "Policy text exceeds the maximum allowed size")
	case errors.Is(err, service.ErrUnknownAgent):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid agent type")
	case errors.Is(err, service.ErrNoPolicyText):
		return fiber.NewError(fiber.StatusBadRequest, "No policy text provided")
	default:
		return err
	}
}
