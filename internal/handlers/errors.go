package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-checker/internal/logger"
	"alfredoptarigan/resume-checker/internal/models"
	"alfredoptarigan/resume-checker/internal/repositories"
	"alfredoptarigan/resume-checker/internal/services"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	var (
		fiberErr      *fiber.Error
		unsupported   *services.UnsupportedFormatError
		rejected      *services.FileRejectedError
		extraction    *services.ExtractionError
		validationErr validator.ValidationErrors
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &unsupported):
		return fiber.StatusUnsupportedMediaType
	case errors.As(err, &rejected), errors.As(err, &validationErr), errors.Is(err, services.ErrEmptyJobDescription):
		return fiber.StatusBadRequest
	case errors.As(err, &extraction):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is the Fiber error handler. Server errors are logged and
// their details kept out of the response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusFor(err)

	message := err.Error()
	if code >= fiber.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		message = "internal server error"
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: message,
		Code:  fiber.StatusBadRequest,
	})
}
