package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/talent-matcher/internal/matching"
	"alfredoptarigan/talent-matcher/internal/repositories"
	"alfredoptarigan/talent-matcher/internal/services"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func statusFor(code matching.Code) int {
	switch code {
	case matching.CodeInvalidArgument:
		return fiber.StatusBadRequest
	case matching.CodeNotFound:
		return fiber.StatusNotFound
	case matching.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// codeFor classifies service errors into the same codes the matching engine uses.
func codeFor(err error) matching.Code {
	var matchErr *matching.Error
	switch {
	case errors.As(err, &matchErr):
		return matchErr.Code
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, services.ErrVectorNotFound):
		return matching.CodeNotFound
	default:
		return matching.CodeInternal
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	code := codeFor(err)
	return c.Status(statusFor(code)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
		"code":  matching.CodeInvalidArgument,
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
