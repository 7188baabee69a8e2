package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

// jsonError writes the shared error envelope.
func jsonError(c *fiber.Ctx, status int, slug, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   slug,
		"message": message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusBadRequest, "bad_request", message)
}

func notFound(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusNotFound, "not_found", message)
}

func internalError(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", message)
}

// parseBody decodes the JSON body and runs struct validation in one step.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errors.New("Invalid JSON in request body")
	}
	if err := validate.Struct(out); err != nil {
		return errors.New(validationMessage(err))
	}
	return nil
}

// validationMessage flattens validator errors into a readable one-liner.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+": failed on '"+fe.Tag()+"'")
	}
	return strings.Join(parts, ", ")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// sanitizeString trims whitespace and strips angle brackets from user input.
func sanitizeString(s string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(strings.TrimSpace(s))
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
