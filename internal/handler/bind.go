package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON decodes the request body into out and validates it.
func bindJSON(c fiber.Ctx, out any) error {
	if err := c.Bind().JSON(out); err != nil {
		return &badRequest{msg: "Invalid request body", err: errors.Join(domain.ErrInvalidInput, err)}
	}
	if err := validate.Struct(out); err != nil {
		var fields validator.ValidationErrors
		if !errors.As(err, &fields) {
			return &badRequest{msg: "Invalid request body", err: errors.Join(domain.ErrInvalidInput, err)}
		}
		if len(fields) == 1 {
			return &badRequest{msg: fields[0].Field() + " is required", err: errors.Join(domain.ErrInvalidInput, err)}
		}
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.Field()
		}
		return &badRequest{msg: "Missing required parameters: " + strings.Join(names, ", "), err: errors.Join(domain.ErrInvalidInput, err)}
	}
	return nil
}
