package service

import (
	"errors"
	"fmt"
	"strings"

	"taskhub/internal/config"
	"taskhub/internal/models"

	"github.com/go-playground/validator/v10"
)

var statusChoices = strings.Join(models.Statuses, ", ")

// validate runs the shared validator over in and converts its failures to a
// field-keyed validation Error.
func validate(in any) error {
	err := config.Validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &Error{Kind: KindValidation, Message: "Validation error", Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email format"
	case "taskstatus":
		return "Invalid status. Choose from: " + statusChoices + "."
	case "eqfield":
		return "Passwords do not match"
	case "min":
		if fe.Field() == "title" {
			return "Title must be at least 3 characters long."
		}
		if fe.Field() == "password" {
			return "Password must be at least 8 characters long"
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
	}
}
