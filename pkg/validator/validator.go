package validator

import (
	"errors"
	"fmt"
	"regexp"

	validators "github.com/go-playground/validator/v10"
)

var slackIDPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// Validator interface
type Validator interface {
	ValidateStruct(inf interface{}) error
}

type validator struct {
	validator *validators.Validate
}

// New Validator func - registers the slack_id rule (upper case alphanumeric platform ids)
func New() Validator {
	v := validators.New()
	_ = v.RegisterValidation("slack_id", func(fl validators.FieldLevel) bool {
		return slackIDPattern.MatchString(fl.Field().String())
	})
	return &validator{
		validator: v,
	}
}

// ValidateStruct func
func (v *validator) ValidateStruct(inf interface{}) error {

	return v.validator.Struct(inf)
}

// Messages flattens validation errors into one message per failed field
func Messages(err error) []string {
	var fieldErrors validators.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		if err == nil {
			return nil
		}
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return messages
}
