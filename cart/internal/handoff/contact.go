package handoff

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	inErrors "github.com/Alturino/journey/internal/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Contact is the traveller form filled in on the booking page.
type Contact struct {
	Name       string `json:"name"                validate:"required,max=120"`
	Email      string `json:"email"               validate:"required,email"`
	Phone      string `json:"phone,omitempty"     validate:"omitempty,max=40"`
	TravelDate string `json:"travelDate"          validate:"required,datetime=2006-01-02"`
	Travelers  int    `json:"travelers,omitempty" validate:"omitempty,gte=1,lte=99"`
	Notes      string `json:"notes,omitempty"     validate:"max=2000"`
	Locale     string `json:"locale,omitempty"`
}

// ValidationError lists the offending form fields by their json name.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return fmt.Sprintf("%s: %s", inErrors.ErrInvalidContact, strings.Join(parts, ", "))
}

func (e ValidationError) Unwrap() error {
	return inErrors.ErrInvalidContact
}

var jsonNames = map[string]string{
	"Name":       "name",
	"Email":      "email",
	"Phone":      "phone",
	"TravelDate": "travelDate",
	"Travelers":  "travelers",
	"Notes":      "notes",
}

func (ct Contact) Validate(c context.Context) error {
	err := validate.StructCtx(c, ct)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[jsonNames[fe.StructField()]] = describe(fe)
	}
	return ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	}
	return "is invalid"
}
