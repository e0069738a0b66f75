// Package intake turns free-form user input into domain values.
// Rows are stored unquoted, so no field may carry a comma.
package intake

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/zjrosen/registrar/internal/registrar/domain"
)

// ErrInvalidInput wraps every validation failure.
var ErrInvalidInput = errors.New("invalid input")

// StudentInput is the raw add-student form. A blank ID is generated.
type StudentInput struct {
	ID      string `validate:"required,excludesall=0x2C"`
	Name    string `validate:"required,excludesall=0x2C"`
	Email   string `validate:"required,email,excludesall=0x2C"`
	Program string `validate:"required,excludesall=0x2C"`
}

// Validator checks intake forms.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator.
func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Student trims and validates in, filling a blank ID, and builds the student.
func (iv *Validator) Student(in StudentInput) (*domain.Student, error) {
	in = StudentInput{
		ID:      strings.TrimSpace(in.ID),
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Program: strings.TrimSpace(in.Program),
	}
	if in.ID == "" {
		in.ID = NewStudentID()
	}

	if err := iv.v.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
		}
		return nil, err
	}
	return domain.NewStudent(in.ID, in.Name, in.Email, in.Program), nil
}

// NewStudentID returns an id of the form S-xxxxxxxx.
func NewStudentID() string {
	return "S-" + uuid.NewString()[:8]
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "excludesall":
		return field + " must not contain a comma"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
