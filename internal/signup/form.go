package signup

import (
	"errors"
	"fmt"

	"github.com/spec-kit/partner-portal/internal/domain"
)

// Form field names, matching the JSON keys of domain.SignupRequest.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// ErrUnknownField is returned by SetField for names outside the signup form.
var ErrUnknownField = errors.New("signup: unknown form field")

// Fields lists the form fields in display order.
func Fields() []string {
	return []string{FieldName, FieldEmail, FieldPassword}
}

// Form holds the values typed into the signup form.
type Form struct {
	req domain.SignupRequest
}

// SetField replaces one named field and leaves the others untouched.
func (f *Form) SetField(name, value string) error {
	switch name {
	case FieldName:
		f.req.Name = value
	case FieldEmail:
		f.req.Email = value
	case FieldPassword:
		f.req.Password = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Value returns a copy of the current request.
func (f *Form) Value() domain.SignupRequest {
	return f.req
}
