package kit

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator so handlers and loaders share one
// cached instance.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *Validator) Struct(s any) error {
	return v.v.Struct(s)
}

func (v *Validator) Var(field any, tag string) error {
	return v.v.Var(field, tag)
}

// FieldErrors flattens validation errors into field -> failed tag, suitable
// for an error response's details.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Namespace()] = fe.Tag()
	}
	return out
}
