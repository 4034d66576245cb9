// Package validation expone un único *validator.Validate para los DTOs de los handlers.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"pet-adoption-hub/internal/platform/apperr"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Reportar errores con el nombre JSON del campo (lo que ve el cliente).
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Struct valida tags `validate:"..."` y devuelve un apperr de kind validation
// con el primer campo inválido.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperr.Validation(fe.Field(), "failed on '%s'", fe.Tag())
	}
	return apperr.Validation("", "%v", err)
}
