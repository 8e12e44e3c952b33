package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperror "employeehub/internal/errors"
)

// BcryptMaxBytes é o maior segredo que o bcrypt aceita, contado em bytes.
const BcryptMaxBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// "bcryptmax" limita o tamanho em bytes UTF-8; "max" conta runas.
	v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= BcryptMaxBytes
	})
	// Reportar os nomes JSON para que o cliente veja os nomes que enviou.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct valida s contra suas tags `validate`. Retorna nil ou um
// *apperror.ValidationError listando todos os campos inválidos; nunca acessa
// nada fora de s.
func Struct(msg string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.NewValidationError(msg)
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = msgForTag(fe)
	}
	return apperror.NewFieldValidationError(msg, fields)
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "bcryptmax":
		return fmt.Sprintf("must be at most %d bytes", BcryptMaxBytes)
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
