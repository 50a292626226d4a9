package http

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/luestilo/gestao-api/internal/application/dto"
	"github.com/luestilo/gestao-api/internal/domain/entity"
	"github.com/luestilo/gestao-api/pkg/cpf"
	"github.com/luestilo/gestao-api/pkg/optional"
	"github.com/luestilo/gestao-api/pkg/phone"
)

// Validator valida los DTOs de entrada con etiquetas `validate`.
type Validator struct {
	v *validator.Validate
}

// NewValidator registra las reglas propias: cpf, phone_br, password y order_status.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// En los errores se usa el nombre JSON del campo.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// optional.Field se valida por su valor; ausente o null cuentan como vacío (omitempty).
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if s, ok := f.Interface().(optional.Field[string]); ok {
			if val, ok := s.Get(); ok {
				return val
			}
		}
		return nil
	}, optional.Field[string]{})
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if b, ok := f.Interface().(optional.Field[bool]); ok {
			if val, ok := b.Get(); ok {
				return val
			}
		}
		return nil
	}, optional.Field[bool]{})
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if n, ok := f.Interface().(optional.Field[int]); ok {
			if val, ok := n.Get(); ok {
				return val
			}
		}
		return nil
	}, optional.Field[int]{})

	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return cpf.Validate(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("phone_br", func(fl validator.FieldLevel) bool {
		_, err := phone.Format(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		_, err := entity.ParseOrderStatus(fl.Field().String())
		return err == nil
	})
	return &Validator{v: v}
}

// strongPassword: al menos 8 caracteres, un dígito y una mayúscula.
func strongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var digit, upper bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return digit && upper
}

// Validate devuelve los errores por campo, o nil si la estructura es válida.
func (v *Validator) Validate(s any) []dto.FieldError {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []dto.FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]dto.FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, dto.FieldError{Field: fieldPath(e), Message: validationMessage(e)})
	}
	return out
}

// fieldPath quita el nombre del struct raíz: "CreateOrderRequest.items[0].quantity" → "items[0].quantity".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo obligatorio"
	case "email":
		return "email inválido"
	case "min":
		if e.Kind() == reflect.String {
			return "debe tener al menos " + e.Param() + " caracteres"
		}
		if e.Kind() == reflect.Slice {
			return "debe tener al menos " + e.Param() + " elementos"
		}
		return "debe ser al menos " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "debe tener como máximo " + e.Param() + " caracteres"
		}
		return "debe ser como máximo " + e.Param()
	case "gt":
		return "debe ser mayor que " + e.Param()
	case "uuid":
		return "UUID inválido"
	case "url":
		return "URL inválida"
	case "cpf":
		return "CPF inválido"
	case "phone_br":
		return "teléfono inválido: se requieren al menos 10 dígitos"
	case "password":
		return "la contraseña debe tener al menos 8 caracteres, un número y una mayúscula"
	case "order_status":
		return "estado inválido: pending, confirmed, processing, shipped, delivered o cancelled"
	default:
		return "valor inválido"
	}
}

// bindJSON parsea el cuerpo y lo valida. Si devuelve false la respuesta de error ya fue escrita.
func bindJSON(c *fiber.Ctx, v *Validator, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido: " + err.Error()})
	}
	if details := v.Validate(out); len(details) > 0 {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos de entrada inválidos", Details: details})
	}
	return true, nil
}
