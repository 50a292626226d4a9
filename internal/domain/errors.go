package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") para dar contexto; la capa HTTP los traduce con errors.Is.
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrConflict                = errors.New("conflicto con el estado actual")
	ErrEmailAlreadyExists      = errors.New("el email ya está registrado")
	ErrUsernameAlreadyExists   = errors.New("el nombre de usuario ya está registrado")
	ErrCPFAlreadyExists        = errors.New("el CPF ya está registrado")
	ErrBarcodeAlreadyExists    = errors.New("el código de barras ya está registrado")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrInactiveUser            = errors.New("usuario inactivo")
	ErrForbidden               = errors.New("acceso denegado")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrInvalidStatusTransition = errors.New("transición de estado no permitida")
	ErrDelivery                = errors.New("fallo en la entrega del mensaje")
	ErrNotConfigured           = errors.New("servicio externo no configurado")
)

// IsConflict agrupa las violaciones de unicidad.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrEmailAlreadyExists) ||
		errors.Is(err, ErrUsernameAlreadyExists) ||
		errors.Is(err, ErrCPFAlreadyExists) ||
		errors.Is(err, ErrBarcodeAlreadyExists)
}
