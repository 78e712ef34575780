package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Facturación y ciclo de vida de vallas.
	ErrRateUnresolved    = errors.New("no existe tarifa activa para la zona y tipo de valla")
	ErrNumberingConflict = errors.New("número de factura ya asignado")
	ErrTransitionNoop    = errors.New("la transición no cambia el estado")
	ErrSweepLocked       = errors.New("el barrido ya se está ejecutando")
)
