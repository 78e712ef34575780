package billing

import (
	"fmt"

	"github.com/jhoicas/Vallas-api/internal/domain"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

// EventKind evento que puede mover el estado de una valla.
type EventKind string

const (
	EventPaymentValidated EventKind = "payment_validated"
	EventPaymentRejected  EventKind = "payment_rejected"
	EventDebtAssessed     EventKind = "debt_assessed"
	EventContractExpired  EventKind = "contract_expired"
	EventApproved         EventKind = "approved"
)

// Event evento de ciclo de vida. Debt es obligatorio para EventDebtAssessed.
type Event struct {
	Kind EventKind
	Debt *DebtSnapshot
}

// Transition decide el nuevo estado para current ante ev.
// Devuelve domain.ErrTransitionNoop si el estado no cambia.
// inactive es terminal: ningún evento lo modifica.
func Transition(current entity.BillboardStatus, ev Event) (entity.BillboardStatus, error) {
	if current == entity.BillboardInactive {
		return current, domain.ErrTransitionNoop
	}

	var next entity.BillboardStatus
	switch ev.Kind {
	case EventPaymentValidated:
		next = entity.BillboardActive

	case EventPaymentRejected:
		next = entity.BillboardInDebt

	case EventContractExpired:
		next = entity.BillboardInactive

	case EventApproved:
		switch current {
		case entity.BillboardPending, entity.BillboardSuspended:
			next = entity.BillboardActive
		case entity.BillboardActive:
			next = current
		default:
			return current, fmt.Errorf("aprobar valla en estado %s: %w", current, domain.ErrConflict)
		}

	case EventDebtAssessed:
		if ev.Debt == nil {
			return current, fmt.Errorf("evento %s sin deuda: %w", ev.Kind, domain.ErrInvalidInput)
		}
		next = current
		switch {
		case current == entity.BillboardActive && ev.Debt.InDebtThreshold():
			next = entity.BillboardInDebt
		case current == entity.BillboardInDebt && !ev.Debt.HasDebt():
			next = entity.BillboardActive
		}

	default:
		return current, fmt.Errorf("evento desconocido %q: %w", ev.Kind, domain.ErrInvalidInput)
	}

	if next == current {
		return current, domain.ErrTransitionNoop
	}
	return next, nil
}
