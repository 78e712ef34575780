package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Vallas-api/internal/domain"
	domainbilling "github.com/jhoicas/Vallas-api/internal/domain/billing"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
	"github.com/jhoicas/Vallas-api/pkg/money"
)

// PaymentUseCase valida o rechaza pagos y propaga el efecto a facturas y al estado de la valla.
// Ambas operaciones son idempotentes: repetirlas sobre el mismo estado no vuelve a notificar ni auditar.
type PaymentUseCase struct {
	txRunner  BillingTxRunner
	payments  repository.PaymentRepository
	clients   repository.ClientRepository
	lifecycle *LifecycleService
	debt      *DebtUseCase
	notifier  Notifier
	audit     AuditLogger
	clock     domain.Clock
	money     *money.Formatter
	log       zerolog.Logger
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(
	txRunner BillingTxRunner,
	payments repository.PaymentRepository,
	clients repository.ClientRepository,
	lifecycle *LifecycleService,
	debt *DebtUseCase,
	notifier Notifier,
	audit AuditLogger,
	clock domain.Clock,
	formatter *money.Formatter,
	log zerolog.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		txRunner:  txRunner,
		payments:  payments,
		clients:   clients,
		lifecycle: lifecycle,
		debt:      debt,
		notifier:  notifier,
		audit:     audit,
		clock:     clock,
		money:     formatter,
		log:       log,
	}
}

// ValidatePayment marca el pago como validado, las facturas vinculadas como pagadas y
// reactiva la valla. Acepta pagos pendientes, rechazados o vencidos; un pago ya validado
// se devuelve sin efectos.
func (uc *PaymentUseCase) ValidatePayment(ctx context.Context, paymentID, actorID string) (*entity.Payment, error) {
	p, from, applied, err := uc.changeStatus(ctx, paymentID, entity.PaymentValidated, func(p *entity.Payment) {
		now := uc.clock.Now()
		p.ValidatedBy = actorID
		p.ValidatedAt = &now
		p.RejectionReason = ""
	})
	if err != nil || !applied {
		return p, err
	}

	newValues := map[string]any{
		"status":      string(entity.PaymentValidated),
		"validatedBy": actorID,
	}
	if p.BillboardID != "" {
		result, err := uc.lifecycle.ApplyByID(ctx, p.BillboardID, domainbilling.Event{Kind: domainbilling.EventPaymentValidated}, actorID)
		if err != nil {
			uc.log.Error().Err(err).Str("payment_id", p.ID).Str("billboard_id", p.BillboardID).Msg("no se pudo reactivar la valla")
		}
		newValues["billboard"] = string(result.To)

		if b, snap, err := uc.debt.CalculateDebt(ctx, p.BillboardID); err == nil && b != nil {
			newValues["currentDebt"] = snap.CurrentDebt.StringFixed(2)
		} else if err != nil {
			uc.log.Warn().Err(err).Str("billboard_id", p.BillboardID).Msg("no se pudo recalcular la deuda tras validar")
		}
	}
	uc.record(ctx, actorID, entity.AuditValidatePayment, p, from, newValues)

	uc.notifyClient(ctx, p, &entity.Notification{
		Type:      entity.NotificationApproval,
		Title:     "Pago validado",
		Message:   fmt.Sprintf("Su pago %s por %s fue validado.", p.ReferenceNumber, uc.money.Format(p.Amount)),
		Data:      map[string]any{"paymentId": p.ID, "billboardId": p.BillboardID},
		SendEmail: true,
		DedupeKey: paymentDedupeKey("payment-validated", p),
	})
	return p, nil
}

// RejectPayment marca el pago como rechazado, las facturas vinculadas como vencidas
// y pasa la valla a deuda. El motivo es obligatorio. Un pago validado también puede
// rechazarse (por ejemplo, un depósito revertido).
func (uc *PaymentUseCase) RejectPayment(ctx context.Context, paymentID, reason, actorID string) (*entity.Payment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("motivo de rechazo requerido: %w", domain.ErrInvalidInput)
	}
	p, from, applied, err := uc.changeStatus(ctx, paymentID, entity.PaymentRejected, func(p *entity.Payment) {
		now := uc.clock.Now()
		p.ValidatedBy = actorID
		p.ValidatedAt = &now
		p.RejectionReason = reason
	})
	if err != nil || !applied {
		return p, err
	}

	newValues := map[string]any{
		"status":          string(entity.PaymentRejected),
		"rejectionReason": reason,
	}
	if p.BillboardID != "" {
		result, err := uc.lifecycle.ApplyByID(ctx, p.BillboardID, domainbilling.Event{Kind: domainbilling.EventPaymentRejected}, actorID)
		if err != nil {
			uc.log.Error().Err(err).Str("payment_id", p.ID).Str("billboard_id", p.BillboardID).Msg("no se pudo pasar la valla a deuda")
		}
		newValues["billboard"] = string(result.To)
	}
	uc.record(ctx, actorID, entity.AuditRejectPayment, p, from, newValues)

	uc.notifyClient(ctx, p, &entity.Notification{
		Type:      entity.NotificationRejection,
		Title:     "Pago rechazado",
		Message:   fmt.Sprintf("Su pago %s fue rechazado. Motivo: %s", p.ReferenceNumber, reason),
		Data:      map[string]any{"paymentId": p.ID, "billboardId": p.BillboardID, "reason": reason},
		SendEmail: true,
		DedupeKey: paymentDedupeKey("payment-rejected", p),
	})
	return p, nil
}

// paymentDedupeKey distingue cada cambio de estado del mismo pago.
func paymentDedupeKey(kind string, p *entity.Payment) string {
	return fmt.Sprintf("%s:%s:%d", kind, p.ID, p.UpdatedAt.UnixNano())
}

// changeStatus mueve el pago a target junto con sus facturas en una transacción y
// devuelve el estado previo. applied=false indica que el pago ya estaba en target
// (no-op idempotente).
func (uc *PaymentUseCase) changeStatus(ctx context.Context, paymentID string, target entity.PaymentStatus, mutate func(*entity.Payment)) (*entity.Payment, entity.PaymentStatus, bool, error) {
	p, err := uc.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, "", false, fmt.Errorf("get payment: %w", err)
	}
	if p == nil {
		return nil, "", false, domain.ErrNotFound
	}
	from := p.Status
	if from == target {
		uc.log.Info().Str("payment_id", p.ID).Str("status", string(target)).Msg("pago ya procesado, sin cambios")
		return p, from, false, nil
	}

	invoiceStatus := entity.InvoiceOverdue
	var paidAt *time.Time
	if target == entity.PaymentValidated {
		invoiceStatus = entity.InvoicePaid
		now := uc.clock.Now()
		paidAt = &now
	}

	mutate(p)
	p.Status = target
	p.UpdatedAt = uc.clock.Now()

	var updated bool
	err = uc.txRunner.RunBilling(ctx, func(payRepo repository.PaymentRepository, invRepo repository.InvoiceRepository) error {
		ok, err := payRepo.UpdateStatus(ctx, p, from)
		if err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		if !ok {
			return nil
		}
		updated = true
		if _, err := invRepo.UpdateStatusByPayment(ctx, p.ID, invoiceStatus, paidAt); err != nil {
			return fmt.Errorf("update invoices: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, from, false, err
	}
	if !updated {
		// Otro proceso ganó la carrera: releer para decidir si fue el mismo cambio.
		fresh, err := uc.payments.GetByID(ctx, paymentID)
		if err != nil {
			return nil, from, false, fmt.Errorf("reload payment: %w", err)
		}
		if fresh != nil && fresh.Status == target {
			return fresh, from, false, nil
		}
		return fresh, from, false, fmt.Errorf("pago modificado concurrentemente: %w", domain.ErrConflict)
	}
	return p, from, true, nil
}

func (uc *PaymentUseCase) record(ctx context.Context, actorID, action string, p *entity.Payment, old entity.PaymentStatus, newValues map[string]any) {
	if err := uc.audit.Record(ctx, &entity.AuditLog{
		UserID:     actorID,
		Action:     action,
		EntityType: "Payment",
		EntityID:   p.ID,
		OldValues:  map[string]any{"status": string(old)},
		NewValues:  newValues,
	}); err != nil {
		uc.log.Warn().Err(err).Str("payment_id", p.ID).Msg("auditoría de pago fallida")
	}
}

func (uc *PaymentUseCase) notifyClient(ctx context.Context, p *entity.Payment, n *entity.Notification) {
	userID, err := uc.clientUserID(ctx, p.ClientID)
	if err != nil || userID == "" {
		uc.log.Warn().Err(err).Str("client_id", p.ClientID).Msg("cliente sin usuario, aviso omitido")
		return
	}
	n.UserID = userID
	if err := uc.notifier.Notify(ctx, n); err != nil && !errors.Is(err, context.Canceled) {
		uc.log.Error().Err(err).Str("payment_id", p.ID).Msg("no se pudo notificar al cliente")
	}
}

func (uc *PaymentUseCase) clientUserID(ctx context.Context, clientID string) (string, error) {
	c, err := uc.clients.GetByID(ctx, clientID)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", domain.ErrNotFound
	}
	return c.UserID, nil
}
