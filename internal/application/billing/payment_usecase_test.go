package billing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vallas-api/internal/domain"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

func seedPendingPayment(f *fixture, billboardStatus entity.BillboardStatus) *entity.Payment {
	f.seedClient("c1")
	f.seedBillboard("b1", "c1", billboardStatus, 400, "10000")
	p := f.store.AddPayment(&entity.Payment{
		ID: "p1", ReferenceNumber: "MP-123", Amount: dec("20000"), Method: entity.PaymentMethodMpesa,
		Status: entity.PaymentPending, PaymentDate: refNow, BillboardID: "b1", ClientID: "c1",
	})
	f.store.AddInvoice(&entity.Invoice{ID: "i1", Number: "INV-2025-000001", Type: entity.InvoiceTypeInvoice,
		Status: entity.InvoicePending, ClientID: "c1", BillboardID: "b1", PaymentID: "p1", IssueDate: refNow})
	return p
}

func TestValidatePayment_ReactivaValla(t *testing.T) {
	f := newFixture(t)
	seedPendingPayment(f, entity.BillboardInDebt)

	p, err := f.payments.ValidatePayment(context.Background(), "p1", "u-fin")

	require.NoError(t, err)
	assert.Equal(t, entity.PaymentValidated, p.Status)
	assert.Equal(t, "u-fin", f.store.Payment("p1").ValidatedBy)
	assert.Equal(t, entity.BillboardActive, f.store.Billboard("b1").Status)

	invs := f.store.Invoices()
	require.Len(t, invs, 1)
	assert.Equal(t, entity.InvoicePaid, invs[0].Status)
	assert.NotNil(t, invs[0].PaidDate)

	audits := f.store.Audits(entity.AuditValidatePayment)
	require.Len(t, audits, 1)
	assert.Equal(t, "0.00", audits[0].NewValues["currentDebt"], "la deuda recalculada queda en la auditoría")

	notes := f.store.Notifications(entity.NotificationApproval)
	require.Len(t, notes, 1)
	assert.Equal(t, "user-c1", notes[0].UserID)
}

func TestValidatePayment_Idempotente(t *testing.T) {
	f := newFixture(t)
	seedPendingPayment(f, entity.BillboardInDebt)

	_, err := f.payments.ValidatePayment(context.Background(), "p1", "u-fin")
	require.NoError(t, err)
	p, err := f.payments.ValidatePayment(context.Background(), "p1", "u-otro")
	require.NoError(t, err)

	assert.Equal(t, "u-fin", p.ValidatedBy, "el segundo intento no sobrescribe")
	assert.Len(t, f.store.Audits(entity.AuditValidatePayment), 1)
	assert.Len(t, f.store.Notifications(entity.NotificationApproval), 1)
	assert.Len(t, f.store.Audits(entity.AuditBillboardStatusChange), 1)
}

func TestValidatePayment_ConcurrenteUnSoloEfecto(t *testing.T) {
	f := newFixture(t)
	seedPendingPayment(f, entity.BillboardInDebt)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.payments.ValidatePayment(context.Background(), "p1", "u-fin")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, f.store.Audits(entity.AuditValidatePayment), 1)
	assert.Len(t, f.store.Notifications(entity.NotificationApproval), 1)
	assert.Equal(t, entity.BillboardActive, f.store.Billboard("b1").Status)
}

func TestValidatePayment_SobreVallaInactivaNoLaReactiva(t *testing.T) {
	f := newFixture(t)
	seedPendingPayment(f, entity.BillboardInactive)

	_, err := f.payments.ValidatePayment(context.Background(), "p1", "u-fin")

	require.NoError(t, err)
	assert.Equal(t, entity.PaymentValidated, f.store.Payment("p1").Status)
	assert.Equal(t, entity.BillboardInactive, f.store.Billboard("b1").Status)
}

func TestValidatePayment_PagoRechazadoSeValidaYReactiva(t *testing.T) {
	f := newFixture(t)
	seedPendingPayment(f, entity.BillboardActive)
	_, err := f.payments.RejectPayment(context.Background(), "p1", "comprobante ilegible", "u-fin")
	require.NoError(t, err)
	require.Equal(t, entity.BillboardInDebt, f.store.Billboard("b1").Status)

	f.clock.Advance(time.Hour)
	p, err := f.payments.ValidatePayment(context.Background(), "p1", "u-fin")

	require.NoError(t, err)
	assert.Equal(t, entity.PaymentValidated, p.Status)
	assert.Empty(t, f.store.Payment("p1").RejectionReason)
	assert.Equal(t, entity.BillboardActive, f.store.Billboard("b1").Status)
	assert.Equal(t, entity.InvoicePaid, f.store.Invoices()[0].Status)

	audits := f.store.Audits(entity.AuditValidatePayment)
	require.Len(t, audits, 1)
	assert.Equal(t, string(entity.PaymentRejected), audits[0].OldValues["status"])
	assert.Len(t, f.store.Notifications(entity.NotificationApproval), 1)
}

func TestRejectPayment_PagoValidadoSeRevierte(t *testing.T) {
	f := newFixture(t)
	seedPendingPayment(f, entity.BillboardInDebt)
	_, err := f.payments.ValidatePayment(context.Background(), "p1", "u-fin")
	require.NoError(t, err)
	require.Equal(t, entity.BillboardActive, f.store.Billboard("b1").Status)

	f.clock.Advance(time.Hour)
	p, err := f.payments.RejectPayment(context.Background(), "p1", "depósito revertido", "u-fin")

	require.NoError(t, err)
	assert.Equal(t, entity.PaymentRejected, p.Status)
	assert.Equal(t, entity.BillboardInDebt, f.store.Billboard("b1").Status)

	invs := f.store.Invoices()
	require.Len(t, invs, 1)
	assert.Equal(t, entity.InvoiceOverdue, invs[0].Status)
	assert.Nil(t, invs[0].PaidDate)

	audits := f.store.Audits(entity.AuditRejectPayment)
	require.Len(t, audits, 1)
	assert.Equal(t, string(entity.PaymentValidated), audits[0].OldValues["status"])
}

func TestValidatePayment_PagoVencidoSeValida(t *testing.T) {
	f := newFixture(t)
	f.seedClient("c1")
	f.seedBillboard("b1", "c1", entity.BillboardInDebt, 400, "10000")
	f.store.AddPayment(&entity.Payment{
		ID: "p9", ReferenceNumber: "MP-999", Amount: dec("20000"), Method: entity.PaymentMethodMpesa,
		Status: entity.PaymentExpired, PaymentDate: refNow, BillboardID: "b1", ClientID: "c1",
	})

	_, err := f.payments.ValidatePayment(context.Background(), "p9", "u-fin")

	require.NoError(t, err)
	assert.Equal(t, entity.PaymentValidated, f.store.Payment("p9").Status)
	assert.Equal(t, entity.BillboardActive, f.store.Billboard("b1").Status)

	audits := f.store.Audits(entity.AuditValidatePayment)
	require.Len(t, audits, 1)
	assert.Equal(t, string(entity.PaymentExpired), audits[0].OldValues["status"])
}

func TestValidatePayment_SinVallaNoTocaEstados(t *testing.T) {
	f := newFixture(t)
	f.seedClient("c1")
	f.store.AddPayment(&entity.Payment{
		ID: "p5", ReferenceNumber: "MP-555", Amount: dec("500"), Method: entity.PaymentMethodMpesa,
		Status: entity.PaymentPending, PaymentDate: refNow, ClientID: "c1",
	})

	_, err := f.payments.ValidatePayment(context.Background(), "p5", "u-fin")

	require.NoError(t, err)
	assert.Equal(t, entity.PaymentValidated, f.store.Payment("p5").Status)
	assert.Empty(t, f.store.Audits(entity.AuditBillboardStatusChange))

	audits := f.store.Audits(entity.AuditValidatePayment)
	require.Len(t, audits, 1)
	assert.NotContains(t, audits[0].NewValues, "billboard")
	assert.NotContains(t, audits[0].NewValues, "currentDebt")
	assert.Len(t, f.store.Notifications(entity.NotificationApproval), 1)
}

func TestValidatePayment_Inexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.payments.ValidatePayment(context.Background(), "nada", "u-fin")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRejectPayment_PasaVallaADeuda(t *testing.T) {
	f := newFixture(t)
	seedPendingPayment(f, entity.BillboardActive)

	p, err := f.payments.RejectPayment(context.Background(), "p1", "  referencia inexistente ", "u-fin")

	require.NoError(t, err)
	assert.Equal(t, entity.PaymentRejected, p.Status)
	assert.Equal(t, "referencia inexistente", f.store.Payment("p1").RejectionReason)
	assert.Equal(t, entity.BillboardInDebt, f.store.Billboard("b1").Status)
	assert.Equal(t, entity.InvoiceOverdue, f.store.Invoices()[0].Status)

	notes := f.store.Notifications(entity.NotificationRejection)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "referencia inexistente")
	assert.Len(t, f.store.Audits(entity.AuditRejectPayment), 1)
}

func TestRejectPayment_SinMotivoEsInvalido(t *testing.T) {
	f := newFixture(t)
	seedPendingPayment(f, entity.BillboardActive)

	_, err := f.payments.RejectPayment(context.Background(), "p1", "   ", "u-fin")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.PaymentPending, f.store.Payment("p1").Status)
}

func TestRejectPayment_Idempotente(t *testing.T) {
	f := newFixture(t)
	seedPendingPayment(f, entity.BillboardActive)

	_, err := f.payments.RejectPayment(context.Background(), "p1", "duplicado", "u-fin")
	require.NoError(t, err)
	_, err = f.payments.RejectPayment(context.Background(), "p1", "duplicado", "u-fin")
	require.NoError(t, err)

	assert.Len(t, f.store.Notifications(entity.NotificationRejection), 1)
	assert.Len(t, f.store.Audits(entity.AuditRejectPayment), 1)
}
