package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vallas-api/internal/application/billing"
	"github.com/jhoicas/Vallas-api/internal/domain"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

func TestGenerateForBillboard_EmiteProforma(t *testing.T) {
	f := newFixture(t)
	f.seedClient("c1")
	f.seedBillboard("b1", "c1", entity.BillboardActive, 10, "")
	f.seedTariff("500") // 12 m² → 6000

	inv := f.proforma.GenerateForBillboard(context.Background(), "b1")

	require.NotNil(t, inv)
	assert.Equal(t, "PRO-2025-000001", inv.Number)
	assert.Equal(t, entity.InvoiceTypeProforma, inv.Type)
	assert.True(t, inv.Amount.Equal(dec("6000")))
	assert.True(t, inv.TaxAmount.Equal(dec("960")))
	assert.True(t, inv.TotalAmount.Equal(dec("6960")))
	assert.Equal(t, refNow.AddDate(0, 0, 30), inv.DueDate)
	assert.Equal(t, "b1", inv.BillboardID)

	require.Len(t, f.store.Notifications(entity.NotificationProformaInvoice), 1)
	assert.Equal(t, 1, f.queue.Count(), "la pro-forma se envía por correo")
	audits := f.store.Audits(entity.AuditGenerateProforma)
	require.Len(t, audits, 1)
	assert.Equal(t, entity.ActorSystem, audits[0].UserID)
}

func TestGenerateForBillboard_TarifaAlmacenadaTienePrioridad(t *testing.T) {
	f := newFixture(t)
	f.seedClient("c1")
	f.seedBillboard("b1", "c1", entity.BillboardActive, 10, "2500")
	f.seedTariff("500")

	inv := f.proforma.GenerateForBillboard(context.Background(), "b1")

	require.NotNil(t, inv)
	assert.True(t, inv.Amount.Equal(dec("2500")))
}

func TestGenerateForBillboard_SinTarifaDevuelveNil(t *testing.T) {
	f := newFixture(t)
	f.seedClient("c1")
	f.seedBillboard("b1", "c1", entity.BillboardActive, 10, "")

	assert.Nil(t, f.proforma.GenerateForBillboard(context.Background(), "b1"))
	assert.Empty(t, f.store.Invoices())

	_, err := f.proforma.Generate(context.Background(), "b1")
	assert.ErrorIs(t, err, domain.ErrRateUnresolved)
}

func TestGenerateForBillboard_VallaInexistenteDevuelveNil(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.proforma.GenerateForBillboard(context.Background(), "nada"))
}

func TestGenerate_ReintentaAnteColisionDeNumero(t *testing.T) {
	f := newFixture(t)
	f.seedClient("c1")
	f.seedBillboard("b1", "c1", entity.BillboardActive, 10, "1000")
	f.seedTariff("500")
	f.store.NumberConflicts = 2

	inv, err := f.proforma.Generate(context.Background(), "b1")

	require.NoError(t, err)
	assert.Equal(t, "PRO-2025-000003", inv.Number, "cada reintento toma un número nuevo")
	assert.Len(t, f.store.Invoices(), 1)
}

func TestGenerate_ColisionPersistenteFalla(t *testing.T) {
	f := newFixture(t)
	f.seedClient("c1")
	f.seedBillboard("b1", "c1", entity.BillboardActive, 10, "1000")
	f.seedTariff("500")
	f.store.NumberConflicts = 100

	_, err := f.proforma.Generate(context.Background(), "b1")

	assert.ErrorIs(t, err, domain.ErrNumberingConflict)
}

func TestGenerateMonthly_UnaPorMes(t *testing.T) {
	f := newFixture(t)
	f.seedClient("c1")
	b := f.seedBillboard("b1", "c1", entity.BillboardActive, 10, "1000")
	f.seedTariff("500")

	out, inv, err := f.proforma.GenerateMonthly(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, billing.ProformaCreated, out)
	require.NotNil(t, inv)

	out, _, err = f.proforma.GenerateMonthly(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, billing.ProformaAlreadyIssued, out)
	assert.Len(t, f.store.Invoices(), 1)

	f.clock.Set(refNow.AddDate(0, 1, 0))
	out, _, err = f.proforma.GenerateMonthly(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, billing.ProformaCreated, out, "el mes siguiente vuelve a emitir")
	assert.Len(t, f.store.Invoices(), 2)
}

func TestGenerateMonthly_SinTarifaSeOmite(t *testing.T) {
	f := newFixture(t)
	f.seedClient("c1")
	b := f.seedBillboard("b1", "c1", entity.BillboardActive, 10, "1000")

	out, _, err := f.proforma.GenerateMonthly(context.Background(), b)

	require.NoError(t, err)
	assert.Equal(t, billing.ProformaSkippedNoRate, out)
}
