package reconciliation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

func TestGenerateMonthlyProformas_UnaPorVallaYMes(t *testing.T) {
	f := newFixture(t)
	f.seedClient("c1")
	f.seedTariff("500")
	f.seedBillboard("b1", "c1", entity.BillboardActive, 10, "")
	f.seedBillboard("b2", "c1", entity.BillboardSuspended, 10, "")

	res, err := f.svc.GenerateMonthlyProformas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Affected)

	res, err = f.svc.GenerateMonthlyProformas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Affected)
	assert.Equal(t, 1, res.Skipped)

	pros := f.proformas()
	require.Len(t, pros, 1)
	assert.Equal(t, "b1", pros[0].BillboardID)
	assert.Equal(t, "PRO-2025-000001", pros[0].Number)
	assert.Len(t, f.store.Notifications(entity.NotificationProformaInvoice), 1)
}

func TestGenerateMonthlyProformas_NuevoMesNuevaProforma(t *testing.T) {
	f := newFixture(t)
	f.seedClient("c1")
	f.seedTariff("500")
	f.seedBillboard("b1", "c1", entity.BillboardActive, 10, "")

	_, err := f.svc.GenerateMonthlyProformas(context.Background())
	require.NoError(t, err)
	f.clock.Set(time.Date(2025, 4, 1, 6, 0, 0, 0, time.UTC))
	_, err = f.svc.GenerateMonthlyProformas(context.Background())
	require.NoError(t, err)

	pros := f.proformas()
	require.Len(t, pros, 2)
	numbers := []string{pros[0].Number, pros[1].Number}
	assert.ElementsMatch(t, []string{"PRO-2025-000001", "PRO-2025-000002"}, numbers)
}

func TestGenerateMonthlyProformas_SinTarifaSeOmiteSinFallar(t *testing.T) {
	f := newFixture(t)
	f.seedClient("c1")
	f.seedBillboard("b1", "c1", entity.BillboardActive, 10, "")

	res, err := f.svc.GenerateMonthlyProformas(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0, res.Failed)
	assert.Empty(t, f.proformas())
}
