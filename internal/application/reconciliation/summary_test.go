package reconciliation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

func TestSendWeeklySummary_AdministracionYFinanzas(t *testing.T) {
	f := newFixture(t)
	f.seedClient("c1")
	f.seedStaff("admin-1", entity.RoleAdmin)
	f.seedStaff("fin-1", entity.RoleFinance)
	f.seedStaff("tec-1", entity.RoleTechnician)
	f.seedBillboard("b1", "c1", entity.BillboardInDebt, 10, "2500")
	f.seedBillboard("b2", "c1", entity.BillboardActive, 10, "2500")
	f.seedBillboard("b3", "c1", entity.BillboardActive, 10, "2500")
	f.seedPayment("p1", "b1", "c1", "2500", entity.PaymentPending)

	res, err := f.svc.SendWeeklySummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Affected)

	_, err = f.svc.SendWeeklySummary(context.Background())
	require.NoError(t, err)

	summaries := f.store.Notifications(entity.NotificationSystem)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Pagos pendientes: 1. Vallas en mora: 1. Vallas activas: 2.", summaries[0].Message)
	assert.Empty(t, f.store.NotificationsFor("tec-1"))
	assert.Equal(t, 0, f.queue.Count(), "el resumen no se envía por correo")
}
