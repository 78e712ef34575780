package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vallas-api/internal/domain"
	domainbilling "github.com/jhoicas/Vallas-api/internal/domain/billing"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
)

func TestLifecycle_ApplyAuditaCambioEfectivo(t *testing.T) {
	f := newFixture(t)
	f.seedBillboard("b1", "c1", entity.BillboardActive, 10, "1000")

	res, err := f.lifecycle.ApplyByID(context.Background(), "b1", domainbilling.Event{Kind: domainbilling.EventPaymentRejected}, "u-fin")

	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, entity.BillboardInDebt, f.store.Billboard("b1").Status)
	audits := f.store.Audits(entity.AuditBillboardStatusChange)
	require.Len(t, audits, 1)
	assert.Equal(t, "active", audits[0].OldValues["status"])
	assert.Equal(t, "in_debt", audits[0].NewValues["status"])
	assert.Equal(t, "u-fin", audits[0].UserID)
}

func TestLifecycle_NoopNoAudita(t *testing.T) {
	f := newFixture(t)
	f.seedBillboard("b1", "c1", entity.BillboardInactive, 10, "1000")

	res, err := f.lifecycle.ApplyByID(context.Background(), "b1", domainbilling.Event{Kind: domainbilling.EventPaymentValidated}, "u-fin")

	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, entity.BillboardInactive, f.store.Billboard("b1").Status)
	assert.Empty(t, f.store.Audits())
}

// Otro proceso pasa la valla a inactive entre la lectura y la escritura:
// la re-decisión sobre el estado real resulta en no-op.
func TestLifecycle_CASPerdidoReleeYRedecide(t *testing.T) {
	f := newFixture(t)
	f.seedBillboard("b1", "c1", entity.BillboardInDebt, 10, "1000")
	f.store.CASLosses["b1"] = 1
	f.store.CASLossStatus["b1"] = entity.BillboardInactive

	res, err := f.lifecycle.ApplyByID(context.Background(), "b1", domainbilling.Event{Kind: domainbilling.EventPaymentValidated}, "u-fin")

	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, entity.BillboardInactive, f.store.Billboard("b1").Status)
}

func TestLifecycle_CASPerdidoSiempreEsConflicto(t *testing.T) {
	f := newFixture(t)
	f.seedBillboard("b1", "c1", entity.BillboardActive, 10, "1000")
	f.store.CASLosses["b1"] = 10

	_, err := f.lifecycle.ApplyByID(context.Background(), "b1", domainbilling.Event{Kind: domainbilling.EventContractExpired}, entity.ActorSystem)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLifecycle_ApprovePendiente(t *testing.T) {
	f := newFixture(t)
	f.seedBillboard("b1", "c1", entity.BillboardPending, 0, "1000")

	res, err := f.lifecycle.Approve(context.Background(), "b1", "u-admin")

	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, entity.BillboardActive, f.store.Billboard("b1").Status)
}
