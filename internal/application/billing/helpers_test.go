package billing_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vallas-api/internal/application/audit"
	"github.com/jhoicas/Vallas-api/internal/application/billing"
	"github.com/jhoicas/Vallas-api/internal/application/notification"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/testutil"
	"github.com/jhoicas/Vallas-api/pkg/money"
)

// ── Fixture ──────────────────────────────────────────────────────────────────

var refNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store     *testutil.Store
	clock     *testutil.FixedClock
	queue     *testutil.EmailQueue
	resolver  *billing.RateResolver
	debt      *billing.DebtUseCase
	lifecycle *billing.LifecycleService
	numbering *billing.InvoiceNumbering
	payments  *billing.PaymentUseCase
	proforma  *billing.ProformaGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	clock := testutil.NewFixedClock(refNow)
	queue := &testutil.EmailQueue{}
	log := zerolog.Nop()
	fmtr := money.NewFormatter("pt-MZ", "MT")

	auditSvc := audit.NewService(store.AuditRepo(), clock, log)
	notifier := notification.NewService(store.NotificationRepo(), store.UserDirectory(), queue, clock, log)
	resolver := billing.NewRateResolver(store.TariffRepo())
	debt := billing.NewDebtUseCase(store.BillboardRepo(), store.PaymentRepo(), resolver, clock, nil, log)
	lifecycle := billing.NewLifecycleService(store.BillboardRepo(), auditSvc, log)
	numbering := billing.NewInvoiceNumbering(store.InvoiceRepo(), clock)

	return &fixture{
		store:     store,
		clock:     clock,
		queue:     queue,
		resolver:  resolver,
		debt:      debt,
		lifecycle: lifecycle,
		numbering: numbering,
		payments: billing.NewPaymentUseCase(store, store.PaymentRepo(), store.ClientRepo(),
			lifecycle, debt, notifier, auditSvc, clock, fmtr, log),
		proforma: billing.NewProformaGenerator(store.BillboardRepo(), store.ClientRepo(), store.InvoiceRepo(),
			resolver, numbering, notifier, auditSvc, clock, fmtr, billing.ProformaConfig{DueDays: 30}, log),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedClient crea cliente con su usuario.
func (f *fixture) seedClient(id string) *entity.Client {
	f.store.AddUser(&entity.User{ID: "user-" + id, Email: id + "@example.com", Role: entity.RoleClient, IsActive: true})
	return f.store.AddClient(&entity.Client{ID: id, UserID: "user-" + id, CompanyName: "Cliente " + id})
}

// seedBillboard valla activa instalada hace days días con tarifa anual fee (vacío = por zona).
func (f *fixture) seedBillboard(id, clientID string, status entity.BillboardStatus, days int, fee string) *entity.Billboard {
	installed := refNow.AddDate(0, 0, -days)
	b := &entity.Billboard{
		ID:               id,
		Code:             "VAL-" + id,
		Type:             entity.BillboardTypeBillboard,
		Status:           status,
		Area:             decimal.NewNullDecimal(dec("12")),
		ClientID:         clientID,
		TariffZoneID:     "zona-centro",
		InstallationDate: &installed,
		IsActive:         true,
		CreatedAt:        installed,
	}
	if fee != "" {
		b.AnnualFee = decimal.NewNullDecimal(dec(fee))
	}
	return f.store.AddBillboard(b)
}

func (f *fixture) seedTariff(price string) *entity.Tariff {
	return f.store.AddTariff(&entity.Tariff{
		ZoneID:        "zona-centro",
		BillboardType: entity.BillboardTypeBillboard,
		PricePerM2:    dec(price),
		IsActive:      true,
		ValidFrom:     refNow.AddDate(-3, 0, 0),
		CreatedAt:     refNow.AddDate(-1, 0, 0),
	})
}
