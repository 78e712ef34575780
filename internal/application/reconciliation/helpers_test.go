package reconciliation_test

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vallas-api/internal/application/audit"
	"github.com/jhoicas/Vallas-api/internal/application/billing"
	"github.com/jhoicas/Vallas-api/internal/application/notification"
	"github.com/jhoicas/Vallas-api/internal/application/reconciliation"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/testutil"
	"github.com/jhoicas/Vallas-api/pkg/money"
)

var refNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store   *testutil.Store
	clock   *testutil.FixedClock
	queue   *testutil.EmailQueue
	svc     *reconciliation.Service
	locker  *reconciliation.LocalLocker
	metrics *fakeMetrics
	runner  *reconciliation.Runner
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
	proforma := billing.NewProformaGenerator(store.BillboardRepo(), store.ClientRepo(), store.InvoiceRepo(),
		resolver, numbering, notifier, auditSvc, clock, fmtr, billing.ProformaConfig{DueDays: 30}, log)

	svc := reconciliation.NewService(store.BillboardRepo(), store.PaymentRepo(), store.ClientRepo(),
		debt, lifecycle, proforma, notifier, clock, fmtr,
		reconciliation.Config{Workers: 4, DueSoonDays: 7}, log)
	locker := reconciliation.NewLocalLocker()
	metrics := &fakeMetrics{}

	return &fixture{
		store:   store,
		clock:   clock,
		queue:   queue,
		svc:     svc,
		locker:  locker,
		metrics: metrics,
		runner: reconciliation.NewRunner(svc, locker, metrics,
			reconciliation.RunnerConfig{Timeout: time.Minute}, log),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func (f *fixture) seedClient(id string) *entity.Client {
	f.store.AddUser(&entity.User{ID: "user-" + id, Email: id + "@example.com", Role: entity.RoleClient, IsActive: true})
	return f.store.AddClient(&entity.Client{ID: id, UserID: "user-" + id, CompanyName: "Cliente " + id})
}

func (f *fixture) seedStaff(id, role string) *entity.User {
	return f.store.AddUser(&entity.User{ID: id, Email: id + "@vallas.co.mz", Role: role, IsActive: true})
}

// seedBillboard valla instalada hace days días con tarifa anual fee (vacío = por zona).
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

func (f *fixture) seedExpiring(id, clientID string, expiry *time.Time) *entity.Billboard {
	b := f.seedBillboard(id, clientID, entity.BillboardActive, 300, "2500")
	b.ContractExpiryDate = expiry
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

func (f *fixture) seedPayment(id, billboardID, clientID, amount string, status entity.PaymentStatus) *entity.Payment {
	return f.store.AddPayment(&entity.Payment{
		ID:          id,
		Amount:      dec(amount),
		Method:      entity.PaymentMethodBankTransfer,
		Status:      status,
		PaymentDate: refNow.AddDate(0, 0, -1),
		BillboardID: billboardID,
		ClientID:    clientID,
		CreatedAt:   refNow.AddDate(0, 0, -1),
	})
}

func (f *fixture) proformas() []*entity.Invoice {
	var out []*entity.Invoice
	for _, inv := range f.store.Invoices() {
		if inv.Type == entity.InvoiceTypeProforma {
			out = append(out, inv)
		}
	}
	return out
}

type fakeMetrics struct {
	mu       sync.Mutex
	observed []reconciliation.SweepResult
	errs     []error
	skipped  []reconciliation.Sweep
}

func (m *fakeMetrics) ObserveSweep(res reconciliation.SweepResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observed = append(m.observed, res)
	m.errs = append(m.errs, err)
}

func (m *fakeMetrics) SweepSkipped(sweep reconciliation.Sweep) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped = append(m.skipped, sweep)
}
