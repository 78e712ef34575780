// Package testutil contiene dobles en memoria de los puertos de persistencia
// y utilidades compartidas por los tests de la aplicación.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Vallas-api/internal/domain"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

// Store base de datos en memoria, segura para uso concurrente.
type Store struct {
	mu            sync.Mutex
	billboards    map[string]*entity.Billboard
	clients       map[string]*entity.Client
	payments      map[string]*entity.Payment
	tariffs       []*entity.Tariff
	invoices      map[string]*entity.Invoice
	sequences     map[string]int64
	users         map[string]*entity.User
	notifications []*entity.Notification
	dedupe        map[string]bool
	audits        []*entity.AuditLog

	// Inyección de fallos.
	PaymentErrors      map[string]error // por billboard_id en ListValidatedByBillboard
	NumberConflicts    int              // próximos Create que fallan con ErrNumberingConflict
	CASLosses          map[string]int   // CAS perdidos a simular por billboard_id
	CASLossStatus      map[string]entity.BillboardStatus
	NotificationErrors error
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		billboards:    map[string]*entity.Billboard{},
		clients:       map[string]*entity.Client{},
		payments:      map[string]*entity.Payment{},
		invoices:      map[string]*entity.Invoice{},
		sequences:     map[string]int64{},
		users:         map[string]*entity.User{},
		dedupe:        map[string]bool{},
		PaymentErrors: map[string]error{},
		CASLosses:     map[string]int{},
		CASLossStatus: map[string]entity.BillboardStatus{},
	}
}

// ── Carga de datos ───────────────────────────────────────────────────────────

func (s *Store) AddBillboard(b *entity.Billboard) *entity.Billboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	cp := *b
	s.billboards[b.ID] = &cp
	return b
}

func (s *Store) AddClient(c *entity.Client) *entity.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.clients[c.ID] = &cp
	return c
}

func (s *Store) AddPayment(p *entity.Payment) *entity.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	cp := *p
	s.payments[p.ID] = &cp
	return p
}

func (s *Store) AddTariff(t *entity.Tariff) *entity.Tariff {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	cp := *t
	s.tariffs = append(s.tariffs, &cp)
	return t
}

func (s *Store) AddUser(u *entity.User) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
	return u
}

func (s *Store) AddInvoice(inv *entity.Invoice) *entity.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	cp := *inv
	s.invoices[inv.ID] = &cp
	return inv
}

// ── Consultas para aserciones ────────────────────────────────────────────────

// Billboard copia actual de la valla.
func (s *Store) Billboard(id string) *entity.Billboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.billboards[id]
	if !ok {
		return nil
	}
	cp := *b
	return &cp
}

// Payment copia actual del pago.
func (s *Store) Payment(id string) *entity.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// Invoices facturas ordenadas por número.
func (s *Store) Invoices() []*entity.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		cp := *inv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Notifications avisos persistidos, opcionalmente filtrados por tipo.
func (s *Store) Notifications(types ...entity.NotificationType) []*entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Notification
	for _, n := range s.notifications {
		if len(types) > 0 && !containsType(types, n.Type) {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	return out
}

// NotificationsFor avisos de un usuario.
func (s *Store) NotificationsFor(userID string) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range s.Notifications() {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// Audits entradas de auditoría, opcionalmente filtradas por acción.
func (s *Store) Audits(actions ...string) []*entity.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.AuditLog
	for _, a := range s.audits {
		if len(actions) > 0 && !containsString(actions, a.Action) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out
}

func containsType(list []entity.NotificationType, t entity.NotificationType) bool {
	for _, x := range list {
		if x == t {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// ── Adaptadores de repositorio ───────────────────────────────────────────────

func (s *Store) BillboardRepo() repository.BillboardRepository       { return billboardRepo{s} }
func (s *Store) ClientRepo() repository.ClientRepository             { return clientRepo{s} }
func (s *Store) PaymentRepo() repository.PaymentRepository           { return paymentRepo{s} }
func (s *Store) TariffRepo() repository.TariffRepository             { return tariffRepo{s} }
func (s *Store) InvoiceRepo() repository.InvoiceRepository           { return invoiceRepo{s} }
func (s *Store) UserDirectory() repository.UserDirectory             { return userDirectory{s} }
func (s *Store) NotificationRepo() repository.NotificationRepository { return notificationRepo{s} }
func (s *Store) AuditRepo() repository.AuditRepository               { return auditRepo{s} }

// RunBilling ejecuta fn con los repos del store (sin rollback real).
func (s *Store) RunBilling(ctx context.Context, fn func(payments repository.PaymentRepository, invoices repository.InvoiceRepository) error) error {
	return fn(s.PaymentRepo(), s.InvoiceRepo())
}

type billboardRepo struct{ s *Store }

func (r billboardRepo) GetByID(_ context.Context, id string) (*entity.Billboard, error) {
	return r.s.Billboard(id), nil
}

func (r billboardRepo) List(_ context.Context, f repository.BillboardFilter) ([]*entity.Billboard, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Billboard
	for _, b := range r.s.billboards {
		if len(f.Statuses) > 0 {
			match := false
			for _, st := range f.Statuses {
				if b.Status == st {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		if f.OnlyEnabled && !b.IsActive {
			continue
		}
		if f.ClientID != "" && b.ClientID != f.ClientID {
			continue
		}
		if f.ExpiresOn != nil {
			if b.ContractExpiryDate == nil || !sameDay(*b.ContractExpiryDate, *f.ExpiresOn) {
				continue
			}
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r billboardRepo) CompareAndSetStatus(_ context.Context, id string, from, to entity.BillboardStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.billboards[id]
	if !ok {
		return false, nil
	}
	if r.s.CASLosses[id] > 0 {
		r.s.CASLosses[id]--
		if st, ok := r.s.CASLossStatus[id]; ok {
			b.Status = st
		}
		return false, nil
	}
	if b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (r billboardRepo) CountByStatus(_ context.Context, status entity.BillboardStatus) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, b := range r.s.billboards {
		if b.Status == status && b.IsActive {
			n++
		}
	}
	return n, nil
}

type clientRepo struct{ s *Store }

func (r clientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	return r.s.Payment(id), nil
}

func (r paymentRepo) ListValidatedByBillboard(_ context.Context, billboardID string) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.PaymentErrors[billboardID]; err != nil {
		return nil, err
	}
	var out []*entity.Payment
	for _, p := range r.s.payments {
		if p.BillboardID == billboardID && p.Status == entity.PaymentValidated {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r paymentRepo) UpdateStatus(_ context.Context, p *entity.Payment, from entity.PaymentStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.payments[p.ID]
	if !ok || cur.Status != from {
		return false, nil
	}
	cur.Status = p.Status
	cur.ValidatedBy = p.ValidatedBy
	cur.ValidatedAt = p.ValidatedAt
	cur.RejectionReason = p.RejectionReason
	cur.UpdatedAt = p.UpdatedAt
	return true, nil
}

func (r paymentRepo) CountByStatus(_ context.Context, status entity.PaymentStatus) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.payments {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

type tariffRepo struct{ s *Store }

func (r tariffRepo) FindActive(_ context.Context, zoneID string, t entity.BillboardType) (*entity.Tariff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *entity.Tariff
	for _, tr := range r.s.tariffs {
		if !tr.IsActive || tr.ZoneID != zoneID || tr.BillboardType != t {
			continue
		}
		if best == nil || tr.CreatedAt.After(best.CreatedAt) ||
			(tr.CreatedAt.Equal(best.CreatedAt) && tr.ID > best.ID) {
			best = tr
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

type invoiceRepo struct{ s *Store }

func (r invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.NumberConflicts > 0 {
		r.s.NumberConflicts--
		return fmt.Errorf("insert invoice %s: %w", inv.Number, domain.ErrNumberingConflict)
	}
	for _, existing := range r.s.invoices {
		if existing.Number == inv.Number {
			return fmt.Errorf("insert invoice %s: %w", inv.Number, domain.ErrNumberingConflict)
		}
		if inv.Type == entity.InvoiceTypeProforma && existing.Type == entity.InvoiceTypeProforma &&
			inv.BillboardID != "" && existing.BillboardID == inv.BillboardID &&
			sameMonth(existing.IssueDate, inv.IssueDate) {
			return fmt.Errorf("insert proforma: %w", domain.ErrDuplicate)
		}
	}
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	cp := *inv
	r.s.invoices[inv.ID] = &cp
	return nil
}

func (r invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r invoiceRepo) FindLatestNumber(_ context.Context, prefix string, year int) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	head := fmt.Sprintf("%s-%d-", prefix, year)
	latest := ""
	for _, inv := range r.s.invoices {
		if strings.HasPrefix(inv.Number, head) && inv.Number > latest {
			latest = inv.Number
		}
	}
	return latest, nil
}

func (r invoiceRepo) NextSequence(_ context.Context, prefix string, year int, floor int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := fmt.Sprintf("%s-%d", prefix, year)
	cur := r.s.sequences[key]
	if floor > cur {
		cur = floor
	}
	cur++
	r.s.sequences[key] = cur
	return cur, nil
}

func (r invoiceRepo) ExistsProformaForMonth(_ context.Context, billboardID string, monthStart time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.Type == entity.InvoiceTypeProforma && inv.BillboardID == billboardID && sameMonth(inv.IssueDate, monthStart) {
			return true, nil
		}
	}
	return false, nil
}

func (r invoiceRepo) UpdateStatusByPayment(_ context.Context, paymentID string, status entity.InvoiceStatus, paidAt *time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, inv := range r.s.invoices {
		if inv.PaymentID == paymentID {
			inv.Status = status
			inv.PaidDate = paidAt
			n++
		}
	}
	return n, nil
}

type userDirectory struct{ s *Store }

func (r userDirectory) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r userDirectory) ListByRoles(_ context.Context, roles ...string) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if u.IsActive && containsString(roles, u.Role) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, n *entity.Notification) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.NotificationErrors != nil {
		return false, r.s.NotificationErrors
	}
	if n.DedupeKey != "" {
		if r.s.dedupe[n.DedupeKey] {
			return false, nil
		}
		r.s.dedupe[n.DedupeKey] = true
	}
	cp := *n
	r.s.notifications = append(r.s.notifications, &cp)
	return true, nil
}

func (r notificationRepo) MarkEmailSent(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.ID == id {
			n.EmailSent = true
		}
	}
	return nil
}

type auditRepo struct{ s *Store }

func (r auditRepo) Create(_ context.Context, entry *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *entry
	r.s.audits = append(r.s.audits, &cp)
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
