//go:build integration

package postgres_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Vallas-api/internal/domain"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
	"github.com/jhoicas/Vallas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Vallas-api/pkg/config"
)

func startDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("vallas_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(dsn, zerolog.Nop()))

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

type seed struct {
	userID, clientID, billboardID string
}

func seedData(t *testing.T, pool *pgxpool.Pool) seed {
	t.Helper()
	ctx := context.Background()
	s := seed{userID: uuid.NewString(), clientID: uuid.NewString(), billboardID: uuid.NewString()}

	_, err := pool.Exec(ctx, `INSERT INTO users (id, email, name, role) VALUES ($1, $2, 'Cliente', 'client')`,
		s.userID, s.userID+"@example.com")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO clients (id, user_id, company_name) VALUES ($1, $2, 'Publicidad Lda')`,
		s.clientID, s.userID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		INSERT INTO billboards (id, code, type, status, area, annual_fee, client_id, tariff_zone_id,
			installation_date, contract_expiry_date)
		VALUES ($1, $2, 'billboard', 'active', 12, 2500, $3, 'zona-centro', $4, '2025-04-14')`,
		s.billboardID, "VAL-"+s.billboardID[:8], s.clientID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return s
}

func TestPostgres_Integracion(t *testing.T) {
	pool := startDB(t)
	ctx := context.Background()
	s := seedData(t, pool)

	t.Run("lectura de valla y filtro por vencimiento", func(t *testing.T) {
		repo := postgres.NewBillboardRepository(pool)
		b, err := repo.GetByID(ctx, s.billboardID)
		require.NoError(t, err)
		require.NotNil(t, b)
		assert.Equal(t, entity.BillboardActive, b.Status)
		assert.True(t, b.AnnualFee.Decimal.Equal(decimal.NewFromInt(2500)))
		assert.Equal(t, s.clientID, b.ClientID)

		expiry := time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)
		list, err := repo.List(ctx, repository.BillboardFilter{
			Statuses:    []entity.BillboardStatus{entity.BillboardActive},
			OnlyEnabled: true,
			ExpiresOn:   &expiry,
		})
		require.NoError(t, err)
		require.Len(t, list, 1)

		other := expiry.AddDate(0, 0, 1)
		list, err = repo.List(ctx, repository.BillboardFilter{ExpiresOn: &other})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("cambio de estado condicional", func(t *testing.T) {
		repo := postgres.NewBillboardRepository(pool)
		ok, err := repo.CompareAndSetStatus(ctx, s.billboardID, entity.BillboardActive, entity.BillboardInDebt)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.CompareAndSetStatus(ctx, s.billboardID, entity.BillboardActive, entity.BillboardInDebt)
		require.NoError(t, err)
		assert.False(t, ok)

		n, err := repo.CountByStatus(ctx, entity.BillboardInDebt)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("secuencia de numeración concurrente", func(t *testing.T) {
		repo := postgres.NewInvoiceRepository(pool)
		var (
			mu  sync.Mutex
			got []int64
			wg  sync.WaitGroup
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				n, err := repo.NextSequence(ctx, "PRO", 2025, 0)
				assert.NoError(t, err)
				mu.Lock()
				got = append(got, n)
				mu.Unlock()
			}()
		}
		wg.Wait()
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		require.Len(t, got, 20)
		assert.Equal(t, int64(1), got[0])
		assert.Equal(t, int64(20), got[19])

		n, err := repo.NextSequence(ctx, "PRO", 2025, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(101), n)
	})

	t.Run("unicidad de número y de pro-forma mensual", func(t *testing.T) {
		repo := postgres.NewInvoiceRepository(pool)
		issue := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
		newInv := func(number string) *entity.Invoice {
			return &entity.Invoice{
				Number: number, Type: entity.InvoiceTypeProforma, Status: entity.InvoicePending,
				Amount: decimal.NewFromInt(2500), TaxAmount: decimal.NewFromInt(400), TotalAmount: decimal.NewFromInt(2900),
				IssueDate: issue, DueDate: issue.AddDate(0, 0, 30),
				ClientID: s.clientID, BillboardID: s.billboardID, IssuedBy: entity.ActorSystem,
				CreatedAt: issue, UpdatedAt: issue,
			}
		}

		require.NoError(t, repo.Create(ctx, newInv("PRO-2025-000001")))

		latest, err := repo.FindLatestNumber(ctx, "PRO", 2025)
		require.NoError(t, err)
		assert.Equal(t, "PRO-2025-000001", latest)

		exists, err := repo.ExistsProformaForMonth(ctx, s.billboardID, issue)
		require.NoError(t, err)
		assert.True(t, exists)

		err = repo.Create(ctx, newInv("PRO-2025-000001"))
		assert.ErrorIs(t, err, domain.ErrNumberingConflict)

		err = repo.Create(ctx, newInv("PRO-2025-000002"))
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("deduplicación de avisos", func(t *testing.T) {
		repo := postgres.NewNotificationRepository(pool)
		n := func() *entity.Notification {
			return &entity.Notification{
				ID: uuid.NewString(), UserID: s.userID, Type: entity.NotificationAlert,
				Title: "Valla en mora", Message: "m", Data: map[string]any{"billboardId": s.billboardID},
				DedupeKey: "overdue:" + s.billboardID + ":2025-03-15", CreatedAt: time.Now(),
			}
		}
		created, err := repo.Create(ctx, n())
		require.NoError(t, err)
		assert.True(t, created)

		created, err = repo.Create(ctx, n())
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("auditoría con valores JSON", func(t *testing.T) {
		repo := postgres.NewAuditRepository(pool)
		err := repo.Create(ctx, &entity.AuditLog{
			ID: uuid.NewString(), UserID: entity.ActorSystem, Action: entity.AuditBillboardStatusChange,
			EntityType: "billboard", EntityID: s.billboardID,
			OldValues: map[string]any{"status": "active"}, NewValues: map[string]any{"status": "in_debt"},
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	})
}
