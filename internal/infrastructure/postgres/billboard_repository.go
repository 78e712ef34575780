package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

var _ repository.BillboardRepository = (*BillboardRepo)(nil)

// BillboardRepo implementación de BillboardRepository (usable con pool o tx).
type BillboardRepo struct {
	q Querier
}

// NewBillboardRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillboardRepository(q Querier) *BillboardRepo {
	return &BillboardRepo{q: q}
}

const billboardColumns = `
	id, code, name, type, status, width, height, area, annual_fee,
	client_id, tariff_zone_id, installation_date, contract_expiry_date,
	is_active, created_at, updated_at`

// GetByID obtiene una valla por ID.
func (r *BillboardRepo) GetByID(ctx context.Context, id string) (*entity.Billboard, error) {
	query := `SELECT ` + billboardColumns + ` FROM billboards WHERE id = $1`
	b, err := scanBillboard(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get billboard: %w", err)
	}
	return b, nil
}

// List devuelve las vallas que cumplen el filtro ordenadas por código.
func (r *BillboardRepo) List(ctx context.Context, f repository.BillboardFilter) ([]*entity.Billboard, error) {
	var (
		where []string
		args  []any
	)
	if len(f.Statuses) > 0 {
		args = append(args, lo.Map(f.Statuses, func(s entity.BillboardStatus, _ int) string { return string(s) }))
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if f.ClientID != "" {
		args = append(args, f.ClientID)
		where = append(where, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if f.OnlyEnabled {
		where = append(where, "is_active")
	}
	if f.ExpiresOn != nil {
		args = append(args, f.ExpiresOn.Format("2006-01-02"))
		where = append(where, fmt.Sprintf("contract_expiry_date = $%d::date", len(args)))
	}

	query := `SELECT ` + billboardColumns + ` FROM billboards`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY code`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list billboards: %w", err)
	}
	defer rows.Close()

	var list []*entity.Billboard
	for rows.Next() {
		b, err := scanBillboard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan billboard: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// CompareAndSetStatus cambia el estado solo si el actual coincide con from.
func (r *BillboardRepo) CompareAndSetStatus(ctx context.Context, id string, from, to entity.BillboardStatus) (bool, error) {
	query := `UPDATE billboards SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("update billboard status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountByStatus cuenta las vallas habilitadas en un estado.
func (r *BillboardRepo) CountByStatus(ctx context.Context, status entity.BillboardStatus) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM billboards WHERE status = $1 AND is_active`, string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count billboards: %w", err)
	}
	return n, nil
}

func scanBillboard(row pgxScanner) (*entity.Billboard, error) {
	var (
		b        entity.Billboard
		clientID *string
	)
	err := row.Scan(
		&b.ID, &b.Code, &b.Name, &b.Type, &b.Status,
		&b.Width, &b.Height, &b.Area, &b.AnnualFee,
		&clientID, &b.TariffZoneID, &b.InstallationDate, &b.ContractExpiryDate,
		&b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.ClientID = fromNullString(clientID)
	return &b, nil
}
