package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación de NotificationRepository.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create inserta el aviso; si la dedupe_key ya existe no inserta y devuelve false.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) (bool, error) {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, data, send_email, dedupe_key, is_read, email_sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (dedupe_key) WHERE dedupe_key IS NOT NULL DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.Data,
		n.SendEmail, nullString(n.DedupeKey), n.IsRead, n.EmailSent, n.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert notification: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkEmailSent marca el correo del aviso como encolado.
func (r *NotificationRepo) MarkEmailSent(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `UPDATE notifications SET email_sent = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark email sent: %w", err)
	}
	return nil
}
