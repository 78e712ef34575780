// Package notification persiste avisos de usuario con deduplicación y encola
// el correo cuando el aviso lo pide. La entrega es best-effort.
package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/jhoicas/Vallas-api/internal/domain"
	"github.com/jhoicas/Vallas-api/internal/domain/entity"
	"github.com/jhoicas/Vallas-api/internal/domain/repository"
)

// EmailJob mensaje publicado en la cola de correos.
type EmailJob struct {
	NotificationID string         `json:"notification_id"`
	UserID         string         `json:"user_id"`
	To             string         `json:"to"`
	Subject        string         `json:"subject"`
	Body           string         `json:"body"`
	Type           string         `json:"type"`
	Data           map[string]any `json:"data,omitempty"`
}

// EmailQueue puerto de la cola de correos.
type EmailQueue interface {
	Enqueue(ctx context.Context, job EmailJob) error
}

// Service implementa billing.Notifier.
type Service struct {
	repo  repository.NotificationRepository
	users repository.UserDirectory
	queue EmailQueue // nil = sin cola, el correo solo se registra en log
	clock domain.Clock
	log   zerolog.Logger
}

// NewService construye el servicio de avisos.
func NewService(
	repo repository.NotificationRepository,
	users repository.UserDirectory,
	queue EmailQueue,
	clock domain.Clock,
	log zerolog.Logger,
) *Service {
	return &Service{repo: repo, users: users, queue: queue, clock: clock, log: log}
}

// Notify persiste el aviso. Si ya existía uno con la misma DedupeKey no hace nada.
// Los fallos de la cola de correo se registran y no se devuelven.
func (s *Service) Notify(ctx context.Context, n *entity.Notification) error {
	if n.UserID == "" {
		return fmt.Errorf("notify %s: %w", n.Type, domain.ErrInvalidInput)
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = s.clock.Now()

	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	if !created {
		s.log.Debug().Str("dedupe_key", n.DedupeKey).Str("user_id", n.UserID).Msg("aviso ya enviado, se omite")
		return nil
	}
	if n.SendEmail {
		s.enqueueEmail(ctx, n)
	}
	return nil
}

// NotifyRoles envía un aviso a cada usuario activo con alguno de los roles.
// build recibe el usuario y devuelve el aviso; la DedupeKey se completa con el ID del usuario.
func (s *Service) NotifyRoles(ctx context.Context, roles []string, build func(u *entity.User) *entity.Notification) (int, error) {
	users, err := s.users.ListByRoles(ctx, roles...)
	if err != nil {
		return 0, fmt.Errorf("list users by roles: %w", err)
	}
	users = lo.UniqBy(users, func(u *entity.User) string { return u.ID })

	sent := 0
	for _, u := range users {
		n := build(u)
		n.UserID = u.ID
		if n.DedupeKey != "" {
			n.DedupeKey = n.DedupeKey + ":" + u.ID
		}
		if err := s.Notify(ctx, n); err != nil {
			s.log.Error().Err(err).Str("user_id", u.ID).Msg("no se pudo notificar a usuario interno")
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *Service) enqueueEmail(ctx context.Context, n *entity.Notification) {
	if s.queue == nil {
		s.log.Info().Str("notification_id", n.ID).Str("user_id", n.UserID).Msg("cola de correo no configurada, correo omitido")
		return
	}
	u, err := s.users.GetByID(ctx, n.UserID)
	if err != nil || u == nil || u.Email == "" {
		s.log.Warn().Err(err).Str("user_id", n.UserID).Msg("usuario sin email, correo omitido")
		return
	}
	job := EmailJob{
		NotificationID: n.ID,
		UserID:         u.ID,
		To:             u.Email,
		Subject:        n.Title,
		Body:           n.Message,
		Type:           string(n.Type),
		Data:           n.Data,
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.log.Error().Err(err).Str("notification_id", n.ID).Msg("no se pudo encolar el correo")
		return
	}
	if err := s.repo.MarkEmailSent(ctx, n.ID); err != nil {
		s.log.Warn().Err(err).Str("notification_id", n.ID).Msg("no se pudo marcar correo enviado")
	}
}
