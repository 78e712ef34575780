// Package rabbitmq publica los correos de notificación en una cola durable.
// El envío real lo hace un consumidor externo.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/Vallas-api/internal/application/notification"
)

var _ notification.EmailQueue = (*EmailQueue)(nil)

// publisher subconjunto de *amqp.Channel usado para publicar.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// EmailQueue cola de correos sobre RabbitMQ.
type EmailQueue struct {
	mu    sync.Mutex // un canal AMQP no admite publicaciones concurrentes
	conn  *amqp.Connection
	ch    publisher
	queue string
}

// Dial abre la conexión, el canal y declara la cola durable.
func Dial(url, queue string) (*EmailQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("conectar rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("abrir canal: %w", err)
	}
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declarar cola %s: %w", queue, err)
	}
	return &EmailQueue{conn: conn, ch: ch, queue: queue}, nil
}

// newEmailQueue construye la cola sobre un publicador ya abierto.
func newEmailQueue(ch publisher, queue string) *EmailQueue {
	return &EmailQueue{ch: ch, queue: queue}
}

// Enqueue publica el trabajo como JSON persistente. MessageId es el ID del aviso
// para que el consumidor pueda descartar duplicados.
func (q *EmailQueue) Enqueue(ctx context.Context, job notification.EmailJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("serializar correo: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	err = q.ch.PublishWithContext(ctx,
		"",      // exchange
		q.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    job.NotificationID,
			Type:         job.Type,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publicar correo %s: %w", job.NotificationID, err)
	}
	return nil
}

// Close cierra la conexión.
func (q *EmailQueue) Close() error {
	if q.conn == nil {
		return nil
	}
	return q.conn.Close()
}
