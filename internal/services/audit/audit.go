// Package audit публикует события безопасности: входы, смену пароля,
// изменение статуса и роли пользователей.
//
// Публикация выполняется по принципу best-effort: ошибка брокера
// только логируется и никогда не влияет на результат запроса.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/university-portal/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/university-portal/internal/lib/sl"
)

// EventType задаёт тип события и одновременно routing key в exchange.
type EventType string

// Типы событий безопасности.
const (
	EventLoginSucceeded    EventType = "auth.login.succeeded"
	EventLoginFailed       EventType = "auth.login.failed"
	EventPasswordChanged   EventType = "auth.password.changed"
	EventUserStatusChanged EventType = "users.status.changed"
	EventUserRoleChanged   EventType = "users.role.changed"
)

// Event описывает событие безопасности.
type Event struct {
	Type       EventType `json:"type"`
	UserID     string    `json:"userId,omitempty"`
	Email      string    `json:"email,omitempty"`
	ActorID    string    `json:"actorId,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher публикует события безопасности.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// AMQPPublisher отправляет события в RabbitMQ.
type AMQPPublisher struct {
	mu       sync.Mutex
	ch       rabbitmq.Channel
	exchange string
	log      *slog.Logger
}

// NewAMQPPublisher создаёт публикатор поверх открытого канала.
func NewAMQPPublisher(log *slog.Logger, ch rabbitmq.Channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{
		ch:       ch,
		exchange: exchange,
		log:      log,
	}
}

// Publish отправляет событие; ошибка брокера логируется на уровне WARN.
func (p *AMQPPublisher) Publish(_ context.Context, event Event) {
	const op = "audit.AMQPPublisher.Publish"
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	// amqp.Channel не рассчитан на конкурентную публикацию.
	p.mu.Lock()
	err := rabbitmq.PublishMessage(p.ch, p.exchange, string(event.Type), event)
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("failed to publish security event",
			slog.String("op", op),
			slog.String("event", string(event.Type)),
			sl.Err(err),
		)
	}
}

// LogPublisher пишет события в лог. Используется, когда брокер не настроен.
type LogPublisher struct {
	log *slog.Logger
}

// NewLogPublisher создаёт публикатор, который только логирует события.
func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// Publish пишет событие в лог на уровне INFO.
func (p *LogPublisher) Publish(_ context.Context, event Event) {
	p.log.Info("security event",
		slog.String("event", string(event.Type)),
		slog.String("user_id", event.UserID),
		slog.String("email", event.Email),
		slog.String("actor_id", event.ActorID),
		slog.String("reason", event.Reason),
	)
}
