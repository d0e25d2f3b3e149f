// Package notify доставляет уведомления во внешний почтовый сервис.
package notify

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Шаблоны писем почтового сервиса.
const (
	TemplateOrderCreated   = "email/notify_order_pitch.html"
	TemplateOrderConfirmed = "email/notify_order_confirmed.html"
	TemplateOrderCancelled = "email/notify_order_cancelled.html"
	TemplateMonthlyReport  = "email/sale_statistics.html"
)

// Message описывает одно письмо.
type Message struct {
	ID         string         `json:"id"`
	Subject    string         `json:"subject"`
	Recipients []string       `json:"recipients"`
	Template   string         `json:"template"`
	Variables  map[string]any `json:"variables,omitempty"`
}

// NewMessage создаёт письмо с новым идентификатором.
func NewMessage(subject, template string, recipients []string, vars map[string]any) Message {
	return Message{
		ID:         uuid.NewString(),
		Subject:    subject,
		Recipients: recipients,
		Template:   template,
		Variables:  vars,
	}
}

// Notifier отправляет уведомления. Ошибка отправки не должна отменять уже выполненную операцию.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier пишет уведомления в лог вместо отправки.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier создаёт уведомитель, который только логирует сообщения.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send логирует сообщение.
func (n *LogNotifier) Send(_ context.Context, msg Message) error {
	n.logger.Info("notification",
		zap.String("id", msg.ID),
		zap.String("subject", msg.Subject),
		zap.Strings("recipients", msg.Recipients),
		zap.String("template", msg.Template),
	)
	return nil
}
