package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EmailQueue задаёт очередь, из которой почтовый сервис забирает письма.
const EmailQueue = "notifications.email"

// AMQPNotifier публикует письма в RabbitMQ. Соединение открывается на каждую публикацию.
type AMQPNotifier struct {
	url    string
	queue  string
	logger *zap.Logger
}

// NewAMQPNotifier создаёт публикатор писем в очередь EmailQueue.
func NewAMQPNotifier(url string, logger *zap.Logger) *AMQPNotifier {
	return &AMQPNotifier{url: url, queue: EmailQueue, logger: logger}
}

// Send публикует письмо как persistent-сообщение в очередь по умолчанию.
func (n *AMQPNotifier) Send(ctx context.Context, msg Message) error {
	pub, err := buildPublishing(msg, time.Now().UTC())
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(n.url)
	if err != nil {
		n.logger.Warn("rabbitmq: dial failed", zap.Error(err))
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		n.logger.Warn("rabbitmq: channel open failed", zap.Error(err))
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		n.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		n.logger.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		n.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		n.logger.Warn("rabbitmq: publish failed", zap.Error(err))
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

func buildPublishing(msg Message, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal message: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    now,
		Body:         body,
	}, nil
}
