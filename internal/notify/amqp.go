package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segyhp/loanshrk/internal/logging"

	"github.com/rabbitmq/amqp091-go"
)

// AMQPNotifier publishes notices as persistent JSON messages on a direct exchange
type AMQPNotifier struct {
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

func NewAMQPNotifier(url, exchange, routingKey string, logger *slog.Logger) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	n := &AMQPNotifier{
		conn:       conn,
		channel:    channel,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logging.Component(logger, "amqp"),
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		n.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return n, nil
}

func (n *AMQPNotifier) Notify(ctx context.Context, notice Notice) error {
	body, err := notice.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = n.channel.PublishWithContext(
		ctx,
		n.exchange,   // exchange
		n.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    notice.At,
			Type:         notice.Kind,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}

	n.logger.DebugContext(ctx, "Published notice",
		"kind", notice.Kind,
		logging.FieldBorrowerID, notice.BorrowerID,
		"exchange", n.exchange)

	return nil
}

func (n *AMQPNotifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
