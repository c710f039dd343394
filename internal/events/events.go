// Package events publishes order lifecycle events to an AMQP topic
// exchange. Publishing is optional; deployments without a broker run with a
// nil publisher and downstream consumers (mail, fulfilment) simply see
// nothing.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/warmnest/warmnest/internal/storage"
)

const (
	ExchangeName = "warmnest_orders"
	exchangeType = "topic"
)

// Config carries the optional broker URL.
type Config struct {
	AMQPURL string `env:"WARMNEST_AMQP_URL"`
}

// OrderEvent is one order lifecycle notification.
type OrderEvent struct {
	OrderID    string    `json:"orderId"`
	Status     string    `json:"status"`
	PaymentID  string    `json:"paymentId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher sends order events over AMQP.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	now  func() time.Time
}

// Connect dials the broker and declares the order exchange. Returns
// (nil, nil) when no broker URL is configured.
func Connect(cfg Config) (*Publisher, error) {
	if cfg.AMQPURL == "" {
		return nil, nil
	}
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		ExchangeName, // name
		exchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, now: time.Now}, nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// OrderStatusChanged publishes one transition with routing key
// order.<status> (e.g. order.paid).
func (p *Publisher) OrderStatusChanged(ctx context.Context, orderID string, status storage.OrderStatus, paymentID string) error {
	if p == nil {
		return nil
	}
	event := OrderEvent{
		OrderID:    orderID,
		Status:     string(status),
		PaymentID:  paymentID,
		OccurredAt: p.now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	routingKey := "order." + string(status)
	err = p.ch.PublishWithContext(ctx,
		ExchangeName, // exchange
		routingKey,   // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}
