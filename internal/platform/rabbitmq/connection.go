// Package rabbitmq manages the AMQP connection used for outbound mail.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const ExchangeType = "topic"

// Config holds connection settings.
type Config struct {
	URL      string
	Exchange string
	Attempts int
	Backoff  time.Duration
}

// Conn is an open connection with one channel and a declared exchange.
type Conn struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// Dial connects, retrying while the broker starts up, opens a channel and
// declares the durable topic exchange.
func Dial(ctx context.Context, cfg Config, logger *slog.Logger) (*Conn, error) {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 5
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 2 * time.Second
	}

	var conn *amqp.Connection
	var err error
	for i := range cfg.Attempts {
		conn, err = amqp.Dial(cfg.URL)
		if err == nil {
			break
		}
		logger.Warn("rabbitmq connection failed", slog.Int("attempt", i+1), slog.Any("error", err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.Backoff):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return &Conn{conn: conn, ch: ch, exchange: cfg.Exchange}, nil
}

// PublishJSON marshals body and publishes it as a persistent message.
func (c *Conn) PublishJSON(ctx context.Context, routingKey string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not marshal message: %w", err)
	}
	return c.ch.PublishWithContext(ctx,
		c.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         data,
		},
	)
}

// Close closes the channel and the connection.
func (c *Conn) Close() error {
	if err := c.ch.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}
