// Package mail holds the Mailer implementations.
package mail

import (
	"context"
	"fmt"

	"github.com/tabison/suppliers/modules/notifications/domain"
)

// ReceiptRoutingKey routes receipts to the mail relay.
const ReceiptRoutingKey = "email.receipt"

// Publisher publishes JSON documents to the notifications exchange.
// *rabbitmq.Conn implements it.
type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, body any) error
}

// AMQP hands messages to a mail relay over RabbitMQ. Attachments travel
// base64 encoded in the JSON body.
type AMQP struct {
	publisher  Publisher
	routingKey string
}

func NewAMQP(publisher Publisher) *AMQP {
	return &AMQP{publisher: publisher, routingKey: ReceiptRoutingKey}
}

func (m *AMQP) Send(ctx context.Context, msg domain.Message) error {
	if err := m.publisher.PublishJSON(ctx, m.routingKey, msg); err != nil {
		return fmt.Errorf("publishing mail to %s: %w", m.routingKey, err)
	}
	return nil
}
