// Package commands contains the notification use cases.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tabison/suppliers/modules/notifications/domain"
)

// SendReceiptCommand sends the receipt for a paid order.
type SendReceiptCommand struct {
	UserID  string
	Receipt domain.Receipt
}

type SendReceiptHandler struct {
	recipients domain.Recipients
	text       domain.TextRenderer
	pdf        domain.PDFRenderer
	mailer     domain.Mailer
	from       string
	subject    func(domain.Receipt) string
	filename   func(domain.Receipt) string
	logger     *slog.Logger
}

func NewSendReceiptHandler(
	recipients domain.Recipients,
	text domain.TextRenderer,
	pdf domain.PDFRenderer,
	mailer domain.Mailer,
	from string,
	subject, filename func(domain.Receipt) string,
	logger *slog.Logger,
) *SendReceiptHandler {
	return &SendReceiptHandler{
		recipients: recipients,
		text:       text,
		pdf:        pdf,
		mailer:     mailer,
		from:       from,
		subject:    subject,
		filename:   filename,
		logger:     logger,
	}
}

// Handle renders and sends the receipt. A PDF failure only drops the
// attachment.
func (h *SendReceiptHandler) Handle(ctx context.Context, cmd SendReceiptCommand) error {
	recipient, err := h.recipients.Lookup(ctx, cmd.UserID)
	if err != nil {
		return fmt.Errorf("looking up recipient: %w", err)
	}
	if recipient.Email == "" {
		return domain.ErrNoRecipientEmail
	}

	receipt := cmd.Receipt
	receipt.Customer = recipient

	text, err := h.text.Render(receipt)
	if err != nil {
		return err
	}

	msg := domain.Message{
		To:      recipient.Email,
		ToName:  recipient.Name,
		From:    h.from,
		Subject: h.subject(receipt),
		Text:    text,
	}

	if h.pdf != nil {
		doc, err := h.pdf.Render(receipt)
		if err != nil {
			h.logger.Warn("sending receipt without PDF",
				slog.String("order_id", receipt.OrderID),
				slog.Any("error", err),
			)
		} else {
			msg.Attachments = append(msg.Attachments, domain.Attachment{
				Filename:    h.filename(receipt),
				ContentType: "application/pdf",
				Data:        doc,
			})
		}
	}

	if err := h.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending receipt: %w", err)
	}
	h.logger.Info("receipt sent",
		slog.String("order_id", receipt.OrderID),
		slog.String("order_number", receipt.OrderNumber),
		slog.Int("attachments", len(msg.Attachments)),
	)
	return nil
}
