package mail

import (
	"context"
	"log/slog"

	"github.com/tabison/suppliers/modules/notifications/domain"
)

// Log writes messages to the logger instead of sending them.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (m *Log) Send(ctx context.Context, msg domain.Message) error {
	attachments := make([]string, len(msg.Attachments))
	for i, a := range msg.Attachments {
		attachments[i] = a.Filename
	}
	m.logger.InfoContext(ctx, "email",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.Int("text_bytes", len(msg.Text)),
		slog.Any("attachments", attachments),
	)
	m.logger.DebugContext(ctx, "email body", slog.String("text", msg.Text))
	return nil
}
