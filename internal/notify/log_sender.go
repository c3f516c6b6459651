package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// LogSender does not deliver anything; it logs the send. Used in development.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	id := "log-" + uuid.NewString()
	slog.Info("log_email_send", "message_id", id, "to", req.To, "subject", req.Subject, "category", req.Category)
	return SendResult{MessageID: id, SentAt: time.Now()}, nil
}
