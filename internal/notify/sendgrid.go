package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender sends emails through the SendGrid v3 mail API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

// NewSendGridSender parses the default from address ("Name <addr>" or a bare address).
func NewSendGridSender(apiKey, from string) (*SendGridSender, error) {
	addr, err := parseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("notify: invalid from address: %w", err)
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   addr,
	}, nil
}

func (s *SendGridSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	from := s.from
	if req.From != "" {
		addr, err := parseAddress(req.From)
		if err != nil {
			return SendResult{}, fmt.Errorf("sendgrid: invalid from address: %w", err)
		}
		from = addr
	}

	p := sgmail.NewPersonalization()
	for _, to := range req.To {
		addr, err := parseAddress(to)
		if err != nil {
			return SendResult{}, fmt.Errorf("sendgrid: invalid recipient %q: %w", to, err)
		}
		p.AddTos(addr)
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(from)
	m.Subject = req.Subject
	m.AddPersonalizations(p)
	if req.Text != "" {
		m.AddContent(sgmail.NewContent("text/plain", req.Text))
	}
	m.AddContent(sgmail.NewContent("text/html", req.HTML))
	if req.ReplyTo != "" {
		if addr, err := parseAddress(req.ReplyTo); err == nil {
			m.SetReplyTo(addr)
		}
	}
	if req.Category != "" {
		m.AddCategories(req.Category)
	}
	if req.IdempotencyKey != "" {
		m.SetCustomArg("idempotency_key", req.IdempotencyKey)
	}

	res, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		slog.Error("sendgrid_send_failed", "error", err, "to", req.To, "subject", req.Subject)
		return SendResult{}, fmt.Errorf("sendgrid send failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		slog.Error("sendgrid_send_rejected", "status", res.StatusCode, "body", res.Body, "to", req.To)
		return SendResult{}, fmt.Errorf("sendgrid send rejected with status %d", res.StatusCode)
	}

	id := ""
	if v, ok := res.Headers["X-Message-Id"]; ok && len(v) > 0 {
		id = v[0]
	}
	slog.Info("sendgrid_sent", "message_id", id, "to", req.To, "subject", req.Subject)
	return SendResult{MessageID: id, SentAt: time.Now()}, nil
}

func parseAddress(s string) (*sgmail.Email, error) {
	a, err := mail.ParseAddress(s)
	if err != nil {
		return nil, err
	}
	return sgmail.NewEmail(a.Name, a.Address), nil
}
