package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/washday/laundry-backend/pkg/config"
	"github.com/washday/laundry-backend/pkg/logger"
)

// Message is one outbound transactional email.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// Sender delivers transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type resendEmails interface {
	SendWithContext(context.Context, *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendSender sends through the Resend API.
type ResendSender struct {
	emails resendEmails
	from   string
	logg   *logger.Logger
}

// NewSender returns a Resend-backed Sender, or a logging no-op when no API key
// is configured.
func NewSender(cfg config.ResendConfig, logg *logger.Logger) Sender {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return LogOnly{logg: logg}
	}
	return &ResendSender{
		emails: resend.NewClient(key).Emails,
		from:   cfg.DefaultFrom,
		logg:   logg,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.validate(); err != nil {
		return "", err
	}
	req := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if msg.ReplyTo != "" {
		req.ReplyTo = msg.ReplyTo
	}
	resp, err := s.emails.SendWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("resend send: %w", err)
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "email_id", resp.Id), "email sent")
	}
	return resp.Id, nil
}

func (m Message) validate() error {
	if len(m.To) == 0 {
		return errors.New("email recipient is required")
	}
	for _, to := range m.To {
		if strings.TrimSpace(to) == "" {
			return errors.New("email recipient is blank")
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("email subject is required")
	}
	if m.HTML == "" && m.Text == "" {
		return errors.New("email body is required")
	}
	return nil
}

// LogOnly records the send and drops the message. Used in dev without a key.
type LogOnly struct {
	logg *logger.Logger
}

func (l LogOnly) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.validate(); err != nil {
		return "", err
	}
	if l.logg != nil {
		l.logg.Warn(l.logg.WithFields(ctx, map[string]any{
			"to":      strings.Join(msg.To, ","),
			"subject": msg.Subject,
		}), "resend not configured; email dropped")
	}
	return "", nil
}
