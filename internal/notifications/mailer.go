package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/washday/laundry-backend/pkg/email"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
)

const (
	SubjectOrderConfirmation = "Order Confirmation"
	SubjectAccountWelcome    = "Your laundry account is ready"

	defaultRecipientName = "Customer"
)

// OrderConfirmation is sent once per paid order. Price is the formatted
// dollar amount without the currency sign.
type OrderConfirmation struct {
	Email string
	Name  string
	Offer string
	Price string
}

// AccountWelcome carries the generated credential for an account created at checkout.
type AccountWelcome struct {
	Email             string
	Name              string
	TemporaryPassword string
}

var (
	orderConfirmationHTML = template.Must(template.New("order_confirmation").Parse(`
<h2>Thank you for your order, {{.Name}}!</h2>
<p>We received your order for: <strong>{{.Offer}}</strong></p>
<p>Order total: <strong>${{.Price}}</strong></p>
<p>We'll be in touch soon to schedule your pickup.</p>
`))

	accountWelcomeHTML = template.Must(template.New("account_welcome").Parse(`
<h2>Welcome, {{.Name}}!</h2>
<p>We created an account for <strong>{{.Email}}</strong> so you can track your orders.</p>
<p>Your temporary password is: <strong>{{.TemporaryPassword}}</strong></p>
<p>Please sign in and change it from your account page.</p>
`))
)

// Mailer renders transactional templates and hands them to the email sender.
type Mailer struct {
	sender  email.Sender
	replyTo string
	logg    *logger.Logger
}

func NewMailer(sender email.Sender, replyTo string, logg *logger.Logger) (*Mailer, error) {
	if sender == nil {
		return nil, fmt.Errorf("email sender required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Mailer{sender: sender, replyTo: strings.TrimSpace(replyTo), logg: logg}, nil
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error {
	if strings.TrimSpace(msg.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient email required")
	}
	msg.Name = recipientName(msg.Name)
	body, err := render(orderConfirmationHTML, msg)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Thank you for your order, %s!\nWe received your order for: %s\nOrder total: $%s\nWe'll be in touch soon to schedule your pickup.\n",
		msg.Name, msg.Offer, msg.Price)
	return m.send(ctx, msg.Email, SubjectOrderConfirmation, body, text)
}

func (m *Mailer) SendAccountWelcome(ctx context.Context, msg AccountWelcome) error {
	if strings.TrimSpace(msg.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient email required")
	}
	if msg.TemporaryPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "temporary password required")
	}
	msg.Name = recipientName(msg.Name)
	body, err := render(accountWelcomeHTML, msg)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Welcome, %s!\nYour temporary password is: %s\nPlease sign in and change it from your account page.\n",
		msg.Name, msg.TemporaryPassword)
	return m.send(ctx, msg.Email, SubjectAccountWelcome, body, text)
}

func (m *Mailer) send(ctx context.Context, to, subject, html, text string) error {
	id, err := m.sender.Send(ctx, email.Message{
		To:      []string{strings.TrimSpace(to)},
		Subject: subject,
		HTML:    html,
		Text:    text,
		ReplyTo: m.replyTo,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send email")
	}
	m.logg.Debug(m.logg.WithFields(ctx, map[string]any{"email_id": id, "subject": subject}), "transactional email handed off")
	return nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render email")
	}
	return buf.String(), nil
}

func recipientName(name string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return defaultRecipientName
}
