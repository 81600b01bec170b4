package mailer

import (
	"context"
	"fmt"

	"shopstack/internal/config"
	"shopstack/internal/model"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"
)

// Mailer sends transactional email. Every send is best-effort from the
// caller's point of view: failures are logged by the caller, never allowed
// to fail the primary transaction.
type Mailer interface {
	// SendOrderConfirmation sends the checkout confirmation email.
	SendOrderConfirmation(ctx context.Context, to, name string, order *model.Order) error

	// SendPasswordReset sends the password reset email carrying the token.
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

// New returns an SMTP-backed mailer, or a disabled mailer that drops all
// sends when no SMTP host is configured.
func New(cfg config.SMTPConfig, logger zerolog.Logger) (Mailer, error) {
	if cfg.Host == "" {
		logger.Info().Msg("SMTP not configured, email dispatch disabled")
		return &disabledMailer{logger: logger.With().Str("component", "mailer").Logger()}, nil
	}

	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &smtpMailer{
		client: client,
		from:   cfg.From,
		logger: logger.With().Str("component", "mailer").Logger(),
	}, nil
}

// smtpMailer sends email through the configured SMTP relay.
type smtpMailer struct {
	client *gomail.Client
	from   string
	logger zerolog.Logger
}

// SendOrderConfirmation sends the checkout confirmation email.
func (m *smtpMailer) SendOrderConfirmation(ctx context.Context, to, name string, order *model.Order) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nThank you for your order!\n\nOrder number: %s\nTotal: %s\n\n"+
			"We will let you know as soon as it ships.\n",
		name, order.OrderNumber, order.TotalAmount.StringFixed(2),
	)

	return m.send(ctx, to, fmt.Sprintf("Order confirmation %s", order.OrderNumber), body)
}

// SendPasswordReset sends the password reset email carrying the token.
func (m *smtpMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nA password reset was requested for your account.\n\n"+
			"Reset token: %s\n\nThe token expires in one hour. If you did not request "+
			"this, you can ignore this email.\n",
		name, token,
	)

	return m.send(ctx, to, "Password reset", body)
}

func (m *smtpMailer) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Debug().Str("subject", subject).Msg("email sent")

	return nil
}

// disabledMailer drops all sends. Used when SMTP is not configured.
type disabledMailer struct {
	logger zerolog.Logger
}

func (m *disabledMailer) SendOrderConfirmation(_ context.Context, to, _ string, order *model.Order) error {
	m.logger.Debug().
		Str("order_number", order.OrderNumber).
		Msg("email dispatch disabled, dropping order confirmation")
	return nil
}

func (m *disabledMailer) SendPasswordReset(_ context.Context, _, _, _ string) error {
	m.logger.Debug().Msg("email dispatch disabled, dropping password reset")
	return nil
}
