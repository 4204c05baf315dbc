// Package mailer sends outbound mail through SendGrid.
package mailer

import (
	"context"
	"fmt"

	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
)

// Compile-time interface check
var _ interfaces.Mailer = (*Client)(nil)

// Client sends mail via the SendGrid API. Sends are synchronous and
// unretried; a failure propagates to the caller.
type Client struct {
	client      *sendgrid.Client
	fromName    string
	fromAddress string
	logger      *common.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used by the client.
func WithLogger(logger *common.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a SendGrid-backed mail client.
func NewClient(cfg common.MailConfig, opts ...Option) *Client {
	c := &Client{
		client:      sendgrid.NewSendClient(cfg.SendGridKey),
		fromName:    cfg.FromName,
		fromAddress: cfg.FromAddress,
		logger:      common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send delivers a plain-text mail to a single recipient.
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	from := mail.NewEmail(c.fromName, c.fromAddress)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), body, body)

	resp, err := c.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail delivery to %s rejected with status %d", to, resp.StatusCode)
	}

	c.logger.Debug().Str("to", to).Str("subject", subject).Msg("Mail sent")
	return nil
}

// LogMailer writes mail to the log instead of delivering it. Used when
// no SendGrid key is configured, so registration works in development.
type LogMailer struct {
	logger *common.Logger
}

var _ interfaces.Mailer = (*LogMailer)(nil)

// NewLogMailer creates a log-only mailer.
func NewLogMailer(logger *common.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info().Str("to", to).Str("subject", subject).Str("body", body).Msg("Mail (log only)")
	return nil
}
