package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/openfence/fence-quote-api/internal/apperr"
	"github.com/openfence/fence-quote-api/internal/leads"
	"github.com/openfence/fence-quote-api/pkg/logging"
)

// maxProviderDetail bounds how much provider error text is kept for logs.
const maxProviderDetail = 400

// EmailSender delivers a single notification email.
// Implementations can be swapped (SendGrid, SES, stub) without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
	ReplyTo string // optional; ignored when not a valid email shape
}

// SendGridSender sends emails via the SendGrid v3 mail send API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	// Host overrides the API base URL, for tests.
	Host string
}

// NewSendGridSender creates a new SendGrid email sender. Returns nil
// when no API key is configured.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "Fence Quote"
	}
	client := sendgrid.NewSendClient(cfg.APIKey)
	if cfg.Host != "" {
		client.BaseURL = strings.TrimRight(cfg.Host, "/") + "/v3/mail/send"
	}
	return &SendGridSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Send sends an email via SendGrid. Failures come back as typed errors
// whose public message follows the fixed delivery taxonomy; the raw
// provider response is logged but never surfaced.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return apperr.Internal("Email service is not configured.", "sendgrid client is nil")
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(s.fromName, s.fromEmail))

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(msg.ToName, msg.To))
	p.Subject = msg.Subject
	message.AddPersonalizations(p)

	message.AddContent(
		mail.NewContent("text/plain", msg.Text),
		mail.NewContent("text/html", msg.HTML),
	)

	if leads.IsValidEmail(msg.ReplyTo) {
		message.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.logger.Error("sendgrid send failed", "error", err, "to", msg.To)
		return apperr.Internal("Email delivery failed.", truncateDetail(err.Error())).Wrap(err)
	}

	if response.StatusCode >= 400 {
		detail := extractProviderMessage(response.Body)
		s.logger.Error("sendgrid returned error status",
			"status", response.StatusCode,
			"detail", detail,
			"to", msg.To,
		)
		return deliveryError(response.StatusCode, detail)
	}

	s.logger.Info("email sent via sendgrid", "to", msg.To, "subject", msg.Subject, "status", response.StatusCode)
	return nil
}

// deliveryError maps a provider HTTP status to the fixed set of public
// messages. Anything not in the taxonomy collapses to a generic failure.
func deliveryError(status int, detail string) *apperr.Error {
	public := "Email delivery failed."
	switch status {
	case 401:
		public = "Email provider API key is invalid."
	case 403:
		public = "Sender email is not verified."
	case 400:
		public = "Email provider rejected the request. Check sender/recipient addresses."
	}
	return apperr.Internal(public, fmt.Sprintf("status=%d; details=%s", status, detail))
}

// extractProviderMessage pulls the first error message out of a SendGrid
// error body, falling back to the raw (truncated) body.
func extractProviderMessage(raw string) string {
	if raw == "" {
		return ""
	}
	var parsed struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil && len(parsed.Errors) > 0 && parsed.Errors[0].Message != "" {
		return truncateDetail(parsed.Errors[0].Message)
	}
	return truncateDetail(raw)
}

func truncateDetail(s string) string {
	if len(s) <= maxProviderDetail {
		return s
	}
	return s[:maxProviderDetail]
}

// StubEmailSender is a no-op sender for development and tests.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender creates a stub email sender that logs but doesn't send.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send logs the email but doesn't actually send it.
func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	s.logger.Info("stub email sender: would send email", "to", msg.To, "subject", msg.Subject)
	return nil
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)
