package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/openfence/fence-quote-api/internal/apperr"
	"github.com/openfence/fence-quote-api/internal/leads"
	"github.com/openfence/fence-quote-api/pkg/logging"
)

// SESSender sends emails via AWS SES.
type SESSender struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	FromEmail string
	FromName  string
}

// NewSESSender creates a new AWS SES email sender.
func NewSESSender(client *sesv2.Client, cfg SESConfig, logger *logging.Logger) *SESSender {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "Fence Quote"
	}
	return &SESSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Send sends an email via AWS SES.
func (s *SESSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return apperr.Internal("Email service is not configured.", "ses client is nil")
	}

	fromAddress := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(msg.Text),
						Charset: aws.String("UTF-8"),
					},
					Html: &types.Content{
						Data:    aws.String(msg.HTML),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if leads.IsValidEmail(msg.ReplyTo) {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		s.logger.Error("ses send failed", "error", truncateDetail(err.Error()), "to", msg.To)
		return sesDeliveryError(err)
	}

	s.logger.Info("email sent via ses", "to", msg.To, "subject", msg.Subject)
	return nil
}

// sesDeliveryError maps SES failures onto the same public taxonomy as
// the SendGrid sender.
func sesDeliveryError(err error) *apperr.Error {
	var rejected *types.MessageRejected
	var notVerified *types.MailFromDomainNotVerifiedException
	if errors.As(err, &rejected) {
		return deliveryError(400, truncateDetail(err.Error())).Wrap(err)
	}
	if errors.As(err, &notVerified) {
		return deliveryError(403, truncateDetail(err.Error())).Wrap(err)
	}

	var re *smithyhttp.ResponseError
	if errors.As(err, &re) {
		return deliveryError(re.HTTPStatusCode(), truncateDetail(err.Error())).Wrap(err)
	}
	return apperr.Internal("Email delivery failed.", truncateDetail(err.Error())).Wrap(err)
}

var _ EmailSender = (*SESSender)(nil)
