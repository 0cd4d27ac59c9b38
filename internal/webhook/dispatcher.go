// Package webhook forwards accepted leads to tenant-configured webhook
// endpoints. Forwarding is best effort: it runs after both notification
// emails succeed and never changes the response the widget sees.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/openfence/fence-quote-api/internal/leads"
	"github.com/openfence/fence-quote-api/internal/observability/metrics"
	"github.com/openfence/fence-quote-api/internal/tenant"
	"github.com/openfence/fence-quote-api/pkg/logging"
)

const forwardTimeout = 5 * time.Second

// Dispatcher posts normalized leads to a tenant's webhook URL.
type Dispatcher struct {
	client  *http.Client
	tenants tenant.Store
	metrics *metrics.LeadMetrics
	logger  *logging.Logger
}

// NewDispatcher creates a webhook dispatcher.
func NewDispatcher(tenants tenant.Store, m *metrics.LeadMetrics, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		client:  &http.Client{Timeout: forwardTimeout},
		tenants: tenants,
		metrics: m,
		logger:  logger,
	}
}

// ForwardLead posts s to the webhook configured for s.Client, if any.
// Failures are logged and counted, nothing more.
func (d *Dispatcher) ForwardLead(ctx context.Context, s leads.Submission) {
	if d == nil || d.tenants == nil || s.Client == "" {
		return
	}

	cfg, err := d.tenants.Get(ctx, s.Client)
	if err != nil || cfg.WebhookURL == "" {
		return
	}

	if err := d.post(ctx, cfg.WebhookURL, s); err != nil {
		d.logger.Error("webhook forward failed", "error", err, "client", s.Client)
		d.metrics.ObserveWebhookForward(false)
		return
	}

	d.logger.Info("lead forwarded to tenant webhook", "client", s.Client)
	d.metrics.ObserveWebhookForward(true)
}

func (d *Dispatcher) post(ctx context.Context, url string, s leads.Submission) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("webhook: marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
