// Package handlers contains the public HTTP handlers for the quote
// widget API.
package handlers

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/openfence/fence-quote-api/internal/apperr"
	"github.com/openfence/fence-quote-api/internal/leads"
	"github.com/openfence/fence-quote-api/internal/notify"
	"github.com/openfence/fence-quote-api/internal/observability/metrics"
	"github.com/openfence/fence-quote-api/internal/ratelimit"
	"github.com/openfence/fence-quote-api/pkg/logging"
)

// maxBodyBytes caps the request body; 40 segments of 200 points fit
// comfortably under this.
const maxBodyBytes = 1 << 20

// LeadForwarder posts accepted leads to tenant-configured webhooks.
type LeadForwarder interface {
	ForwardLead(ctx context.Context, s leads.Submission)
}

// LeadIntakeHandler runs the lead submission pipeline: method gate,
// origin allow-list, rate limit, parse, normalize, validate, then two
// sequential notification sends. The second send is never attempted
// when the first fails, and success is reported only after both.
type LeadIntakeHandler struct {
	sender    notify.EmailSender
	limiter   *ratelimit.Limiter
	forwarder LeadForwarder
	metrics   *metrics.LeadMetrics
	logger    *logging.Logger

	fromEmail      string
	allowedOrigins map[string]struct{}
}

// LeadIntakeConfig holds dependencies for the intake handler.
type LeadIntakeConfig struct {
	Sender         notify.EmailSender
	Limiter        *ratelimit.Limiter
	Forwarder      LeadForwarder
	Metrics        *metrics.LeadMetrics
	Logger         *logging.Logger
	FromEmail      string
	AllowedOrigins []string
}

// NewLeadIntakeHandler creates the intake handler. An empty origin list
// disables the origin check; locking the endpoint down is a deployment
// concern.
func NewLeadIntakeHandler(cfg LeadIntakeConfig) *LeadIntakeHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		if normalized := normalizeOrigin(origin); normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return &LeadIntakeHandler{
		sender:         cfg.Sender,
		limiter:        cfg.Limiter,
		forwarder:      cfg.Forwarder,
		metrics:        cfg.Metrics,
		logger:         logger,
		fromEmail:      strings.TrimSpace(cfg.FromEmail),
		allowedOrigins: allowed,
	}
}

// Lead handles /api/lead for every method.
func (h *LeadIntakeHandler) Lead(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		writeError(w, apperr.MethodNotAllowed("Method not allowed"))
		return
	}

	h.metrics.ObserveReceived()

	if !h.originAllowed(r) {
		h.metrics.ObserveRejected("origin")
		writeError(w, apperr.BadRequest("Origin not allowed"))
		return
	}

	key := clientIP(r)
	if !h.limiter.Admit(r.Context(), key) {
		h.logger.Warn("lead intake rate limited", "key", key)
		h.metrics.ObserveRateLimited()
		writeError(w, apperr.TooManyRequests("Too many requests. Try again later."))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, apperr.BadRequest("Invalid JSON body"))
		return
	}

	fields, perr := leads.ParseSubmission(body)
	if perr != nil {
		h.metrics.ObserveRejected("body")
		writeError(w, perr)
		return
	}

	sub := leads.Normalize(fields)
	if verr := leads.Validate(sub); verr != nil {
		h.metrics.ObserveRejected(leads.RejectReason(verr))
		writeError(w, verr)
		return
	}

	if h.sender == nil || h.fromEmail == "" {
		writeError(w, apperr.Internal("Email service is not configured.", "missing sender or from address"))
		return
	}
	if !leads.IsValidEmail(h.fromEmail) {
		writeError(w, apperr.Internal("Sender address is invalid.", "from address failed shape check"))
		return
	}

	if err := h.sendNotifications(r.Context(), sub); err != nil {
		h.metrics.ObserveEmailFailure()
		h.logger.Error("lead notification failed", "error", err, "client", sub.Client)
		writeError(w, err)
		return
	}

	h.metrics.ObserveAccepted()
	h.logger.Info("lead accepted",
		"client", sub.Client,
		"linear_feet", sub.TotalLinearFeet,
		"segments", sub.SegmentsCount,
	)

	if h.forwarder != nil {
		// Off the request path: a slow tenant endpoint must not delay
		// the widget's response. The detached context survives the
		// request finishing.
		go h.forwarder.ForwardLead(context.WithoutCancel(r.Context()), sub)
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// sendNotifications delivers the owner message, then the customer
// confirmation. Order matters: a failed owner send bounds the request
// to zero extra sends.
func (h *LeadIntakeHandler) sendNotifications(ctx context.Context, sub leads.Submission) error {
	owner := notify.EmailMessage{
		To:      sub.PushoverEmail,
		Subject: notify.OwnerSubject(sub),
		Text:    notify.OwnerText(sub),
		HTML:    notify.OwnerHTML(sub),
		ReplyTo: sub.Email,
	}
	if err := h.sender.Send(ctx, owner); err != nil {
		return err
	}
	h.metrics.ObserveEmailSent("owner")

	customer := notify.EmailMessage{
		To:      sub.Email,
		ToName:  sub.FullName,
		Subject: notify.CustomerSubject(),
		Text:    notify.CustomerText(sub),
		HTML:    notify.CustomerHTML(sub),
		ReplyTo: sub.PushoverEmail,
	}
	if err := h.sender.Send(ctx, customer); err != nil {
		return err
	}
	h.metrics.ObserveEmailSent("customer")
	return nil
}

// originAllowed applies the allow-list. No list configured means the
// check is skipped entirely.
func (h *LeadIntakeHandler) originAllowed(r *http.Request) bool {
	if len(h.allowedOrigins) == 0 {
		return true
	}

	origin := normalizeOrigin(r.Header.Get("Origin"))
	if origin == "" {
		return false
	}
	_, ok := h.allowedOrigins[origin]
	return ok
}

// normalizeOrigin reduces an origin to lowercase scheme://host, or ""
// when it doesn't parse as an absolute URL.
func normalizeOrigin(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

// clientIP picks the rate-limit key: first forwarded-for hop, then the
// real-ip header, then the connection address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-Ip")); real != "" {
		return real
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if addr := strings.TrimSpace(r.RemoteAddr); addr != "" {
		return addr
	}
	return "unknown"
}
