// The lead-lambda binary exposes the lead intake pipeline as an API
// Gateway v2 Lambda, for deployments where the widget is statically
// hosted and there is no long-running API server.
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/openfence/fence-quote-api/cmd/mainconfig"
	appconfig "github.com/openfence/fence-quote-api/internal/config"
	"github.com/openfence/fence-quote-api/internal/http/handlers"
	"github.com/openfence/fence-quote-api/internal/ratelimit"
	"github.com/openfence/fence-quote-api/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	sender, err := mainconfig.BuildEmailSender(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to build email sender", "error", err)
		panic(err)
	}

	// Lambda containers are short-lived and never share memory, so the
	// in-memory window only smooths bursts within one warm container.
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), cfg.RateLimitMax, cfg.RateLimitWindow, logger)

	intake := handlers.NewLeadIntakeHandler(handlers.LeadIntakeConfig{
		Sender:         sender,
		Limiter:        limiter,
		Logger:         logger,
		FromEmail:      cfg.FromEmail(),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, intake, evt)
	})
}

func handle(ctx context.Context, intake *handlers.LeadIntakeHandler, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	if method == "" {
		method = http.MethodPost
	}

	body, err := decodeBody(evt)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"ok":false,"error":"Invalid JSON body"}`,
		}, nil
	}

	req, err := http.NewRequestWithContext(ctx, method, "/api/lead", bytes.NewReader(body))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	for name, value := range evt.Headers {
		req.Header.Set(name, value)
	}
	if sourceIP := strings.TrimSpace(evt.RequestContext.HTTP.SourceIP); sourceIP != "" {
		req.RemoteAddr = sourceIP
	}

	rec := newResponseCapture()
	intake.Lead(rec, req)

	return events.APIGatewayV2HTTPResponse{
		StatusCode: rec.status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       rec.body.String(),
	}, nil
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	return base64.StdEncoding.DecodeString(evt.Body)
}

// responseCapture collects the handler's response for translation into
// the API Gateway envelope.
type responseCapture struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseCapture() *responseCapture {
	return &responseCapture{header: make(http.Header), status: http.StatusOK}
}

func (r *responseCapture) Header() http.Header {
	return r.header
}

func (r *responseCapture) WriteHeader(status int) {
	r.status = status
}

func (r *responseCapture) Write(p []byte) (int, error) {
	return r.body.Write(p)
}
