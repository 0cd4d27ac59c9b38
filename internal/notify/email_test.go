package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openfence/fence-quote-api/internal/apperr"
)

func newTestSendGrid(t *testing.T, status int, body string) (*SendGridSender, *[]byte) {
	t.Helper()
	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		if got := r.Header.Get("Authorization"); got != "Bearer SG.test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "SG.test-key",
		FromEmail: "leads@fencequote.app",
		FromName:  "Fence Quote",
		Host:      srv.URL,
	}, nil)
	if sender == nil {
		t.Fatal("sender should not be nil with an API key")
	}
	return sender, &captured
}

func testMessage() EmailMessage {
	return EmailMessage{
		To:      "owner@example.com",
		ToName:  "Owner",
		Subject: "New Fence Lead",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
		ReplyTo: "jane@example.com",
	}
}

func TestSendGridSenderSuccess(t *testing.T) {
	sender, captured := newTestSendGrid(t, http.StatusAccepted, "")
	if err := sender.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload struct {
		Personalizations []struct {
			To []struct {
				Email string `json:"email"`
			} `json:"to"`
			Subject string `json:"subject"`
		} `json:"personalizations"`
		From struct {
			Email string `json:"email"`
		} `json:"from"`
		ReplyTo struct {
			Email string `json:"email"`
		} `json:"reply_to"`
		Content []struct {
			Type string `json:"type"`
		} `json:"content"`
	}
	if err := json.Unmarshal(*captured, &payload); err != nil {
		t.Fatalf("decoding captured payload: %v", err)
	}
	if len(payload.Personalizations) != 1 || payload.Personalizations[0].To[0].Email != "owner@example.com" {
		t.Errorf("personalizations = %+v", payload.Personalizations)
	}
	if payload.Personalizations[0].Subject != "New Fence Lead" {
		t.Errorf("subject = %q", payload.Personalizations[0].Subject)
	}
	if payload.From.Email != "leads@fencequote.app" {
		t.Errorf("from = %q", payload.From.Email)
	}
	if payload.ReplyTo.Email != "jane@example.com" {
		t.Errorf("reply_to = %q", payload.ReplyTo.Email)
	}
	if len(payload.Content) != 2 || payload.Content[0].Type != "text/plain" || payload.Content[1].Type != "text/html" {
		t.Errorf("content = %+v", payload.Content)
	}
}

func TestSendGridSenderSkipsMalformedReplyTo(t *testing.T) {
	sender, captured := newTestSendGrid(t, http.StatusAccepted, "")
	msg := testMessage()
	msg.ReplyTo = "not-an-address"
	if err := sender.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(*captured, &payload); err != nil {
		t.Fatal(err)
	}
	if _, ok := payload["reply_to"]; ok {
		t.Error("malformed reply-to must be dropped, not sent")
	}
}

func TestSendGridSenderErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		public string
	}{
		{"unauthorized", 401, `{"errors":[{"message":"bad key"}]}`, "Email provider API key is invalid."},
		{"forbidden", 403, `{"errors":[{"message":"sender identity not verified"}]}`, "Sender email is not verified."},
		{"bad request", 400, `{"errors":[{"message":"invalid to address"}]}`, "Email provider rejected the request. Check sender/recipient addresses."},
		{"server error", 500, "internal boom", "Email delivery failed."},
		{"rate limited upstream", 429, "", "Email delivery failed."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, _ := newTestSendGrid(t, tt.status, tt.body)
			err := sender.Send(context.Background(), testMessage())
			if err == nil {
				t.Fatal("expected an error")
			}
			status, msg := apperr.Public(err)
			if status != http.StatusInternalServerError {
				t.Errorf("public status = %d, want 500", status)
			}
			if msg != tt.public {
				t.Errorf("public message = %q, want %q", msg, tt.public)
			}
		})
	}
}

func TestSendGridSenderKeepsProviderDetailInternal(t *testing.T) {
	sender, _ := newTestSendGrid(t, 401, `{"errors":[{"message":"key revoked on 2026-08-01"}]}`)
	err := sender.Send(context.Background(), testMessage())

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("error type = %T", err)
	}
	if !strings.Contains(appErr.Internal, "key revoked on 2026-08-01") {
		t.Errorf("internal detail = %q, want provider message retained", appErr.Internal)
	}
	if strings.Contains(appErr.Public, "revoked") {
		t.Errorf("public message leaked provider detail: %q", appErr.Public)
	}
}

func TestSendGridSenderTruncatesLongProviderDetail(t *testing.T) {
	long := strings.Repeat("x", 2000)
	sender, _ := newTestSendGrid(t, 500, long)
	err := sender.Send(context.Background(), testMessage())

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("error type = %T", err)
	}
	if strings.Count(appErr.Internal, "x") != maxProviderDetail {
		t.Errorf("detail length = %d x's, want %d", strings.Count(appErr.Internal, "x"), maxProviderDetail)
	}
}

func TestNewSendGridSenderRequiresKey(t *testing.T) {
	if s := NewSendGridSender(SendGridConfig{FromEmail: "leads@fencequote.app"}, nil); s != nil {
		t.Fatal("sender should be nil without an API key")
	}
}

func TestNilSendGridSenderFailsSafely(t *testing.T) {
	var sender *SendGridSender
	err := sender.Send(context.Background(), testMessage())
	status, msg := apperr.Public(err)
	if status != http.StatusInternalServerError || msg != "Email service is not configured." {
		t.Fatalf("got %d %q", status, msg)
	}
}

func TestExtractProviderMessage(t *testing.T) {
	if got := extractProviderMessage(`{"errors":[{"message":"first"},{"message":"second"}]}`); got != "first" {
		t.Errorf("got %q, want first error message", got)
	}
	if got := extractProviderMessage("not json"); got != "not json" {
		t.Errorf("got %q, want raw fallback", got)
	}
	if got := extractProviderMessage(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
