package wallet_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/billshome/billshome-api/internal/domain/wallet"
	"github.com/billshome/billshome-api/internal/pkg/flutterwave"
)

func TestWebhookRejectsBadSignature(t *testing.T) {
	h := wallet.NewHandler(nil, nil, "hook-secret")

	req := httptest.NewRequest(http.MethodPost, "/api/flutterwave-webhook", strings.NewReader(`{}`))
	req.Header.Set(flutterwave.SignatureHeader, "wrong")
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	h := wallet.NewHandler(nil, nil, "hook-secret")

	req := httptest.NewRequest(http.MethodPost, "/api/flutterwave-webhook", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestWebhookAcceptsMalformedBodyAfterAuth(t *testing.T) {
	h := wallet.NewHandler(nil, nil, "hook-secret")

	req := httptest.NewRequest(http.MethodPost, "/api/flutterwave-webhook", strings.NewReader(`not json`))
	req.Header.Set(flutterwave.SignatureHeader, "hook-secret")
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 once authenticated, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Webhook received") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
