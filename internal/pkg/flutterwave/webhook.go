package flutterwave

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
)

// SignatureHeader is the header Flutterwave signs webhook deliveries with.
const SignatureHeader = "verif-hash"

// EventChargeCompleted is the webhook event emitted when a charge settles.
const EventChargeCompleted = "charge.completed"

// StatusSuccessful is the data.status value for a settled charge.
const StatusSuccessful = "successful"

// WebhookPayload represents a Flutterwave webhook delivery
type WebhookPayload struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

// WebhookData carries the charge details of a webhook event
type WebhookData struct {
	TxRef    string  `json:"tx_ref"`
	FlwRef   string  `json:"flw_ref"`
	Amount   float64 `json:"amount"` // naira decimal as sent by the provider
	Currency string  `json:"currency"`
	Status   string  `json:"status"`
}

// VerifyWebhookSignature checks the verif-hash header against the configured
// shared secret. Comparison is constant time; an empty configured secret
// fails closed.
func VerifyWebhookSignature(signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(signature), []byte(secret)) == 1
}

// ParseWebhook decodes a webhook delivery body
func ParseWebhook(body []byte) (*WebhookPayload, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}
	if payload.Event == "" {
		return nil, fmt.Errorf("invalid webhook payload: missing event")
	}
	return &payload, nil
}

// IsSuccessfulCharge reports whether the payload confirms a settled charge.
func (p *WebhookPayload) IsSuccessfulCharge() bool {
	return p.Event == EventChargeCompleted && p.Data.Status == StatusSuccessful
}
