package stripe

import (
	"context"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/washday/laundry-backend/pkg/config"
)

func TestNewClientValidatesKeyForEnvironment(t *testing.T) {
	ctx := context.Background()
	if _, err := NewClient(ctx, config.StripeConfig{Env: "test"}, nil); err == nil {
		t.Fatal("expected missing key error")
	}
	if _, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_live_123", Env: "test"}, nil); err == nil {
		t.Fatal("expected live key rejected in test env")
	}
	if _, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_123", Env: "staging"}, nil); err == nil {
		t.Fatal("expected invalid env error")
	}

	c, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_123", PublishableKey: " pk_test_1 ", Env: ""}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if c.Environment() != "test" || c.PublishableKey() != "pk_test_1" || c.API() == nil {
		t.Fatalf("unexpected client state env=%s pk=%s", c.Environment(), c.PublishableKey())
	}
}

func TestIntentIDFromClientSecret(t *testing.T) {
	id, err := IntentIDFromClientSecret("pi_3Nabc_secret_xyz")
	if err != nil || id != "pi_3Nabc" {
		t.Fatalf("unexpected id %q err=%v", id, err)
	}
	for _, bad := range []string{"", "pi_3Nabc", "seti_1_secret_x"} {
		if _, err := IntentIDFromClientSecret(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestConstructEvent(t *testing.T) {
	payload := []byte(`{"id":"evt_1","object":"event","type":"payment_intent.succeeded","api_version":"2020-08-27","data":{"object":{"id":"pi_1","object":"payment_intent"}}}`)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_test",
		Timestamp: time.Now(),
	})

	c := &Client{signingSecret: "whsec_test"}
	event, err := c.ConstructEvent(signed.Payload, signed.Header)
	if err != nil {
		t.Fatalf("construct event: %v", err)
	}
	if event.Type != "payment_intent.succeeded" {
		t.Fatalf("unexpected event type %s", event.Type)
	}

	if _, err := c.ConstructEvent(signed.Payload, "t=1,v1=bogus"); err == nil {
		t.Fatal("expected signature failure")
	}
	if _, err := (&Client{}).ConstructEvent(signed.Payload, signed.Header); err != ErrWebhookNotConfigured {
		t.Fatalf("expected ErrWebhookNotConfigured, got %v", err)
	}
}
