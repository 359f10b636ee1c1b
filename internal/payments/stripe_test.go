package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const webhookSecret = "whsec_test"

func signPayload(payload []byte, ts string) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestParseWebhook(t *testing.T) {
	payload := []byte(`{
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_42",
			"amount_total": 250000,
			"payment_method_type": "card",
			"metadata": {"donor_id": "d1", "student_id": "s1", "scholarship_id": "sch1"}
		}}
	}`)

	event, err := ParseWebhook(payload, signPayload(payload, "1234567890"), webhookSecret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Type != "checkout.session.completed" {
		t.Errorf("type = %q", event.Type)
	}
	if event.SessionID != "cs_test_42" {
		t.Errorf("session = %q", event.SessionID)
	}
	if event.AmountCents != 250000 {
		t.Errorf("amount = %d", event.AmountCents)
	}
	if event.Metadata["donor_id"] != "d1" {
		t.Errorf("metadata = %v", event.Metadata)
	}
}

func TestParseWebhookBadSignature(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)

	_, err := ParseWebhook(payload, "t=1,v1=deadbeef", webhookSecret)
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseWebhookTamperedPayload(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)
	header := signPayload(payload, "1234567890")

	tampered := []byte(`{"type":"checkout.session.completed","data":{"object":{"amount_total":1}}}`)
	if _, err := ParseWebhook(tampered, header, webhookSecret); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseWebhookMissingHeader(t *testing.T) {
	if _, err := ParseWebhook([]byte("{}"), "", webhookSecret); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseWebhookDefaultsMethod(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)
	event, err := ParseWebhook(payload, signPayload(payload, "99"), webhookSecret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Method != "card" {
		t.Errorf("method = %q", event.Method)
	}
}

func TestCreateIntent(t *testing.T) {
	var gotAuth, gotAmount, gotMetadata string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotAuth = r.Header.Get("Authorization")
		gotAmount = r.PostFormValue("amount")
		gotMetadata = r.PostFormValue("metadata[donor_id]")
		fmt.Fprint(w, `{"id":"pi_1","client_secret":"pi_1_secret","amount":250000,"currency":"usd"}`)
	}))
	defer srv.Close()

	client, err := NewClient(Options{SecretKey: "sk_test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	intent, err := client.CreateIntent(context.Background(), 250000, "usd", map[string]string{"donor_id": "d1"})
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}

	if gotAuth != "Bearer sk_test" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotAmount != "250000" {
		t.Errorf("amount = %q", gotAmount)
	}
	if gotMetadata != "d1" {
		t.Errorf("metadata = %q", gotMetadata)
	}
	if intent.ID != "pi_1" || intent.ClientSecret != "pi_1_secret" {
		t.Errorf("intent = %+v", intent)
	}
}

func TestCreateIntentGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	client, err := NewClient(Options{SecretKey: "sk_test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if _, err := client.CreateIntent(context.Background(), 100, "usd", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(Options{}); !errors.Is(err, ErrMissingSecretKey) {
		t.Fatalf("err = %v", err)
	}
}
