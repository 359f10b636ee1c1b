package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"scholarhub/internal/infra"
)

// ErrMissingSecretKey indicates that the client was configured without credentials.
var ErrMissingSecretKey = errors.New("payments: secret key is required")

// ErrBadSignature indicates a webhook payload whose signature did not verify.
var ErrBadSignature = errors.New("payments: webhook signature mismatch")

// Options configures the payment gateway client.
type Options struct {
	SecretKey      string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to a Stripe-shaped payment API.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient builds a gateway client from options, applying defaults.
func NewClient(opts Options) (*Client, error) {
	if opts.SecretKey == "" {
		return nil, ErrMissingSecretKey
	}
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		secretKey:  opts.SecretKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// Intent is the normalized result of creating a payment intent.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// CreateIntent asks the gateway for a payment intent. Metadata is carried
// through to the webhook so the funding procedure can locate the donor,
// student and scholarship.
func (c *Client) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payments: create intent: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		if c.logger != nil {
			c.logger.Error().Int("status", resp.StatusCode).Msg("payment intent rejected")
		}
		return nil, fmt.Errorf("payments: create intent: status %d", resp.StatusCode)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("payments: decode intent: %w", err)
	}
	return &intent, nil
}

// WebhookEvent is the parsed, verified webhook delivery.
type WebhookEvent struct {
	Type        string
	SessionID   string
	AmountCents int64
	Method      string
	Metadata    map[string]string
}

type webhookEnvelope struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID                string            `json:"id"`
			AmountTotal       int64             `json:"amount_total"`
			PaymentMethodType string            `json:"payment_method_type"`
			Metadata          map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// ParseWebhook verifies the signature header against the shared secret and
// decodes the event. The signature covers "<timestamp>.<payload>" with
// HMAC-SHA256, carried as "t=<ts>,v1=<hex>".
func ParseWebhook(payload []byte, signatureHeader, secret string) (*WebhookEvent, error) {
	ts, sig, err := splitSignature(signatureHeader)
	if err != nil {
		return nil, err
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return nil, ErrBadSignature
	}

	var env webhookEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("payments: decode webhook: %w", err)
	}
	method := env.Data.Object.PaymentMethodType
	if method == "" {
		method = "card"
	}
	return &WebhookEvent{
		Type:        env.Type,
		SessionID:   env.Data.Object.ID,
		AmountCents: env.Data.Object.AmountTotal,
		Method:      method,
		Metadata:    env.Data.Object.Metadata,
	}, nil
}

func splitSignature(header string) (ts, sig string, err error) {
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts = kv[1]
		case "v1":
			sig = kv[1]
		}
	}
	if ts == "" || sig == "" {
		return "", "", ErrBadSignature
	}
	return ts, sig, nil
}
