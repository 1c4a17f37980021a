// Package payments provides a thin client for the Stripe payment
// intents API. Amounts are integer minor currency units throughout,
// matching Stripe's wire format.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.stripe.com"

// IntentSucceeded is the Stripe status of a completed payment.
const IntentSucceeded = "succeeded"

// Intent is the subset of a Stripe payment intent the store cares about.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// StripeClient calls the Stripe REST API with a secret key.
type StripeClient struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// NewStripeClient creates a new StripeClient.
func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   defaultBaseURL,
		secretKey: secretKey,
	}
}

// NewStripeClientWithBaseURL creates a client against a non-default API
// host, used for tests against a stub server.
func NewStripeClientWithBaseURL(secretKey, baseURL string) *StripeClient {
	c := NewStripeClient(secretKey)
	c.baseURL = baseURL
	return c
}

// CreatePaymentIntent creates a payment intent for the given amount in
// minor units and returns its client secret for the browser-side
// confirmation flow.
func (c *StripeClient) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	for key, value := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment intent request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

// GetPaymentIntent retrieves a payment intent by ID.
func (c *StripeClient) GetPaymentIntent(ctx context.Context, id string) (*Intent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/payment_intents/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment intent request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	return c.do(req)
}

func (c *StripeClient) do(req *http.Request) (*Intent, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stripe error %d: %s", resp.StatusCode, string(body))
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("failed to decode stripe response: %w", err)
	}
	return &intent, nil
}
