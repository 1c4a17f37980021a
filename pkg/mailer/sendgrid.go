// Package mailer sends transactional email through the SendGrid v3 API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.sendgrid.com"

// ConfirmationItem is one purchased line in a confirmation email.
type ConfirmationItem struct {
	ProductName       string
	Quantity          int
	SubtotalFormatted string
}

// Confirmation holds the order facts rendered into the confirmation
// email. All money fields arrive pre-formatted for display.
type Confirmation struct {
	OrderNumber    string
	CustomerName   string
	CustomerEmail  string
	OrderDate      string
	TotalFormatted string
	FullAddress    string
	Items          []ConfirmationItem
}

// SendGridClient sends mail through the SendGrid v3 send endpoint.
type SendGridClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	fromEmail  string
	storeName  string
}

// NewSendGridClient creates a new SendGridClient.
func NewSendGridClient(apiKey, fromEmail, storeName string) *SendGridClient {
	return &SendGridClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   defaultBaseURL,
		apiKey:    apiKey,
		fromEmail: fromEmail,
		storeName: storeName,
	}
}

// NewSendGridClientWithBaseURL creates a client against a non-default
// API host, used for tests against a stub server.
func NewSendGridClientWithBaseURL(apiKey, fromEmail, storeName, baseURL string) *SendGridClient {
	c := NewSendGridClient(apiKey, fromEmail, storeName)
	c.baseURL = baseURL
	return c
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridMessage struct {
	Personalizations []struct {
		To []sendGridAddress `json:"to"`
	} `json:"personalizations"`
	From    sendGridAddress   `json:"from"`
	Subject string            `json:"subject"`
	Content []sendGridContent `json:"content"`
}

// SendOrderConfirmation delivers the confirmation email for an order.
// Callers treat failures as best-effort: log and move on.
func (c *SendGridClient) SendOrderConfirmation(ctx context.Context, conf Confirmation) error {
	msg := sendGridMessage{
		From:    sendGridAddress{Email: c.fromEmail},
		Subject: fmt.Sprintf("Order Confirmation - %s", conf.OrderNumber),
		Content: []sendGridContent{{
			Type:  "text/html",
			Value: c.renderConfirmation(conf),
		}},
	}
	msg.Personalizations = append(msg.Personalizations, struct {
		To []sendGridAddress `json:"to"`
	}{To: []sendGridAddress{{Email: conf.CustomerEmail}}})

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal mail message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sendgrid error %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *SendGridClient) renderConfirmation(conf Confirmation) string {
	var items strings.Builder
	for _, item := range conf.Items {
		fmt.Fprintf(&items, "<p>%s x %d - %s</p>", item.ProductName, item.Quantity, item.SubtotalFormatted)
	}

	return fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: linear-gradient(135deg, #1e3a5f, #4a90e2); padding: 30px; text-align: center;">
    <h1 style="color: white; margin: 0;">%s</h1>
    <p style="color: #c0c5ce; margin: 10px 0 0 0;">Order Confirmation</p>
  </div>
  <div style="padding: 30px; background: #f5f5f5;">
    <h2>Thank you for your order!</h2>
    <p>Hi %s,</p>
    <p>Your order has been confirmed and is being processed.</p>
    <div style="background: white; padding: 20px; border-radius: 10px; margin: 20px 0;">
      <h3>Order Details</h3>
      <p><strong>Order Number:</strong> %s</p>
      <p><strong>Order Date:</strong> %s</p>
      <p><strong>Total:</strong> %s</p>
    </div>
    <div style="background: white; padding: 20px; border-radius: 10px; margin: 20px 0;">
      <h3>Shipping Address</h3>
      <p>%s</p>
    </div>
    <div style="background: white; padding: 20px; border-radius: 10px; margin: 20px 0;">
      <h3>Order Items</h3>
      %s
    </div>
    <p style="margin-top: 30px;">We'll send you another email when your order ships.</p>
    <p style="color: #666; font-size: 12px; margin-top: 40px;">Questions? Contact us at %s</p>
  </div>
</body>
</html>`,
		c.storeName, conf.CustomerName, conf.OrderNumber, conf.OrderDate,
		conf.TotalFormatted, conf.FullAddress, items.String(), c.fromEmail)
}
