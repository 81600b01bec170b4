package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shopstack/internal/config"
	"shopstack/internal/model"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.razorpay.com"

// RemoteOrder is the gateway-side order created ahead of payment capture.
// Amount is in minor currency units (paise).
type RemoteOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Client talks to the Razorpay REST API. A zero-credential client is valid
// to construct; every call on it fails with a configuration error so the
// handler layer can respond 503 rather than proceeding with a fake order.
type Client struct {
	cfg     config.RazorpayConfig
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a payment gateway client.
func NewClient(cfg config.RazorpayConfig, logger zerolog.Logger) *Client {
	return &Client{
		cfg:     cfg,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger.With().Str("component", "razorpay").Logger(),
	}
}

// Configured reports whether gateway credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.KeyID != "" && c.cfg.KeySecret != ""
}

// CreateOrder creates a gateway order for the given amount in minor
// currency units. Gateway rejections surface the provider's own error
// description verbatim.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*RemoteOrder, error) {
	if !c.Configured() {
		return nil, model.NewConfigurationError("payment gateway is not configured")
	}
	if amount < 1 {
		return nil, model.NewValidationError("amount must be at least 1")
	}
	if currency == "" {
		currency = "INR"
	}

	payload := map[string]any{
		"amount":   amount,
		"currency": currency,
	}
	if receipt != "" {
		payload["receipt"] = receipt
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("gateway request failed")
		return nil, model.NewGatewayError("payment gateway unreachable", http.StatusBadGateway)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		description := gatewayErrorDescription(respBody)
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("description", description).
			Msg("gateway rejected order creation")
		return nil, model.NewGatewayError(description, resp.StatusCode)
	}

	var order RemoteOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	c.logger.Info().
		Str("gateway_order_id", order.ID).
		Int64("amount", order.Amount).
		Str("currency", order.Currency).
		Msg("gateway order created")

	return &order, nil
}

// VerifyPayment recomputes the expected payment signature as
// HMAC-SHA256(secret, orderID|paymentID) and compares it to the supplied
// one. It never mutates order state; applying paymentStatus=paid is the
// caller's responsibility.
func (c *Client) VerifyPayment(orderID, paymentID, signature string) error {
	if c.cfg.KeySecret == "" {
		return model.NewConfigurationError("payment gateway is not configured")
	}
	if orderID == "" || paymentID == "" || signature == "" {
		return model.NewValidationError("order id, payment id and signature are required")
	}

	mac := hmac.New(sha256.New, []byte(c.cfg.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		c.logger.Warn().
			Str("gateway_order_id", orderID).
			Str("payment_id", paymentID).
			Msg("payment signature mismatch")
		return model.NewInvalidSignatureError("payment signature verification failed")
	}

	c.logger.Info().
		Str("gateway_order_id", orderID).
		Str("payment_id", paymentID).
		Msg("payment signature verified")

	return nil
}

// gatewayErrorDescription extracts the provider's error description from a
// rejection body, falling back to a generic message.
func gatewayErrorDescription(body []byte) string {
	var parsed struct {
		Error struct {
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Description != "" {
		return parsed.Error.Description
	}
	return "payment gateway rejected the request"
}
