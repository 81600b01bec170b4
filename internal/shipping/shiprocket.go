package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"shopstack/internal/config"
	"shopstack/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultBaseURL = "https://apiv2.shiprocket.in"

	// Shiprocket tokens are valid for ten days; refresh a day early.
	tokenLifetime = 9 * 24 * time.Hour
)

// CourierOption is one serviceable courier with its quoted rate.
type CourierOption struct {
	Name         string          `json:"courierName"`
	Rate         decimal.Decimal `json:"rate"`
	EstimatedDays string         `json:"estimatedDays,omitempty"`
}

// ServiceabilityResult lists the couriers able to serve a route.
type ServiceabilityResult struct {
	Serviceable bool            `json:"serviceable"`
	Couriers    []CourierOption `json:"couriers"`
}

// Client talks to the Shiprocket API. The auth token is cached process-wide
// with an expiry check; two concurrent requests may both refresh it
// redundantly, which is harmless.
type Client struct {
	cfg     config.ShiprocketConfig
	baseURL string
	http    *http.Client
	logger  zerolog.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a shipping gateway client.
func NewClient(cfg config.ShiprocketConfig, logger zerolog.Logger) *Client {
	return &Client{
		cfg:     cfg,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger.With().Str("component", "shiprocket").Logger(),
	}
}

// Configured reports whether gateway credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.Email != "" && c.cfg.Password != ""
}

// CheckServiceability queries courier availability and rates for a route.
func (c *Client) CheckServiceability(ctx context.Context, pickupPostcode, deliveryPostcode string, weightKg decimal.Decimal, cod bool) (*ServiceabilityResult, error) {
	if !c.Configured() {
		return nil, model.NewConfigurationError("shipping gateway is not configured")
	}
	if pickupPostcode == "" || deliveryPostcode == "" {
		return nil, model.NewValidationError("pickup and delivery postcodes are required")
	}
	if weightKg.LessThanOrEqual(decimal.Zero) {
		return nil, model.NewValidationError("weight must be greater than zero")
	}

	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("pickup_postcode", pickupPostcode)
	query.Set("delivery_postcode", deliveryPostcode)
	query.Set("weight", weightKg.String())
	if cod {
		query.Set("cod", "1")
	} else {
		query.Set("cod", "0")
	}

	endpoint := c.baseURL + "/v1/external/courier/serviceability/?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build serviceability request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("serviceability request failed")
		return nil, model.NewGatewayError("shipping gateway unreachable", http.StatusBadGateway)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read serviceability response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("shipping gateway rejected serviceability check")
		return nil, model.NewGatewayError("shipping gateway rejected the request", resp.StatusCode)
	}

	var parsed struct {
		Data struct {
			AvailableCourierCompanies []struct {
				CourierName string          `json:"courier_name"`
				Rate        decimal.Decimal `json:"rate"`
				ETD         string          `json:"etd"`
			} `json:"available_courier_companies"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode serviceability response: %w", err)
	}

	result := &ServiceabilityResult{
		Serviceable: len(parsed.Data.AvailableCourierCompanies) > 0,
		Couriers:    make([]CourierOption, 0, len(parsed.Data.AvailableCourierCompanies)),
	}
	for _, courier := range parsed.Data.AvailableCourierCompanies {
		result.Couriers = append(result.Couriers, CourierOption{
			Name:          courier.CourierName,
			Rate:          courier.Rate,
			EstimatedDays: courier.ETD,
		})
	}

	c.logger.Debug().
		Str("pickup", pickupPostcode).
		Str("delivery", deliveryPostcode).
		Int("couriers", len(result.Couriers)).
		Msg("serviceability checked")

	return result, nil
}

// authToken returns the cached token, logging in again when it has expired.
// The mutex only guards field access; both of two concurrent callers may
// observe an expired token and refresh it, which matches the gateway's
// stateless login semantics.
func (c *Client) authToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	token, expiry := c.token, c.tokenExpiry
	c.mu.Unlock()

	if token != "" && time.Now().Before(expiry) {
		return token, nil
	}

	payload, err := json.Marshal(map[string]string{
		"email":    c.cfg.Email,
		"password": c.cfg.Password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/external/auth/login", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("shipping gateway login failed")
		return "", model.NewGatewayError("shipping gateway unreachable", http.StatusBadGateway)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read login response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("shipping gateway rejected login")
		return "", model.NewGatewayError("shipping gateway login rejected: "+strconv.Itoa(resp.StatusCode), resp.StatusCode)
	}

	var parsed struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if parsed.Token == "" {
		return "", model.NewGatewayError("shipping gateway returned an empty token", http.StatusBadGateway)
	}

	c.mu.Lock()
	c.token = parsed.Token
	c.tokenExpiry = time.Now().Add(tokenLifetime)
	c.mu.Unlock()

	c.logger.Info().Msg("shipping gateway token refreshed")

	return parsed.Token, nil
}
