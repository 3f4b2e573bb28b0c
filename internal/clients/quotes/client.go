// Package quotes provides a client for the upstream quote provider API
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/mbakken/norbank/internal/common"
	"github.com/mbakken/norbank/internal/interfaces"
	"github.com/mbakken/norbank/internal/models"
)

const (
	DefaultBaseURL = "https://finnhub.io/api/v1"
	DefaultTimeout = 30 * time.Second

	// DefaultMinInterval is the minimum spacing between upstream calls.
	// The free provider tier rejects bursts, so batch refreshes must be
	// serialized at this interval.
	DefaultMinInterval = 1100 * time.Millisecond
)

// Client implements the QuoteClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMinInterval sets the minimum inter-request interval
func WithMinInterval(interval time.Duration) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new quote provider client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(DefaultMinInterval), 1),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an upstream provider error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quote provider error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for the minimum inter-request spacing
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Quote provider request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// quoteResponse represents the provider's current-quote payload
type quoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePct     float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
	Error         string  `json:"error"`
}

// GetQuote retrieves the current price fields for a symbol
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.ProviderQuote, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp quoteResponse
	if err := c.get(ctx, "/quote", params, &resp); err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return nil, &APIError{StatusCode: http.StatusOK, Message: resp.Error, Endpoint: "/quote"}
	}

	// The provider reports unknown symbols as an all-zero payload
	if resp.Current == 0 && resp.Timestamp == 0 {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "no data for symbol " + symbol, Endpoint: "/quote"}
	}

	return &models.ProviderQuote{
		Symbol:        symbol,
		Price:         decimal.NewFromFloat(resp.Current),
		Change:        decimal.NewFromFloat(resp.Change),
		ChangePct:     decimal.NewFromFloat(resp.ChangePct),
		DayHigh:       decimal.NewFromFloat(resp.High),
		DayLow:        decimal.NewFromFloat(resp.Low),
		Open:          decimal.NewFromFloat(resp.Open),
		PreviousClose: decimal.NewFromFloat(resp.PreviousClose),
		Timestamp:     time.Unix(resp.Timestamp, 0).UTC(),
	}, nil
}

// profileResponse represents the provider's company-profile payload
type profileResponse struct {
	Name      string  `json:"name"`
	Currency  string  `json:"currency"`
	Exchange  string  `json:"exchange"`
	Industry  string  `json:"finnhubIndustry"`
	MarketCap float64 `json:"marketCapitalization"`
}

// GetCompanyProfile retrieves best-effort company metadata for a symbol.
// The provider returns an empty object for symbols it has no profile for,
// which is surfaced as an error so callers can fall back to catalog data.
func (c *Client) GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp profileResponse
	if err := c.get(ctx, "/stock/profile2", params, &resp); err != nil {
		return nil, err
	}

	if resp.Name == "" {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "no profile for symbol " + symbol, Endpoint: "/stock/profile2"}
	}

	return &models.CompanyProfile{
		Symbol:    symbol,
		Name:      resp.Name,
		Exchange:  resp.Exchange,
		Currency:  strings.ToUpper(resp.Currency),
		Sector:    resp.Industry,
		MarketCap: decimal.NewFromFloat(resp.MarketCap),
	}, nil
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
