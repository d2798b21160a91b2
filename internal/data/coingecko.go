package data

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	"coin-dca/internal/model"
)

// CoinGeckoClient provides methods to fetch data from the CoinGecko API.
type CoinGeckoClient struct {
	APIKey  string // optional; the public API works without one at a lower rate limit
	BaseURL string
	Client  *http.Client

	// MaxTries bounds retry attempts for rate-limited or failed requests.
	MaxTries uint
}

// NewCoinGeckoClient creates a new CoinGecko API client.
// If baseURL is empty, defaults to "https://api.coingecko.com".
func NewCoinGeckoClient(apiKey string, baseURL string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = "https://api.coingecko.com"
	}
	return &CoinGeckoClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxTries: 4,
	}
}

// MarketChartParams defines parameters for querying historical prices.
type MarketChartParams struct {
	CoinID     string    // e.g., "bitcoin"
	VsCurrency string    // e.g., "usd"
	StartTime  time.Time // Start of time range
	EndTime    time.Time // End of time range
}

// CoinGeckoError represents an error from the CoinGecko API.
type CoinGeckoError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *CoinGeckoError) Error() string {
	return e.Message
}

// retryable reports whether the request may be retried: rate limits and
// server-side failures only. Auth, not-found and malformed responses are
// permanent.
func (e *CoinGeckoError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// MarketChart fetches [timestampMillis, price] pairs for a coin over a date
// range and maps them into a day-keyed price series (UTC days).
//
// Rate-limited (429) and 5xx responses are retried with exponential backoff
// up to MaxTries; everything else surfaces immediately. The simulator itself
// never retries — fetch policy lives here.
func (c *CoinGeckoClient) MarketChart(ctx context.Context, params MarketChartParams) (*model.PriceSeries, error) {
	if params.CoinID == "" {
		return nil, fmt.Errorf("coin_id is required")
	}
	if params.VsCurrency == "" {
		return nil, fmt.Errorf("vs_currency is required")
	}
	if params.StartTime.IsZero() || params.EndTime.IsZero() {
		return nil, fmt.Errorf("start_time and end_time are required")
	}
	if params.StartTime.After(params.EndTime) {
		return nil, fmt.Errorf("start_time must be before end_time")
	}

	// Check cache first (only if enabled for development)
	if cache := GetCache(); cache != nil {
		cacheKey := GenerateCacheKey(params)
		if cached, found := cache.Get(cacheKey); found {
			log.Printf("[CoinGecko] Cache hit: %d price samples (coin=%s, vs=%s, start=%s, end=%s)",
				len(cached.Prices), params.CoinID, params.VsCurrency,
				params.StartTime.Format(model.DayLayout), params.EndTime.Format(model.DayLayout))
			return model.FromMarketChart(cached), nil
		}
	}

	operation := func() (*model.MarketChartResponse, error) {
		resp, err := c.fetchMarketChart(ctx, params)
		if err != nil {
			if cgErr, ok := err.(*CoinGeckoError); ok && !cgErr.retryable() {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return resp, nil
	}

	notify := func(err error, next time.Duration) {
		log.Printf("[CoinGecko] Retrying in %v after error: %v (coin=%s)", next, err, params.CoinID)
	}

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.MaxTries),
		backoff.WithNotify(notify))
	if err != nil {
		return nil, err
	}

	series := model.FromMarketChart(resp)
	if series.Len() == 0 {
		return nil, &CoinGeckoError{
			StatusCode: http.StatusOK,
			Code:       "EMPTY_SERIES",
			Message:    fmt.Sprintf("response for %s contained no prices", params.CoinID),
		}
	}

	// Cache the raw response if caching is enabled (development only)
	if cache := GetCache(); cache != nil {
		cache.Set(GenerateCacheKey(params), resp)
		log.Printf("[CoinGecko] Cached response (coin=%s, vs=%s)", params.CoinID, params.VsCurrency)
	}

	return series, nil
}

// fetchMarketChart performs one GET against
// /api/v3/coins/{id}/market_chart/range.
func (c *CoinGeckoClient) fetchMarketChart(ctx context.Context, params MarketChartParams) (*model.MarketChartResponse, error) {
	path := fmt.Sprintf("/api/v3/coins/%s/market_chart/range", url.PathEscape(params.CoinID))
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	q.Set("vs_currency", params.VsCurrency)
	q.Set("from", strconv.FormatInt(params.StartTime.Unix(), 10))
	q.Set("to", strconv.FormatInt(params.EndTime.Unix(), 10))
	u.RawQuery = q.Encode()

	log.Printf("[CoinGecko] Request: GET %s (coin=%s, vs=%s, start=%s, end=%s)",
		u.Path,
		params.CoinID,
		params.VsCurrency,
		params.StartTime.Format(model.DayLayout),
		params.EndTime.Format(model.DayLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.APIKey)
	}

	startTime := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Printf("[CoinGecko] Request failed: %v (duration: %v)", err, duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[CoinGecko] Response: %d %s (duration: %v, coin=%s)",
		resp.StatusCode, resp.Status, duration, params.CoinID)

	switch resp.StatusCode {
	case http.StatusOK:
		// Success, continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &CoinGeckoError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "Invalid or missing API key",
		}
	case http.StatusNotFound:
		return nil, &CoinGeckoError{
			StatusCode: resp.StatusCode,
			Code:       "COIN_NOT_FOUND",
			Message:    fmt.Sprintf("unknown coin id %q", params.CoinID),
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return nil, &CoinGeckoError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return nil, &CoinGeckoError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var result model.MarketChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &CoinGeckoError{
			StatusCode: resp.StatusCode,
			Code:       "MALFORMED_RESPONSE",
			Message:    fmt.Sprintf("failed to decode response: %v", err),
		}
	}

	log.Printf("[CoinGecko] Success: received %d price samples (coin=%s)", len(result.Prices), params.CoinID)
	return &result, nil
}

// MarketChartByString is a convenience method that parses date strings.
// startDate and endDate should be in "YYYY-MM-DD" format; the end date is
// extended to the end of its day so the provider returns that day's sample.
func (c *CoinGeckoClient) MarketChartByString(ctx context.Context, coinID, vsCurrency, startDate, endDate string) (*model.PriceSeries, error) {
	startTime, err := time.ParseInLocation(model.DayLayout, startDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date format (expected YYYY-MM-DD): %w", err)
	}
	endTime, err := time.ParseInLocation(model.DayLayout, endDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date format (expected YYYY-MM-DD): %w", err)
	}

	return c.MarketChart(ctx, MarketChartParams{
		CoinID:     coinID,
		VsCurrency: vsCurrency,
		StartTime:  startTime,
		EndTime:    endTime.Add(24*time.Hour - time.Second),
	})
}

// CoinsMarkets fetches the top coins by market cap from /api/v3/coins/markets.
// Used by the update-coins tool to refresh the local coin catalog.
func (c *CoinGeckoClient) CoinsMarkets(ctx context.Context, vsCurrency string, perPage int) ([]Coin, error) {
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	if perPage <= 0 {
		perPage = 100
	}

	u, err := url.Parse(c.BaseURL + "/api/v3/coins/markets")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("vs_currency", vsCurrency)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &CoinGeckoError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var rows []struct {
		ID            string `json:"id"`
		Symbol        string `json:"symbol"`
		Name          string `json:"name"`
		MarketCapRank int    `json:"market_cap_rank"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, &CoinGeckoError{
			StatusCode: resp.StatusCode,
			Code:       "MALFORMED_RESPONSE",
			Message:    fmt.Sprintf("failed to decode response: %v", err),
		}
	}

	coins := make([]Coin, 0, len(rows))
	for _, r := range rows {
		coins = append(coins, Coin{
			ID:            r.ID,
			Symbol:        r.Symbol,
			Name:          r.Name,
			MarketCapRank: r.MarketCapRank,
		})
	}
	return coins, nil
}
