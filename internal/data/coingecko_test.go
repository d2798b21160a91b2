package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coin-dca/internal/model"
)

func chartParams() MarketChartParams {
	return MarketChartParams{
		CoinID:     "bitcoin",
		VsCurrency: "usd",
		StartTime:  time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2023, time.January, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestMarketChart_Success(t *testing.T) {
	var gotPath, gotVs, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVs = r.URL.Query().Get("vs_currency")
		gotKey = r.Header.Get("x-cg-demo-api-key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prices":[[1672531200000,16500],[1672617600000,16600],[1672704000000,16700]]}`))
	}))
	defer srv.Close()

	client := NewCoinGeckoClient("demo-key", srv.URL)
	series, err := client.MarketChart(context.Background(), chartParams())
	require.NoError(t, err)

	assert.Equal(t, "/api/v3/coins/bitcoin/market_chart/range", gotPath)
	assert.Equal(t, "usd", gotVs)
	assert.Equal(t, "demo-key", gotKey)

	require.Equal(t, 3, series.Len())
	first, _ := series.First()
	assert.Equal(t, "2023-01-01", model.DayKey(first.Day))
	latest, _ := series.Latest()
	assert.InDelta(t, 16700, latest.Price.InexactFloat64(), 1e-9)
}

func TestMarketChart_NotFoundIsPermanent(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewCoinGeckoClient("", srv.URL)
	params := chartParams()
	params.CoinID = "no-such-coin"
	_, err := client.MarketChart(context.Background(), params)
	require.Error(t, err)

	var cgErr *CoinGeckoError
	require.ErrorAs(t, err, &cgErr)
	assert.Equal(t, "COIN_NOT_FOUND", cgErr.Code)
	assert.Equal(t, http.StatusNotFound, cgErr.StatusCode)
	assert.Equal(t, 1, calls, "404 must not be retried")
}

func TestMarketChart_RetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"prices":[[1672531200000,16500]]}`))
	}))
	defer srv.Close()

	client := NewCoinGeckoClient("", srv.URL)
	client.MaxTries = 2
	series, err := client.MarketChart(context.Background(), chartParams())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, series.Len())
}

func TestMarketChart_RateLimitCarriesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewCoinGeckoClient("", srv.URL)
	client.MaxTries = 1
	_, err := client.MarketChart(context.Background(), chartParams())
	require.Error(t, err)

	var cgErr *CoinGeckoError
	require.ErrorAs(t, err, &cgErr)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", cgErr.Code)
	assert.Equal(t, "30", cgErr.RetryAfter)
}

func TestMarketChart_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prices": not-json`))
	}))
	defer srv.Close()

	client := NewCoinGeckoClient("", srv.URL)
	_, err := client.MarketChart(context.Background(), chartParams())
	require.Error(t, err)

	var cgErr *CoinGeckoError
	require.ErrorAs(t, err, &cgErr)
	assert.Equal(t, "MALFORMED_RESPONSE", cgErr.Code)
}

func TestMarketChart_EmptySeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prices":[]}`))
	}))
	defer srv.Close()

	client := NewCoinGeckoClient("", srv.URL)
	_, err := client.MarketChart(context.Background(), chartParams())
	require.Error(t, err)

	var cgErr *CoinGeckoError
	require.ErrorAs(t, err, &cgErr)
	assert.Equal(t, "EMPTY_SERIES", cgErr.Code)
}

func TestMarketChart_ValidatesParams(t *testing.T) {
	client := NewCoinGeckoClient("", "http://unused.invalid")

	params := chartParams()
	params.CoinID = ""
	_, err := client.MarketChart(context.Background(), params)
	assert.Error(t, err)

	params = chartParams()
	params.StartTime, params.EndTime = params.EndTime, params.StartTime
	_, err = client.MarketChart(context.Background(), params)
	assert.Error(t, err)
}

func TestMarketChartByString(t *testing.T) {
	var gotFrom, gotTo string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFrom = r.URL.Query().Get("from")
		gotTo = r.URL.Query().Get("to")
		w.Write([]byte(`{"prices":[[1672531200000,16500]]}`))
	}))
	defer srv.Close()

	client := NewCoinGeckoClient("", srv.URL)
	_, err := client.MarketChartByString(context.Background(), "bitcoin", "usd", "2023-01-01", "2023-01-02")
	require.NoError(t, err)

	// 2023-01-01T00:00:00Z and 2023-01-02T23:59:59Z: the end date is
	// extended so the provider returns that day's sample.
	assert.Equal(t, "1672531200", gotFrom)
	assert.Equal(t, "1672790399", gotTo)

	_, err = client.MarketChartByString(context.Background(), "bitcoin", "usd", "01/01/2023", "2023-01-02")
	assert.Error(t, err)
}

func TestCoinsMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/coins/markets", r.URL.Path)
		assert.Equal(t, "market_cap_desc", r.URL.Query().Get("order"))
		w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin","market_cap_rank":1},{"id":"ethereum","symbol":"eth","name":"Ethereum","market_cap_rank":2}]`))
	}))
	defer srv.Close()

	client := NewCoinGeckoClient("", srv.URL)
	coins, err := client.CoinsMarkets(context.Background(), "usd", 2)
	require.NoError(t, err)
	require.Len(t, coins, 2)
	assert.Equal(t, "bitcoin", coins[0].ID)
	assert.Equal(t, 2, coins[1].MarketCapRank)
}
