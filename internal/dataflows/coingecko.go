package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"coinsage/config"
)

const coinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoClient serves the fundamentals collector and the price series
// behind the technical collector.
type CoinGeckoClient struct {
	client *resty.Client
	cache  *Cache
	apiKey string
}

func NewCoinGeckoClient(cfg *config.Config) *CoinGeckoClient {
	client := resty.New()
	client.SetBaseURL(coinGeckoBaseURL)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("Accept", "application/json")

	return &CoinGeckoClient{
		client: client,
		cache:  NewCache(filepath.Join(cfg.DataCacheDir, "coingecko"), 1*time.Hour, cfg.CacheEnabled),
		apiKey: cfg.CoinGeckoAPIKey,
	}
}

type cgCoinResponse struct {
	Name       string            `json:"name"`
	Symbol     string            `json:"symbol"`
	Categories []string          `json:"categories"`
	Platforms  map[string]string `json:"platforms"`
	MarketData struct {
		MarketCap         map[string]float64 `json:"market_cap"`
		CirculatingSupply float64            `json:"circulating_supply"`
		TotalSupply       *float64           `json:"total_supply"`
		TotalValueLocked  *struct {
			USD float64 `json:"usd"`
		} `json:"total_value_locked"`
	} `json:"market_data"`
}

type cgTickersResponse struct {
	Tickers []json.RawMessage `json:"tickers"`
}

type cgMarketChartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// GetFundamentals fetches fundamental metrics for a coin.
func (c *CoinGeckoClient) GetFundamentals(ctx context.Context, coin string) (*Fundamentals, error) {
	id := CoinID(coin)

	var cached Fundamentals
	if c.cache.Get("coingecko", "fundamentals", id, &cached) {
		return &cached, nil
	}

	var result *Fundamentals
	err := WithRetry(ctx, DefaultRetryConfig(), func() error {
		var coinResp cgCoinResponse
		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(c.queryParams(map[string]string{"localization": "false"})).
			SetResult(&coinResp).
			Get("/coins/" + id)
		if err != nil {
			return fmt.Errorf("fetch coin data for %s: %w", id, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("coin data for %s failed: HTTP %d", id, resp.StatusCode())
		}

		listings := 0
		var tickersResp cgTickersResponse
		tr, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(c.queryParams(nil)).
			SetResult(&tickersResp).
			Get("/coins/" + id + "/tickers")
		// Missing ticker data degrades the listings count, nothing else.
		if err == nil && tr.StatusCode() == 200 {
			listings = len(tickersResp.Tickers)
		}

		f := &Fundamentals{
			Name:             coinResp.Name,
			Symbol:           coinResp.Symbol,
			MarketCapUSD:     decimal.NewFromFloat(coinResp.MarketData.MarketCap["usd"]),
			Categories:       coinResp.Categories,
			Platforms:        coinResp.Platforms,
			ExchangeListings: listings,
		}
		f.CirculatingSupply = decimal.NewFromFloat(coinResp.MarketData.CirculatingSupply)
		if coinResp.MarketData.TotalSupply != nil {
			f.TotalSupply = decimal.NewFromFloat(*coinResp.MarketData.TotalSupply)
		}
		if tvl := coinResp.MarketData.TotalValueLocked; tvl != nil {
			v := decimal.NewFromFloat(tvl.USD)
			f.TVLUSD = &v
		}
		result = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.cache.Set("coingecko", "fundamentals", id, result)
	return result, nil
}

// GetCloseSeries fetches the daily close price series for the last `days`
// days, oldest first.
func (c *CoinGeckoClient) GetCloseSeries(ctx context.Context, coin string, days int) ([]float64, error) {
	id := CoinID(coin)
	if days <= 0 {
		days = 30
	}

	params := map[string]any{"id": id, "days": days}
	var cached []float64
	if c.cache.Get("coingecko", "chart", params, &cached) {
		return cached, nil
	}

	var closes []float64
	err := WithRetry(ctx, DefaultRetryConfig(), func() error {
		var chart cgMarketChartResponse
		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(c.queryParams(map[string]string{
				"vs_currency": "usd",
				"days":        fmt.Sprintf("%d", days),
			})).
			SetResult(&chart).
			Get("/coins/" + id + "/market_chart")
		if err != nil {
			return fmt.Errorf("fetch market chart for %s: %w", id, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("market chart for %s failed: HTTP %d", id, resp.StatusCode())
		}
		if len(chart.Prices) == 0 {
			return fmt.Errorf("no price data for %s", id)
		}

		closes = make([]float64, 0, len(chart.Prices))
		for _, p := range chart.Prices {
			closes = append(closes, p[1])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.cache.Set("coingecko", "chart", params, closes)
	return closes, nil
}

func (c *CoinGeckoClient) queryParams(extra map[string]string) map[string]string {
	params := map[string]string{}
	if c.apiKey != "" {
		params["x_cg_demo_api_key"] = c.apiKey
	}
	for k, v := range extra {
		params[k] = v
	}
	return params
}
