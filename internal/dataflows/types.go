package dataflows

import (
	"github.com/shopspring/decimal"
)

// Fundamentals is the structured result of the fundamentals collector.
type Fundamentals struct {
	Name              string            `json:"name"`
	Symbol            string            `json:"symbol"`
	MarketCapUSD      decimal.Decimal   `json:"market_cap_usd"`
	CirculatingSupply decimal.Decimal   `json:"circulating_supply"`
	TotalSupply       decimal.Decimal   `json:"total_supply"`
	TVLUSD            *decimal.Decimal  `json:"tvl_usd,omitempty"`
	Categories        []string          `json:"categories,omitempty"`
	Platforms         map[string]string `json:"platforms,omitempty"`
	ExchangeListings  int               `json:"exchange_listings"`
}

// NewsItem is one parsed news article.
type NewsItem struct {
	Title     string `json:"title"`
	Source    string `json:"source"`
	Published string `json:"published"`
	URL       string `json:"url"`
}

// Indicators is the indicator name -> value map for the technical collector.
// Nil entries mean the series was too short to compute that indicator.
type Indicators struct {
	RSI        *float64 `json:"rsi"`
	MACD       *float64 `json:"macd"`
	MACDSignal *float64 `json:"macd_signal"`
	BBLower    *float64 `json:"bb_lower"`
	BBMiddle   *float64 `json:"bb_middle"`
	BBUpper    *float64 `json:"bb_upper"`
	Close      *float64 `json:"close"`
}
