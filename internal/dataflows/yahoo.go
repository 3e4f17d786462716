package dataflows

import (
	"fmt"

	"github.com/piquette/finance-go/quote"
)

// YahooQuoteClient fetches crypto spot quotes from Yahoo Finance. It is the
// close-price fallback when CoinGecko's market chart endpoint is unavailable.
type YahooQuoteClient struct{}

func NewYahooQuoteClient() *YahooQuoteClient {
	return &YahooQuoteClient{}
}

// GetClose returns the latest market price for a coin via its Yahoo USD pair,
// e.g. BTC-USD.
func (yc *YahooQuoteClient) GetClose(coin string) (float64, error) {
	symbol := CoinSymbol(coin) + "-USD"

	q, err := quote.Get(symbol)
	if err != nil {
		return 0, fmt.Errorf("fetch Yahoo quote %s: %w", symbol, err)
	}
	if q == nil {
		return 0, fmt.Errorf("no Yahoo quote for %s", symbol)
	}

	return q.RegularMarketPrice, nil
}
