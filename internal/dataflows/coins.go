package dataflows

import "strings"

// coinIDs maps common coin names and tickers to CoinGecko identifiers.
var coinIDs = map[string]string{
	"bitcoin":  "bitcoin",
	"btc":      "bitcoin",
	"ethereum": "ethereum",
	"eth":      "ethereum",
	"solana":   "solana",
	"sol":      "solana",
	"ripple":   "ripple",
	"xrp":      "ripple",
	"cardano":  "cardano",
	"ada":      "cardano",
	"dogecoin": "dogecoin",
	"doge":     "dogecoin",
	"polkadot": "polkadot",
	"dot":      "polkadot",
}

// coinSymbols maps coin names to ticker symbols for news and quote lookups.
var coinSymbols = map[string]string{
	"bitcoin":         "BTC",
	"ethereum":        "ETH",
	"ripple":          "XRP",
	"tether":          "USDT",
	"binance coin":    "BNB",
	"solana":          "SOL",
	"usd coin":        "USDC",
	"dogecoin":        "DOGE",
	"tron":            "TRX",
	"cardano":         "ADA",
	"hyperliquid":     "HYPE",
	"stellar":         "XLM",
	"sui":             "SUI",
	"chainlink":       "LINK",
	"hedera":          "HBAR",
	"bitcoin cash":    "BCH",
	"avalanche":       "AVAX",
	"toncoin":         "TON",
	"polkadot":        "DOT",
	"wrapped bitcoin": "WBTC",
}

// CoinID resolves a user-supplied coin identifier to a CoinGecko id,
// falling back to the lowercased input for coins outside the map.
func CoinID(coin string) string {
	key := strings.ToLower(strings.TrimSpace(coin))
	if id, ok := coinIDs[key]; ok {
		return id
	}
	return key
}

// CoinSymbol resolves a coin identifier to its ticker symbol, falling back
// to the uppercased input.
func CoinSymbol(coin string) string {
	key := strings.ToLower(strings.TrimSpace(coin))
	if sym, ok := coinSymbols[key]; ok {
		return sym
	}
	return strings.ToUpper(key)
}
