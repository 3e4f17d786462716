package dataflows

import "testing"

func TestCoinID(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"bitcoin", "bitcoin"},
		{"BTC", "bitcoin"},
		{"  Ethereum ", "ethereum"},
		{"sol", "solana"},
		{"pepe", "pepe"},
	}
	for _, tc := range cases {
		if got := CoinID(tc.input); got != tc.want {
			t.Errorf("CoinID(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCoinSymbol(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"bitcoin", "BTC"},
		{"Ethereum", "ETH"},
		{"binance coin", "BNB"},
		{"pepe", "PEPE"},
	}
	for _, tc := range cases {
		if got := CoinSymbol(tc.input); got != tc.want {
			t.Errorf("CoinSymbol(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
