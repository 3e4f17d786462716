package dataflows

import (
	"github.com/markcheno/go-talib"
)

const (
	rsiPeriod    = 14
	macdFast     = 12
	macdSlow     = 26
	macdSignal   = 9
	bbandsPeriod = 20
	bbandsDev    = 2.0
)

// ComputeIndicators derives RSI, MACD and Bollinger Bands from a daily close
// series. Indicators whose lookback exceeds the series length stay nil so the
// analyst can report them as unavailable instead of fabricating values.
func ComputeIndicators(closes []float64) *Indicators {
	ind := &Indicators{}
	if len(closes) == 0 {
		return ind
	}

	last := closes[len(closes)-1]
	ind.Close = &last

	if len(closes) > rsiPeriod {
		rsi := talib.Rsi(closes, rsiPeriod)
		ind.RSI = lastOf(rsi)
	}

	if len(closes) >= macdSlow+macdSignal {
		macd, signal, _ := talib.Macd(closes, macdFast, macdSlow, macdSignal)
		ind.MACD = lastOf(macd)
		ind.MACDSignal = lastOf(signal)
	}

	if len(closes) >= bbandsPeriod {
		upper, middle, lower := talib.BBands(closes, bbandsPeriod, bbandsDev, bbandsDev, talib.SMA)
		ind.BBUpper = lastOf(upper)
		ind.BBMiddle = lastOf(middle)
		ind.BBLower = lastOf(lower)
	}

	return ind
}

func lastOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	v := values[len(values)-1]
	return &v
}
