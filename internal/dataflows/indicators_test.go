package dataflows

import (
	"math"
	"testing"
)

func steadySeries(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + math.Sin(float64(i)/5)*10
	}
	return closes
}

func TestComputeIndicatorsFullSeries(t *testing.T) {
	ind := ComputeIndicators(steadySeries(60))

	if ind.Close == nil {
		t.Fatal("close should be set")
	}
	if ind.RSI == nil {
		t.Error("RSI should be computed for a 60-day series")
	}
	if ind.RSI != nil && (*ind.RSI < 0 || *ind.RSI > 100) {
		t.Errorf("RSI out of range: %v", *ind.RSI)
	}
	if ind.MACD == nil || ind.MACDSignal == nil {
		t.Error("MACD should be computed for a 60-day series")
	}
	if ind.BBUpper == nil || ind.BBMiddle == nil || ind.BBLower == nil {
		t.Fatal("Bollinger Bands should be computed for a 60-day series")
	}
	if *ind.BBLower > *ind.BBMiddle || *ind.BBMiddle > *ind.BBUpper {
		t.Errorf("bands out of order: %v %v %v", *ind.BBLower, *ind.BBMiddle, *ind.BBUpper)
	}
}

func TestComputeIndicatorsShortSeries(t *testing.T) {
	ind := ComputeIndicators(steadySeries(10))

	if ind.Close == nil {
		t.Fatal("close should be set even for short series")
	}
	if ind.RSI != nil {
		t.Error("RSI must stay nil when the series is shorter than its period")
	}
	if ind.MACD != nil || ind.MACDSignal != nil {
		t.Error("MACD must stay nil when the series is too short")
	}
	if ind.BBUpper != nil {
		t.Error("Bollinger Bands must stay nil when the series is too short")
	}
}

func TestComputeIndicatorsEmptySeries(t *testing.T) {
	ind := ComputeIndicators(nil)
	if ind.Close != nil {
		t.Error("empty series must yield no close")
	}
}
