// Package processing extracts typed decision fields from free-form model
// output. The patterns are deliberately narrow: everything has a total
// default so the extraction layer can never fail, only degrade.
package processing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"coinsage/consts"
	"coinsage/internal/models"
)

const (
	// DefaultConfidence is used whenever no confidence token is present.
	DefaultConfidence = 0.5
	// DefaultReason is used whenever an advice line carries no reason.
	DefaultReason = "Not specified."
)

// ExtractedDecision is the typed result of parsing a research synthesis
// output. Derived data; never persisted independently of the text.
type ExtractedDecision struct {
	Decision   string
	Confidence float64
	Advice     string
	Reason     string
	Forecasts  map[models.Horizon]models.HorizonForecast
}

var (
	recommendationPatterns = map[models.Horizon]*regexp.Regexp{}
	confidencePatterns     = map[models.Horizon]*regexp.Regexp{}

	holderAdvicePattern = regexp.MustCompile(`(?i)Existing Holder Advice:\s*(Buy|Hold|Sell|Add).*?Reason:\s*(.+)`)
	buyerAdvicePattern  = regexp.MustCompile(`(?i)New Investor Advice:\s*(Buy|Hold|Avoid).*?Reason:\s*(.+)`)
)

func init() {
	for _, h := range []models.Horizon{models.HorizonShortTerm, models.HorizonMediumTerm, models.HorizonLongTerm} {
		label := regexp.QuoteMeta(h.Label())
		recommendationPatterns[h] = regexp.MustCompile(
			fmt.Sprintf(`(?i)%s Recommendation:\s*(Buy|Hold|Sell)`, label))
		confidencePatterns[h] = regexp.MustCompile(
			fmt.Sprintf(`(?is)%s Recommendation:.*?Confidence:\s*([0-1](?:\.\d+)?)`, label))
	}
}

// Parse extracts the full decision from research output text, selecting the
// decision/confidence pair for the given horizon and the advice/reason pair
// for the given trader profile.
func Parse(text string, profile models.TraderProfile, horizon models.Horizon) ExtractedDecision {
	forecasts := map[models.Horizon]models.HorizonForecast{}
	for _, h := range []models.Horizon{models.HorizonShortTerm, models.HorizonMediumTerm, models.HorizonLongTerm} {
		forecasts[h] = models.HorizonForecast{
			Recommendation: HorizonRecommendation(text, h),
			Confidence:     HorizonConfidence(text, h),
		}
	}

	advice, reason := Advice(text, profile)

	selected := forecasts[horizon]
	return ExtractedDecision{
		Decision:   selected.Recommendation,
		Confidence: selected.Confidence,
		Advice:     advice,
		Reason:     reason,
		Forecasts:  forecasts,
	}
}

// HorizonRecommendation returns the Buy/Hold/Sell recommendation for one
// horizon, defaulting to Hold when the label is absent.
func HorizonRecommendation(text string, h models.Horizon) string {
	if m := recommendationPatterns[h].FindStringSubmatch(text); m != nil {
		return normalizeDecision(m[1])
	}
	return consts.DecisionHold
}

// HorizonConfidence returns the confidence for one horizon, defaulting to
// 0.5 when no confidence token follows the recommendation line.
func HorizonConfidence(text string, h models.Horizon) float64 {
	if m := confidencePatterns[h].FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v
		}
	}
	return DefaultConfidence
}

// Advice returns the action/reason pair for one trader profile, with total
// defaults of Hold / "Not specified.".
func Advice(text string, profile models.TraderProfile) (action, reason string) {
	pattern := buyerAdvicePattern
	if profile == models.TraderExistingHolder {
		pattern = holderAdvicePattern
	}
	if m := pattern.FindStringSubmatch(text); m != nil {
		return normalizeDecision(m[1]), strings.TrimSpace(m[2])
	}
	return consts.DecisionHold, DefaultReason
}

// normalizeDecision capitalizes a matched decision term, e.g. "buy" -> "Buy".
func normalizeDecision(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return consts.DecisionHold
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
