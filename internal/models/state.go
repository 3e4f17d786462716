package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
)

// TraderProfile identifies the kind of trader the recommendation is for.
type TraderProfile string

const (
	TraderNewBuyer       TraderProfile = "new_buyer"
	TraderExistingHolder TraderProfile = "existing_holder"
)

func ParseTraderProfile(s string) (TraderProfile, error) {
	switch TraderProfile(strings.ToLower(strings.TrimSpace(s))) {
	case TraderNewBuyer:
		return TraderNewBuyer, nil
	case TraderExistingHolder:
		return TraderExistingHolder, nil
	}
	return "", fmt.Errorf("unknown trader profile %q", s)
}

// Horizon is the time frame the recommendation targets.
type Horizon string

const (
	HorizonShortTerm  Horizon = "short_term"
	HorizonMediumTerm Horizon = "medium_term"
	HorizonLongTerm   Horizon = "long_term"
)

func ParseHorizon(s string) (Horizon, error) {
	switch Horizon(strings.ToLower(strings.TrimSpace(s))) {
	case HorizonShortTerm:
		return HorizonShortTerm, nil
	case HorizonMediumTerm:
		return HorizonMediumTerm, nil
	case HorizonLongTerm:
		return HorizonLongTerm, nil
	}
	return "", fmt.Errorf("unknown horizon %q", s)
}

// Label returns the horizon label used in model output, e.g. "Short-Term".
func (h Horizon) Label() string {
	switch h {
	case HorizonShortTerm:
		return "Short-Term"
	case HorizonMediumTerm:
		return "Medium-Term"
	case HorizonLongTerm:
		return "Long-Term"
	}
	return string(h)
}

// PipelineState is the single mutable record threaded through all stages.
// Coin, TradeDate, TraderProfile and Horizon are set once at pipeline start;
// every other field has exactly one writer stage. One instance per
// invocation, never shared across runs.
type PipelineState struct {
	Coin          string        `json:"coin"`
	TradeDate     string        `json:"trade_date"`
	TraderProfile TraderProfile `json:"trader_profile"`
	Horizon       Horizon       `json:"horizon"`

	// Conversation with the model gateway. Reset by the orchestrator to a
	// single fresh instruction message before each stage to avoid prompt
	// bleed, appended to within a stage.
	Messages []*schema.Message `json:"messages"`

	// Analysis stage outputs, one writer each.
	NewsReport         string `json:"news_report"`
	FundamentalsReport string `json:"fundamentals_report"`
	TechnicalReport    string `json:"technical_report"`
	SentimentReport    string `json:"sentiment_report"`

	// Research synthesis outputs.
	ResearchSummary    string                      `json:"research_summary"`
	ResearchDecision   string                      `json:"research_decision"`
	ResearchConfidence float64                     `json:"research_confidence"`
	ResearchForecasts  map[Horizon]HorizonForecast `json:"research_forecasts"`
	ResearchAdvice     string                      `json:"research_advice"`
	ResearchReason     string                      `json:"research_reason"`

	// Risk adjustment outputs, the terminal fields. Confidence is nil when
	// the risk stage degraded before it could carry a value through.
	FinalRecommendation string   `json:"final_recommendation"`
	FinalReason         string   `json:"final_reason"`
	RiskNotes           string   `json:"risk_notes"`
	Confidence          *float64 `json:"confidence"`
}

// HorizonForecast is one horizon's recommendation and confidence as
// extracted from the research synthesis output.
type HorizonForecast struct {
	Recommendation string  `json:"recommendation"`
	Confidence     float64 `json:"confidence"`
}

func NewPipelineState(coin, tradeDate string, profile TraderProfile, horizon Horizon) *PipelineState {
	if tradeDate == "" {
		tradeDate = time.Now().Format("2006-01-02")
	}
	return &PipelineState{
		Coin:          coin,
		TradeDate:     tradeDate,
		TraderProfile: profile,
		Horizon:       horizon,
		Messages:      []*schema.Message{},
	}
}

// ResetConversation replaces the conversation with a single fresh
// instruction message scoped to the entering stage.
func (s *PipelineState) ResetConversation(instruction string) {
	s.Messages = []*schema.Message{schema.UserMessage(instruction)}
}
