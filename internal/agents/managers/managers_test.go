package managers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	"coinsage/internal/models"
)

type stubGateway struct {
	content string
	err     error
	calls   int
}

func (g *stubGateway) Invoke(_ context.Context, _ string, _ []*schema.Message, _ []*schema.ToolInfo) (*schema.Message, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return schema.AssistantMessage(g.content, nil), nil
}

const researchOutput = `Market Summary:
- Fundamentals: strong market cap growth
- News: positive ETF coverage
- Sentiment: bullish community mood
- Technical: RSI neutral
Short-Term Recommendation: Buy, Confidence: 0.6
Medium-Term Recommendation: Hold, Confidence: 0.55
Long-Term Recommendation: Sell, Confidence: 0.83
Existing Holder Advice: Hold — Reason: Wait for confirmation.
New Investor Advice: Avoid — Reason: Entry risk too high.`

func researchState(profile models.TraderProfile, horizon models.Horizon) *models.PipelineState {
	state := models.NewPipelineState("bitcoin", "2025-06-01", profile, horizon)
	state.NewsReport = "news report"
	state.FundamentalsReport = "fundamentals report"
	state.TechnicalReport = "technical report"
	state.SentimentReport = "sentiment report"
	return state
}

func TestResearchManagerExtractsHorizonDecision(t *testing.T) {
	gateway := &stubGateway{content: researchOutput}
	state := researchState(models.TraderExistingHolder, models.HorizonLongTerm)

	NewResearchManager(gateway).Run(context.Background(), state)

	if state.ResearchDecision != "Sell" {
		t.Errorf("decision = %q, want Sell", state.ResearchDecision)
	}
	if state.ResearchConfidence != 0.83 {
		t.Errorf("confidence = %v, want 0.83", state.ResearchConfidence)
	}
	if state.ResearchAdvice != "Hold" {
		t.Errorf("advice = %q, want Hold for existing holder", state.ResearchAdvice)
	}
	if state.ResearchSummary != researchOutput {
		t.Error("summary must carry the raw model output")
	}
	if got := state.ResearchForecasts[models.HorizonShortTerm]; got.Recommendation != "Buy" || got.Confidence != 0.6 {
		t.Errorf("short-term forecast = %+v", got)
	}
}

func TestResearchManagerDegradesOnGatewayError(t *testing.T) {
	gateway := &stubGateway{err: errors.New("model unavailable")}
	state := researchState(models.TraderNewBuyer, models.HorizonShortTerm)

	NewResearchManager(gateway).Run(context.Background(), state)

	if state.ResearchDecision != "Hold" {
		t.Errorf("decision = %q, want Hold", state.ResearchDecision)
	}
	if state.ResearchConfidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", state.ResearchConfidence)
	}
	if state.ResearchReason != "Error extracting reason." {
		t.Errorf("reason = %q", state.ResearchReason)
	}
	if !strings.HasPrefix(state.ResearchSummary, "Error:") {
		t.Errorf("summary = %q, want Error: prefix", state.ResearchSummary)
	}
}

func TestResearchManagerToleratesMissingReports(t *testing.T) {
	gateway := &stubGateway{content: researchOutput}
	state := models.NewPipelineState("bitcoin", "2025-06-01", models.TraderNewBuyer, models.HorizonShortTerm)

	NewResearchManager(gateway).Run(context.Background(), state)

	if gateway.calls != 1 {
		t.Fatal("synthesis must still run with no upstream reports")
	}
	if state.ResearchDecision != "Buy" {
		t.Errorf("decision = %q, want Buy", state.ResearchDecision)
	}
}

func riskState(profile models.TraderProfile, decision string, confidence, longTermConfidence float64) *models.PipelineState {
	state := models.NewPipelineState("bitcoin", "2025-06-01", profile, models.HorizonShortTerm)
	state.ResearchDecision = decision
	state.ResearchConfidence = confidence
	state.ResearchSummary = "research summary"
	state.ResearchForecasts = map[models.Horizon]models.HorizonForecast{
		models.HorizonLongTerm: {Recommendation: decision, Confidence: longTermConfidence},
	}
	return state
}

func TestRiskManagerHolderLowConfidenceHolds(t *testing.T) {
	gateway := &stubGateway{content: "narrative"}
	state := riskState(models.TraderExistingHolder, "Buy", 0.5, 0.9)

	NewRiskManager(gateway).Run(context.Background(), state)

	if state.FinalRecommendation != "Hold" {
		t.Errorf("recommendation = %q, want Hold (confidence below 0.55 fires first)", state.FinalRecommendation)
	}
	if state.Confidence == nil || *state.Confidence != 0.5 {
		t.Errorf("confidence = %v, must be carried through unchanged", state.Confidence)
	}
	if !strings.Contains(state.RiskNotes, "downgraded to Hold") {
		t.Errorf("risk notes must trace the fired rule: %q", state.RiskNotes)
	}
}

func TestRiskManagerHolderModerateBuyHolds(t *testing.T) {
	gateway := &stubGateway{content: "narrative"}
	state := riskState(models.TraderExistingHolder, "Buy", 0.65, 0.9)

	NewRiskManager(gateway).Run(context.Background(), state)

	if state.FinalRecommendation != "Hold" {
		t.Errorf("recommendation = %q, want Hold for Buy at 0.65", state.FinalRecommendation)
	}
}

func TestRiskManagerHolderStrongBuyPasses(t *testing.T) {
	gateway := &stubGateway{content: "narrative"}
	state := riskState(models.TraderExistingHolder, "Buy", 0.85, 0.9)

	NewRiskManager(gateway).Run(context.Background(), state)

	if state.FinalRecommendation != "Buy" {
		t.Errorf("recommendation = %q, want Buy", state.FinalRecommendation)
	}
}

func TestRiskManagerHolderSellPreserved(t *testing.T) {
	gateway := &stubGateway{content: "narrative"}
	state := riskState(models.TraderExistingHolder, "Sell", 0.7, 0.4)

	NewRiskManager(gateway).Run(context.Background(), state)

	if state.FinalRecommendation != "Sell" {
		t.Errorf("recommendation = %q, want Sell", state.FinalRecommendation)
	}
}

func TestRiskManagerBuyerStrongConvictionBuys(t *testing.T) {
	gateway := &stubGateway{content: "narrative"}
	state := riskState(models.TraderNewBuyer, "Buy", 0.9, 0.8)

	NewRiskManager(gateway).Run(context.Background(), state)

	if state.FinalRecommendation != "Buy" {
		t.Errorf("recommendation = %q, want Buy", state.FinalRecommendation)
	}
}

func TestRiskManagerBuyerModerateConfidenceHolds(t *testing.T) {
	gateway := &stubGateway{content: "narrative"}
	state := riskState(models.TraderNewBuyer, "Buy", 0.6, 0.9)

	NewRiskManager(gateway).Run(context.Background(), state)

	if state.FinalRecommendation != "Hold" {
		t.Errorf("recommendation = %q, want Hold for buyer at 0.6", state.FinalRecommendation)
	}
}

func TestRiskManagerBuyerWeakLongTermHolds(t *testing.T) {
	gateway := &stubGateway{content: "narrative"}
	state := riskState(models.TraderNewBuyer, "Buy", 0.9, 0.7)

	NewRiskManager(gateway).Run(context.Background(), state)

	if state.FinalRecommendation != "Hold" {
		t.Errorf("recommendation = %q, want Hold when long-term confidence is weak", state.FinalRecommendation)
	}
}

func TestRiskManagerGatewayErrorDegrades(t *testing.T) {
	gateway := &stubGateway{err: errors.New("model down")}
	state := riskState(models.TraderExistingHolder, "Buy", 0.9, 0.9)

	NewRiskManager(gateway).Run(context.Background(), state)

	if state.FinalRecommendation != "Hold" {
		t.Errorf("recommendation = %q, want Hold on narration failure", state.FinalRecommendation)
	}
	if state.FinalReason != "Error during decision evaluation." {
		t.Errorf("reason = %q", state.FinalReason)
	}
	if !strings.HasPrefix(state.RiskNotes, "Error during risk check:") {
		t.Errorf("risk notes = %q", state.RiskNotes)
	}
	if state.Confidence != nil {
		t.Errorf("confidence = %v, want nil when evaluation degraded", *state.Confidence)
	}
}

func TestRiskManagerNarrativeAppendsToRuleReason(t *testing.T) {
	gateway := &stubGateway{content: "The market context supports caution."}
	state := riskState(models.TraderExistingHolder, "Buy", 0.85, 0.9)

	NewRiskManager(gateway).Run(context.Background(), state)

	if !strings.HasPrefix(state.FinalReason, "Strong enough research") {
		t.Errorf("reason must lead with the rule-derived text: %q", state.FinalReason)
	}
	if !strings.Contains(state.FinalReason, "supports caution") {
		t.Errorf("reason must include the narrative: %q", state.FinalReason)
	}
}
