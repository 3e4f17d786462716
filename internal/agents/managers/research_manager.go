// Package managers implements the research synthesis and risk adjustment
// stages that sit downstream of the four analysts.
package managers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/schema"

	"coinsage/consts"
	"coinsage/internal/llm"
	"coinsage/internal/models"
	"coinsage/internal/processing"
)

// ResearchManager combines the four domain reports into one structured,
// horizon-segmented recommendation.
type ResearchManager struct {
	gateway llm.Gateway
}

func NewResearchManager(gateway llm.Gateway) *ResearchManager {
	return &ResearchManager{gateway: gateway}
}

const researchTemplate = `Market Summary: <bulleted list, one bullet per domain>
Short-Term Recommendation: <Buy|Hold|Sell>, Confidence: <0.0-1.0>
Medium-Term Recommendation: <Buy|Hold|Sell>, Confidence: <0.0-1.0>
Long-Term Recommendation: <Buy|Hold|Sell>, Confidence: <0.0-1.0>
Existing Holder Advice: <Buy|Hold|Sell|Add> — Reason: <sentence>
New Investor Advice: <Buy|Hold|Avoid> — Reason: <sentence>`

func orDefault(report, label string) string {
	if strings.TrimSpace(report) == "" {
		return fmt.Sprintf("No %s report available.", label)
	}
	return report
}

// Run synthesizes the research view and writes the research fields on the
// state. It never fails the pipeline: model errors degrade to Hold / 0.5.
func (rm *ResearchManager) Run(ctx context.Context, state *models.PipelineState) {
	combined := fmt.Sprintf(
		"[FUNDAMENTALS]\n%s\n\n[NEWS]\n%s\n\n[SENTIMENT]\n%s\n\n[TECHNICAL]\n%s",
		orDefault(state.FundamentalsReport, "fundamentals"),
		orDefault(state.NewsReport, "news"),
		orDefault(state.SentimentReport, "sentiment"),
		orDefault(state.TechnicalReport, "technical"),
	)

	systemPrompt := fmt.Sprintf(
		"You are a crypto research analyst. Based on the following reports from different analysts "+
			"(fundamentals, news, sentiment, technical), synthesize a unified market view for %s as of %s.\n"+
			"Your output must follow this exact template, nothing else:\n\n%s",
		state.Coin, state.TradeDate, researchTemplate)

	conversation := append(state.Messages, schema.UserMessage(combined))

	resp, err := rm.gateway.Invoke(ctx, systemPrompt, conversation, nil)
	if err != nil {
		log.Printf("[ResearchManager] synthesis failed for %s: %v", state.Coin, err)
		rm.applyDegraded(state, err)
		return
	}

	extracted := processing.Parse(resp.Content, state.TraderProfile, state.Horizon)

	state.Messages = append(state.Messages, resp)
	state.ResearchSummary = resp.Content
	state.ResearchDecision = extracted.Decision
	state.ResearchConfidence = extracted.Confidence
	state.ResearchForecasts = extracted.Forecasts
	state.ResearchAdvice = extracted.Advice
	state.ResearchReason = extracted.Reason
}

func (rm *ResearchManager) applyDegraded(state *models.PipelineState, err error) {
	holdForecast := models.HorizonForecast{
		Recommendation: consts.DecisionHold,
		Confidence:     processing.DefaultConfidence,
	}
	state.ResearchSummary = fmt.Sprintf("Error: %v", err)
	state.ResearchDecision = consts.DecisionHold
	state.ResearchConfidence = processing.DefaultConfidence
	state.ResearchForecasts = map[models.Horizon]models.HorizonForecast{
		models.HorizonShortTerm:  holdForecast,
		models.HorizonMediumTerm: holdForecast,
		models.HorizonLongTerm:   holdForecast,
	}
	state.ResearchAdvice = consts.DecisionHold
	state.ResearchReason = "Error extracting reason."
}
