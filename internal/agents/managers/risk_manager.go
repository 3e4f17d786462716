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
)

// RiskManager applies deterministic guardrails to the synthesized
// recommendation, then asks the model only to narrate the already-decided
// outcome. The model never overrides the rule-computed action.
type RiskManager struct {
	gateway llm.Gateway
}

func NewRiskManager(gateway llm.Gateway) *RiskManager {
	return &RiskManager{gateway: gateway}
}

// ruleResult is the outcome of the deterministic rule evaluation. It is
// computed before any model call so a gateway failure can never change it.
type ruleResult struct {
	action string
	reason string
	notes  []string
}

func holderRules(decision string, confidence float64) ruleResult {
	switch {
	case confidence < 0.55:
		return ruleResult{
			action: consts.DecisionHold,
			reason: "Confidence too low for action — defaulting to Hold.",
			notes:  []string{"Overall confidence < 0.55 — Holder action downgraded to Hold."},
		}
	case decision == consts.DecisionBuy && confidence <= 0.7:
		return ruleResult{
			action: consts.DecisionHold,
			reason: "Buy signal lacks strong confidence — set to Hold for caution.",
			notes:  []string{"Buy confidence ≤ 0.7 — Holder action adjusted to Hold."},
		}
	case decision == consts.DecisionBuy:
		return ruleResult{
			action: consts.DecisionBuy,
			reason: "Strong enough research to proceed with Buy.",
			notes:  []string{"Buy confirmed for holder based on overall research."},
		}
	case decision == consts.DecisionSell:
		return ruleResult{
			action: consts.DecisionSell,
			reason: "Sell maintained to prevent downside.",
			notes:  []string{"Sell preserved for downside protection."},
		}
	default:
		return ruleResult{
			action: consts.DecisionHold,
			reason: "No major risk signals — maintaining Hold.",
		}
	}
}

func buyerRules(decision string, confidence, longTermConfidence float64) ruleResult {
	if decision == consts.DecisionBuy && confidence > 0.8 && longTermConfidence > 0.75 {
		return ruleResult{
			action: consts.DecisionBuy,
			reason: "High long-term confidence and overall conviction support new entry.",
			notes:  []string{"Strong long-term outlook — Buy allowed for new buyers."},
		}
	}
	return ruleResult{
		action: consts.DecisionHold,
		reason: "New entry not advised unless confidence and long-term view are strong.",
		notes:  []string{"New buyers advised to Hold unless long-term confidence is strong."},
	}
}

// Run evaluates the rule table, selects the branch for the state's trader
// profile, and asks the model for explanatory prose. The deterministic part
// uses no external I/O and cannot fail; a model failure only degrades the
// narrative.
func (rm *RiskManager) Run(ctx context.Context, state *models.PipelineState) {
	decision := state.ResearchDecision
	if decision == "" {
		decision = consts.DecisionHold
	}
	confidence := state.ResearchConfidence

	longTermConfidence := confidence
	if f, ok := state.ResearchForecasts[models.HorizonLongTerm]; ok {
		longTermConfidence = f.Confidence
	}

	holder := holderRules(decision, confidence)
	buyer := buyerRules(decision, confidence, longTermConfidence)

	var selected ruleResult
	if state.TraderProfile == models.TraderExistingHolder {
		selected = holder
	} else {
		selected = buyer
	}

	notes := append(append([]string{}, holder.notes...), buyer.notes...)

	state.FinalRecommendation = selected.action
	state.RiskNotes = strings.Join(notes, "\n")

	narrative, err := rm.narrate(ctx, state, decision, confidence, notes)
	if err != nil {
		log.Printf("[RiskManager] narration failed for %s: %v", state.Coin, err)
		state.FinalRecommendation = consts.DecisionHold
		state.FinalReason = "Error during decision evaluation."
		state.RiskNotes = fmt.Sprintf("Error during risk check: %v", err)
		state.Confidence = nil
		return
	}

	state.Confidence = &confidence
	state.FinalReason = selected.reason
	if narrative != "" {
		state.FinalReason = selected.reason + "\n\n" + narrative
	}
}

func (rm *RiskManager) narrate(ctx context.Context, state *models.PipelineState, decision string, confidence float64, notes []string) (string, error) {
	summary := state.ResearchSummary
	if strings.TrimSpace(summary) == "" {
		summary = "No research summary available."
	}

	forecast := func(h models.Horizon) string {
		if f, ok := state.ResearchForecasts[h]; ok {
			return fmt.Sprintf("%s (%.2f)", f.Recommendation, f.Confidence)
		}
		return fmt.Sprintf("%s (%.2f)", decision, confidence)
	}

	systemPrompt := fmt.Sprintf("You are a risk management analyst. The trade date is %s.", state.TradeDate)
	userPrompt := fmt.Sprintf(
		"Evaluate the research summary and time horizon outlooks. Recommend actions for:\n"+
			"1. An existing holder of %s\n"+
			"2. A potential new buyer\n\n"+
			"Include:\n"+
			"- Rationale for each decision\n"+
			"- Confidence considerations\n"+
			"- Time horizon forecasts (short, medium, long)\n"+
			"- Risk notes summary\n\n"+
			"Coin: %s\n"+
			"Original Decision: %s\n"+
			"Overall Confidence: %.2f\n\n"+
			"Horizon Forecasts:\n"+
			"Short-Term: %s\n"+
			"Medium-Term: %s\n"+
			"Long-Term: %s\n\n"+
			"Research Summary:\n%s\n\n"+
			"Risk Notes:\n%s",
		state.Coin, state.Coin, decision, confidence,
		forecast(models.HorizonShortTerm),
		forecast(models.HorizonMediumTerm),
		forecast(models.HorizonLongTerm),
		summary,
		strings.Join(notes, "\n"))

	conversation := append(state.Messages, schema.UserMessage(userPrompt))
	resp, err := rm.gateway.Invoke(ctx, systemPrompt, conversation, nil)
	if err != nil {
		return "", err
	}
	state.Messages = append(conversation, resp)
	return strings.TrimSpace(resp.Content), nil
}
