// Package analysts implements the four domain analysis stages. Each stage
// runs the same two-phase protocol: elicit one tool call from the model,
// execute the collector, then ask the model (tool-free) to write the report.
package analysts

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/schema"

	"coinsage/internal/llm"
	"coinsage/internal/models"
	"coinsage/internal/toolkit"
)

// Domain captures what varies between the four analysts: tool, prompts,
// sentinel text and the emptiness test for the collector output.
type Domain struct {
	Name     string
	ToolName string

	// ToolPrompt is the phase-one system prompt demanding an immediate tool
	// call; ReportPrompt is the phase-two system prompt with the reporting
	// rules and a worked example.
	ToolPrompt   func(coin, date string) string
	ReportPrompt func(coin, date string) string

	// Sentinel replaces empty collector output and empty model reports.
	Sentinel func(coin string) string

	// EmptyData reports whether a successful collector observation carries
	// no usable data for this domain.
	EmptyData func(observation string) bool
}

// Analyst runs one domain's analysis stage against a gateway and registry.
type Analyst struct {
	domain   Domain
	gateway  llm.Gateway
	registry *toolkit.Registry
}

func New(domain Domain, gateway llm.Gateway, registry *toolkit.Registry) *Analyst {
	return &Analyst{domain: domain, gateway: gateway, registry: registry}
}

func (a *Analyst) Name() string { return a.domain.Name }

// Run produces the domain report for the state's coin. It never returns an
// error: data and model failures degrade into sentinel or "Error: ..." text
// so the pipeline always proceeds.
func (a *Analyst) Run(ctx context.Context, state *models.PipelineState) string {
	coin, date := state.Coin, state.TradeDate

	info, err := a.registry.Info(ctx, a.domain.ToolName)
	if err != nil {
		return fmt.Sprintf("Error: tool %s unavailable: %v", a.domain.ToolName, err)
	}

	// Phase one: elicit the tool call.
	resp, err := a.gateway.Invoke(ctx, a.domain.ToolPrompt(coin, date), state.Messages, []*schema.ToolInfo{info})
	if err != nil {
		return fmt.Sprintf("Error: failed to generate report due to %v", err)
	}

	call, ok := matchToolCall(resp, a.domain.ToolName)
	assistant := resp
	if !ok {
		// Some models answer in prose instead of calling the tool. Synthesize
		// the call so the stage still collects data.
		log.Printf("[%s] no tool call returned, synthesizing %s for %s", a.domain.Name, a.domain.ToolName, coin)
		call = schema.ToolCall{
			ID:   "fallback-" + a.domain.ToolName,
			Type: "function",
			Function: schema.FunctionCall{
				Name:      a.domain.ToolName,
				Arguments: fmt.Sprintf(`{"coin":%q}`, coin),
			},
		}
		assistant = schema.AssistantMessage("", []schema.ToolCall{call})
	}

	// Execute the collector. Failures become the observation text so the
	// model can still report on the degraded data.
	observation, err := a.registry.Call(ctx, a.domain.ToolName, call.Function.Arguments)
	if err != nil {
		observation = fmt.Sprintf("Error: %v", err)
	} else if strings.TrimSpace(observation) == "" || a.domain.EmptyData(observation) {
		observation = a.domain.Sentinel(coin)
	}

	toolMsg := schema.ToolMessage(observation, call.ID, schema.WithToolName(a.domain.ToolName))
	state.Messages = append(state.Messages, assistant, toolMsg)

	// Phase two: tool-free report generation.
	reportPrompt := a.domain.ReportPrompt(coin, date)
	resp, err = a.gateway.Invoke(ctx, reportPrompt, state.Messages, nil)
	if err != nil {
		return fmt.Sprintf("Error: failed to generate report due to %v", err)
	}

	if len(resp.ToolCalls) > 0 {
		// The model ignored the no-tools instruction. Retry once with only
		// the original request and the observation.
		log.Printf("[%s] unexpected tool call during report phase, retrying with reduced conversation", a.domain.Name)
		reduced := []*schema.Message{toolMsg}
		if len(state.Messages) > 0 && state.Messages[0].Role == schema.User {
			reduced = []*schema.Message{state.Messages[0], toolMsg}
		}
		resp, err = a.gateway.Invoke(ctx, reportPrompt, reduced, nil)
		if err != nil {
			return fmt.Sprintf("Error: failed to generate report on retry due to %v", err)
		}
		if len(resp.ToolCalls) > 0 {
			return "Error: failed to generate report, model kept requesting tools"
		}
	}

	state.Messages = append(state.Messages, resp)

	report := strings.TrimSpace(resp.Content)
	if report == "" {
		return a.domain.Sentinel(coin)
	}
	return report
}

func matchToolCall(msg *schema.Message, toolName string) (schema.ToolCall, bool) {
	for _, tc := range msg.ToolCalls {
		if tc.Function.Name == toolName {
			return tc, true
		}
	}
	return schema.ToolCall{}, false
}
