// Package graph wires the six pipeline stages into one sequential run:
// News -> Fundamentals -> Technical -> Sentiment -> Research -> Risk.
package graph

import (
	"context"
	"fmt"
	"log"
	"sync"

	"coinsage/config"
	"coinsage/consts"
	"coinsage/internal/agents/analysts"
	"coinsage/internal/agents/managers"
	"coinsage/internal/llm"
	"coinsage/internal/models"
	"coinsage/internal/toolkit"
)

// Request is one pipeline invocation's input.
type Request struct {
	Coin          string
	TradeDate     string
	TraderProfile models.TraderProfile
	Horizon       models.Horizon
}

// normalize validates the request and canonicalizes the enum fields, so
// case-variant inputs like "Existing_Holder" hit the same rule branches as
// their canonical forms.
func (r *Request) normalize() error {
	if r.Coin == "" {
		return fmt.Errorf("coin is required")
	}
	profile, err := models.ParseTraderProfile(string(r.TraderProfile))
	if err != nil {
		return err
	}
	horizon, err := models.ParseHorizon(string(r.Horizon))
	if err != nil {
		return err
	}
	r.TraderProfile = profile
	r.Horizon = horizon
	return nil
}

// Saver persists completed results; nil disables persistence.
type Saver interface {
	Save(result *models.Result) error
}

// analystStage pairs an analyst with its fresh-conversation instruction and
// the one report field it owns.
type analystStage struct {
	name        string
	analyst     *analysts.Analyst
	instruction func(coin string) string
	assign      func(state *models.PipelineState, report string)
}

// Pipeline runs the full analysis sequence over one shared state record.
type Pipeline struct {
	stages   []analystStage
	research *managers.ResearchManager
	risk     *managers.RiskManager
	parallel bool
	store    Saver
}

// New assembles a pipeline from a gateway and tool registry. When parallel
// is set, the four analyst stages run concurrently with a join barrier
// before research synthesis.
func New(gateway llm.Gateway, registry *toolkit.Registry, parallel bool) *Pipeline {
	return &Pipeline{
		stages: []analystStage{
			{
				name:    consts.StageNews,
				analyst: analysts.NewsAnalyst(gateway, registry),
				instruction: func(coin string) string {
					return fmt.Sprintf("Fetch and analyze recent news for %s.", coin)
				},
				assign: func(s *models.PipelineState, report string) { s.NewsReport = report },
			},
			{
				name:    consts.StageFundamentals,
				analyst: analysts.FundamentalsAnalyst(gateway, registry),
				instruction: func(coin string) string {
					return fmt.Sprintf("Fetch and analyze fundamentals for %s.", coin)
				},
				assign: func(s *models.PipelineState, report string) { s.FundamentalsReport = report },
			},
			{
				name:    consts.StageTechnical,
				analyst: analysts.TechnicalAnalyst(gateway, registry),
				instruction: func(coin string) string {
					return fmt.Sprintf("Fetch and analyze technical indicators for %s.", coin)
				},
				assign: func(s *models.PipelineState, report string) { s.TechnicalReport = report },
			},
			{
				name:    consts.StageSentiment,
				analyst: analysts.SentimentAnalyst(gateway, registry),
				instruction: func(coin string) string {
					return fmt.Sprintf("Fetch and analyze social media sentiment for %s.", coin)
				},
				assign: func(s *models.PipelineState, report string) { s.SentimentReport = report },
			},
		},
		research: managers.NewResearchManager(gateway),
		risk:     managers.NewRiskManager(gateway),
		parallel: parallel,
	}
}

// NewFromConfig builds the default production pipeline.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Pipeline, error) {
	gateway, err := llm.NewGateway(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create model gateway: %w", err)
	}
	registry, err := toolkit.DefaultRegistry(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create tool registry: %w", err)
	}
	return New(gateway, registry, cfg.ParallelAnalysts), nil
}

// WithStore attaches a result store to the pipeline.
func (p *Pipeline) WithStore(store Saver) *Pipeline {
	p.store = store
	return p
}

// Run executes the full pipeline for one request. The stages themselves
// soft-fail; Run only errors on invalid input.
func (p *Pipeline) Run(ctx context.Context, req Request) (*models.Result, error) {
	if err := req.normalize(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	state := models.NewPipelineState(req.Coin, req.TradeDate, req.TraderProfile, req.Horizon)
	log.Printf("[Pipeline] starting analysis for %s (%s, %s, %s)",
		state.Coin, state.TradeDate, state.TraderProfile, state.Horizon)

	if p.parallel {
		p.runAnalystsParallel(ctx, state)
	} else {
		p.runAnalystsSequential(ctx, state)
	}

	state.ResetConversation(fmt.Sprintf("Generate research report for %s.", state.Coin))
	p.research.Run(ctx, state)
	log.Printf("[Pipeline] stage %s complete for %s", consts.StageResearch, state.Coin)

	state.ResetConversation(fmt.Sprintf("Conduct risk analysis for %s.", state.Coin))
	p.risk.Run(ctx, state)
	log.Printf("[Pipeline] stage %s complete for %s", consts.StageRisk, state.Coin)

	result := models.ResultFromState(state)
	log.Printf("[Pipeline] completed analysis for %s: %s", state.Coin, result.FinalDecision)

	if p.store != nil {
		if err := p.store.Save(result); err != nil {
			// History is best-effort; the advisory result still stands.
			log.Printf("[Pipeline] failed to persist result for %s: %v", state.Coin, err)
		}
	}
	return result, nil
}

func (p *Pipeline) runAnalystsSequential(ctx context.Context, state *models.PipelineState) {
	for _, stage := range p.stages {
		state.ResetConversation(stage.instruction(state.Coin))
		stage.assign(state, stage.analyst.Run(ctx, state))
		log.Printf("[Pipeline] stage %s complete for %s", stage.name, state.Coin)
	}
}

// runAnalystsParallel runs the four analysts concurrently. Each gets a
// scratch copy of the read-only inputs and its own conversation; a failing
// stage never cancels its siblings, and the join waits for all four.
func (p *Pipeline) runAnalystsParallel(ctx context.Context, state *models.PipelineState) {
	reports := make([]string, len(p.stages))

	var wg sync.WaitGroup
	for i, stage := range p.stages {
		wg.Add(1)
		go func(i int, stage analystStage) {
			defer wg.Done()
			scratch := models.NewPipelineState(state.Coin, state.TradeDate, state.TraderProfile, state.Horizon)
			scratch.ResetConversation(stage.instruction(state.Coin))
			reports[i] = stage.analyst.Run(ctx, scratch)
			log.Printf("[Pipeline] stage %s complete for %s", stage.name, state.Coin)
		}(i, stage)
	}
	wg.Wait()

	for i, stage := range p.stages {
		stage.assign(state, reports[i])
	}
}
