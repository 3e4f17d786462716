package models

// Result is the structured output of one pipeline invocation, in the shape
// the presentation layer consumes.
type Result struct {
	Coin            string        `json:"coin"`
	TradeDate       string        `json:"trade_date"`
	FinalDecision   string        `json:"final_decision"`
	ResearchSummary string        `json:"research_summary"`
	RiskNotes       string        `json:"risk_notes"`
	TraderProfile   TraderProfile `json:"trader_profile"`
	Horizon         Horizon       `json:"horizon"`
	Confidence      *float64      `json:"confidence"`
	FinalReason     string        `json:"final_reason"`
	Reports         Reports       `json:"reports"`
}

// Reports collects the raw stage reports.
type Reports struct {
	News         Report `json:"news"`
	Fundamentals Report `json:"fundamentals"`
	Technical    Report `json:"technical"`
	Sentiment    Report `json:"sentiment"`
	Overall      Report `json:"overall"`
}

type Report struct {
	Raw string `json:"raw"`
}

// ResultFromState assembles the terminal structured output from a state that
// has passed through all six stages.
func ResultFromState(s *PipelineState) *Result {
	return &Result{
		Coin:            s.Coin,
		TradeDate:       s.TradeDate,
		FinalDecision:   s.FinalRecommendation,
		ResearchSummary: s.ResearchSummary,
		RiskNotes:       s.RiskNotes,
		TraderProfile:   s.TraderProfile,
		Horizon:         s.Horizon,
		Confidence:      s.Confidence,
		FinalReason:     s.FinalReason,
		Reports: Reports{
			News:         Report{Raw: s.NewsReport},
			Fundamentals: Report{Raw: s.FundamentalsReport},
			Technical:    Report{Raw: s.TechnicalReport},
			Sentiment:    Report{Raw: s.SentimentReport},
			Overall:      Report{Raw: s.ResearchSummary},
		},
	}
}
