// Package toolkit defines the data-collection tools exposed to the analyst
// agents through the chat model's tool-calling interface.
package toolkit

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"coinsage/config"
	"coinsage/consts"
	"coinsage/internal/dataflows"
)

// CoinInput is the single argument every collection tool accepts.
type CoinInput struct {
	Coin string `json:"coin"`
}

// NewsSource yields recent articles for a coin.
type NewsSource interface {
	GetNews(ctx context.Context, coin string) ([]*dataflows.NewsItem, error)
}

// FundamentalsSource yields fundamental metrics for a coin.
type FundamentalsSource interface {
	GetFundamentals(ctx context.Context, coin string) (*dataflows.Fundamentals, error)
}

// CloseSeriesSource yields a daily close price series for a coin.
type CloseSeriesSource interface {
	GetCloseSeries(ctx context.Context, coin string, days int) ([]float64, error)
}

// QuoteSource yields a single spot price, used when no series is available.
type QuoteSource interface {
	GetClose(coin string) (float64, error)
}

// PostsSource yields recent community discussion posts for a coin.
type PostsSource interface {
	GetPosts(ctx context.Context, coin string) ([]*dataflows.RedditPost, error)
}

type newsOutput struct {
	Coin     string                `json:"coin"`
	Articles []*dataflows.NewsItem `json:"articles"`
}

type fundamentalsOutput struct {
	Coin string                  `json:"coin"`
	Data *dataflows.Fundamentals `json:"data"`
}

type technicalsOutput struct {
	Coin       string                `json:"coin"`
	Days       int                   `json:"days"`
	Indicators *dataflows.Indicators `json:"indicators"`
}

type sentimentOutput struct {
	Coin  string                  `json:"coin"`
	Posts []*dataflows.RedditPost `json:"posts"`
}

func coinParam() *schema.ParamsOneOf {
	return schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
		"coin": {
			Type:     "string",
			Desc:     "The cryptocurrency name or ticker, e.g. 'bitcoin' or 'BTC'",
			Required: true,
		},
	})
}

// NewNewsTool creates the news collection tool.
func NewNewsTool(source NewsSource) tool.InvokableTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        consts.ToolCryptoNews,
			Desc:        "Get recent news articles for a cryptocurrency",
			ParamsOneOf: coinParam(),
		},
		func(ctx context.Context, input CoinInput) (*newsOutput, error) {
			if input.Coin == "" {
				return nil, fmt.Errorf("coin parameter is required")
			}
			articles, err := source.GetNews(ctx, input.Coin)
			if err != nil {
				return nil, fmt.Errorf("collect news for %s: %w", input.Coin, err)
			}
			return &newsOutput{Coin: input.Coin, Articles: articles}, nil
		},
	)
}

// NewFundamentalsTool creates the fundamentals collection tool.
func NewFundamentalsTool(source FundamentalsSource) tool.InvokableTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        consts.ToolCryptoFundamentals,
			Desc:        "Get fundamental metrics (market cap, supply, TVL, listings) for a cryptocurrency",
			ParamsOneOf: coinParam(),
		},
		func(ctx context.Context, input CoinInput) (*fundamentalsOutput, error) {
			if input.Coin == "" {
				return nil, fmt.Errorf("coin parameter is required")
			}
			data, err := source.GetFundamentals(ctx, input.Coin)
			if err != nil {
				return nil, fmt.Errorf("collect fundamentals for %s: %w", input.Coin, err)
			}
			return &fundamentalsOutput{Coin: input.Coin, Data: data}, nil
		},
	)
}

// NewTechnicalsTool creates the technical indicator tool. When the primary
// series source fails, the quote fallback still supplies the latest close so
// the report is not fully empty.
func NewTechnicalsTool(series CloseSeriesSource, fallback QuoteSource) tool.InvokableTool {
	const seriesDays = 30

	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        consts.ToolCryptoTechnicals,
			Desc:        "Get technical indicators (RSI, MACD, Bollinger Bands) for a cryptocurrency",
			ParamsOneOf: coinParam(),
		},
		func(ctx context.Context, input CoinInput) (*technicalsOutput, error) {
			if input.Coin == "" {
				return nil, fmt.Errorf("coin parameter is required")
			}

			closes, err := series.GetCloseSeries(ctx, input.Coin, seriesDays)
			if err != nil {
				if fallback == nil {
					return nil, fmt.Errorf("collect technicals for %s: %w", input.Coin, err)
				}
				log.Printf("[Toolkit] close series for %s unavailable, falling back to spot quote: %v", input.Coin, err)
				price, qerr := fallback.GetClose(input.Coin)
				if qerr != nil {
					return nil, fmt.Errorf("collect technicals for %s: %w", input.Coin, err)
				}
				closes = []float64{price}
			}

			return &technicalsOutput{
				Coin:       input.Coin,
				Days:       seriesDays,
				Indicators: dataflows.ComputeIndicators(closes),
			}, nil
		},
	)
}

// NewSentimentTool creates the community sentiment collection tool.
func NewSentimentTool(source PostsSource) tool.InvokableTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        consts.ToolRedditPosts,
			Desc:        "Get recent Reddit discussion posts about a cryptocurrency",
			ParamsOneOf: coinParam(),
		},
		func(ctx context.Context, input CoinInput) (*sentimentOutput, error) {
			if input.Coin == "" {
				return nil, fmt.Errorf("coin parameter is required")
			}
			posts, err := source.GetPosts(ctx, input.Coin)
			if err != nil {
				return nil, fmt.Errorf("collect sentiment posts for %s: %w", input.Coin, err)
			}
			return &sentimentOutput{Coin: input.Coin, Posts: posts}, nil
		},
	)
}

// Registry holds the four collection tools keyed by tool name.
type Registry struct {
	tools map[string]tool.InvokableTool
}

// NewRegistry builds a registry from explicit tools, rejecting any whose
// declared name does not match the expected tool names.
func NewRegistry(ctx context.Context, tools ...tool.InvokableTool) (*Registry, error) {
	expected := map[string]bool{
		consts.ToolCryptoNews:         true,
		consts.ToolCryptoFundamentals: true,
		consts.ToolCryptoTechnicals:   true,
		consts.ToolRedditPosts:        true,
	}

	byName := make(map[string]tool.InvokableTool, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("read tool info: %w", err)
		}
		if !expected[info.Name] {
			return nil, fmt.Errorf("unexpected tool %q", info.Name)
		}
		if _, dup := byName[info.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", info.Name)
		}
		byName[info.Name] = t
	}

	return &Registry{tools: byName}, nil
}

// DefaultRegistry wires the registry against the real data sources. News
// prefers CryptoPanic and falls back to the Google News scraper when no
// CryptoPanic key is configured.
func DefaultRegistry(ctx context.Context, cfg *config.Config) (*Registry, error) {
	var news NewsSource
	cryptoPanic := dataflows.NewCryptoPanicClient(cfg)
	if cryptoPanic.Configured() {
		news = cryptoPanic
	} else {
		log.Printf("[Toolkit] no CryptoPanic key configured, using Google News scraper")
		news = dataflows.NewNewsScraperClient(cfg)
	}

	coinGecko := dataflows.NewCoinGeckoClient(cfg)

	return NewRegistry(ctx,
		NewNewsTool(news),
		NewFundamentalsTool(coinGecko),
		NewTechnicalsTool(coinGecko, dataflows.NewYahooQuoteClient()),
		NewSentimentTool(dataflows.NewRedditClient(cfg)),
	)
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (tool.InvokableTool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Info returns the schema for a registered tool.
func (r *Registry) Info(ctx context.Context, name string) (*schema.ToolInfo, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	return t.Info(ctx)
}

// Call invokes a registered tool with raw JSON arguments.
func (r *Registry) Call(ctx context.Context, name, argsJSON string) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	return t.InvokableRun(ctx, argsJSON)
}
