package toolkit

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"coinsage/consts"
	"coinsage/internal/dataflows"
)

type fakeNewsSource struct {
	articles []*dataflows.NewsItem
}

func (f *fakeNewsSource) GetNews(_ context.Context, _ string) ([]*dataflows.NewsItem, error) {
	return f.articles, nil
}

type fakeSeriesSource struct {
	closes []float64
	err    error
}

func (f *fakeSeriesSource) GetCloseSeries(_ context.Context, _ string, _ int) ([]float64, error) {
	return f.closes, f.err
}

type fakeQuoteSource struct {
	price float64
}

func (f *fakeQuoteSource) GetClose(_ string) (float64, error) {
	return f.price, nil
}

func TestNewsToolReturnsJSON(t *testing.T) {
	ctx := context.Background()
	newsTool := NewNewsTool(&fakeNewsSource{articles: []*dataflows.NewsItem{
		{Title: "Bitcoin ETF inflows surge", Source: "CoinDesk"},
	}})

	out, err := newsTool.InvokableRun(ctx, `{"coin":"bitcoin"}`)
	if err != nil {
		t.Fatalf("InvokableRun: %v", err)
	}

	var parsed struct {
		Coin     string `json:"coin"`
		Articles []struct {
			Title string `json:"title"`
		} `json:"articles"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("tool output is not JSON: %v", err)
	}
	if parsed.Coin != "bitcoin" || len(parsed.Articles) != 1 {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestNewsToolRequiresCoin(t *testing.T) {
	newsTool := NewNewsTool(&fakeNewsSource{})
	if _, err := newsTool.InvokableRun(context.Background(), `{}`); err == nil {
		t.Fatal("expected error for missing coin")
	}
}

func TestTechnicalsToolFallsBackToQuote(t *testing.T) {
	ctx := context.Background()
	techTool := NewTechnicalsTool(
		&fakeSeriesSource{err: context.DeadlineExceeded},
		&fakeQuoteSource{price: 65000},
	)

	out, err := techTool.InvokableRun(ctx, `{"coin":"bitcoin"}`)
	if err != nil {
		t.Fatalf("InvokableRun: %v", err)
	}
	if !strings.Contains(out, "65000") {
		t.Errorf("fallback close missing from output: %s", out)
	}
	if !strings.Contains(out, `"rsi":null`) {
		t.Errorf("single-point series must not produce an RSI: %s", out)
	}
}

func TestRegistryRejectsUnknownTool(t *testing.T) {
	ctx := context.Background()
	bogus := t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_weather",
			Desc: "not a collection tool",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"city": {Type: "string", Required: true},
			}),
		},
		func(_ context.Context, input CoinInput) (string, error) { return "", nil },
	)

	if _, err := NewRegistry(ctx, bogus); err == nil {
		t.Fatal("expected registry to reject unknown tool name")
	}
}

func TestRegistryLookupAndCall(t *testing.T) {
	ctx := context.Background()
	reg, err := NewRegistry(ctx, NewNewsTool(&fakeNewsSource{}))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	if _, ok := reg.Lookup(consts.ToolCryptoNews); !ok {
		t.Error("news tool should be registered")
	}
	if _, ok := reg.Lookup(consts.ToolCryptoFundamentals); ok {
		t.Error("fundamentals tool should not be registered")
	}

	out, err := reg.Call(ctx, consts.ToolCryptoNews, `{"coin":"solana"}`)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !strings.Contains(out, "solana") {
		t.Errorf("unexpected call output: %s", out)
	}
}
