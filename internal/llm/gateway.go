// Package llm is the model gateway: one narrow interface between the
// pipeline stages and whichever chat model backs them.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"coinsage/config"
)

// Gateway is the contract every stage consumes: a system prompt plus the
// conversation, optionally with invocable tools declared, returning the
// model message (free text and/or tool calls). Stateless per call.
type Gateway interface {
	Invoke(ctx context.Context, systemPrompt string, conversation []*schema.Message, tools []*schema.ToolInfo) (*schema.Message, error)
}

// ChatGateway backs the Gateway contract with an eino chat model.
type ChatGateway struct {
	base    model.ToolCallingChatModel
	timeout time.Duration
}

// NewGateway builds a gateway for the configured provider.
func NewGateway(ctx context.Context, cfg *config.Config) (*ChatGateway, error) {
	cm, err := newChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &ChatGateway{
		base:    cm,
		timeout: time.Duration(cfg.GatewayTimeout) * time.Second,
	}, nil
}

// NewGatewayWithModel wraps an existing chat model; used by tests to inject
// a deterministic stub.
func NewGatewayWithModel(cm model.ToolCallingChatModel, timeout time.Duration) *ChatGateway {
	return &ChatGateway{base: cm, timeout: timeout}
}

func newChatModel(ctx context.Context, cfg *config.Config) (model.ToolCallingChatModel, error) {
	switch cfg.LLMProvider {
	case "deepseek":
		cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create deepseek model: %w", err)
		}
		return cm, nil
	case "openai":
		maxTokens := cfg.MaxTokens
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.BackendURL,
			APIKey:    cfg.OpenAIAPIKey,
			Model:     cfg.Model,
			MaxTokens: &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
		return cm, nil
	}
	return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
}

// Invoke sends the system prompt plus conversation to the model. When tools
// are declared they are bound for this call only; a tool-free call cannot
// produce tool invocations from earlier bindings.
func (g *ChatGateway) Invoke(ctx context.Context, systemPrompt string, conversation []*schema.Message, tools []*schema.ToolInfo) (*schema.Message, error) {
	cm := g.base
	if len(tools) > 0 {
		bound, err := g.base.WithTools(tools)
		if err != nil {
			return nil, fmt.Errorf("bind tools: %w", err)
		}
		cm = bound
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	messages := make([]*schema.Message, 0, len(conversation)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, conversation...)

	resp, err := cm.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("model call: %w", err)
	}
	return resp, nil
}
