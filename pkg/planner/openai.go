package planner

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI model constants.
const (
	OpenAIGPT4oMini = "gpt-4o-mini"
	OpenAIGPT4o     = "gpt-4o"
)

// OpenAI implements Planner with the chat completions API.
type OpenAI struct {
	client      openai.Client
	model       string
	temperature float64
}

// OpenAIOption is a functional option for configuring OpenAI.
type OpenAIOption func(*openAIConfig)

type openAIConfig struct {
	model       string
	temperature float64
	reqOpts     []option.RequestOption
}

// WithOpenAIModel sets the chat model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(c *openAIConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithOpenAITemperature sets the sampling temperature.
func WithOpenAITemperature(t float64) OpenAIOption {
	return func(c *openAIConfig) {
		c.temperature = t
	}
}

// WithOpenAIHTTPClient sets a custom HTTP client.
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(c *openAIConfig) {
		if client != nil {
			c.reqOpts = append(c.reqOpts, option.WithHTTPClient(client))
		}
	}
}

// WithOpenAIBaseURL points the client at an OpenAI-compatible endpoint.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) {
		if url != "" {
			c.reqOpts = append(c.reqOpts, option.WithBaseURL(url))
		}
	}
}

// WithOpenAIRequestOptions appends raw client options.
func WithOpenAIRequestOptions(opts ...option.RequestOption) OpenAIOption {
	return func(c *openAIConfig) {
		c.reqOpts = append(c.reqOpts, opts...)
	}
}

// NewOpenAI creates an OpenAI planner.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	cfg := &openAIConfig{model: OpenAIGPT4oMini}
	for _, opt := range opts {
		opt(cfg)
	}

	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, cfg.reqOpts...)
	return &OpenAI{
		client:      openai.NewClient(reqOpts...),
		model:       cfg.model,
		temperature: cfg.temperature,
	}, nil
}

// Plan asks the model for a JSON array of operations.
func (o *OpenAI) Plan(ctx context.Context, instruction, summary string) ([]Operation, error) {
	if instruction == "" {
		return nil, ErrEmptyInstruction
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt()),
			openai.UserMessage(userPrompt(instruction, summary)),
		},
		Temperature: openai.Float(o.temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlanningFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return ParseOperations(resp.Choices[0].Message.Content)
}
