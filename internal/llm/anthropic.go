package llm

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicModels maps friendly names to Anthropic model IDs.
var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-5",
	"claude-haiku":  "claude-haiku-4-5",
}

// AnthropicProvider implements Provider over the Messages API, using its
// native JSON output format for schema requests.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

// anthropicDefaultMaxTokens fills Request.MaxTokens when it is unset; the
// Messages API has no default of its own.
const anthropicDefaultMaxTokens = 1024

// NewAnthropicProvider creates an Anthropic provider. The SDK's own retries
// are disabled because RetryProvider classifies failures itself.
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", ProviderAnthropic)
	}
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0))
	return &AnthropicProvider{client: &client, model: resolveModel(cfg.Model, anthropicModels)}, nil
}

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	msg, err := p.client.Messages.New(ctx, p.messageParams(req))
	if err != nil {
		return nil, mapAnthropicError(err)
	}

	content, ok := anthropicText(msg)
	if !ok {
		return nil, &Error{Kind: KindInvalid, Provider: ProviderAnthropic, Err: errors.New("no text block in response")}
	}
	stop := StopEnd
	if msg.StopReason == anthropic.StopReasonMaxTokens {
		stop = StopMaxTokens
	}
	if err := checkContent(ProviderAnthropic, req, content, stop); err != nil {
		return nil, err
	}

	return &Response{
		Content: content,
		Usage: Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
			TotalTokens:  int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
		Model:      string(msg.Model),
		StopReason: stop,
	}, nil
}

func (p *AnthropicProvider) ModelID() string {
	return p.model
}

func (p *AnthropicProvider) messageParams(req Request) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(cmp.Or(req.MaxTokens, anthropicDefaultMaxTokens)),
		Messages:  make([]anthropic.MessageParam, len(req.Messages)),
	}
	for i, m := range req.Messages {
		if m.Role == RoleAssistant {
			params.Messages[i] = anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content))
		} else {
			params.Messages[i] = anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content))
		}
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}
	return params
}

// anthropicText returns the first text block. Structured output arrives as
// a single text block holding the JSON document.
func anthropicText(msg *anthropic.Message) (json.RawMessage, bool) {
	for _, block := range msg.Content {
		if block.Type == "text" {
			return json.RawMessage(block.Text), true
		}
	}
	return nil, false
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return unavailable(ProviderAnthropic, err)
	}
	var retryAfter time.Duration
	if apiErr.Response != nil {
		retryAfter = parseRetryAfter(apiErr.Response.Header.Get("Retry-After"))
	}
	return statusError(ProviderAnthropic, apiErr.StatusCode, retryAfter, err)
}

// resolveModel maps a friendly model name to a vendor model ID. Unknown
// names are taken as vendor IDs.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}

// parseRetryAfter reads a Retry-After header given in seconds. Anything else
// yields zero so the retry decorator falls back to its own backoff.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
