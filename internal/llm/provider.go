// Package llm talks to hosted language models for challenge pack
// generation. Vendors sit behind one Provider interface; decorators add
// timeouts, retries and request logging.
package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one request to a model.
type Provider interface {
	// Generate returns the model's answer to req. When req.Schema is set the
	// content has already been checked against it; failures come back as
	// *Error.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the vendor model the provider calls.
	ModelID() string
}

// Request is a single-shot prompt with an optional output schema.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks for JSON output in the vendor's native
	// structured mode and validates the result.
	Schema *Schema

	MaxTokens   int
	Temperature float64 // 0 leaves the vendor default
}

// withCorrection returns a copy of r that shows the model its rejected
// answer followed by a note on what to fix.
func (r Request) withCorrection(rejected json.RawMessage, note string) Request {
	msgs := make([]Message, 0, len(r.Messages)+2)
	msgs = append(msgs, r.Messages...)
	if len(rejected) > 0 {
		msgs = append(msgs, Message{Role: RoleAssistant, Content: string(rejected)})
	}
	msgs = append(msgs, Message{Role: RoleUser, Content: note + "\nReturn the complete corrected JSON only."})
	r.Messages = msgs
	return r
}

// Message is one turn of the prompt.
type Message struct {
	Role    Role
	Content string
}

// Role is who wrote a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Name doubles as the vendor-side schema or
// tool name and as the compile cache key, so it must be unique per shape.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason is why the model stopped, normalised across vendors.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is a successful model answer.
type Response struct {
	// Content is the JSON document when a schema was requested, otherwise
	// the raw text.
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Usage counts tokens for one or more calls.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Add returns the sum of u and o.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
		TotalTokens:  u.TotalTokens + o.TotalTokens,
	}
}

// checkContent applies the checks every vendor shares once content is in
// hand: truncated structured output is an error, and content must match
// the schema.
func checkContent(provider string, req Request, content json.RawMessage, stop StopReason) error {
	if req.Schema == nil {
		return nil
	}
	if stop == StopMaxTokens {
		return &Error{Kind: KindTruncated, Provider: provider, Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		if e, ok := err.(*Error); ok {
			e.Provider = provider
		}
		return err
	}
	return nil
}
