package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"

	return &OpenAIProvider{
		name:   ProviderOpenAI,
		client: openai.NewClientWithConfig(config),
		model:  "gpt-4o-mini",
	}
}

func chatCompletion(content string, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{
			"prompt_tokens":     40,
			"completion_tokens": 25,
			"total_tokens":      65,
		},
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var gotFormat map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		gotFormat, _ = body["response_format"].(map[string]any)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"title":"Orbit","points":10}`, "stop"))
	}

	p := newTestOpenAIProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		System:    "You write coding puzzles.",
		Messages:  []Message{{Role: RoleUser, Content: "One puzzle please."}},
		MaxTokens: 256,
		Schema:    puzzleSchema("openai-puzzle"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != StopEnd {
		t.Errorf("stop reason = %q, want end", resp.StopReason)
	}

	if gotFormat["type"] != "json_schema" {
		t.Fatalf("response_format = %v", gotFormat)
	}
	js := gotFormat["json_schema"].(map[string]any)
	points := js["schema"].(map[string]any)["properties"].(map[string]any)["points"].(map[string]any)
	if _, found := points["minimum"]; found {
		t.Error("minimum should be stripped from strict schema")
	}
}

func TestOpenAIProvider_SchemaViolation(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"title":"Orbit","points":0}`, "stop"))
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "test"}},
		Schema:   puzzleSchema("openai-puzzle-violation"),
	})
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindInvalid {
		t.Fatalf("expected invalid response, got: %T (%v)", err, err)
	}
	if e.Provider != ProviderOpenAI || len(e.Violations) == 0 || e.Violations[0].Path != "/points" {
		t.Errorf("error = %+v", e)
	}
}

func TestOpenAIProvider_TruncatedStructuredOutput(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"title":"Orb`, "length"))
	})
	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "test"}},
		MaxTokens: 5,
		Schema:    puzzleSchema("openai-truncated"),
	})
	if kind, _ := KindOf(err); kind != KindTruncated {
		t.Fatalf("err = %v, want truncated", err)
	}
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Kind
	}{
		{"rate limit", http.StatusTooManyRequests, KindRateLimited},
		{"server error", http.StatusInternalServerError, KindUnavailable},
		{"bad key", http.StatusUnauthorized, KindRejected},
		{"unknown model", http.StatusNotFound, KindRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"type": "error", "message": tt.name},
				})
			})
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "test"}},
				MaxTokens: 100,
			})
			if kind, ok := KindOf(err); !ok || kind != tt.want {
				t.Fatalf("err = %T (%v), want %s", err, err, tt.want)
			}
		})
	}
}

func TestStrictSchemaKeepsOriginal(t *testing.T) {
	def := puzzleSchema("strict").Definition
	stripped := strictSchema(def)

	props := def["properties"].(map[string]any)
	if _, found := props["points"].(map[string]any)["minimum"]; !found {
		t.Fatal("strictSchema mutated its input")
	}
	if stripped["additionalProperties"] != false {
		t.Error("additionalProperties should be kept")
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: "https://example.test/v1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o" {
		t.Errorf("model = %q, want gpt-4o", p.ModelID())
	}

	if _, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"}); err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("model IDs pass through", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "google/gemini-2.0-flash-001"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "google/gemini-2.0-flash-001" || p.name != ProviderOpenRouter {
			t.Errorf("provider = %s/%s", p.name, p.ModelID())
		}
	})

	t.Run("empty API key", func(t *testing.T) {
		_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.0-flash-001"})
		if err == nil || !strings.Contains(err.Error(), "openrouter API key") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("empty model", func(t *testing.T) {
		if _, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or"}); err == nil {
			t.Fatal("expected error for empty model")
		}
	})

	t.Run("custom base URL", func(t *testing.T) {
		var gotModel, gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			gotModel, _ = body["model"].(string)
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"type": "error", "message": "slow"}})
		}))
		t.Cleanup(server.Close)

		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "anthropic/claude-3-haiku", BaseURL: server.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err = p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
		var e *Error
		if !errors.As(err, &e) || e.Kind != KindRateLimited || e.Provider != ProviderOpenRouter {
			t.Fatalf("err = %v", err)
		}
		if gotModel != "anthropic/claude-3-haiku" || gotAuth != "Bearer sk-or" {
			t.Errorf("request model = %q, auth = %q", gotModel, gotAuth)
		}
	})
}

func TestNewOpenAIProvider_ResolvesFriendlyNames(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o-mini"}); err == nil || !strings.Contains(err.Error(), "openai API key") {
		t.Fatalf("err = %v", err)
	}
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk", Model: "some-direct-id"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "some-direct-id" || p.name != ProviderOpenAI {
		t.Errorf("provider = %s/%s", p.name, p.ModelID())
	}
}
