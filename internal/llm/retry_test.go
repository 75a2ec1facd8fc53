package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:      3,
		InitialWait:      time.Millisecond,
		MaxWait:          10 * time.Millisecond,
		Multiplier:       2.0,
		MaxTokensCeiling: 4000,
	}
}

func failWith(kind Kind) MockResponse {
	return MockResponse{Err: &Error{Kind: kind, Provider: ProviderMock, Err: errors.New(kind.String())}}
}

func invalidPoints() MockResponse {
	return MockResponse{Err: &Error{
		Kind:       KindInvalid,
		Provider:   ProviderMock,
		Content:    json.RawMessage(`{"points":-1}`),
		Violations: []Violation{{Path: "/points", Message: "minimum: got -1, want 1"}},
	}}
}

func okResponse() MockResponse {
	return MockResponse{Content: json.RawMessage(`{"ok":true}`)}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		attempts  int
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", []MockResponse{okResponse()}, 3, false, 1},
		{"transient then success", []MockResponse{failWith(KindUnavailable), okResponse()}, 3, false, 2},
		{"all attempts fail", []MockResponse{failWith(KindUnavailable), failWith(KindUnavailable), failWith(KindUnavailable), okResponse()}, 3, true, 3},
		{"unclassified error backs off", []MockResponse{{Err: errors.New("reset")}, okResponse()}, 3, false, 2},
		{"rate limit honours RetryAfter", []MockResponse{
			{Err: &Error{Kind: KindRateLimited, RetryAfter: time.Millisecond}}, okResponse(),
		}, 3, false, 2},
		{"rate limit without RetryAfter", []MockResponse{failWith(KindRateLimited), okResponse()}, 3, false, 2},
		{"rejected is not retried", []MockResponse{failWith(KindRejected), okResponse()}, 3, true, 1},
		{"invalid repaired once", []MockResponse{invalidPoints(), invalidPoints(), okResponse()}, 3, true, 2},
		{"invalid then success", []MockResponse{invalidPoints(), okResponse()}, 3, false, 2},
		{"repair counts against attempts", []MockResponse{invalidPoints(), okResponse()}, 1, true, 1},
		{"zero attempts still calls once", []MockResponse{okResponse()}, 0, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			cfg := retryConfig()
			cfg.MaxAttempts = tt.attempts
			p := WithRetry(mock, cfg)

			resp, err := p.Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(resp.Content) != `{"ok":true}` {
				t.Errorf("content = %s", resp.Content)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_RepairSendsViolationsBack(t *testing.T) {
	rec := &recordedEvents{}
	mock := NewMockProvider(invalidPoints(), okResponse())
	p := WithRetry(WithLogging(mock, ProviderMock, rec), retryConfig())
	ctx := WithPurpose(context.Background(), PurposeChallengeGen)

	req := Request{Messages: []Message{{Role: RoleUser, Content: "make a pack"}}}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := mock.Calls[0]
	if len(first.Messages) != 1 {
		t.Fatalf("first call messages = %d, want 1", len(first.Messages))
	}
	repair := mock.LastRequest().Messages
	if len(repair) != 3 {
		t.Fatalf("repair messages = %d, want 3", len(repair))
	}
	if repair[1].Role != RoleAssistant || repair[1].Content != `{"points":-1}` {
		t.Errorf("rejected turn = %+v", repair[1])
	}
	if repair[2].Role != RoleUser || !strings.Contains(repair[2].Content, "/points: minimum") {
		t.Errorf("correction turn = %+v", repair[2])
	}

	if len(rec.events) != 2 {
		t.Fatalf("events = %d, want 2", len(rec.events))
	}
	if rec.events[0].Purpose != PurposeChallengeGen || rec.events[1].Purpose != PurposeChallengeGen+"/repair" {
		t.Errorf("purposes = %q, %q", rec.events[0].Purpose, rec.events[1].Purpose)
	}
	if rec.events[0].ResponseBody != `{"points":-1}` {
		t.Errorf("rejected content not logged: %q", rec.events[0].ResponseBody)
	}
}

func TestRetry_TruncationGrowsBudget(t *testing.T) {
	truncated := MockResponse{Err: &Error{Kind: KindTruncated, Content: json.RawMessage(`{"cha`)}}

	tests := []struct {
		name      string
		maxTokens int
		ceiling   int
		wantErr   bool
		wantGrown int
	}{
		{"doubles", 1000, 4000, false, 2000},
		{"capped at ceiling", 3000, 4000, false, 4000},
		{"already at ceiling", 4000, 4000, true, 0},
		{"no ceiling", 1000, 0, true, 0},
		{"no budget to grow", 0, 4000, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(truncated, truncated, okResponse())
			cfg := retryConfig()
			cfg.MaxTokensCeiling = tt.ceiling
			p := WithRetry(mock, cfg)

			_, err := p.Generate(context.Background(), Request{MaxTokens: tt.maxTokens})
			if tt.wantErr {
				if kind, _ := KindOf(err); kind != KindTruncated {
					t.Fatalf("err = %v, want truncated", err)
				}
				if mock.CallCount() != 1 {
					t.Errorf("calls = %d, want 1", mock.CallCount())
				}
				return
			}
			// The grown call is truncated again and not grown a second time.
			if kind, _ := KindOf(err); kind != KindTruncated {
				t.Fatalf("err = %v, want truncated after one growth", err)
			}
			if mock.CallCount() != 2 {
				t.Fatalf("calls = %d, want 2", mock.CallCount())
			}
			if got := mock.Calls[1].MaxTokens; got != tt.wantGrown {
				t.Errorf("grown MaxTokens = %d, want %d", got, tt.wantGrown)
			}
		})
	}
}

func TestRetry_TruncationThenSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &Error{Kind: KindTruncated}}, okResponse())
	p := WithRetry(mock, retryConfig())
	if _, err := p.Generate(context.Background(), Request{MaxTokens: 512}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.Calls[1].MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d, want 1024", mock.Calls[1].MaxTokens)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(failWith(KindUnavailable), failWith(KindUnavailable), okResponse())
	cfg := retryConfig()
	cfg.InitialWait = time.Second
	p := WithRetry(mock, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetry_BackoffIsCapped(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: time.Second, MaxWait: 2 * time.Second, Multiplier: 10}}
	for n := 0; n < 5; n++ {
		if got := r.backoff(n); got > 2400*time.Millisecond {
			t.Errorf("backoff(%d) = %s, above cap plus jitter", n, got)
		}
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig())
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}
