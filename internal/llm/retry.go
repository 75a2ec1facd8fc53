package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries failed calls according to their Kind:
//
//   - KindUnavailable and unclassified errors back off exponentially.
//   - KindRateLimited waits RetryAfter, or backs off when none was sent.
//   - KindInvalid is repaired once: the rejected content and its violations
//     go back to the model as a follow-up turn, without waiting.
//   - KindTruncated is retried once with MaxTokens doubled, up to
//     RetryConfig.MaxTokensCeiling.
//   - KindRejected and context errors stop immediately.
//
// Every call, repairs included, counts against MaxAttempts.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p with cfg's retry policy.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

// retryState tracks the one-shot recoveries within a single Generate.
type retryState struct {
	repaired bool
	grown    bool
	backoffs int
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var st retryState
	attempts := max(r.config.MaxAttempts, 1)
	callCtx := ctx

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(callCtx, req)
		if err == nil {
			return resp, nil
		}
		if attempt >= attempts {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		next, ok := r.plan(&st, req, err)
		if !ok {
			return nil, err
		}
		req = next.req
		if next.repair {
			callCtx = withRepair(ctx)
		}

		if next.wait > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(next.wait):
			}
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// step is the next call to make after a failure.
type step struct {
	req    Request
	wait   time.Duration
	repair bool
}

// plan decides whether err is worth another call, and with which request
// and after how long.
func (r *RetryProvider) plan(st *retryState, req Request, err error) (step, bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return step{}, false
	}

	var e *Error
	if !errors.As(err, &e) {
		return step{req: req, wait: r.nextBackoff(st)}, true
	}

	switch e.Kind {
	case KindRejected:
		return step{}, false

	case KindInvalid:
		if st.repaired {
			return step{}, false
		}
		st.repaired = true
		return step{req: req.withCorrection(e.Content, e.Feedback()), repair: true}, true

	case KindTruncated:
		grown, ok := r.grow(req.MaxTokens)
		if st.grown || !ok {
			return step{}, false
		}
		st.grown = true
		req.MaxTokens = grown
		return step{req: req}, true

	case KindRateLimited:
		if e.RetryAfter > 0 {
			return step{req: req, wait: min(e.RetryAfter, r.maxWait())}, true
		}
	}
	return step{req: req, wait: r.nextBackoff(st)}, true
}

// grow doubles a token budget within the configured ceiling.
func (r *RetryProvider) grow(current int) (int, bool) {
	ceiling := r.config.MaxTokensCeiling
	if current <= 0 || ceiling <= current {
		return current, false
	}
	return min(current*2, ceiling), true
}

func (r *RetryProvider) nextBackoff(st *retryState) time.Duration {
	d := r.backoff(st.backoffs)
	st.backoffs++
	return d
}

// backoff returns the n-th exponential wait, capped at MaxWait, with ±20%
// jitter.
func (r *RetryProvider) backoff(n int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(n))
	wait = math.Min(wait, float64(r.maxWait()))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}

func (r *RetryProvider) maxWait() time.Duration {
	if r.config.MaxWait > 0 {
		return r.config.MaxWait
	}
	return time.Minute
}
