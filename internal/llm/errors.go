package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Kind classifies a provider failure by how the caller reacts to it.
type Kind int

const (
	// KindUnavailable covers network failures and 5xx answers. Retried with
	// backoff.
	KindUnavailable Kind = iota
	// KindRateLimited is a 429. Retried after RetryAfter when the provider
	// sent one.
	KindRateLimited
	// KindRejected is any other 4xx: a bad key, model or request. Never
	// retried.
	KindRejected
	// KindInvalid means the content did not match the requested schema.
	// Retried once with the violations fed back to the model.
	KindInvalid
	// KindTruncated means structured output hit MaxTokens. Retried once with
	// a larger budget.
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate limited"
	case KindRejected:
		return "rejected"
	case KindInvalid:
		return "invalid response"
	case KindTruncated:
		return "truncated"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Violation is one place where a response broke its schema.
type Violation struct {
	// Path is a JSON pointer into the response, e.g. "/challenges/2/points".
	Path    string
	Message string
}

func (v Violation) String() string {
	path := v.Path
	if path == "" {
		path = "(root)"
	}
	return path + ": " + v.Message
}

// Error is returned by every provider for failures the caller may act on.
type Error struct {
	Kind     Kind
	Provider string

	// RetryAfter is the wait the provider asked for. Only set for
	// KindRateLimited.
	RetryAfter time.Duration

	// Content is the raw response for KindInvalid and KindTruncated.
	Content json.RawMessage

	// Violations lists schema failures for KindInvalid. Empty when the
	// content was not JSON at all.
	Violations []Violation

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Kind == KindRateLimited && e.RetryAfter > 0 {
		fmt.Fprintf(&b, " (retry after %s)", e.RetryAfter)
	}
	if len(e.Violations) > 0 {
		fmt.Fprintf(&b, ": %s", e.Violations[0])
		if n := len(e.Violations) - 1; n > 0 {
			fmt.Fprintf(&b, " (+%d more)", n)
		}
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Feedback renders the violations as a correction note for the model.
func (e *Error) Feedback() string {
	if len(e.Violations) == 0 {
		if e.Err != nil {
			return "The response was not valid JSON: " + e.Err.Error()
		}
		return "The response did not match the schema."
	}
	var b strings.Builder
	b.WriteString("The response did not match the schema:")
	for _, v := range e.Violations {
		b.WriteString("\n- ")
		b.WriteString(v.String())
	}
	return b.String()
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// statusError classifies an HTTP status returned by a vendor SDK.
func statusError(provider string, status int, retryAfter time.Duration, err error) *Error {
	e := &Error{Kind: KindUnavailable, Provider: provider, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
		e.RetryAfter = retryAfter
	case status == http.StatusRequestTimeout:
	case status >= 400 && status < 500:
		e.Kind = KindRejected
	}
	return e
}

// unavailable wraps a failure that carried no HTTP status.
func unavailable(provider string, err error) *Error {
	return &Error{Kind: KindUnavailable, Provider: provider, Err: err}
}
