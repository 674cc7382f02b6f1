package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// CompletionRequest is a single text-completion call to a provider.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int32
}

// Completer produces a raw text completion. Implemented by individual
// provider clients and by the fallback Chain.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Provider is a Completer that can be named and closed.
type Provider interface {
	Completer
	Name() string
	Close() error
}

// StatusError carries the upstream HTTP status so callers can tell
// rate limiting and quota exhaustion apart from generic failures.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Body)
}

// IsRateLimited reports whether err is an upstream 429.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusTooManyRequests
}

// IsQuotaExceeded reports whether err is an upstream 402.
func IsQuotaExceeded(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusPaymentRequired
}
