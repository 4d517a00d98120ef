package translation

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"line-translator/internal/llm"
)

// ErrorKind is the recovery class of a failed translation call.
type ErrorKind int

const (
	// Transient failures are retried with exponential backoff.
	Transient ErrorKind = iota
	// RateLimited failures are retried after a linear wait.
	RateLimited
	// ContextOverflow failures are recovered by re-chunking.
	ContextOverflow
	// Fatal failures stop recovery: the run was cancelled.
	Fatal
)

func (k ErrorKind) String() string {
	switch k {
	case RateLimited:
		return "rate-limited"
	case ContextOverflow:
		return "context-overflow"
	case Fatal:
		return "fatal"
	default:
		return "transient"
	}
}

var contextPhrases = []string{
	"context_length_exceeded",
	"context length",
	"maximum context",
	"token limit",
	"too many tokens",
	"max_tokens",
	"context window",
	"reduce the length",
	"reduce your prompt",
}

var rateLimitPhrases = []string{
	"rate_limit",
	"rate limit",
	"too many requests",
	"429",
}

// Classify maps a backend error to its recovery class. Context-window
// phrases take precedence over rate-limit phrases.
func Classify(err error) ErrorKind {
	if err == nil {
		return Transient
	}
	if errors.Is(err, context.Canceled) {
		return Fatal
	}

	msg := strings.ToLower(err.Error())
	if containsAny(msg, contextPhrases) {
		return ContextOverflow
	}

	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusTooManyRequests {
		return RateLimited
	}
	if containsAny(msg, rateLimitPhrases) {
		return RateLimited
	}
	return Transient
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
