// Package llm wraps hosted text-completion services behind one small
// interface.
package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Params are per-call generation settings. Zero values fall back to the
// client's configured defaults.
type Params struct {
	Temperature     float64
	MaxOutputTokens int
	Model           string
}

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string, p Params) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string, p Params) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string, p Params) (string, error) {
	return f(ctx, prompt, p)
}

// Modeler is implemented by clients that report their default model.
type Modeler interface {
	Model() string
}

// Closer is implemented by clients holding idle connections.
type Closer interface {
	Close()
}

// Close closes c if it, or the client it wraps, is a Closer.
func Close(c Completer) {
	if cl, ok := c.(Closer); ok {
		cl.Close()
	}
}

// RetryableError indicates a transient failure (rate limit or server error)
// that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

var codeBlockRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// StripCodeBlock removes a single fenced code block wrapper if present.
func StripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
