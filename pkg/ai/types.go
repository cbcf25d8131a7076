package ai

import (
	"context"
	"errors"
	"fmt"
)

// Message roles understood by the completion API.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ErrMissingCredential is returned at call time when no API key is configured.
var ErrMissingCredential = errors.New("OpenAI API key not configured")

// Message is one conversational turn sent to the model.
type Message struct {
	Role    string
	Content string
}

// CompletionRequest describes a single chat-completion call.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Completer sends a completion request and returns the text of the first candidate.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// UpstreamKind separates network failures from error payloads returned by the API.
type UpstreamKind string

const (
	// UpstreamTransport means the request never produced a usable HTTP response.
	UpstreamTransport UpstreamKind = "transport"
	// UpstreamAPI means the API answered with an error payload or no candidates.
	UpstreamAPI UpstreamKind = "api"
)

// UpstreamError wraps a failed completion call. Message carries the upstream text shown to users.
type UpstreamError struct {
	Kind       UpstreamKind
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("completion %s error (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("completion %s error: %s", e.Kind, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
