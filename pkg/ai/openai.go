package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultModel is used when neither the config nor the request names a model.
const DefaultModel = "gpt-4o-mini"

var (
	completionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "flowcoach",
		Subsystem: "ai",
		Name:      "completion_duration_seconds",
		Help:      "Duration of chat completion requests",
	}, []string{"model"})

	completionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flowcoach",
		Subsystem: "ai",
		Name:      "completion_failures_total",
		Help:      "Number of failed chat completion requests",
	}, []string{"model", "kind"})
)

// OpenAIConfig defines configuration options for the OpenAI client.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// OpenAIClient implements Completer against the OpenAI chat completion API.
type OpenAIClient struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIClient builds a client. A missing API key is not an error here; every call
// reports ErrMissingCredential instead so the service can start without one.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		config.HTTPClient = cfg.HTTPClient
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/flowcoach-api/pkg/ai/openai"),
		logger: logger.With().Str("component", "openai_client").Logger(),
	}
}

// Model returns the default model used by the client.
func (c *OpenAIClient) Model() string {
	return c.cfg.Model
}

// Complete sends the request and returns the first candidate's text. Nothing is retried.
func (c *OpenAIClient) Complete(parent context.Context, req CompletionRequest) (string, error) {
	if c.cfg.APIKey == "" {
		c.logger.Error().Msg("openai api key not found")
		return "", ErrMissingCredential
	}

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	ctx, span := c.tracer.Start(parent, "openai.complete", trace.WithAttributes(
		attribute.String("model", model),
		attribute.Int("messages", len(req.Messages)),
	))
	defer span.End()

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, message := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: message.Role, Content: message.Content})
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	completionDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	if err != nil {
		upstream := classify(err)
		c.fail(span, model, upstream)
		return "", upstream
	}

	if len(resp.Choices) == 0 {
		upstream := &UpstreamError{Kind: UpstreamAPI, Message: "no choices returned from openai"}
		c.fail(span, model, upstream)
		return "", upstream
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug().
		Str("model", model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("completion received")

	return content, nil
}

func (c *OpenAIClient) fail(span trace.Span, model string, err *UpstreamError) {
	completionFailures.WithLabelValues(model, string(err.Kind)).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Error().Err(err).Str("model", model).Msg("openai completion failed")
}

func classify(err error) *UpstreamError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Kind: UpstreamAPI, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &UpstreamError{
			Kind:       UpstreamAPI,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    fmt.Sprintf("OpenAI API error: %d %s", reqErr.HTTPStatusCode, http.StatusText(reqErr.HTTPStatusCode)),
			Err:        err,
		}
	}

	return &UpstreamError{Kind: UpstreamTransport, Message: err.Error(), Err: err}
}
