package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/flowcoach-api/internal/observability"
)

// Submission event types.
const (
	EventWorkflowEvaluated = "workflow.evaluated"
	EventJSONEvaluated     = "json.evaluated"
)

// SubmissionEvent is broadcast after an evaluated submission is stored.
type SubmissionEvent struct {
	Type         string    `json:"type"`
	SubmissionID string    `json:"submission_id"`
	UserID       string    `json:"user_id"`
	Score        *float64  `json:"score"`
	Fallback     bool      `json:"fallback,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SubmissionPublisher fans submission events out to external subscribers.
type SubmissionPublisher interface {
	Publish(ctx context.Context, event SubmissionEvent)
}

type submissionPublisher struct {
	redis       *redis.Client
	channel     string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
}

// NewSubmissionPublisher publishes to a Redis channel and the matching NATS subject
// (colons replaced by dots). Either transport may be nil.
func NewSubmissionPublisher(redisClient *redis.Client, natsConn *nats.Conn, channel string, logger zerolog.Logger) SubmissionPublisher {
	subject := ""
	if channel != "" {
		subject = strings.ReplaceAll(channel, ":", ".")
	}

	return &submissionPublisher{
		redis:       redisClient,
		channel:     channel,
		nats:        natsConn,
		natsSubject: subject,
		logger:      logger.With().Str("component", "submission_publisher").Logger(),
	}
}

// Publish never fails the caller; transport errors are logged.
func (p *submissionPublisher) Publish(ctx context.Context, event SubmissionEvent) {
	if p.channel == "" || (p.redis == nil && p.nats == nil) {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to encode submission event")
		return
	}

	if p.redis != nil {
		if err := p.redis.Publish(ctx, p.channel, payload).Err(); err != nil {
			p.logger.Warn().Err(err).Str("event", event.Type).Msg("failed to publish submission event to redis")
		} else {
			observability.EventsPublished().WithLabelValues("redis").Inc()
		}
	}

	if p.nats != nil {
		if err := p.nats.Publish(p.natsSubject, payload); err != nil {
			p.logger.Warn().Err(err).Str("event", event.Type).Msg("failed to publish submission event to nats")
		} else {
			observability.EventsPublished().WithLabelValues("nats").Inc()
		}
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, SubmissionEvent) {}
