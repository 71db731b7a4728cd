// Package ingest is the HTTP boundary of the pipeline. It validates delivered
// chat events and publishes them to the messages topic; everything after that
// point is asynchronous.
package ingest

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"tally/internal/broker"
	"tally/internal/logger"
	pkgerrors "tally/pkg/errors"
	"tally/pkg/metrics"
	"tally/pkg/models"
	"tally/pkg/tracing"
)

type Service struct {
	producer broker.Producer
	topic    string
	log      logger.Logger
}

func NewService(producer broker.Producer, topic string, log logger.Logger) *Service {
	return &Service{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

// Accept builds the broker envelope for a delivered chat event and publishes
// it. The event is durable once this returns nil; the caller can acknowledge
// the chat platform.
func (s *Service) Accept(ctx context.Context, req MessageRequest) (*models.ChatMessage, error) {
	start := time.Now()
	ctx, span := tracing.GetTracer("ingest-service").Start(ctx, "ingest.accept")
	defer span.End()

	msg, err := s.buildMessage(ctx, req)
	if err != nil {
		metrics.IngestMessagesTotal.WithLabelValues("invalid").Inc()
		metrics.ObserveIngestDuration(time.Since(start), "invalid")
		return nil, pkgerrors.ErrValidation.WithCause(err)
	}

	if err := s.producer.Publish(ctx, s.topic, *msg); err != nil {
		metrics.IngestMessagesTotal.WithLabelValues("publish_error").Inc()
		metrics.ObserveIngestDuration(time.Since(start), "publish_error")
		s.log.ErrorwCtx(ctx, "Failed to publish chat message",
			"error", err,
			"message_id", msg.ID,
			"topic", s.topic,
		)
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrServiceUnavailable)
	}

	metrics.IngestMessagesTotal.WithLabelValues("accepted").Inc()
	metrics.ObserveIngestDuration(time.Since(start), "accepted")
	s.log.InfowCtx(ctx, "Chat message accepted",
		"message_id", msg.ID,
		"source", msg.Source,
		"topic", s.topic,
	)

	return msg, nil
}

func (s *Service) buildMessage(ctx context.Context, req MessageRequest) (*models.ChatMessage, error) {
	builder := models.NewChatMessageBuilder().
		WithID(req.MessageID).
		WithSource(req.Source).
		WithSender(req.Sender).
		WithText(req.Text)

	if !req.ReceivedAt.IsZero() {
		builder.WithReceivedAt(req.ReceivedAt)
	}

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
		builder.WithTraceID(sc.TraceID().String())
	}

	for key, value := range req.Attributes {
		builder.WithAttribute(key, value)
	}

	msg := builder.Build()
	if err := models.ValidateChatMessage(msg); err != nil {
		return nil, err
	}

	return msg, nil
}
