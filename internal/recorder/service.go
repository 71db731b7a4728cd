// Package recorder consumes chat messages and turns each into at most one
// ledger row. The pipeline is parse, screen, claim, append, announce; every
// message leaves it with a terminal outcome and duplicates of an already
// appended message are acknowledged without a second row.
package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tally/internal/archive"
	"tally/internal/broker"
	"tally/internal/dedup"
	"tally/internal/ledger"
	"tally/internal/logger"
	"tally/internal/parser"
	pkgerrors "tally/pkg/errors"
	"tally/pkg/metrics"
	"tally/pkg/models"
	"tally/pkg/tracing"
)

type Screener interface {
	Screen(ctx context.Context, msg models.ChatMessage, record models.BetRecord) (bool, []string, error)
}

type DedupClaimer interface {
	Claim(ctx context.Context, msg models.ChatMessage) (bool, error)
	Release(ctx context.Context, msgID string) error
}

type Service struct {
	parser        *parser.Parser
	screener      Screener
	dedup         DedupClaimer
	ledgerRepo    ledger.Repository
	archiveRepo   archive.Repository
	producer      broker.Producer
	recordedTopic string
	log           logger.Logger
}

type ServiceOption func(*Service)

// WithArchive stores rejected messages for later inspection. Archive writes
// are best effort and never fail the message.
func WithArchive(repo archive.Repository) ServiceOption {
	return func(s *Service) {
		s.archiveRepo = repo
	}
}

// WithRecordedEvents announces appended rows on the given topic.
func WithRecordedEvents(producer broker.Producer, topic string) ServiceOption {
	return func(s *Service) {
		s.producer = producer
		s.recordedTopic = topic
	}
}

func NewService(p *parser.Parser, screener Screener, claimer DedupClaimer, ledgerRepo ledger.Repository, log logger.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		parser:     p,
		screener:   screener,
		dedup:      claimer,
		ledgerRepo: ledgerRepo,
		log:        log,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Process handles one consumed message through to a terminal outcome. A nil
// return acknowledges the message; an error hands it to the consumer's retry
// policy and eventually the DLQ.
func (s *Service) Process(ctx context.Context, msg models.ChatMessage) error {
	ctx, span := tracing.GetTracer("recorder-service").Start(ctx, "recorder.process")
	defer span.End()

	start := time.Now()
	outcome, err := s.process(ctx, msg)

	status := string(outcome)
	if err != nil {
		status = "error"
	}
	metrics.RecorderMessagesTotal.WithLabelValues(status).Inc()
	metrics.ObserveRecorderDuration(time.Since(start), status)

	return err
}

func (s *Service) process(ctx context.Context, msg models.ChatMessage) (Outcome, error) {
	record, err := s.parser.Parse(msg)
	if err != nil {
		metrics.IncParseResult("malformed")
		s.log.InfowCtx(ctx, "Dropping malformed message",
			"source_message_id", msg.ID,
			"source", msg.Source,
			"error", err,
		)
		s.archiveRejection(ctx, archive.NewMalformedRejection(msg, err.Error()))
		return OutcomeMalformed, nil
	}
	metrics.IncParseResult("parsed")

	passed, ruleIDs, err := s.screener.Screen(ctx, msg, record)
	if err != nil {
		return "", fmt.Errorf("screening failed: %w", err)
	}
	if !passed {
		s.log.InfowCtx(ctx, "Bet screened out",
			"source_message_id", msg.ID,
			"rule_ids", ruleIDs,
		)
		s.archiveRejection(ctx, archive.NewScreenedOutRejection(msg, "screening rule rejected bet", ruleIDs))
		return OutcomeScreenedOut, nil
	}
	msg.Metadata.Screening = &models.ScreeningInfo{
		PassedAt: time.Now(),
		RuleIDs:  ruleIDs,
	}

	first, err := s.dedup.Claim(ctx, msg)
	if err != nil {
		return "", err
	}
	msg.Metadata.Dedup = &models.DedupInfo{
		IsFirst:   first,
		CheckedAt: time.Now(),
	}
	if !first {
		s.log.DebugwCtx(ctx, "Duplicate message, row already claimed",
			"source_message_id", msg.ID,
		)
		return OutcomeDuplicate, nil
	}

	row := ledger.NewRowFromRecord(record, dedup.Fingerprint(msg.Source, msg.Text))

	appendStart := time.Now()
	appended, err := s.ledgerRepo.AppendRow(ctx, row)
	appendDuration := time.Since(appendStart)

	if err != nil {
		metrics.ObserveLedgerAppendDuration(appendDuration, "error")
		metrics.IncLedgerAppend("error")
		s.releaseClaim(ctx, msg.ID)
		return "", pkgerrors.ErrWriteError.WithCause(err)
	}

	if !appended {
		// The claim said first sighting but the ledger already holds the
		// row, so a prior delivery appended it after its claim expired.
		metrics.ObserveLedgerAppendDuration(appendDuration, "duplicate")
		metrics.IncLedgerAppend("duplicate")
		s.log.InfowCtx(ctx, "Row already present, acknowledging duplicate",
			"source_message_id", msg.ID,
		)
		return OutcomeDuplicate, nil
	}

	metrics.ObserveLedgerAppendDuration(appendDuration, "appended")
	metrics.IncLedgerAppend("appended")

	s.publishRecordedBet(ctx, msg, record, row)

	s.log.InfowCtx(ctx, "Bet appended to ledger",
		"source_message_id", msg.ID,
		"sheet", row.Sheet,
		"account", record.AccountName,
		"amount", record.Amount.String(),
		"currency", record.Currency,
	)

	return OutcomeAppended, nil
}

// releaseClaim is best effort. If the release itself fails the claim TTL
// still expires, and the ledger's unique constraint holds either way.
func (s *Service) releaseClaim(ctx context.Context, msgID string) {
	if err := s.dedup.Release(ctx, msgID); err != nil {
		s.log.WarnwCtx(ctx, "Failed to release dedup claim after append failure",
			"source_message_id", msgID,
			"error", err,
		)
	}
}

func (s *Service) archiveRejection(ctx context.Context, rejection *archive.Rejection) {
	if s.archiveRepo == nil {
		return
	}
	if err := s.archiveRepo.SaveRejection(ctx, rejection); err != nil {
		s.log.WarnwCtx(ctx, "Failed to archive rejection",
			"source_message_id", rejection.SourceMessageID,
			"reason_kind", rejection.ReasonKind,
			"error", err,
		)
	}
}

func (s *Service) publishRecordedBet(ctx context.Context, msg models.ChatMessage, record models.BetRecord, row *ledger.Row) {
	if s.producer == nil || s.recordedTopic == "" {
		return
	}

	event := models.RecordedBet{
		Record:     record,
		Summary:    BuildSummary(record),
		RecordedAt: row.RecordedAt,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		s.log.WarnwCtx(ctx, "Failed to marshal recorded bet event",
			"source_message_id", msg.ID,
			"error", err,
		)
		return
	}

	out := models.ChatMessage{
		ID:         msg.ID,
		Source:     msg.Source,
		Sender:     msg.Sender,
		Text:       string(eventJSON),
		ReceivedAt: time.Now(),
		Metadata:   msg.Metadata,
	}

	attrs := make(map[string]interface{}, len(msg.Metadata.Attributes)+1)
	for k, v := range msg.Metadata.Attributes {
		attrs[k] = v
	}
	attrs["event_type"] = EventTypeBetRecorded
	out.Metadata.Attributes = attrs

	if err := s.producer.Publish(ctx, s.recordedTopic, out); err != nil {
		s.log.WarnwCtx(ctx, "Failed to publish recorded bet event",
			"source_message_id", msg.ID,
			"topic", s.recordedTopic,
			"error", err,
		)
	}
}
