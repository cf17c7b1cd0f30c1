// Package ingest glues the queue to the decomposition core: it parses event
// envelopes, normalizes OIDC payloads into the credential shape, and runs
// decomposition followed by conflict detection as one sequential unit of
// work per event.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/uigs/graph-engine/internal/conflict"
	"github.com/uigs/graph-engine/internal/credential"
	"github.com/uigs/graph-engine/internal/decompose"
	"github.com/uigs/graph-engine/internal/ingest/archive"
	"github.com/uigs/graph-engine/internal/ingest/models"
	"github.com/uigs/graph-engine/internal/ingest/seen"
	"github.com/uigs/graph-engine/internal/platform/metrics"
	"github.com/uigs/graph-engine/pkg/platform/sentinel"
)

// Outcome summarizes what processing one message did.
type Outcome struct {
	EventID           string
	Skipped           bool
	ClaimsCreated     int
	ConflictsDetected int
}

// Processor handles one decoded queue message end to end. It owns no
// connection state; transports hand it message bodies and translate the
// returned error into their acknowledgment semantics (sentinel.ErrMalformed
// means redelivery cannot help).
type Processor struct {
	decomposer *decompose.Service
	detector   *conflict.Detector
	seen       seen.Store    // optional
	archive    archive.Store // optional
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewProcessor wires the processing pipeline. seenStore and archiveStore may
// be nil when the deployment runs without Redis or Postgres.
func NewProcessor(
	decomposer *decompose.Service,
	detector *conflict.Detector,
	seenStore seen.Store,
	archiveStore archive.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		decomposer: decomposer,
		detector:   detector,
		seen:       seenStore,
		archive:    archiveStore,
		metrics:    m,
		logger:     logger,
		tracer:     otel.Tracer("github.com/uigs/graph-engine/internal/ingest"),
	}
}

// ProcessMessage parses and processes one raw queue message body.
func (p *Processor) ProcessMessage(ctx context.Context, body []byte) (Outcome, error) {
	event, err := models.ParseEvent(body)
	if err != nil {
		p.metrics.EventsRejected.WithLabelValues("malformed_envelope").Inc()
		return Outcome{}, err
	}
	return p.ProcessEvent(ctx, event)
}

// ProcessEvent runs the pipeline for a decoded event: duplicate guard,
// archive append, source-type dispatch, decomposition, conflict detection.
func (p *Processor) ProcessEvent(ctx context.Context, event models.Event) (Outcome, error) {
	ctx, span := p.tracer.Start(ctx, "ingest.ProcessEvent",
		trace.WithAttributes(
			attribute.String("event.id", event.EventID),
			attribute.String("event.source_type", string(event.SourceType)),
		))
	defer span.End()

	logger := p.logger.With("event_id", event.EventID, "user_id", event.UserID, "source_type", event.SourceType)
	logger.Info("processing event")

	if p.seen != nil {
		duplicate, err := p.seen.MarkSeen(ctx, event.EventID)
		if err != nil {
			// Degrade open: losing the guard means redundant graph
			// writes, not data loss.
			logger.Warn("seen store unavailable", "error", err)
		} else if duplicate {
			logger.Info("duplicate delivery skipped")
			p.metrics.EventsRejected.WithLabelValues("duplicate").Inc()
			return Outcome{EventID: event.EventID, Skipped: true}, nil
		}
	}

	if p.archive != nil {
		if err := p.archive.Append(ctx, event); err != nil {
			logger.Warn("event archive append failed", "error", err)
		}
	}

	var cred credential.Credential
	switch event.SourceType {
	case models.SourceTypeVC, models.SourceTypeManual:
		parsed, err := credential.Parse(event.Payload)
		if err != nil {
			p.metrics.EventsRejected.WithLabelValues("malformed_payload").Inc()
			return Outcome{}, fmt.Errorf("%v: %w", err, sentinel.ErrMalformed)
		}
		cred = parsed
	case models.SourceTypeOIDC:
		normalized, err := NormalizeOIDC(event)
		if err != nil {
			p.metrics.EventsRejected.WithLabelValues("malformed_payload").Inc()
			return Outcome{}, err
		}
		cred = normalized
	default:
		logger.Warn("unknown source type, skipping")
		p.metrics.EventsRejected.WithLabelValues("unknown_source_type").Inc()
		return Outcome{EventID: event.EventID, Skipped: true}, nil
	}

	start := time.Now()
	result, err := p.decomposer.Decompose(ctx, cred, event.UserID, event.EventID)
	if err != nil {
		return Outcome{}, fmt.Errorf("process event %s: %w", event.EventID, err)
	}

	conflicts, err := p.detector.Detect(ctx, event.UserID, result.ClaimNodes)
	if err != nil {
		return Outcome{}, fmt.Errorf("process event %s: %w", event.EventID, err)
	}

	p.metrics.EventsProcessed.WithLabelValues(string(event.SourceType)).Inc()
	p.metrics.ClaimsCreated.Add(float64(len(result.ClaimNodes)))
	p.metrics.ConflictsDetected.Add(float64(len(conflicts)))
	p.metrics.DecompositionDuration.Observe(time.Since(start).Seconds())

	logger.Info("event processed",
		"claims", len(result.ClaimNodes),
		"edges", result.EdgesCreated,
		"conflicts", len(conflicts),
	)
	return Outcome{
		EventID:           event.EventID,
		ClaimsCreated:     len(result.ClaimNodes),
		ConflictsDetected: len(conflicts),
	}, nil
}
