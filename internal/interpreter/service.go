package interpreter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/community-resources/backend/internal/metrics"
	"github.com/community-resources/backend/internal/storage/models"
	"github.com/community-resources/backend/pkg/logger"
)

var (
	ErrEmptyQuery    = errors.New("search query is required")
	ErrNotConfigured = errors.New("llm search service not configured")
)

// CompletionClient is the outbound boundary to the completion service.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userQuery string) (string, error)
}

// QueryLogger persists completed interpretation attempts for offline
// quality review. Write-only from this package's perspective.
type QueryLogger interface {
	InsertSearchLog(ctx context.Context, entry *models.SearchLogEntry) error
}

// UsageCounter records best-effort usage tallies. May be nil.
type UsageCounter interface {
	IncrementCounter(ctx context.Context, name string) error
}

type Service struct {
	llm      CompletionClient
	queryLog QueryLogger
	counters UsageCounter

	logTimeout time.Duration
	pending    sync.WaitGroup
}

// NewService wires the interpreter. llm may be nil when the deployment
// is missing credentials; Interpret then fails fast with
// ErrNotConfigured and never attempts a network call.
func NewService(llm CompletionClient, queryLog QueryLogger, counters UsageCounter) *Service {
	return &Service{
		llm:        llm,
		queryLog:   queryLog,
		counters:   counters,
		logTimeout: 5 * time.Second,
	}
}

func (s *Service) Configured() bool { return s.llm != nil }

// Interpret runs the full pipeline: compile prompt, call the completion
// service, extract, validate, then detach the log write. Stateless and
// request-scoped; the result is fully determined by the query, the
// schema context, and the completion response.
func (s *Service) Interpret(ctx context.Context, query string, sctx SearchContext) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if s.llm == nil {
		return nil, ErrNotConfigured
	}

	start := time.Now()
	systemPrompt := BuildSystemPrompt(sctx.AssistanceTypes, sctx.ZipCodes)

	raw, err := s.llm.Complete(ctx, systemPrompt, query)
	if err != nil {
		metrics.SearchTotal.WithLabelValues("upstream_error").Inc()
		return nil, err
	}

	obj, ierr := Extract(raw)
	if ierr != nil {
		s.recordOutcome(ierr.Kind)
		s.logAsync(ctx, &models.SearchLogEntry{
			ID:             uuid.New().String(),
			Query:          query,
			Interpretation: ierr.Interpretation,
			CreatedAt:      time.Now(),
		})
		if ierr.Kind == KindUnparseable {
			logger.Error("Failed to extract filters from completion response",
				zap.Error(ierr.Unwrap()),
				zap.String("query", query),
			)
		}
		return nil, ierr
	}

	criteria, verr := ValidateCriteria(obj, vocabularyNames(sctx.AssistanceTypes))
	if verr != nil {
		// A structurally invalid object is an extraction failure,
		// surfaced to the caller exactly like unparseable output.
		metrics.ExtractionFailures.Inc()
		metrics.SearchTotal.WithLabelValues("extraction_failure").Inc()
		logger.Error("Completion response failed schema validation",
			zap.Error(verr),
			zap.String("query", query),
		)
		ierr := &InterpretError{
			Kind:    KindUnparseable,
			Message: rephraseMessage,
			Raw:     raw,
			cause:   verr,
		}
		s.logAsync(ctx, &models.SearchLogEntry{
			ID:        uuid.New().String(),
			Query:     query,
			CreatedAt: time.Now(),
		})
		return nil, ierr
	}

	metrics.SearchTotal.WithLabelValues("success").Inc()
	metrics.InterpretationDuration.Observe(time.Since(start).Seconds())

	filtersJSON, _ := json.Marshal(criteria)
	filters := string(filtersJSON)
	s.logAsync(ctx, &models.SearchLogEntry{
		ID:             uuid.New().String(),
		Query:          query,
		Filters:        &filters,
		Interpretation: criteria.Interpretation,
		CreatedAt:      time.Now(),
	})

	return &Result{
		Filters:         criteria,
		Interpretation:  criteria.Interpretation,
		GeocodeAddress:  criteria.GeocodeAddress,
		RelatedSearches: criteria.RelatedSearches,
		Raw:             raw,
	}, nil
}

func (s *Service) recordOutcome(kind ErrKind) {
	switch kind {
	case KindUninterpretable:
		metrics.SearchTotal.WithLabelValues("uninterpretable").Inc()
	case KindUnparseable:
		metrics.ExtractionFailures.Inc()
		metrics.SearchTotal.WithLabelValues("extraction_failure").Inc()
	}
}

// logAsync detaches the search-log write from the request lifecycle.
// The caller's response never waits on it, and the write survives the
// caller disconnecting. Failures are swallowed after a warning.
func (s *Service) logAsync(parent context.Context, entry *models.SearchLogEntry) {
	if s.queryLog == nil {
		return
	}
	detached := context.WithoutCancel(parent)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(detached, s.logTimeout)
		defer cancel()
		if err := s.queryLog.InsertSearchLog(ctx, entry); err != nil {
			logger.Warn("Search log write failed", zap.Error(err), zap.String("query", entry.Query))
		}
		if s.counters != nil {
			if err := s.counters.IncrementCounter(ctx, "searches"); err != nil {
				logger.Debug("Usage counter increment failed", zap.Error(err))
			}
		}
	}()
}

// Drain blocks until detached log writes finish. Used on shutdown and
// in tests; request handlers never call it.
func (s *Service) Drain() {
	s.pending.Wait()
}
