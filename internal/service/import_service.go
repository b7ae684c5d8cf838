package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/restaurant-catalog/internal/importer"
	"github.com/iliyamo/restaurant-catalog/internal/metrics"
	"github.com/iliyamo/restaurant-catalog/internal/queue"
)

// CacheInvalidator drops cached catalog responses after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ImportService runs an import and its side effects: metrics, cache purge
// and the completion event.  Side effects are best-effort and never change
// the import result.
type ImportService struct {
	importer       *importer.Importer
	publisher      EventPublisher
	cache          CacheInvalidator
	logger         *zap.Logger
	publishTimeout time.Duration
}

// Option customises an ImportService.
type Option func(*ImportService)

// WithPublisher sends an ImportCompletedEvent after every import.  A
// non-positive timeout keeps the default of 3s.
func WithPublisher(p EventPublisher, timeout time.Duration) Option {
	return func(s *ImportService) {
		s.publisher = p
		if timeout > 0 {
			s.publishTimeout = timeout
		}
	}
}

// WithCacheInvalidator purges cached listings after an import that wrote.
func WithCacheInvalidator(c CacheInvalidator) Option {
	return func(s *ImportService) { s.cache = c }
}

// NewImportService wraps im.  A nil logger discards service logs.
func NewImportService(im *importer.Importer, logger *zap.Logger, opts ...Option) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ImportService{importer: im, logger: logger, publishTimeout: 3 * time.Second}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Outcome is a finished import and the id it was logged under.
type Outcome struct {
	ID     string
	Result importer.Result
}

// Run imports doc.  The error is non-nil only for a failure outside the
// import's own unit isolation, such as a panic in the engine.
func (s *ImportService) Run(ctx context.Context, source string, doc json.RawMessage) (out Outcome, err error) {
	out.ID = uuid.NewString()
	log := s.logger.With(zap.String("import_id", out.ID), zap.String("source", source))
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
			log.Error("import panicked", zap.Any("panic", rec))
		}
	}()

	out.Result = s.importer.Import(ctx, doc)
	elapsed := time.Since(start)
	metrics.ObserveImport(source, out.Result.Success, out.Result.SuccessCount, out.Result.ErrorCount, elapsed)
	log.Info("import finished",
		zap.Bool("success", out.Result.Success),
		zap.Int("success_count", out.Result.SuccessCount),
		zap.Int("error_count", out.Result.ErrorCount),
		zap.Duration("elapsed", elapsed),
	)

	// side effects must outlive a client that hung up
	bg := context.WithoutCancel(ctx)
	if s.cache != nil && out.Result.Changes.Any() {
		cerr := s.cache.Invalidate(bg)
		metrics.CacheInvalidationsTotal.WithLabelValues(metrics.Status(cerr)).Inc()
		if cerr != nil {
			log.Warn("cache invalidation failed", zap.Error(cerr))
		}
	}
	if s.publisher != nil {
		pctx, cancel := context.WithTimeout(bg, s.publishTimeout)
		perr := s.publisher.PublishImportCompleted(pctx, s.event(out, source))
		cancel()
		metrics.EventsPublishedTotal.WithLabelValues(metrics.Status(perr)).Inc()
		if perr != nil {
			log.Warn("import event not published", zap.Error(perr))
		}
	}
	return out, nil
}

func (s *ImportService) event(out Outcome, source string) queue.ImportCompletedEvent {
	restaurants := out.Result.Changes.Restaurants
	if restaurants == nil {
		restaurants = []string{}
	}
	return queue.ImportCompletedEvent{
		ImportID:       out.ID,
		Source:         source,
		Success:        out.Result.Success,
		TotalProcessed: out.Result.TotalProcessed,
		SuccessCount:   out.Result.SuccessCount,
		ErrorCount:     out.Result.ErrorCount,
		Restaurants:    restaurants,
		CompletedAt:    time.Now().UTC(),
	}
}
