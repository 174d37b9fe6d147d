// Package retrieval finds the chunks of a user's completed documents that are most
// similar to a query and assembles them into prompt context.
package retrieval

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/JaimeStill/studybuddy/internal/chunks"
	"github.com/JaimeStill/studybuddy/internal/faults"
	"github.com/JaimeStill/studybuddy/internal/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Separator joins retrieved chunks in the assembled context.
const Separator = "\n\n---\n\n"

// DefaultTopK is the number of chunks retrieved when Config.TopK is unset.
const DefaultTopK = 5

// TracerName is the instrumentation scope of retrieval spans.
const TracerName = "github.com/JaimeStill/studybuddy/internal/retrieval"

const msgSearch = "Unable to search your documents right now. Please try again in a few moments."

// QueryEmbedder embeds a single query.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Searcher runs nearest-neighbour search scoped to one user.
type Searcher interface {
	Search(ctx context.Context, userID uuid.UUID, vector []float32, k int) ([]chunks.Match, error)
}

// Context is the result of a retrieval. Text is empty when nothing matched.
type Context struct {
	Text    string
	Matches []chunks.Match
}

// Empty reports whether c carries no context.
func (c *Context) Empty() bool {
	return c == nil || c.Text == ""
}

// Config controls result count and the expected query dimensionality.
type Config struct {
	TopK       int
	Dimensions int
}

// System retrieves context for a user's query.
type System interface {
	Retrieve(ctx context.Context, userID uuid.UUID, query string) (*Context, error)
	// ContextFor is Retrieve with every failure degraded to empty context.
	ContextFor(ctx context.Context, userID uuid.UUID, query string) string
}

type engine struct {
	embedder QueryEmbedder
	searcher Searcher
	cfg      Config
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

// Option customizes a retrieval engine.
type Option func(*engine)

// WithTracer records retrieval spans on tracer instead of the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *engine) {
		e.tracer = tracer
	}
}

// New creates a retrieval engine.
func New(embedder QueryEmbedder, searcher Searcher, cfg Config, m *metrics.Metrics, logger *slog.Logger, opts ...Option) System {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	e := &engine{
		embedder: embedder,
		searcher: searcher,
		cfg:      cfg,
		metrics:  m,
		tracer:   otel.Tracer(TracerName),
		logger:   logger.With("system", "retrieval"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *engine) Retrieve(ctx context.Context, userID uuid.UUID, query string) (*Context, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &Context{}, nil
	}

	ctx, span := e.tracer.Start(ctx, "retrieval.Retrieve", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int("retrieval.k", e.cfg.TopK),
	))
	defer span.End()

	vector, err := e.embedder.EmbedQuery(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "embed query")
		return nil, err
	}

	if e.cfg.Dimensions > 0 && len(vector) != e.cfg.Dimensions {
		err := fmt.Errorf("query vector dimension %d, want %d", len(vector), e.cfg.Dimensions)
		span.RecordError(err)
		span.SetStatus(codes.Error, "dimension mismatch")
		return nil, faults.New(faults.ErrEmbeddingService, msgSearch, err)
	}

	matches, err := e.searcher.Search(ctx, userID, vector, e.cfg.TopK)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search")
		return nil, faults.New(faults.ErrPersistence, msgSearch, err)
	}

	slices.SortStableFunc(matches, func(a, b chunks.Match) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})

	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Content
	}

	e.metrics.RetrievalResults.Observe(float64(len(matches)))
	span.SetAttributes(attribute.Int("retrieval.matches", len(matches)))

	return &Context{
		Text:    strings.Join(texts, Separator),
		Matches: matches,
	}, nil
}

func (e *engine) ContextFor(ctx context.Context, userID uuid.UUID, query string) string {
	rc, err := e.Retrieve(ctx, userID, query)
	if err != nil {
		e.metrics.RetrievalDegraded.Inc()
		e.logger.WarnContext(ctx, "retrieval degraded to empty context", "user_id", userID, "error", err)
		return ""
	}
	return rc.Text
}
