package ingestion

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/JaimeStill/studybuddy/internal/chunking"
	"github.com/JaimeStill/studybuddy/internal/documents"
	"github.com/JaimeStill/studybuddy/internal/faults"
	"github.com/JaimeStill/studybuddy/internal/metrics"
	"github.com/JaimeStill/studybuddy/pkg/storage"
	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	pdfMIMEType         = "application/pdf"
	compensationTimeout = 10 * time.Second

	DefaultBatchSize = 50
	DefaultTimeout   = 60 * time.Second
)

// TracerName is the instrumentation scope of ingestion spans.
const TracerName = "github.com/JaimeStill/studybuddy/internal/ingestion"

const (
	msgEmpty      = "No file was selected or the file is empty. Please choose a PDF file to upload."
	msgNotPDF     = `The file "%s" is not a PDF document. Only PDF files are currently supported. Please convert your file to PDF format and try again.`
	msgTooLarge   = `The file "%s" is too large (%s). Maximum file size allowed is %s. Please compress your PDF or choose a smaller file.`
	msgUnreadable = `The file "%s" is not a readable PDF. It may be corrupted or password-protected. Please check the file and try again.`
	msgNoText     = `No readable text content was found in the PDF "%s". The file may contain only images or scanned pages. Please use a PDF with selectable text or convert scanned documents using OCR (Optical Character Recognition) first.`
	msgNotSaved   = `File processing failed for "%s". The file was not saved. Please try again. If the problem continues, contact support.`
	msgEmbedding  = `Unable to process the document "%s" for AI search. This may be due to a temporary service issue. Please try again in a few moments.`
	msgTimeout    = `Processing the file "%s" took too long and was stopped. Nothing was saved. Please try again in a few moments or upload a smaller file.`

	msgTimeoutPartial = `Processing the file "%s" took too long and was stopped. The file may not have been saved completely. Please try again in a few moments or upload a smaller file.`
)

// Config bounds a single ingestion.
type Config struct {
	MaxUploadSize int64
	BatchSize     int
	Timeout       time.Duration
}

// Deps are the collaborators of the pipeline. Tracer defaults to the global
// provider and PageCounter to PageCount.
type Deps struct {
	Extractor   Extractor
	PageCounter func(data []byte) (int, error)
	Chunker     *chunking.Chunker
	Embedder    Embedder
	Blobs       storage.System
	Documents   Documents
	Chunks      Chunks
	Metrics     *metrics.Metrics
	Tracer      trace.Tracer
	Logger      *slog.Logger
}

type pipeline struct {
	cfg    Config
	deps   Deps
	tracer trace.Tracer
	logger *slog.Logger
}

// New creates the ingestion pipeline.
func New(cfg Config, deps Deps) System {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if deps.Chunker == nil {
		deps.Chunker = chunking.New()
	}
	if deps.PageCounter == nil {
		deps.PageCounter = PageCount
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}

	return &pipeline{
		cfg:    cfg,
		deps:   deps,
		tracer: tracer,
		logger: deps.Logger.With("system", "ingestion"),
	}
}

func (p *pipeline) Handler() *Handler {
	return NewHandler(p, p.cfg.MaxUploadSize, p.logger)
}

func (p *pipeline) Ingest(ctx context.Context, userID uuid.UUID, up Upload) (result *Result, err error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	ctx, span := p.tracer.Start(ctx, "ingestion.Ingest", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("file.name", up.Filename),
		attribute.Int("file.size", len(up.Data)),
	))
	defer span.End()

	r := &run{
		id:     uuid.New(),
		userID: userID,
		upload: up,
		stage:  StageValidating,
		clean:  true,
	}
	r.logger = p.logger.With("run_id", r.id, "user_id", userID, "file", up.Filename)

	defer func() {
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, faults.ErrInvalidInput) {
			msg := msgTimeout
			if !r.clean {
				msg = msgTimeoutPartial
			}
			err = faults.New(faults.ErrServiceUnavailable, fmt.Sprintf(msg, up.Filename), err)
		}

		p.deps.Metrics.IngestionDuration.
			WithLabelValues(metrics.Outcome(err)).
			Observe(time.Since(start).Seconds())

		if err != nil {
			p.deps.Metrics.IngestionStages.WithLabelValues(StageFailed.String(), metrics.OutcomeFailure).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, faults.Message(err))
			r.logger.WarnContext(ctx, "ingestion failed", "stage", StageFailed, "at", r.stage, "error", err)
		}
	}()

	graph, err := p.graph(r)
	if err != nil {
		return nil, fmt.Errorf("build ingestion graph: %w", err)
	}

	initial := state.New(nil)
	initial.RunID = r.id.String()
	initial = initial.Set("user_id", userID.String())
	initial = initial.Set("file", up.Filename)

	if _, gerr := graph.Execute(ctx, initial); gerr != nil {
		err = r.err
		if err == nil {
			err = gerr
		}
		if r.stage >= StagePersistingBlob {
			p.compensate(r)
			err = faults.New(faults.ErrPersistence, fmt.Sprintf(msgNotSaved, up.Filename), err)
		}
		return nil, err
	}

	r.logger.InfoContext(ctx, "ingestion completed", "stage", StageCompleted, "document_id", r.doc.ID, "chunks", len(r.texts), "duration", time.Since(start))

	return &Result{Document: r.doc, Chunks: len(r.texts)}, nil
}

func (p *pipeline) validate(ctx context.Context, r *run) error {
	up := &r.upload
	if len(up.Data) == 0 {
		return faults.New(faults.ErrInvalidInput, msgEmpty, nil)
	}

	up.ContentType = detectContentType(up.ContentType, up.Data)
	if up.ContentType != pdfMIMEType {
		return faults.New(faults.ErrInvalidInput, fmt.Sprintf(msgNotPDF, up.Filename), fmt.Errorf("content type %q", up.ContentType))
	}

	if size := int64(len(up.Data)); p.cfg.MaxUploadSize > 0 && size > p.cfg.MaxUploadSize {
		msg := fmt.Sprintf(msgTooLarge, up.Filename,
			units.BytesSize(float64(size)),
			units.BytesSize(float64(p.cfg.MaxUploadSize)),
		)
		return faults.New(faults.ErrInvalidInput, msg, faults.ErrTooLarge)
	}

	count, err := p.deps.PageCounter(up.Data)
	if err != nil {
		return faults.New(faults.ErrInvalidInput, fmt.Sprintf(msgUnreadable, up.Filename), err)
	}
	r.pageCount = &count
	return nil
}

func (p *pipeline) extract(ctx context.Context, r *run) error {
	text, err := p.deps.Extractor.Extract(ctx, r.upload.Data, r.upload.Filename)
	if err != nil {
		return err
	}
	r.text = text
	return nil
}

func (p *pipeline) chunk(ctx context.Context, r *run) error {
	r.texts = p.deps.Chunker.Split(r.text)
	if len(r.texts) == 0 {
		return faults.New(faults.ErrNoExtractableContent, fmt.Sprintf(msgNoText, r.upload.Filename), nil)
	}
	return nil
}

func (p *pipeline) embed(ctx context.Context, r *run) error {
	vectors, err := p.deps.Embedder.EmbedDocuments(ctx, r.texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(r.texts) {
		return faults.New(faults.ErrEmbeddingService, fmt.Sprintf(msgEmbedding, r.upload.Filename), fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(r.texts)))
	}
	r.vectors = vectors
	return nil
}

func (p *pipeline) storeBlob(ctx context.Context, r *run) error {
	key, err := blobKey(r.userID, r.upload.Filename)
	if err != nil {
		return err
	}
	r.key = key
	if err := p.deps.Blobs.Store(ctx, key, r.upload.Data); err != nil {
		return fmt.Errorf("store blob: %w", err)
	}
	r.stored = true
	return nil
}

func (p *pipeline) createRecord(ctx context.Context, r *run) error {
	doc, err := p.deps.Documents.Create(ctx, documents.CreateCommand{
		UserID:     r.userID,
		Name:       r.upload.Filename,
		StorageKey: r.key,
		URL:        p.deps.Blobs.URL(r.key),
		MIMEType:   pdfMIMEType,
		SizeBytes:  int64(len(r.upload.Data)),
		PageCount:  r.pageCount,
		Status:     documents.StatusProcessing,
	})
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	r.doc = doc
	return nil
}

// insertChunks writes batches sequentially. Rows within a batch are inserted in parallel.
func (p *pipeline) insertChunks(ctx context.Context, r *run) error {
	size := p.cfg.BatchSize
	total := (len(r.texts) + size - 1) / size

	for i := 0; i < len(r.texts); i += size {
		end := min(i+size, len(r.texts))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(size)

		for j := i; j < end; j++ {
			g.Go(func() error {
				return p.deps.Chunks.Insert(gctx, r.doc.ID, r.texts[j], r.vectors[j])
			})
		}

		if err := g.Wait(); err != nil {
			return fmt.Errorf("insert chunk batch %d/%d: %w", i/size+1, total, err)
		}

		p.deps.Metrics.ChunksPersisted.Add(float64(end - i))
		r.logger.Debug("chunk batch saved", "batch", i/size+1, "of", total)
	}
	return nil
}

// complete flips the document to completed once every chunk row is readable.
func (p *pipeline) complete(ctx context.Context, r *run) error {
	n, err := p.deps.Chunks.Count(ctx, r.doc.ID)
	if err != nil {
		return fmt.Errorf("count chunks: %w", err)
	}
	if n != len(r.texts) {
		return fmt.Errorf("document has %d chunk rows, want %d", n, len(r.texts))
	}

	if err := p.deps.Documents.SetStatus(ctx, r.doc.ID, documents.StatusCompleted); err != nil {
		return fmt.Errorf("complete document: %w", err)
	}
	r.doc.Status = documents.StatusCompleted
	return nil
}

// compensate undoes partial writes. Each action gets its own context so an
// expired request deadline does not prevent cleanup.
func (p *pipeline) compensate(r *run) {
	if r.doc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), compensationTimeout)
		err := p.deps.Documents.Remove(ctx, r.doc.ID)
		cancel()

		p.deps.Metrics.Compensations.WithLabelValues("remove_document", metrics.Outcome(err)).Inc()
		if err != nil {
			r.clean = false
			r.logger.Error("compensation failed", "action", "remove_document", "document_id", r.doc.ID, "error", err)
		} else {
			r.logger.Info("compensation applied", "action", "remove_document", "document_id", r.doc.ID)
		}
	}

	if r.stored {
		ctx, cancel := context.WithTimeout(context.Background(), compensationTimeout)
		err := p.deps.Blobs.Delete(ctx, r.key)
		cancel()

		p.deps.Metrics.Compensations.WithLabelValues("delete_blob", metrics.Outcome(err)).Inc()
		if err != nil {
			r.clean = false
			r.logger.Error("compensation failed", "action", "delete_blob", "storage_key", r.key, "error", err)
		} else {
			r.logger.Info("compensation applied", "action", "delete_blob", "storage_key", r.key)
		}
	}
}

// PageCount parses data as a PDF and returns its page count.
func PageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
}

// detectContentType trusts a specific declared type and sniffs generic ones.
func detectContentType(declared string, data []byte) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}

func blobKey(userID uuid.UUID, filename string) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate blob suffix: %w", err)
	}
	return fmt.Sprintf("%s/%s-%s", userID, hex.EncodeToString(suffix), sanitizeFilename(filename)), nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "document.pdf"
	}
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
