// Package extraction converts PDF documents into plain text through a hosted
// document-understanding service. Every call releases the local temp file and
// the remote upload it creates, whatever the outcome.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/studybuddy/internal/chunking"
	"github.com/JaimeStill/studybuddy/internal/faults"
)

// Prompt instructs the model to return the document text verbatim.
const Prompt = "Extract all text content from this PDF document. Return ONLY the raw text with no formatting, no summaries, no explanations. Just the complete text content exactly as it appears in the document."

const (
	pdfMIMEType    = "application/pdf"
	cleanupTimeout = 10 * time.Second

	DefaultPollInterval = time.Second
	DefaultPollTimeout  = 30 * time.Second
)

const (
	msgUnavailable = `Unable to extract text from the PDF "%s". This may be due to a temporary service issue. Please try again in a few moments.`
	msgTimeout     = `Unable to extract text from the PDF "%s". The AI service took too long to process the file. Please try again in a few moments.`
	msgRejected    = `Unable to extract text from the PDF "%s". The AI service was unable to process your PDF file. The file may be corrupted, password-protected, or in an unsupported format. Please ensure your PDF is readable and try again.`
	msgEmpty       = `Unable to extract text from the PDF "%s". The PDF file was processed but no text content could be extracted. This usually means the PDF contains only images or scanned pages without OCR. Please use a PDF with selectable text or convert scanned documents first.`
)

// System extracts sanitized text from a PDF.
type System interface {
	Extract(ctx context.Context, data []byte, name string) (string, error)
}

// Config bounds the wait for remote processing.
// TempDir defaults to os.TempDir when empty.
type Config struct {
	PollInterval time.Duration
	PollTimeout  time.Duration
	TempDir      string
}

type extractor struct {
	files  FileService
	cfg    Config
	logger *slog.Logger
}

// New creates an extractor over files.
func New(files FileService, cfg Config, logger *slog.Logger) System {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}

	return &extractor{
		files:  files,
		cfg:    cfg,
		logger: logger.With("system", "extraction"),
	}
}

func (e *extractor) Extract(ctx context.Context, data []byte, name string) (string, error) {
	path, err := e.writeTemp(data)
	if err != nil {
		return "", faults.New(faults.ErrServiceUnavailable, fmt.Sprintf(msgUnavailable, name), err)
	}
	defer e.removeTemp(path)

	file, err := e.files.Upload(ctx, path, name, pdfMIMEType)
	if err != nil {
		return "", e.fail(name, err)
	}
	defer e.deleteRemote(file.Name)

	e.logger.Info("file uploaded", "name", name, "remote", file.Name, "state", file.State)

	file, err = e.await(ctx, file)
	if err != nil {
		return "", e.fail(name, err)
	}

	raw, err := e.files.Generate(ctx, file, Prompt)
	if err != nil {
		return "", e.fail(name, err)
	}

	text := chunking.Sanitize(raw)
	if text == "" {
		return "", faults.New(faults.ErrNoExtractableContent, fmt.Sprintf(msgEmpty, name), nil)
	}

	e.logger.Info("text extracted", "name", name, "chars", len(text))
	return text, nil
}

var errPollTimeout = errors.New("file processing did not finish in time")

func (e *extractor) await(ctx context.Context, file *RemoteFile) (*RemoteFile, error) {
	deadline := time.NewTimer(e.cfg.PollTimeout)
	defer deadline.Stop()

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for file.State == StateProcessing {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, errPollTimeout
		case <-ticker.C:
		}

		next, err := e.files.Get(ctx, file.Name)
		if err != nil {
			return nil, err
		}
		file = next
	}

	if file.State == StateFailed {
		return nil, fmt.Errorf("remote file %s: %w", file.Name, ErrRejected)
	}
	return file, nil
}

func (e *extractor) fail(name string, err error) error {
	switch {
	case errors.Is(err, ErrRejected):
		return faults.New(faults.ErrProcessingFailed, fmt.Sprintf(msgRejected, name), err)
	case errors.Is(err, errPollTimeout), errors.Is(err, context.DeadlineExceeded):
		return faults.New(faults.ErrServiceUnavailable, fmt.Sprintf(msgTimeout, name), err)
	default:
		return faults.New(faults.ErrServiceUnavailable, fmt.Sprintf(msgUnavailable, name), err)
	}
}

func (e *extractor) writeTemp(data []byte) (string, error) {
	f, err := os.CreateTemp(e.cfg.TempDir, "upload-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return f.Name(), nil
}

func (e *extractor) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		e.logger.Warn("temp file cleanup failed", "path", path, "error", err)
	}
}

// deleteRemote runs detached from the request so a cancelled caller still releases the upload.
func (e *extractor) deleteRemote(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	if err := e.files.Delete(ctx, name); err != nil {
		e.logger.Warn("remote file cleanup failed", "remote", name, "error", err)
		return
	}
	e.logger.Debug("remote file deleted", "remote", name)
}
