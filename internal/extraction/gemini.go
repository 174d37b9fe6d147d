package extraction

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Gemini implements FileService on the Gemini File API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini wraps client. Generation requests are sent to model.
func NewGemini(client *genai.Client, model string) *Gemini {
	return &Gemini{client: client, model: model}
}

func (g *Gemini) Upload(ctx context.Context, path, displayName, mimeType string) (*RemoteFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload source: %w", err)
	}
	defer f.Close()

	file, err := g.client.UploadFile(ctx, "", f, &genai.UploadFileOptions{
		DisplayName: displayName,
		MIMEType:    mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", classify(err))
	}
	return toRemote(file), nil
}

func (g *Gemini) Get(ctx context.Context, name string) (*RemoteFile, error) {
	file, err := g.client.GetFile(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get file %s: %w", name, classify(err))
	}
	return toRemote(file), nil
}

func (g *Gemini) Delete(ctx context.Context, name string) error {
	if err := g.client.DeleteFile(ctx, name); err != nil {
		return fmt.Errorf("delete file %s: %w", name, err)
	}
	return nil
}

func (g *Gemini) Generate(ctx context.Context, file *RemoteFile, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)

	resp, err := model.GenerateContent(ctx,
		genai.FileData{MIMEType: file.MIMEType, URI: file.URI},
		genai.Text(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", classify(err))
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		break
	}
	return b.String(), nil
}

func toRemote(f *genai.File) *RemoteFile {
	rf := &RemoteFile{
		Name:     f.Name,
		URI:      f.URI,
		MIMEType: f.MIMEType,
	}

	switch f.State {
	case genai.FileStateProcessing:
		rf.State = StateProcessing
	case genai.FileStateActive:
		rf.State = StateActive
	case genai.FileStateFailed:
		rf.State = StateFailed
	}
	return rf
}

// classify marks errors that describe the document rather than the service.
func classify(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return errors.Join(ErrRejected, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
			return errors.Join(ErrRejected, err)
		}
		return err
	}

	switch status.Code(err) {
	case codes.InvalidArgument, codes.FailedPrecondition:
		return errors.Join(ErrRejected, err)
	}
	return err
}
