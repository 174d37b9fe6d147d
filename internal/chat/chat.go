// Package chat streams tutor responses. Signed-in users get answers grounded in
// context retrieved from their own documents; guests get a shorter response with
// no retrieval.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/studybuddy/internal/auth"
	"github.com/JaimeStill/studybuddy/internal/faults"
	"github.com/JaimeStill/studybuddy/internal/metrics"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"golang.org/x/time/rate"
)

const (
	DefaultAuthMaxTokens  = 1000
	DefaultGuestMaxTokens = 300
	DefaultGuestRate      = 0.2
	DefaultGuestBurst     = 3

	msgGeneration = "StudyBuddy couldn't finish a response right now. Please try sending your message again in a few moments."
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is one chat turn. User is nil for guests.
type Request struct {
	Messages []Message
	User     *auth.Identity
	Context  string
}

// LastUserMessage returns the content of the most recent user message.
func LastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

// Retriever supplies context for a signed-in user's query. It never fails.
type Retriever interface {
	ContextFor(ctx context.Context, userID uuid.UUID, query string) string
}

// Config bounds response length and guest traffic.
type Config struct {
	AuthMaxTokens  int
	GuestMaxTokens int
	GuestRate      float64
	GuestBurst     int
}

func (c *Config) defaults() {
	if c.AuthMaxTokens <= 0 {
		c.AuthMaxTokens = DefaultAuthMaxTokens
	}
	if c.GuestMaxTokens <= 0 {
		c.GuestMaxTokens = DefaultGuestMaxTokens
	}
	if c.GuestRate <= 0 {
		c.GuestRate = DefaultGuestRate
	}
	if c.GuestBurst <= 0 {
		c.GuestBurst = DefaultGuestBurst
	}
}

// Deps are the collaborators of the responder.
type Deps struct {
	Model     llms.Model
	Retriever Retriever
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// System generates streamed chat responses.
type System interface {
	Handler() *Handler
	// Respond streams the reply to req through onChunk. Output already passed to
	// onChunk is not retracted when a later error occurs.
	Respond(ctx context.Context, req Request, onChunk func([]byte) error) error
}

type responder struct {
	cfg       Config
	model     llms.Model
	retriever Retriever
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a chat responder.
func New(cfg Config, deps Deps) System {
	cfg.defaults()
	return &responder{
		cfg:       cfg,
		model:     deps.Model,
		retriever: deps.Retriever,
		metrics:   deps.Metrics,
		logger:    deps.Logger.With("system", "chat"),
	}
}

func (r *responder) Handler() *Handler {
	guests := newGuestLimiter(rate.Limit(r.cfg.GuestRate), r.cfg.GuestBurst, guestIdle)
	return NewHandler(r, r.retriever, guests, r.metrics, r.logger)
}

func (r *responder) Respond(ctx context.Context, req Request, onChunk func([]byte) error) error {
	maxTokens := r.cfg.GuestMaxTokens
	if req.User != nil {
		maxTokens = r.cfg.AuthMaxTokens
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, SystemPrompt(req.User, req.Context)),
	}
	for _, m := range req.Messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		content = append(content, llms.TextParts(messageType(m.Role), m.Content))
	}

	var writeErr error
	stream := func(ctx context.Context, chunk []byte) error {
		if len(chunk) == 0 {
			return nil
		}
		if err := onChunk(chunk); err != nil {
			writeErr = err
			return err
		}
		return nil
	}

	_, err := r.model.GenerateContent(
		ctx,
		content,
		llms.WithMaxTokens(maxTokens),
		llms.WithStreamingFunc(stream),
	)

	if writeErr != nil {
		return writeErr
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return faults.New(faults.ErrGeneration, msgGeneration, fmt.Errorf("generate content: %w", err))
	}
	return nil
}

func messageType(role Role) llms.ChatMessageType {
	if role == RoleAssistant {
		return llms.ChatMessageTypeAI
	}
	return llms.ChatMessageTypeHuman
}
