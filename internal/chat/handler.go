package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/JaimeStill/studybuddy/internal/auth"
	"github.com/JaimeStill/studybuddy/internal/faults"
	"github.com/JaimeStill/studybuddy/internal/metrics"
	"github.com/JaimeStill/studybuddy/pkg/handlers"
	"github.com/JaimeStill/studybuddy/pkg/routes"
)

// MaxRequestBody caps the size of a chat request body, history included.
const MaxRequestBody = 256 << 10

const (
	audienceGuest  = "guest"
	audienceMember = "member"

	msgBadRequest  = "Your message could not be read. Please refresh the page and try again."
	msgNoMessages  = "Send at least one message to start a conversation."
	msgRateLimited = "You're sending messages too quickly. Please wait a moment, or sign in for a higher limit."
	msgTooLong     = "This conversation is too long to send. Please start a new chat and try again."
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Messages []Message `json:"messages"`
}

// Event is a server-sent event payload.
type Event struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// Limiter admits or rejects a request from the client identified by key.
type Limiter interface {
	Allow(key string) bool
}

// Handler serves the streaming chat endpoint.
type Handler struct {
	sys       System
	retriever Retriever
	guests    Limiter
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewHandler creates a chat handler.
func NewHandler(sys System, retriever Retriever, guests Limiter, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		sys:       sys,
		retriever: retriever,
		guests:    guests,
		metrics:   m,
		logger:    logger.With("handler", "chat"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/chat",
		Tags:        []string{"Chat"},
		Description: "Streaming tutor chat",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Chat, OpenAPI: Spec.Chat},
		},
	}
}

// Chat handles POST /api/chat. Authentication is optional.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	audience := audienceMember
	if user == nil {
		audience = audienceGuest
		if !h.guests.Allow(clientIP(r)) {
			h.metrics.ChatRequests.WithLabelValues(audience, "rate_limited").Inc()
			handlers.RespondMessage(w, h.logger, http.StatusTooManyRequests, errors.New("guest rate limit exceeded"), msgRateLimited)
			return
		}
	}

	if r.ContentLength > MaxRequestBody {
		err := fmt.Errorf("content length %d exceeds %d", r.ContentLength, MaxRequestBody)
		handlers.RespondMessage(w, h.logger, http.StatusRequestEntityTooLarge, err, msgTooLong)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBody)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondMessage(w, h.logger, http.StatusRequestEntityTooLarge, err, msgTooLong)
			return
		}
		handlers.RespondMessage(w, h.logger, http.StatusBadRequest, err, msgBadRequest)
		return
	}
	if len(req.Messages) == 0 {
		handlers.RespondMessage(w, h.logger, http.StatusBadRequest, errors.New("empty conversation"), msgNoMessages)
		return
	}

	turn := Request{Messages: req.Messages, User: user}
	if user != nil {
		turn.Context = h.retriever.ContextFor(r.Context(), user.UserID, LastUserMessage(req.Messages))
	}

	s := &stream{w: w}
	err := h.sys.Respond(r.Context(), turn, func(chunk []byte) error {
		return s.send(Event{Type: "text", Text: string(chunk)})
	})
	h.metrics.ChatRequests.WithLabelValues(audience, metrics.Outcome(err)).Inc()

	if err != nil {
		if r.Context().Err() != nil {
			h.logger.Info("client disconnected", "error", err)
			return
		}
		if !s.started {
			if faults.Retryable(err) {
				w.Header().Set("Retry-After", "5")
			}
			handlers.RespondMessage(w, h.logger, faults.MapHTTPStatus(err), err, faults.Message(err))
			return
		}
		h.logger.Error("chat stream failed", "error", err)
		s.send(Event{Type: "error", Error: faults.Message(err)})
		return
	}

	s.done()
}

// stream writes SSE frames, sending headers with the first frame so errors
// raised before any output can still be returned as plain JSON.
type stream struct {
	w       http.ResponseWriter
	started bool
}

func (s *stream) start() {
	if s.started {
		return
	}
	s.started = true
	s.w.Header().Set("Content-Type", "text/event-stream")
	s.w.Header().Set("Cache-Control", "no-cache")
	s.w.Header().Set("Connection", "keep-alive")
	s.w.WriteHeader(http.StatusOK)
}

func (s *stream) send(e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.write(fmt.Sprintf("data: %s\n\n", data))
}

func (s *stream) done() {
	s.write("data: [DONE]\n\n")
}

func (s *stream) write(frame string) error {
	s.start()
	if _, err := fmt.Fprint(s.w, frame); err != nil {
		return err
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
