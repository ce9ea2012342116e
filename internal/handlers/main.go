package handlers

import (
	"context"
	"fmt"
	"html/template"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"time"

	textgenwebui "github.com/ardelest/textgen-web-ui"
	"github.com/ardelest/textgen-web-ui/internal/models"
	"github.com/tmaxmax/go-sse"
)

// Generator represents a client for the remote text-generation backend. GenerateStream returns an
// iterator that yields decoded text fragments and potential errors; the iterator terminates without
// an error when ctx is cancelled. Reset clears the backend's conversation state.
type Generator interface {
	GenerateStream(ctx context.Context, endpoint, token, prompt string) iter.Seq2[string, error]
	Reset(ctx context.Context, endpoint, token string) error
}

// SettingsStore defines the interface for persisting connection settings. Setting an empty value
// removes the key. Persistence is best-effort: callers of this interface swallow its errors.
type SettingsStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Clear(key string) error
}

// Persisted settings keys.
const (
	SettingEndpointBase = "endpoint_base"
	SettingAuthToken    = "auth_token"
)

const errLoggerKey = "err"

// Main handles the core functionality of the chat client, managing server-sent events, HTML
// templates, and the single in-flight generation request.
//
// At most one generation request is live at a time. Send refuses while one is in flight rather than
// cancelling the previous handle; the cancel handler is the only thing that signals cancellation.
type Main struct {
	sseSrv    *sse.Server
	templates *template.Template

	generator  Generator
	store      SettingsStore
	transcript *models.Transcript

	logger *slog.Logger

	mu       sync.Mutex
	endpoint string
	token    string
	sending  bool
	cancel   context.CancelFunc
	lastErr  string
}

// SSE event types for real-time updates.
var (
	messagesSSEType  = sse.Type("messages")
	streamEndSSEType = sse.Type("streamEnd")
	chatErrorSSEType = sse.Type("chatError")
)

// NewMain creates a new Main instance with the provided generator, settings store, and transcript.
// It initializes the SSE server and parses the HTML templates from the embedded filesystem.
//
// Connection settings are resolved at startup: a persisted value wins over the supplied default,
// which wins over the empty value. Store read failures fall back to the defaults silently.
func NewMain(generator Generator, store SettingsStore, transcript *models.Transcript,
	defaultEndpoint, defaultToken string, logger *slog.Logger,
) (*Main, error) {
	// We parse templates from three distinct directories to separate layout, pages, and partial views
	tmpl, err := template.ParseFS(
		textgenwebui.TemplateFS,
		"templates/layout/*.html",
		"templates/pages/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return nil, err
	}

	m := &Main{
		sseSrv: &sse.Server{
			OnSession: func(s *sse.Session) (sse.Subscription, bool) {
				topics := []string{sse.DefaultTopic}

				// We create a message-specific topic if the client requests updates for a particular entry
				entryID := s.Req.URL.Query().Get("message_id")
				if entryID != "" {
					topics = append(topics, entryTopic(entryID))
				}

				return sse.Subscription{
					Client:      s,
					LastEventID: s.LastEventID,
					Topics:      topics,
				}, true
			},
		},
		templates:  tmpl,
		generator:  generator,
		store:      store,
		transcript: transcript,
		logger:     logger,
		endpoint:   defaultEndpoint,
		token:      defaultToken,
	}

	if v, err := store.Get(SettingEndpointBase); err == nil && v != "" {
		m.endpoint = v
	}
	if v, err := store.Get(SettingAuthToken); err == nil && v != "" {
		m.token = v
	}

	return m, nil
}

func entryTopic(entryID string) string {
	return fmt.Sprintf("message-%s", entryID)
}

// settings returns the current connection settings.
func (m *Main) settings() (endpoint, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.endpoint, m.token
}

// CanSend reports whether a prompt could be submitted right now: the endpoint base and auth token
// are configured, the trimmed prompt is non-empty, and no generation is in flight.
func (m *Main) CanSend(prompt string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canSendLocked(prompt)
}

func (m *Main) canSendLocked(prompt string) bool {
	return m.endpoint != "" && m.token != "" && strings.TrimSpace(prompt) != "" && !m.sending
}

// Shutdown gracefully terminates the Main instance's SSE server. It broadcasts a close message to
// all connected clients and waits up to 5 seconds for connections to terminate. After the timeout,
// any remaining connections are forcefully closed.
func (m *Main) Shutdown(ctx context.Context) error {
	e := &sse.Message{Type: sse.Type("closeChat")}
	// We create a close event that complies with SSE spec requiring data
	e.AppendData("bye")

	// We ignore the error here since we're shutting down anyway
	_ = m.sseSrv.Publish(e)

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	return m.sseSrv.Shutdown(ctx)
}
