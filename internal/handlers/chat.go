package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ardelest/textgen-web-ui/internal/models"
	"github.com/tmaxmax/go-sse"
)

type entry struct {
	ID      string
	Role    string
	Content string

	Streaming bool
}

const resetConfirmation = "Conversation cleared. What would you like to talk about?"

// HandleSend processes a prompt submission. It expects a "prompt" form field.
//
// A submission is accepted only when the endpoint base and auth token are configured, the trimmed
// prompt is non-empty, and no generation is currently in flight; otherwise the call is a no-op and
// no request reaches the backend. An accepted submission appends the user entry and an empty
// assistant entry to the transcript, clears any prior error, and starts the generation
// asynchronously. The streamed response is delivered through Server-Sent Events; the handler itself
// responds with the rendered entry partials.
func (m *Main) HandleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	prompt := r.FormValue("prompt")

	m.mu.Lock()
	if !m.canSendLocked(prompt) {
		sending := m.sending
		configured := m.endpoint != "" && m.token != ""
		m.mu.Unlock()
		m.logger.Debug("Send refused",
			slog.Bool("sending", sending),
			slog.Bool("configured", configured))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.lastErr = ""
	m.sending = true
	m.cancel = cancel
	endpoint, token := m.endpoint, m.token
	m.mu.Unlock()

	// We create two entries: the user's prompt and an empty assistant entry that the stream
	// fills in.
	userEntry := m.transcript.Append(models.RoleUser, prompt)
	aiEntry := m.transcript.Append(models.RoleAssistant, "")

	go m.generate(ctx, endpoint, token, prompt, aiEntry.ID)

	err := m.templates.ExecuteTemplate(w, "user_message", entry{
		ID:      userEntry.ID,
		Role:    string(userEntry.Role),
		Content: userEntry.Content,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	err = m.templates.ExecuteTemplate(w, "ai_message", entry{
		ID:        aiEntry.ID,
		Role:      string(aiEntry.Role),
		Content:   aiEntry.Content,
		Streaming: true,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// generate consumes the fragment stream for a single request and folds each fragment into the last
// transcript entry, publishing the grown content over SSE as it arrives. Every exit path clears the
// sending state and the request handle, then announces the end of the stream; a cancelled stream
// ends here silently with whatever was appended so far left in place.
func (m *Main) generate(ctx context.Context, endpoint, token, prompt, entryID string) {
	defer func() {
		m.mu.Lock()
		m.sending = false
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.mu.Unlock()

		e := &sse.Message{Type: streamEndSSEType}
		e.AppendData(entryID)
		_ = m.sseSrv.Publish(e, entryTopic(entryID))
	}()

	for fragment, err := range m.generator.GenerateStream(ctx, endpoint, token, prompt) {
		if err != nil {
			m.publishError(err)
			return
		}

		en, ok := m.transcript.AppendToLast(fragment)
		if !ok {
			return
		}

		msg := &sse.Message{Type: messagesSSEType}
		msg.AppendData(en.Content)
		if err := m.sseSrv.Publish(msg, entryTopic(en.ID)); err != nil {
			m.logger.Error("Failed to publish message",
				slog.String("entryID", en.ID),
				slog.String(errLoggerKey, err.Error()))
		}
	}
}

func (m *Main) publishError(err error) {
	m.logger.Error("Error from generation backend", slog.String(errLoggerKey, err.Error()))

	m.mu.Lock()
	m.lastErr = err.Error()
	m.mu.Unlock()

	e := &sse.Message{Type: chatErrorSSEType}
	e.AppendData(err.Error())
	_ = m.sseSrv.Publish(e)
}

// HandleCancel signals cancellation of the in-flight generation request, if any. The streaming loop
// observes the signal and exits silently; the transcript keeps everything appended so far. Without
// an active request this is a no-op.
func (m *Main) HandleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// HandleReset asks the backend to clear its conversation state. On success the transcript is
// replaced wholesale with a single confirmation entry and the rendered chatbox is returned. On
// failure the transcript is left untouched and the rendered error banner is returned instead.
func (m *Main) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	endpoint, token := m.settings()

	if err := m.generator.Reset(r.Context(), endpoint, token); err != nil {
		m.logger.Error("Failed to reset chat", slog.String(errLoggerKey, err.Error()))

		m.mu.Lock()
		m.lastErr = err.Error()
		m.mu.Unlock()

		if terr := m.templates.ExecuteTemplate(w, "error_banner", err.Error()); terr != nil {
			http.Error(w, terr.Error(), http.StatusInternalServerError)
		}
		return
	}

	en := m.transcript.Replace(resetConfirmation)

	m.mu.Lock()
	m.lastErr = ""
	m.mu.Unlock()

	data := homePageData{
		Entries: []entry{{
			ID:      en.ID,
			Role:    string(en.Role),
			Content: en.Content,
		}},
	}
	if err := m.templates.ExecuteTemplate(w, "chatbox", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleSSE serves the Server-Sent Events stream carrying transcript updates.
func (m *Main) HandleSSE(w http.ResponseWriter, r *http.Request) {
	m.sseSrv.ServeHTTP(w, r)
}
