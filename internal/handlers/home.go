package handlers

import (
	"net/http"
)

type homePageData struct {
	Entries  []entry
	Endpoint string
	Token    string
	Sending  bool
	Error    string
}

// HandleHome renders the chat page with the current transcript, connection settings, sending state,
// and any pending error banner.
func (m *Main) HandleHome(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	endpoint, token := m.endpoint, m.token
	sending, lastErr := m.sending, m.lastErr
	m.mu.Unlock()

	entries := m.transcript.Entries()
	views := make([]entry, len(entries))
	for i, en := range entries {
		views[i] = entry{
			ID:      en.ID,
			Role:    string(en.Role),
			Content: en.Content,
		}
	}
	// The last entry is the stream target while a request is in flight
	if sending && len(views) > 0 {
		views[len(views)-1].Streaming = true
	}

	data := homePageData{
		Entries:  views,
		Endpoint: endpoint,
		Token:    token,
		Sending:  sending,
		Error:    lastErr,
	}
	if err := m.templates.ExecuteTemplate(w, "home.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
