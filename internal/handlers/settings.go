package handlers

import (
	"log/slog"
	"net/http"
	"strings"
)

// HandleSettings updates the connection settings. It expects "endpoint" and "token" form fields, or
// an "action" field set to "clear" to blank both settings and remove their persisted values.
//
// Every change is written through to the settings store immediately; an empty value removes the
// persisted key. Persistence is best-effort: store failures are logged at debug level and never
// surfaced to the user.
func (m *Main) HandleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.FormValue("action") == "clear" {
		m.mu.Lock()
		m.endpoint = ""
		m.token = ""
		m.mu.Unlock()

		m.clearSetting(SettingEndpointBase)
		m.clearSetting(SettingAuthToken)

		w.WriteHeader(http.StatusNoContent)
		return
	}

	endpoint := strings.TrimSpace(r.FormValue("endpoint"))
	token := strings.TrimSpace(r.FormValue("token"))

	m.mu.Lock()
	m.endpoint = endpoint
	m.token = token
	m.mu.Unlock()

	m.putSetting(SettingEndpointBase, endpoint)
	m.putSetting(SettingAuthToken, token)

	w.WriteHeader(http.StatusNoContent)
}

func (m *Main) putSetting(key, value string) {
	if err := m.store.Set(key, value); err != nil {
		m.logger.Debug("Failed to persist setting",
			slog.String("key", key),
			slog.String(errLoggerKey, err.Error()))
	}
}

func (m *Main) clearSetting(key string) {
	if err := m.store.Clear(key); err != nil {
		m.logger.Debug("Failed to clear setting",
			slog.String("key", key),
			slog.String(errLoggerKey, err.Error()))
	}
}
