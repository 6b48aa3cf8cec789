package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/tools"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/gateway/config"
)

type HealthHandler struct{}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

type ReadyHandler struct {
	Config   config.Config
	Registry *tools.Registry
}

func (h ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type readyResp struct {
		OK        bool     `json:"ok"`
		Assistant string   `json:"assistant"`
		Tools     []string `json:"tools"`
		Issues    []string `json:"issues,omitempty"`
	}

	issues := make([]string, 0, 4)

	switch h.Config.Assistant {
	case config.AssistantBarista, config.AssistantGrocery, config.AssistantFraud,
		config.AssistantSDR, config.AssistantWellness, config.AssistantTutor:
	default:
		issues = append(issues, "invalid assistant")
	}
	if h.Config.DataDir == "" {
		issues = append(issues, "data dir must not be empty")
	}
	if h.Config.LiveMaxJSONMessageBytes <= 0 {
		issues = append(issues, "live max json message bytes must be > 0")
	}
	if h.Config.LiveHandshakeTimeout <= 0 || h.Config.LiveWSWriteTimeout <= 0 || h.Config.LiveWSPingInterval <= 0 {
		issues = append(issues, "live timeouts must be > 0")
	}
	if h.Config.ReadHeaderTimeout <= 0 || h.Config.ReadTimeout <= 0 {
		issues = append(issues, "timeouts must be > 0")
	}

	var names []string
	if h.Registry == nil {
		issues = append(issues, "no tool registry configured")
	} else {
		names = h.Registry.Names()
		if len(names) == 0 {
			issues = append(issues, "tool registry is empty")
		}
	}

	ok := len(issues) == 0
	status := http.StatusOK
	if !ok {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(readyResp{
		OK:        ok,
		Assistant: string(h.Config.Assistant),
		Tools:     names,
		Issues:    issues,
	})
}
