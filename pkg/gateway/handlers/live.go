package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/identity"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/tools"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/gateway/config"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/gateway/mw"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/gateway/protocol"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/gateway/sessions"
)

// LiveHandler handles /v1/live websocket sessions: one hello binding the
// session to a room, then tool_call frames answered in order.
type LiveHandler struct {
	Config       config.Config
	Registry     *tools.Registry
	Logger       *slog.Logger
	LiveSessions *sessions.Tracker
}

func (h LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		reqID, _ := mw.RequestIDFrom(r.Context())
		writeCoreErrorJSON(w, &core.Error{
			Type: core.ErrInvalidRequest, Message: "method not allowed",
			Code: "method_not_allowed", RequestID: reqID,
		}, http.StatusMethodNotAllowed)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if h.Config.LiveMaxJSONMessageBytes > 0 {
		conn.SetReadLimit(h.Config.LiveMaxJSONMessageBytes)
	}

	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handshakeTimeout := h.Config.LiveHandshakeTimeout
	if handshakeTimeout <= 0 {
		handshakeTimeout = 5 * time.Second
	}
	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	messageType, firstFrame, err := conn.ReadMessage()
	if err != nil {
		return
	}

	writer := &wsWriter{conn: conn, timeout: h.Config.LiveWSWriteTimeout}

	if messageType != websocket.TextMessage {
		writer.writeError("", core.NewInvalidRequestError("first frame must be hello"), true)
		return
	}
	decoded, dErr := protocol.DecodeClientMessage(firstFrame)
	if dErr != nil {
		writer.writeError("", core.NewInvalidRequestError(dErr.Error()), true)
		return
	}
	hello, ok := decoded.(protocol.ClientHello)
	if !ok {
		writer.writeError("", core.NewInvalidRequestError("first frame must be hello"), true)
		return
	}
	if strings.TrimSpace(hello.ProtocolVersion) != protocol.ProtocolVersion1 {
		writer.writeError("", core.NewInvalidRequestErrorWithParam("unsupported protocol_version", "protocol_version"), true)
		return
	}

	room := identity.FromRoom(hello.Room)
	sessionID := "sess_" + randHexID(10)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	unregister := h.LiveSessions.Register(sessionID, sessions.Handle{
		Room:   room.String(),
		Cancel: cancel,
	})
	defer unregister()

	logger.Info("live session started", "session_id", sessionID, "room", room.String(), "client", hello.Client.Name)

	if err := writer.writeJSON(protocol.ServerReady{
		Type:            "ready",
		ProtocolVersion: protocol.ProtocolVersion1,
		SessionID:       sessionID,
		Room:            room.String(),
		Assistant:       string(h.Config.Assistant),
		Tools:           h.Registry.Definitions(),
	}); err != nil {
		return
	}

	// Hello is done; the rest of the session has no read deadline, liveness
	// comes from the ping loop.
	_ = conn.SetReadDeadline(time.Time{})
	conn.SetPongHandler(func(string) error { return nil })

	pingDone := make(chan struct{})
	defer close(pingDone)
	go h.pingLoop(writer, pingDone)

	// Shutdown must unblock the read loop even when the client is quiet, so a
	// watcher closes the connection when the session context is canceled.
	go func() {
		select {
		case <-ctx.Done():
			writer.writeError("", core.NewAPIError("gateway is shutting down"), true)
			conn.Close()
		case <-pingDone:
		}
	}()

	for {
		messageType, frame, err := conn.ReadMessage()
		if err != nil {
			logger.Info("live session closed", "session_id", sessionID, "room", room.String())
			return
		}
		if messageType != websocket.TextMessage {
			writer.writeError("", core.NewInvalidRequestError("frames must be text"), false)
			continue
		}

		decoded, dErr := protocol.DecodeClientMessage(frame)
		if dErr != nil {
			writer.writeError("", core.NewInvalidRequestError(dErr.Error()), false)
			continue
		}

		switch msg := decoded.(type) {
		case protocol.ClientToolCall:
			h.handleToolCall(ctx, writer, room, msg, logger)
		case protocol.ClientHello:
			writer.writeError("", core.NewInvalidRequestError("hello may only be sent once"), false)
		default:
			writer.writeError("", core.NewInvalidRequestError("unsupported message type"), false)
		}
	}
}

func (h LiveHandler) handleToolCall(ctx context.Context, writer *wsWriter, room identity.Identity, call protocol.ClientToolCall, logger *slog.Logger) {
	toolCtx := ctx
	if h.Config.LiveToolTimeout > 0 {
		var cancel context.CancelFunc
		toolCtx, cancel = context.WithTimeout(ctx, h.Config.LiveToolTimeout)
		defer cancel()
	}

	result, toolErr := h.Registry.Invoke(toolCtx, room, call.Name, call.Input)
	if toolErr != nil {
		logger.Info("tool call failed", "room", room.String(), "tool", call.Name, "error_type", string(toolErr.Type))
		writer.writeError(call.ID, toolErr, false)
		return
	}
	_ = writer.writeJSON(protocol.ServerToolResult{
		Type:   "tool_result",
		ID:     call.ID,
		Result: result,
	})
}

func (h LiveHandler) pingLoop(writer *wsWriter, done <-chan struct{}) {
	interval := h.Config.LiveWSPingInterval
	if interval <= 0 {
		interval = 20 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := writer.writePing(); err != nil {
				return
			}
		}
	}
}

// wsWriter serializes writes to the connection; the tool loop and the ping
// loop both write.
type wsWriter struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	timeout time.Duration
}

func (w *wsWriter) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timeout > 0 {
		_ = w.conn.SetWriteDeadline(time.Now().Add(w.timeout))
	}
	return w.conn.WriteJSON(v)
}

func (w *wsWriter) writePing() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	deadline := time.Now().Add(5 * time.Second)
	if w.timeout > 0 {
		deadline = time.Now().Add(w.timeout)
	}
	return w.conn.WriteControl(websocket.PingMessage, nil, deadline)
}

func (w *wsWriter) writeError(id string, err *core.Error, close bool) {
	_ = w.writeJSON(protocol.ServerError{
		Type:  "error",
		ID:    id,
		Error: err,
		Close: close,
	})
}

type errorEnvelope struct {
	Error *core.Error `json:"error"`
}

func writeCoreErrorJSON(w http.ResponseWriter, err *core.Error, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: err})
}

func randHexID(nbytes int) string {
	b := make([]byte, nbytes)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(time.Now().Format("20060102150405.000000000")))
	}
	return hex.EncodeToString(b)
}
