package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/identity"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/tools"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core/types"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/gateway/config"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/gateway/protocol"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/gateway/sessions"
)

func testConfig() config.Config {
	return config.Config{
		Assistant:               config.AssistantBarista,
		DataDir:                 "data",
		LiveMaxJSONMessageBytes: 64 * 1024,
		LiveWSPingInterval:      20 * time.Second,
		LiveWSWriteTimeout:      5 * time.Second,
		LiveHandshakeTimeout:    time.Second,
		LiveToolTimeout:         time.Second,
		ReadHeaderTimeout:       time.Second,
		ReadTimeout:             time.Second,
	}
}

func testRegistry() *tools.Registry {
	return tools.NewRegistry(tools.Func{
		Tool: types.NewFunctionTool("echo_room", "echoes the room back", types.ObjectSchema(nil)),
		Run: func(_ context.Context, id identity.Identity, _ map[string]any) (string, *core.Error) {
			return "room is " + id.String(), nil
		},
	})
}

func dialLive(t *testing.T) (*websocket.Conn, *sessions.Tracker, func()) {
	t.Helper()
	tracker := sessions.NewTracker()
	h := LiveHandler{
		Config:       testConfig(),
		Registry:     testRegistry(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		LiveSessions: tracker,
	}
	srv := httptest.NewServer(h)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, tracker, func() {
		conn.Close()
		srv.Close()
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var frame map[string]any
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return frame
}

func TestLive_HelloThenToolCall(t *testing.T) {
	conn, _, done := dialLive(t)
	defer done()

	hello := fmt.Sprintf(`{"type":"hello","protocol_version":"%s","room":"room-7"}`, protocol.ProtocolVersion1)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(hello)); err != nil {
		t.Fatalf("write hello: %v", err)
	}

	ready := readFrame(t, conn)
	if ready["type"] != "ready" {
		t.Fatalf("first frame = %v, want ready", ready)
	}
	if ready["room"] != "room-7" || ready["assistant"] != "barista" {
		t.Fatalf("ready = %v", ready)
	}
	toolDefs, ok := ready["tools"].([]any)
	if !ok || len(toolDefs) != 1 {
		t.Fatalf("ready tools = %v", ready["tools"])
	}

	call := `{"type":"tool_call","id":"c1","name":"echo_room","input":{}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(call)); err != nil {
		t.Fatalf("write tool_call: %v", err)
	}

	result := readFrame(t, conn)
	if result["type"] != "tool_result" || result["id"] != "c1" {
		t.Fatalf("frame = %v", result)
	}
	if result["result"] != "room is room-7" {
		t.Fatalf("result = %v", result["result"])
	}
}

func TestLive_EmptyRoomFallsBackToDefault(t *testing.T) {
	conn, _, done := dialLive(t)
	defer done()

	hello := fmt.Sprintf(`{"type":"hello","protocol_version":"%s"}`, protocol.ProtocolVersion1)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(hello)); err != nil {
		t.Fatalf("write hello: %v", err)
	}
	ready := readFrame(t, conn)
	if ready["room"] != identity.Default.String() {
		t.Fatalf("ready room = %v, want %q", ready["room"], identity.Default)
	}
}

func TestLive_UnknownToolReturnsErrorFrame(t *testing.T) {
	conn, _, done := dialLive(t)
	defer done()

	hello := fmt.Sprintf(`{"type":"hello","protocol_version":"%s","room":"r"}`, protocol.ProtocolVersion1)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(hello)); err != nil {
		t.Fatalf("write hello: %v", err)
	}
	_ = readFrame(t, conn) // ready

	call := `{"type":"tool_call","id":"c9","name":"no_such_tool"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(call)); err != nil {
		t.Fatalf("write tool_call: %v", err)
	}

	frame := readFrame(t, conn)
	if frame["type"] != "error" || frame["id"] != "c9" {
		t.Fatalf("frame = %v", frame)
	}
	errObj, ok := frame["error"].(map[string]any)
	if !ok || errObj["type"] != string(core.ErrNotFound) {
		t.Fatalf("error = %v", frame["error"])
	}
	if frame["close"] == true {
		t.Fatalf("unknown tool must not close the session")
	}

	// The connection is still usable.
	good := `{"type":"tool_call","id":"c10","name":"echo_room"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(good)); err != nil {
		t.Fatalf("write tool_call: %v", err)
	}
	result := readFrame(t, conn)
	if result["type"] != "tool_result" {
		t.Fatalf("frame after error = %v", result)
	}
}

func TestLive_MalformedFrameKeepsSessionOpen(t *testing.T) {
	conn, _, done := dialLive(t)
	defer done()

	hello := fmt.Sprintf(`{"type":"hello","protocol_version":"%s","room":"r"}`, protocol.ProtocolVersion1)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(hello)); err != nil {
		t.Fatalf("write hello: %v", err)
	}
	_ = readFrame(t, conn) // ready

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{{{{")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	frame := readFrame(t, conn)
	if frame["type"] != "error" {
		t.Fatalf("frame = %v", frame)
	}
}

func TestLive_FirstFrameMustBeHello(t *testing.T) {
	conn, _, done := dialLive(t)
	defer done()

	call := `{"type":"tool_call","id":"c1","name":"echo_room"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(call)); err != nil {
		t.Fatalf("write tool_call: %v", err)
	}
	frame := readFrame(t, conn)
	if frame["type"] != "error" || frame["close"] != true {
		t.Fatalf("frame = %v, want closing error", frame)
	}
}

func TestLive_CancelAllUnblocksIdleSession(t *testing.T) {
	conn, tracker, done := dialLive(t)
	defer done()

	hello := fmt.Sprintf(`{"type":"hello","protocol_version":"%s","room":"r"}`, protocol.ProtocolVersion1)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(hello)); err != nil {
		t.Fatalf("write hello: %v", err)
	}
	_ = readFrame(t, conn) // ready

	// The client sends nothing else; cancellation alone must end the session.
	if got := tracker.CancelAll(); got != 1 {
		t.Fatalf("CancelAll() = %d, want 1", got)
	}

	frame := readFrame(t, conn)
	if frame["type"] != "error" || frame["close"] != true {
		t.Fatalf("frame = %v, want closing error", frame)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !tracker.Wait(ctx) {
		t.Fatalf("Wait() = false, session never unregistered after cancel")
	}
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler{}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "ok\n" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestReadyHandler_ReportsIssues(t *testing.T) {
	rec := httptest.NewRecorder()
	ReadyHandler{Config: testConfig(), Registry: testRegistry()}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	ReadyHandler{Config: config.Config{}}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 for empty config", rec.Code)
	}
	var resp struct {
		OK     bool     `json:"ok"`
		Issues []string `json:"issues"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.OK || len(resp.Issues) == 0 {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestLive_RejectsNonGET(t *testing.T) {
	h := LiveHandler{Config: testConfig(), Registry: testRegistry(), LiveSessions: sessions.NewTracker()}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/live", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}
