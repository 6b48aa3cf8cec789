// Package protocol defines the JSON frames exchanged on /v1/live: a client
// hello naming the room, tool_call frames, and the server's tool_result and
// error frames.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core/types"
)

const ProtocolVersion1 = "1"

type DecodeError struct {
	Code    string
	Message string
	Param   string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Param) == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Param)
}

func badRequest(message, param string) *DecodeError {
	return &DecodeError{Code: "bad_request", Message: message, Param: param}
}

type HelloClient struct {
	Name     string `json:"name,omitempty"`
	Version  string `json:"version,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// ClientHello is the first frame on every connection. Room binds the session
// to a conversation key; an empty room falls back to the default identity.
type ClientHello struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Room            string      `json:"room,omitempty"`
	Client          HelloClient `json:"client,omitempty"`
}

// ClientToolCall asks the gateway to run one tool against the session's room.
type ClientToolCall struct {
	Type  string         `json:"type"`
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input,omitempty"`
}

// DecodeClientMessage parses one inbound text frame.
func DecodeClientMessage(data []byte) (any, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, badRequest("invalid json frame", "")
	}
	typ := strings.TrimSpace(envelope.Type)
	if typ == "" {
		return nil, badRequest("missing type", "type")
	}

	switch typ {
	case "hello":
		var msg ClientHello
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badRequest("invalid hello frame", "")
		}
		if strings.TrimSpace(msg.ProtocolVersion) == "" {
			return nil, badRequest("hello.protocol_version is required", "protocol_version")
		}
		return msg, nil
	case "tool_call":
		var msg ClientToolCall
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badRequest("invalid tool_call frame", "")
		}
		if strings.TrimSpace(msg.ID) == "" {
			return nil, badRequest("tool_call.id is required", "id")
		}
		if strings.TrimSpace(msg.Name) == "" {
			return nil, badRequest("tool_call.name is required", "name")
		}
		return msg, nil
	default:
		return nil, badRequest("unsupported message type", "type")
	}
}

// ServerReady acknowledges the hello and advertises the available tools.
type ServerReady struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	SessionID       string       `json:"session_id"`
	Room            string       `json:"room"`
	Assistant       string       `json:"assistant"`
	Tools           []types.Tool `json:"tools"`
}

// ServerToolResult carries one tool outcome, correlated by the call id.
type ServerToolResult struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Result string `json:"result"`
}

// ServerError reports a failed frame or tool call. Close tells the client the
// gateway will drop the connection.
type ServerError struct {
	Type  string      `json:"type"`
	ID    string      `json:"id,omitempty"`
	Error *core.Error `json:"error"`
	Close bool        `json:"close,omitempty"`
}
