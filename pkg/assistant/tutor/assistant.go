package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/identity"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/state"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/tools"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core/types"
)

// Tool names exposed to the controller.
const (
	ToolSetMode    = "set_mode"
	ToolSetConcept = "set_concept"
	ToolGetConcept = "get_concept"
)

// Coaching modes the session can be in.
const (
	ModeLearn     = "learn"
	ModeQuiz      = "quiz"
	ModeTeachBack = "teach_back"
)

// Session is the per-room record: active mode and concept.
type Session struct {
	Mode           string `json:"mode"`
	CurrentConcept string `json:"current_concept"`
	CreatedAt      string `json:"created_at"`
}

// NewSession returns an empty session stamped with the current UTC time.
func NewSession() *Session {
	return &Session{CreatedAt: time.Now().UTC().Format(time.RFC3339)}
}

// Assistant wires the concept library and per-room sessions behind the tutor
// tool set.
type Assistant struct {
	content *Content
	store   *state.Store[*Session]
	logger  *slog.Logger
}

// New creates the tutor assistant over an already-loaded concept library.
func New(content *Content, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		content: content,
		store:   state.NewStore(NewSession),
		logger:  logger,
	}
}

// Registry returns the tool registry for this assistant.
func (a *Assistant) Registry() *tools.Registry {
	return tools.NewRegistry(
		tools.Func{Tool: setModeTool, Run: a.setMode},
		tools.Func{Tool: setConceptTool, Run: a.setConcept},
		tools.Func{Tool: getConceptTool, Run: a.getConcept},
	)
}

var setModeTool = types.NewFunctionTool(
	ToolSetMode,
	"Switch the coaching mode: learn, quiz, or teach_back.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"mode": {Type: "string", Description: "Coaching mode", Enum: []string{ModeLearn, ModeQuiz, ModeTeachBack}},
	}, "mode"),
)

var setConceptTool = types.NewFunctionTool(
	ToolSetConcept,
	"Set the concept being studied, by id.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"concept_id": types.StringSchema("The concept id, e.g. variables or loops"),
	}, "concept_id"),
)

var getConceptTool = types.NewFunctionTool(
	ToolGetConcept,
	"Return the current concept's summary and sample question as JSON.",
	types.ObjectSchema(nil),
)

func (a *Assistant) setMode(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	mode := strings.ToLower(tools.StringArg(input, "mode"))
	switch mode {
	case ModeLearn, ModeQuiz, ModeTeachBack:
	default:
		return "", core.NewInvalidRequestErrorWithParam(fmt.Sprintf("unknown mode %q", mode), "mode")
	}

	a.store.Update(id, func(s *Session) { s.Mode = mode })
	a.logger.Info("mode set", "room", id.String(), "mode", mode)
	return fmt.Sprintf("Mode set to %s", mode), nil
}

func (a *Assistant) setConcept(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	conceptID := tools.StringArg(input, "concept_id")
	if _, ok := a.content.Concept(conceptID); !ok {
		a.logger.Info("unknown concept requested", "room", id.String(), "concept", conceptID)
		return fmt.Sprintf("Concept '%s' not found.", conceptID), nil
	}

	a.store.Update(id, func(s *Session) { s.CurrentConcept = conceptID })
	a.logger.Info("concept set", "room", id.String(), "concept", conceptID)
	return fmt.Sprintf("Concept set to %s", conceptID), nil
}

func (a *Assistant) getConcept(_ context.Context, id identity.Identity, _ map[string]any) (string, *core.Error) {
	var conceptID string
	a.store.View(id, func(s *Session) { conceptID = s.CurrentConcept })
	if conceptID == "" {
		return fmt.Sprintf("No concept selected yet. Known concepts: %s.", strings.Join(a.content.IDs(), ", ")), nil
	}

	concept, ok := a.content.Concept(conceptID)
	if !ok {
		// Content is immutable after load, so a stale id should not happen.
		return "", core.NewNotFoundError(fmt.Sprintf("concept %q no longer in content", conceptID))
	}
	data, err := json.MarshalIndent(concept, "", "  ")
	if err != nil {
		return "", core.NewAPIError(fmt.Sprintf("encode concept: %v", err))
	}
	return string(data), nil
}
