package tutor

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core"
)

func testContent(t *testing.T) *Content {
	t.Helper()
	c, err := ParseContent([]byte(`[
		{"id": "variables", "title": "Variables", "summary": "A variable is a named box.", "sample_question": "What does x hold?"},
		{"id": "loops", "title": "Loops", "summary": "A loop repeats code.", "sample_question": "for vs while?"}
	]`))
	if err != nil {
		t.Fatalf("ParseContent() error = %v", err)
	}
	return c
}

func newTestAssistant(t *testing.T) *Assistant {
	t.Helper()
	return New(testContent(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSetMode_AcceptsKnownModes(t *testing.T) {
	a := newTestAssistant(t)
	reg := a.Registry()
	ctx := context.Background()

	for _, mode := range []string{ModeLearn, ModeQuiz, ModeTeachBack} {
		result, err := reg.Invoke(ctx, "room-a", ToolSetMode, map[string]any{"mode": mode})
		if err != nil {
			t.Fatalf("set_mode(%s) error = %v", mode, err)
		}
		if result != "Mode set to "+mode {
			t.Fatalf("result = %q", result)
		}
	}
}

func TestSetMode_UnknownModeIsInvalidRequest(t *testing.T) {
	a := newTestAssistant(t)

	_, err := a.Registry().Invoke(context.Background(), "room-a", ToolSetMode, map[string]any{"mode": "cram"})
	if err == nil {
		t.Fatalf("set_mode accepted unknown mode")
	}
	if err.Type != core.ErrInvalidRequest || err.Param != "mode" {
		t.Fatalf("error = %+v", err)
	}
}

func TestSetConcept_UnknownConceptIsSoftMiss(t *testing.T) {
	a := newTestAssistant(t)

	result, err := a.Registry().Invoke(context.Background(), "room-a", ToolSetConcept, map[string]any{
		"concept_id": "recursion",
	})
	if err != nil {
		t.Fatalf("set_concept error = %v, soft misses must not be errors", err)
	}
	if result != "Concept 'recursion' not found." {
		t.Fatalf("result = %q", result)
	}
}

func TestGetConcept_ReturnsCurrentConceptJSON(t *testing.T) {
	a := newTestAssistant(t)
	reg := a.Registry()
	ctx := context.Background()

	if _, err := reg.Invoke(ctx, "room-a", ToolSetConcept, map[string]any{"concept_id": "loops"}); err != nil {
		t.Fatalf("set_concept error = %v", err)
	}
	result, err := reg.Invoke(ctx, "room-a", ToolGetConcept, nil)
	if err != nil {
		t.Fatalf("get_concept error = %v", err)
	}

	var concept Concept
	if err := json.Unmarshal([]byte(result), &concept); err != nil {
		t.Fatalf("decode concept: %v", err)
	}
	if concept.ID != "loops" || concept.SampleQuestion != "for vs while?" {
		t.Fatalf("concept = %+v", concept)
	}
}

func TestGetConcept_NoneSelectedListsKnownIDs(t *testing.T) {
	a := newTestAssistant(t)

	result, err := a.Registry().Invoke(context.Background(), "room-a", ToolGetConcept, nil)
	if err != nil {
		t.Fatalf("get_concept error = %v", err)
	}
	if !strings.Contains(result, "loops, variables") {
		t.Fatalf("result = %q, want sorted concept ids", result)
	}
}

func TestSessions_ModeAndConceptArePerRoom(t *testing.T) {
	a := newTestAssistant(t)
	reg := a.Registry()
	ctx := context.Background()

	if _, err := reg.Invoke(ctx, "room-1", ToolSetConcept, map[string]any{"concept_id": "variables"}); err != nil {
		t.Fatalf("set_concept error = %v", err)
	}

	result, err := reg.Invoke(ctx, "room-2", ToolGetConcept, nil)
	if err != nil {
		t.Fatalf("get_concept error = %v", err)
	}
	if !strings.HasPrefix(result, "No concept selected yet.") {
		t.Fatalf("room-2 saw room-1's concept: %q", result)
	}
}

func TestParseContent_RejectsMissingID(t *testing.T) {
	if _, err := ParseContent([]byte(`[{"title": "No ID"}]`)); err == nil {
		t.Fatalf("ParseContent() accepted concept without id")
	}
	if _, err := ParseContent([]byte(`[]`)); err == nil {
		t.Fatalf("ParseContent() accepted empty content")
	}
}
