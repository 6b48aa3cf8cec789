package wellness

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/ledger"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core"
)

func newTestAssistant(t *testing.T) (*Assistant, string) {
	t.Helper()
	dir := t.TempDir()
	return New(dir, slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

func TestSaveCheckin_MoodIsRequired(t *testing.T) {
	a, dir := newTestAssistant(t)

	_, err := a.Registry().Invoke(context.Background(), "room-a", ToolSaveCheckin, map[string]any{
		"energy": "high",
	})
	if err == nil {
		t.Fatalf("save_checkin without mood succeeded")
	}
	if err.Type != core.ErrIncompleteRecord {
		t.Fatalf("error type = %q, want %q", err.Type, core.ErrIncompleteRecord)
	}
	if len(err.Missing) != 1 || err.Missing[0] != "mood" {
		t.Fatalf("Missing = %v, want [mood]", err.Missing)
	}
	if _, statErr := os.Stat(filepath.Join(dir, HistoryFile)); !os.IsNotExist(statErr) {
		t.Fatalf("log written for refused check-in")
	}
}

func TestSaveCheckin_AutoNoteFromMoodAndGoal(t *testing.T) {
	a, dir := newTestAssistant(t)

	_, err := a.Registry().Invoke(context.Background(), "room-a", ToolSaveCheckin, map[string]any{
		"mood":       "good",
		"objectives": []any{"finish the report", "go for a run"},
	})
	if err != nil {
		t.Fatalf("save_checkin error = %v", err)
	}

	data, readErr := os.ReadFile(filepath.Join(dir, HistoryFile))
	if readErr != nil {
		t.Fatalf("read log: %v", readErr)
	}
	var history []map[string]any
	if err := json.Unmarshal(data, &history); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("log entries = %d, want 1", len(history))
	}
	if history[0]["note"] != "Mood: good. Top goal: finish the report." {
		t.Fatalf("note = %v", history[0]["note"])
	}
	if history[0][ledger.TagRoom] != "room-a" {
		t.Fatalf("room = %v", history[0][ledger.TagRoom])
	}
}

func TestSaveCheckin_ExplicitNoteWins(t *testing.T) {
	a, dir := newTestAssistant(t)

	_, err := a.Registry().Invoke(context.Background(), "room-a", ToolSaveCheckin, map[string]any{
		"mood": "tired",
		"note": "rough night, taking it slow",
	})
	if err != nil {
		t.Fatalf("save_checkin error = %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, HistoryFile))
	var history []map[string]any
	if err := json.Unmarshal(data, &history); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	if history[0]["note"] != "rough night, taking it slow" {
		t.Fatalf("note = %v", history[0]["note"])
	}
}

func TestAutoNote_NoFieldsFallsBack(t *testing.T) {
	c := &CheckIn{}
	if got := c.AutoNote(); got != "Quick check-in (no summary)." {
		t.Fatalf("AutoNote() = %q", got)
	}
}

func TestSaveCheckin_DraftResetsAfterSave(t *testing.T) {
	a, _ := newTestAssistant(t)
	reg := a.Registry()
	ctx := context.Background()

	if _, err := reg.Invoke(ctx, "room-a", ToolSaveCheckin, map[string]any{"mood": "good"}); err != nil {
		t.Fatalf("save_checkin error = %v", err)
	}
	// A second save with only energy has no mood left over from the first.
	_, err := reg.Invoke(ctx, "room-a", ToolSaveCheckin, map[string]any{"energy": "low"})
	if err == nil || err.Type != core.ErrIncompleteRecord {
		t.Fatalf("draft survived the save: err = %v", err)
	}
}

func TestReadSummary_ReturnsRecentEntries(t *testing.T) {
	a, _ := newTestAssistant(t)
	reg := a.Registry()
	ctx := context.Background()

	for _, mood := range []string{"ok", "good", "great", "tired"} {
		if _, err := reg.Invoke(ctx, "room-a", ToolSaveCheckin, map[string]any{"mood": mood}); err != nil {
			t.Fatalf("save_checkin(%s) error = %v", mood, err)
		}
	}

	result, err := reg.Invoke(ctx, "room-a", ToolReadSummary, nil)
	if err != nil {
		t.Fatalf("read_summary error = %v", err)
	}
	lines := strings.Split(result, "\n")
	if len(lines) != 3 {
		t.Fatalf("summary lines = %d, want default 3", len(lines))
	}
	if !strings.Contains(lines[2], `mood="tired"`) {
		t.Fatalf("last line = %q, want the newest check-in", lines[2])
	}

	result, err = reg.Invoke(ctx, "room-a", ToolReadSummary, map[string]any{"n": float64(1)})
	if err != nil {
		t.Fatalf("read_summary error = %v", err)
	}
	if strings.Count(result, "\n") != 0 {
		t.Fatalf("read_summary(n=1) = %q, want one line", result)
	}
}

func TestReadSummary_EmptyLog(t *testing.T) {
	a, _ := newTestAssistant(t)

	result, err := a.Registry().Invoke(context.Background(), "room-a", ToolReadSummary, nil)
	if err != nil {
		t.Fatalf("read_summary error = %v", err)
	}
	if result != "No previous check-ins found." {
		t.Fatalf("result = %q", result)
	}
}
