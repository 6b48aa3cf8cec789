// Package wellness implements the daily check-in assistant: a short mood and
// objectives record per room, appended to a shared check-in log.
package wellness

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/identity"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/ledger"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/state"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/tools"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core/types"
)

// Tool names exposed to the controller.
const (
	ToolSaveCheckin = "save_checkin"
	ToolReadSummary = "read_summary"
)

// HistoryFile is the append-only check-in log inside the data directory.
const HistoryFile = "wellness_log.json"

// defaultSummaryCount is how many recent check-ins read_summary returns when
// the controller does not say.
const defaultSummaryCount = 3

// CheckIn is the per-room record built during the conversation.
type CheckIn struct {
	Mood       string   `json:"mood"`
	Energy     string   `json:"energy"`
	Objectives []string `json:"objectives"`
	Note       string   `json:"note"`
	CreatedAt  string   `json:"created_at"`
}

// NewCheckIn returns an empty check-in stamped with the current UTC time.
func NewCheckIn() *CheckIn {
	return &CheckIn{
		Objectives: []string{},
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
}

// Missing returns the required fields still unset; only mood is required.
func (c *CheckIn) Missing() []string {
	if strings.TrimSpace(c.Mood) == "" {
		return []string{"mood"}
	}
	return nil
}

// AutoNote builds the fallback one-line summary used when the controller did
// not supply a note: "Mood: <mood>. Top goal: <first objective>."
func (c *CheckIn) AutoNote() string {
	var parts []string
	if c.Mood != "" {
		parts = append(parts, fmt.Sprintf("Mood: %s.", c.Mood))
	}
	if len(c.Objectives) > 0 {
		parts = append(parts, fmt.Sprintf("Top goal: %s.", c.Objectives[0]))
	}
	if len(parts) == 0 {
		return "Quick check-in (no summary)."
	}
	return strings.Join(parts, " ")
}

// Assistant wires the check-in store and log behind the wellness tool set.
type Assistant struct {
	store  *state.Store[*CheckIn]
	ledger *ledger.Ledger
	logger *slog.Logger
}

// New creates the wellness assistant persisting under dataDir.
func New(dataDir string, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		store:  state.NewStore(NewCheckIn),
		ledger: ledger.New(dataDir, HistoryFile, logger),
		logger: logger,
	}
}

// Registry returns the tool registry for this assistant.
func (a *Assistant) Registry() *tools.Registry {
	return tools.NewRegistry(
		tools.Func{Tool: saveCheckinTool, Run: a.saveCheckin},
		tools.Func{Tool: readSummaryTool, Run: a.readSummary},
	)
}

var saveCheckinTool = types.NewFunctionTool(
	ToolSaveCheckin,
	"Save the daily check-in. Mood is required; a short note is auto-generated when absent.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"mood":       types.StringSchema("How the user is feeling today"),
		"energy":     types.StringSchema("The user's energy level"),
		"objectives": types.StringListSchema("One to three objectives for the day"),
		"note":       types.StringSchema("Optional one-sentence summary"),
	}, "mood"),
)

var readSummaryTool = types.NewFunctionTool(
	ToolReadSummary,
	"Return a brief summary of the last few check-ins for context.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"n": types.IntegerSchema("How many recent check-ins to include; defaults to 3"),
	}),
)

func (a *Assistant) saveCheckin(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	patch := struct {
		mood, energy, note string
		objectives         []string
	}{
		mood:       tools.StringArg(input, "mood"),
		energy:     tools.StringArg(input, "energy"),
		note:       tools.StringArg(input, "note"),
		objectives: tools.StringListArg(input, "objectives"),
	}

	var snapshot *CheckIn
	a.store.Update(id, func(c *CheckIn) {
		if patch.mood != "" {
			c.Mood = patch.mood
		}
		if patch.energy != "" {
			c.Energy = patch.energy
		}
		for _, obj := range patch.objectives {
			if !containsFold(c.Objectives, obj) {
				c.Objectives = append(c.Objectives, obj)
			}
		}
		if patch.note != "" {
			c.Note = patch.note
		}
		snapshot = c.clone()
	})

	if missing := snapshot.Missing(); len(missing) > 0 {
		a.logger.Info("check-in refused, mood missing", "room", id.String())
		return "", core.NewIncompleteRecordError(missing)
	}
	if snapshot.Note == "" {
		snapshot.Note = snapshot.AutoNote()
	}

	entry, err := a.ledger.Append(id, snapshot)
	if err != nil {
		a.logger.Error("check-in append failed", "room", id.String(), "error", err)
		return "", core.NewPersistenceError("save check-in", err)
	}

	a.store.Reset(id)
	savedAt, _ := entry[ledger.TagSavedAt].(string)
	a.logger.Info("check-in saved", "room", id.String(), "mood", snapshot.Mood, "objectives", snapshot.Objectives)
	return fmt.Sprintf("Saved check-in for %s.", savedAt), nil
}

func (a *Assistant) readSummary(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	n := tools.IntArg(input, "n", defaultSummaryCount)
	entries := a.ledger.Tail(n)
	if len(entries) == 0 {
		return "No previous check-ins found.", nil
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		savedAt, _ := e[ledger.TagSavedAt].(string)
		mood, _ := e["mood"].(string)
		energy, _ := e["energy"].(string)
		note, _ := e["note"].(string)
		var objectives []string
		if raw, ok := e["objectives"].([]any); ok {
			for _, o := range raw {
				if s, ok := o.(string); ok {
					objectives = append(objectives, s)
				}
			}
		}
		lines = append(lines, fmt.Sprintf("%s: mood=%q, energy=%q, objectives=%v, note=%q",
			savedAt, mood, energy, objectives, note))
	}
	a.logger.Info("summary read", "room", id.String(), "entries", len(lines))
	return strings.Join(lines, "\n"), nil
}

func (c *CheckIn) clone() *CheckIn {
	out := *c
	out.Objectives = append([]string(nil), c.Objectives...)
	return &out
}

func containsFold(haystack []string, needle string) bool {
	for _, have := range haystack {
		if strings.EqualFold(have, needle) {
			return true
		}
	}
	return false
}
