package sdr

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/identity"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/ledger"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/state"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/tools"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core/types"
)

// Tool names exposed to the controller.
const (
	ToolSearchFAQ  = "search_faq"
	ToolUpdateLead = "update_lead"
	ToolSaveLead   = "save_lead"
)

// HistoryFile is the append-only leads history inside the data directory.
const HistoryFile = "all_leads.json"

// Assistant wires the FAQ dataset, lead store, and leads ledger behind the
// SDR tool set.
type Assistant struct {
	faq    *FAQ
	store  *state.Store[*Lead]
	ledger *ledger.Ledger
	logger *slog.Logger
}

// New creates the SDR assistant over faq, persisting under dataDir.
func New(faq *FAQ, dataDir string, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		faq:    faq,
		store:  state.NewStore(NewLead),
		ledger: ledger.New(dataDir, HistoryFile, logger),
		logger: logger,
	}
}

// Registry returns the tool registry for this assistant.
func (a *Assistant) Registry() *tools.Registry {
	return tools.NewRegistry(
		tools.Func{Tool: searchFAQTool, Run: a.searchFAQ},
		tools.Func{Tool: updateLeadTool, Run: a.updateLead},
		tools.Func{Tool: saveLeadTool, Run: a.saveLead},
	)
}

var searchFAQTool = types.NewFunctionTool(
	ToolSearchFAQ,
	"Answer a product, pricing, or company question from the FAQ content only.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"question": types.StringSchema("The visitor's question"),
	}, "question"),
)

var updateLeadTool = types.NewFunctionTool(
	ToolUpdateLead,
	"Record any lead details the visitor shared. Returns the updated lead as JSON.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"name":      types.StringSchema("Visitor name"),
		"company":   types.StringSchema("Company name"),
		"email":     types.StringSchema("Email address"),
		"role":      types.StringSchema("Role or title"),
		"use_case":  types.StringSchema("What they want to use the product for"),
		"team_size": types.StringSchema("Team size"),
		"timeline":  types.StringSchema("now, soon, or later"),
		"notes":     types.StringSchema("Free-form notes; appended to earlier notes"),
	}),
)

var saveLeadTool = types.NewFunctionTool(
	ToolSaveLead,
	"Save the collected lead at the end of the call.",
	types.ObjectSchema(nil),
)

func (a *Assistant) searchFAQ(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	question := tools.StringArg(input, "question")
	answer := a.faq.Search(question)
	a.logger.Info("faq answered", "room", id.String(), "question", question)
	return answer, nil
}

func (a *Assistant) updateLead(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	patch := Patch{
		Name:     tools.StringArg(input, "name"),
		Company:  tools.StringArg(input, "company"),
		Email:    tools.StringArg(input, "email"),
		Role:     tools.StringArg(input, "role"),
		UseCase:  tools.StringArg(input, "use_case"),
		TeamSize: tools.StringArg(input, "team_size"),
		Timeline: tools.StringArg(input, "timeline"),
		Notes:    tools.StringArg(input, "notes"),
	}

	var changed bool
	var snapshot *Lead
	a.store.Update(id, func(l *Lead) {
		changed = l.Apply(patch)
		snapshot = l.Clone()
	})

	if !changed {
		a.logger.Info("update_lead called with no usable fields", "room", id.String())
		return "No fields changed.", nil
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", core.NewAPIError(fmt.Sprintf("encode lead: %v", err))
	}
	return string(data), nil
}

func (a *Assistant) saveLead(_ context.Context, id identity.Identity, _ map[string]any) (string, *core.Error) {
	var snapshot *Lead
	a.store.View(id, func(l *Lead) { snapshot = l.Clone() })

	base := snapshot.Name
	if base == "" {
		base = "lead"
	}
	leadFile := identity.SafeFileName(base) + "_lead.json"

	if err := a.ledger.WriteSnapshot(leadFile, snapshot); err != nil {
		a.logger.Error("lead file write failed", "room", id.String(), "error", err)
		return "", core.NewPersistenceError("save lead file", err)
	}
	if _, err := a.ledger.Append(id, snapshot); err != nil {
		a.logger.Error("leads history append failed", "room", id.String(), "error", err)
		return "", core.NewPersistenceError("update leads history", err)
	}

	a.store.Reset(id)
	return fmt.Sprintf("Lead saved as %s", leadFile), nil
}
