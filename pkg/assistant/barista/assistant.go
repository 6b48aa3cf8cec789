package barista

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
	ToolResetOrder          = "reset_order"
	ToolUpdateOrder         = "update_order"
	ToolUpdateFromUtterance = "update_order_from_utterance"
	ToolSaveOrder           = "save_order_to_json"
)

// HistoryFile is the append-only orders history inside the data directory.
const HistoryFile = "all_orders.json"

// Assistant wires the order store and ledger behind the barista tool set.
type Assistant struct {
	store  *state.Store[*Order]
	ledger *ledger.Ledger
	logger *slog.Logger
}

// New creates the barista assistant persisting under dataDir.
func New(dataDir string, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		store:  state.NewStore(NewOrder),
		ledger: ledger.New(dataDir, HistoryFile, logger),
		logger: logger,
	}
}

// Registry returns the tool registry for this assistant.
func (a *Assistant) Registry() *tools.Registry {
	return tools.NewRegistry(
		tools.Func{Tool: resetOrderTool, Run: a.resetOrder},
		tools.Func{Tool: updateOrderTool, Run: a.updateOrder},
		tools.Func{Tool: updateFromUtteranceTool, Run: a.updateOrderFromUtterance},
		tools.Func{Tool: saveOrderTool, Run: a.saveOrder},
	)
}

var resetOrderTool = types.NewFunctionTool(
	ToolResetOrder,
	"Reset the in-memory order for this room. Call at the start of a new order.",
	types.ObjectSchema(nil),
)

var updateOrderTool = types.NewFunctionTool(
	ToolUpdateOrder,
	"Update the per-room order with any parsed fields. Returns the updated order as JSON.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"drinkType": types.StringSchema("Drink, e.g. Latte, Cappuccino, Americano"),
		"size":      types.StringSchema("small, medium, or large"),
		"milk":      types.StringSchema("regular, almond, soy, or oat"),
		"extras":    types.StringListSchema("Optional extras, e.g. extra shot, whipped cream"),
		"name":      types.StringSchema("Customer name"),
	}),
)

var updateFromUtteranceTool = types.NewFunctionTool(
	ToolUpdateFromUtterance,
	"Extract order details from a raw user utterance and merge them into the per-room order. Returns the updated order as JSON.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"utterance": types.StringSchema("The user's transcript text, verbatim"),
	}, "utterance"),
)

var saveOrderTool = types.NewFunctionTool(
	ToolSaveOrder,
	"Save the completed order: appends to the orders history and writes the customer's latest-order file.",
	types.ObjectSchema(nil),
)

func (a *Assistant) resetOrder(_ context.Context, id identity.Identity, _ map[string]any) (string, *core.Error) {
	a.store.Reset(id)
	a.logger.Info("order reset", "room", id.String())
	return fmt.Sprintf("Order reset for room %s.", id), nil
}

func (a *Assistant) updateOrder(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	patch := Patch{
		DrinkType: tools.StringArg(input, "drinkType"),
		Size:      tools.StringArg(input, "size"),
		Milk:      tools.StringArg(input, "milk"),
		Extras:    tools.StringListArg(input, "extras"),
		Name:      tools.StringArg(input, "name"),
	}
	return a.applyPatch(id, patch, "No fields changed.")
}

// updateOrderFromUtterance runs the transcript extractor over raw user speech
// and merges whatever it heard into the order.
func (a *Assistant) updateOrderFromUtterance(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	utterance := tools.StringArg(input, "utterance")
	return a.applyPatch(id, ExtractPatch(utterance), "No order details heard.")
}

// applyPatch merges patch into the room's order and returns the updated order
// as JSON, or noChange when the patch carried nothing usable.
func (a *Assistant) applyPatch(id identity.Identity, patch Patch, noChange string) (string, *core.Error) {
	var changed bool
	var snapshot *Order
	a.store.Update(id, func(o *Order) {
		changed = o.Apply(patch)
		snapshot = o.Clone()
	})

	if !changed {
		a.logger.Info("order update carried no usable fields", "room", id.String())
		return noChange, nil
	}
	a.logger.Info("order updated", "room", id.String(),
		"drinkType", snapshot.DrinkType, "size", snapshot.Size,
		"milk", snapshot.Milk, "extras", snapshot.Extras, "name", snapshot.Name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", core.NewAPIError(fmt.Sprintf("encode order: %v", err))
	}
	return string(data), nil
}

func (a *Assistant) saveOrder(_ context.Context, id identity.Identity, _ map[string]any) (string, *core.Error) {
	var snapshot *Order
	a.store.View(id, func(o *Order) { snapshot = o.Clone() })

	if missing := snapshot.Missing(); len(missing) > 0 {
		a.logger.Info("save refused, order incomplete", "room", id.String(), "missing", missing)
		return "", core.NewIncompleteRecordError(missing)
	}

	customerFile := identity.SafeFileName(snapshot.Name) + "_order.json"
	if err := a.ledger.WriteSnapshot(customerFile, snapshot); err != nil {
		a.logger.Error("customer file write failed", "room", id.String(), "error", err)
		return "", core.NewPersistenceError("save customer file", err)
	}

	if _, err := a.ledger.Append(id, snapshot); err != nil {
		a.logger.Error("history append failed", "room", id.String(), "error", err)
		return "", core.NewPersistenceError("update history", err)
	}

	// A new conversation on the same room starts clean.
	a.store.Reset(id)
	return fmt.Sprintf("Order saved as %s.", customerFile), nil
}
