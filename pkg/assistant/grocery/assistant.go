package grocery

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
	ToolAddItem         = "add_item"
	ToolRemoveItem      = "remove_item"
	ToolUpdateQuantity  = "update_quantity"
	ToolListCart        = "list_cart"
	ToolAddRecipe       = "add_recipe"
	ToolSetCustomerInfo = "set_customer_info"
	ToolPlaceOrder      = "place_order"
)

// HistoryFile is the append-only orders history inside the data directory.
const HistoryFile = "all_orders.json"

// Receipt is the finalized order written to the ledger on checkout.
type Receipt struct {
	OrderID      string        `json:"order_id"`
	Store        string        `json:"store"`
	Timestamp    string        `json:"timestamp"`
	Currency     string        `json:"currency"`
	Items        []ReceiptLine `json:"items"`
	Total        int           `json:"total"`
	CustomerName string        `json:"customer_name"`
	Address      string        `json:"address"`
	Status       string        `json:"status"`
}

// ReceiptLine is one priced row of a finalized order.
type ReceiptLine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
	Subtotal int    `json:"subtotal"`
}

// Assistant wires the catalog, cart store, and order ledger behind the
// grocery tool set.
type Assistant struct {
	catalog *Catalog
	store   *state.Store[*Cart]
	ledger  *ledger.Ledger
	logger  *slog.Logger

	now func() time.Time
}

// New creates the grocery assistant over catalog, persisting under dataDir.
func New(catalog *Catalog, dataDir string, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		catalog: catalog,
		store:   state.NewStore(NewCart),
		ledger:  ledger.New(dataDir, HistoryFile, logger),
		logger:  logger,
		now:     time.Now,
	}
}

// Registry returns the tool registry for this assistant.
func (a *Assistant) Registry() *tools.Registry {
	return tools.NewRegistry(
		tools.Func{Tool: addItemTool, Run: a.addItem},
		tools.Func{Tool: removeItemTool, Run: a.removeItem},
		tools.Func{Tool: updateQuantityTool, Run: a.updateQuantity},
		tools.Func{Tool: listCartTool, Run: a.listCart},
		tools.Func{Tool: addRecipeTool, Run: a.addRecipe},
		tools.Func{Tool: setCustomerInfoTool, Run: a.setCustomerInfo},
		tools.Func{Tool: placeOrderTool, Run: a.placeOrder},
	)
}

var addItemTool = types.NewFunctionTool(
	ToolAddItem,
	"Add an item to the cart by human name. Quantity defaults to 1.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"item_name": types.StringSchema("Item name as spoken by the user"),
		"quantity":  types.IntegerSchema("How many to add; defaults to 1"),
	}, "item_name"),
)

var removeItemTool = types.NewFunctionTool(
	ToolRemoveItem,
	"Remove an item completely from the cart by name.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"item_name": types.StringSchema("Item name as spoken by the user"),
	}, "item_name"),
)

var updateQuantityTool = types.NewFunctionTool(
	ToolUpdateQuantity,
	"Set a specific quantity for a cart item. A quantity of 0 or less removes it.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"item_name": types.StringSchema("Item name as spoken by the user"),
		"quantity":  types.IntegerSchema("Absolute quantity to set"),
	}, "item_name", "quantity"),
)

var listCartTool = types.NewFunctionTool(
	ToolListCart,
	"Return a human-readable summary of the current cart with the running total.",
	types.ObjectSchema(nil),
)

var addRecipeTool = types.NewFunctionTool(
	ToolAddRecipe,
	"Add the ingredients for a simple dish (sandwich, pasta, breakfast) to the cart.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"recipe_phrase": types.StringSchema("The user's phrase, e.g. 'ingredients for a peanut butter sandwich'"),
		"quantity":      types.IntegerSchema("Multiplier for each ingredient; defaults to 1"),
	}, "recipe_phrase"),
)

var setCustomerInfoTool = types.NewFunctionTool(
	ToolSetCustomerInfo,
	"Save the customer's name and delivery address for the current cart.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"name":    types.StringSchema("Customer name"),
		"address": types.StringSchema("Delivery address"),
	}),
)

var placeOrderTool = types.NewFunctionTool(
	ToolPlaceOrder,
	"Finalize the order: compute the total, persist it, and clear the cart.",
	types.ObjectSchema(nil),
)

func (a *Assistant) addItem(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	itemName := tools.StringArg(input, "item_name")
	item, ok := a.catalog.FindItemByName(itemName)
	if !ok {
		msg := fmt.Sprintf("Item not found for name %q.", itemName)
		a.logger.Info(msg, "room", id.String())
		return msg, nil
	}

	qty := tools.IntArg(input, "quantity", 1)
	if qty < 1 {
		qty = 1
	}
	a.store.Update(id, func(c *Cart) { c.Add(item.ID, qty) })

	msg := fmt.Sprintf("Added %d x %s to cart.", qty, item.Name)
	a.logger.Info(msg, "room", id.String())
	return msg, nil
}

func (a *Assistant) removeItem(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	itemName := tools.StringArg(input, "item_name")
	item, ok := a.catalog.FindItemByName(itemName)
	if !ok {
		msg := fmt.Sprintf("Item not found for name %q.", itemName)
		a.logger.Info(msg, "room", id.String())
		return msg, nil
	}

	removed := false
	a.store.Update(id, func(c *Cart) { removed = c.Remove(item.ID) })

	var msg string
	if removed {
		msg = fmt.Sprintf("Removed %s from the cart.", item.Name)
	} else {
		msg = fmt.Sprintf("%s is not currently in the cart.", item.Name)
	}
	a.logger.Info(msg, "room", id.String())
	return msg, nil
}

func (a *Assistant) updateQuantity(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	itemName := tools.StringArg(input, "item_name")
	item, ok := a.catalog.FindItemByName(itemName)
	if !ok {
		msg := fmt.Sprintf("Item not found for name %q.", itemName)
		a.logger.Info(msg, "room", id.String())
		return msg, nil
	}

	qty := tools.IntArg(input, "quantity", 0)
	a.store.Update(id, func(c *Cart) { c.SetQuantity(item.ID, qty) })

	var msg string
	if qty <= 0 {
		msg = fmt.Sprintf("Removed %s from the cart.", item.Name)
	} else {
		msg = fmt.Sprintf("Set %s quantity to %d.", item.Name, qty)
	}
	a.logger.Info(msg, "room", id.String())
	return msg, nil
}

func (a *Assistant) listCart(_ context.Context, id identity.Identity, _ map[string]any) (string, *core.Error) {
	var snapshot *Cart
	a.store.View(id, func(c *Cart) { snapshot = c.Clone() })

	if len(snapshot.Items) == 0 {
		return "Your cart is currently empty.", nil
	}

	lines, total := snapshot.Lines(a.catalog)
	parts := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%d x %s (%d %s each) = %d %s",
			line.Quantity, line.Item.Name, line.Item.Price, a.catalog.Currency, line.Subtotal, a.catalog.Currency))
	}
	parts = append(parts, fmt.Sprintf("Total so far: %d %s", total, a.catalog.Currency))
	summary := strings.Join(parts, " | ")
	a.logger.Info("cart summary", "room", id.String(), "summary", summary)
	return summary, nil
}

func (a *Assistant) addRecipe(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	phrase := tools.StringArg(input, "recipe_phrase")
	itemIDs := a.catalog.RecipeItems(phrase)
	if len(itemIDs) == 0 {
		msg := "I am not sure which ingredients you need. Please name the items or try a simpler phrase."
		a.logger.Info("recipe phrase unrecognized", "room", id.String(), "phrase", phrase)
		return msg, nil
	}

	qty := tools.IntArg(input, "quantity", 1)
	if qty < 1 {
		qty = 1
	}

	var added []string
	a.store.Update(id, func(c *Cart) {
		for _, itemID := range itemIDs {
			item, ok := a.catalog.Item(itemID)
			if !ok {
				continue
			}
			c.Add(item.ID, qty)
			added = append(added, item.Name)
		}
	})

	if len(added) == 0 {
		return "I could not find matching items in the catalog.", nil
	}
	msg := fmt.Sprintf("I've added %s to your cart for %s.", strings.Join(added, ", "), phrase)
	a.logger.Info(msg, "room", id.String())
	return msg, nil
}

func (a *Assistant) setCustomerInfo(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	name := tools.StringArg(input, "name")
	address := tools.StringArg(input, "address")

	changed := false
	a.store.Update(id, func(c *Cart) { changed = c.SetCustomer(name, address) })

	if !changed {
		return "No customer details provided.", nil
	}
	a.logger.Info("customer info updated", "room", id.String())
	return "Customer info saved.", nil
}

func (a *Assistant) placeOrder(_ context.Context, id identity.Identity, _ map[string]any) (string, *core.Error) {
	var snapshot *Cart
	a.store.View(id, func(c *Cart) { snapshot = c.Clone() })

	if missing := snapshot.Missing(); len(missing) > 0 {
		a.logger.Info("checkout refused, cart empty", "room", id.String())
		return "", core.NewIncompleteRecordError(missing)
	}

	lines, total := snapshot.Lines(a.catalog)
	now := a.now().UTC()
	receipt := Receipt{
		OrderID:      fmt.Sprintf("ORDER_%d", now.Unix()),
		Store:        a.catalog.StoreName,
		Timestamp:    now.Format(time.RFC3339),
		Currency:     a.catalog.Currency,
		Items:        make([]ReceiptLine, 0, len(lines)),
		Total:        total,
		CustomerName: snapshot.CustomerName,
		Address:      snapshot.Address,
		Status:       "placed",
	}
	for _, line := range lines {
		receipt.Items = append(receipt.Items, ReceiptLine{
			ID:       line.Item.ID,
			Name:     line.Item.Name,
			Quantity: line.Quantity,
			Price:    line.Item.Price,
			Subtotal: line.Subtotal,
		})
	}

	if _, err := a.ledger.Append(id, receipt); err != nil {
		a.logger.Error("order history append failed", "room", id.String(), "error", err)
		return "", core.NewPersistenceError("update order history", err)
	}
	orderFile := strings.ToLower(receipt.OrderID) + ".json"
	if err := a.ledger.WriteSnapshot(orderFile, receipt); err != nil {
		a.logger.Error("order file write failed", "room", id.String(), "error", err)
		return "", core.NewPersistenceError("save order file", err)
	}

	a.logger.Info("order placed", "room", id.String(), "order_id", receipt.OrderID, "total", total, "currency", a.catalog.Currency)
	a.store.Reset(id)
	return fmt.Sprintf("Your order has been placed. Order total is %d %s.", total, a.catalog.Currency), nil
}
