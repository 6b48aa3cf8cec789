package fraud

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
	ToolLoadCase     = "load_case_for_user"
	ToolVerifyAnswer = "verify_security_answer"
	ToolUpdateStatus = "update_case_status"
)

// Sentinel results the controller's prompt branches on.
const (
	ResultVerified     = "verified"
	ResultFailed       = "failed"
	ResultNoCaseLoaded = "no_case_loaded"
)

// Session is the per-room record: which case this call is about.
type Session struct {
	CaseID    string `json:"caseId"`
	CreatedAt string `json:"created_at"`
}

// NewSession returns an empty session stamped with the current UTC time.
func NewSession() *Session {
	return &Session{CreatedAt: time.Now().UTC().Format(time.RFC3339)}
}

// Assistant wires the case book and per-room sessions behind the fraud
// verification tool set.
type Assistant struct {
	book   *Book
	store  *state.Store[*Session]
	logger *slog.Logger

	now func() time.Time
}

// New creates the fraud assistant over an already-loaded case book.
func New(book *Book, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		book:   book,
		store:  state.NewStore(NewSession),
		logger: logger,
		now:    time.Now,
	}
}

// Registry returns the tool registry for this assistant.
func (a *Assistant) Registry() *tools.Registry {
	return tools.NewRegistry(
		tools.Func{Tool: loadCaseTool, Run: a.loadCase},
		tools.Func{Tool: verifyAnswerTool, Run: a.verifyAnswer},
		tools.Func{Tool: updateStatusTool, Run: a.updateStatus},
	)
}

var loadCaseTool = types.NewFunctionTool(
	ToolLoadCase,
	"Load the fraud case for a customer name and attach it to this call.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"user_name": types.StringSchema("The customer's first name"),
	}, "user_name"),
)

var verifyAnswerTool = types.NewFunctionTool(
	ToolVerifyAnswer,
	"Check the customer's security answer. Returns 'verified' or 'failed'.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"answer": types.StringSchema("The customer's answer to the security question"),
	}, "answer"),
)

var updateStatusTool = types.NewFunctionTool(
	ToolUpdateStatus,
	"Record the call outcome on the case: confirmed_safe, confirmed_fraud, or verification_failed.",
	types.ObjectSchema(map[string]types.JSONSchema{
		"new_status": {Type: "string", Description: "Outcome status", Enum: []string{StatusConfirmedSafe, StatusConfirmedFraud, StatusVerificationFailed}},
		"note":       types.StringSchema("Short outcome note"),
	}, "new_status"),
)

func (a *Assistant) loadCase(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	userName := tools.StringArg(input, "user_name")
	c, ok := a.book.FindByUserName(userName)
	if !ok {
		a.logger.Info("no fraud case for user", "room", id.String(), "user", userName)
		return fmt.Sprintf("No fraud case found for username %s.", userName), nil
	}

	a.store.Update(id, func(s *Session) { s.CaseID = c.CaseID })
	a.logger.Info("fraud case loaded", "room", id.String(), "case", c.CaseID, "user", c.UserName)

	masked := "**** " + c.CardEnding
	return fmt.Sprintf("Case loaded for %s with card ending %s, amount %.2f at %s.",
		c.UserName, masked, c.Amount, c.MerchantName), nil
}

func (a *Assistant) verifyAnswer(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	c, ok := a.activeCase(id)
	if !ok {
		return ResultNoCaseLoaded, nil
	}

	expected := strings.ToLower(strings.TrimSpace(c.SecurityAnswer))
	given := strings.ToLower(tools.StringArg(input, "answer"))

	if expected != "" && given != "" && expected == given {
		a.logger.Info("security verification passed", "room", id.String(), "case", c.CaseID)
		return ResultVerified, nil
	}
	a.logger.Info("security verification failed", "room", id.String(), "case", c.CaseID)
	return ResultFailed, nil
}

func (a *Assistant) updateStatus(_ context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	c, ok := a.activeCase(id)
	if !ok {
		return ResultNoCaseLoaded, nil
	}

	status := tools.StringArg(input, "new_status")
	switch status {
	case StatusConfirmedSafe, StatusConfirmedFraud, StatusVerificationFailed:
	default:
		return "", core.NewInvalidRequestErrorWithParam(fmt.Sprintf("unknown status %q", status), "new_status")
	}

	updated, err := a.book.UpdateStatus(c.CaseID, status, tools.StringArg(input, "note"), a.now())
	if err != nil {
		a.logger.Error("case write-back failed", "room", id.String(), "case", c.CaseID, "error", err)
		return "", core.NewPersistenceError("update case", err)
	}
	a.logger.Info("case status updated", "room", id.String(), "case", updated.CaseID, "status", status)

	data, mErr := json.MarshalIndent(updated, "", "  ")
	if mErr != nil {
		return "", core.NewAPIError(fmt.Sprintf("encode case: %v", mErr))
	}
	return string(data), nil
}

func (a *Assistant) activeCase(id identity.Identity) (Case, bool) {
	var caseID string
	a.store.View(id, func(s *Session) { caseID = s.CaseID })
	if caseID == "" {
		return Case{}, false
	}
	return a.book.Get(caseID)
}
