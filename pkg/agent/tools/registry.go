// Package tools holds the facade the LLM controller drives: named operations
// that mutate or project per-conversation state and always come back with a
// result value, never a fault.
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/identity"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/core/types"
)

// Executor is one callable tool operation. Execute receives the conversation
// identity the controller is speaking for and the raw named arguments the
// controller extracted from user speech; any of them may be absent.
type Executor interface {
	Name() string
	Definition() types.Tool
	Execute(ctx context.Context, id identity.Identity, input map[string]any) (string, *core.Error)
}

// Registry maps tool names to executors.
type Registry struct {
	byName map[string]Executor
}

// NewRegistry builds a registry from executors; nil entries are skipped.
func NewRegistry(executors ...Executor) *Registry {
	registry := &Registry{byName: make(map[string]Executor, len(executors))}
	for _, ex := range executors {
		if ex == nil {
			continue
		}
		registry.byName[ex.Name()] = ex
	}
	return registry
}

// Has reports whether a tool is registered under name.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.byName[strings.TrimSpace(name)]
	return ok
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns every tool definition, ordered by name. This is what
// the live handshake publishes to the controller.
func (r *Registry) Definitions() []types.Tool {
	if r == nil {
		return nil
	}
	defs := make([]types.Tool, 0, len(r.byName))
	for _, name := range r.Names() {
		defs = append(defs, r.byName[name].Definition())
	}
	return defs
}

// Invoke dispatches one tool call. Every failure mode comes back as a value:
// an unknown tool is a NotFound error, and a panicking executor is recovered
// into an internal error so the controller connection survives.
func (r *Registry) Invoke(ctx context.Context, id identity.Identity, name string, input map[string]any) (result string, callErr *core.Error) {
	if r == nil {
		return "", core.NewAPIError("tool registry is not configured")
	}
	ex, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return "", core.NewNotFoundError(fmt.Sprintf("unknown tool %q", name))
	}

	defer func() {
		if v := recover(); v != nil {
			result = ""
			callErr = core.NewAPIError(fmt.Sprintf("tool %q panicked: %v", name, v))
		}
	}()
	return ex.Execute(ctx, id, input)
}

// Func adapts a plain function into an Executor.
type Func struct {
	Tool types.Tool
	Run  func(ctx context.Context, id identity.Identity, input map[string]any) (string, *core.Error)
}

func (f Func) Name() string { return f.Tool.Name }

func (f Func) Definition() types.Tool { return f.Tool }

func (f Func) Execute(ctx context.Context, id identity.Identity, input map[string]any) (string, *core.Error) {
	if f.Run == nil {
		return "", core.NewAPIError(fmt.Sprintf("tool %q has no implementation", f.Tool.Name))
	}
	return f.Run(ctx, id, input)
}
