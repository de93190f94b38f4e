//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

// Package tools defines the callable tool type and the process-wide tool
// registry. Entity packages register their tools in init(); the server
// binary blank-imports them.
package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/invtrack/invtrack-mcp/internal/db"
)

// Store is the read surface tools run against. *db.DB satisfies it.
type Store interface {
	Query(ctx context.Context, sql string, args ...any) ([]db.Row, error)
	QueryOne(ctx context.Context, sql string, args ...any) (db.Row, error)
	Probe(ctx context.Context) bool
}

// Handler executes a tool against the store with loosely-typed arguments
// and returns the response envelope payload.
type Handler func(ctx context.Context, store Store, args Args) (map[string]any, error)

// Tool is a named, independently invocable read/aggregate operation.
type Tool struct {
	// Name is the callable operation name, e.g. "get_insider_transactions".
	Name string

	// Description is the caller-facing summary of what the tool does.
	Description string

	// Handler executes the tool.
	Handler Handler
}

var (
	registry = make(map[string]Tool)
	mu       sync.RWMutex
)

// Register adds a tool to the registry.
func Register(t Tool) {
	mu.Lock()
	defer mu.Unlock()
	registry[t.Name] = t
}

// Get retrieves a tool by name.
func Get(name string) (Tool, error) {
	mu.RLock()
	defer mu.RUnlock()

	t, ok := registry[name]
	if !ok {
		return Tool{}, fmt.Errorf("unknown tool: %s", name)
	}
	return t, nil
}

// List returns all registered tool names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered tools, sorted by name.
func All() []Tool {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]Tool, 0, len(registry))
	for _, t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Envelope stamps a successful tool response with the call time and a
// success status. Every tool returns through this.
func Envelope(resp map[string]any) map[string]any {
	resp["timestamp"] = time.Now().Format(time.RFC3339)
	resp["status"] = "success"
	return resp
}
