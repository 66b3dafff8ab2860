package tools

import (
	"context"
	"encoding/json"

	"github.com/ElManaa/MCPServer/schema"
)

// ITool is a named, schema-described capability that can be invoked with
// arguments and returns a result or fails.
type ITool interface {
	// Name returns the stable unique identifier of the tool,
	// immutable for the tool's lifetime.
	Name() string
	// Description returns a human-readable summary, used only for
	// discovery responses.
	Description() string
	// Schema returns the parameter schema describing accepted arguments.
	// The schema must not change after the tool is registered.
	Schema() *schema.Schema

	// Call executes the tool with already-validated JSON arguments.
	// It typically performs an outbound call to an external service and
	// must bound that call with its own timeout; the gateway does not
	// retry, rate-limit, or cache on the tool's behalf.
	Call(ctx context.Context, args json.RawMessage) (any, error)
}

// Tool is a typed variant of ITool for implementations with a concrete
// request and response shape.
type Tool[I any, O any] interface {
	ITool
	Run(ctx context.Context, req *I) (*O, error)
}

// Descriptor is the discovery-facing projection of a tool: its identity
// fields without its execution behavior. Computed on demand, never stored.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema *schema.Schema `json:"inputSchema"`
}

// Describe derives a Descriptor from a tool's identity fields. Pure, nil-safe.
func Describe(t ITool) Descriptor {
	if t == nil {
		return Descriptor{}
	}
	return Descriptor{
		Name:        t.Name(),
		Description: t.Description(),
		InputSchema: t.Schema(),
	}
}
