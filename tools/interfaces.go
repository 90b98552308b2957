package tools

import "context"

// Tool is the interface the surrounding tool-dispatch layer invokes.
type Tool interface {
	// Name returns the unique name of the tool (e.g. "flight_search").
	Name() string

	// Description returns what the tool does and its arguments.
	Description() string

	// Execute runs the tool with loosely typed arguments.
	Execute(ctx context.Context, args map[string]interface{}) (interface{}, error)
}
