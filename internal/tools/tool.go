// Package tools exposes the document utilities to agents. Each tool takes
// a JSON argument object and returns text, so the same set can be served
// over MCP or exported as Anthropic tool definitions.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
)

// Tool is a single agent-callable operation.
type Tool interface {
	Name() string
	Description() string
	InputSchema() *jsonschema.Schema
	Run(ctx context.Context, args json.RawMessage) (string, error)
}

// reflectSchema builds a flat input schema from a struct type.
func reflectSchema(v any) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	s := r.Reflect(v)
	s.Version = ""
	return s
}

// decodeArgs unmarshals tool arguments. An empty payload leaves v untouched.
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// Registry holds tools by name.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a registry. Later tools replace earlier ones with
// the same name.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.Name()] = t
	}
	return r
}

// Get returns the tool with the given name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the sorted tool names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every tool sorted by name.
func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, name := range r.Names() {
		out = append(out, r.tools[name])
	}
	return out
}

// Subset returns a registry with only the named tools. An empty list
// selects everything.
func (r *Registry) Subset(names []string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}
	sub := &Registry{tools: make(map[string]Tool, len(names))}
	for _, name := range names {
		t, ok := r.tools[name]
		if !ok {
			return nil, fmt.Errorf("unknown tool %q (available: %v)", name, r.Names())
		}
		sub.tools[name] = t
	}
	return sub, nil
}
