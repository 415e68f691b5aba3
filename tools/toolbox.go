// Toolbox: the set of tools one agent variant can invoke.
//
// Information Hiding:
// - Tool storage and lookup implementation hidden
// - Name normalization centralized here

package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Toolbox manages the tools available to one agent variant.
// Tool names are normalized to lowercase: the agent's action parser
// lowercases parsed names, so two registrations differing only by case
// would collide silently. Register detects that instead.
type Toolbox struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewToolbox creates an empty toolbox.
func NewToolbox() *Toolbox {
	return &Toolbox{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool under its lowercase name.
// Returns an error if a tool with the same normalized name exists.
func (b *Toolbox) Register(tool Tool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	name := Normalize(tool.Metadata().Name)
	if name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if _, exists := b.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	b.tools[name] = tool
	b.order = append(b.order, name)
	return nil
}

// MustRegister registers tools and panics on collision.
// Variant toolboxes are built from static tool lists; a collision there
// is a programming error.
func (b *Toolbox) MustRegister(tools ...Tool) *Toolbox {
	for _, t := range tools {
		if err := b.Register(t); err != nil {
			panic(fmt.Sprintf("toolbox: %v", err))
		}
	}
	return b
}

// Get returns a tool by name, normalizing before lookup.
func (b *Toolbox) Get(name string) (Tool, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	tool, exists := b.tools[Normalize(name)]
	return tool, exists
}

// Run looks up the tool, prunes parameters to its declared capabilities
// and executes it.
func (b *Toolbox) Run(ctx context.Context, name, input string, params RunParams) (string, error) {
	tool, exists := b.Get(name)
	if !exists {
		return "", fmt.Errorf("tool %q not found", Normalize(name))
	}

	meta := tool.Metadata()
	return tool.Run(ctx, input, meta.Caps.Prune(params))
}

// Names returns registered tool names in sorted order.
func (b *Toolbox) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.tools))
	for name := range b.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Description renders the tool catalog for the agent's system prompt,
// one "name: description" line per tool in registration order.
func (b *Toolbox) Description() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var lines []string
	for _, name := range b.order {
		meta := b.tools[name].Metadata()
		lines = append(lines, fmt.Sprintf("%s: %s", name, meta.Description))
	}
	return strings.Join(lines, "\n")
}

// Normalize lowercases a tool name and strips surrounding whitespace,
// quotes and brackets left over from model output.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Trim(name, `"'[]()`+"`")
	return strings.ToLower(strings.TrimSpace(name))
}
