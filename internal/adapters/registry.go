package adapters

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	unknownToolErrorTemplateConstant   = "%w: %s"
	duplicateToolErrorTemplateConstant = "adapter already registered for %s"
)

// ErrUnknownTool indicates that no adapter is registered under the requested name.
var ErrUnknownTool = errors.New("unknown tool")

// Registry maps canonical tool names to adapters.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds a registry from the provided adapters. Duplicate names are rejected.
func NewRegistry(registeredAdapters ...Adapter) (*Registry, error) {
	registry := &Registry{adapters: make(map[string]Adapter, len(registeredAdapters))}
	for _, adapter := range registeredAdapters {
		normalizedName := normalizeName(adapter.ToolName())
		if _, exists := registry.adapters[normalizedName]; exists {
			return nil, fmt.Errorf(duplicateToolErrorTemplateConstant, normalizedName)
		}
		registry.adapters[normalizedName] = adapter
	}
	return registry, nil
}

// NewDefaultRegistry registers every built-in adapter.
func NewDefaultRegistry(fileChecker FileChecker) *Registry {
	registry, _ := NewRegistry(
		NewGobusterAdapter(fileChecker),
		NewNmapAdapter(),
		NewSQLMapAdapter(),
		NewNiktoAdapter(),
		NewJohnAdapter(fileChecker),
		NewHydraAdapter(fileChecker),
		NewNucleiAdapter(),
		NewSearchSploitAdapter(),
	)
	return registry
}

// Lookup returns the adapter registered for toolName, ignoring case.
func (registry *Registry) Lookup(toolName string) (Adapter, error) {
	adapter, exists := registry.adapters[normalizeName(toolName)]
	if !exists {
		return nil, fmt.Errorf(unknownToolErrorTemplateConstant, ErrUnknownTool, toolName)
	}
	return adapter, nil
}

// Names returns the registered tool names in sorted order.
func (registry *Registry) Names() []string {
	names := make([]string, 0, len(registry.adapters))
	for name := range registry.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(toolName string) string {
	return strings.ToLower(strings.TrimSpace(toolName))
}
