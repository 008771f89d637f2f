// Package presets provides ready-made systems to simulate.
package presets

import (
	"fmt"
	"sort"

	"github.com/aretw0/infrasim/pkg/config"
)

// Preset builds a fresh description on every call.
type Preset func() *config.Description

var registry = map[string]Preset{
	"cloud":    Cloud,
	"iptables": IPTables,
}

// Lookup returns the description of a named preset.
func Lookup(name string) (*config.Description, error) {
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %v)", name, Names())
	}
	return p(), nil
}

// Names lists the available presets.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
