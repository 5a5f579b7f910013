// Package allowlist holds the static table of commands the operator may run.
// The table is the sole source of executable argv: keys sent over chat are
// looked up here and never interpreted as command text.
package allowlist

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
)

// validKey matches alphanumeric, dash, underscore, and dot characters only.
var validKey = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// DefaultCommands is used when the config file defines no commands.
// Commands run in the workspace root, so "workspace" prints the canonical root.
var DefaultCommands = map[string][]string{
	"status":    {"git", "status", "-sb"},
	"diff":      {"git", "diff", "--stat"},
	"log":       {"git", "log", "--oneline", "-n", "15"},
	"tests":     {"go", "test", "./..."},
	"deps":      {"go", "list", "-m", "all"},
	"pwd":       {"pwd"},
	"workspace": {"pwd", "-P"},
}

// Table is an immutable key → argv mapping.
type Table struct {
	entries map[string][]string
}

// New validates and copies entries into a Table.
func New(entries map[string][]string) (*Table, error) {
	t := &Table{entries: make(map[string][]string, len(entries))}
	for key, argv := range entries {
		if !validKey.MatchString(key) {
			return nil, fmt.Errorf("invalid command key %q: only alphanumeric, dash, underscore, and dot are allowed", key)
		}
		if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
			return nil, fmt.Errorf("command %q has an empty argv", key)
		}
		t.entries[key] = slices.Clone(argv)
	}
	return t, nil
}

// Default returns a Table with DefaultCommands.
func Default() *Table {
	t, err := New(DefaultCommands)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns a copy of the argv registered under key.
func (t *Table) Lookup(key string) ([]string, bool) {
	argv, ok := t.entries[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(argv), true
}

// Keys returns all registered keys in sorted order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered commands.
func (t *Table) Len() int {
	return len(t.entries)
}
