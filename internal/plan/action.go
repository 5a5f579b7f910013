// Package plan builds pending actions: proposed command runs and file
// replacements that wait for operator confirmation before they execute.
package plan

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Kind names an action variant in logs and audit entries.
type Kind string

const (
	KindCommand  Kind = "command"
	KindFileEdit Kind = "file_edit"
)

// Action is a pending action. The set of implementations is closed:
// Command and FileEdit are the only variants.
type Action interface {
	// PlanID uniquely identifies the proposal in logs and the audit trail.
	PlanID() string
	Kind() Kind
	// Description is the summary shown to the operator before confirmation.
	Description() string
	// Resource identifies what the action touches (argv or file path).
	Resource() string

	sealed()
}

// Command runs an allow-listed argv.
type Command struct {
	ID   string
	Key  string
	Argv []string
}

func (c Command) PlanID() string      { return c.ID }
func (c Command) Kind() Kind          { return KindCommand }
func (c Command) Description() string { return "Command: " + c.Key }
func (c Command) Resource() string    { return strings.Join(c.Argv, " ") }
func (Command) sealed()               {}

// FileEdit replaces the full content of an existing workspace file.
type FileEdit struct {
	ID string
	// RelPath is the path as the operator typed it.
	RelPath string
	// Path is absolute and already confined to the workspace.
	Path       string
	NewContent string
	// Diff is a unified diff against the current content, or NoChanges.
	Diff string
}

func (f FileEdit) PlanID() string      { return f.ID }
func (f FileEdit) Kind() Kind          { return KindFileEdit }
func (f FileEdit) Description() string { return "File update: " + f.RelPath }
func (f FileEdit) Resource() string    { return f.Path }
func (FileEdit) sealed()               {}

// NewCommand assigns a fresh ID and copies argv so the action never
// aliases the allow-list.
func NewCommand(key string, argv []string) Command {
	return Command{ID: uuid.NewString(), Key: key, Argv: slices.Clone(argv)}
}
