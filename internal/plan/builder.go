package plan

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/ppiankov/tgagent/internal/allowlist"
	"github.com/ppiankov/tgagent/internal/sandbox"
)

var (
	// ErrUnknownCommand is returned for keys absent from the allow-list.
	ErrUnknownCommand = errors.New("command is not in the allow-list")
	// ErrInvalidPath is returned when a path cannot be confined to the workspace.
	ErrInvalidPath = errors.New("invalid file path")
	// ErrFileNotFound is returned when the edit target is missing or not a regular file.
	ErrFileNotFound = errors.New("file not found")
)

// Putter stores a proposed action under a conversation key, replacing any
// previous one.
type Putter interface {
	Put(key int64, a Action)
}

// Builder turns validated intents into pending actions and stores them.
type Builder struct {
	Commands *allowlist.Table
	Sandbox  *sandbox.Sandbox
	Store    Putter
}

// ProposeCommand creates a Command action for an allow-listed key.
func (b *Builder) ProposeCommand(chatID int64, key string) (Command, error) {
	argv, ok := b.Commands.Lookup(key)
	if !ok {
		return Command{}, fmt.Errorf("%q: %w", key, ErrUnknownCommand)
	}

	c := NewCommand(key, argv)
	b.Store.Put(chatID, c)
	return c, nil
}

// ProposeEdit creates a FileEdit action replacing rel's content with
// content. The target must already exist inside the workspace.
func (b *Builder) ProposeEdit(chatID int64, rel, content string) (FileEdit, error) {
	path, err := b.Sandbox.Resolve(rel)
	if err != nil {
		return FileEdit{}, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileEdit{}, fmt.Errorf("%s: %w", rel, ErrFileNotFound)
		}
		return FileEdit{}, fmt.Errorf("stat %s: %w", rel, err)
	}
	if !info.Mode().IsRegular() {
		return FileEdit{}, fmt.Errorf("%s is not a regular file: %w", rel, ErrFileNotFound)
	}

	current, err := os.ReadFile(path)
	if err != nil {
		return FileEdit{}, fmt.Errorf("read %s: %w", rel, err)
	}

	diff, err := UnifiedDiff(path, string(current), content)
	if err != nil {
		return FileEdit{}, fmt.Errorf("diff %s: %w", rel, err)
	}

	f := FileEdit{
		ID:         uuid.NewString(),
		RelPath:    rel,
		Path:       path,
		NewContent: content,
		Diff:       diff,
	}
	b.Store.Put(chatID, f)
	return f, nil
}
