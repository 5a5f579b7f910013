package plan

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// NoChanges is the diff preview when old and new content are identical.
const NoChanges = "(no changes)"

// diffContextLines is the number of unchanged lines shown around each hunk.
const diffContextLines = 3

// UnifiedDiff returns a line-based unified diff from oldText to newText,
// labelled with name on both sides. Line terminators are not compared, so
// content differing only in a trailing newline yields NoChanges.
func UnifiedDiff(name, oldText, newText string) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(oldText),
		B:        splitLines(newText),
		FromFile: name,
		ToFile:   name,
		Context:  diffContextLines,
	})
	if err != nil {
		return "", err
	}
	diff = strings.TrimRight(diff, "\n")
	if diff == "" {
		return NoChanges, nil
	}
	return diff, nil
}

// splitLines breaks text into lines on \n, \r\n and \r, dropping the
// terminators, and re-appends "\n" to each line as difflib expects.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] += "\n"
	}
	return lines
}
