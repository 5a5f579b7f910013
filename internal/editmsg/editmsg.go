// Package editmsg parses file-replacement payloads sent as chat messages:
//
//	edit <relative-path>
//	<<<
//	<new file content>
//	>>>
package editmsg

import "strings"

// Markers of the edit payload: a first line "edit <path>", then the new
// content between a line equal to OpenDelim and a line starting with
// CloseDelim.
const (
	Prefix     = "edit "
	OpenDelim  = "<<<"
	CloseDelim = ">>>"
)

// Edit is a parsed replacement request.
type Edit struct {
	Path    string
	Content string
}

// Parse extracts the target path and replacement content from text.
// It reports false when the prefix, the opening delimiter line, or the
// closing delimiter line is missing, or when the path is empty.
// Content lines are returned verbatim, joined with "\n".
func Parse(text string) (Edit, bool) {
	if !strings.HasPrefix(text, Prefix) {
		return Edit{}, false
	}

	lines := strings.Split(text, "\n")
	path := strings.TrimSpace(strings.TrimPrefix(lines[0], Prefix))
	if path == "" {
		return Edit{}, false
	}

	open := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == OpenDelim {
			open = i
			break
		}
	}
	if open < 0 {
		return Edit{}, false
	}

	for i := open + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], CloseDelim) {
			return Edit{
				Path:    path,
				Content: strings.Join(lines[open+1:i], "\n"),
			}, true
		}
	}
	return Edit{}, false
}

// Format renders path and content in the wire form accepted by Parse.
func Format(path, content string) string {
	return Prefix + path + "\n" + OpenDelim + "\n" + content + "\n" + CloseDelim
}
