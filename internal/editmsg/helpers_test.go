package editmsg

import "strings"

func validPath(p string) bool {
	return p != "" && p == strings.TrimSpace(p) && !strings.Contains(p, "\n")
}

func hasDelimiterLine(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		if line == OpenDelim || strings.HasPrefix(line, CloseDelim) {
			return true
		}
	}
	return false
}
