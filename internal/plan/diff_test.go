package plan

import (
	"strings"
	"testing"
)

func TestUnifiedDiffIdentical(t *testing.T) {
	d, err := UnifiedDiff("f", "a\nb\n", "a\nb\n")
	if err != nil {
		t.Fatal(err)
	}
	if d != NoChanges {
		t.Errorf("expected NoChanges, got %q", d)
	}
}

func TestUnifiedDiffReplaceLine(t *testing.T) {
	d, err := UnifiedDiff("a.txt", "hello\n", "goodbye\n")
	if err != nil {
		t.Fatal(err)
	}
	want := "--- a.txt\n+++ a.txt\n@@ -1 +1 @@\n-hello\n+goodbye"
	if d != want {
		t.Errorf("got:\n%s\nwant:\n%s", d, want)
	}
}

func TestUnifiedDiffFromEmpty(t *testing.T) {
	d, err := UnifiedDiff("new.txt", "", "one\ntwo\n")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(d, "+one\n+two") {
		t.Errorf("unexpected diff:\n%s", d)
	}
}

func TestUnifiedDiffKeepsContext(t *testing.T) {
	old := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n"
	updated := "1\n2\n3\n4\nfive\n6\n7\n8\n9\n10\n"
	d, err := UnifiedDiff("n", old, updated)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(d, "@@ -2,7 +2,7 @@") {
		t.Errorf("expected 3 lines of context:\n%s", d)
	}
	if strings.Contains(d, " 1\n") || strings.Contains(d, " 10") {
		t.Errorf("context exceeded 3 lines:\n%s", d)
	}
}

func TestSplitLines(t *testing.T) {
	tests := map[string][]string{
		"":         nil,
		"a":        {"a\n"},
		"a\n":      {"a\n"},
		"a\r\nb":   {"a\n", "b\n"},
		"a\n\nb\n": {"a\n", "\n", "b\n"},
	}
	for in, want := range tests {
		got := splitLines(in)
		if strings.Join(got, "|") != strings.Join(want, "|") || len(got) != len(want) {
			t.Errorf("splitLines(%q) = %q, want %q", in, got, want)
		}
	}
}
