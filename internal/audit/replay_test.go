package audit

import (
	"strings"
	"testing"
)

func TestReadFiltersAndSummarizes(t *testing.T) {
	l, path := newTestLog(t)
	l.Record(testEntry(1, OutcomeExecuted))
	l.Record(testEntry(1, OutcomeFailed))
	l.Record(testEntry(2, OutcomeCancelled))
	edit := testEntry(1, OutcomeExecuted)
	edit.Action = EntryAction{Kind: "file_edit", Resource: "/w/a.txt"}
	l.Record(edit)
	l.Close()

	all, sum, err := Read(path, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 || sum.Total != 4 || sum.Executed != 2 || sum.Failed != 1 || sum.Cancelled != 1 {
		t.Errorf("unexpected summary %+v", sum)
	}

	chat1, sum1, _ := Read(path, Filter{ChatID: 1})
	if len(chat1) != 3 || sum1.Total != 3 {
		t.Errorf("chat filter: got %d entries", len(chat1))
	}

	edits, _, _ := Read(path, Filter{Kind: "file_edit"})
	if len(edits) != 1 || edits[0].Action.Resource != "/w/a.txt" {
		t.Errorf("kind filter: got %+v", edits)
	}
}

func TestFormatTable(t *testing.T) {
	entries := []Entry{testEntry(9, OutcomeExecuted)}
	out := FormatTable(entries, Summary{Total: 1, Executed: 1})
	for _, want := range []string{"TIME", "git status -sb", "executed", "1 total: 1 executed"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Errorf("got %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Errorf("got %q", got)
	}
}
