package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// Filter selects entries for Read. Zero fields match everything.
type Filter struct {
	ChatID int64
	Kind   string
}

// Summary counts entries by outcome.
type Summary struct {
	Total     int `json:"total"`
	Executed  int `json:"executed"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
}

// Read returns the entries in path matching filter, oldest first.
func Read(path string, filter Filter) ([]Entry, Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var (
		entries []Entry
		sum     Summary
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		if filter.ChatID != 0 && e.ChatID != filter.ChatID {
			continue
		}
		if filter.Kind != "" && e.Action.Kind != filter.Kind {
			continue
		}
		entries = append(entries, e)
		sum.Total++
		switch e.Outcome {
		case OutcomeExecuted:
			sum.Executed++
		case OutcomeFailed:
			sum.Failed++
		case OutcomeCancelled:
			sum.Cancelled++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, Summary{}, fmt.Errorf("scan audit log: %w", err)
	}
	return entries, sum, nil
}

// FormatTable renders entries as an aligned text table followed by totals.
func FormatTable(entries []Entry, sum Summary) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCHAT\tKIND\tOUTCOME\tRESOURCE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", e.Timestamp, e.ChatID, e.Action.Kind, e.Outcome, truncate(e.Action.Resource, 60))
	}
	w.Flush()
	fmt.Fprintf(&b, "\n%d total: %d executed, %d failed, %d cancelled\n", sum.Total, sum.Executed, sum.Failed, sum.Cancelled)
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
