package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/tgagent/internal/audit"
	"github.com/ppiankov/tgagent/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	commandsConfig, commandsJSON = "", false
	showChat, showKind, showJSON = 0, "", false
	t.Setenv(config.EnvConfig, "")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("bad json %q: %v", out, err)
	}
	if info["name"] != "tgagent" || info["version"] != version {
		t.Errorf("info = %v", info)
	}
}

func TestCommandsDefault(t *testing.T) {
	out, err := execute(t, "commands")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "status") || !strings.Contains(out, "git status -sb") {
		t.Errorf("missing default command in %q", out)
	}
}

func TestCommandsJSONFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("commands:\n  hello: [echo, hi]\n"), 0600); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "commands", "--json", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []commandEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("bad json %q: %v", out, err)
	}
	if len(entries) != 1 || entries[0].Key != "hello" || strings.Join(entries[0].Argv, " ") != "echo hi" {
		t.Errorf("entries = %+v", entries)
	}
}

func writeAudit(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	log, err := audit.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()
	entries := []audit.Entry{
		{PlanID: "p1", ChatID: 1, Action: audit.EntryAction{Kind: "command", Resource: "git status -sb"}, Outcome: audit.OutcomeExecuted},
		{PlanID: "p2", ChatID: 2, Action: audit.EntryAction{Kind: "file_edit", Resource: "/w/a.txt"}, Outcome: audit.OutcomeCancelled},
	}
	for _, e := range entries {
		if err := log.Record(e); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestAuditVerify(t *testing.T) {
	path := writeAudit(t)
	out, err := execute(t, "audit", "verify", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "OK: 2 entries verified") {
		t.Errorf("out = %q", out)
	}
}

func TestAuditVerifyTampered(t *testing.T) {
	path := writeAudit(t)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tampered := strings.Replace(string(data), "git status -sb", "rm -rf /", 1)
	if err := os.WriteFile(path, []byte(tampered), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "audit", "verify", path); err == nil {
		t.Fatal("expected verification failure")
	}
}

func TestAuditShowFiltered(t *testing.T) {
	path := writeAudit(t)
	out, err := execute(t, "audit", "show", "--kind", "file_edit", path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "git status") {
		t.Errorf("filter not applied: %q", out)
	}
	if !strings.Contains(out, "1 total: 0 executed, 0 failed, 1 cancelled") {
		t.Errorf("out = %q", out)
	}
}

func TestAuditShowJSON(t *testing.T) {
	path := writeAudit(t)
	out, err := execute(t, "audit", "show", "--json", path)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Entries []audit.Entry `json:"entries"`
		Summary audit.Summary `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("bad json %q: %v", out, err)
	}
	if doc.Summary.Total != 2 || len(doc.Entries) != 2 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(&buf, "debug", "json")
	if err != nil {
		t.Fatal(err)
	}
	log.WithField("chat_id", 5).Debug("hello")
	if !strings.Contains(buf.String(), `"chat_id":5`) {
		t.Errorf("out = %q", buf.String())
	}

	if _, err := newLogger(&buf, "loud", "text"); err == nil {
		t.Error("expected error for bad level")
	}
	if _, err := newLogger(&buf, "info", "xml"); err == nil {
		t.Error("expected error for bad format")
	}
}

func TestSystemdUnit(t *testing.T) {
	out, err := execute(t, "systemd", "--workspace", "/srv/app")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "WorkingDirectory=/srv/app\n") || !strings.Contains(out, "ExecStart=/usr/local/bin/tgagent run\n") {
		t.Errorf("unexpected unit:\n%s", out)
	}
}
