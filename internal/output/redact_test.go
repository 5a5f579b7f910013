package output

import (
	"strings"
	"testing"
)

func TestRedactAPIKeys(t *testing.T) {
	in := "key: sk-or-v1-abcdefghijklmnopqrstuvwxyz0123\nother: gsk_abcdefghijklmnopqrstuvwx"
	got, n := Redact(in)
	if n != 2 {
		t.Fatalf("expected 2 secrets, got %d (%q)", n, got)
	}
	if strings.Contains(got, "abcdefghijklmnop") {
		t.Errorf("secret leaked: %q", got)
	}
}

func TestRedactTelegramToken(t *testing.T) {
	got, n := Redact("token=123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsawQ")
	if n == 0 || strings.Contains(got, "AAHdqTcv") {
		t.Errorf("bot token not redacted: %q", got)
	}
}

func TestRedactEnvLines(t *testing.T) {
	in := "PATH=/usr/bin\nTELEGRAM_BOT_TOKEN=x\nOPENROUTER_API_KEY=y\nHOME=/root"
	got, n := Redact(in)
	if n != 2 {
		t.Fatalf("expected 2 env lines, got %d", n)
	}
	want := "PATH=/usr/bin\n[REDACTED]\nHOME=/root"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRedactCleanOutput(t *testing.T) {
	in := "## main...origin/main\n M README.md"
	got, n := Redact(in)
	if n != 0 || got != in {
		t.Errorf("clean output changed: %q (%d)", got, n)
	}
}
