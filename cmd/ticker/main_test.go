package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TICKER_ENV_FILE", filepath.Join(dir, "missing.env"))

	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("data_source: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("data_source:\n  timeout_seconds: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"-h"}, 0},
		{"help after debug", []string{"-d", "-h"}, 0},
		{"unknown flag", []string{"-x"}, 1},
		{"missing flag value", []string{"-c"}, 1},
		{"debug with unparsable config", []string{"-d", "-c", broken}, 1},
		{"config fails validation", []string{"-c", invalid}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Errorf("run(%q) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

type stubCounter struct {
	n   int
	err error
}

func (s stubCounter) Count() (int, error) { return s.n, s.err }

func TestReportStored(t *testing.T) {
	tests := []struct {
		name      string
		c         stubCounter
		wantLevel string
		wantMsg   string
	}{
		{"count ok", stubCounter{n: 42}, "info", "price log loaded"},
		{"count fails", stubCounter{err: errors.New("database is closed")}, "warn", "count stored prices"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportStored(tt.c, zerolog.New(&buf))

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("decode log line %q: %v", buf.String(), err)
			}
			if entry["level"] != tt.wantLevel || entry["message"] != tt.wantMsg {
				t.Errorf("got level=%v message=%v, want %s %q", entry["level"], entry["message"], tt.wantLevel, tt.wantMsg)
			}
			if tt.c.err != nil && entry["error"] != tt.c.err.Error() {
				t.Errorf("error field = %v, want %q", entry["error"], tt.c.err.Error())
			}
		})
	}
}
