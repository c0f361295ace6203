package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"vidsum/internal/summary"
)

func TestWriteEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	env := map[string]string{
		"PORT":           "8080",
		"GEMINI_API_KEY": "test-key",
		"UNRELATED":      "ignored",
	}
	if err := writeEnvFile(path, env); err != nil {
		t.Fatalf("writeEnvFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "GEMINI_API_KEY=test-key\nPORT=8080\n"
	if string(data) != want {
		t.Errorf("env file = %q, want %q", string(data), want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("env file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestValidPort(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"5000", false},
		{" 8080 ", false},
		{"0", true},
		{"65536", true},
		{"http", true},
		{"", true},
	}

	for _, tt := range tests {
		if err := validPort(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("validPort(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestRequired(t *testing.T) {
	check := required("Gemini API Key")
	if err := check("  "); err == nil {
		t.Error("expected error for blank value")
	}
	if err := check("abc"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func testResult() *summary.Result {
	return &summary.Result{
		Summary: "A short talk about Go.",
		KeyTakeaways: []summary.Takeaway{
			{Heading: "Simplicity", Content: "Less is exponentially more."},
			{Heading: "Concurrency", Content: "Share memory by communicating."},
		},
	}
}

func TestFormatSummary(t *testing.T) {
	out := formatSummary(testResult())

	for _, want := range []string{"Summary", "A short talk about Go.", "Key takeaways", "1. Simplicity", "2. Concurrency", "Share memory by communicating."} {
		if !strings.Contains(out, want) {
			t.Errorf("formatSummary() missing %q in %q", want, out)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, testResult()); err != nil {
		t.Fatalf("writeJSON() error = %v", err)
	}

	var got summary.Result
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Summary != "A short talk about Go." || len(got.KeyTakeaways) != 2 {
		t.Errorf("writeJSON() round trip = %+v", got)
	}
	if !strings.Contains(buf.String(), `"keyTakeaways"`) {
		t.Errorf("writeJSON() output missing keyTakeaways key: %s", buf.String())
	}
}

func TestNewLogHandler(t *testing.T) {
	defer func() { jsonLogs, verbose = false, false }()

	tests := []struct {
		name     string
		jsonLogs bool
	}{
		{"tint", false},
		{"json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonLogs = tt.jsonLogs
			var buf bytes.Buffer
			slog.New(newLogHandler(&buf)).Info("Summary ready", "video_url", "https://example.com/v.mp4")

			if !strings.Contains(buf.String(), "Summary ready") {
				t.Errorf("log output = %q, want message", buf.String())
			}
			if tt.jsonLogs && !json.Valid(bytes.TrimSpace(buf.Bytes())) {
				t.Errorf("json log line is not JSON: %q", buf.String())
			}
		})
	}
}

func TestSpinWhile(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		fnErr   error
		spinErr error
		wantErr error
	}{
		{"success", nil, nil, nil},
		{"fnFails", errBoom, nil, errBoom},
		{"noTerminal", nil, errors.New("open /dev/tty: no such device"), nil},
		{"noTerminalFnFails", errBoom, errors.New("open /dev/tty: no such device"), errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			fn := func() error {
				calls.Add(1)
				return tt.fnErr
			}
			spin := func(ctx context.Context) error {
				if tt.spinErr != nil {
					return tt.spinErr
				}
				<-ctx.Done()
				return nil
			}

			err := spinWhile("Summarizing", fn, spin)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("spinWhile() error = %v, want %v", err, tt.wantErr)
			}
			if calls.Load() != 1 {
				t.Errorf("fn called %d times, want 1", calls.Load())
			}
		})
	}
}
