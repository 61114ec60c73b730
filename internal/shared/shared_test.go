package shared

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestShared(t *testing.T) {
	t.Run("NewLogger writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("quota reset", "remaining", 20)

		if !strings.Contains(buf.String(), "quota reset") {
			t.Errorf("expected log line, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "tui.log")
		logger, closer, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		defer closer.Close()
		logger.Warn("hello")
	})

	t.Run("ParseLogLevel", func(t *testing.T) {
		if ParseLogLevel("debug") != log.DebugLevel {
			t.Error("expected debug level")
		}
		if ParseLogLevel("nonsense") != log.InfoLevel {
			t.Error("expected info fallback")
		}
	})

	t.Run("GenerateID is unique", func(t *testing.T) {
		a, b := GenerateID(), GenerateID()
		if a == b || len(a) != 36 {
			t.Errorf("unexpected ids %q %q", a, b)
		}
	})

	t.Run("Today uses local calendar date", func(t *testing.T) {
		ts := time.Date(2025, 3, 9, 23, 30, 0, 0, time.Local)
		if got := Today(ts); got != "2025-03-09" {
			t.Errorf("expected 2025-03-09, got %s", got)
		}
	})

	t.Run("browserCommand", func(t *testing.T) {
		orig := getRuntime
		defer func() { getRuntime = orig }()

		for _, rt := range []string{"darwin", "linux", "windows"} {
			getRuntime = func() string { return rt }
			if _, err := browserCommand("http://127.0.0.1:3000"); err != nil {
				t.Errorf("%s: unexpected error %v", rt, err)
			}
		}

		getRuntime = func() string { return "plan9" }
		if _, err := browserCommand("http://127.0.0.1:3000"); !errors.Is(err, ErrNotImplemented) {
			t.Errorf("expected ErrNotImplemented, got %v", err)
		}
	})
}
