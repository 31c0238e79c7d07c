package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	t.Run("writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		logger.Info("hello", "key", "value")

		out := buf.String()
		if !strings.Contains(out, "hello") || !strings.Contains(out, "value") {
			t.Errorf("unexpected log output %q", out)
		}
	})

	t.Run("nil writer defaults to stderr", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("expected a logger")
		}
	})
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	child := WithLogger(logger, "component", "test")
	child.Info("message")

	if !strings.Contains(buf.String(), "component") {
		t.Errorf("expected the bound key in output, got %q", buf.String())
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	SetLogLevel(logger, log.ErrorLevel)
	logger.Info("suppressed")

	if buf.Len() != 0 {
		t.Errorf("expected info output suppressed, got %q", buf.String())
	}

	logger.Error("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected error output, got %q", buf.String())
	}
}

func TestGenerateID(t *testing.T) {
	seen := map[string]bool{}
	for range 10 {
		id := GenerateID()
		if id == "" {
			t.Fatal("expected a non-empty ID")
		}
		if seen[id] {
			t.Fatalf("duplicate ID %s", id)
		}
		seen[id] = true
	}
}
