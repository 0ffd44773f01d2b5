package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

// resetLogger restores defaults between tests.
func resetLogger() {
	Init(Options{})
}

func TestInitLevels(t *testing.T) {
	t.Run("default hides debug", func(t *testing.T) {
		buf := &bytes.Buffer{}
		Init(Options{Output: buf})
		defer resetLogger()

		Info("visible info")
		Debug("hidden debug")

		out := buf.String()
		if !strings.Contains(out, "visible info") {
			t.Error("expected info at default level")
		}
		if strings.Contains(out, "hidden debug") {
			t.Error("debug should be hidden at default level")
		}
	})

	t.Run("debug enables debug", func(t *testing.T) {
		buf := &bytes.Buffer{}
		Init(Options{Debug: true, Output: buf})
		defer resetLogger()

		Debug("now visible")
		if !strings.Contains(buf.String(), "now visible") {
			t.Error("expected debug message when Debug=true")
		}
	})

	t.Run("quiet shows only errors", func(t *testing.T) {
		buf := &bytes.Buffer{}
		Init(Options{Quiet: true, Output: buf})
		defer resetLogger()

		Info("info gone")
		Warn("warn gone")
		Error("error stays")

		out := buf.String()
		if strings.Contains(out, "info gone") || strings.Contains(out, "warn gone") {
			t.Error("quiet should suppress info and warn")
		}
		if !strings.Contains(out, "error stays") {
			t.Error("quiet should still log errors")
		}
	})

	t.Run("quiet wins over debug", func(t *testing.T) {
		buf := &bytes.Buffer{}
		Init(Options{Debug: true, Quiet: true, Output: buf})
		defer resetLogger()

		Debug("debug gone")
		Error("error stays")

		out := buf.String()
		if strings.Contains(out, "debug gone") {
			t.Error("quiet should win over debug")
		}
		if !strings.Contains(out, "error stays") {
			t.Error("expected error output")
		}
	})
}

func TestInitJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("json message", "rows", 42)

	out := buf.String()
	if !strings.Contains(out, `"msg":"json message"`) {
		t.Errorf("expected JSON-encoded message, got %q", out)
	}
	if !strings.Contains(out, `"rows":42`) {
		t.Errorf("expected structured attribute, got %q", out)
	}
}

func TestWith(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	l := With("run_id", "abc123")
	if l == nil {
		t.Fatal("With returned nil")
	}
	l.Info("tagged")

	out := buf.String()
	if !strings.Contains(out, "run_id") || !strings.Contains(out, "abc123") {
		t.Errorf("expected attribute in output, got %q", out)
	}
}

func TestContextVariants(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	ctx := context.Background()
	DebugContext(ctx, "ctx debug")
	InfoContext(ctx, "ctx info")
	ErrorContext(ctx, "ctx error")

	out := buf.String()
	for _, want := range []string{"ctx debug", "ctx info", "ctx error"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}
