package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Fatalf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, `"key":"value"`) {
		t.Fatalf("expected key/value in output, got: %s", out)
	}
}

func TestJSONLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn)
	log.Info("hidden")
	log.Debug("hidden too")
	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn, got: %s", buf.String())
	}
	log.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn output, got: %s", buf.String())
	}
}

func TestPretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := Pretty(&buf, slog.LevelInfo)
	log.Info("decoded", "name", "abc")

	out := buf.String()
	if !strings.Contains(out, "decoded") {
		t.Fatalf("expected message, got: %s", out)
	}
	if !strings.Contains(out, "name=abc") {
		t.Fatalf("expected attribute, got: %s", out)
	}
}

func TestPrettyQuotesSpacedStrings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := Pretty(&buf, slog.LevelInfo)
	log.Info("m", "k", "two words")
	if !strings.Contains(buf.String(), `k="two words"`) {
		t.Fatalf("expected quoted value, got: %s", buf.String())
	}
}

func TestWith(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo).With("component", "extract")
	log.Info("record")
	if !strings.Contains(buf.String(), `"component":"extract"`) {
		t.Fatalf("expected bound attribute, got: %s", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	ctx := WithContext(context.Background(), log)

	FromContext(ctx).Info("roundtrip")
	if !strings.Contains(buf.String(), "roundtrip") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}
}

func TestFromContextDefault(t *testing.T) {
	t.Parallel()

	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext without a logger returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q): got %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	t.Parallel()

	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestPrettyHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil).WithAttrs([]slog.Attr{slog.String("tool", "mbnx")})
	slog.New(h).Info("bound")
	if !strings.Contains(buf.String(), "tool=mbnx") {
		t.Fatalf("expected handler attribute, got: %s", buf.String())
	}
}
