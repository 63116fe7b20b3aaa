package debugctx

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestPrintfRespectsVerbosity(t *testing.T) {
	t.Parallel()

	t.Run("disabled_without_logger", func(t *testing.T) {
		t.Parallel()

		if Enabled(context.Background()) {
			t.Fatalf("expected debug output disabled without logger")
		}
		Printf(context.Background(), "ignored %d", 1)
	})

	t.Run("info_only_logger_skips_debug", func(t *testing.T) {
		t.Parallel()

		buffer := &bytes.Buffer{}
		ctx := WithLogger(context.Background(), NewLogger(buffer, 0))
		Printf(ctx, "hidden")
		if buffer.Len() != 0 {
			t.Fatalf("expected no debug output at verbosity 0, got %q", buffer.String())
		}
	})

	t.Run("debug_logger_writes_lines", func(t *testing.T) {
		t.Parallel()

		buffer := &bytes.Buffer{}
		ctx := WithLogger(context.Background(), NewLogger(buffer, 1))
		ctx = WithInvocationID(ctx, "inv-1")
		Printf(ctx, "read-resource address=%q", "/subsystem=datasources")

		output := buffer.String()
		if !strings.HasPrefix(output, "debug: ") {
			t.Fatalf("expected debug prefix, got %q", output)
		}
		if !strings.Contains(output, "read-resource") || !strings.Contains(output, "inv-1") {
			t.Fatalf("expected message and invocation id in output, got %q", output)
		}
		if InvocationID(ctx) != "inv-1" {
			t.Fatalf("expected invocation id to round trip, got %q", InvocationID(ctx))
		}
	})

	t.Run("info_lines_are_not_labelled_debug", func(t *testing.T) {
		t.Parallel()

		buffer := &bytes.Buffer{}
		logger := NewLogger(buffer, 0)
		logger.Info("resource added", "path", "/system-property=app.env")
		logger.V(debugLevel).Info("hidden")

		output := buffer.String()
		if !strings.HasPrefix(output, "info: ") || strings.Contains(output, "debug:") {
			t.Fatalf("expected a single info line, got %q", output)
		}
		if strings.Contains(output, "hidden") || strings.Contains(output, "level") {
			t.Fatalf("unexpected output %q", output)
		}
	})
}
