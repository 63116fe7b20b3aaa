package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crmarques/jbossctl/faults"
	"github.com/prometheus/client_golang/prometheus"
)

func TestShouldSuppressStatusMessage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want bool
	}{
		{name: "default false", args: []string{"resource", "apply", "/subsystem=logging"}, want: false},
		{name: "long flag", args: []string{"--no-status", "resource", "apply", "/subsystem=logging"}, want: true},
		{name: "short flag", args: []string{"-n", "resource", "apply", "/subsystem=logging"}, want: true},
		{name: "flag after positionals", args: []string{"resource", "apply", "/subsystem=logging", "--no-status"}, want: true},
		{name: "explicit false", args: []string{"--no-status=false", "resource", "apply", "/subsystem=logging"}, want: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := shouldSuppressStatusMessage(testCase.args)
			if got != testCase.want {
				t.Fatalf("shouldSuppressStatusMessage(%v) = %t, want %t", testCase.args, got, testCase.want)
			}
		})
	}
}

func TestExecutionStatusWriters(t *testing.T) {
	t.Parallel()

	buffer := &bytes.Buffer{}
	writeExecutionOKStatus(buffer)
	if got, want := buffer.String(), "[OK] command executed successfully.\n"; got != want {
		t.Fatalf("writeExecutionOKStatus() = %q, want %q", got, want)
	}

	buffer.Reset()
	writeExecutionErrorStatus(buffer, errors.New("resource not found"))
	if got, want := buffer.String(), "[ERROR] command execution failed: resource not found.\n"; got != want {
		t.Fatalf("writeExecutionErrorStatus() = %q, want %q", got, want)
	}
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "untyped", err: errors.New("boom"), want: 1},
		{name: "validation", err: faults.NewTypedError(faults.ValidationError, "bad", nil), want: 2},
		{name: "malformed path", err: faults.NewTypedError(faults.MalformedPathError, "bad path", nil), want: 2},
		{name: "not found", err: faults.NewTypedError(faults.NotFoundError, "missing", nil), want: 3},
		{name: "auth", err: faults.NewTypedError(faults.AuthError, "denied", nil), want: 4},
		{name: "operation", err: faults.NewTypedError(faults.OperationError, "failed", nil), want: 5},
		{name: "transport", err: faults.NewTypedError(faults.TransportError, "unreachable", nil), want: 6},
		{name: "artifact", err: faults.NewTypedError(faults.ArtifactError, "unreadable", nil), want: 7},
		{name: "internal", err: faults.NewTypedError(faults.InternalError, "bug", nil), want: 1},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := ExitCodeForError(testCase.err); got != testCase.want {
				t.Fatalf("ExitCodeForError(%v) = %d, want %d", testCase.err, got, testCase.want)
			}
		})
	}
}

func TestExecuteEmitsStatusForMutatingCommands(t *testing.T) {
	t.Parallel()

	deps, _ := newTestDependencies(t)

	root := NewRootCommand(deps)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := execute(root, deps, []string{"resource", "apply", "/system-property=a", "--set", "value=b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr.String(), "[OK] command executed successfully.") {
		t.Fatalf("expected OK status, got %q", stderr.String())
	}

	root = NewRootCommand(deps)
	stderr.Reset()
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := execute(root, deps, []string{"resource", "read", "/system-property=a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stderr.Len() != 0 {
		t.Fatalf("expected no status for read commands, got %q", stderr.String())
	}
}

func TestExecuteWritesMetricsFile(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "jbossctl_test_total", Help: "test counter"})
	registry.MustRegister(counter)
	counter.Inc()

	deps, _ := newTestDependencies(t)
	deps.Metrics = registry
	metricsPath := filepath.Join(t.TempDir(), "jbossctl.prom")

	root := NewRootCommand(deps)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := execute(root, deps, []string{"version", "--metrics-file", metricsPath}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("read metrics file: %v", err)
	}
	if !strings.Contains(string(content), "jbossctl_test_total 1") {
		t.Fatalf("expected counter in metrics file, got %q", string(content))
	}
}
