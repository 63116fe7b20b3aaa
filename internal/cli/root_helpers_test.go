package cli

import (
	"path/filepath"
	"strings"
	"testing"

	clitestkit "github.com/crmarques/jbossctl/internal/cli/testkit"
	configfile "github.com/crmarques/jbossctl/internal/providers/config/file"
	"github.com/spf13/cobra"
)

func executeForTest(deps Dependencies, stdin string, args ...string) (string, error) {
	return clitestkit.ExecuteCommandForTest(NewRootCommand(deps), stdin, args...)
}

func executeForTestWithStreams(deps Dependencies, stdin string, args ...string) (string, string, error) {
	return clitestkit.ExecuteCommandForTestWithStreams(NewRootCommand(deps), stdin, args...)
}

func registeredPaths(command *cobra.Command, prefix []string) [][]string {
	return clitestkit.RegisteredPaths(command, prefix)
}

// newTestDependencies wires an in-memory management endpoint and a context
// catalog under a temporary directory.
func newTestDependencies(t *testing.T) (Dependencies, *clitestkit.FakeManagement) {
	t.Helper()

	server := clitestkit.NewFakeManagement()
	catalogPath := filepath.Join(t.TempDir(), "contexts.yaml")
	deps := Dependencies{
		Contexts: configfile.NewFileContextService(catalogPath, configfile.WithEnvLookup(func(string) (string, bool) { return "", false })),
		Sessions: &clitestkit.FakeSessions{Client: server},
	}
	return deps, server
}

func joinPath(path []string) string {
	return strings.Join(path, " ")
}
