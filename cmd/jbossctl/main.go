package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/crmarques/jbossctl/core"
	"github.com/crmarques/jbossctl/internal/cli"
	"github.com/crmarques/jbossctl/internal/cli/version"
	"github.com/crmarques/jbossctl/internal/telemetry"
)

const telemetryShutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	registry := telemetry.NewRegistry()
	bootstrap := core.BootstrapConfig{Registerer: registry}

	if !isShellCompletionInvocation(args) {
		tracerProvider, shutdown, err := telemetry.Init(context.Background(), telemetry.ConfigFromEnv(version.Version, os.LookupEnv))
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			return cli.ExitCodeForError(err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
			defer cancel()
			_ = shutdown(ctx)
		}()
		bootstrap.TracerProvider = tracerProvider
	}

	jbossctlContext := core.NewJbossctlContext(bootstrap)
	err := cli.Execute(cli.Dependencies{
		Contexts: jbossctlContext.Contexts,
		Sessions: jbossctlContext.Sessions,
		Metrics:  registry,
	})
	return cli.ExitCodeForError(err)
}

func isShellCompletionInvocation(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "completion", "__complete", "__completeNoDesc":
		return true
	default:
		return false
	}
}
