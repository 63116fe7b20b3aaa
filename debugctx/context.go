package debugctx

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

const debugLevel = 1

type invocationKey struct{}

// NewLogger builds a line-oriented logger writing to w. Verbosity 0 emits
// info lines only; verbosity 1 also emits debug lines. Each line is labelled
// with its level.
func NewLogger(w io.Writer, verbosity int) logr.Logger {
	if w == nil {
		return logr.Discard()
	}

	return logr.New(&lineSink{
		Formatter: funcr.NewFormatter(funcr.Options{Verbosity: verbosity, LogInfoLevel: new(string)}),
		w:         w,
	})
}

type lineSink struct {
	funcr.Formatter
	w io.Writer
}

var _ logr.LogSink = (*lineSink)(nil)

func (s lineSink) WithName(name string) logr.LogSink {
	s.AddName(name)
	return &s
}

func (s lineSink) WithValues(kvList ...any) logr.LogSink {
	s.AddValues(kvList)
	return &s
}

func (s lineSink) Info(level int, msg string, kvList ...any) {
	prefix, args := s.FormatInfo(level, msg, kvList)
	label := "info"
	if level >= debugLevel {
		label = "debug"
	}
	s.write(label, prefix, args)
}

func (s lineSink) Error(err error, msg string, kvList ...any) {
	prefix, args := s.FormatError(err, msg, kvList)
	s.write("error", prefix, args)
}

func (s lineSink) write(label string, prefix string, args string) {
	line := strings.TrimSpace(args)
	if prefix != "" {
		line = prefix + " " + line
	}
	_, _ = fmt.Fprintf(s.w, "%s: %s\n", label, line)
}

func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

func Logger(ctx context.Context) logr.Logger {
	if ctx == nil {
		return logr.Discard()
	}
	return logr.FromContextOrDiscard(ctx)
}

func Enabled(ctx context.Context) bool {
	return Logger(ctx).V(debugLevel).Enabled()
}

// WithInvocationID stores id on ctx and attaches it to the context logger.
func WithInvocationID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, invocationKey{}, id)
	return WithLogger(ctx, Logger(ctx).WithValues("invocation", id))
}

func InvocationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(invocationKey{}).(string)
	return id
}

func Printf(ctx context.Context, format string, args ...any) {
	if !Enabled(ctx) {
		return
	}

	message := strings.TrimSpace(fmt.Sprintf(format, args...))
	if message == "" {
		return
	}

	Logger(ctx).V(debugLevel).Info(message)
}
