package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"doc-reader/internal/app"
	"doc-reader/internal/docreader"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
	code := run(ctx, deps, os.Stdin, os.Stdout)
	stop()
	os.Exit(code)
}

// run executes one session and maps its outcome to an exit status.
func run(ctx context.Context, deps app.Deps, in io.Reader, out io.Writer) int {
	log := deps.Log.With("run_id", uuid.NewString())
	log.Info("session starting", "provider", deps.Config.LLMProvider)

	sess := docreader.NewSession(docreader.Options{
		In:             in,
		Out:            out,
		Log:            log,
		Credentials:    deps.Config,
		NewLLM:         deps.NewLLM,
		Extractor:      deps.Extractor,
		MaxInputTokens: deps.Config.MaxInputTokens,
	})
	if err := sess.Run(ctx); err != nil {
		log.Debug("session ended with failure", "kind", docreader.KindOf(err))
		return 1
	}
	return 0
}
