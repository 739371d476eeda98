package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/stlm-deploy/internal/cli"
	"github.com/trebuchet-org/stlm-deploy/internal/cli/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cli.NewRootCmd(), os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command tree and returns the process exit code
func run(ctx context.Context, rootCmd *cobra.Command, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(stderr, render.FormatError(fmt.Sprintf("unexpected failure: %v", r)))
			code = 1
		}
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var reported *cli.ReportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(stderr, render.FormatError(err.Error()))
		}
		return 1
	}
	return 0
}
