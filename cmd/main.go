package main

import (
	"context"
	"os"

	"github.com/desertthunder/photoyarn/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "photoyarn",
		Usage:    "Turn a handful of photos into a story",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   r.Configure,
		Commands: r.register(),
	}
}
