package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/calcform/internal/cli"
)

// main is the entrypoint for the calcform application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

// run executes the CLI and maps its error to a process exit code.
func run(outW, errW io.Writer, args []string) int {
	err := cli.Execute(context.Background(), args, outW, errW)
	if err == nil {
		return 0
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(errW, exitErr.Message)
		return exitErr.Code
	}
	fmt.Fprintln(errW, err)
	return 1
}
