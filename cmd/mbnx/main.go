package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mbnkit/internal/mbn"
	"github.com/samcharles93/mbnkit/pkg/mcfg"
)

// errUsage marks a missing input argument. It maps to the same exit
// status as a malformed image so scripts see a single "bad input" code.
var errUsage = errors.New("mbnx: input image path required")

func main() {
	app := &cli.Command{
		Name:  "mbnx",
		Usage: "Extract and inspect MCFG carrier configuration in MBN firmware images",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			extractCmd(),
			inspectCmd(),
			serveCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates bad input (2) from tooling faults (1).
func exitCode(err error) int {
	switch {
	case errors.Is(err, errUsage),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, mcfg.ErrFormat),
		errors.Is(err, mbn.ErrNotELF),
		errors.Is(err, mbn.ErrNoConfigSegment):
		return 2
	default:
		return 1
	}
}
