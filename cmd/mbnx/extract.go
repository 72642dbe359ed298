package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mbnkit/internal/extract"
	"github.com/samcharles93/mbnkit/internal/mbn"
)

func extractCmd() *cli.Command {
	var (
		outDir  string
		noExtra bool
	)
	return &cli.Command{
		Name:      "extract",
		Usage:     "Write every container record to an output directory",
		ArgsUsage: "<input.mbn>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "path",
				Aliases:     []string{"p"},
				Usage:       "output directory (default: <input dir>/mcfg_sw)",
				Destination: &outDir,
			},
			&cli.BoolFlag{
				Name:        "no-extra-data",
				Usage:       "write file records under their bare names, without type suffixes",
				Destination: &noExtra,
			},
		}, loggingFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return errUsage
			}
			input := cmd.Args().First()
			applyExtractConfig(cmd, loadConfig(), &outDir, &noExtra)
			log := newLog()

			if outDir == "" {
				outDir = defaultOutputDir(input)
			}

			f, err := mbn.Open(input)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			payload, err := f.Payload()
			if err != nil {
				return err
			}

			log.Info("extracting image", "input", input, "output", outDir)
			rep, err := extract.Run(payload, extract.Sink{Dir: outDir}, extract.Options{BareNames: noExtra}, log)
			if err != nil {
				return err
			}
			log.Info("extraction finished", "run", rep.ID, "records", len(rep.Records))
			return nil
		},
	}
}
