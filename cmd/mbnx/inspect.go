package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mbnkit/internal/extract"
	"github.com/samcharles93/mbnkit/internal/mbn"
)

func inspectCmd() *cli.Command {
	var asJSON bool
	return &cli.Command{
		Name:      "inspect",
		Usage:     "List container records without writing files",
		ArgsUsage: "<input.mbn>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit the report as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return errUsage
			}
			input := cmd.Args().First()

			f, err := mbn.Open(input)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			payload, err := f.Payload()
			if errors.Is(err, mbn.ErrNotELF) {
				// Bare MCFG containers are accepted as-is.
				payload = f.Data()
			} else if err != nil {
				return err
			}

			rep, err := extract.Inspect(payload, extract.Options{})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}

			fmt.Printf("File: %s\n", input)
			fmt.Printf("carrier=%d | version=%#x | items=%d | records=%d\n",
				rep.CarrierIndex, rep.Version, rep.ItemCount, len(rep.Records))
			for _, rec := range rep.Records {
				fmt.Printf("  %-8s %-48s %d bytes\n", rec.Kind, rec.Name, rec.Size)
			}
			return nil
		},
	}
}
