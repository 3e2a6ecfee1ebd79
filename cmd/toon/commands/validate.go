package commands

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/KimNorgaard/go-toon"
)

// NewValidateCommand returns a cli.Command for "toon validate".
func NewValidateCommand(s *streams) *cli.Command {
	cmd := cli.Command{
		Name:      "validate",
		Usage:     "Check that a document is well-formed TOON.",
		UsageText: `toon validate [options] [file]`,
		Description: `The validate command prints the outcome as JSON and exits with status 1
when the document is invalid:

$ printf 'items[2]{id}:\n  1' | toon validate
{"valid":false,"error":"toon: parsing error at line 1: array \"items\" declared 2 rows, found 1: array count mismatch"}`,
		Flags: formatFlags(),
	}

	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		opts, err := options(cmd)
		if err != nil {
			return err
		}
		data, err := s.read(cmd.Args().First())
		if err != nil {
			return err
		}
		res := toon.Validate(data, opts...)
		out, err := json.Marshal(res)
		if err != nil {
			return err
		}
		if err := s.print(out); err != nil {
			return err
		}
		if !res.Valid {
			return errors.Wrap(ErrInvalid, res.Error)
		}
		return nil
	}

	return &cmd
}

type statsReport struct {
	Format toon.Format `json:"format"`
	toon.Stats
}

// NewStatsCommand returns a cli.Command for "toon stats".
func NewStatsCommand(s *streams) *cli.Command {
	cmd := cli.Command{
		Name:      "stats",
		Usage:     "Print statistics about the top-level arrays of a document.",
		UsageText: `toon stats [options] [file]`,
		Description: `The stats command accepts TOON or JSON and prints, as JSON, the detected
format and the length and fields of each array stored under the root object:

$ toon stats users.toon
{
  "format": "toon",
  "arrays": {
    "users": {
      "count": 2,
      "fields": ["id", "name"]
    }
  },
  ...
}`,
		Flags: formatFlags(),
	}

	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		opts, err := options(cmd)
		if err != nil {
			return err
		}
		data, err := s.read(cmd.Args().First())
		if err != nil {
			return err
		}

		report := statsReport{Format: toon.DetectFormat(data)}
		var v toon.Value
		switch report.Format {
		case toon.FormatJSON:
			v, err = toon.FromJSON(data)
		case toon.FormatTOON:
			v, err = toon.Parse(data, opts...)
		default:
			return errors.Wrap(toon.ErrFormatUndetected, "input is neither JSON nor TOON")
		}
		if err != nil {
			return err
		}
		report.Stats = toon.Inspect(v)

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		return s.print(out)
	}

	return &cmd
}
