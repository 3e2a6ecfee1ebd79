package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/KimNorgaard/go-toon"
)

// NewParseCommand returns a cli.Command for "toon parse".
func NewParseCommand(s *streams) *cli.Command {
	cmd := cli.Command{
		Name:      "parse",
		Usage:     "Convert a TOON document to JSON.",
		UsageText: `toon parse [options] [file]`,
		Description: `The parse command reads a TOON document from a file, or from the
standard input when no file is given, and prints it as indented JSON:

$ printf 'users[1]{id,name}:\n  1,Alice' | toon parse
{
  "users": [
    {
      "id": 1,
      "name": "Alice"
    }
  ]
}`,
		Flags: formatFlags(
			&cli.StringFlag{
				Name:  "unflatten",
				Usage: "rebuild nested objects from table fields joined by this separator",
			},
		),
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
		v, err := toon.Parse(data, opts...)
		if err != nil {
			return err
		}
		out, err := toon.ToJSON(v, "  ")
		if err != nil {
			return err
		}
		return s.print(out)
	}

	return &cmd
}

// NewStringifyCommand returns a cli.Command for "toon stringify".
func NewStringifyCommand(s *streams) *cli.Command {
	cmd := cli.Command{
		Name:      "stringify",
		Usage:     "Convert a JSON document to TOON.",
		UsageText: `toon stringify [options] [file]`,
		Description: `The stringify command reads a JSON document and prints it as TOON.
Nested objects inside table rows can be flattened into dotted fields:

$ echo '{"users":[{"id":1,"address":{"city":"NYC"}}]}' | toon stringify --flatten .
users[1]{id,address.city}:
  1,NYC`,
		Flags: formatFlags(
			&cli.StringFlag{
				Name:  "flatten",
				Usage: "flatten nested objects in table rows, joining keys with this separator",
			},
			&cli.IntFlag{
				Name:  "flatten-depth",
				Usage: "maximum number of parts in a flattened key, 0 for no limit",
			},
		),
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
		v, err := toon.FromJSON(data)
		if err != nil {
			return err
		}
		out, err := toon.Stringify(v, opts...)
		if err != nil {
			return err
		}
		return s.print(out)
	}

	return &cmd
}

// NewDetectCommand returns a cli.Command for "toon detect".
func NewDetectCommand(s *streams) *cli.Command {
	return &cli.Command{
		Name:      "detect",
		Usage:     "Print the format of a document: json, toon or unknown.",
		UsageText: `toon detect [file]`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			data, err := s.read(cmd.Args().First())
			if err != nil {
				return err
			}
			return s.print([]byte(toon.DetectFormat(data)))
		},
	}
}

// NewConvertCommand returns a cli.Command for "toon convert".
func NewConvertCommand(s *streams) *cli.Command {
	cmd := cli.Command{
		Name:      "convert",
		Usage:     "Detect the format of a document and convert it to the other one.",
		UsageText: `toon convert [options] [file]`,
		Description: `The convert command turns TOON into JSON and JSON into TOON.

By default, the result is sent to the standard output. With -o it is written
to a file instead; missing directories are created and an existing file is
only replaced with --force:

$ toon convert -o out/users.json users.toon`,
		Flags: formatFlags(
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "name of the file to write to. Defaults to STDOUT.",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "overwrite the output file if it exists",
			},
		),
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
		conv, err := toon.AutoConvert(data, opts...)
		if err != nil {
			return err
		}

		output := cmd.String("output")
		if output == "" {
			return s.print([]byte(conv.Output))
		}
		if err := writeFile(output, []byte(conv.Output+"\n"), cmd.Bool("force")); err != nil {
			return err
		}
		return s.printf("converted %s to %s: %s", conv.ConvertedFrom, conv.ConvertedTo, output)
	}

	return &cmd
}
