package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/KimNorgaard/go-toon"
)

// ErrInvalid is returned when the input was read but found invalid. The
// process exits with status 1 for it.
var ErrInvalid = errors.New("invalid input")

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// read returns the content of path, or of the standard input when path is
// empty or "-".
func (s *streams) read(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(s.in)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}

// print writes data followed by a newline.
func (s *streams) print(data []byte) error {
	if _, err := s.out.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(s.out, "\n")
	return err
}

func (s *streams) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(s.out, format+"\n", args...)
	return err
}

// writeFile writes data to path, creating missing parent directories. An
// existing file is only replaced when force is set.
func writeFile(path string, data []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.Newf("%s already exists, use --force to overwrite it", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "writing %s", path)
}

// formatFlags returns the flags shared by the converting commands followed
// by extra.
func formatFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "indent",
			Aliases: []string{"i"},
			Value:   2,
			Usage:   "spaces per nesting level",
		},
		&cli.StringFlag{
			Name:    "delimiter",
			Aliases: []string{"d"},
			Value:   ",",
			Usage:   `row cell delimiter, a single character or "tab"`,
		},
	}
	return append(flags, extra...)
}

// options maps the formatting flags of cmd onto toon options.
func options(cmd *cli.Command) ([]toon.Option, error) {
	opts := []toon.Option{toon.Indent(cmd.Int("indent"))}

	d := cmd.String("delimiter")
	if d == "tab" || d == `\t` {
		d = "\t"
	}
	r, size := utf8.DecodeRuneInString(d)
	if d == "" || size != len(d) {
		return nil, errors.Newf("delimiter must be a single character, got %q", d)
	}
	opts = append(opts, toon.Delimiter(r))

	if cmd.IsSet("flatten") {
		opts = append(opts, toon.FlattenKeys(cmd.String("flatten"), cmd.Int("flatten-depth")))
	}
	if cmd.IsSet("unflatten") {
		opts = append(opts, toon.UnflattenKeys(cmd.String("unflatten")))
	}
	return opts, nil
}
