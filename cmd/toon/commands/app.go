package commands

import (
	"io"

	"github.com/urfave/cli/v3"
)

// NewApp creates the toon CLI app. Commands read from in when no file is
// given, write results to out and log to errOut.
func NewApp(in io.Reader, out, errOut io.Writer) *cli.Command {
	s := &streams{in: in, out: out, err: errOut}
	return &cli.Command{
		Name:      "toon",
		Usage:     "Convert between JSON and TOON",
		Writer:    out,
		ErrWriter: errOut,
		Commands: []*cli.Command{
			NewParseCommand(s),
			NewStringifyCommand(s),
			NewValidateCommand(s),
			NewDetectCommand(s),
			NewConvertCommand(s),
			NewBatchCommand(s),
			NewStatsCommand(s),
		},
	}
}
