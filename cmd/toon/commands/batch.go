package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/KimNorgaard/go-toon"
)

// NewBatchCommand returns a cli.Command for "toon batch".
func NewBatchCommand(s *streams) *cli.Command {
	cmd := cli.Command{
		Name:      "batch",
		Usage:     "Convert every matching file of a directory.",
		UsageText: `toon batch [options] input-dir output-dir`,
		Description: `The batch command converts the files of input-dir matching a pattern
(by default every file carrying the source extension) and writes the results
to output-dir, which is created if needed. Files are converted concurrently:

$ toon batch --from json --to toon data/ out/
converted 12 files

Existing output files are replaced.`,
		Flags: formatFlags(
			&cli.StringFlag{
				Name:  "from",
				Value: "json",
				Usage: "format of the input files: json or toon",
			},
			&cli.StringFlag{
				Name:  "to",
				Value: "toon",
				Usage: "format of the output files: json or toon",
			},
			&cli.StringFlag{
				Name:    "pattern",
				Aliases: []string{"p"},
				Usage:   "glob selecting the input files. Defaults to *.<from>",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   runtime.NumCPU(),
				Usage:   "number of files converted at the same time",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log every converted file",
			},
		),
	}

	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 2 {
			return errors.New(cmd.UsageText)
		}
		opts, err := options(cmd)
		if err != nil {
			return err
		}
		b := batch{
			from:    toon.Format(cmd.String("from")),
			to:      toon.Format(cmd.String("to")),
			pattern: cmd.String("pattern"),
			jobs:    cmd.Int("jobs"),
			opts:    opts,
			logger:  newLogger(s, cmd.Bool("verbose")),
		}
		n, err := b.run(ctx, cmd.Args().Get(0), cmd.Args().Get(1))
		if err != nil {
			return err
		}
		return s.printf("converted %d files", n)
	}

	return &cmd
}

func newLogger(s *streams, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(s.err, &slog.HandlerOptions{Level: level}))
}

type batch struct {
	from, to toon.Format
	pattern  string
	jobs     int
	opts     []toon.Option
	logger   *slog.Logger
}

// run converts the matching files of inDir into outDir and returns how many
// were converted. The first failure cancels the remaining conversions.
func (b *batch) run(ctx context.Context, inDir, outDir string) (int, error) {
	if err := b.check(); err != nil {
		return 0, err
	}
	pattern := b.pattern
	if pattern == "" {
		pattern = "*." + string(b.from)
	}
	files, err := filepath.Glob(filepath.Join(inDir, pattern))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid pattern %q", pattern)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return 0, errors.Newf("no files matching %q in %s", pattern, inDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, errors.Wrapf(err, "creating %s", outDir)
	}

	var converted atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.jobs, 1))
	for _, src := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
			dst := filepath.Join(outDir, base+"."+string(b.to))
			if err := b.convertFile(src, dst); err != nil {
				b.logger.Error("conversion failed", "src", src, "err", err)
				return errors.Wrapf(err, "converting %s", src)
			}
			b.logger.Info("converted", "src", src, "dst", dst)
			converted.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(converted.Load()), err
	}
	return int(converted.Load()), nil
}

func (b *batch) check() error {
	for _, f := range []toon.Format{b.from, b.to} {
		if f != toon.FormatJSON && f != toon.FormatTOON {
			return errors.Newf("unknown format %q, expected json or toon", f)
		}
	}
	if b.from == b.to {
		return errors.Newf("--from and --to are both %s", b.from)
	}
	return nil
}

func (b *batch) convertFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	var out []byte
	if b.from == toon.FormatJSON {
		v, err := toon.FromJSON(data)
		if err != nil {
			return err
		}
		out, err = toon.Stringify(v, b.opts...)
		if err != nil {
			return err
		}
	} else {
		v, err := toon.Parse(data, b.opts...)
		if err != nil {
			return err
		}
		out, err = toon.ToJSON(v, "  ")
		if err != nil {
			return err
		}
	}
	return writeFile(dst, append(out, '\n'), true)
}
