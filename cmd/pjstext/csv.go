package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/tomokiyo/pjsbookshelf/pkg/csvnorm"
)

func normalizeCSVCommand() *cli.Command {
	return &cli.Command{
		Name:  "normalize-csv",
		Usage: "normalize a book or member register export",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "input file (default stdin)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file (default stdout)"},
			&cli.StringFlag{Name: "encoding", Usage: "input encoding (default from config)"},
			&cli.StringFlag{Name: "delimiter", Value: ","},
			&cli.BoolFlag{Name: "header", Value: true, Usage: "the first row names the columns"},
			&cli.StringFlag{Name: "book-id-column"},
			&cli.StringFlag{Name: "isbn-column"},
			&cli.StringFlag{Name: "katakana-column"},
			&cli.BoolFlag{Name: "report", Usage: "print the run report as JSON on stderr"},
		},
		Action: func(c *cli.Context) (err error) {
			encoding := c.String("encoding")
			if encoding == "" {
				cfg, err := configFrom(c)
				if err != nil {
					return err
				}
				encoding = cfg.CSVEncoding
			}

			in, err := openInput(c.String("input"))
			if err != nil {
				return err
			}
			defer in.Close()

			var out io.Writer = c.App.Writer
			if path := c.String("output"); path != "" && path != "-" {
				f, cerr := os.Create(path)
				if cerr != nil {
					return errors.WithStack(cerr)
				}
				defer closeWith(&err, f)
				out = f
			}

			report, err := csvnorm.Run(in, out, csvnorm.Options{
				Encoding:       encoding,
				Delimiter:      c.String("delimiter"),
				Header:         c.Bool("header"),
				BookIDColumn:   c.String("book-id-column"),
				ISBNColumn:     c.String("isbn-column"),
				KatakanaColumn: c.String("katakana-column"),
			})
			if err != nil {
				return err
			}

			for _, p := range report.Problems {
				fmt.Fprintf(c.App.ErrWriter, "line %d: %s %q: %s\n", p.Line, p.Column, p.Value, p.Reason)
			}
			if c.Bool("report") {
				return writeJSON(c.App.ErrWriter, report)
			}
			return nil
		},
	}
}

// closeWith closes c and reports its error through err unless err is already
// set. Use it in a defer for files that were written to.
func closeWith(err *error, c io.Closer) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = errors.WithStack(cerr)
	}
}
