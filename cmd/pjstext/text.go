package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli/v2"

	"github.com/tomokiyo/pjsbookshelf/pkg/glossary"
	"github.com/tomokiyo/pjsbookshelf/pkg/jatext"
	"github.com/tomokiyo/pjsbookshelf/pkg/lookup"
	"github.com/tomokiyo/pjsbookshelf/pkg/query"
)

// eachInput calls fn with every argument, or with every stdin line when
// there are none.
func eachInput(c *cli.Context, fn func(string) error) error {
	if c.NArg() > 0 {
		for _, arg := range c.Args().Slice() {
			if err := fn(arg); err != nil {
				return err
			}
		}
		return nil
	}
	sc := bufio.NewScanner(c.App.Reader)
	for sc.Scan() {
		if err := fn(sc.Text()); err != nil {
			return err
		}
	}
	return errors.WithStack(sc.Err())
}

func normalizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "normalize",
		Usage:     "normalize the arguments, or stdin line by line",
		ArgsUsage: "[text...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mode",
				Usage: "one of " + strings.Join(jatext.NormalizerModes, ", "),
				Value: "canonical",
			},
		},
		Action: func(c *cli.Context) error {
			mode := c.String("mode")
			if !jatext.IsNormalizerMode(mode) {
				return errors.Errorf("unknown mode %q", mode)
			}
			normalize := jatext.GetNormalizer(mode)
			return eachInput(c, func(s string) error {
				_, err := fmt.Fprintln(c.App.Writer, normalize(s))
				return err
			})
		},
	}
}

func readingCommand() *cli.Command {
	return &cli.Command{
		Name:      "reading",
		Usage:     "print the katakana reading of the arguments, or of stdin line by line",
		ArgsUsage: "[text...]",
		Action: func(c *cli.Context) error {
			cfg, err := configFrom(c)
			if err != nil {
				return err
			}
			if !cfg.ReadingEnabled {
				return errors.New("reading is disabled in the config")
			}
			reg, err := loadGlossaries(cfg)
			if err != nil {
				return err
			}
			reader, err := newReader(cfg, reg)
			if err != nil {
				return err
			}
			return eachInput(c, func(s string) error {
				_, err := fmt.Fprintln(c.App.Writer, reader.Katakana(s))
				return err
			})
		},
	}
}

type compileOutput struct {
	Query      string            `json:"query"`
	Target     string            `json:"target"`
	Predicates []query.Predicate `json:"predicates"`
	Where      string            `json:"where"`
	Args       []any             `json:"args"`
	NamedWhere string            `json:"named_where"`
	NamedArgs  map[string]any    `json:"named_args"`
}

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "compile a search box query and print its WHERE clause",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "target", Value: string(query.TargetBooks), Usage: "books or members"},
			&cli.StringFlag{Name: "placeholder", Usage: "question or dollar (default from config)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("compile takes exactly one query argument")
			}
			placeholder := c.String("placeholder")
			if placeholder == "" {
				cfg, err := configFrom(c)
				if err != nil {
					return err
				}
				placeholder = cfg.Placeholder
			}
			style, err := lookup.ParsePlaceholder(placeholder)
			if err != nil {
				return err
			}
			raw := c.Args().First()
			cq, err := query.CompileFor(query.Target(c.String("target")), raw)
			if err != nil {
				return err
			}
			where, args := lookup.Where(cq, style)
			namedWhere, namedArgs := lookup.NamedWhere(cq)
			out := compileOutput{
				Query:      jatext.Normalize(raw),
				Target:     c.String("target"),
				Predicates: cq.Predicates,
				Where:      where,
				Args:       args,
				NamedWhere: namedWhere,
				NamedArgs:  namedArgs,
			}
			return writeJSON(c.App.Writer, out)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return errors.WithStack(err)
}

func glossaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "glossary",
		Usage: "manage glossary directories",
		Subcommands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "write a manifest for a CSV glossary",
				ArgsUsage: "<dir>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Required: true},
					&cli.StringFlag{Name: "entity-type", Required: true},
					&cli.StringFlag{Name: "source"},
					&cli.StringFlag{Name: "license"},
					&cli.StringFlag{Name: "key-column", Value: "name"},
					&cli.StringFlag{Name: "reading-column", Usage: "column holding the katakana reading"},
					&cli.StringFlag{Name: "encoding", Value: "utf-8"},
					&cli.StringFlag{Name: "normalize", Value: "canonical"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("glossary init takes the glossary directory")
					}
					m := &glossary.Manifest{
						ID:         c.String("id"),
						Version:    "1",
						EntityType: c.String("entity-type"),
						Source:     c.String("source"),
						License:    c.String("license"),
						DataFile:   "data.csv",
						CSV: glossary.CSVFormat{
							Delimiter: ",",
							Encoding:  c.String("encoding"),
							HasHeader: true,
							KeyColumn: c.String("key-column"),
							Normalize: c.String("normalize"),
						},
					}
					if col := c.String("reading-column"); col != "" {
						m.Columns = []glossary.ColumnMapping{{Name: glossary.ReadingKey, Column: col}}
					}
					return glossary.WriteManifest(c.Args().First(), m)
				},
			},
			{
				Name:      "compile",
				Usage:     "build the gob cache of a CSV glossary",
				ArgsUsage: "<dir>...",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return errors.New("glossary compile takes at least one directory")
					}
					for _, dir := range c.Args().Slice() {
						d, err := glossary.Compile(dir)
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "%s: %d entries\n", d.Manifest.ID, len(d.Entries))
					}
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list the glossaries of the configured directory",
				Action: func(c *cli.Context) error {
					cfg, err := configFrom(c)
					if err != nil {
						return err
					}
					reg, err := loadGlossaries(cfg)
					if err != nil {
						return err
					}
					return writeJSON(c.App.Writer, reg.ListDicts())
				},
			},
		},
	}
}

// openInput opens path for reading; "-" and "" are stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	return f, errors.WithStack(err)
}
