package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tomokiyo/pjsbookshelf/pkg/config"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pjstext: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "pjstext",
		Usage:   "Japanese text normalization and identifier tools for the picture-book library",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				Value:   "config.yaml",
				EnvVars: []string{"PJSTEXT_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			normalizeCommand(),
			readingCommand(),
			normalizeCSVCommand(),
			compileCommand(),
			glossaryCommand(),
		},
	}
}

// configFrom loads the file named by the global --config flag.
func configFrom(c *cli.Context) (*config.Config, error) {
	return config.Load(c.String("config"))
}
