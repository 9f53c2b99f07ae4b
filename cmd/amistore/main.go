// Command amistore inspects and maintains an amistore market-data directory.
//
//	amistore --db ./db list-symbols
//	amistore --db ./db last-date SPCE
//	amistore --db ./db list-quotes --start 2020-01-01 SPCE
//	amistore --db ./db add-quotes --file spce.csv SPCE
//	amistore --db ./db backup --output db.snap
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/amistore/config"
	"github.com/arloliu/amistore/internal/logging"
	"github.com/arloliu/amistore/store"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "amistore:", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := &cli.App{
		Name:      "amistore",
		Usage:     "read and write an AmiBroker-compatible quote database",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "Store directory (overrides data_dir)", EnvVars: []string{config.EnvDataDir}},
			&cli.StringFlag{Name: "config", Usage: "YAML configuration file", TakesFile: true, EnvVars: []string{config.EnvConfig}},
			&cli.StringFlag{Name: "log-level", Usage: "Log level (debug, info, warn, error)"},
			&cli.BoolFlag{Name: "log-json", Usage: "Log in JSON format"},
		},
		Before: setup,
		Commands: []*cli.Command{
			listSymbolsCommand(),
			addSymbolCommand(),
			lastDateCommand(),
			listQuotesCommand(),
			addQuotesCommand(),
			backupCommand(),
			restoreCommand(),
		},
	}

	return app
}

const configKey = "config"

// setup loads the configuration, applies the global flags and initializes logging.
func setup(c *cli.Context) error {
	cfg, err := config.LoadOrDefault(c.String("config"))
	if err != nil {
		return err
	}

	if db := c.String("db"); db != "" {
		cfg.DataDir = db
	}
	if level := c.String("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if c.IsSet("log-json") {
		cfg.LogJSON = c.Bool("log-json")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.InitWithWriter(c.App.ErrWriter, cfg.Level(), cfg.LogJSON)

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg

	return nil
}

func configFrom(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}

	return config.Default()
}

func openStore(c *cli.Context) (*store.Store, error) {
	cfg := configFrom(c)

	return store.Open(cfg.DataDir, cfg.StoreOptions(logging.Component("store"))...)
}
