package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Sparky983/warp-config-sub000/source"
)

const defaultSQLQuery = "SELECT path, value FROM config"

type app struct {
	configs   []string
	envPrefix string
	logLevel  string
	logFormat string
	strict    bool
	sqlite    string
	sqlQuery  string

	// environ overrides os.Environ in tests.
	environ []string
	db      *sql.DB
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "warp",
		Short: "Merge and validate layered configuration",
		Long: `warp reads configuration from environment variables, YAML files and
SQLite tables, merges them by priority and validates the result against a
schema.

Sources, highest priority first:
  1. environment variables named PREFIX_KEY (--env-prefix)
  2. every --config file, in the order given
  3. the config table of --sqlite`,
		SilenceUsage: true,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringArrayVarP(&a.configs, "config", "c", nil, "config file path, repeatable, highest priority first")
	flags.StringVar(&a.envPrefix, "env-prefix", "", "read environment variables with this prefix")
	flags.StringVar(&a.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "console", "log format (console or json)")
	flags.BoolVar(&a.strict, "strict", false, "treat unknown properties as errors")
	flags.StringVar(&a.sqlite, "sqlite", "", "SQLite database holding configuration rows")
	flags.StringVar(&a.sqlQuery, "sqlite-query", defaultSQLQuery, "query yielding (path, value) rows")

	cmd.AddCommand(a.newMergeCmd(), a.newValidateCmd(), a.newWatchCmd())

	return cmd
}

func (a *app) logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(a.logLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}

	switch a.logFormat {
	case "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", a.logFormat)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// sources returns the configured sources, highest priority first.
func (a *app) sources(ctx context.Context) ([]source.Source, error) {
	var out []source.Source

	if a.envPrefix != "" {
		out = append(out, source.Env(a.envPrefix, a.environ))
	}

	for _, path := range a.configs {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}

		out = append(out, source.YAMLFile(path))
	}

	if a.sqlite != "" {
		if a.db == nil {
			db, err := sql.Open("sqlite3", a.sqlite)
			if err != nil {
				return nil, fmt.Errorf("open sqlite: %w", err)
			}

			a.db = db
		}

		out = append(out, source.SQL(ctx, a.db, a.sqlQuery))
	}

	return out, nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}

	err := a.db.Close()
	a.db = nil

	return err
}
