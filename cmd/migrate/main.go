// Command migrate applies or rolls back the embedded database migrations.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/urfave/cli/v2"

	"github.com/Pranav452/delivery/internal/config"
	"github.com/Pranav452/delivery/internal/repository"
)

type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Close() (error, error)
}

type openFunc func(dsn string) (migrator, error)

func openMigrator(dsn string) (migrator, error) {
	m, err := repository.NewMigrator(dsn)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func main() {
	if err := newApp(openMigrator, os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(open openFunc, out io.Writer) *cli.App {
	return &cli.App{
		Name:  "migrate",
		Usage: "manage the dispatch database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dsn",
				Usage:   "Postgres connection URL (defaults to the service configuration)",
				EnvVars: []string{"DATABASE_URL"},
			},
		},
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: withMigrator(open, func(c *cli.Context, m migrator) error {
					if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return fmt.Errorf("migrate up: %w", err)
					}
					return printVersion(c, m)
				}),
			},
			{
				Name:  "down",
				Usage: "roll back migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
					&cli.BoolFlag{Name: "all", Usage: "roll back every migration"},
				},
				Action: withMigrator(open, func(c *cli.Context, m migrator) error {
					var err error
					if c.Bool("all") {
						err = m.Down()
					} else {
						steps := c.Int("steps")
						if steps <= 0 {
							return fmt.Errorf("steps must be positive, got %d", steps)
						}
						err = m.Steps(-steps)
					}
					if err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return fmt.Errorf("migrate down: %w", err)
					}
					return printVersion(c, m)
				}),
			},
			{
				Name:   "version",
				Usage:  "print the current schema version",
				Action: withMigrator(open, printVersion),
			},
		},
	}
}

func withMigrator(open openFunc, fn func(*cli.Context, migrator) error) cli.ActionFunc {
	return func(c *cli.Context) (err error) {
		dsn, err := resolveDSN(c)
		if err != nil {
			return err
		}
		m, err := open(dsn)
		if err != nil {
			return err
		}
		defer func() {
			srcErr, dbErr := m.Close()
			if err == nil {
				err = errors.Join(srcErr, dbErr)
			}
		}()
		return fn(c, m)
	}
}

func resolveDSN(c *cli.Context) (string, error) {
	if dsn := c.String("dsn"); dsn != "" {
		return dsn, nil
	}
	cfg, err := config.Load(nil)
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.DB.DSN(), nil
}

func printVersion(c *cli.Context, m migrator) error {
	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		_, err = fmt.Fprintln(c.App.Writer, "version: none")
		return err
	case err != nil:
		return fmt.Errorf("migrate version: %w", err)
	}
	_, err = fmt.Fprintf(c.App.Writer, "version: %d dirty: %t\n", v, dirty)
	return err
}
