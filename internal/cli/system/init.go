package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Delete the existing database before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized spark storage at: %s\n", ctx.Store.GetConfigPath())

	// Seeds the default list and the revival pool.
	e := ctx.Engine()
	ctx.Printf("%s tracked\n", streakCount(len(e.Streaks())))
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if storage.IsPostgres(path) {
		return fmt.Errorf("--force is only supported for SQLite databases")
	}

	ok, err := ctx.Confirm("Delete the existing database?", path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("init cancelled")
	}

	if _, err := os.Stat(path); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}
