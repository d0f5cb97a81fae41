package backups

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/dailyspark/internal/backup"
	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/validation"
)

type ExportCmd struct {
	Format string `arg:"" optional:"" enum:"json,csv" default:"json" help:"Output format (json or csv)."`
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	exp := backup.NewExport(e.Streaks(), e.Lists(), ctx.Now())

	w := ctx.Writer()
	if c.Output != "" {
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := write(w, c.Format, exp); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if c.Output != "" {
		ctx.Printf("✓ Exported %d streaks to %s\n", len(exp.Data.Streaks), c.Output)
	}
	return nil
}

func write(w io.Writer, format string, exp backup.Export) error {
	if format == "csv" {
		return backup.WriteCSV(w, exp.Data.Streaks)
	}
	return backup.WriteJSON(w, exp)
}

type ImportCmd struct {
	File        string `arg:"" help:"Export file or JSON array of streaks." type:"existingfile"`
	Replace     bool   `help:"Discard current streaks instead of merging."`
	SkipInvalid bool   `help:"Import the valid records even when some fail validation."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	batch, err := backup.ReadImport(f)
	if err != nil {
		return err
	}
	ctx.Println(validation.FormatValidationMessage(batch))
	if !batch.OK() && (!c.SkipInvalid || len(batch.Streaks) == 0) {
		return fmt.Errorf("import aborted: %d of %d records failed validation", batch.Summary.Invalid, batch.Summary.Total)
	}

	if c.Replace {
		ok, err := ctx.Confirm(
			"Replace all streaks?",
			fmt.Sprintf("Current streaks are discarded and %d are imported. A backup is written first.", len(batch.Streaks)),
		)
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Import cancelled.")
			return nil
		}
		ctx.PerformAutomaticBackup()
	}

	res, err := ctx.Engine().Import(batch, c.Replace)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	ctx.Printf("✓ Imported %d streaks", res.Added)
	if res.Skipped > 0 {
		ctx.Printf(", skipped %d already present", res.Skipped)
	}
	if res.Lists > 0 {
		ctx.Printf(", added %d lists", res.Lists)
	}
	ctx.Println()
	return nil
}
