package backups

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/dailyspark/internal/backup"
	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/validation"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Write a backup file now."`
	List    BackupListCmd    `cmd:"" help:"List backup files."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace all streaks with a backup file."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	exp := backup.NewExport(e.Streaks(), e.Lists(), ctx.Now())
	backupPath, err := ctx.Backups().CreateBackup(exp)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("✓ Backup created: %s (%d streaks)\n", filepath.Base(backupPath), len(exp.Data.Streaks))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	now := ctx.Now()
	for _, b := range backups {
		ctx.Printf("  %s  %s  %s\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			cli.MutedStyle.Render(fmt.Sprintf("(%s, %s)", humanize.Bytes(uint64(b.Size)), humanize.RelTime(b.Timestamp, now, "ago", "from now"))),
		)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" optional:"" help:"Path or file name of the backup to restore (latest when omitted)."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	path := c.BackupFile
	if path == "" {
		latest, ok, err := mgr.Latest()
		if err != nil {
			return fmt.Errorf("failed to list backups: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: no backups in %s", backup.ErrBackupNotFound, mgr.GetBackupDir())
		}
		path = latest.Path
	}

	batch, err := mgr.LoadBackup(path)
	if err != nil {
		return err
	}
	if !batch.OK() {
		ctx.Println(validation.FormatValidationMessage(batch))
		return fmt.Errorf("backup %s failed validation", filepath.Base(path))
	}

	ok, err := ctx.Confirm(
		fmt.Sprintf("Restore %d streaks from %s?", len(batch.Streaks), filepath.Base(path)),
		"All current streaks are replaced. A backup of the current data is written first.",
	)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Restore cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	res, err := ctx.Engine().Import(batch, true)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	ctx.Printf("✓ Restored %d streaks from %s\n", res.Added, filepath.Base(path))
	return nil
}
