package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/storage"
	"github.com/julianstephens/dailyspark/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the store cannot be loaded.
	needsDB bool
	// warnOnly failures do not fail the run.
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Streak records", needsDB: true, run: checkStreakRecords},
	{name: "Data validation", needsDB: true, run: checkValidation},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	for i, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if i == 0 {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	reporter, ok := ctx.Store.(storage.SchemaReporter)
	if !ok {
		return nil
	}
	current, latest, err := reporter.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

// checkStreakRecords validates the stored collection directly, before boot
// recovery has a chance to replace it.
func checkStreakRecords(ctx *cli.Context) error {
	raw, ok, err := ctx.Store.Get(constants.KeyStreaks)
	if err != nil {
		return fmt.Errorf("failed to read streaks: %w", err)
	}
	if !ok {
		return nil
	}
	batch := validation.ParseBackupJSON([]byte(raw))
	if !batch.OK() {
		return fmt.Errorf("%d of %d stored streaks are invalid; the next command restores the last good snapshot",
			batch.Summary.Invalid, batch.Summary.Total)
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	var streaks []models.Streak
	if _, err := storage.GetJSON(ctx.Store, constants.KeyStreaks, &streaks); err != nil {
		return err
	}
	var lists []models.StreakList
	if _, err := storage.GetJSON(ctx.Store, constants.KeyLists, &lists); err != nil {
		return err
	}
	res := validation.New().ValidateStreaks(streaks, lists)
	if res.HasConflicts() {
		return fmt.Errorf("%d conflicts found, run 'spark validate' for details", len(res.Conflicts))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.Backups().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'spark backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
