package system

import (
	"fmt"

	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/storage"
	"github.com/julianstephens/dailyspark/internal/validation"
)

// ValidateCmd inspects the stored collection without booting the engine, so
// nothing is recovered or rewritten.
type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	ctx.Println("Validating streak records...")
	raw, ok, err := ctx.Store.Get(constants.KeyStreaks)
	if err != nil {
		return fmt.Errorf("failed to load streaks: %w", err)
	}
	if !ok {
		raw = "[]"
	}
	batch := validation.ParseBackupJSON([]byte(raw))
	ctx.Println(validation.FormatValidationMessage(batch))
	for _, w := range batch.Warnings {
		ctx.Println(cli.WarningStyle.Render("• " + w.Message))
	}

	ctx.Println("Checking for conflicts...")
	var lists []models.StreakList
	if _, err := storage.GetJSON(ctx.Store, constants.KeyLists, &lists); err != nil {
		return fmt.Errorf("failed to load lists: %w", err)
	}
	result := validation.New().ValidateStreaks(batch.Streaks, lists)

	ctx.Println()
	ctx.Println(result.FormatReport())
	return nil
}
