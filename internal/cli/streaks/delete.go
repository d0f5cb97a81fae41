package streaks

import (
	"fmt"

	"github.com/julianstephens/dailyspark/internal/cli"
)

type DeleteCmd struct {
	Streak string `arg:"" help:"Streak id, id prefix or name."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	s, err := e.Get(c.Streak)
	if err != nil {
		return err
	}

	ok, err := ctx.Confirm(
		fmt.Sprintf("Delete %s %s?", s.Emoji, s.Name),
		fmt.Sprintf("Its %d-day history is removed. Archive instead to keep it.", len(s.CompletedDates)),
	)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Delete cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := e.Delete(s.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted %s %s\n", s.Emoji, s.Name)
	return nil
}
