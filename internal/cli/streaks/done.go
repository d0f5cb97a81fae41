package streaks

import (
	"errors"
	"fmt"

	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/engine"
)

type DoneCmd struct {
	Streaks []string `arg:"" help:"Streak ids, id prefixes or names to mark done today."`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	var errs []error
	for _, ref := range c.Streaks {
		id, err := e.Resolve(ref)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		done, err := e.Complete(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s, _ := e.Get(id)
		if !done {
			ctx.Printf("%s %s is already done today (%d days)\n", s.Emoji, s.Name, s.CurrentStreak)
			continue
		}
		msg := cli.SuccessStyle.Render("✓") + " " + s.Emoji + " " + s.Name
		if s.CurrentStreak == s.BestStreak && s.CurrentStreak > 1 {
			msg += cli.TitleStyle.Render("  new best!")
		}
		ctx.Printf("%s  %d day streak\n", msg, s.CurrentStreak)
	}
	if current, _ := e.GlobalStreak(); current > 1 {
		ctx.Println(cli.MutedStyle.Render(fmt.Sprintf("Active %d days in a row", current)))
	}
	return errors.Join(errs...)
}

type UndoCmd struct {
	Streak string `arg:"" help:"Streak id, id prefix or name."`
}

func (c *UndoCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	id, err := e.Resolve(c.Streak)
	if err != nil {
		return err
	}
	s, err := e.Undo(id)
	if errors.Is(err, engine.ErrUndoUnavailable) {
		ctx.Println("Nothing to undo for today.")
		return nil
	}
	if err != nil {
		return err
	}
	ctx.Printf("↺ %s %s restored to %d days\n", s.Emoji, s.Name, s.CurrentStreak)
	return nil
}
