package streaks

import (
	"errors"
	"fmt"

	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/engine"
	"github.com/julianstephens/dailyspark/internal/grace"
)

type GraceCmd struct {
	Use    GraceUseCmd    `cmd:"" help:"Forgive yesterday's miss for a streak."`
	Status GraceStatusCmd `cmd:"" help:"Show which graces a streak has left."`
}

type GraceUseCmd struct {
	Streak string `arg:"" help:"Streak id, id prefix or name."`
	Kind   string `help:"Which grace to spend." enum:"weekly,monthly" default:"weekly"`
}

func (c *GraceUseCmd) Run(ctx *cli.Context) error {
	kind, err := grace.ParseKind(c.Kind)
	if err != nil {
		return err
	}
	e := ctx.Engine()
	id, err := e.Resolve(c.Streak)
	if err != nil {
		return err
	}
	s, err := e.UseGrace(id, kind)
	switch {
	case errors.Is(err, engine.ErrGraceNotApplicable):
		ctx.Println(cli.WarningStyle.Render("Grace only covers a single missed day (last completed the day before yesterday)."))
		return nil
	case err != nil:
		return err
	}
	ctx.Printf("✓ Used %s grace on %s %s: back to %d days\n", kind, s.Emoji, s.Name, s.CurrentStreak)
	ctx.Println(cli.MutedStyle.Render("Complete it today to keep the run going."))
	return nil
}

type GraceStatusCmd struct {
	Streak string `arg:"" help:"Streak id, id prefix or name."`
}

func (c *GraceStatusCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	s, err := e.Get(c.Streak)
	if err != nil {
		return err
	}
	gs, err := e.GraceStatus(s.ID)
	if err != nil {
		return err
	}
	ctx.Println(cli.TitleStyle.Render(s.Emoji + " " + s.Name))
	ctx.Printf("  Weekly grace:   %s\n", availability(gs.WeeklyAvailable))
	ctx.Printf("  Monthly grace:  %s\n", availability(gs.MonthlyAvailable))
	ctx.Printf("  Revival points: %d\n", e.RevivalPoints())
	return nil
}

func availability(ok bool) string {
	if ok {
		return cli.SuccessStyle.Render("available")
	}
	return cli.MutedStyle.Render("used")
}

type ReviveCmd struct {
	Streak string `arg:"" help:"Streak id, id prefix or name."`
}

func (c *ReviveCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	s, err := e.Get(c.Streak)
	if err != nil {
		return err
	}
	ok, err := ctx.Confirm(
		"Spend a revival point on "+s.Emoji+" "+s.Name+"?",
		"Revival brings back the run that was broken, however long ago.",
	)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Revive cancelled.")
		return nil
	}

	s, err = e.Revive(s.ID)
	switch {
	case errors.Is(err, engine.ErrNoRevivalPoints):
		ctx.Println(cli.WarningStyle.Render("No revival points left."))
		return nil
	case err != nil:
		return err
	}
	ctx.Printf("✓ Revived %s %s: %d days\n", s.Emoji, s.Name, s.CurrentStreak)
	ctx.Println(cli.MutedStyle.Render(pointsLeft(e.RevivalPoints())))
	return nil
}

func pointsLeft(n int) string {
	if n == 1 {
		return "1 revival point left"
	}
	return fmt.Sprintf("%d revival points left", n)
}
