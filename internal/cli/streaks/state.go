package streaks

import (
	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/engine"
	"github.com/julianstephens/dailyspark/internal/models"
)

type toggle func(e *engine.Engine, id string) (models.Streak, error)

func runToggle(ctx *cli.Context, ref string, op toggle, verb string) error {
	e := ctx.Engine()
	id, err := e.Resolve(ref)
	if err != nil {
		return err
	}
	s, err := op(e, id)
	if err != nil {
		return err
	}
	ctx.Printf("✓ %s %s %s\n", verb, s.Emoji, s.Name)
	return nil
}

type ArchiveCmd struct {
	Streak string `arg:"" help:"Streak id, id prefix or name."`
}

func (c *ArchiveCmd) Run(ctx *cli.Context) error {
	return runToggle(ctx, c.Streak, (*engine.Engine).Archive, "Archived")
}

type UnarchiveCmd struct {
	Streak string `arg:"" help:"Streak id, id prefix or name."`
}

func (c *UnarchiveCmd) Run(ctx *cli.Context) error {
	return runToggle(ctx, c.Streak, (*engine.Engine).Unarchive, "Restored")
}

type PauseCmd struct {
	Streak string `arg:"" help:"Streak id, id prefix or name."`
}

func (c *PauseCmd) Run(ctx *cli.Context) error {
	return runToggle(ctx, c.Streak, (*engine.Engine).Pause, "Paused reminders for")
}

type ResumeCmd struct {
	Streak string `arg:"" help:"Streak id, id prefix or name."`
}

func (c *ResumeCmd) Run(ctx *cli.Context) error {
	return runToggle(ctx, c.Streak, (*engine.Engine).Resume, "Resumed")
}

type StarCmd struct {
	Streak string `arg:"" help:"Streak id, id prefix or name."`
}

func (c *StarCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	id, err := e.Resolve(c.Streak)
	if err != nil {
		return err
	}
	s, err := e.ToggleStar(id)
	if err != nil {
		return err
	}
	if s.IsStarred {
		ctx.Printf("★ Starred %s %s\n", s.Emoji, s.Name)
	} else {
		ctx.Printf("☆ Unstarred %s %s\n", s.Emoji, s.Name)
	}
	return nil
}

type MoveCmd struct {
	Streak string `arg:"" help:"Streak id, id prefix or name."`
	List   string `arg:"" help:"Destination list id or name."`
}

func (c *MoveCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	id, err := e.Resolve(c.Streak)
	if err != nil {
		return err
	}
	listID, err := e.ResolveList(c.List)
	if err != nil {
		return err
	}
	s, err := e.MoveToList(id, listID)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Moved %s %s to %s\n", s.Emoji, s.Name, c.List)
	return nil
}
