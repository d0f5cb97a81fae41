package streaks

import (
	"fmt"

	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/engine"
	"github.com/julianstephens/dailyspark/internal/models"
)

// EditCmd uses pointer flags so that only the flags given are applied.
type EditCmd struct {
	Streak      string  `arg:"" help:"Streak id, id prefix or name."`
	Name        *string `help:"New name."`
	Emoji       *string `help:"New emoji."`
	Color       *string `help:"New accent color."`
	Notes       *string `help:"Replace notes."`
	Description *string `help:"Replace description."`
	Remind      *string `help:"Daily reminder time (HH:MM)." placeholder:"HH:MM"`
	NoRemind    bool    `help:"Turn the reminder off."`
	On          *string `help:"Scheduled date (YYYY-MM-DD), empty to clear." placeholder:"DATE"`
	At          *string `help:"Scheduled time (HH:MM), empty to clear." placeholder:"HH:MM"`
	FontSize    *string `help:"Widget font size (small, medium, large)."`
	Align       *string `help:"Widget text alignment (left, center, right)."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	id, err := e.Resolve(c.Streak)
	if err != nil {
		return err
	}

	opts := engine.EditOptions{
		Name:          c.Name,
		Emoji:         c.Emoji,
		Color:         c.Color,
		Notes:         c.Notes,
		Description:   c.Description,
		ReminderTime:  c.Remind,
		ScheduledDate: c.On,
		ScheduledTime: c.At,
	}
	switch {
	case c.NoRemind && c.Remind != nil:
		return fmt.Errorf("--remind and --no-remind cannot be combined")
	case c.NoRemind:
		off := false
		opts.ReminderEnabled = &off
	case c.Remind != nil:
		on := *c.Remind != ""
		opts.ReminderEnabled = &on
	}
	if c.FontSize != nil {
		fs := models.FontSize(*c.FontSize)
		switch fs {
		case models.FontSizeSmall, models.FontSizeMedium, models.FontSizeLarge:
		default:
			return fmt.Errorf("invalid font size %q (expected small, medium or large)", fs)
		}
		opts.FontSize = &fs
	}
	if c.Align != nil {
		ta := models.TextAlign(*c.Align)
		switch ta {
		case models.TextAlignLeft, models.TextAlignCenter, models.TextAlignRight:
		default:
			return fmt.Errorf("invalid alignment %q (expected left, center or right)", ta)
		}
		opts.TextAlign = &ta
	}

	s, err := e.Edit(id, opts)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Updated %s %s\n", s.Emoji, s.Name)
	return nil
}
