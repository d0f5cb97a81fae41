package streaks

import (
	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/engine"
)

type AddCmd struct {
	Name        string `arg:"" help:"Name of the habit (max 50 characters)."`
	Emoji       string `help:"Emoji shown next to the streak." default:"🔥"`
	List        string `help:"List id or name to file the streak under."`
	Color       string `help:"Accent color."`
	Notes       string `help:"Free-form notes."`
	Description string `help:"Short description."`
	Remind      string `help:"Daily reminder time (HH:MM)." placeholder:"HH:MM"`
	On          string `help:"Schedule for a specific date (YYYY-MM-DD)." placeholder:"DATE"`
	At          string `help:"Scheduled time of day (HH:MM)." placeholder:"HH:MM"`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	listID := ""
	if c.List != "" {
		id, err := e.ResolveList(c.List)
		if err != nil {
			return err
		}
		listID = id
	}

	s, err := e.Add(engine.AddOptions{
		Name:            c.Name,
		Emoji:           c.Emoji,
		Color:           c.Color,
		Notes:           c.Notes,
		Description:     c.Description,
		ListID:          listID,
		ReminderEnabled: c.Remind != "",
		ReminderTime:    c.Remind,
		ScheduledDate:   c.On,
		ScheduledTime:   c.At,
	})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Added %s %s (%s)\n", s.Emoji, s.Name, cli.ShortID(s.ID))
	return nil
}
