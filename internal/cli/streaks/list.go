package streaks

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/models"
)

type ListCmd struct {
	All     bool   `help:"Include archived streaks." short:"a"`
	List    string `help:"Only show streaks in this list."`
	Starred bool   `help:"Only show starred streaks."`
	JSON    bool   `help:"Print as JSON."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	listID := ""
	if c.List != "" {
		id, err := e.ResolveList(c.List)
		if err != nil {
			return err
		}
		listID = id
	}

	var shown []models.Streak
	for _, s := range e.Streaks() {
		if (!c.All && s.IsArchived()) || (listID != "" && s.ListID != listID) || (c.Starred && !s.IsStarred) {
			continue
		}
		shown = append(shown, s)
	}
	sort.SliceStable(shown, func(i, j int) bool {
		if shown[i].IsStarred != shown[j].IsStarred {
			return shown[i].IsStarred
		}
		return strings.ToLower(shown[i].Name) < strings.ToLower(shown[j].Name)
	})

	if c.JSON {
		if shown == nil {
			shown = []models.Streak{}
		}
		enc := json.NewEncoder(ctx.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(shown)
	}

	if len(shown) == 0 {
		ctx.Println("No streaks yet. Add one with 'spark add <name>'.")
		return nil
	}

	lists := map[string]models.StreakList{}
	for _, l := range e.Lists() {
		lists[l.ID] = l
	}
	current := ""
	for _, s := range shown {
		if s.ListID != current && len(lists) > 1 {
			current = s.ListID
			if l, ok := lists[current]; ok {
				ctx.Println(cli.ListLabel(l))
			}
		}
		ctx.Println("  " + cli.StreakLine(s, e.Status(s)))
	}
	return nil
}

type ShowCmd struct {
	Streak string `arg:"" help:"Streak id, id prefix or name."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	s, err := e.Get(c.Streak)
	if err != nil {
		return err
	}
	status := e.Status(s)

	ctx.Println(cli.TitleStyle.Render(s.Emoji + " " + s.Name))
	ctx.Printf("  ID:          %s\n", s.ID)
	ctx.Printf("  Status:      %s\n", cli.StatusBadge(status))
	ctx.Printf("  Current:     %d\n", s.CurrentStreak)
	ctx.Printf("  Best:        %d\n", s.BestStreak)
	last := "never"
	if s.LastCompletedDate != nil {
		last = *s.LastCompletedDate
	}
	ctx.Printf("  Last done:   %s\n", last)
	ctx.Printf("  Completions: %d\n", len(s.CompletedDates))
	ctx.Printf("  Created:     %s\n", s.CreatedAt)
	for _, l := range e.Lists() {
		if l.ID == s.ListID {
			ctx.Printf("  List:        %s\n", cli.ListLabel(l))
		}
	}
	if s.ReminderEnabled {
		state := "on"
		if s.IsPaused {
			state = "paused"
		}
		ctx.Printf("  Reminder:    %s (%s)\n", s.ReminderTime, state)
	}
	if s.ScheduledDate != "" {
		ctx.Printf("  Scheduled:   %s %s\n", s.ScheduledDate, s.ScheduledTime)
	}
	if s.Description != "" {
		ctx.Printf("  Description: %s\n", s.Description)
	}
	if s.Notes != "" {
		ctx.Printf("  Notes:       %s\n", s.Notes)
	}
	if s.IsArchived() {
		ctx.Printf("  Archived:    %s\n", *s.ArchivedAt)
	}

	grace, err := e.GraceStatus(s.ID)
	if err == nil {
		ctx.Printf("  Grace:       weekly %s, monthly %s\n", available(grace.WeeklyAvailable), available(grace.MonthlyAvailable))
	}
	if avail := e.CanUndo(s.ID); avail.CanUndo {
		ctx.Println(cli.MutedStyle.Render("  Today's change can be undone with 'spark undo'."))
	}
	return nil
}

func available(ok bool) string {
	if ok {
		return "available"
	}
	return "used"
}
