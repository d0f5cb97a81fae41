package lists

import (
	"fmt"

	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/models"
)

type ListsCmd struct {
	Show   ListShowCmd   `cmd:"" default:"1" help:"Show lists and how many streaks each holds."`
	Add    ListAddCmd    `cmd:"" help:"Create a list."`
	Rename ListRenameCmd `cmd:"" help:"Rename a list."`
	Delete ListDeleteCmd `cmd:"" help:"Delete a list; its streaks move to the default list."`
}

type ListShowCmd struct{}

func (c *ListShowCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	counts := map[string]int{}
	for _, s := range e.Streaks() {
		if !s.IsArchived() {
			counts[s.ListID]++
		}
	}
	for _, l := range e.Lists() {
		marker := " "
		if l.ID == constants.DefaultListID {
			marker = "*"
		}
		ctx.Printf("%s %s  %s  %s\n", marker, cli.ListLabel(l), cli.MutedStyle.Render(l.Color), streakCount(counts[l.ID]))
	}
	return nil
}

func streakCount(n int) string {
	if n == 1 {
		return "1 streak"
	}
	return fmt.Sprintf("%d streaks", n)
}

type ListAddCmd struct {
	Name  string `arg:"" help:"List name."`
	Color string `help:"Palette color (fire, ocean, forest, sunset, purple, rose)."`
}

func (c *ListAddCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Engine().AddList(c.Name, c.Color)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Created list %s\n", cli.ListLabel(l))
	return nil
}

type ListRenameCmd struct {
	List string `arg:"" help:"List id or name."`
	Name string `arg:"" help:"New name."`
}

func (c *ListRenameCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	id, err := e.ResolveList(c.List)
	if err != nil {
		return err
	}
	l, err := e.RenameList(id, c.Name)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Renamed to %s\n", cli.ListLabel(l))
	return nil
}

type ListDeleteCmd struct {
	List string `arg:"" help:"List id or name."`
}

func (c *ListDeleteCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	id, err := e.ResolveList(c.List)
	if err != nil {
		return err
	}
	l := find(e.Lists(), id)

	ok, err := ctx.Confirm(
		fmt.Sprintf("Delete list %q?", l.Name),
		"Its streaks are kept and moved to the default list.",
	)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Delete cancelled.")
		return nil
	}

	moved, err := e.DeleteList(id)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Deleted list %s", l.Name)
	if moved > 0 {
		ctx.Printf(" (%s moved to the default list)", streakCount(moved))
	}
	ctx.Println()
	return nil
}

func find(lists []models.StreakList, id string) models.StreakList {
	for _, l := range lists {
		if l.ID == id {
			return l
		}
	}
	return models.StreakList{ID: id, Name: id}
}
