package streaks

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/models"
)

type StatsCmd struct {
	JSON bool `help:"Print as JSON."`
}

type statsOutput struct {
	models.StreakStats
	GlobalCurrent int `json:"globalCurrent"`
	GlobalBest    int `json:"globalBest"`
	RevivalPoints int `json:"revivalPoints"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	out := statsOutput{StreakStats: e.Stats(), RevivalPoints: e.RevivalPoints()}
	out.GlobalCurrent, out.GlobalBest = e.GlobalStreak()

	if c.JSON {
		enc := json.NewEncoder(ctx.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	label := lipgloss.NewStyle().Width(20)
	row := func(name, value string) {
		ctx.Println("  " + label.Render(name) + value)
	}

	ctx.Println(cli.TitleStyle.Render("Streak stats"))
	row("Streaks", fmt.Sprintf("%d (%d active)", out.TotalStreaks, out.ActiveStreaks))
	row("Completions", fmt.Sprint(out.TotalCompletions))
	row("Longest streak", days(out.LongestStreak))
	row("Last 7 days", bar(out.WeeklyCompletionRate))
	row("Last 30 days", bar(out.MonthlyCompletionRate))
	row("Daily activity", fmt.Sprintf("%s (best %s)", days(out.GlobalCurrent), days(out.GlobalBest)))
	row("Revival points", fmt.Sprint(out.RevivalPoints))
	return nil
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// bar renders a percentage as a ten-cell meter.
func bar(pct int) string {
	filled := min(max(pct/10, 0), 10)
	meter := cli.SuccessStyle.Render(strings.Repeat("█", filled)) +
		cli.MutedStyle.Render(strings.Repeat("░", 10-filled))
	return fmt.Sprintf("%s %3d%%", meter, pct)
}
