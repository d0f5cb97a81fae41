package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailyspark/internal/models"
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	statusStyles = map[models.StreakStatus]lipgloss.Style{
		models.StatusCompleted: SuccessStyle,
		models.StatusPending:   InfoStyle,
		models.StatusAtRisk:    WarningStyle,
	}

	listColors = map[string]lipgloss.Color{
		"fire":   lipgloss.Color("202"),
		"ocean":  lipgloss.Color("33"),
		"forest": lipgloss.Color("28"),
		"sunset": lipgloss.Color("208"),
		"purple": lipgloss.Color("135"),
		"rose":   lipgloss.Color("211"),
	}
)

// StatusBadge renders a status as a fixed-width colored label.
func StatusBadge(status models.StreakStatus) string {
	label := fmt.Sprintf("%-9s", status)
	if style, ok := statusStyles[status]; ok {
		return style.Render(label)
	}
	return label
}

// ListLabel renders a list name in its palette color.
func ListLabel(l models.StreakList) string {
	if c, ok := listColors[l.Color]; ok {
		return lipgloss.NewStyle().Foreground(c).Render(l.Name)
	}
	return l.Name
}

// StreakLine is the one-line summary used by list and stats output.
func StreakLine(s models.Streak, status models.StreakStatus) string {
	var flags []string
	if s.IsStarred {
		flags = append(flags, "★")
	}
	if s.IsPaused {
		flags = append(flags, "paused")
	}
	if s.IsArchived() {
		flags = append(flags, "archived")
	}
	line := fmt.Sprintf("%s %s  %s  %d (best %d)", StatusBadge(status), s.Emoji, s.Name, s.CurrentStreak, s.BestStreak)
	if len(flags) > 0 {
		line += "  " + MutedStyle.Render(strings.Join(flags, " "))
	}
	return line + "  " + MutedStyle.Render(ShortID(s.ID))
}

// ShortID is the id prefix accepted wherever a streak is referenced.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
