package backup

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/validation"
)

// Export is the backup file format shared by `spark export json`, `spark
// import` and the rotating backups.
type Export struct {
	Version    string     `json:"version"`
	ExportDate time.Time  `json:"exportDate"`
	Data       ExportData `json:"data"`
}

type ExportData struct {
	Streaks []models.Streak     `json:"streakflame_streaks"`
	Lists   []models.StreakList `json:"streakflame_lists"`
}

func NewExport(streaks []models.Streak, lists []models.StreakList, now time.Time) Export {
	if streaks == nil {
		streaks = []models.Streak{}
	}
	if lists == nil {
		lists = []models.StreakList{}
	}
	return Export{
		Version:    constants.ExportVersion,
		ExportDate: now.UTC().Truncate(time.Second),
		Data:       ExportData{Streaks: streaks, Lists: lists},
	}
}

func WriteJSON(w io.Writer, exp Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(exp); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// CSVHeader is the column order of a CSV export.
var CSVHeader = []string{
	"id", "name", "emoji", "createdAt", "currentStreak", "bestStreak",
	"lastCompletedDate", "completions", "listId", "archived",
}

// WriteCSV writes one row per streak. completions is the number of recorded
// completion dates; lastCompletedDate is empty for a streak never completed.
func WriteCSV(w io.Writer, streaks []models.Streak) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, s := range streaks {
		last := ""
		if s.LastCompletedDate != nil {
			last = *s.LastCompletedDate
		}
		row := []string{
			s.ID,
			s.Name,
			s.Emoji,
			s.CreatedAt,
			strconv.Itoa(s.CurrentStreak),
			strconv.Itoa(s.BestStreak),
			last,
			strconv.Itoa(len(s.CompletedDates)),
			s.ListID,
			strconv.FormatBool(s.IsArchived()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadImport validates an export file or a bare array of streaks.
func ReadImport(r io.Reader) (validation.BatchResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return validation.BatchResult{}, fmt.Errorf("reading import: %w", err)
	}
	return validation.ParseBackupJSON(data), nil
}
