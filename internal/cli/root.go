package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/dailyspark/internal/backup"
	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/engine"
	"github.com/julianstephens/dailyspark/internal/logger"
	"github.com/julianstephens/dailyspark/internal/recovery"
	"github.com/julianstephens/dailyspark/internal/storage"
	"github.com/julianstephens/dailyspark/internal/utils"
)

// Context is shared by every command.
type Context struct {
	Store     storage.Provider
	Clock     utils.Clock
	Out       io.Writer
	Feedback  engine.Feedback
	AssumeYes bool

	engine *engine.Engine
}

// Writer is where command output goes, stdout unless Out is set.
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Writer(), args...)
}

func (c *Context) clock() utils.Clock {
	if c.Clock == nil {
		return utils.SystemClock(nil)
	}
	return c.Clock
}

// Now is the current time in the configured timezone.
func (c *Context) Now() time.Time {
	return c.clock()()
}

// Engine boots the streak engine on first use and reports any recovery that
// happened along the way.
func (c *Context) Engine() *engine.Engine {
	if c.engine == nil {
		c.BootWith(nil)
	}
	return c.engine
}

// BootWith boots the engine with a reminder scheduler attached.
func (c *Context) BootWith(reminders engine.ReminderScheduler) *engine.Engine {
	c.engine = engine.New(engine.Options{
		Store:     c.Store,
		Clock:     c.clock(),
		Reminders: reminders,
		Feedback:  c.Feedback,
	})
	res := c.engine.Boot()
	c.reportRecovery(res)
	return c.engine
}

func (c *Context) reportRecovery(res recovery.Result) {
	if !res.Recovered {
		return
	}
	logger.Warn("Streak data was recovered at startup", "reason", res.Reason)
	style := WarningStyle
	if res.Reason == recovery.ReasonBackupRestored {
		style = InfoStyle
	}
	c.Println(style.Render(res.Message))
}

// Backups returns the file backup manager. Postgres configurations keep their
// backups in the default config directory.
func (c *Context) Backups() *backup.Manager {
	path := c.Store.GetConfigPath()
	if storage.IsPostgres(path) || filepath.Base(path) == path {
		if expanded, err := utils.ExpandPath(constants.DefaultConfigPath); err == nil {
			path = expanded
		}
	}
	return backup.NewManager(path, c.clock())
}

// PerformAutomaticBackup writes a file backup before a destructive change and
// only warns on failure.
func (c *Context) PerformAutomaticBackup() {
	e := c.Engine()
	exp := backup.NewExport(e.Streaks(), e.Lists(), c.Now())
	if _, err := c.Backups().CreateBackup(exp); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ErrNotInteractive is returned when a confirmation is needed but stdin is
// not a terminal.
var ErrNotInteractive = errors.New("confirmation required but stdin is not a terminal; rerun with --yes")

func interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Confirm asks a yes/no question unless --yes was given.
func (c *Context) Confirm(title, description string) (bool, error) {
	if c.AssumeYes {
		return true, nil
	}
	if !interactive() {
		return false, ErrNotInteractive
	}
	ok := false
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}
