package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/logger"
	"github.com/julianstephens/dailyspark/internal/utils"
	"github.com/julianstephens/dailyspark/internal/validation"
)

var ErrBackupNotFound = errors.New("backup file does not exist")

const (
	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

// BackupInfo describes a backup file on disk
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager keeps rotating JSON exports next to the configuration
type Manager struct {
	backupDir string
	clock     utils.Clock
}

// NewManager places backups in a "backups" directory beside configPath. For
// Postgres, configPath is not a file and backups go to the default config dir.
func NewManager(configPath string, clock utils.Clock) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		backupDir: filepath.Join(filepath.Dir(configPath), constants.BackupDirName),
		clock:     clock,
	}
}

func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup writes exp to a new timestamped file and prunes the oldest
// files beyond the retention limit.
func (m *Manager) CreateBackup(exp Export) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	if err := WriteJSON(f, exp); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("failed to sync backup file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to close backup file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize backup file: %w", err)
	}

	if err := m.rotateBackups(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	logger.Info("Backup created", "path", path, "streaks", len(exp.Data.Streaks))
	return path, nil
}

// nextPath uses minute precision, then seconds, then a numeric suffix.
func (m *Manager) nextPath() (string, error) {
	now := m.clock()
	candidate := func(layout, suffix string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+now.Format(layout)+suffix+constants.BackupFileSuffix)
	}
	exists := func(p string) bool {
		_, err := os.Stat(p)
		return err == nil
	}

	path := candidate(minuteLayout, "")
	if !exists(path) {
		return path, nil
	}
	path = candidate(secondLayout, "")
	for counter := 1; exists(path); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = candidate(secondLayout, "-"+strconv.Itoa(counter))
	}
	return path, nil
}

// parseName extracts the timestamp from a backup file name.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	// strip a numeric collision counter
	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err == nil {
			stamp = parts[0] + "-" + parts[1]
		}
	}

	for _, layout := range []string{minuteLayout, secondLayout} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// ListBackups returns the backups on disk, newest first. Ties keep the
// later file name first.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// LoadBackup reads and validates a backup file. A bare file name is looked up
// in the backup directory.
func (m *Manager) LoadBackup(path string) (validation.BatchResult, error) {
	if filepath.Base(path) == path {
		path = filepath.Join(m.backupDir, path)
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return validation.BatchResult{}, fmt.Errorf("%w: %s", ErrBackupNotFound, path)
	}
	if err != nil {
		return validation.BatchResult{}, fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()
	return ReadImport(f)
}

// Latest returns the newest backup, or false when there is none.
func (m *Manager) Latest() (BackupInfo, bool, error) {
	backups, err := m.ListBackups()
	if err != nil || len(backups) == 0 {
		return BackupInfo{}, false, err
	}
	return backups[0], true, nil
}
