// Package notifier delivers short completion and reminder messages to the
// spark tray companion over its local webhook.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess

	ErrTrayNotRunning = errors.New("spark-tray is not running")
)

const secretHeader = "X-Spark-Secret"

type Notifier struct {
	client  *http.Client
	retries int
	delay   time.Duration
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func New() *Notifier {
	return &Notifier{
		client:  &http.Client{Timeout: 2 * time.Second},
		retries: constants.NotifyMaxRetries,
		delay:   constants.NotifyRetryDelay,
	}
}

// Notify sends text to the tray. A missing tray is reported immediately;
// delivery failures are retried.
func (n *Notifier) Notify(text string) error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}
	port, secret, err := findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{Text: text, DurationMs: constants.NotificationDurationMs}
	for attempt := 1; ; attempt++ {
		err = n.send(port, secret, payload)
		if err == nil || attempt >= n.retries {
			return err
		}
		logger.Debug("Notification attempt failed", "attempt", attempt, "error", err)
		time.Sleep(n.delay)
	}
}

// GetTrayAppConfigDir returns the tray's configuration directory, honoring a
// lockfile_dir override in its settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayDir, "settings.json"))
	if err != nil {
		return trayDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil && store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
		return *store.Settings.LockfileDir, nil
	}
	return trayDir, nil
}

// findAndValidateTrayProcess reads "port|pid|secret" from the lockfile and
// checks that pid is a live tray process.
func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}
	port, pidStr, secret := strings.TrimSpace(parts[0]), parts[1], strings.TrimSpace(parts[2])

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	if secret == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayExecutablePrefix, process.Executable())
	}
	return port, secret, nil
}

func (n *Notifier) send(port, secret string, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, "http://127.0.0.1:"+port, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(secretHeader, secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}

// Console prints messages instead of delivering them, for --dry-run.
type Console struct {
	W io.Writer
}

func (c Console) Notify(text string) error {
	_, err := fmt.Fprintln(c.W, "[notify] "+text)
	return err
}
