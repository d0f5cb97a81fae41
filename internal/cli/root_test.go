package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/storage/memory"
	"github.com/julianstephens/dailyspark/internal/storage/sqlite"
	"github.com/julianstephens/dailyspark/internal/utils"
)

func TestConfirmAssumeYes(t *testing.T) {
	ctx := &Context{AssumeYes: true}
	ok, err := ctx.Confirm("Delete?", "")
	if err != nil || !ok {
		t.Fatalf("Confirm = %v, %v; want true, nil", ok, err)
	}
}

func TestConfirmRefusesWithoutTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	orig := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = orig }()

	ctx := &Context{}
	ok, err := ctx.Confirm("Delete?", "")
	if !errors.Is(err, ErrNotInteractive) {
		t.Fatalf("expected ErrNotInteractive, got %v", err)
	}
	if ok {
		t.Error("Confirm should not report approval")
	}
}

func TestBackupsDirectory(t *testing.T) {
	dir := t.TempDir()
	ctx := &Context{Store: sqlite.NewStore(filepath.Join(dir, "spark.db"))}
	want := filepath.Join(dir, constants.BackupDirName)
	if got := ctx.Backups().GetBackupDir(); got != want {
		t.Errorf("sqlite backup dir = %s, want %s", got, want)
	}

	ctx = &Context{Store: memory.New()}
	expanded, err := utils.ExpandPath(constants.DefaultConfigPath)
	if err != nil {
		t.Skip("home directory unavailable")
	}
	want = filepath.Join(filepath.Dir(expanded), constants.BackupDirName)
	if got := ctx.Backups().GetBackupDir(); got != want {
		t.Errorf("memory backup dir = %s, want %s", got, want)
	}
}

func TestEngineBootsOnce(t *testing.T) {
	var out bytes.Buffer
	store := memory.New()
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	ctx := &Context{
		Store: store,
		Clock: utils.FixedClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)),
		Out:   &out,
	}
	first := ctx.Engine()
	if ctx.Engine() != first {
		t.Error("Engine should be reused within a command")
	}
	if strings.Contains(out.String(), "recovered") {
		t.Errorf("unexpected recovery output: %q", out.String())
	}
	if got := ctx.Now().Year(); got != 2026 {
		t.Errorf("Now year = %d", got)
	}
}
