package lists

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/cli/streaks"
	"github.com/julianstephens/dailyspark/internal/storage/memory"
)

func setup(t *testing.T) (func() *cli.Context, *bytes.Buffer) {
	t.Helper()
	store := memory.New()
	out := &bytes.Buffer{}
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.Local)
	return func() *cli.Context {
		out.Reset()
		return &cli.Context{Store: store, Clock: func() time.Time { return now }, Out: out, AssumeYes: true}
	}, out
}

func TestListLifecycle(t *testing.T) {
	newCtx, out := setup(t)

	if err := (&ListAddCmd{Name: "Health", Color: "forest"}).Run(newCtx()); err != nil {
		t.Fatalf("add list: %v", err)
	}
	if err := (&streaks.AddCmd{Name: "Walk", List: "health"}).Run(newCtx()); err != nil {
		t.Fatalf("add streak: %v", err)
	}

	if err := (&ListShowCmd{}).Run(newCtx()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Health") || !strings.Contains(out.String(), "1 streak") {
		t.Errorf("show output = %q", out.String())
	}

	if err := (&ListRenameCmd{List: "Health", Name: "Body"}).Run(newCtx()); err != nil {
		t.Fatalf("rename: %v", err)
	}

	if err := (&ListDeleteCmd{List: "body"}).Run(newCtx()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out.String(), "1 streak moved to the default list") {
		t.Errorf("delete output = %q", out.String())
	}

	if err := (&ListShowCmd{}).Run(newCtx()); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "Body") {
		t.Errorf("deleted list still shown: %q", out.String())
	}
}

func TestListErrors(t *testing.T) {
	newCtx, _ := setup(t)

	tests := []struct {
		name string
		cmd  interface{ Run(*cli.Context) error }
	}{
		{"empty name", &ListAddCmd{Name: "  "}},
		{"unknown color", &ListAddCmd{Name: "Work", Color: "plaid"}},
		{"duplicate of default", &ListAddCmd{Name: "my streaks"}},
		{"delete default", &ListDeleteCmd{List: "default"}},
		{"rename unknown", &ListRenameCmd{List: "nope", Name: "x"}},
		{"rename default", &ListRenameCmd{List: "default", Name: "Other"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(newCtx()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
