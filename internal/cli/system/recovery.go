package system

import (
	"github.com/julianstephens/dailyspark/internal/cli"
)

type RecoveryCmd struct {
	Log      RecoveryLogCmd      `cmd:"" default:"1" help:"Show the recovery log."`
	Clear    RecoveryClearCmd    `cmd:"" help:"Clear the recovery log."`
	Snapshot RecoverySnapshotCmd `cmd:"" help:"Save the current streaks as the last known good snapshot."`
}

type RecoveryLogCmd struct{}

func (c *RecoveryLogCmd) Run(ctx *cli.Context) error {
	svc := ctx.Engine().Recovery()
	events := svc.RecoveryLog()
	if len(events) == 0 {
		ctx.Println("Recovery log is empty.")
	}
	for _, ev := range events {
		line := ev.Timestamp.In(ctx.Now().Location()).Format("2006-01-02 15:04:05") + "  " + string(ev.Type) + "  " + ev.Details
		ctx.Println(line)
	}

	snap, err := svc.LatestBackup()
	if err != nil {
		return err
	}
	if snap != nil {
		ctx.Println()
		ctx.Println(cli.MutedStyle.Render(
			"Last good snapshot: " + snap.Timestamp.In(ctx.Now().Location()).Format("2006-01-02 15:04:05") +
				" (" + streakCount(len(snap.Streaks)) + ")"))
	}
	return nil
}

type RecoveryClearCmd struct{}

func (c *RecoveryClearCmd) Run(ctx *cli.Context) error {
	if err := ctx.Engine().Recovery().ClearRecoveryLog(); err != nil {
		return err
	}
	ctx.Println("✓ Recovery log cleared")
	return nil
}

type RecoverySnapshotCmd struct{}

func (c *RecoverySnapshotCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine()
	streaks := e.Streaks()
	if err := e.Recovery().SaveManualBackup(streaks); err != nil {
		return err
	}
	ctx.Printf("✓ Snapshot saved (%s)\n", streakCount(len(streaks)))
	return nil
}
