package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/focusboard/internal/cli"
	"github.com/julianstephens/focusboard/internal/dashboard"
	"github.com/julianstephens/focusboard/internal/utils"
	"github.com/julianstephens/focusboard/internal/viewmodel"
)

// WatchCmd runs the dashboard without a screen: it polls, persists
// snapshots and sends notifications, printing one line per event.
type WatchCmd struct {
	Once bool `help:"Poll once, print the resulting status and exit."`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	engine := ctx.NewEngine()
	printEvent := func(ev dashboard.Event) {
		now := utils.FormatClock(engine.Now())
		switch ev.Kind {
		case dashboard.EventBlockChanged:
			ctx.Printf("[%s] %s: %s -> %s\n", now, ev.Kind, ev.Previous, ev.Block)
		case dashboard.EventFellBehind:
			ctx.Printf("[%s] %s: %s (%s)\n", now, ev.Kind, ev.Block, ev.Text)
		default:
			ctx.Printf("[%s] %s\n", now, ev.Kind)
		}
	}

	opts := []dashboard.RunnerOption{cli.TrayNotifier(), dashboard.WithEventHook(printEvent)}
	if c.Once {
		runner := ctx.NewRunner(engine, opts...)
		pctx, cancel := context.WithTimeout(context.Background(), ctx.Config.Source.Timeout*2)
		defer cancel()
		err := runner.PollOnce(pctx)
		printStatus(ctx, engine.View())
		return err
	}

	var last string
	opts = append(opts, dashboard.WithUpdateHook(func(d viewmodel.Dashboard) {
		line := statusLine(d)
		if line != last {
			last = line
			printStatus(ctx, d)
		}
	}))
	runner := ctx.NewRunner(engine, opts...)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runner.Run(sigCtx)
}

func statusLine(d viewmodel.Dashboard) string {
	line := d.Phase
	if d.Hero != nil {
		line += " " + d.Hero.Name
	}
	if d.NightView != nil && d.NightView.Countdown != "" {
		line += " " + d.NightView.Label + " " + d.NightView.Countdown
	}
	if d.Behind {
		line += " (" + d.BehindText + ")"
	}
	return line
}

func printStatus(ctx *cli.Context, d viewmodel.Dashboard) {
	ctx.Printf("[%s] %s | %s\n", d.Clock, statusLine(d), d.Sync.Text)
}
