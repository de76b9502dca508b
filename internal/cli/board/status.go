// Package board holds the one-shot dashboard commands.
package board

import (
	"context"
	"fmt"

	"github.com/julianstephens/focusboard/internal/cli"
	"github.com/julianstephens/focusboard/internal/dashboard"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	engine := ctx.NewEngine()
	if err := pollOnce(ctx, engine); err != nil {
		return err
	}
	writeSummary(ctx.Stdout(), engine.View())
	return nil
}

// pollOnce fetches the state a single time and evaluates the clock. A
// failed poll is only an error when there is no stored snapshot to fall
// back on.
func pollOnce(ctx *cli.Context, engine *dashboard.Engine) error {
	runner := ctx.NewRunner(engine)
	pctx, cancel := context.WithTimeout(context.Background(), ctx.Config.Source.Timeout*2)
	defer cancel()

	if err := runner.PollOnce(pctx); err != nil && engine.Snapshot() == nil {
		return fmt.Errorf("failed to read state: %w", err)
	}
	return nil
}
