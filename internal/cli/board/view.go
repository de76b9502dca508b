package board

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/focusboard/internal/cli"
	"github.com/julianstephens/focusboard/internal/clock"
	"github.com/julianstephens/focusboard/internal/utils"
)

type ViewCmd struct {
	JSON bool   `help:"Print the view model as JSON."`
	At   string `help:"Render as of this time instead of now (e.g. '2026-03-14 14:30')."`
}

func (c *ViewCmd) Run(ctx *cli.Context) error {
	if c.At != "" {
		at, err := utils.ParseTimestamp(c.At, ctx.Config.Location())
		if err != nil {
			return fmt.Errorf("invalid --at value: %w", err)
		}
		replay := *ctx
		replay.Clock = clock.NewFakeClock(at)
		ctx = &replay
	}

	engine := ctx.NewEngine()
	if err := pollOnce(ctx, engine); err != nil {
		return err
	}
	d := engine.View()

	if c.JSON {
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode view: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}

	w := ctx.Stdout()
	writeSummary(w, d)
	writeSchedule(w, d)
	writeWidgets(w, d)
	return nil
}
