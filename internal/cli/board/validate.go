package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/focusboard/internal/cli"
	"github.com/julianstephens/focusboard/internal/source"
	"github.com/julianstephens/focusboard/internal/validation"
)

// ValidateCmd reads the state source directly and reports conflicts. It
// exits non-zero when any are found.
type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	src := ctx.Config.Source
	fctx, cancel := context.WithTimeout(context.Background(), src.Timeout)
	defer cancel()

	snap, err := source.FetchSnapshot(fctx, source.New(src.State, src.Timeout))
	if err != nil {
		return fmt.Errorf("failed to read state: %w", err)
	}

	result := validation.New().ValidateSnapshot(snap)
	ctx.Printf("Validated %s (%d blocks)\n", src.State, len(snap.Blocks))
	ctx.Println(strings.TrimRight(result.FormatReport(), "\n"))
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found", len(result.Conflicts))
	}
	return nil
}
