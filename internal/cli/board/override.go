package board

import (
	"errors"
	"fmt"

	"github.com/julianstephens/focusboard/internal/cli"
	"github.com/julianstephens/focusboard/internal/config"
	"github.com/julianstephens/focusboard/internal/constants"
	fberrors "github.com/julianstephens/focusboard/internal/errors"
	"github.com/julianstephens/focusboard/internal/source"
)

type OverrideCmd struct {
	Mode string `arg:"" enum:"auto,day,night" help:"Display mode: auto, day or night."`
}

func (c *OverrideCmd) Run(ctx *cli.Context) error {
	path := ctx.Config.Source.Override
	configured := path != ""
	if !configured {
		path = config.DefaultOverridePath()
	}
	if source.IsURL(path) {
		return fberrors.WithHint(
			errors.New("override source is a URL and cannot be written locally"),
			"change the mode on the server that publishes "+path)
	}

	data, err := source.EncodeOverride(constants.OverrideMode(c.Mode))
	if err != nil {
		return fmt.Errorf("failed to encode override: %w", err)
	}
	if err := source.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write override: %w", err)
	}

	ctx.Printf("✓ Display override set to %s (%s)\n", c.Mode, path)
	if !configured {
		ctx.Printf("  Set source.override to %s in your config so the dashboard reads it.\n", path)
	}
	return nil
}
