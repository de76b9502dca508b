package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ParserForPath returns the koanf parser for the file extension, or nil.
func ParserForPath(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return yaml.Parser()
	case ".toml":
		return toml.Parser()
	case ".json":
		return json.Parser()
	default:
		return nil
	}
}

// Load reads path over Default(). A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	parser := ParserForPath(path)
	if parser == nil {
		return Config{}, fmt.Errorf("unsupported config format %q (use .yaml, .toml or .json)", filepath.Ext(path))
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return Config{}, fmt.Errorf("error loading config: %w", err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path in the format chosen by its extension.
func Save(path string, cfg Config) error {
	parser := ParserForPath(path)
	if parser == nil {
		return fmt.Errorf("unsupported config format %q (use .yaml, .toml or .json)", filepath.Ext(path))
	}
	data, err := parser.Marshal(cfg.toMap())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c Config) toMap() map[string]interface{} {
	dur := func(d time.Duration) string { return d.String() }

	counters := make([]interface{}, 0, len(c.Counters))
	for _, ctr := range c.Counters {
		counters = append(counters, map[string]interface{}{"label": ctr.Label, "since": ctr.Since})
	}
	habits := make(map[string]interface{}, len(c.HabitBlocks))
	for name, kws := range c.HabitBlocks {
		list := make([]interface{}, len(kws))
		for i, kw := range kws {
			list[i] = kw
		}
		habits[name] = list
	}

	return map[string]interface{}{
		"source": map[string]interface{}{
			"state":    c.Source.State,
			"override": c.Source.Override,
			"quotes":   c.Source.Quotes,
			"timeout":  dur(c.Source.Timeout),
		},
		"intervals": map[string]interface{}{
			"clock":     dur(c.Intervals.Clock),
			"poll":      dur(c.Intervals.Poll),
			"countdown": dur(c.Intervals.Countdown),
		},
		"night": map[string]interface{}{
			"start_hour": c.Night.StartHour,
			"end_hour":   c.Night.EndHour,
		},
		"offline_threshold": dur(c.OfflineThreshold),
		"timezone":          c.Timezone,
		"storage": map[string]interface{}{
			"path":         c.Storage.Path,
			"history_keep": c.Storage.HistoryKeep,
		},
		"notifications": map[string]interface{}{
			"enabled": c.Notifications.Enabled,
			"dry_run": c.Notifications.DryRun,
		},
		"log": map[string]interface{}{
			"level":        c.Log.Level,
			"max_size_mb":  c.Log.MaxSizeMB,
			"max_backups":  c.Log.MaxBackups,
			"max_age_days": c.Log.MaxAgeDays,
		},
		"features": map[string]interface{}{
			"hybrid_schedule": c.Features.HybridSchedule,
			"transition_fade": c.Features.TransitionFade,
			"habit_dots":      c.Features.HabitDots,
			"night_countdown": c.Features.NightCountdown,
		},
		"habit_blocks": habits,
		"counters":     counters,
	}
}
