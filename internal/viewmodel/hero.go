package viewmodel

import (
	"strings"

	"github.com/julianstephens/focusboard/internal/dayphase"
	"github.com/julianstephens/focusboard/internal/models"
)

const (
	defaultBlockColor = "#3498db"
	keystoneBadge     = "◆ Keystone Trigger"
)

// Field is a labeled hero line (DO, FROM, TIME).
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Hero is the current-block card.
type Hero struct {
	Icon     string   `json:"icon,omitempty"`
	Name     string   `json:"name"`
	Sublabel string   `json:"sublabel,omitempty"`
	Task     string   `json:"task,omitempty"`
	Color    string   `json:"color"`
	Fields   []Field  `json:"fields,omitempty"`
	Details  []string `json:"details,omitempty"`
	Badge    string   `json:"badge,omitempty"`
	Behind   string   `json:"behind,omitempty"`
}

// BuildHero projects the snapshot's now section into the hero card.
func BuildHero(snap *models.Snapshot, r dayphase.Result) *Hero {
	if snap == nil {
		return nil
	}
	now := snap.Now
	h := &Hero{
		Icon:     now.Icon,
		Name:     now.Block,
		Sublabel: Sublabel(now),
		Task:     now.Task,
		Color:    now.Color,
		Fields:   HeroFields(now),
		Details:  now.Details,
		Behind:   r.BehindText,
	}
	if h.Color == "" {
		h.Color = defaultBlockColor
	}
	if cur, ok := snap.CurrentBlock(); ok && cur.Required {
		h.Badge = keystoneBadge
	}
	return h
}

// Sublabel returns the label when it adds something beyond the block and
// task names.
func Sublabel(now models.NowInfo) string {
	if now.Label == "" {
		return ""
	}
	if strings.EqualFold(now.Label, now.Block) || strings.EqualFold(now.Label, now.Task) {
		return ""
	}
	return now.Label
}

// HeroFields picks DO, FROM and TIME, falling back to the legacy file, task
// and source fields. Placeholder values are dropped.
func HeroFields(now models.NowInfo) []Field {
	var fields []Field
	if v := firstNonEmpty(now.Do, now.File); v != "" && v != "--" {
		fields = append(fields, Field{Label: "DO", Value: v})
	}
	if v := firstNonEmpty(now.FromRef, now.Task); v != "" && v != "(fixed)" && v != "(protected)" {
		fields = append(fields, Field{Label: "FROM", Value: v})
	}
	if v := firstNonEmpty(now.Duration, now.Source); v != "" && v != "--" {
		fields = append(fields, Field{Label: "TIME", Value: v})
	}
	return fields
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
