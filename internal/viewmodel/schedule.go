package viewmodel

import (
	"strings"

	"github.com/julianstephens/focusboard/internal/dayphase"
	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/timemap"
)

// BlockRow is one entry of the schedule list.
type BlockRow struct {
	Index     int        `json:"index"`
	Time      string     `json:"time"`
	Minutes   int        `json:"minutes"`
	Name      string     `json:"name"`
	Task      string     `json:"task,omitempty"`
	Icon      string     `json:"icon,omitempty"`
	Color     string     `json:"color,omitempty"`
	Type      string     `json:"type,omitempty"`
	Status    string     `json:"status"`
	Glyph     string     `json:"glyph,omitempty"`
	Required  bool       `json:"required,omitempty"`
	HabitDots []HabitDot `json:"habit_dots,omitempty"`

	status dayphase.Status
}

// State returns the typed status of the row.
func (r BlockRow) State() dayphase.Status { return r.status }

// HabitDot is a habit attached to a schedule block.
type HabitDot struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// DefaultHabitBlocks maps lowercase habit names to the block type or task
// keywords they attach to.
var DefaultHabitBlocks = map[string][]string{
	"am skool":                    {"morning", "skool"},
	"am twitter":                  {"morning", "twitter"},
	"creation stack":              {"creation"},
	"record video":                {"creation", "record"},
	"livestream":                  {"creation", "stream"},
	"write/script":                {"creation", "write", "script"},
	"pro-1: leadgen/jintent":      {"dev", "jintent", "leadgen"},
	"pro-2: job hunt":             {"dev", "job"},
	"pro-3: pro bono/outreach":    {"dev", "outreach", "pro bono"},
	"pro-4: communities":          {"dev", "communit"},
	"sys-1: video editing":        {"exec", "edit"},
	"sys-2: communities 2nd pass": {"exec", "communit"},
	"sys-3: pipeline/process":     {"exec", "pipeline"},
	"pm skool":                    {"exec", "skool"},
	"pm twitter":                  {"exec", "twitter"},
	"lab-1: research block":       {"research"},
	"lab-2: render queue":         {"research", "render"},
	"lab-3: tech sprints":         {"research", "tech", "sprint"},
	"lab-5: prep tomorrow":        {"research", "prep"},
	"lab-4: pm reflection (tim)":  {"research", "reflect", "tim"},
}

// StatusGlyph is the leading marker for a row.
func StatusGlyph(s dayphase.Status) string {
	switch s {
	case dayphase.Done:
		return "✓"
	case dayphase.CurrentActive:
		return "▶"
	case dayphase.Skipped:
		return "○"
	default:
		return ""
	}
}

// BuildSchedule produces the rows and the NOW marker position (-1 when
// there is none). With the hybrid layout off, skipped rows show as pending
// and no marker is placed.
func BuildSchedule(snap *models.Snapshot, m timemap.Mapping, r dayphase.Result, opts Options) ([]BlockRow, int) {
	if snap == nil || len(snap.Blocks) == 0 {
		return nil, -1
	}
	statuses := r.Statuses
	if len(statuses) != len(snap.Blocks) {
		statuses = dayphase.ClassifyBlocks(snap.Blocks, dayphase.CurrentIndex(snap.Blocks), m.TimePosition)
	}

	var habits []models.Habit
	if opts.Features.HabitDots {
		habits = snap.Habits.All()
	}
	mapping := opts.HabitBlocks
	if len(mapping) == 0 {
		mapping = DefaultHabitBlocks
	}

	rows := make([]BlockRow, len(snap.Blocks))
	for i, b := range snap.Blocks {
		st := statuses[i]
		if st == dayphase.Skipped && !opts.Features.HybridSchedule {
			st = dayphase.Pending
		}
		minutes := timemap.Unknown
		if i < len(m.Minutes) {
			minutes = m.Minutes[i]
		}
		rows[i] = BlockRow{
			Index:     i,
			Time:      b.Time,
			Minutes:   minutes,
			Name:      b.Name(),
			Task:      b.Task,
			Icon:      b.Icon,
			Color:     b.Color,
			Type:      b.Type,
			Status:    st.String(),
			Glyph:     StatusGlyph(st),
			Required:  b.Required,
			HabitDots: HabitDotsFor(b, habits, mapping),
			status:    st,
		}
	}

	marker := -1
	if opts.Features.HybridSchedule && r.HasMarker {
		marker = r.Marker
	}
	return rows, marker
}

// HabitDotsFor returns the habits that belong under block b. Only habits
// listed in mapping are considered; one matches when any of its keywords
// appears in the block type or task, or when its own name appears in the
// task.
func HabitDotsFor(b models.ScheduleBlock, habits []models.Habit, mapping map[string][]string) []HabitDot {
	if len(habits) == 0 {
		return nil
	}
	typ := strings.ToLower(b.Type)
	task := strings.ToLower(b.Task)

	var out []HabitDot
	for _, h := range habits {
		name := strings.ToLower(h.Name)
		keywords, ok := mapping[name]
		if !ok {
			continue
		}
		for _, kw := range keywords {
			kw = strings.ToLower(kw)
			if strings.Contains(typ, kw) || strings.Contains(task, kw) || strings.Contains(task, name) {
				out = append(out, HabitDot{Name: h.Name, Done: h.Done})
				break
			}
		}
	}
	return out
}

// Progress is the share of blocks marked done, rounded to a whole percent.
func Progress(blocks []models.ScheduleBlock) int {
	if len(blocks) == 0 {
		return 0
	}
	done := 0
	for _, b := range blocks {
		if b.Done {
			done++
		}
	}
	return int(float64(done)/float64(len(blocks))*100 + 0.5)
}
