// Package history lists what the dashboard has persisted: received
// snapshots and keystone streaks.
package history

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/focusboard/internal/cli"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func render(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}

type HistoryCmd struct {
	Limit int `help:"Number of snapshots to show." default:"20"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	records, err := ctx.Store.ListSnapshots(c.Limit)
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(records) == 0 {
		ctx.Println("No snapshots stored yet.")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		block := rec.Snapshot.Now.Block
		if block == "" {
			block = "-"
		}
		rows = append(rows, []string{
			rec.ReceivedAt.Local().Format("2006-01-02 15:04:05"),
			humanize.Time(rec.ReceivedAt),
			rec.Date,
			rec.Phase,
			block,
		})
	}
	ctx.Println(render([]string{"Received", "", "Date", "Phase", "Block"}, rows))
	ctx.Printf("%d snapshot(s) from %s\n", len(records), ctx.Store.GetConfigPath())
	return nil
}

type StreaksCmd struct{}

func (c *StreaksCmd) Run(ctx *cli.Context) error {
	streaks, err := ctx.Store.GetKeystoneStreaks()
	if err != nil {
		return fmt.Errorf("failed to load streaks: %w", err)
	}
	if len(streaks) == 0 {
		ctx.Println("No keystones recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(streaks))
	for _, s := range streaks {
		name := s.Name
		if name == "" {
			name = s.Key
		}
		last := s.LastDone
		if last == "" {
			last = "never"
		}
		rows = append(rows, []string{name, strconv.Itoa(s.Current), strconv.Itoa(s.Best), last})
	}
	ctx.Println(render([]string{"Keystone", "Current", "Best", "Last done"}, rows))
	return nil
}
