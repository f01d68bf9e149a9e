package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mamadbah2/hannan/internal/crud"
	"github.com/mamadbah2/hannan/internal/domain/badge"
	"github.com/mamadbah2/hannan/internal/domain/models"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(24)
	derivedStyle = lipgloss.NewStyle().Italic(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	badgeColors = map[string]lipgloss.Color{
		badge.Green:  lipgloss.Color("2"),
		badge.Red:    lipgloss.Color("1"),
		badge.Yellow: lipgloss.Color("3"),
		badge.Blue:   lipgloss.Color("4"),
		badge.Orange: lipgloss.Color("208"),
		badge.Purple: lipgloss.Color("5"),
		badge.Gray:   lipgloss.Color("8"),
	}
)

func renderBadge(b models.Badge) string {
	return lipgloss.NewStyle().Foreground(badgeColors[b.Color]).Render("[" + b.Label + "]")
}

func renderTable(w io.Writer, t crud.Table) {
	if t.Empty != "" {
		fmt.Fprintln(w, mutedStyle.Render(t.Empty))
		return
	}

	headers := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		headers = append(headers, c.Label)
	}
	headers = append(headers, "")

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, r := range t.Rows {
		badges := make([]string, 0, len(r.Badges))
		for _, b := range r.Badges {
			badges = append(badges, renderBadge(b))
		}
		tbl.Row(append(append([]string{}, r.Cells...), strings.Join(badges, " "))...)
	}
	fmt.Fprintln(w, tbl.Render())
}

func renderDetails(w io.Writer, lines []crud.Line) {
	for _, l := range lines {
		value := l.Value
		if l.Derived {
			value = derivedStyle.Render(value)
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(l.Label), value)
	}
}

func renderStats(w io.Writer, s models.Stats) {
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render("Total"), s.Total)
	for _, key := range sortedKeys(s.ByGroup) {
		fmt.Fprintf(w, "%s %d\n", labelStyle.Render("  "+key), s.ByGroup[key])
	}
	for _, key := range sortedKeys(s.Sums) {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Sum of "+key), s.Sums[key].StringFixed(2))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
