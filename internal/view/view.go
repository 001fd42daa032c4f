package view

import (
	"strings"

	"torn_item_value/internal/items"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

const (
	nameWidth  = 28
	countWidth = 9
	valueWidth = 14
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A5A5A5"))
	activeStyle = headerStyle.Foreground(lipgloss.Color("#DC8A00")).Bold(true)
	oddRow      = lipgloss.NewStyle().Background(lipgloss.Color("#2C2C2C"))
	evenRow     = lipgloss.NewStyle().Background(lipgloss.Color("#1E1E1E"))
	footerStyle = lipgloss.NewStyle().Faint(true)

	nameCol  = lipgloss.NewStyle().Width(nameWidth)
	countCol = lipgloss.NewStyle().Width(countWidth).Align(lipgloss.Right)
	valueCol = lipgloss.NewStyle().Width(valueWidth).Align(lipgloss.Right)
)

// Render draws rows as a table in the order given. The header marks the
// active sort column; the $ column shows unit value.
func Render(rows []items.ItemRecord, state items.SortState) string {
	var b strings.Builder

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		header(nameCol, "Name", items.SortByName, state),
		header(countCol, "#", items.SortByQuantity, state),
		header(valueCol, "$", items.SortByValue, state),
	))
	b.WriteByte('\n')

	total := 0
	for i, r := range rows {
		stripe := evenRow
		if i%2 == 0 {
			stripe = oddRow
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			nameCol.Render(runewidth.Truncate(r.Name, nameWidth, "…")),
			countCol.Render(humanize.Comma(int64(r.Quantity))),
			valueCol.Render(humanize.Comma(int64(r.UnitValue))),
		)
		b.WriteString(stripe.Render(line))
		b.WriteByte('\n')
		total += r.TotalValue()
	}

	b.WriteString(footerStyle.Render(Summary(len(rows), total)))
	return b.String()
}

// Summary is the footer line: item count and summed stack value.
func Summary(count, totalValue int) string {
	noun := "items"
	if count == 1 {
		noun = "item"
	}
	return humanize.Comma(int64(count)) + " " + noun + " worth $" + humanize.Comma(int64(totalValue))
}

func header(col lipgloss.Style, label string, key items.SortKey, state items.SortState) string {
	if state.Key != key {
		return col.Inherit(headerStyle).Render(label)
	}
	arrow := "▼"
	if state.Ascending {
		arrow = "▲"
	}
	return col.Inherit(activeStyle).Render(label + " " + arrow)
}
