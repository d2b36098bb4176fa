package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"wordcore/internal/importer"
	"wordcore/internal/planner"
	"wordcore/internal/store"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

type column struct {
	title string
	align columnAlignment
}

// renderTable draws rows under columns. Short rows are padded; a non-empty
// caption is printed under the table.
func renderTable(columns []column, rows [][]string, caption string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		align := text.AlignLeft
		if col.align == alignRight {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	if caption != "" {
		tw.SetCaption("%s", caption)
	}
	return tw.Render()
}

var planColumns = []column{
	{"Kind", alignLeft},
	{"ID", alignRight},
	{"Lemma", alignLeft},
	{"Status", alignLeft},
	{"Lapses", alignRight},
	{"Priority", alignRight},
	{"Overdue", alignRight},
}

// renderPlanTable lists due reviews in priority order followed by new words.
func renderPlanTable(plan *planner.Plan, colorize bool) string {
	rows := make([][]string, 0, len(plan.ReviewWords)+len(plan.NewWords))
	for _, item := range plan.ReviewWords {
		rows = append(rows, []string{
			"review",
			strconv.FormatInt(item.Word.ID, 10),
			item.Word.Lemma,
			statusCell(item.Word.Status, colorize),
			strconv.Itoa(item.SRS.Lapses),
			fmt.Sprintf("%.2f", item.Priority),
			formatOverdue(item.OverdueDays),
		})
	}
	for _, word := range plan.NewWords {
		rows = append(rows, []string{"new", strconv.FormatInt(word.ID, 10), word.Lemma, statusCell(word.Status, colorize), "-", "-", "-"})
	}
	var caption string
	if hidden := plan.DueTotal - len(plan.ReviewWords); hidden > 0 {
		caption = fmt.Sprintf("%d more due words are over today's review limit", hidden)
	}
	return renderTable(planColumns, rows, caption)
}

func formatOverdue(days float64) string {
	if days < 1 {
		return "today"
	}
	return fmt.Sprintf("%.1fd", days)
}

// importRow is the shared shape of staged preview items and stored batch
// items.
type importRow struct {
	id         int64
	candidate  string
	suggestion string
	confidence float64
	confirm    bool
	known      *bool
	accepted   *bool
	final      string
}

func previewRows(items []importer.PreviewItem) []importRow {
	rows := make([]importRow, len(items))
	for i, item := range items {
		known := item.Existing
		rows[i] = importRow{
			id:         item.ID,
			candidate:  item.WordCandidate,
			suggestion: item.SuggestedCorrection,
			confidence: item.Confidence,
			confirm:    item.NeedsConfirmation,
			known:      &known,
		}
	}
	return rows
}

func batchRows(items []store.ImportItem) []importRow {
	rows := make([]importRow, len(items))
	for i, item := range items {
		rows[i] = importRow{
			id:         item.ID,
			candidate:  item.WordCandidate,
			suggestion: item.SuggestedCorrection,
			confidence: item.Confidence,
			confirm:    item.NeedsConfirmation,
			accepted:   item.Accepted,
			final:      item.FinalLemma,
		}
	}
	return rows
}

// renderImportTable shows import items. Previews carry a Known column;
// decided batches carry Accepted and Final instead. The caption counts the
// items that still need a human decision.
func renderImportTable(rows []importRow, decided bool) string {
	columns := []column{
		{"Item", alignRight},
		{"Candidate", alignLeft},
		{"Suggestion", alignLeft},
		{"Confidence", alignRight},
		{"Confirm", alignLeft},
	}
	if decided {
		columns = append(columns, column{"Accepted", alignLeft}, column{"Final", alignLeft})
	} else {
		columns = append(columns, column{"Known", alignLeft})
	}

	cells := make([][]string, 0, len(rows))
	pending, known := 0, 0
	for _, row := range rows {
		suggestion := row.suggestion
		if suggestion == row.candidate {
			suggestion = "="
		}
		line := []string{
			strconv.FormatInt(row.id, 10),
			row.candidate,
			suggestion,
			fmt.Sprintf("%.2f", row.confidence),
			yesNo(row.confirm),
		}
		if decided {
			accepted, final := "-", "-"
			if row.accepted != nil {
				accepted = yesNo(*row.accepted)
			}
			if row.final != "" {
				final = row.final
			}
			line = append(line, accepted, final)
		} else {
			line = append(line, yesNo(row.known != nil && *row.known))
			if row.known != nil && *row.known {
				known++
			}
		}
		if row.confirm && row.accepted == nil {
			pending++
		}
		cells = append(cells, line)
	}

	caption := ""
	if !decided {
		caption = fmt.Sprintf("%d items, %d need confirmation, %d already known", len(rows), pending, known)
	}
	return renderTable(columns, cells, caption)
}
