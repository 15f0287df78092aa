package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// Table is a grid of cell texts. Cells[row][col] may hold several lines.
type Table struct {
	Rows  int
	Cols  int
	Cells [][]string
}

// NewTable returns an empty rows x cols table.
func NewTable(rows, cols int) *Table {
	t := &Table{Rows: rows, Cols: cols, Cells: make([][]string, rows)}
	for i := range t.Cells {
		t.Cells[i] = make([]string, cols)
	}
	return t
}

// Layout holds the measured geometry of a table.
type Layout struct {
	table *Table

	colWidths  []int        // content width for each column
	rowHeights []int        // display row count for each table row
	cellLines  [][][]string // cellLines[row][col] = cell text split by newlines
}

// Render renders the table to an ASCII string
func (t *Table) Render() string {
	layout := t.buildLayout()
	return layout.render()
}

func (t *Table) buildLayout() *Layout {
	layout := &Layout{
		table:      t,
		colWidths:  make([]int, t.Cols),
		rowHeights: make([]int, t.Rows),
		cellLines:  make([][][]string, t.Rows),
	}

	for row := range layout.cellLines {
		layout.cellLines[row] = make([][]string, t.Cols)
		for col := range layout.cellLines[row] {
			layout.cellLines[row][col] = strings.Split(t.cell(row, col), "\n")
		}
	}

	layout.computeColWidths()
	layout.computeRowHeights()

	return layout
}

func (t *Table) cell(row, col int) string {
	if row >= len(t.Cells) || col >= len(t.Cells[row]) {
		return ""
	}
	return norm.NFC.String(t.Cells[row][col])
}

func (l *Layout) computeColWidths() {
	for col := range l.colWidths {
		l.colWidths[col] = 1
		for row := range l.cellLines {
			for _, line := range l.cellLines[row][col] {
				if width := displayWidth(line); width > l.colWidths[col] {
					l.colWidths[col] = width
				}
			}
		}
	}
}

func (l *Layout) computeRowHeights() {
	for row := range l.rowHeights {
		maxLines := 1
		for _, lines := range l.cellLines[row] {
			if len(lines) > maxLines {
				maxLines = len(lines)
			}
		}
		l.rowHeights[row] = maxLines
	}
}

func (l *Layout) render() string {
	var sb strings.Builder

	border := l.renderBorderLine()

	sb.WriteString(border)
	sb.WriteString("\n")

	for rowIdx := 0; rowIdx < l.table.Rows; rowIdx++ {
		for displayRowIdx := 0; displayRowIdx < l.rowHeights[rowIdx]; displayRowIdx++ {
			sb.WriteString(l.renderContentLine(rowIdx, displayRowIdx))
			sb.WriteString("\n")
		}

		sb.WriteString(border)
		sb.WriteString("\n")
	}

	return sb.String()
}

func (l *Layout) renderBorderLine() string {
	var sb strings.Builder

	sb.WriteString("+")
	for _, width := range l.colWidths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteString("+")
	}

	return sb.String()
}

// renderContentLine renders one display row of a table row.
// Cells with fewer lines than the row height are padded with blanks.
func (l *Layout) renderContentLine(rowIdx int, displayRowIdx int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for colIdx, width := range l.colWidths {
		var text string
		if lines := l.cellLines[rowIdx][colIdx]; displayRowIdx < len(lines) {
			text = lines[displayRowIdx]
		}

		padding := width - displayWidth(text)
		if padding < 0 {
			padding = 0
		}

		sb.WriteString(" ")
		sb.WriteString(text)
		sb.WriteString(strings.Repeat(" ", padding))
		sb.WriteString(" |")
	}

	return sb.String()
}

// displayWidth calculates the display width of a string using go-runewidth,
// counting CJK characters as two columns.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}
