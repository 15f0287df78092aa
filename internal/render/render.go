package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/hanpama/hwpx/internal/document"
)

// RenderText renders an EventScanner to plain text with ASCII tables.
//
// Text runs are written one per line. Inside a table, every Cell event starts
// the next cell in row-major order and the runs that follow it become that
// cell's lines. Tables are assumed not to nest: a TableStart while a table is
// open flushes the open one first.
func RenderText(scanner document.EventScanner, w io.Writer) error {
	var table *tableBuilder

	for {
		ev, err := scanner.Next()
		if err != nil {
			if err == io.EOF {
				return flushTable(table, w)
			}
			return fmt.Errorf("error reading content: %w", err)
		}

		switch e := ev.(type) {
		case document.Text:
			if table != nil {
				table.addLine(e.Content)
				continue
			}
			if err := renderText(e, w); err != nil {
				return err
			}

		case document.Image:
			if table != nil {
				table.addLine(imagePlaceholder(e))
				continue
			}
			if _, err := fmt.Fprintln(w, imagePlaceholder(e)); err != nil {
				return err
			}

		case document.TableStart:
			if err := flushTable(table, w); err != nil {
				return err
			}
			table = newTableBuilder(e)

		case document.Cell:
			if table != nil {
				table.nextCell()
			}

		case document.TableEnd:
			if err := flushTable(table, w); err != nil {
				return err
			}
			table = nil
		}
	}
}

func renderText(text document.Text, w io.Writer) error {
	content := norm.NFC.String(strings.TrimRight(text.Content, "\n"))
	if text.Kind == document.Formula {
		content = "$" + strings.TrimSpace(content) + "$"
	}
	_, err := fmt.Fprintln(w, content)
	return err
}

func imagePlaceholder(img document.Image) string {
	return "[IMAGE " + img.ReferenceID + "]"
}

// tableBuilder collects the cells of the open table.
type tableBuilder struct {
	rows  int
	cols  int
	cells [][]string
}

func newTableBuilder(start document.TableStart) *tableBuilder {
	return &tableBuilder{rows: start.Rows, cols: start.Cols}
}

func (b *tableBuilder) nextCell() {
	b.cells = append(b.cells, nil)
}

func (b *tableBuilder) addLine(line string) {
	// Runs before the first Cell event still need a home.
	if len(b.cells) == 0 {
		b.nextCell()
	}
	last := len(b.cells) - 1
	b.cells[last] = append(b.cells[last], line)
}

// build lays the collected cells out row-major. The declared row count is
// grown when the table has more cells than it announced.
func (b *tableBuilder) build() *Table {
	cols := b.cols
	if cols <= 0 {
		cols = 1
	}
	rows := b.rows
	if need := (len(b.cells) + cols - 1) / cols; need > rows {
		rows = need
	}

	t := NewTable(rows, cols)
	for i, lines := range b.cells {
		t.Cells[i/cols][i%cols] = strings.TrimSpace(strings.Join(lines, "\n"))
	}
	return t
}

func flushTable(b *tableBuilder, w io.Writer) error {
	if b == nil || len(b.cells) == 0 {
		return nil
	}

	if _, err := fmt.Fprint(w, b.build().Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
