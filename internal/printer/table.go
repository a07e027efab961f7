package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/m2dev/m2do/internal/history"
	"github.com/m2dev/m2do/internal/view"
)

// TablePrinter prints board information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintBoard prints the board sections as tables, one per section.
func (t *TablePrinter) PrintBoard(sections []BoardSection) error {
	for i, section := range sections {
		if i > 0 {
			fmt.Fprintln(t.writer)
		}
		fmt.Fprintln(t.writer, section.Label)

		if len(section.Tasks) == 0 {
			fmt.Fprintln(t.writer, view.EmptyLabel(section.Section))
			continue
		}

		tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

		// Print header
		fmt.Fprintln(tw, "ID\tDATE\tTO\tSUBJECT\tSTATUS\tUPDATED")

		// Print rows
		for _, task := range section.Tasks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				task.ID, task.Date, task.To, task.Subject, task.Status, TimeAgo(task.UpdatedAt))
		}

		if err := tw.Flush(); err != nil {
			return err
		}
	}

	return nil
}

// PrintHistory prints a task's history rows, one block per entry.
func (t *TablePrinter) PrintHistory(rows []history.Row) error {
	for i, row := range rows {
		if i > 0 {
			fmt.Fprintln(t.writer)
		}
		fmt.Fprintf(t.writer, "%s  %s\n", row.Action, row.Time)
		for _, line := range strings.Split(row.Changes, "\n") {
			fmt.Fprintf(t.writer, "  %s\n", line)
		}
	}

	return nil
}

// PrintMessage prints a simple message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}
