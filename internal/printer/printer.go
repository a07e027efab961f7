package printer

import (
	"github.com/m2dev/m2do/internal/history"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/view"
)

// BoardSection is one rendered board section: its label plus the tasks it
// contains.
type BoardSection struct {
	Section view.Section
	Label   string
	Tasks   []model.Task
}

// Printer knows how to print board information in different formats.
type Printer interface {
	PrintBoard(sections []BoardSection) error
	PrintHistory(rows []history.Row) error
	PrintMessage(msg string) error
}
