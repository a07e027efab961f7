package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/m2dev/m2do/internal/history"
)

// JSONPrinter prints board information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// taskItem represents a task in the board output (subset of fields).
type taskItem struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Details   string    `json:"details,omitempty"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// sectionOutput represents one board section.
type sectionOutput struct {
	Section string     `json:"section"`
	Label   string     `json:"label"`
	Tasks   []taskItem `json:"tasks"`
}

// historyRowOutput represents one rendered history entry.
type historyRowOutput struct {
	Action  string `json:"action"`
	Time    string `json:"time"`
	Changes string `json:"changes"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintBoard prints the board sections in JSON format.
func (j *JSONPrinter) PrintBoard(sections []BoardSection) error {
	output := make([]sectionOutput, len(sections))
	for i, section := range sections {
		items := make([]taskItem, len(section.Tasks))
		for k, task := range section.Tasks {
			items[k] = taskItem{
				ID:        task.ID,
				Date:      task.Date,
				To:        task.To,
				Subject:   task.Subject,
				Details:   task.Details,
				Status:    string(task.Status),
				UpdatedAt: task.UpdatedAt.UTC(),
			}
		}
		output[i] = sectionOutput{
			Section: string(section.Section),
			Label:   section.Label,
			Tasks:   items,
		}
	}

	return j.encode(output)
}

// PrintHistory prints history rows in JSON format.
func (j *JSONPrinter) PrintHistory(rows []history.Row) error {
	output := make([]historyRowOutput, len(rows))
	for i, row := range rows {
		output[i] = historyRowOutput{
			Action:  row.Action,
			Time:    row.Time,
			Changes: row.Changes,
		}
	}

	return j.encode(output)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

// encode writes indented JSON without HTML escaping, so history change text
// like `subject: "A" -> "B"` comes out literally.
func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
