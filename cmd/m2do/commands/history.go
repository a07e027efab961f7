package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/m2dev/m2do/internal/history"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/printer"
)

type HistoryCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskID string
	json   bool
}

// NewHistoryCommand returns the history command.
func NewHistoryCommand(rootCmd *RootCommand, app *kingpin.Application) *HistoryCommand {
	c := &HistoryCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("history", "Show a task's audit history.")
	c.Cmd.Arg("task-id", "Task ID.").Required().StringVar(&c.taskID)
	c.Cmd.Flag("json", "Output in JSON format.").BoolVar(&c.json)

	return c
}

func (c HistoryCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryCommand) Run(ctx context.Context) error {
	sess, err := newSession(ctx, c.rootCmd, nil)
	if err != nil {
		return err
	}
	defer sess.close()

	task, ok := sess.board.Replica().Get(c.taskID)
	if !ok {
		return fmt.Errorf("task %s: %w", c.taskID, model.ErrNotFound)
	}

	var p printer.Printer = printer.NewTablePrinter(c.rootCmd.Stdout)
	if c.json {
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintHistory(history.RenderRows(task.History)); err != nil {
		return fmt.Errorf("could not print history: %w", err)
	}

	return nil
}
