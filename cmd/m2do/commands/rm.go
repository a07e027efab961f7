package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/m2dev/m2do/internal/app/remove"
	"github.com/m2dev/m2do/internal/confirm"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/printer"
)

type RemoveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskID string
	yes    bool
}

// NewRemoveCommand returns the rm command.
func NewRemoveCommand(rootCmd *RootCommand, app *kingpin.Application) *RemoveCommand {
	c := &RemoveCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("rm", "Delete a task.")
	c.Cmd.Arg("task-id", "Task ID.").Required().StringVar(&c.taskID)
	c.Cmd.Flag("yes", "Confirm the deletion without prompting.").Short('y').BoolVar(&c.yes)

	return c
}

func (c RemoveCommand) Name() string { return c.Cmd.FullCommand() }

func (c RemoveCommand) Run(ctx context.Context) error {
	sess, err := newSession(ctx, c.rootCmd, nil)
	if err != nil {
		return err
	}
	defer sess.close()

	task, ok := sess.board.Replica().Get(c.taskID)
	if !ok {
		return fmt.Errorf("task %s: %w", c.taskID, model.ErrNotFound)
	}

	svc, err := remove.NewService(remove.ServiceConfig{
		Store:   sess.store,
		Replica: sess.board.Replica(),
		Policy:  sess.cfg.DeletePolicy,
		Logger:  c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	gate, err := confirm.NewDeleteGate(confirm.DeleteGateConfig{
		Replica: sess.board.Replica(),
		Remover: svc,
		Logger:  c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create confirmation gate: %w", err)
	}

	gate.RequestDelete(task)

	p := printer.NewTablePrinter(c.rootCmd.Stdout)

	if !c.yes {
		ok, err := promptYesNo(c.rootCmd, gate.Message())
		if err != nil {
			return err
		}
		if !ok {
			gate.Cancel()
			return p.PrintMessage("Cancelled.")
		}
	}

	if err := gate.Confirm(ctx); err != nil {
		return fmt.Errorf("could not delete task: %w", err)
	}

	if err := p.PrintMessage("Task deleted."); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
