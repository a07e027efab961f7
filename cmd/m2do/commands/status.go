package commands

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/m2dev/m2do/internal/app/toggle"
	"github.com/m2dev/m2do/internal/confirm"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/printer"
)

type StatusCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskID string
	yes    bool
}

// NewStatusCommand returns the status command.
func NewStatusCommand(rootCmd *RootCommand, app *kingpin.Application) *StatusCommand {
	c := &StatusCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("status", "Toggle a task between Open and Closed.")
	c.Cmd.Arg("task-id", "Task ID.").Required().StringVar(&c.taskID)
	c.Cmd.Flag("yes", "Confirm the status change without prompting.").Short('y').BoolVar(&c.yes)

	return c
}

func (c StatusCommand) Name() string { return c.Cmd.FullCommand() }

func (c StatusCommand) Run(ctx context.Context) error {
	sess, err := newSession(ctx, c.rootCmd, nil)
	if err != nil {
		return err
	}
	defer sess.close()

	task, ok := sess.board.Replica().Get(c.taskID)
	if !ok {
		return fmt.Errorf("task %s: %w", c.taskID, model.ErrNotFound)
	}

	svc, err := toggle.NewService(toggle.ServiceConfig{
		Store:   sess.store,
		Replica: sess.board.Replica(),
		Logger:  c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	gate, err := confirm.NewStatusGate(confirm.StatusGateConfig{
		Replica: sess.board.Replica(),
		Toggler: svc,
		Logger:  c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create confirmation gate: %w", err)
	}

	gate.RequestToggle(task)

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
		return fmt.Errorf("could not change status: %w", err)
	}

	// The feed already delivered the post-write snapshot, the replica has
	// the new status.
	msg := "Task is gone."
	if task, ok := sess.board.Replica().Get(c.taskID); ok {
		msg = fmt.Sprintf("Status changed to %s.", task.Status)
	}
	if err := p.PrintMessage(msg); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}

// promptYesNo asks the question on stdout and reads a y/N answer from stdin.
func promptYesNo(rootCmd *RootCommand, question string) (bool, error) {
	fmt.Fprintf(rootCmd.Stdout, "%s [y/N]: ", question)

	reader := bufio.NewReader(rootCmd.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("could not read answer: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
