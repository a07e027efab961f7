package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/m2dev/m2do/internal/app/update"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/printer"
)

type EditCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskID  string
	date    string
	to      string
	subject string
	details string
	status  string

	dateSet    bool
	toSet      bool
	subjectSet bool
	detailsSet bool
	statusSet  bool
}

// NewEditCommand returns the edit command.
func NewEditCommand(rootCmd *RootCommand, app *kingpin.Application) *EditCommand {
	c := &EditCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("edit", "Edit a task's fields. Unset flags keep the current values.")
	c.Cmd.Arg("task-id", "Task ID.").Required().StringVar(&c.taskID)
	c.Cmd.Flag("date", "New calendar date (YYYY-MM-DD).").IsSetByUser(&c.dateSet).StringVar(&c.date)
	c.Cmd.Flag("to", "New assignee code.").IsSetByUser(&c.toSet).StringVar(&c.to)
	c.Cmd.Flag("subject", "New subject.").IsSetByUser(&c.subjectSet).StringVar(&c.subject)
	c.Cmd.Flag("details", "New details. Pass an empty string to clear them.").IsSetByUser(&c.detailsSet).StringVar(&c.details)
	c.Cmd.Flag("status", "New status.").IsSetByUser(&c.statusSet).EnumVar(&c.status, string(model.StatusOpen), string(model.StatusClosed))

	return c
}

func (c EditCommand) Name() string { return c.Cmd.FullCommand() }

func (c EditCommand) Run(ctx context.Context) error {
	sess, err := newSession(ctx, c.rootCmd, nil)
	if err != nil {
		return err
	}
	defer sess.close()

	original, ok := sess.board.Replica().Get(c.taskID)
	if !ok {
		return fmt.Errorf("task %s: %w", c.taskID, model.ErrNotFound)
	}

	// The draft starts from the last-known server state; only the flags the
	// user set override it.
	draft := model.DraftOf(original)
	if c.dateSet {
		draft.Date = c.date
	}
	if c.toSet {
		draft.To = c.to
	}
	if c.subjectSet {
		draft.Subject = c.subject
	}
	if c.detailsSet {
		draft.Details = c.details
	}
	if c.statusSet {
		draft.Status = model.Status(c.status)
	}

	svc, err := update.NewService(update.ServiceConfig{
		Store:   sess.store,
		Replica: sess.board.Replica(),
		Roster:  sess.cfg.Assignees,
		Logger:  c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	if err := svc.Update(ctx, update.Request{TaskID: c.taskID, Draft: draft}); err != nil {
		return fmt.Errorf("could not update task: %w", err)
	}

	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	if err := p.PrintMessage(fmt.Sprintf("Updated task: %s", c.taskID)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
