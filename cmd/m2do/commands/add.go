package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/m2dev/m2do/internal/app/create"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/printer"
	"github.com/m2dev/m2do/internal/view"
)

type AddCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	subject string
	date    string
	to      string
	details string
}

// NewAddCommand returns the add command.
func NewAddCommand(rootCmd *RootCommand, app *kingpin.Application) *AddCommand {
	c := &AddCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("add", "Add a task to the board.")
	c.Cmd.Arg("subject", "Task subject.").Required().StringVar(&c.subject)
	c.Cmd.Flag("date", "Task calendar date (YYYY-MM-DD). Defaults to today.").StringVar(&c.date)
	c.Cmd.Flag("to", "Assignee code. Defaults to the first roster entry.").StringVar(&c.to)
	c.Cmd.Flag("details", "Free text details.").StringVar(&c.details)

	return c
}

func (c AddCommand) Name() string { return c.Cmd.FullCommand() }

func (c AddCommand) Run(ctx context.Context) error {
	sess, err := newSession(ctx, c.rootCmd, nil)
	if err != nil {
		return err
	}
	defer sess.close()

	// Fresh drafts default to today and the first assignee.
	date := c.date
	if date == "" {
		date = view.TodayISO(time.Now())
	}
	to := c.to
	if to == "" {
		to = sess.cfg.Assignees[0]
	}

	svc, err := create.NewService(create.ServiceConfig{
		Store:    sess.store,
		Identity: sess.identity,
		Roster:   sess.cfg.Assignees,
		Logger:   c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	id, err := svc.Create(ctx, create.Request{Draft: model.Draft{
		Date:    date,
		To:      to,
		Subject: c.subject,
		Details: c.details,
		Status:  model.StatusOpen,
	}})
	if err != nil {
		return fmt.Errorf("could not create task: %w", err)
	}

	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	if err := p.PrintMessage(fmt.Sprintf("Created task: %s", id)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
