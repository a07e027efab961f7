package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/view"
)

type CopyCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	scope   string
	section string
}

// NewCopyCommand returns the copy command.
func NewCopyCommand(rootCmd *RootCommand, app *kingpin.Application) *CopyCommand {
	c := &CopyCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("copy", "Print a section's tasks as shareable text.")
	c.Cmd.Flag("scope", "Assignee scope.").Default(model.ScopeAll).StringVar(&c.scope)
	c.Cmd.Flag("section", "Board section to export.").Default(string(view.SectionToday)).EnumVar(&c.section,
		string(view.SectionToday), string(view.SectionFuture), string(view.SectionClosed))

	return c
}

func (c CopyCommand) Name() string { return c.Cmd.FullCommand() }

func (c CopyCommand) Run(ctx context.Context) error {
	sess, err := newSession(ctx, c.rootCmd, nil)
	if err != nil {
		return err
	}
	defer sess.close()

	tasks := view.ForSection(view.Section(c.section), sess.board.Replica().Snapshot(), c.scope, view.TodayISO(time.Now()))
	if len(tasks) == 0 {
		fmt.Fprintln(c.rootCmd.Stdout, "No tasks to copy.")
		return nil
	}

	fmt.Fprintln(c.rootCmd.Stdout, view.CopyText(c.scope, tasks))

	return nil
}
