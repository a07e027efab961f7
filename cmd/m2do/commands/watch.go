package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/printer"
	"github.com/m2dev/m2do/internal/view"
)

type WatchCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	scope string
}

// NewWatchCommand returns the watch command.
func NewWatchCommand(rootCmd *RootCommand, app *kingpin.Application) *WatchCommand {
	c := &WatchCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("watch", "Follow the change feed and reprint the board on every snapshot.")
	c.Cmd.Flag("scope", "Assignee scope.").Default(model.ScopeAll).StringVar(&c.scope)

	return c
}

func (c WatchCommand) Name() string { return c.Cmd.FullCommand() }

func (c WatchCommand) Run(ctx context.Context) error {
	p := printer.NewTablePrinter(c.rootCmd.Stdout)

	sess, err := newSession(ctx, c.rootCmd, func(snapshot []model.Task) {
		ref := view.TodayISO(time.Now())

		sections := make([]printer.BoardSection, 0, len(view.Sections()))
		for _, section := range view.Sections() {
			tasks := view.ForSection(section, snapshot, c.scope, ref)
			sections = append(sections, printer.BoardSection{
				Section: section,
				Label:   view.SectionLabel(section, c.scope, len(tasks)),
				Tasks:   tasks,
			})
		}

		if err := p.PrintBoard(sections); err != nil {
			c.rootCmd.Logger.Errorf("Could not print board: %s", err)
		}
		fmt.Fprintln(c.rootCmd.Stdout)
	})
	if err != nil {
		return err
	}
	defer sess.close()

	// Snapshots keep arriving on the feed until the context is cancelled.
	<-ctx.Done()

	return nil
}
