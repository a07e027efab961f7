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

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	scope   string
	section string
	json    bool
}

const sectionAll = "all"

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "List board tasks by section.")
	c.Cmd.Flag("scope", "Assignee scope.").Default(model.ScopeAll).StringVar(&c.scope)
	c.Cmd.Flag("section", "Board section to list.").Default(sectionAll).EnumVar(&c.section,
		sectionAll, string(view.SectionToday), string(view.SectionFuture), string(view.SectionClosed))
	c.Cmd.Flag("json", "Output in JSON format.").BoolVar(&c.json)

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
	sess, err := newSession(ctx, c.rootCmd, nil)
	if err != nil {
		return err
	}
	defer sess.close()

	tasks := sess.board.Replica().Snapshot()
	ref := view.TodayISO(time.Now())

	sections := []printer.BoardSection{}
	for _, section := range view.Sections() {
		if c.section != sectionAll && c.section != string(section) {
			continue
		}
		sectionTasks := view.ForSection(section, tasks, c.scope, ref)
		sections = append(sections, printer.BoardSection{
			Section: section,
			Label:   view.SectionLabel(section, c.scope, len(sectionTasks)),
			Tasks:   sectionTasks,
		})
	}

	var p printer.Printer = printer.NewTablePrinter(c.rootCmd.Stdout)
	if c.json {
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintBoard(sections); err != nil {
		return fmt.Errorf("could not print board: %w", err)
	}

	return nil
}
