// Package view derives the filtered, sorted and aggregated board views from
// a replica snapshot. Everything here is pure: same inputs, same outputs.
package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m2dev/m2do/internal/model"
)

// Section identifies one of the three board sections.
type Section string

const (
	SectionToday  Section = "today"
	SectionFuture Section = "future"
	SectionClosed Section = "closed"
)

// Sections returns all sections in display order.
func Sections() []Section {
	return []Section{SectionToday, SectionFuture, SectionClosed}
}

// TodayISO returns the reference calendar date for now, in the task date
// layout. Callers recompute it on every view access so the split stays
// correct across date rollover.
func TodayISO(now time.Time) string {
	return now.UTC().Format(model.DateLayout)
}

// Today returns open tasks in scope dated today or earlier, ascending by
// date. Ties keep their snapshot order.
func Today(tasks []model.Task, scope string, ref string) []model.Task {
	return sortByDate(filter(tasks, func(t model.Task) bool {
		return matchesScope(t, scope) && t.Status.Normalized() == model.StatusOpen && t.Date <= ref
	}))
}

// Future returns open tasks in scope dated after today, ascending by date.
func Future(tasks []model.Task, scope string, ref string) []model.Task {
	return sortByDate(filter(tasks, func(t model.Task) bool {
		return matchesScope(t, scope) && t.Status.Normalized() == model.StatusOpen && t.Date > ref
	}))
}

// Closed returns closed tasks in scope, ascending by date. No date split
// applies to closed tasks.
func Closed(tasks []model.Task, scope string) []model.Task {
	return sortByDate(filter(tasks, func(t model.Task) bool {
		return matchesScope(t, scope) && t.Status == model.StatusClosed
	}))
}

// ForSection returns the tasks of one section.
func ForSection(section Section, tasks []model.Task, scope string, ref string) []model.Task {
	switch section {
	case SectionToday:
		return Today(tasks, scope, ref)
	case SectionFuture:
		return Future(tasks, scope, ref)
	default:
		return Closed(tasks, scope)
	}
}

// OpenCount counts open tasks matching the scope. It equals
// len(Today)+len(Future) for the same scope and snapshot.
func OpenCount(tasks []model.Task, scope string) int {
	n := 0
	for _, t := range tasks {
		if matchesScope(t, scope) && t.Status.Normalized() == model.StatusOpen {
			n++
		}
	}
	return n
}

// SectionLabel renders the section header, e.g. "MNB TODAY (3)".
func SectionLabel(section Section, scope string, count int) string {
	return fmt.Sprintf("%s %s (%d)", scope, strings.ToUpper(string(section)), count)
}

// EmptyLabel renders the placeholder for an empty section.
func EmptyLabel(section Section) string {
	return fmt.Sprintf("No %s tasks.", section)
}

// CopyText renders a section's tasks as shareable text: a scope header
// followed by a numbered subject list.
func CopyText(scope string, tasks []model.Task) string {
	lines := make([]string, 0, len(tasks)+1)
	lines = append(lines, fmt.Sprintf("%s's Tasks", scope))
	for i, t := range tasks {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, t.Subject))
	}
	return strings.Join(lines, "\n")
}

func matchesScope(t model.Task, scope string) bool {
	return scope == model.ScopeAll || t.To == scope
}

func filter(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func sortByDate(tasks []model.Task) []model.Task {
	// Dates are ISO calendar dates, lexicographic order is chronological.
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Date < tasks[j].Date })
	return tasks
}
