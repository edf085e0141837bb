package main

import (
	"context"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

const maxSummaryWidth = 60

// listMembers prints every member the targets would document.
func (app *cliApp) listMembers(ctx context.Context, targets []string, w io.Writer) error {
	if len(targets) == 0 {
		targets = []string{"."}
	}
	l := newLoader(app.cfg, app.logger)
	var members []*member
	for _, target := range targets {
		err := l.visit(ctx, target, func(u docUnit) error {
			u.member.walk(func(m *member) {
				members = append(members, m)
			})
			return nil
		})
		if err != nil {
			return err
		}
	}
	renderMemberTable(w, members)
	return nil
}

func renderMemberTable(w io.Writer, members []*member) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Name", "Module", "Declared At", "Summary"})
	for _, m := range members {
		t.AppendRow(table.Row{m.Kind, m.QualifiedName, m.Module, m.location(), truncate(m.Summary, maxSummaryWidth)})
	}
	t.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
