// Package report renders board data as plain text for the CLI and MCP tools.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"pmboard/internal/domain"
)

// Bar draws a fixed-width progress bar. Values above 100 fill the bar.
func Bar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	filled := percent * width / 100
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// Timeline writes one line per project and, when expanded, one line per task
func Timeline(w io.Writer, tl *domain.Timeline) {
	if len(tl.Projects) == 0 {
		fmt.Fprintln(w, "No chartable tasks.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range tl.Projects {
		fmt.Fprintf(tw, "%s\t%s..%s\t%s %3d%%\t%d tasks\n",
			p.Name, domain.FormatDate(p.Start), domain.FormatDate(p.End), Bar(p.Progress, 20), p.Progress, len(p.Tasks))
		if !tl.Expanded() {
			continue
		}
		for _, bar := range p.Tasks {
			fmt.Fprintf(tw, "  %s\t%s..%s\t%s %3d%%\t%s\n",
				bar.Task.TaskName, domain.FormatDate(bar.Start), domain.FormatDate(bar.End), Bar(bar.Percent, 20), bar.Percent, bar.Status)
		}
	}
	tw.Flush()

	if tl.Dropped > 0 {
		fmt.Fprintf(w, "(%d records without project, task or dates not shown)\n", tl.Dropped)
	}
}

// Graph writes the project and member nodes with their degree
func Graph(w io.Writer, g *domain.Graph) {
	if len(g.Nodes) == 0 {
		fmt.Fprintln(w, "No records loaded.")
		return
	}

	degree := make(map[domain.NodeKey]int)
	for _, e := range g.Edges {
		degree[domain.NodeKey{Kind: domain.NodeProject, ID: e.From}]++
		degree[domain.NodeKey{Kind: domain.NodeMember, ID: e.To}]++
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tID\tLABEL\tTASKS")
	for _, n := range g.Nodes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", n.Kind, n.ID, n.Label, degree[n.Key()])
	}
	tw.Flush()
	fmt.Fprintf(w, "%d nodes, %d edges\n", len(g.Nodes), len(g.Edges))
}

// Selection writes the grouped task list of a selected node
func Selection(w io.Writer, sel domain.Selection) {
	if sel.Empty() {
		fmt.Fprintf(w, "No tasks for %s %q.\n", sel.Kind, sel.ID)
		return
	}

	title := sel.Label
	if title == "" {
		title = sel.ID
	}
	if sel.Kind == domain.NodeMember {
		fmt.Fprintf(w, "%s (%s)\n", title, sel.Department)
	} else {
		fmt.Fprintf(w, "%s [%s]\n", title, sel.ID)
	}

	for _, grp := range sel.Groups {
		fmt.Fprintf(w, "  %s\n", grp.Key)
		for _, t := range grp.Tasks {
			fmt.Fprintf(w, "    - %s (%s)", t.Name, t.Status.String())
			if t.Description != "" {
				fmt.Fprintf(w, ": %s", t.Description)
			}
			fmt.Fprintln(w)
		}
	}
}

// Records writes the raw table with every column
func Records(w io.Writer, records []domain.TaskRecord) {
	fields := domain.Fields()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	titles := make([]string, len(fields))
	for i, f := range fields {
		titles[i] = strings.ToUpper(f.Title())
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))

	for _, rec := range records {
		values := make([]string, len(fields))
		for i, f := range fields {
			values[i] = oneLine(rec.Get(f))
		}
		fmt.Fprintln(tw, strings.Join(values, "\t"))
	}
	tw.Flush()
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}
