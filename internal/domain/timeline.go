package domain

import (
	"fmt"
	"time"
)

// BarStatus is the visual classification of a task bar
type BarStatus int

const (
	BarOnTrack BarStatus = iota
	BarComplete
	BarOverdue
)

func (s BarStatus) String() string {
	switch s {
	case BarComplete:
		return "complete"
	case BarOverdue:
		return "overdue"
	default:
		return "on-track"
	}
}

// MarshalText encodes the status by name
func (s BarStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Classify applies the precedence complete > overdue > on-track.
// A finished task is complete even if its due date has passed.
func Classify(percent int, due, now time.Time) BarStatus {
	if percent >= 100 {
		return BarComplete
	}
	if due.Before(now) {
		return BarOverdue
	}
	return BarOnTrack
}

// ActionKind names what a project action does
type ActionKind int

const (
	ActionAnalyze ActionKind = iota
	ActionEdit
)

func (k ActionKind) String() string {
	if k == ActionEdit {
		return "edit"
	}
	return "analyze"
}

// MarshalText encodes the action kind by name
func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Action is an opaque token a renderer dispatches back. The project it
// applies to is bound when the timeline is built.
type Action struct {
	Kind    ActionKind `json:"kind"`
	Project string     `json:"project"`
}

// TaskBar is one task row of a project group
type TaskBar struct {
	GroupID string     `json:"group_id"`
	ItemID  string     `json:"item_id"`
	Task    TaskRecord `json:"task"`
	Start   time.Time  `json:"start"`
	End     time.Time  `json:"end"`
	Percent int        `json:"percent"`
	Status  BarStatus  `json:"status"`
}

// Label is the text drawn on the bar
func (b TaskBar) Label() string {
	return fmt.Sprintf("%s (%d%%)", b.Task.TaskName, b.Percent)
}

// ProjectGroup aggregates the tasks sharing one project name
type ProjectGroup struct {
	Name     string    `json:"name"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Progress int       `json:"progress"`
	Tasks    []TaskBar `json:"tasks"`
	Analyze  Action    `json:"analyze"`
	Edit     Action    `json:"edit"`
}

// SummaryID is the item id of the project summary bar
func (p ProjectGroup) SummaryID() string {
	return p.Name + "-summary"
}

// Label is the text drawn on the summary bar
func (p ProjectGroup) Label() string {
	return fmt.Sprintf("%s (%d%%)", p.Name, p.Progress)
}

// Actions returns the project's action tokens in display order
func (p ProjectGroup) Actions() []Action {
	return []Action{p.Analyze, p.Edit}
}

// Timeline is the nested group/item structure of the chart
type Timeline struct {
	Projects []ProjectGroup `json:"projects"`
	// Dropped counts records excluded for missing required fields
	Dropped  int            `json:"dropped"`
	expanded bool
}

// BuildTimeline groups records by project name and derives the chart.
//
// Records missing a project id, project name, task name, start or due date
// (or whose dates do not parse) are skipped without error. Projects keep the
// order in which their names first appear. Distinct project ids sharing a
// name collapse into one group.
func BuildTimeline(records []TaskRecord, now time.Time) *Timeline {
	t := &Timeline{}
	index := make(map[string]int)

	for _, rec := range records {
		start, due, ok := chartable(rec)
		if !ok {
			t.Dropped++
			continue
		}

		i, seen := index[rec.ProjectName]
		if !seen {
			i = len(t.Projects)
			index[rec.ProjectName] = i
			t.Projects = append(t.Projects, ProjectGroup{
				Name:    rec.ProjectName,
				Analyze: Action{Kind: ActionAnalyze, Project: rec.ProjectName},
				Edit:    Action{Kind: ActionEdit, Project: rec.ProjectName},
			})
		}

		p := &t.Projects[i]
		n := len(p.Tasks)
		percent := rec.Progress.Percent()
		p.Tasks = append(p.Tasks, TaskBar{
			GroupID: fmt.Sprintf("%s-taskgroup-%d", p.Name, n),
			ItemID:  fmt.Sprintf("%s-task-%d", p.Name, n),
			Task:    rec,
			Start:   start,
			End:     due,
			Percent: percent,
			Status:  Classify(percent, due, now),
		})
	}

	for i := range t.Projects {
		aggregate(&t.Projects[i])
	}
	return t
}

func chartable(rec TaskRecord) (start, due time.Time, ok bool) {
	if rec.ProjectID == "" || rec.ProjectName == "" || rec.TaskName == "" {
		return start, due, false
	}
	start, okStart := ParseDate(rec.StartDate)
	due, okDue := ParseDate(rec.DueDate)
	return start, due, okStart && okDue
}

func aggregate(p *ProjectGroup) {
	if len(p.Tasks) == 0 {
		return
	}
	sum := 0
	p.Start = p.Tasks[0].Start
	p.End = p.Tasks[0].End
	for _, bar := range p.Tasks {
		sum += bar.Percent
		if bar.Start.Before(p.Start) {
			p.Start = bar.Start
		}
		if bar.End.After(p.End) {
			p.End = bar.End
		}
	}
	p.Progress = roundHalfUp(float64(sum) / float64(len(p.Tasks)))
}

// Expanded reports whether nested task groups are shown
func (t *Timeline) Expanded() bool {
	return t.expanded
}

// ExpandAll shows or hides every nested task group at once
func (t *Timeline) ExpandAll(expand bool) {
	t.expanded = expand
}

// Project looks up a project group by name
func (t *Timeline) Project(name string) (*ProjectGroup, bool) {
	for i := range t.Projects {
		if t.Projects[i].Name == name {
			return &t.Projects[i], true
		}
	}
	return nil, false
}

// TaskCount returns the number of charted tasks
func (t *Timeline) TaskCount() int {
	n := 0
	for _, p := range t.Projects {
		n += len(p.Tasks)
	}
	return n
}

// Span returns the earliest start and latest end across all projects
func (t *Timeline) Span() (start, end time.Time) {
	for i, p := range t.Projects {
		if i == 0 || p.Start.Before(start) {
			start = p.Start
		}
		if i == 0 || p.End.After(end) {
			end = p.End
		}
	}
	return start, end
}

// Group is one row of the chart's left column
type Group struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Project    string   `json:"project"`
	Nested     []string `json:"nested_groups,omitempty"`
	ShowNested bool     `json:"show_nested"`
	Actions    []Action `json:"actions,omitempty"`
}

// Item is one time-range entry drawn on the chart
type Item struct {
	ID      string    `json:"id"`
	GroupID string    `json:"group"`
	Label   string    `json:"label"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Percent int       `json:"percent"`
	Summary bool      `json:"summary"`
	Status  BarStatus `json:"status"`
}

// Groups flattens the timeline into parent groups followed by their child
// groups: one parent per project plus one child per task.
func (t *Timeline) Groups() []Group {
	var out []Group
	for _, p := range t.Projects {
		nested := make([]string, len(p.Tasks))
		for i, bar := range p.Tasks {
			nested[i] = bar.GroupID
		}
		out = append(out, Group{
			ID:         p.Name,
			Label:      p.Name,
			Project:    p.Name,
			Nested:     nested,
			ShowNested: t.expanded,
			Actions:    p.Actions(),
		})
		for _, bar := range p.Tasks {
			out = append(out, Group{
				ID:      bar.GroupID,
				Label:   bar.Task.TaskName,
				Project: p.Name,
			})
		}
	}
	return out
}

// Items flattens the timeline into one summary entry per project and one
// entry per task.
func (t *Timeline) Items() []Item {
	var out []Item
	for _, p := range t.Projects {
		out = append(out, Item{
			ID:      p.SummaryID(),
			GroupID: p.Name,
			Label:   p.Label(),
			Start:   p.Start,
			End:     p.End,
			Percent: p.Progress,
			Summary: true,
		})
		for _, bar := range p.Tasks {
			out = append(out, Item{
				ID:      bar.ItemID,
				GroupID: bar.GroupID,
				Label:   bar.Label(),
				Start:   bar.Start,
				End:     bar.End,
				Percent: bar.Percent,
				Status:  bar.Status,
			})
		}
	}
	return out
}
