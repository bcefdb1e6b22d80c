package domain

import (
	"reflect"
	"testing"
)

func member(projectID, project, memberName, taskName string) TaskRecord {
	return TaskRecord{ProjectID: projectID, ProjectName: project, Member: memberName, TaskName: taskName}
}

func TestBuildGraph_Counts(t *testing.T) {
	records := []TaskRecord{
		member("P1", "Alpha", "M1", "T1"),
		member("P1", "Alpha", "M1", "T2"),
		member("P1", "Alpha", "M2", "T3"),
		member("P2", "Beta", "M1", "T4"),
	}

	g := BuildGraph(records)

	// 2 project ids + 2 member names
	if len(g.Nodes) != 4 {
		t.Errorf("expected 4 nodes, got %d", len(g.Nodes))
	}
	if len(g.Edges) != len(records) {
		t.Errorf("expected %d edges, got %d", len(records), len(g.Edges))
	}
	if len(g.Projects()) != 2 || len(g.Members()) != 2 {
		t.Errorf("expected 2 projects and 2 members, got %d and %d", len(g.Projects()), len(g.Members()))
	}
}

func TestBuildGraph_KindsDoNotCollide(t *testing.T) {
	g := BuildGraph([]TaskRecord{member("Ann", "Alpha", "Ann", "T1")})

	if len(g.Nodes) != 2 {
		t.Fatalf("expected project and member nodes with the same id, got %d nodes", len(g.Nodes))
	}
	p, ok := g.Node(NodeProject, "Ann")
	if !ok || p.Label != "Alpha" {
		t.Errorf("expected project node labelled Alpha, got %+v", p)
	}
}

func TestBuildGraph_FirstLabelWins(t *testing.T) {
	g := BuildGraph([]TaskRecord{
		member("P1", "Alpha", "M1", "T1"),
		member("P1", "Renamed", "M2", "T2"),
	})

	n, _ := g.Node(NodeProject, "P1")
	if n.Label != "Alpha" {
		t.Errorf("expected first label Alpha, got %s", n.Label)
	}
}

func TestSelectProject(t *testing.T) {
	g := BuildGraph([]TaskRecord{
		member("P1", "Alpha", "M1", "T1"),
		member("P1", "Alpha", "M1", "T2"),
		member("P1", "Alpha", "M2", "T3"),
		member("P2", "Beta", "M1", "T4"),
	})

	sel := g.SelectProject("P1")
	want := map[string][]string{"M1": {"T1", "T2"}, "M2": {"T3"}}
	if got := sel.TaskMap(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if sel.Groups[0].Key != "M1" || sel.Groups[1].Key != "M2" {
		t.Error("expected member groups in first-seen order")
	}
	if sel.Label != "Alpha" {
		t.Errorf("expected label Alpha, got %s", sel.Label)
	}
}

func TestSelectMember(t *testing.T) {
	records := []TaskRecord{
		member("P1", "Alpha", "M1", "T1"),
		member("P2", "Beta", "M1", "T2"),
		member("P1", "Alpha", "M1", "T1"),
	}
	records[0].Status = StatusDone
	records[0].Description = "first pass"

	g := BuildGraph(records)
	sel := g.SelectMember("M1")

	want := map[string][]string{"Alpha": {"T1", "T1"}, "Beta": {"T2"}}
	if got := sel.TaskMap(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected duplicates preserved %v, got %v", want, got)
	}
	if sel.Department != UnknownDepartment {
		t.Errorf("expected fallback department, got %q", sel.Department)
	}
	first := sel.Groups[0].Tasks[0]
	if first.Status != StatusDone || first.Description != "first pass" {
		t.Errorf("expected task detail carried, got %+v", first)
	}
	if sel.Groups[0].Tasks[1].Status != StatusUnspecified {
		t.Errorf("expected empty status to normalize, got %q", sel.Groups[0].Tasks[1].Status)
	}
}

func TestSelect_Unknown(t *testing.T) {
	g := BuildGraph([]TaskRecord{member("P1", "Alpha", "M1", "T1")})

	if sel := g.Select(NodeProject, "nope"); !sel.Empty() {
		t.Errorf("expected empty selection, got %+v", sel)
	}
	if sel := g.Select(NodeMember, "nobody"); !sel.Empty() || sel.Department != "" {
		t.Errorf("expected empty selection, got %+v", sel)
	}

	var empty *Graph
	if sel := empty.SelectProject("P1"); !sel.Empty() {
		t.Error("expected nil graph to yield an empty selection")
	}
}

func TestStar(t *testing.T) {
	g := BuildGraph([]TaskRecord{
		member("P1", "Alpha", "M1", "T1"),
		member("P1", "Alpha", "M2", "T2"),
		member("P2", "Beta", "M1", "T3"),
		member("P3", "Gamma", "M3", "T4"),
	})

	star := g.Star(NodeMember, "M1")
	if len(star.Nodes) != 3 {
		t.Errorf("expected M1 plus two projects, got %d nodes", len(star.Nodes))
	}
	if len(star.Edges) != 2 {
		t.Errorf("expected 2 edges, got %d", len(star.Edges))
	}
	for _, n := range star.Nodes {
		if _, ok := g.Node(n.Kind, n.ID); !ok {
			t.Errorf("star node %+v not in main graph", n)
		}
	}
	if sel := star.SelectMember("M1"); len(sel.Groups) != 2 {
		t.Errorf("expected star to keep selection detail, got %+v", sel)
	}

	if empty := g.Star(NodeProject, "missing"); len(empty.Nodes) != 0 {
		t.Error("expected empty star for unknown node")
	}
}

func TestParseNodeKind(t *testing.T) {
	if k, err := ParseNodeKind("member"); err != nil || k != NodeMember {
		t.Errorf("expected member, got %v (%v)", k, err)
	}
	if _, err := ParseNodeKind("team"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
