package domain

import "fmt"

// NodeKind distinguishes the two sides of the relationship graph
type NodeKind int

const (
	NodeProject NodeKind = iota
	NodeMember
)

func (k NodeKind) String() string {
	if k == NodeMember {
		return "member"
	}
	return "project"
}

// MarshalText encodes the kind by name
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseNodeKind accepts "project" or "member"
func ParseNodeKind(s string) (NodeKind, error) {
	switch s {
	case "project", "p":
		return NodeProject, nil
	case "member", "m":
		return NodeMember, nil
	}
	return 0, fmt.Errorf("unknown node kind: %q", s)
}

// NodeKey is the identity of a node. Project ids and member names live in
// separate namespaces.
type NodeKey struct {
	Kind NodeKind
	ID   string
}

// Node is a project (id, labelled with its name) or a member (name)
type Node struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Kind  NodeKind `json:"kind"`
}

// Key returns the node identity
func (n Node) Key() NodeKey {
	return NodeKey{Kind: n.Kind, ID: n.ID}
}

// Edge links a project to a member. One edge exists per record.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the bipartite project/member relationship graph
type Graph struct {
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
	records []TaskRecord
	index   map[NodeKey]int
}

// BuildGraph derives nodes and edges from records. The first label seen for
// a project id wins. Duplicate (project, member) pairs produce parallel edges.
func BuildGraph(records []TaskRecord) *Graph {
	g := &Graph{
		records: CloneRecords(records),
		index:   make(map[NodeKey]int),
	}
	for _, rec := range records {
		g.addNode(Node{ID: rec.ProjectID, Label: rec.ProjectName, Kind: NodeProject})
		g.addNode(Node{ID: rec.Member, Label: rec.Member, Kind: NodeMember})
		g.Edges = append(g.Edges, Edge{From: rec.ProjectID, To: rec.Member})
	}
	return g
}

func (g *Graph) addNode(n Node) {
	if _, ok := g.index[n.Key()]; ok {
		return
	}
	g.index[n.Key()] = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
}

// Node looks up a node by kind and id
func (g *Graph) Node(kind NodeKind, id string) (Node, bool) {
	if g == nil {
		return Node{}, false
	}
	i, ok := g.index[NodeKey{Kind: kind, ID: id}]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Projects returns the project nodes in insertion order
func (g *Graph) Projects() []Node {
	return g.nodesOfKind(NodeProject)
}

// Members returns the member nodes in insertion order
func (g *Graph) Members() []Node {
	return g.nodesOfKind(NodeMember)
}

func (g *Graph) nodesOfKind(kind NodeKind) []Node {
	if g == nil {
		return nil
	}
	var out []Node
	for _, n := range g.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// UnknownDepartment is shown when a member has no department on record
const UnknownDepartment = "unknown department"

// SelectedTask is one task listed in a selection detail
type SelectedTask struct {
	Name        string `json:"name"`
	Status      Status `json:"status"`
	Description string `json:"description,omitempty"`
}

// SelectionGroup lists the tasks of one member (project selection) or one
// project (member selection)
type SelectionGroup struct {
	Key        string         `json:"key"`
	Department string         `json:"department,omitempty"`
	Tasks      []SelectedTask `json:"tasks"`
}

// Selection is the detail aggregation for a selected node. Groups keep the
// order in which their keys first appear in the records.
type Selection struct {
	Kind       NodeKind         `json:"kind"`
	ID         string           `json:"id"`
	Label      string           `json:"label"`
	Department string           `json:"department,omitempty"`
	Groups     []SelectionGroup `json:"groups"`
}

// Empty reports whether nothing matched the selection
func (s Selection) Empty() bool {
	return len(s.Groups) == 0
}

// TaskMap returns the group key to task names mapping
func (s Selection) TaskMap() map[string][]string {
	out := make(map[string][]string, len(s.Groups))
	for _, grp := range s.Groups {
		out[grp.Key] = grp.TaskNames()
	}
	return out
}

// TaskNames returns the task names of the group in record order
func (g SelectionGroup) TaskNames() []string {
	names := make([]string, len(g.Tasks))
	for i, t := range g.Tasks {
		names[i] = t.Name
	}
	return names
}

// SelectProject groups the project's tasks by member
func (g *Graph) SelectProject(projectID string) Selection {
	sel := Selection{Kind: NodeProject, ID: projectID}
	if g == nil {
		return sel
	}
	if n, ok := g.Node(NodeProject, projectID); ok {
		sel.Label = n.Label
	}

	groups := make(map[string]int)
	for _, rec := range g.records {
		if rec.ProjectID != projectID {
			continue
		}
		i, ok := groups[rec.Member]
		if !ok {
			i = len(sel.Groups)
			groups[rec.Member] = i
			sel.Groups = append(sel.Groups, SelectionGroup{Key: rec.Member, Department: rec.Department})
		}
		sel.Groups[i].Tasks = append(sel.Groups[i].Tasks, selectedTask(rec))
	}
	return sel
}

// SelectMember groups the member's tasks by project name
func (g *Graph) SelectMember(member string) Selection {
	sel := Selection{Kind: NodeMember, ID: member, Label: member}
	if g == nil {
		return sel
	}

	groups := make(map[string]int)
	for _, rec := range g.records {
		if rec.Member != member {
			continue
		}
		if sel.Department == "" {
			sel.Department = rec.Department
		}
		i, ok := groups[rec.ProjectName]
		if !ok {
			i = len(sel.Groups)
			groups[rec.ProjectName] = i
			sel.Groups = append(sel.Groups, SelectionGroup{Key: rec.ProjectName})
		}
		sel.Groups[i].Tasks = append(sel.Groups[i].Tasks, selectedTask(rec))
	}
	if len(sel.Groups) > 0 && sel.Department == "" {
		sel.Department = UnknownDepartment
	}
	return sel
}

// Select dispatches on the node kind
func (g *Graph) Select(kind NodeKind, id string) Selection {
	if kind == NodeMember {
		return g.SelectMember(id)
	}
	return g.SelectProject(id)
}

func selectedTask(rec TaskRecord) SelectedTask {
	return SelectedTask{
		Name:        rec.TaskName,
		Status:      rec.Status.Normalized(),
		Description: rec.Description,
	}
}

// Star returns the one-hop neighbourhood of a node: the node, every node
// adjacent to it and the edges between them. The result is a subgraph of g.
func (g *Graph) Star(kind NodeKind, id string) *Graph {
	star := &Graph{index: make(map[NodeKey]int)}
	if g == nil {
		return star
	}
	center, ok := g.Node(kind, id)
	if !ok {
		return star
	}
	star.addNode(center)

	for _, e := range g.Edges {
		var other NodeKey
		switch {
		case kind == NodeProject && e.From == id:
			other = NodeKey{Kind: NodeMember, ID: e.To}
		case kind == NodeMember && e.To == id:
			other = NodeKey{Kind: NodeProject, ID: e.From}
		default:
			continue
		}
		if n, ok := g.Node(other.Kind, other.ID); ok {
			star.addNode(n)
		}
		star.Edges = append(star.Edges, e)
	}

	for _, rec := range g.records {
		if (kind == NodeProject && rec.ProjectID == id) || (kind == NodeMember && rec.Member == id) {
			star.records = append(star.records, rec)
		}
	}
	return star
}
