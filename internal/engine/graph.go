package engine

import (
	"errors"
	"fmt"

	"flowline/internal/server/model"
)

// ErrGraphInvalid marks a workflow graph the engine refuses to run. No run
// state is created when it is returned.
var ErrGraphInvalid = errors.New("workflow graph invalid")

// graph is the per-run adjacency index: built once so parent-set lookups
// during the walk are O(1) instead of re-scanning all connections.
type graph struct {
	nodes    map[string]*model.Node
	outgoing map[string][]string
	incoming map[string][]string
	trigger  *model.Node
}

func buildGraph(wf *model.Workflow) (*graph, error) {
	g := &graph{
		nodes:    make(map[string]*model.Node, len(wf.Nodes)),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
	for i := range wf.Nodes {
		node := &wf.Nodes[i]
		g.nodes[node.ID] = node
		if node.Kind == model.NodeKindTrigger {
			if g.trigger != nil {
				return nil, fmt.Errorf("%w: more than one trigger node", ErrGraphInvalid)
			}
			g.trigger = node
		}
	}
	if g.trigger == nil {
		return nil, fmt.Errorf("%w: no trigger node", ErrGraphInvalid)
	}
	for _, conn := range wf.Connections {
		// edges pointing at unknown nodes are ignored rather than fatal;
		// the walk only ever follows edges between indexed nodes
		if _, ok := g.nodes[conn.SourceNodeID]; !ok {
			continue
		}
		if _, ok := g.nodes[conn.TargetNodeID]; !ok {
			continue
		}
		g.outgoing[conn.SourceNodeID] = append(g.outgoing[conn.SourceNodeID], conn.TargetNodeID)
		g.incoming[conn.TargetNodeID] = append(g.incoming[conn.TargetNodeID], conn.SourceNodeID)
	}
	return g, nil
}

// Validate checks a workflow definition before it is stored: exactly one
// trigger, known node kinds, edges between existing nodes, and no cycles.
// The engine itself only re-checks the trigger at run time; a cyclic or
// partially unreachable graph behaves as silently-omitted nodes there, so
// the write path is where bad definitions get rejected.
func Validate(wf *model.Workflow) error {
	nodeIDs := make(map[string]bool, len(wf.Nodes))
	triggers := 0
	for i := range wf.Nodes {
		node := &wf.Nodes[i]
		if nodeIDs[node.ID] {
			return fmt.Errorf("%w: duplicate node id %s", ErrGraphInvalid, node.ID)
		}
		nodeIDs[node.ID] = true
		switch node.Kind {
		case model.NodeKindTrigger:
			triggers++
		case model.NodeKindAction:
		default:
			return fmt.Errorf("%w: unknown node kind %q", ErrGraphInvalid, node.Kind)
		}
	}
	if triggers != 1 {
		return fmt.Errorf("%w: workflow needs exactly one trigger node, got %d", ErrGraphInvalid, triggers)
	}

	indegree := make(map[string]int, len(wf.Nodes))
	outgoing := make(map[string][]string)
	for id := range nodeIDs {
		indegree[id] = 0
	}
	for _, conn := range wf.Connections {
		if !nodeIDs[conn.SourceNodeID] {
			return fmt.Errorf("%w: connection source %s not a node", ErrGraphInvalid, conn.SourceNodeID)
		}
		if !nodeIDs[conn.TargetNodeID] {
			return fmt.Errorf("%w: connection target %s not a node", ErrGraphInvalid, conn.TargetNodeID)
		}
		outgoing[conn.SourceNodeID] = append(outgoing[conn.SourceNodeID], conn.TargetNodeID)
		indegree[conn.TargetNodeID]++
	}

	// Kahn: if the sort cannot consume every node, the rest sit on a cycle
	queue := []string{}
	for id, d := range indegree {
		if d == 0 {
			queue = append(queue, id)
		}
	}
	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range outgoing[id] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if visited != len(nodeIDs) {
		return fmt.Errorf("%w: connections contain a cycle", ErrGraphInvalid)
	}
	return nil
}
