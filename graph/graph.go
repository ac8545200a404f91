// Package graph builds a transient, bipartite topic/agent node-and-edge
// view of a topic registry on demand, and detects cycles in it.
package graph

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/c360/flowmesh/topic"
)

// NodeKind distinguishes a topic node from an agent node.
type NodeKind string

const (
	NodeTopic NodeKind = "topic"
	NodeAgent NodeKind = "agent"
)

// Node is either a topic or an agent. ID is unique within a Graph:
// "T:<name>" for topics, "A:<name>" for agents. Two distinct agents
// sharing a display name collide into the same agent node; this is
// intentional, reflecting that an agent's identity on the graph is its
// display name, not its underlying instance.
type Node struct {
	ID   string   `json:"id"`
	Kind NodeKind `json:"kind"`
	Name string   `json:"name"`
}

// Edge is a directed connection between two node IDs: T->A for a
// subscription, A->T for a publication.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the bipartite topic/agent view built by Build.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	adjacency map[string][]string
}

func topicNodeID(name string) string { return "T:" + name }
func agentNodeID(name string) string { return "A:" + name }

// Build enumerates every topic in reg (creating node "T:<name>"),
// collects the union of every subscriber and publisher across all
// topics (creating node "A:<name>" per distinct agent display name),
// and adds edges T->A for subscriptions and A->T for publications.
func Build(reg *topic.Registry) *Graph {
	g := &Graph{adjacency: make(map[string][]string)}

	agentNodes := make(map[string]struct{})
	topics := reg.Topics()

	for _, t := range topics {
		tid := topicNodeID(t.Name())
		g.Nodes = append(g.Nodes, Node{ID: tid, Kind: NodeTopic, Name: t.Name()})

		for _, sub := range t.Subscribers() {
			aid := agentNodeID(sub.Name())
			if _, ok := agentNodes[aid]; !ok {
				agentNodes[aid] = struct{}{}
				g.Nodes = append(g.Nodes, Node{ID: aid, Kind: NodeAgent, Name: sub.Name()})
			}
			g.addEdge(tid, aid)
		}
		for _, pub := range t.Publishers() {
			aid := agentNodeID(pub.Name())
			if _, ok := agentNodes[aid]; !ok {
				agentNodes[aid] = struct{}{}
				g.Nodes = append(g.Nodes, Node{ID: aid, Kind: NodeAgent, Name: pub.Name()})
			}
			g.addEdge(aid, tid)
		}
	}

	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })
	return g
}

func (g *Graph) addEdge(from, to string) {
	g.Edges = append(g.Edges, Edge{From: from, To: to})
	g.adjacency[from] = append(g.adjacency[from], to)
}

// HasCycles reports whether any node lies on a directed cycle. The
// search is a DFS from every node, each with its own path set rather
// than one shared visited set: a node may be revisited across
// different roots, which is acceptable since these graphs are
// bipartite and small, and it is what lets a self-loop or a two-node
// mutual cycle be found starting from either member.
//
// Roots are checked concurrently via errgroup, since each root's DFS
// is independent and read-only over the graph's adjacency map.
func (g *Graph) HasCycles(ctx context.Context) (bool, error) {
	grp, ctx := errgroup.WithContext(ctx)
	for _, n := range g.Nodes {
		root := n.ID
		grp.Go(func() error {
			if hasCycleFrom(g.adjacency, root) {
				return errCycleFound
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return nil
			}
		})
	}

	err := grp.Wait()
	switch {
	case err == errCycleFound:
		return true, nil
	case err != nil:
		return false, err
	default:
		return false, nil
	}
}

var errCycleFound = fmt.Errorf("cycle found")

// hasCycleFrom runs a DFS from root using a path set local to this
// call: a node already on the current path means we have found a
// cycle; a node not on the current path is always explored, even if a
// different root's search has already visited it.
func hasCycleFrom(adjacency map[string][]string, root string) bool {
	path := make(map[string]bool)
	var visit func(node string) bool
	visit = func(node string) bool {
		if path[node] {
			return true
		}
		path[node] = true
		for _, next := range adjacency[node] {
			if visit(next) {
				return true
			}
		}
		path[node] = false
		return false
	}
	return visit(root)
}
