// Package graph builds a read-only bipartite view of a topic registry:
// topic nodes, agent nodes, and the subscription/publication edges
// between them, and checks it for cycles. A Graph is a snapshot: it is
// never mutated in place and does not track the registry afterward.
package graph
