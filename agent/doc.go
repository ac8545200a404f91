// Package agent implements the computational units of the dataflow
// graph: the Agent contract, the arithmetic/bitwise/comparison
// operators built on a shared binary/unary reducer, and the
// ParallelAgent decorator that gives any agent its own bounded queue
// and worker.
package agent
