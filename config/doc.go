// Package config implements the dataflow configuration loader (see
// Loader), the component that turns a 3-line-per-agent text resource
// into a live set of ParallelAgent-wrapped agents wired against a
// topic registry.
package config
