// Package runtime is the engine's own operating layer: it owns the live
// topic registry and the currently-loaded dataflow configuration, and
// exposes the four operations a transport collaborator drives it
// through: LoadConfig, Publish, TopicSnapshot, and GraphSnapshot.
package runtime
