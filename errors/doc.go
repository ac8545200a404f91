// Package errors provides the error classification used across the
// dataflow engine's components.
//
// # Overview
//
// The package implements a three-class error classification: Transient
// (temporary, retryable), Invalid (bad input, non-retryable), and Fatal
// (unrecoverable, stop processing). On top of that it defines the five
// error kinds the engine's own components raise: ErrParse (malformed
// configuration text), ErrNotFound (publish to an unknown topic),
// ErrProtectedTopic (publish to a topic not open to external writers),
// ErrIO (configuration source unreadable), and ErrResource (a
// ParallelAgent that failed to drain within its close deadline).
//
// # Quick Start
//
// Return a standard error variable for a known condition:
//
//	if !reg.Has(name) {
//	    return errors.NotFoundErrorf(name)
//	}
//
// Wrap a lower-level error with component/operation context:
//
//	data, err := os.ReadFile(path)
//	if err != nil {
//	    return errors.IoErrorf(err, path)
//	}
//
// Check classification to decide how to react:
//
//	if err := runtime.Publish(ctx, topic, text); err != nil {
//	    if errors.IsInvalid(err) {
//	        // bad request from the caller, report back as-is
//	    } else if errors.IsFatal(err) {
//	        log.Error("unrecoverable", "err", err)
//	    }
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the pattern "component.method: action
// failed: %w". The Wrap family of functions applies this format while
// attaching (or preserving) classification:
//
//	errors.WrapTransient(err, "Component", "Method", "action")
//	errors.WrapInvalid(err, "Component", "Method", "action")
//	errors.WrapFatal(err, "Component", "Method", "action")
//	errors.Wrap(err, "Component", "Method", "action") // no classification change
//
// # Integration with errors.As/Is
//
//	var ce *errors.ClassifiedError
//	if errors.As(err, &ce) {
//	    log.Printf("component=%s class=%s", ce.Component, ce.Class)
//	}
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    // topic did not exist
//	}
package errors
