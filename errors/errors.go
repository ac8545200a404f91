// Package errors provides standardized error handling patterns for the
// dataflow engine's components. It includes error classification, standard
// error variables, and helper functions for consistent error wrapping and
// classification across the system.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorClass represents the classification of errors for handling purposes.
type ErrorClass int

const (
	// ErrorTransient represents temporary errors that may be retried.
	ErrorTransient ErrorClass = iota
	// ErrorInvalid represents errors due to invalid input or configuration.
	ErrorInvalid
	// ErrorFatal represents unrecoverable errors that should stop processing.
	ErrorFatal
)

// String returns the string representation of ErrorClass.
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables. The five domain kinds (ErrParse, ErrNotFound,
// ErrProtectedTopic, ErrIO, ErrResource) are the ones callers outside this
// package are expected to errors.Is against; the lifecycle pair is shared by
// every component with a running/stopped state machine.
var (
	// ErrAlreadyStarted is returned by a lifecycle Start called twice.
	ErrAlreadyStarted = errors.New("component already started")
	// ErrAlreadyStopped is returned by an operation attempted after Close.
	ErrAlreadyStopped = errors.New("component already stopped")

	// ErrParse covers a malformed configuration: a line count not
	// divisible by 3, or a type name with no registered factory.
	ErrParse = errors.New("configuration parse error")

	// ErrNotFound covers a publish directed at a topic the registry has
	// never seen.
	ErrNotFound = errors.New("topic not found")

	// ErrProtectedTopic covers a publish directed at a topic classified as
	// output-only or intermediate.
	ErrProtectedTopic = errors.New("topic is protected from external publish")

	// ErrIO covers a configuration source that could not be read.
	ErrIO = errors.New("configuration source unreadable")

	// ErrResource covers a ParallelAgent close that did not drain its
	// queue and join its worker within the allotted bound.
	ErrResource = errors.New("resource did not release in time")
)

// ClassifiedError wraps an error with its classification.
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface.
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error.
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsTransient checks if an error is transient and should be retried.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorTransient
	}

	if errors.Is(err, ErrIO) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{"timeout", "temporary", "unavailable"} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// IsFatal checks if an error is fatal and should stop processing.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorFatal
	}

	return errors.Is(err, ErrResource)
}

// IsInvalid checks if an error is due to invalid input or configuration.
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}

	return errors.Is(err, ErrParse) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrProtectedTopic)
}

// Classify returns the error class for an error.
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorInvalid
	}

	if IsFatal(err) {
		return ErrorFatal
	}
	if IsTransient(err) {
		return ErrorTransient
	}
	return ErrorInvalid
}

// newClassified creates a new classified error. Internal helper; use
// WrapTransient/WrapFatal/WrapInvalid, or one of the *Errorf constructors
// below, instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w".
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapTransient wraps an error as transient with context.
func WrapTransient(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorTransient, wrappedErr, component, method, wrappedErr.Error())
}

// WrapFatal wraps an error as fatal with context.
func WrapFatal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorFatal, wrappedErr, component, method, wrappedErr.Error())
}

// WrapInvalid wraps an error as invalid with context.
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalid, wrappedErr, component, method, wrappedErr.Error())
}

// ParseErrorf builds a ParseError-classified error, for the loader's
// per-line and per-block parse failures.
func ParseErrorf(component, method, format string, args ...any) error {
	detail := fmt.Errorf(format, args...)
	wrapped := fmt.Errorf("%s.%s: %w: %w", component, method, detail, ErrParse)
	return newClassified(ErrorInvalid, wrapped, component, method, fmt.Sprintf("%s.%s: %s", component, method, detail))
}

// NotFoundErrorf builds a NotFoundError-classified error for a publish
// directed at an unknown topic.
func NotFoundErrorf(topic string) error {
	wrapped := fmt.Errorf("topic %q: %w", topic, ErrNotFound)
	return newClassified(ErrorInvalid, wrapped, "runtime", "Publish", fmt.Sprintf("topic %q not found", topic))
}

// ProtectedTopicErrorf builds a ProtectedTopicError-classified error for a
// publish rejected by topic-role classification.
func ProtectedTopicErrorf(topic, role string) error {
	wrapped := fmt.Errorf("topic %q (role=%s): %w", topic, role, ErrProtectedTopic)
	return newClassified(ErrorInvalid, wrapped, "runtime", "Publish",
		fmt.Sprintf("topic %q is %s, not open to external publish", topic, role))
}

// IoErrorf builds an IoError-classified error for an unreadable
// configuration source, preserving cause for errors.Unwrap.
func IoErrorf(cause error, path string) error {
	wrapped := fmt.Errorf("reading %q: %w: %w", path, cause, ErrIO)
	return newClassified(ErrorTransient, wrapped, "config", "Create", fmt.Sprintf("could not read %q: %v", path, cause))
}

// ResourceErrorf builds a ResourceError-classified error for a ParallelAgent
// that failed to close within its drain bound.
func ResourceErrorf(agent string, timeout time.Duration) error {
	wrapped := fmt.Errorf("agent %q did not drain within %s: %w", agent, timeout, ErrResource)
	return newClassified(ErrorFatal, wrapped, "agent", "Close", fmt.Sprintf("agent %q did not drain within %s", agent, timeout))
}
