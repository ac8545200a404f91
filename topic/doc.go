// Package topic implements the publish/subscribe fabric that agents are
// wired to by the configuration loader: named Topics holding a subscriber
// set, a publisher set, and the last published message, plus a Registry
// mapping names to Topics with get-or-create semantics.
//
// Subscriber iteration during Publish is snapshot-on-iterate: subscriber
// and publisher sets are immutable slices replaced wholesale on every
// mutation, so a concurrent Subscribe never observes or corrupts an
// in-flight Publish's dispatch loop, and becomes visible only on the next
// Publish call.
package topic
