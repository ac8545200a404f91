// Package message defines the immutable value carried between topics and
// agents: a byte payload plus opportunistic text and numeric views.
//
// Three constructors build equivalent messages from different starting
// points (NewFromBytes, NewFromText, NewFromNumber) and agree on the
// same round-trip: Text is always the canonical decimal rendering when the
// message originated as a number, and Num is always the parse of Text,
// falling back to NaN.
package message
