package message

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// BaseMessage is the standard implementation of Message. It is immutable
// after construction: bytes, text, and num are all fixed by whichever
// constructor built it.
//
// Construction using functional options:
//
//	// from raw bytes
//	msg := message.NewFromBytes([]byte("6.0"))
//
//	// from text directly
//	msg := message.NewFromText("6.0")
//
//	// from a number - Text becomes the canonical decimal rendering of num
//	msg := message.NewFromNumber(6.0)
//
//	// with a specific creation time, for replay or deterministic tests
//	msg := message.NewFromText("6.0", message.WithTime(past))
type BaseMessage struct {
	id        string
	bytes     []byte
	text      string
	num       float64
	createdAt time.Time
}

// Option is a functional option for configuring BaseMessage construction.
type Option func(*BaseMessage)

// WithTime sets a specific creation timestamp instead of using time.Now().
func WithTime(createdAt time.Time) Option {
	return func(m *BaseMessage) {
		m.createdAt = createdAt
	}
}

// WithID overrides the generated identifier.
func WithID(id string) Option {
	return func(m *BaseMessage) {
		m.id = id
	}
}

// NewFromBytes constructs a Message from a raw byte payload. Text is the
// UTF-8 decoding of the bytes; Num is parsed from that text.
func NewFromBytes(data []byte, opts ...Option) *BaseMessage {
	return newBaseMessage(data, string(data), opts...)
}

// NewFromText constructs a Message directly from text. Bytes is the UTF-8
// encoding of the text.
func NewFromText(text string, opts ...Option) *BaseMessage {
	return newBaseMessage([]byte(text), text, opts...)
}

// NewFromNumber constructs a Message from a double. Text is the canonical
// decimal rendering of num, chosen so that NewFromNumber(x).Num() == x for
// every finite x, and for NaN, +Inf and -Inf via their "NaN" / "Infinity" /
// "-Infinity" spellings.
func NewFromNumber(num float64, opts ...Option) *BaseMessage {
	text := formatNum(num)
	return newBaseMessage([]byte(text), text, opts...)
}

func newBaseMessage(data []byte, text string, opts ...Option) *BaseMessage {
	m := &BaseMessage{
		id:        uuid.New().String(),
		bytes:     data,
		text:      text,
		num:       parseNum(text),
		createdAt: time.Now(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ID returns the unique message identifier.
func (m *BaseMessage) ID() string { return m.id }

// Bytes returns the raw payload.
func (m *BaseMessage) Bytes() []byte { return m.bytes }

// Text returns the payload decoded as UTF-8.
func (m *BaseMessage) Text() string { return m.text }

// Num returns Text parsed as a double, or NaN if it does not parse.
func (m *BaseMessage) Num() float64 { return m.num }

// CreatedAt returns the wall-clock instant the message was constructed.
func (m *BaseMessage) CreatedAt() time.Time { return m.createdAt }

// parseNum parses text as a double, falling back to NaN for anything that
// does not parse, including the empty string. strconv.ParseFloat already
// accepts "NaN", "Infinity"/"Inf" and their signed variants case-
// insensitively, so no special-casing is needed beyond the fallback.
func parseNum(text string) float64 {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// formatNum renders num as decimal text, using the three sentinel
// spellings parseNum accepts on the way back in.
//
// strconv.FormatFloat's 'g' verb drops a trailing ".0" (6.0 renders as
// "6"), whereas the source system's Double.toString keeps it ("6.0").
// NewFromNumber(x).Num() == x holds either way, since parseNum accepts
// both spellings back, but a consumer comparing Text against a value
// copied from the source system's output should expect "6", not "6.0".
func formatNum(num float64) string {
	switch {
	case math.IsNaN(num):
		return "NaN"
	case math.IsInf(num, 1):
		return "Infinity"
	case math.IsInf(num, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(num, 'g', -1, 64)
	}
}
