package agent

import (
	"math"
	"sync"

	"github.com/c360/flowmesh/message"
	"github.com/c360/flowmesh/topic"
)

// saturateInt32 interprets a double as a 32-bit signed integer via
// truncation with saturation: NaN maps to 0, values beyond the int32
// range (including ±infinity) saturate to its bounds.
func saturateInt32(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}

// binaryOp is the shared state and dispatch logic behind add, and, or,
// xor, and compare. Which behaviour a given instance has is entirely
// determined by rejectNaN, clearOnPublish, and reduce.
type binaryOp struct {
	typeName string

	in1, in2       string
	hasIn1, hasIn2 bool
	out            string
	hasOut         bool

	reg *topic.Registry

	mu   sync.Mutex
	v1   float64
	v2   float64
	set1 bool
	set2 bool

	// rejectNaN true: a NaN arrival is ignored outright, slot state
	// untouched (add's contract). rejectNaN false: a NaN arrival clears
	// that slot's set-flag (and/or/xor/compare's contract).
	rejectNaN bool
	// clearOnPublish true: both slots are cleared immediately after a
	// publish (add). false: slots are retained (and/or/xor/compare).
	clearOnPublish bool

	reduce func(v1, v2 float64) float64
}

func newBinaryOp(typeName string, inputs, outputs []string, reg *topic.Registry, rejectNaN, clearOnPublish bool, reduce func(v1, v2 float64) float64) *binaryOp {
	op := &binaryOp{
		typeName:       typeName,
		reg:            reg,
		rejectNaN:      rejectNaN,
		clearOnPublish: clearOnPublish,
		reduce:         reduce,
		v1:             math.NaN(),
		v2:             math.NaN(),
	}
	if len(inputs) >= 1 {
		op.in1, op.hasIn1 = inputs[0], true
	}
	if len(inputs) >= 2 {
		op.in2, op.hasIn2 = inputs[1], true
	}
	if len(outputs) >= 1 {
		op.out, op.hasOut = outputs[0], true
	}
	return op
}

// Inputs returns the input topic names op actually dispatches on, for a
// caller wiring op (or a decorator around it) against a registry.
func (op *binaryOp) Inputs() []string {
	var ins []string
	if op.hasIn1 {
		ins = append(ins, op.in1)
	}
	if op.hasIn2 {
		ins = append(ins, op.in2)
	}
	return ins
}

// Outputs returns the output topic names op publishes to.
func (op *binaryOp) Outputs() []string {
	if op.hasOut {
		return []string{op.out}
	}
	return nil
}

func (op *binaryOp) Name() string { return op.typeName }

func (op *binaryOp) Reset() {
	op.mu.Lock()
	defer op.mu.Unlock()
	op.v1, op.v2 = math.NaN(), math.NaN()
	op.set1, op.set2 = false, false
}

func (op *binaryOp) Close() error { return nil }

func (op *binaryOp) OnMessage(topicName string, msg message.Message) {
	num := msg.Num()

	op.mu.Lock()
	switch {
	case op.hasIn1 && topicName == op.in1:
		op.applySlot(&op.v1, &op.set1, num)
	case op.hasIn2 && topicName == op.in2:
		op.applySlot(&op.v2, &op.set2, num)
	default:
		op.mu.Unlock()
		return
	}

	ready := op.hasOut && op.set1 && op.set2
	var result float64
	if ready {
		result = op.reduce(op.v1, op.v2)
		if op.clearOnPublish {
			op.v1, op.v2 = math.NaN(), math.NaN()
			op.set1, op.set2 = false, false
		}
	}
	op.mu.Unlock()

	if ready {
		op.reg.Get(op.out).Publish(message.NewFromNumber(result))
	}
}

// applySlot implements the rejectNaN/clear-on-NaN slot update rule shared
// by every binary operator. Caller holds op.mu.
func (op *binaryOp) applySlot(v *float64, set *bool, num float64) {
	if math.IsNaN(num) {
		if !op.rejectNaN {
			*set = false
		}
		return
	}
	*v = num
	*set = true
}

// unaryOp is the shared dispatch logic behind inc and not: stateless,
// publishing immediately on every non-NaN arrival.
type unaryOp struct {
	typeName string

	in     string
	hasIn  bool
	out    string
	hasOut bool

	reg *topic.Registry

	reduce func(v float64) float64
}

func newUnaryOp(typeName string, inputs, outputs []string, reg *topic.Registry, reduce func(v float64) float64) *unaryOp {
	op := &unaryOp{typeName: typeName, reg: reg, reduce: reduce}
	if len(inputs) >= 1 {
		op.in, op.hasIn = inputs[0], true
	}
	if len(outputs) >= 1 {
		op.out, op.hasOut = outputs[0], true
	}
	return op
}

// Inputs returns the input topic name op actually dispatches on, if any.
func (op *unaryOp) Inputs() []string {
	if op.hasIn {
		return []string{op.in}
	}
	return nil
}

// Outputs returns the output topic name op publishes to, if any.
func (op *unaryOp) Outputs() []string {
	if op.hasOut {
		return []string{op.out}
	}
	return nil
}

func (op *unaryOp) Name() string { return op.typeName }

// Reset is a no-op: unary operators hold no state.
func (op *unaryOp) Reset() {}

func (op *unaryOp) Close() error { return nil }

func (op *unaryOp) OnMessage(topicName string, msg message.Message) {
	if !op.hasIn || topicName != op.in || !op.hasOut {
		return
	}
	num := msg.Num()
	if math.IsNaN(num) {
		return
	}
	op.reg.Get(op.out).Publish(message.NewFromNumber(op.reduce(num)))
}

// NewAdd constructs the accumulating binary summation agent: publishes
// v1+v2 once both slots are set, then clears both slots.
func NewAdd(inputs, outputs []string, reg *topic.Registry) Agent {
	return newBinaryOp("add", inputs, outputs, reg, true, true, func(v1, v2 float64) float64 {
		return v1 + v2
	})
}

// NewInc constructs the stateless unary successor agent.
func NewInc(inputs, outputs []string, reg *topic.Registry) Agent {
	return newUnaryOp("inc", inputs, outputs, reg, func(v float64) float64 {
		return v + 1
	})
}

// NewAnd constructs the persistent binary bitwise AND agent.
func NewAnd(inputs, outputs []string, reg *topic.Registry) Agent {
	return newBinaryOp("and", inputs, outputs, reg, false, false, func(v1, v2 float64) float64 {
		return float64(saturateInt32(v1) & saturateInt32(v2))
	})
}

// NewOr constructs the persistent binary bitwise OR agent.
func NewOr(inputs, outputs []string, reg *topic.Registry) Agent {
	return newBinaryOp("or", inputs, outputs, reg, false, false, func(v1, v2 float64) float64 {
		return float64(saturateInt32(v1) | saturateInt32(v2))
	})
}

// NewXor constructs the persistent binary bitwise XOR agent.
func NewXor(inputs, outputs []string, reg *topic.Registry) Agent {
	return newBinaryOp("xor", inputs, outputs, reg, false, false, func(v1, v2 float64) float64 {
		return float64(saturateInt32(v1) ^ saturateInt32(v2))
	})
}

// NewNot constructs the stateless unary bitwise complement agent.
func NewNot(inputs, outputs []string, reg *topic.Registry) Agent {
	return newUnaryOp("not", inputs, outputs, reg, func(v float64) float64 {
		return float64(^saturateInt32(v))
	})
}

// NewCompare constructs the persistent three-way compare agent: publishes
// +1, -1, or 0 for v1>v2, v1<v2, v1==v2. Both slots are guaranteed
// non-NaN when the reducer runs (a NaN arrival clears the slot's
// set-flag before the readiness check), so a plain comparison already
// implements IEEE 754 total order for this domain, since NaN never reaches it.
func NewCompare(inputs, outputs []string, reg *topic.Registry) Agent {
	return newBinaryOp("compare", inputs, outputs, reg, false, false, func(v1, v2 float64) float64 {
		switch {
		case v1 > v2:
			return 1
		case v1 < v2:
			return -1
		default:
			return 0
		}
	})
}
