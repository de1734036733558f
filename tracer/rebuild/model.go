package rebuild

import (
	"math"

	"github.com/yuuki0xff/glxtrace/tracer/gl"
)

// bits holds state values as raw bit patterns, so comparisons behave like a
// memcmp of the queried values.
type bits []uint64

func intBits(v ...int32) bits {
	b := make(bits, len(v))
	for i := range v {
		b[i] = uint64(int64(v[i]))
	}
	return b
}

func floatBits(v ...float32) bits {
	b := make(bits, len(v))
	for i := range v {
		b[i] = uint64(math.Float32bits(v[i]))
	}
	return b
}

func doubleBits(v ...float64) bits {
	b := make(bits, len(v))
	for i := range v {
		b[i] = math.Float64bits(v[i])
	}
	return b
}

func boolBits(v bool) bits {
	if v {
		return bits{1}
	}
	return bits{0}
}

func (b bits) equal(o bits) bool {
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

type keyKind int

const (
	keyInts keyKind = iota
	keyCap
	keyClipPlane
	keyLight
	keyMatrix
	keyMatrixMode
	keyActiveUnit
	keyBinding
	keyUnitCap
	keyArray
	keyProgram
)

// stateKey names one piece of replayed state. unit is only used by per-unit
// state.
type stateKey struct {
	kind  keyKind
	name  gl.Enum
	pname gl.Enum
	unit  int
}

// model is the state a replay of the trace reaches after the synthetic calls
// of the previous passes. State without an entry is at its GL default.
type model struct {
	values map[stateKey]bits
}

func newModel() *model {
	return &model{
		values: map[stateKey]bits{},
	}
}

// baseline returns the replayed value of k, or def if k was never emitted.
func (m *model) baseline(k stateKey, def bits) bits {
	if v, ok := m.values[k]; ok {
		return v
	}
	return def
}

// changed reports whether live differs from the replayed value of k and
// records live as the new replayed value. A nil def never matches, so state
// without a default is emitted on the first pass.
func (m *model) changed(k stateKey, live bits, def bits) bool {
	base := m.baseline(k, def)
	if base != nil && base.equal(live) {
		return false
	}
	m.values[k] = live
	return true
}

func (m *model) set(k stateKey, v bits) {
	m.values[k] = v
}

func (m *model) enumValue(k stateKey, def gl.Enum) gl.Enum {
	v := m.baseline(k, nil)
	if len(v) == 0 {
		return def
	}
	return gl.Enum(v[0])
}
