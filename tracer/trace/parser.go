package trace

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/yuuki0xff/glxtrace/tracer/encoding"
	"github.com/yuuki0xff/glxtrace/tracer/glapi"
)

type Value = encoding.Value

// Call is a recorded call.
type Call struct {
	No     CallNo
	Thread uint32
	Sig    *glapi.FunctionSig
	Fake   bool
	// Args is indexed by argument position. Missing arguments are null.
	Args []Value
	Ret  *Value
	// Complete is false if the leave event is missing.
	Complete bool
}

func (c *Call) Name() string {
	return c.Sig.Name
}

// Arg returns the i-th argument, or a null value.
func (c *Call) Arg(i int) Value {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return Value{Type: encoding.TypeNull}
}

// ArgName returns the name of the i-th argument.
func (c *Call) ArgName(i int) string {
	if i < len(c.Sig.ArgNames) {
		return c.Sig.ArgNames[i]
	}
	return ""
}

// Parser reads calls from an in-memory trace.
type Parser struct {
	buf    []byte
	funcs  map[glapi.SigID]*glapi.FunctionSig
	values encoding.ValueReader
	calls  map[CallNo]*Call
}

func NewParser(data []byte) (*Parser, error) {
	buf, err := encoding.UnmarshalHeader(data)
	if err != nil {
		return nil, err
	}
	return &Parser{
		buf:   buf,
		funcs: map[glapi.SigID]*glapi.FunctionSig{},
		calls: map[CallNo]*Call{},
	}, nil
}

// Next returns the next call whose leave event was read. It returns nil
// at the end of the trace.
func (p *Parser) Next() (*Call, error) {
	for len(p.buf) > 0 {
		event, buf, err := encoding.UnmarshalTag(p.buf)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read an event")
		}
		p.buf = buf

		switch event {
		case encoding.EventEnter:
			if err := p.parseEnter(); err != nil {
				return nil, err
			}
		case encoding.EventLeave:
			call, err := p.parseLeave()
			if err != nil {
				return nil, err
			}
			return call, nil
		default:
			return nil, errors.Wrapf(encoding.ErrUnknownTag, "event %d", event)
		}
	}
	return nil, nil
}

// Incomplete returns calls that were entered but never left, in call order.
func (p *Parser) Incomplete() []*Call {
	var calls []*Call
	for _, c := range p.calls {
		calls = append(calls, c)
	}
	sortCalls(calls)
	return calls
}

func (p *Parser) parseEnter() error {
	var thread, no uint64
	var flags uint8
	var err error

	thread, p.buf, err = encoding.UnmarshalUint(p.buf)
	if err != nil {
		return errors.Wrap(err, "failed to read a thread id")
	}
	no, p.buf, err = encoding.UnmarshalUint(p.buf)
	if err != nil {
		return errors.Wrap(err, "failed to read a call number")
	}
	flags, p.buf, err = encoding.UnmarshalTag(p.buf)
	if err != nil {
		return errors.Wrap(err, "failed to read call flags")
	}
	call := &Call{
		No:     CallNo(no),
		Thread: uint32(thread),
		Fake:   flags&encoding.FlagFake != 0,
	}
	call.Sig, p.buf, err = encoding.UnmarshalFunctionSig(p.buf, p.funcs)
	if err != nil {
		return errors.Wrapf(err, "call %d", no)
	}
	p.calls[call.No] = call
	return p.parseDetails(call)
}

func (p *Parser) parseLeave() (*Call, error) {
	var no uint64
	var err error
	no, p.buf, err = encoding.UnmarshalUint(p.buf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read a call number")
	}
	call, ok := p.calls[CallNo(no)]
	if !ok {
		return nil, errors.Errorf("leave of unknown call %d", no)
	}
	delete(p.calls, call.No)
	if err := p.parseDetails(call); err != nil {
		return nil, err
	}
	call.Complete = true
	return call, nil
}

func (p *Parser) parseDetails(call *Call) error {
	for {
		var detail uint8
		var err error
		detail, p.buf, err = encoding.UnmarshalTag(p.buf)
		if err != nil {
			return errors.Wrapf(err, "call %d: failed to read details", call.No)
		}

		switch detail {
		case encoding.CallEnd:
			return nil
		case encoding.CallArg:
			var index uint64
			index, p.buf, err = encoding.UnmarshalUint(p.buf)
			if err != nil {
				return errors.Wrapf(err, "call %d: failed to read an argument index", call.No)
			}
			var v Value
			v, p.buf, err = p.values.Unmarshal(p.buf)
			if err != nil {
				return errors.Wrapf(err, "call %d: argument %d", call.No, index)
			}
			for uint64(len(call.Args)) <= index {
				call.Args = append(call.Args, Value{Type: encoding.TypeNull})
			}
			call.Args[index] = v
		case encoding.CallRet:
			var v Value
			v, p.buf, err = p.values.Unmarshal(p.buf)
			if err != nil {
				return errors.Wrapf(err, "call %d: return value", call.No)
			}
			call.Ret = &v
		default:
			return errors.Wrapf(encoding.ErrUnknownTag, "call %d: detail %d", call.No, detail)
		}
	}
}

// ParseAll reads every call of a trace and returns them in call order.
// Calls without a leave event are included with Complete set to false.
func ParseAll(data []byte) ([]*Call, error) {
	p, err := NewParser(data)
	if err != nil {
		return nil, err
	}
	var calls []*Call
	for {
		call, err := p.Next()
		if err != nil {
			return calls, err
		}
		if call == nil {
			break
		}
		calls = append(calls, call)
	}
	calls = append(calls, p.Incomplete()...)
	sortCalls(calls)
	return calls, nil
}

func sortCalls(calls []*Call) {
	sort.Slice(calls, func(i, j int) bool {
		return calls[i].No < calls[j].No
	})
}
