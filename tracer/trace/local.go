package trace

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/yuuki0xff/glxtrace/tracer/encoding"
	"github.com/yuuki0xff/glxtrace/tracer/glapi"
	"github.com/yuuki0xff/glxtrace/tracer/tlog"
)

var (
	ErrUnbalanced = errors.New("unbalanced trace event")
	ErrNotOpened  = errors.New("trace writer has no output")
)

type sectionKind int

const (
	noSection sectionKind = iota
	enterSection
	leaveSection
)

type frameKind int

const (
	frameEnter frameKind = iota
	frameLeave
	frameArg
	frameRet
	frameArray
	frameElement
)

func (k frameKind) String() string {
	switch k {
	case frameEnter:
		return "enter"
	case frameLeave:
		return "leave"
	case frameArg:
		return "arg"
	case frameRet:
		return "return"
	case frameArray:
		return "array"
	case frameElement:
		return "element"
	default:
		return "unknown"
	}
}

type frame struct {
	kind frameKind
	// number of elements that are not written yet. only used by frameArray.
	remaining int
	// true if the frame already holds its value.
	filled bool
}

// OpenFunc opens the output of a LocalWriter. It is called when the first
// call is recorded.
type OpenFunc func() (io.Writer, error)

// LocalWriter writes a trace of the current process.
//
// The lock is held from BeginEnter to EndEnter and from BeginLeave to
// EndLeave, so calls recorded by different threads never interleave inside
// one section. Protocol violations are reported through Err and the writer
// stops writing after the first error.
type LocalWriter struct {
	lock sync.Mutex
	open OpenFunc
	out  io.Writer
	gate Gate
	log  zerolog.Logger

	buf     []byte
	next    CallNo
	pending map[CallNo]bool
	funcs   map[*glapi.FunctionSig]bool
	enums   map[*glapi.EnumSig]bool

	section sectionKind
	skip    bool
	stack   []frame
	err     error
}

// NewLocalWriter returns a writer that writes into out.
func NewLocalWriter(out io.Writer) *LocalWriter {
	return NewLocalWriterFunc(func() (io.Writer, error) {
		return out, nil
	})
}

// NewLocalWriterFunc returns a writer that opens its output lazily.
func NewLocalWriterFunc(open OpenFunc) *LocalWriter {
	return &LocalWriter{
		open:    open,
		log:     tlog.WithComponent("trace"),
		pending: map[CallNo]bool{},
		funcs:   map[*glapi.FunctionSig]bool{},
		enums:   map[*glapi.EnumSig]bool{},
	}
}

// SetGate installs g. A nil gate records every call.
func (w *LocalWriter) SetGate(g Gate) {
	w.lock.Lock()
	w.gate = g
	w.lock.Unlock()
}

// Opened reports whether the output was opened.
func (w *LocalWriter) Opened() bool {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.out != nil
}

func (w *LocalWriter) Err() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.err
}

type flusher interface {
	Flush() error
}

// Flush flushes the output if it is buffered.
func (w *LocalWriter) Flush() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	if f, ok := w.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, "failed to flush the trace")
		}
	}
	return nil
}

// Close closes the output if it implements io.Closer.
func (w *LocalWriter) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	if c, ok := w.out.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return errors.Wrap(err, "failed to close the trace")
		}
	}
	w.out = nil
	return nil
}

func (w *LocalWriter) fail(err error) {
	if w.err != nil {
		return
	}
	w.err = err
	w.log.Error().Err(err).Msg("trace writer stopped")
}

func (w *LocalWriter) failf(format string, args ...interface{}) {
	w.fail(errors.Wrapf(ErrUnbalanced, format, args...))
}

// active reports whether events of the current section are written.
func (w *LocalWriter) active() bool {
	return w.section != noSection && !w.skip && w.err == nil
}

func (w *LocalWriter) top() *frame {
	if len(w.stack) == 0 {
		return nil
	}
	return &w.stack[len(w.stack)-1]
}

func (w *LocalWriter) push(kind frameKind) {
	w.stack = append(w.stack, frame{kind: kind})
}

func (w *LocalWriter) pop(kind frameKind) bool {
	f := w.top()
	if f == nil || f.kind != kind {
		w.failf("end of %s outside of %s", kind, kind)
		return false
	}
	if (kind == frameArg || kind == frameRet || kind == frameElement) && !f.filled {
		w.failf("%s without value", kind)
		return false
	}
	if kind == frameArray && f.remaining != 0 {
		w.failf("array closed with %d elements missing", f.remaining)
		return false
	}
	w.stack = w.stack[:len(w.stack)-1]
	return true
}

// value claims the value slot of the innermost frame.
func (w *LocalWriter) value() bool {
	if !w.active() {
		return false
	}
	f := w.top()
	if f == nil || (f.kind != frameArg && f.kind != frameRet && f.kind != frameElement) {
		w.failf("value outside of an argument")
		return false
	}
	if f.filled {
		w.failf("second value in one %s", f.kind)
		return false
	}
	f.filled = true
	return true
}

func (w *LocalWriter) BeginEnter(sig *glapi.FunctionSig, thread uint32, fake bool) CallNo {
	w.lock.Lock()
	w.section = enterSection
	w.stack = w.stack[:0]
	w.skip = w.gate != nil && !w.gate.ShouldWrite(sig.Name)
	if !w.active() {
		return NoCall
	}

	call := w.next
	w.next++
	w.pending[call] = true
	w.push(frameEnter)

	var flags uint8
	if fake {
		flags |= encoding.FlagFake
	}
	w.buf = encoding.MarshalTag(w.buf, encoding.EventEnter)
	w.buf = encoding.MarshalUint(w.buf, uint64(thread))
	w.buf = encoding.MarshalUint(w.buf, uint64(call))
	w.buf = encoding.MarshalTag(w.buf, flags)
	w.buf = encoding.MarshalFunctionSig(w.buf, sig, !w.funcs[sig])
	w.funcs[sig] = true
	return call
}

func (w *LocalWriter) EndEnter() {
	w.endSection(enterSection, frameEnter)
}

func (w *LocalWriter) BeginLeave(call CallNo) {
	w.lock.Lock()
	w.section = leaveSection
	w.stack = w.stack[:0]
	w.skip = call == NoCall
	if !w.active() {
		return
	}
	if !w.pending[call] {
		w.failf("leave of call %d that was not entered", call)
		return
	}
	delete(w.pending, call)
	w.push(frameLeave)
	w.buf = encoding.MarshalTag(w.buf, encoding.EventLeave)
	w.buf = encoding.MarshalUint(w.buf, uint64(call))
}

func (w *LocalWriter) EndLeave() {
	w.endSection(leaveSection, frameLeave)
}

func (w *LocalWriter) endSection(section sectionKind, kind frameKind) {
	if w.section == noSection {
		// the lock is not held by the caller.
		w.lock.Lock()
		w.failf("end of %s without begin", kind)
		w.lock.Unlock()
		return
	}
	defer w.lock.Unlock()

	if w.active() {
		if w.section != section {
			w.failf("end of %s inside of another section", kind)
		} else if w.pop(kind) {
			if len(w.stack) != 0 {
				w.failf("%s closed with an open %s", kind, w.top().kind)
			} else {
				w.buf = encoding.MarshalTag(w.buf, encoding.CallEnd)
				w.flush()
			}
		}
	}
	w.buf = w.buf[:0]
	w.section = noSection
	w.skip = false
}

func (w *LocalWriter) flush() {
	if w.out == nil {
		out, err := w.open()
		if err != nil {
			w.fail(errors.Wrap(err, "failed to open the trace"))
			return
		}
		if out == nil {
			w.fail(ErrNotOpened)
			return
		}
		w.out = out
		if _, err := w.out.Write(encoding.MarshalHeader(nil)); err != nil {
			w.fail(errors.Wrap(err, "failed to write the trace header"))
			return
		}
	}
	if _, err := w.out.Write(w.buf); err != nil {
		w.fail(errors.Wrap(err, "failed to write the trace"))
	}
}

func (w *LocalWriter) BeginArg(index int) {
	if !w.active() {
		return
	}
	f := w.top()
	if f == nil || (f.kind != frameEnter && f.kind != frameLeave) {
		w.failf("argument %d outside of a call", index)
		return
	}
	w.push(frameArg)
	w.buf = encoding.MarshalTag(w.buf, encoding.CallArg)
	w.buf = encoding.MarshalUint(w.buf, uint64(index))
}

func (w *LocalWriter) EndArg() {
	if w.active() {
		w.pop(frameArg)
	}
}

func (w *LocalWriter) BeginReturn() {
	if !w.active() {
		return
	}
	f := w.top()
	if f == nil || f.kind != frameLeave {
		w.failf("return value outside of a leave")
		return
	}
	w.push(frameRet)
	w.buf = encoding.MarshalTag(w.buf, encoding.CallRet)
}

func (w *LocalWriter) EndReturn() {
	if w.active() {
		w.pop(frameRet)
	}
}

func (w *LocalWriter) BeginArray(length int) {
	if !w.value() {
		return
	}
	w.stack = append(w.stack, frame{kind: frameArray, remaining: length})
	w.buf = encoding.MarshalArray(w.buf, length)
}

func (w *LocalWriter) EndArray() {
	if w.active() {
		w.pop(frameArray)
	}
}

func (w *LocalWriter) BeginElement() {
	if !w.active() {
		return
	}
	f := w.top()
	if f == nil || f.kind != frameArray {
		w.failf("element outside of an array")
		return
	}
	if f.remaining == 0 {
		w.failf("too many elements")
		return
	}
	f.remaining--
	w.push(frameElement)
}

func (w *LocalWriter) EndElement() {
	if w.active() {
		w.pop(frameElement)
	}
}

func (w *LocalWriter) WriteSInt(v int64) {
	if w.value() {
		w.buf = encoding.MarshalSInt(w.buf, v)
	}
}

func (w *LocalWriter) WriteUInt(v uint64) {
	if w.value() {
		w.buf = encoding.MarshalUInt(w.buf, v)
	}
}

func (w *LocalWriter) WriteFloat(v float32) {
	if w.value() {
		w.buf = encoding.MarshalFloat(w.buf, v)
	}
}

func (w *LocalWriter) WriteDouble(v float64) {
	if w.value() {
		w.buf = encoding.MarshalDouble(w.buf, v)
	}
}

func (w *LocalWriter) WriteBool(v bool) {
	if w.value() {
		w.buf = encoding.MarshalBool(w.buf, v)
	}
}

func (w *LocalWriter) WriteEnum(sig *glapi.EnumSig, v int64) {
	if w.value() {
		w.buf = encoding.MarshalEnum(w.buf, sig, !w.enums[sig], v)
		w.enums[sig] = true
	}
}

func (w *LocalWriter) WriteString(s string) {
	if w.value() {
		w.buf = encoding.MarshalString(w.buf, s)
	}
}

func (w *LocalWriter) WriteBlob(data []byte) {
	if w.value() {
		w.buf = encoding.MarshalBlob(w.buf, data)
	}
}

func (w *LocalWriter) WritePointer(addr uintptr) {
	if w.value() {
		w.buf = encoding.MarshalPointer(w.buf, addr)
	}
}

func (w *LocalWriter) WriteNull() {
	if w.value() {
		w.buf = encoding.MarshalNull(w.buf)
	}
}

var _ Writer = &LocalWriter{}
