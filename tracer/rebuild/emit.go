package rebuild

import (
	"github.com/yuuki0xff/glxtrace/tracer/gl"
	"github.com/yuuki0xff/glxtrace/tracer/glapi"
	"github.com/yuuki0xff/glxtrace/tracer/trace"
)

// arg writes one value.
type arg func(w trace.Writer)

func enumArg(v gl.Enum) arg {
	return func(w trace.Writer) { w.WriteEnum(glapi.GLenum, int64(v)) }
}

func sintArg(v int32) arg {
	return func(w trace.Writer) { w.WriteSInt(int64(v)) }
}

func uintArg(v uint32) arg {
	return func(w trace.Writer) { w.WriteUInt(uint64(v)) }
}

func floatArg(v float32) arg {
	return func(w trace.Writer) { w.WriteFloat(v) }
}

func stringArg(s string) arg {
	return func(w trace.Writer) { w.WriteString(s) }
}

func blobArg(data []byte) arg {
	return func(w trace.Writer) { w.WriteBlob(data) }
}

func pointerArg(p uintptr) arg {
	return func(w trace.Writer) { w.WritePointer(p) }
}

func nullArg() arg {
	return func(w trace.Writer) { w.WriteNull() }
}

func arrayArg(items []arg) arg {
	return func(w trace.Writer) {
		w.BeginArray(len(items))
		for _, item := range items {
			w.BeginElement()
			item(w)
			w.EndElement()
		}
		w.EndArray()
	}
}

func floatsArg(v []float32) arg {
	items := make([]arg, len(v))
	for i := range v {
		items[i] = floatArg(v[i])
	}
	return arrayArg(items)
}

func doublesArg(v []float64) arg {
	items := make([]arg, len(v))
	for i := range v {
		f := v[i]
		items[i] = func(w trace.Writer) { w.WriteDouble(f) }
	}
	return arrayArg(items)
}

// call is a record written into the trace.
type call struct {
	sig  *glapi.FunctionSig
	fake bool
	// in is written with the enter event, out with the leave event. Both
	// are indexed by argument position; nil entries are skipped.
	in  []arg
	out []arg
	ret arg
}

// write writes c. Records of a rebuild are written for the thread that
// triggered it.
func write(w trace.Writer, thread uint32, c call) {
	no := w.BeginEnter(c.sig, thread, c.fake)
	writeArgs(w, c.in)
	w.EndEnter()
	w.BeginLeave(no)
	writeArgs(w, c.out)
	if c.ret != nil {
		w.BeginReturn()
		c.ret(w)
		w.EndReturn()
	}
	w.EndLeave()
}

func writeArgs(w trace.Writer, args []arg) {
	for i, a := range args {
		if a == nil {
			continue
		}
		w.BeginArg(i)
		a(w)
		w.EndArg()
	}
}
