// Package trace records calls into a trace and reads them back.
package trace

import "github.com/yuuki0xff/glxtrace/tracer/glapi"

// CallNo is the number of a recorded call. Numbers start at 0 and are
// assigned in BeginEnter order.
type CallNo uint32

// NoCall is returned by BeginEnter when the call is not recorded.
const NoCall CallNo = ^CallNo(0)

// Writer is a sequential, event oriented call recorder.
//
// A call is recorded as
//
//	BeginEnter {BeginArg value EndArg} EndEnter
//	BeginLeave {BeginArg value EndArg} [BeginReturn value EndReturn] EndLeave
//
// where value is one scalar write, or BeginArray(n) followed by n
// BeginElement value EndElement sequences and EndArray.
type Writer interface {
	BeginEnter(sig *glapi.FunctionSig, thread uint32, fake bool) CallNo
	EndEnter()
	BeginLeave(call CallNo)
	EndLeave()

	BeginArg(index int)
	EndArg()
	BeginReturn()
	EndReturn()
	BeginArray(length int)
	EndArray()
	BeginElement()
	EndElement()

	WriteSInt(v int64)
	WriteUInt(v uint64)
	WriteFloat(v float32)
	WriteDouble(v float64)
	WriteBool(v bool)
	WriteEnum(sig *glapi.EnumSig, v int64)
	WriteString(s string)
	WriteBlob(data []byte)
	WritePointer(addr uintptr)
	WriteNull()

	// Err returns the first error that occurred while writing.
	Err() error
}

// Gate decides whether a call is recorded. It is consulted once per call at
// BeginEnter with the writer lock held.
type Gate interface {
	ShouldWrite(name string) bool
}
