// Package encoding implements the token codec of the trace format.
//
// A trace is a MessagePack token stream:
//
//	header  = "glxtrace" version
//	event   = EventEnter thread call flags sig details
//	        | EventLeave call details
//	details = { CallArg index value | CallRet value } CallEnd
//	sig     = id false | id true name [argName...]
//
// Function and enum signatures are defined the first time they are used.
package encoding

import (
	"github.com/pkg/errors"
	"github.com/tinylib/msgp/msgp"
	"github.com/yuuki0xff/glxtrace/tracer/glapi"
)

const (
	Magic   = "glxtrace"
	Version = 1
)

// event kinds
const (
	EventEnter uint8 = iota
	EventLeave
)

// call details
const (
	CallEnd uint8 = iota
	CallArg
	CallRet
)

// flags of EventEnter
const (
	FlagFake uint8 = 1 << iota
)

// value types
const (
	TypeNull uint8 = iota
	TypeFalse
	TypeTrue
	TypeSInt
	TypeUInt
	TypeFloat
	TypeDouble
	TypeString
	TypeBlob
	TypeEnum
	TypeArray
	TypePointer
)

var (
	ErrBadMagic     = errors.New("not a glxtrace file")
	ErrBadVersion   = errors.New("unsupported trace version")
	ErrUnknownSig   = errors.New("reference to undefined signature")
	ErrRedefinedSig = errors.New("signature defined twice")
	ErrUnknownTag   = errors.New("unknown tag")
)

func MarshalHeader(buf []byte) []byte {
	buf = msgp.AppendString(buf, Magic)
	return msgp.AppendUint64(buf, Version)
}

func UnmarshalHeader(buf []byte) ([]byte, error) {
	magic, buf, err := msgp.ReadStringBytes(buf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read magic")
	}
	if magic != Magic {
		return nil, ErrBadMagic
	}
	version, buf, err := msgp.ReadUint64Bytes(buf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read version")
	}
	if version != Version {
		return nil, errors.Wrapf(ErrBadVersion, "version %d", version)
	}
	return buf, nil
}

func MarshalTag(buf []byte, tag uint8) []byte {
	return msgp.AppendUint8(buf, tag)
}

func UnmarshalTag(buf []byte) (uint8, []byte, error) {
	return msgp.ReadUint8Bytes(buf)
}

func MarshalUint(buf []byte, v uint64) []byte {
	return msgp.AppendUint64(buf, v)
}

func UnmarshalUint(buf []byte) (uint64, []byte, error) {
	return msgp.ReadUint64Bytes(buf)
}

// MarshalFunctionSig writes a reference to sig. If define is true, the
// definition of sig follows the reference.
func MarshalFunctionSig(buf []byte, sig *glapi.FunctionSig, define bool) []byte {
	buf = msgp.AppendUint64(buf, uint64(sig.ID))
	buf = msgp.AppendBool(buf, define)
	if !define {
		return buf
	}
	buf = msgp.AppendString(buf, sig.Name)
	buf = msgp.AppendArrayHeader(buf, uint32(len(sig.ArgNames)))
	for _, name := range sig.ArgNames {
		buf = msgp.AppendString(buf, name)
	}
	return buf
}

// UnmarshalFunctionSig reads a reference and resolves it with sigs.
// New definitions are stored into sigs.
func UnmarshalFunctionSig(buf []byte, sigs map[glapi.SigID]*glapi.FunctionSig) (*glapi.FunctionSig, []byte, error) {
	id, buf, err := msgp.ReadUint64Bytes(buf)
	if err != nil {
		return nil, nil, err
	}
	define, buf, err := msgp.ReadBoolBytes(buf)
	if err != nil {
		return nil, nil, err
	}
	if !define {
		sig, ok := sigs[glapi.SigID(id)]
		if !ok {
			return nil, nil, errors.Wrapf(ErrUnknownSig, "function sig %d", id)
		}
		return sig, buf, nil
	}
	if _, ok := sigs[glapi.SigID(id)]; ok {
		return nil, nil, errors.Wrapf(ErrRedefinedSig, "function sig %d", id)
	}

	sig := &glapi.FunctionSig{ID: glapi.SigID(id)}
	sig.Name, buf, err = msgp.ReadStringBytes(buf)
	if err != nil {
		return nil, nil, err
	}
	n, buf, err := msgp.ReadArrayHeaderBytes(buf)
	if err != nil {
		return nil, nil, err
	}
	sig.ArgNames = make([]string, n)
	for i := range sig.ArgNames {
		sig.ArgNames[i], buf, err = msgp.ReadStringBytes(buf)
		if err != nil {
			return nil, nil, err
		}
	}
	sigs[sig.ID] = sig
	return sig, buf, nil
}

func MarshalEnumSig(buf []byte, sig *glapi.EnumSig, define bool) []byte {
	buf = msgp.AppendUint64(buf, uint64(sig.ID))
	buf = msgp.AppendBool(buf, define)
	if !define {
		return buf
	}
	buf = msgp.AppendArrayHeader(buf, uint32(len(sig.Values)))
	for _, v := range sig.Values {
		buf = msgp.AppendString(buf, v.Name)
		buf = msgp.AppendInt64(buf, v.Value)
	}
	return buf
}

func UnmarshalEnumSig(buf []byte, sigs map[glapi.SigID]*glapi.EnumSig) (*glapi.EnumSig, []byte, error) {
	id, buf, err := msgp.ReadUint64Bytes(buf)
	if err != nil {
		return nil, nil, err
	}
	define, buf, err := msgp.ReadBoolBytes(buf)
	if err != nil {
		return nil, nil, err
	}
	if !define {
		sig, ok := sigs[glapi.SigID(id)]
		if !ok {
			return nil, nil, errors.Wrapf(ErrUnknownSig, "enum sig %d", id)
		}
		return sig, buf, nil
	}
	if _, ok := sigs[glapi.SigID(id)]; ok {
		return nil, nil, errors.Wrapf(ErrRedefinedSig, "enum sig %d", id)
	}

	sig := &glapi.EnumSig{ID: glapi.SigID(id)}
	n, buf, err := msgp.ReadArrayHeaderBytes(buf)
	if err != nil {
		return nil, nil, err
	}
	sig.Values = make([]glapi.EnumValue, n)
	for i := range sig.Values {
		sig.Values[i].Name, buf, err = msgp.ReadStringBytes(buf)
		if err != nil {
			return nil, nil, err
		}
		sig.Values[i].Value, buf, err = msgp.ReadInt64Bytes(buf)
		if err != nil {
			return nil, nil, err
		}
	}
	sigs[sig.ID] = sig
	return sig, buf, nil
}
