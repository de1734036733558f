package encoding

import (
	"github.com/tinylib/msgp/msgp"
	"github.com/yuuki0xff/glxtrace/tracer/glapi"
)

// Value marshalers write the type tag followed by the payload.

func MarshalNull(buf []byte) []byte {
	return msgp.AppendUint8(buf, TypeNull)
}

func MarshalBool(buf []byte, v bool) []byte {
	if v {
		return msgp.AppendUint8(buf, TypeTrue)
	}
	return msgp.AppendUint8(buf, TypeFalse)
}

func MarshalSInt(buf []byte, v int64) []byte {
	buf = msgp.AppendUint8(buf, TypeSInt)
	return msgp.AppendInt64(buf, v)
}

func MarshalUInt(buf []byte, v uint64) []byte {
	buf = msgp.AppendUint8(buf, TypeUInt)
	return msgp.AppendUint64(buf, v)
}

func MarshalFloat(buf []byte, v float32) []byte {
	buf = msgp.AppendUint8(buf, TypeFloat)
	return msgp.AppendFloat32(buf, v)
}

func MarshalDouble(buf []byte, v float64) []byte {
	buf = msgp.AppendUint8(buf, TypeDouble)
	return msgp.AppendFloat64(buf, v)
}

func MarshalString(buf []byte, s string) []byte {
	buf = msgp.AppendUint8(buf, TypeString)
	return msgp.AppendString(buf, s)
}

func MarshalBlob(buf []byte, data []byte) []byte {
	buf = msgp.AppendUint8(buf, TypeBlob)
	return msgp.AppendBytes(buf, data)
}

func MarshalPointer(buf []byte, addr uintptr) []byte {
	buf = msgp.AppendUint8(buf, TypePointer)
	return msgp.AppendUint64(buf, uint64(addr))
}

func MarshalEnum(buf []byte, sig *glapi.EnumSig, define bool, v int64) []byte {
	buf = msgp.AppendUint8(buf, TypeEnum)
	buf = MarshalEnumSig(buf, sig, define)
	return msgp.AppendInt64(buf, v)
}

// MarshalArray writes the header of an array. The elements follow as
// values.
func MarshalArray(buf []byte, length int) []byte {
	buf = msgp.AppendUint8(buf, TypeArray)
	return msgp.AppendArrayHeader(buf, uint32(length))
}

// ValueReader decodes values. Enum signatures defined in the stream are
// kept across calls.
type ValueReader struct {
	Enums map[glapi.SigID]*glapi.EnumSig
}

// Value is a decoded argument or return value.
type Value struct {
	Type    uint8
	SInt    int64
	UInt    uint64
	Float   float64
	Str     string
	Blob    []byte
	EnumSig *glapi.EnumSig
	Array   []Value
}

func (r *ValueReader) Unmarshal(buf []byte) (Value, []byte, error) {
	var v Value
	var err error
	v.Type, buf, err = msgp.ReadUint8Bytes(buf)
	if err != nil {
		return v, nil, err
	}

	switch v.Type {
	case TypeNull, TypeFalse, TypeTrue:
	case TypeSInt:
		v.SInt, buf, err = msgp.ReadInt64Bytes(buf)
	case TypeUInt, TypePointer:
		v.UInt, buf, err = msgp.ReadUint64Bytes(buf)
	case TypeFloat:
		var f float32
		f, buf, err = msgp.ReadFloat32Bytes(buf)
		v.Float = float64(f)
	case TypeDouble:
		v.Float, buf, err = msgp.ReadFloat64Bytes(buf)
	case TypeString:
		v.Str, buf, err = msgp.ReadStringBytes(buf)
	case TypeBlob:
		v.Blob, buf, err = msgp.ReadBytesBytes(buf, nil)
	case TypeEnum:
		if r.Enums == nil {
			r.Enums = map[glapi.SigID]*glapi.EnumSig{}
		}
		v.EnumSig, buf, err = UnmarshalEnumSig(buf, r.Enums)
		if err != nil {
			return v, nil, err
		}
		v.SInt, buf, err = msgp.ReadInt64Bytes(buf)
	case TypeArray:
		var n uint32
		n, buf, err = msgp.ReadArrayHeaderBytes(buf)
		if err != nil {
			return v, nil, err
		}
		v.Array = make([]Value, n)
		for i := range v.Array {
			v.Array[i], buf, err = r.Unmarshal(buf)
			if err != nil {
				return v, nil, err
			}
		}
	default:
		return v, nil, ErrUnknownTag
	}
	return v, buf, err
}

// Int returns v as a signed integer. Unsigned, enum, pointer and bool values
// are converted.
func (v Value) Int() int64 {
	switch v.Type {
	case TypeUInt, TypePointer:
		return int64(v.UInt)
	case TypeFloat, TypeDouble:
		return int64(v.Float)
	case TypeTrue:
		return 1
	default:
		return v.SInt
	}
}

func (v Value) Uint() uint64 {
	switch v.Type {
	case TypeUInt, TypePointer:
		return v.UInt
	default:
		return uint64(v.Int())
	}
}

func (v Value) Float64() float64 {
	switch v.Type {
	case TypeFloat, TypeDouble:
		return v.Float
	default:
		return float64(v.Int())
	}
}

func (v Value) IsNull() bool {
	return v.Type == TypeNull
}
