package trace

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yuuki0xff/glxtrace/tracer/encoding"
)

type DumpOptions struct {
	ThreadIDs  bool
	NoArgNames bool
}

// Dump writes one line per call.
func Dump(w io.Writer, calls []*Call, opts DumpOptions) error {
	for _, c := range calls {
		if _, err := io.WriteString(w, FormatCall(c, opts)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// FormatCall formats c as
//
//	[@thread ]no name(arg = value, ...) [= ret] [// fake]
func FormatCall(c *Call, opts DumpOptions) string {
	var b strings.Builder
	if opts.ThreadIDs {
		fmt.Fprintf(&b, "@%d ", c.Thread)
	}
	fmt.Fprintf(&b, "%d %s(", c.No, c.Name())
	for i := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		if name := c.ArgName(i); !opts.NoArgNames && name != "" {
			b.WriteString(name)
			b.WriteString(" = ")
		}
		b.WriteString(FormatValue(c.Args[i]))
	}
	b.WriteString(")")
	if c.Ret != nil {
		b.WriteString(" = ")
		b.WriteString(FormatValue(*c.Ret))
	}
	switch {
	case !c.Complete:
		b.WriteString(" // incomplete")
	case c.Fake:
		b.WriteString(" // fake")
	}
	return b.String()
}

func FormatValue(v Value) string {
	switch v.Type {
	case encoding.TypeNull:
		return "NULL"
	case encoding.TypeFalse:
		return "false"
	case encoding.TypeTrue:
		return "true"
	case encoding.TypeSInt:
		return strconv.FormatInt(v.SInt, 10)
	case encoding.TypeUInt:
		return strconv.FormatUint(v.UInt, 10)
	case encoding.TypeFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 32)
	case encoding.TypeDouble:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case encoding.TypeString:
		return strconv.Quote(v.Str)
	case encoding.TypeBlob:
		return fmt.Sprintf("blob(%d)", len(v.Blob))
	case encoding.TypePointer:
		return fmt.Sprintf("0x%x", v.UInt)
	case encoding.TypeEnum:
		if v.EnumSig != nil {
			if name, ok := v.EnumSig.Lookup(v.SInt); ok {
				return name
			}
		}
		return fmt.Sprintf("0x%x", v.SInt)
	case encoding.TypeArray:
		items := make([]string, len(v.Array))
		for i := range v.Array {
			items[i] = FormatValue(v.Array[i])
		}
		return "{" + strings.Join(items, ", ") + "}"
	default:
		return "?"
	}
}
