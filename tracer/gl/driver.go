// Package gl defines the GL/GLX surface seen by the tracer: enum values and
// the live driver interface reached through unintercepted entry points.
package gl

// Driver is the live GL driver of one context.
//
// Query methods are used purely for introspection and never produce trace
// records. A failing query leaves its output untouched and raises a GL error,
// so every query should be followed by GetError.
type Driver interface {
	Querier
	Setter
}

type Querier interface {
	GetError() Enum
	GetIntegerv(pname Enum, data []int32)
	GetFloatv(pname Enum, data []float32)
	GetPointerv(pname Enum) uintptr
	IsEnabled(cap Enum) bool
	GetClipPlane(plane Enum, equation []float64)
	GetLightfv(light Enum, pname Enum, params []float32)
	GetTexParameteriv(target Enum, pname Enum, params []int32)
	GetTexLevelParameteriv(target Enum, level int32, pname Enum, params []int32)
	GetTexImage(target Enum, level int32, format Enum, typ Enum, pixels []byte)
	GetProgramiv(program uint32, pname Enum, params []int32)
	// GetAttachedShaders fills shaders and returns the number of names written.
	GetAttachedShaders(program uint32, shaders []uint32) int
	// QueryDrawable is glXQueryDrawable.
	QueryDrawable(display, drawable uintptr, attribute int32) uint32
}

// Setter holds the entry points the rebuild forwards to the driver after
// recording them.
type Setter interface {
	Viewport(x, y, width, height int32)
	Scissor(x, y, width, height int32)
	Enable(cap Enum)
	Disable(cap Enum)
	EnableClientState(array Enum)
	DisableClientState(array Enum)
	ClipPlane(plane Enum, equation []float64)
	Lightfv(light Enum, pname Enum, params []float32)
	MatrixMode(mode Enum)
	LoadMatrixf(m []float32)
	CullFace(mode Enum)
	DepthFunc(fn Enum)
	Hint(target Enum, mode Enum)
	PixelStorei(pname Enum, param int32)
	BlendFunc(sfactor Enum, dfactor Enum)
	MultiTexCoord4f(target Enum, s, t, r, q float32)
	ClearColor(r, g, b, a float32)
	ActiveTexture(texture Enum)
	BindTexture(target Enum, texture uint32)
	TexParameteri(target Enum, pname Enum, param int32)
	VertexPointer(size int32, typ Enum, stride int32, pointer uintptr)
	ColorPointer(size int32, typ Enum, stride int32, pointer uintptr)
	TexCoordPointer(size int32, typ Enum, stride int32, pointer uintptr)
	CompileShader(shader uint32)
	AttachShader(program uint32, shader uint32)
	LinkProgram(program uint32)
	UseProgram(program uint32)
}

// DrainErrors reads the driver's error flags until GL_NO_ERROR and returns
// the raised errors in order. limit bounds the loop for drivers that never
// report GL_NO_ERROR.
func DrainErrors(q Querier, limit int) []Enum {
	var errs []Enum
	for i := 0; i < limit; i++ {
		e := q.GetError()
		if e == NO_ERROR {
			break
		}
		errs = append(errs, e)
	}
	return errs
}

// GetInteger returns a single integer state value and whether the query
// succeeded. Pending errors are cleared before the query.
func GetInteger(q Querier, pname Enum) (int32, bool) {
	DrainErrors(q, maxDrain)
	var v [1]int32
	q.GetIntegerv(pname, v[:])
	return v[0], q.GetError() == NO_ERROR
}

const maxDrain = 16

// TexImage2DSize is the byte size of a client image with the default unpack
// state (alignment 4, no row length).
func TexImage2DSize(format Enum, typ Enum, width, height int32) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	bpp := components(format) * typeSize(typ)
	stride := align(int(width)*bpp, 4)
	return stride * int(height)
}

func components(format Enum) int {
	switch format {
	case RGBA, BGRA:
		return 4
	case RGB, BGR:
		return 3
	case RED, GREEN, BLUE, ALPHA, LUMINANCE, DEPTH_COMPONENT:
		return 1
	default:
		return 4
	}
}

func typeSize(typ Enum) int {
	switch typ {
	case FLOAT:
		return 4
	default:
		return 1
	}
}

func align(v, a int) int {
	return (v + a - 1) / a * a
}
