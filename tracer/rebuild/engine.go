// Package rebuild reconstructs the state of a live GL context as synthetic
// trace records, so a trace that starts in the middle of an application can
// be replayed.
//
// A pass queries the driver through unintercepted entry points, compares
// every piece of state with the value a replay would have, and writes a call
// only for state that differs. Calls that change driver state are forwarded
// to the driver after they are written; calls marked fake only exist in the
// trace.
package rebuild

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/yuuki0xff/glxtrace/tracer/gl"
	"github.com/yuuki0xff/glxtrace/tracer/glcontext"
	"github.com/yuuki0xff/glxtrace/tracer/objects"
	"github.com/yuuki0xff/glxtrace/tracer/tlog"
	"github.com/yuuki0xff/glxtrace/tracer/trace"
)

const drainLimit = 16

// Target is the context to rebuild. Driver must be current on the calling
// thread.
type Target struct {
	Handle  uintptr
	Profile glcontext.Profile
	Thread  uint32
	Driver  gl.Driver
}

// Engine runs rebuild passes. Passes are serialized.
type Engine struct {
	lock     sync.Mutex
	w        trace.Writer
	textures *objects.TextureRegistry
	shaders  *objects.ShaderStore
	programs *objects.ProgramStore
	models   map[uintptr]*model
	log      zerolog.Logger
}

func NewEngine(w trace.Writer, textures *objects.TextureRegistry, shaders *objects.ShaderStore, programs *objects.ProgramStore) *Engine {
	return &Engine{
		w:        w,
		textures: textures,
		shaders:  shaders,
		programs: programs,
		models:   map[uintptr]*model{},
		log:      tlog.WithComponent("rebuild"),
	}
}

// Invalidate forgets what the previous passes wrote for a context. It must
// be called when other calls of the context were recorded, because the
// replayed state is unknown from then on. The next pass compares against GL
// defaults again.
func (e *Engine) Invalidate(handle uintptr) {
	e.lock.Lock()
	delete(e.models, handle)
	e.lock.Unlock()
}

// Rebuild writes the state of t into the trace. It returns the GL errors
// that were pending before the pass; they belong to the application.
func (e *Engine) Rebuild(t Target) []gl.Enum {
	e.lock.Lock()
	defer e.lock.Unlock()

	appErrors := gl.DrainErrors(t.Driver, drainLimit)
	m, ok := e.models[t.Handle]
	if !ok {
		m = newModel()
		e.models[t.Handle] = m
	}
	p := &pass{
		e:   e,
		t:   t,
		d:   t.Driver,
		m:   m,
		log: e.log.With().Uint64("context", uint64(t.Handle)).Logger(),
	}
	p.log.Debug().Bool("replayed", ok).Msg("rebuild started")

	p.viewport()
	p.capabilities()
	p.clipPlanes()
	p.lights()
	p.matrices()
	p.params()
	units := p.saveUnits()
	p.clientArrays()
	p.textures()
	p.restoreUnits(units)
	p.shadersAndPrograms()

	if errs := gl.DrainErrors(t.Driver, drainLimit); len(errs) > 0 {
		p.log.Debug().Int("errors", len(errs)).Msg("driver errors raised by the rebuild were dropped")
	}
	p.log.Debug().Int("calls", p.calls).Msg("rebuild finished")
	return appErrors
}

// BindTexImage writes the image of a drawable that glXBindTexImageEXT bound
// to the current texture, as a fake glTexImage2D. It returns the GL errors
// that were pending before the queries.
func (e *Engine) BindTexImage(t Target, display, drawable uintptr) []gl.Enum {
	e.lock.Lock()
	defer e.lock.Unlock()

	appErrors := gl.DrainErrors(t.Driver, drainLimit)
	p := &pass{
		e:   e,
		t:   t,
		d:   t.Driver,
		log: e.log.With().Uint64("context", uint64(t.Handle)).Logger(),
	}

	var target gl.Enum
	switch glxTarget := int32(t.Driver.QueryDrawable(display, drawable, gl.GLX_TEXTURE_TARGET_EXT)); glxTarget {
	case gl.GLX_TEXTURE_2D_EXT:
		target = gl.TEXTURE_2D
	case gl.GLX_TEXTURE_RECTANGLE_EXT:
		target = gl.TEXTURE_RECTANGLE
	default:
		p.log.Warn().Int32("target", glxTarget).Msg("unsupported GLX_TEXTURE_TARGET_EXT")
		return appErrors
	}

	format, _ := p.getTexLevel(target, 0, gl.TEXTURE_INTERNAL_FORMAT)
	internalFormat := gl.Enum(format)
	// some drivers report formats that are not valid internal formats
	switch internalFormat {
	case gl.BGR:
		internalFormat = gl.RGB
	case gl.BGRA:
		internalFormat = gl.RGBA
	}
	width, _ := p.getTexLevel(target, 0, gl.TEXTURE_WIDTH)
	height, _ := p.getTexLevel(target, 0, gl.TEXTURE_HEIGHT)
	if internalFormat == gl.NONE || width == 0 || height == 0 {
		return appErrors
	}

	p.write(texImage2D(target, 0, internalFormat, width, height, p.readPixels(target, 0, width, height)))
	p.clearErrors()
	return appErrors
}
