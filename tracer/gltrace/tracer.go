// Package gltrace is the boundary between the interception layer and the
// bookkeeping of the tracer.
//
// The interception layer records every intercepted call through Writer and
// calls the hooks of Tracer around the forwarded call. Hooks documented as
// "before" run before the call is forwarded to the driver, the others after.
package gltrace

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/yuuki0xff/glxtrace/config"
	"github.com/yuuki0xff/glxtrace/tracer/capture"
	"github.com/yuuki0xff/glxtrace/tracer/dlopen"
	"github.com/yuuki0xff/glxtrace/tracer/gl"
	"github.com/yuuki0xff/glxtrace/tracer/glcontext"
	"github.com/yuuki0xff/glxtrace/tracer/objects"
	"github.com/yuuki0xff/glxtrace/tracer/rebuild"
	"github.com/yuuki0xff/glxtrace/tracer/storage"
	"github.com/yuuki0xff/glxtrace/tracer/tlog"
	"github.com/yuuki0xff/glxtrace/tracer/trace"
	"github.com/yuuki0xff/glxtrace/tracer/util"
)

type Config struct {
	// MaxObjects limits the records of each object store. 0 is unlimited.
	MaxObjects int
	Capture    capture.Config
	// LibGL and Self configure the dlopen redirection.
	LibGL string
	Self  string
}

// Tracer holds the per-process state of the tracer.
type Tracer struct {
	w          *trace.LocalWriter
	driver     gl.Driver
	capture    *capture.Controller
	contexts   *glcontext.Tracker
	textures   *objects.TextureRegistry
	shaders    *objects.ShaderStore
	programs   *objects.ProgramStore
	engine     *rebuild.Engine
	redirector *dlopen.Redirector

	lock    sync.Mutex
	threads map[glcontext.ThreadID]uint32

	log zerolog.Logger
}

// New returns a tracer that records into w. driver reaches the context that
// is current on the calling thread without being recorded.
func New(w *trace.LocalWriter, driver gl.Driver, cfg Config) *Tracer {
	shaders := objects.NewShaderStore(cfg.MaxObjects)
	t := &Tracer{
		w:          w,
		driver:     driver,
		capture:    capture.New(cfg.Capture),
		contexts:   glcontext.NewTracker(),
		textures:   objects.NewTextureRegistry(cfg.MaxObjects),
		shaders:    shaders,
		programs:   objects.NewProgramStore(shaders, cfg.MaxObjects),
		redirector: dlopen.NewRedirector(cfg.LibGL, cfg.Self),
		threads:    map[glcontext.ThreadID]uint32{},
		log:        tlog.WithComponent("gltrace"),
	}
	t.engine = rebuild.NewEngine(w, t.textures, t.shaders, t.programs)
	if cfg.Capture.Enabled {
		w.SetGate(t.capture)
	}
	return t
}

// Open initializes the tracer of the current process from cfg. The trace
// file is created when the first call is recorded. self is the path of the
// tracer's shared object.
func Open(cfg *config.TracerConfig, driver gl.Driver, self string) (*Tracer, error) {
	err := tlog.Init(tlog.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogOutput,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize the logger")
	}

	w := trace.NewLocalWriterFunc(func() (io.Writer, error) {
		b, err := storage.OpenTrace(cfg.TraceFile)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
	t := New(w, driver, Config{
		MaxObjects: cfg.MaxObjects,
		Capture: capture.Config{
			Enabled:     cfg.SingleFrameCapture,
			TriggerFile: cfg.TriggerFile,
		},
		LibGL: cfg.LibGL,
		Self:  self,
	})
	if err := t.capture.Init(); err != nil {
		return nil, err
	}
	t.log.Debug().
		Bool("capture", cfg.SingleFrameCapture).
		Int("max_objects", cfg.MaxObjects).
		Msg("tracer initialized")
	return t, nil
}

// Close flushes and closes the trace.
func (t *Tracer) Close() error {
	captureErr := t.capture.Close()
	if err := t.w.Close(); err != nil {
		return err
	}
	return captureErr
}

func (t *Tracer) Writer() trace.Writer {
	return t.w
}

// Thread returns the thread number written into the trace for thread.
// Numbers are assigned from 0 in order of first use.
func (t *Tracer) Thread(thread glcontext.ThreadID) uint32 {
	t.lock.Lock()
	defer t.lock.Unlock()
	n, ok := t.threads[thread]
	if !ok {
		n = uint32(len(t.threads))
		t.threads[thread] = n
	}
	return n
}

// Dlopen is called after the real dlopen. See dlopen.Redirector.Resolve.
func (t *Tracer) Dlopen(filename string, flag int, handle uintptr) (string, bool) {
	return t.redirector.Resolve(filename, flag, handle)
}

// RealLibGL returns the handle of the libGL the application opened itself.
func (t *Tracer) RealLibGL() uintptr {
	return t.redirector.RealHandle()
}

// BeginCall runs before any GL call of thread is recorded. The current
// context is rebuilt when it is used for the first time in a capture window.
func (t *Tracer) BeginCall(thread glcontext.ThreadID) {
	ctx, ok := t.contexts.Current(thread)
	if !ok || !t.capture.NeedsRebuild(ctx.Handle) {
		return
	}
	t.rebuild(thread, ctx)
}

// EndCall runs after a call of thread was recorded as call.
func (t *Tracer) EndCall(thread glcontext.ThreadID, call trace.CallNo) {
	if call == trace.NoCall {
		return
	}
	if ctx, ok := t.contexts.Current(thread); ok {
		// the replay state of the context is unknown from now on
		t.engine.Invalidate(ctx.Handle)
	}
}

func (t *Tracer) rebuild(thread glcontext.ThreadID, ctx glcontext.Context) {
	target := rebuild.Target{
		Handle:  ctx.Handle,
		Profile: ctx.Profile,
		Thread:  t.Thread(thread),
		Driver:  t.driver,
	}
	var errs []gl.Enum
	err := util.PanicHandler(func() {
		errs = t.engine.Rebuild(target)
	})
	if err != nil {
		t.log.Error().Err(err).Uint64("context", uint64(ctx.Handle)).Msg("rebuild failed")
	}
	t.contexts.SaveErrors(ctx.Handle, errs)
	// a failed pass is not retried in the same window
	t.capture.MarkRebuilt(ctx.Handle)
}

// GenTextures (after) registers the generated names. Textures whose
// creation was recorded need no rebuild.
func (t *Tracer) GenTextures(call trace.CallNo, ids []uint32) {
	if err := t.textures.Register(ids); err != nil {
		return
	}
	if call == trace.NoCall {
		return
	}
	for _, id := range ids {
		t.textures.MarkCaptured(id)
	}
}

// DeleteTextures (before).
func (t *Tracer) DeleteTextures(ids []uint32) {
	t.textures.Unregister(ids)
}

// CreateShader (after).
func (t *Tracer) CreateShader(call trace.CallNo, typ gl.Enum, id uint32) {
	if id == 0 {
		return
	}
	if err := t.shaders.CreateShader(typ, id); err != nil {
		return
	}
	if call != trace.NoCall {
		t.shaders.MarkCaptured(id)
	}
}

// ShaderSource (after). lengths is nil when the application passed NULL.
func (t *Tracer) ShaderSource(id uint32, strings [][]byte, lengths []int32) {
	// errors are logged by the store
	_ = t.shaders.SetSource(id, strings, lengths)
}

// DeleteShader (before).
func (t *Tracer) DeleteShader(id uint32) {
	t.shaders.DeleteShader(id)
}

// CreateProgram (after).
func (t *Tracer) CreateProgram(call trace.CallNo, id uint32) {
	if id == 0 {
		return
	}
	if err := t.programs.CreateProgram(id); err != nil {
		return
	}
	if call != trace.NoCall {
		t.programs.MarkCaptured(id)
	}
}

// BindAttribLocation (after).
func (t *Tracer) BindAttribLocation(program uint32, index int32, name string) {
	t.programs.BindAttribLocation(program, index, name)
}

// AttachShader (after).
func (t *Tracer) AttachShader(program, shader uint32) {
	t.programs.AttachShader(program, shader)
}

// DetachShader (after).
func (t *Tracer) DetachShader(program, shader uint32) {
	t.programs.DetachShader(program, shader)
}

// DeleteProgram (before).
func (t *Tracer) DeleteProgram(id uint32) {
	t.programs.DeleteProgram(id)
}

// CreateContext (after) registers a context created by glXCreateContext,
// glXCreateNewContext or glXCreateContextAttribsARB. attribs is nil for
// the calls without an attribute list.
func (t *Tracer) CreateContext(handle uintptr, attribs []int32) {
	if handle == 0 {
		return
	}
	profile := glcontext.ProfileFromAttribs(attribs)
	t.contexts.Created(handle, profile)
	t.log.Debug().
		Uint64("context", uint64(handle)).
		Stringer("profile", profile).
		Msg("context created")
}

// DestroyContext (before).
func (t *Tracer) DestroyContext(handle uintptr) {
	t.contexts.Destroyed(handle)
	t.engine.Invalidate(handle)
	t.capture.Forget(handle)
}

// MakeCurrent (after) is called by glXMakeCurrent, glXMakeContextCurrent
// and glXMakeCurrentReadSGI. ok is the result of the call.
func (t *Tracer) MakeCurrent(thread glcontext.ThreadID, handle uintptr, ok bool) {
	if !ok {
		return
	}
	t.contexts.MakeCurrent(thread, handle)
}

// SwapBuffers (after) ends a frame. When a capture window opens, the context
// current on thread is rebuilt before the next frame is recorded.
func (t *Tracer) SwapBuffers(thread glcontext.ThreadID) {
	if t.capture.EndSwap() {
		if ctx, ok := t.contexts.Current(thread); ok {
			t.rebuild(thread, ctx)
		}
	}
	if err := t.w.Flush(); err != nil {
		t.log.Warn().Err(err).Msg("failed to flush the trace")
	}
}

// GetError (before) returns an error the application raised before the
// tracer queried the driver. The call must not be forwarded if ok is true.
func (t *Tracer) GetError(thread glcontext.ThreadID) (e gl.Enum, ok bool) {
	ctx, current := t.contexts.Current(thread)
	if !current {
		return gl.NO_ERROR, false
	}
	return t.contexts.TakeError(ctx.Handle)
}

// BindTexImage (after) records the image of a drawable bound by
// glXBindTexImageEXT.
func (t *Tracer) BindTexImage(thread glcontext.ThreadID, display, drawable uintptr) {
	ctx, ok := t.contexts.Current(thread)
	if !ok {
		t.log.Debug().Msg("glXBindTexImageEXT without a current context")
		return
	}
	errs := t.engine.BindTexImage(rebuild.Target{
		Handle:  ctx.Handle,
		Profile: ctx.Profile,
		Thread:  t.Thread(thread),
		Driver:  t.driver,
	}, display, drawable)
	t.contexts.SaveErrors(ctx.Handle, errs)
}
