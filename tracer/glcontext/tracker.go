// Package glcontext correlates native GLX context handles with the state the
// tracer keeps per context.
package glcontext

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/yuuki0xff/glxtrace/tracer/gl"
	"github.com/yuuki0xff/glxtrace/tracer/tlog"
)

type Profile int

const (
	Desktop Profile = iota
	ES
)

func (p Profile) String() string {
	if p == ES {
		return "es"
	}
	return "desktop"
}

// ThreadID identifies an application thread.
type ThreadID uint64

// Context is the tracer side of a GLX context.
type Context struct {
	Handle  uintptr
	Profile Profile
	Current bool
	// Thread is the thread the context is current on. Valid only if Current.
	Thread ThreadID

	// errors raised by the application and not read by it yet.
	errors []gl.Enum
}

// Tracker maps native context handles to contexts. A context is current per
// thread, like GL.
type Tracker struct {
	lock     sync.Mutex
	contexts map[uintptr]*Context
	current  map[ThreadID]uintptr
	log      zerolog.Logger
}

func NewTracker() *Tracker {
	return &Tracker{
		contexts: map[uintptr]*Context{},
		current:  map[ThreadID]uintptr{},
		log:      tlog.WithComponent("glcontext"),
	}
}

// ProfileFromAttribs returns the profile requested by a zero terminated
// attribute list of glXCreateContextAttribsARB.
func ProfileFromAttribs(attribs []int32) Profile {
	for i := 0; i+1 < len(attribs) && attribs[i] != 0; i += 2 {
		if attribs[i] == gl.GLX_CONTEXT_PROFILE_MASK_ARB &&
			attribs[i+1]&gl.GLX_CONTEXT_ES2_PROFILE_BIT_EXT != 0 {
			return ES
		}
	}
	return Desktop
}

// Created registers a new context. A null handle is ignored.
func (t *Tracker) Created(handle uintptr, profile Profile) {
	if handle == 0 {
		return
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	ctx := &Context{
		Handle:  handle,
		Profile: profile,
	}
	if prev, ok := t.contexts[handle]; ok {
		t.log.Debug().Uint64("context", uint64(handle)).Msg("context handle reused")
		// the thread still refers to the handle
		ctx.Current = prev.Current
		ctx.Thread = prev.Thread
	}
	t.contexts[handle] = ctx
}

// Destroyed forgets a context.
func (t *Tracker) Destroyed(handle uintptr) {
	t.lock.Lock()
	defer t.lock.Unlock()
	ctx, ok := t.contexts[handle]
	if !ok {
		return
	}
	if ctx.Current && t.current[ctx.Thread] == handle {
		delete(t.current, ctx.Thread)
	}
	delete(t.contexts, handle)
}

// MakeCurrent makes handle current on thread. The previous context of the
// thread is released. A null handle only releases. A handle that was never
// created through the tracer is registered as a desktop context.
func (t *Tracker) MakeCurrent(thread ThreadID, handle uintptr) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if prev, ok := t.current[thread]; ok {
		if ctx, ok := t.contexts[prev]; ok {
			ctx.Current = false
		}
		delete(t.current, thread)
	}
	if handle == 0 {
		return
	}

	ctx, ok := t.contexts[handle]
	if !ok {
		t.log.Debug().Uint64("context", uint64(handle)).Msg("unknown context made current")
		ctx = &Context{Handle: handle}
		t.contexts[handle] = ctx
	}
	if ctx.Current && ctx.Thread != thread {
		delete(t.current, ctx.Thread)
	}
	ctx.Current = true
	ctx.Thread = thread
	t.current[thread] = handle
}

// Current returns a copy of the context current on thread.
func (t *Tracker) Current(thread ThreadID) (Context, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	handle, ok := t.current[thread]
	if !ok {
		return Context{}, false
	}
	ctx, ok := t.contexts[handle]
	if !ok {
		delete(t.current, thread)
		return Context{}, false
	}
	return ctx.snapshot(), true
}

func (t *Tracker) Get(handle uintptr) (Context, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	ctx, ok := t.contexts[handle]
	if !ok {
		return Context{}, false
	}
	return ctx.snapshot(), true
}

func (t *Tracker) Len() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.contexts)
}

func (c *Context) snapshot() Context {
	s := *c
	s.errors = nil
	return s
}

// SaveErrors keeps errors that were pending in the driver before the tracer
// queried it, so they can be reported to the application later. Like GL
// error flags, an error that is already pending is not stored twice.
func (t *Tracker) SaveErrors(handle uintptr, errs []gl.Enum) {
	if len(errs) == 0 {
		return
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	ctx, ok := t.contexts[handle]
	if !ok {
		return
	}
	for _, e := range errs {
		if !containsError(ctx.errors, e) {
			ctx.errors = append(ctx.errors, e)
		}
	}
}

// TakeError removes and returns the oldest saved error of a context.
func (t *Tracker) TakeError(handle uintptr) (gl.Enum, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	ctx, ok := t.contexts[handle]
	if !ok || len(ctx.errors) == 0 {
		return gl.NO_ERROR, false
	}
	e := ctx.errors[0]
	ctx.errors = ctx.errors[1:]
	return e, true
}

func containsError(errs []gl.Enum, e gl.Enum) bool {
	for _, v := range errs {
		if v == e {
			return true
		}
	}
	return false
}
