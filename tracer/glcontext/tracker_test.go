package glcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuuki0xff/glxtrace/tracer/gl"
)

func TestProfileFromAttribs(t *testing.T) {
	a := assert.New(t)
	a.Equal(Desktop, ProfileFromAttribs(nil))
	a.Equal(Desktop, ProfileFromAttribs([]int32{0x2091, 3, 0x2092, 2, 0}))
	a.Equal(ES, ProfileFromAttribs([]int32{
		0x2091, 2,
		gl.GLX_CONTEXT_PROFILE_MASK_ARB, gl.GLX_CONTEXT_ES2_PROFILE_BIT_EXT,
		0,
	}))
	// attributes after the terminator are ignored
	a.Equal(Desktop, ProfileFromAttribs([]int32{
		0, 0,
		gl.GLX_CONTEXT_PROFILE_MASK_ARB, gl.GLX_CONTEXT_ES2_PROFILE_BIT_EXT,
	}))
}

func TestTracker_created(t *testing.T) {
	a := assert.New(t)
	tr := NewTracker()
	tr.Created(0, Desktop)
	a.Equal(0, tr.Len())

	tr.Created(0x10, ES)
	ctx, ok := tr.Get(0x10)
	require.True(t, ok)
	a.Equal(ES, ctx.Profile)
	a.False(ctx.Current)

	tr.Destroyed(0x10)
	tr.Destroyed(0x99)
	a.Equal(0, tr.Len())
}

func TestTracker_makeCurrent(t *testing.T) {
	a := assert.New(t)
	tr := NewTracker()
	tr.Created(0x10, Desktop)
	tr.Created(0x20, Desktop)

	tr.MakeCurrent(1, 0x10)
	tr.MakeCurrent(2, 0x20)
	ctx, ok := tr.Current(1)
	require.True(t, ok)
	a.Equal(uintptr(0x10), ctx.Handle)
	ctx, ok = tr.Current(2)
	require.True(t, ok)
	a.Equal(uintptr(0x20), ctx.Handle)

	// switching thread 1 releases its previous context only
	tr.MakeCurrent(1, 0x30)
	ctx, _ = tr.Get(0x10)
	a.False(ctx.Current)
	ctx, _ = tr.Current(1)
	a.Equal(uintptr(0x30), ctx.Handle)
	a.Equal(Desktop, ctx.Profile)
	a.Equal(3, tr.Len())

	tr.MakeCurrent(2, 0)
	_, ok = tr.Current(2)
	a.False(ok)
	ctx, _ = tr.Get(0x20)
	a.False(ctx.Current)
}

func TestTracker_destroyCurrent(t *testing.T) {
	tr := NewTracker()
	tr.Created(0x10, Desktop)
	tr.MakeCurrent(7, 0x10)
	tr.Destroyed(0x10)
	_, ok := tr.Current(7)
	assert.False(t, ok)
}

func TestTracker_handleReused(t *testing.T) {
	a := assert.New(t)
	tr := NewTracker()
	tr.Created(0x10, Desktop)
	tr.MakeCurrent(1, 0x10)
	tr.Created(0x10, ES)

	ctx, ok := tr.Current(1)
	require.True(t, ok)
	a.Equal(ES, ctx.Profile)
	a.True(ctx.Current)
	a.Equal(ThreadID(1), ctx.Thread)

	tr.Destroyed(0x10)
	_, ok = tr.Current(1)
	a.False(ok)
	a.Equal(0, tr.Len())
}

func TestTracker_errors(t *testing.T) {
	a := assert.New(t)
	tr := NewTracker()
	tr.Created(0x10, Desktop)
	tr.SaveErrors(0x10, []gl.Enum{gl.INVALID_ENUM, gl.INVALID_VALUE})
	tr.SaveErrors(0x10, []gl.Enum{gl.INVALID_ENUM})
	tr.SaveErrors(0x99, []gl.Enum{gl.OUT_OF_MEMORY})

	e, ok := tr.TakeError(0x10)
	a.True(ok)
	a.Equal(gl.INVALID_ENUM, e)
	e, ok = tr.TakeError(0x10)
	a.True(ok)
	a.Equal(gl.INVALID_VALUE, e)
	_, ok = tr.TakeError(0x10)
	a.False(ok)
	_, ok = tr.TakeError(0x99)
	a.False(ok)
}
