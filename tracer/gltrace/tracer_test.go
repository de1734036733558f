package gltrace

import (
	"bytes"
	"io/ioutil"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuuki0xff/glxtrace/config"
	"github.com/yuuki0xff/glxtrace/tracer/capture"
	"github.com/yuuki0xff/glxtrace/tracer/gl"
	"github.com/yuuki0xff/glxtrace/tracer/gl/gltest"
	"github.com/yuuki0xff/glxtrace/tracer/glapi"
	"github.com/yuuki0xff/glxtrace/tracer/glcontext"
	"github.com/yuuki0xff/glxtrace/tracer/objects"
	"github.com/yuuki0xff/glxtrace/tracer/trace"
	"github.com/yuuki0xff/glxtrace/tracer/util"
)

const (
	triggerFile = "trigger.txt"
	thread1     = glcontext.ThreadID(1001)
	thread2     = glcontext.ThreadID(1002)
	ctxA        = uintptr(0xa0)
	ctxB        = uintptr(0xb0)
)

type fixture struct {
	d      *gltest.Driver
	buf    *bytes.Buffer
	tr     *Tracer
	parsed int
}

func newFixture(t *testing.T, captureMode bool) *fixture {
	f := &fixture{
		d:   gltest.NewDriver(640, 480),
		buf: &bytes.Buffer{},
	}
	f.tr = New(trace.NewLocalWriter(f.buf), f.d, Config{
		Capture: capture.Config{
			Enabled:     captureMode,
			TriggerFile: triggerFile,
		},
	})
	require.NoError(t, f.tr.capture.Init())
	return f
}

// withCapture runs fn in a temporary directory with single-frame capture
// enabled.
func withCapture(t *testing.T, fn func(f *fixture)) {
	util.WithTempDir(func() {
		f := newFixture(t, true)
		fn(f)
		require.NoError(t, f.tr.Close())
	})
}

// request asks for frames and moves the mtime of the trigger file forward.
func request(t *testing.T, frames int) {
	st, err := os.Stat(triggerFile)
	require.NoError(t, err)
	require.NoError(t, capture.Request(triggerFile, frames))
	mod := st.ModTime().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(triggerFile, mod, mod))
}

// enable records glEnable(c) the way the interception layer does.
func (f *fixture) enable(thread glcontext.ThreadID, c gl.Enum) trace.CallNo {
	f.tr.BeginCall(thread)
	w := f.tr.Writer()
	call := w.BeginEnter(glapi.Enable, f.tr.Thread(thread), false)
	w.BeginArg(0)
	w.WriteEnum(glapi.GLenum, int64(c))
	w.EndArg()
	w.EndEnter()
	w.BeginLeave(call)
	w.EndLeave()
	f.tr.EndCall(thread, call)
	return call
}

func (f *fixture) newCalls(t *testing.T) []*trace.Call {
	if f.buf.Len() == 0 {
		return nil
	}
	calls, err := trace.ParseAll(f.buf.Bytes())
	require.NoError(t, err)
	calls = calls[f.parsed:]
	f.parsed += len(calls)
	return calls
}

func lines(calls []*trace.Call) []string {
	var out []string
	for _, c := range calls {
		s := trace.FormatCall(c, trace.DumpOptions{})
		out = append(out, strings.SplitN(s, " ", 2)[1])
	}
	return out
}

const viewport = "glViewport(x = 0, y = 0, width = 640, height = 480)"

func TestTracer_recordsEverythingWithoutCapture(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, false)
	f.tr.CreateContext(ctxA, nil)
	f.tr.MakeCurrent(thread1, ctxA, true)
	f.d.Caps[gl.BLEND] = true

	a.NotEqual(trace.NoCall, f.enable(thread1, gl.DEPTH_TEST))
	f.tr.SwapBuffers(thread1)
	a.Equal([]string{"glEnable(cap = GL_DEPTH_TEST)"}, lines(f.newCalls(t)))
}

func TestTracer_captureWindow(t *testing.T) {
	withCapture(t, func(f *fixture) {
		a := assert.New(t)
		f.tr.CreateContext(ctxA, nil)
		f.tr.MakeCurrent(thread1, ctxA, true)
		f.d.Caps[gl.BLEND] = true

		a.Equal(trace.NoCall, f.enable(thread1, gl.DEPTH_TEST))
		f.tr.SwapBuffers(thread1)
		a.Empty(f.newCalls(t))

		request(t, 1)
		f.tr.SwapBuffers(thread1)
		calls := f.newCalls(t)
		a.Equal([]string{viewport, "glEnable(cap = GL_BLEND)"}, lines(calls))
		for _, c := range calls {
			a.Equal(uint32(0), c.Thread)
		}

		// the context was rebuilt by the swap
		a.NotEqual(trace.NoCall, f.enable(thread1, gl.CULL_FACE))
		a.Equal([]string{"glEnable(cap = GL_CULL_FACE)"}, lines(f.newCalls(t)))

		f.tr.SwapBuffers(thread1)
		a.Equal(trace.NoCall, f.enable(thread1, gl.DEPTH_TEST))

		// the recorded call invalidated what the previous pass wrote
		request(t, 1)
		f.tr.SwapBuffers(thread1)
		a.Equal([]string{viewport, "glEnable(cap = GL_BLEND)"}, lines(f.newCalls(t)))
	})
}

func TestTracer_rebuildOnFirstUse(t *testing.T) {
	withCapture(t, func(f *fixture) {
		a := assert.New(t)
		f.tr.CreateContext(ctxA, nil)
		f.tr.CreateContext(ctxB, nil)
		f.tr.MakeCurrent(thread1, ctxA, true)
		f.tr.MakeCurrent(thread2, ctxB, true)

		request(t, 1)
		f.tr.SwapBuffers(thread1)
		a.Equal([]string{viewport}, lines(f.newCalls(t)))

		// ctxB is rebuilt before its first call in the window
		f.enable(thread2, gl.BLEND)
		calls := f.newCalls(t)
		require.Len(t, calls, 2)
		a.Equal([]string{viewport, "glEnable(cap = GL_BLEND)"}, lines(calls))
		a.Equal(uint32(1), calls[0].Thread)

		f.enable(thread2, gl.DITHER)
		a.Len(f.newCalls(t), 1)
	})
}

func TestTracer_errorShadow(t *testing.T) {
	withCapture(t, func(f *fixture) {
		a := assert.New(t)
		f.tr.CreateContext(ctxA, nil)
		f.tr.MakeCurrent(thread1, ctxA, true)
		f.d.Raise(gl.INVALID_VALUE)

		request(t, 1)
		f.tr.SwapBuffers(thread1)
		a.Empty(f.d.Errors)

		e, ok := f.tr.GetError(thread1)
		a.True(ok)
		a.Equal(gl.INVALID_VALUE, e)
		_, ok = f.tr.GetError(thread1)
		a.False(ok)

		// no context
		_, ok = f.tr.GetError(thread2)
		a.False(ok)
	})
}

func TestTracer_objects(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, false)

	f.tr.GenTextures(trace.NoCall, []uint32{1, 2})
	f.tr.GenTextures(trace.CallNo(3), []uint32{3})
	a.Len(f.tr.textures.Pending(), 2)
	rec, ok := f.tr.textures.Find(3)
	a.True(ok)
	a.True(rec.AlreadyCaptured)
	f.tr.DeleteTextures([]uint32{1})
	a.Equal([]uint32{2, 3}, f.tr.textures.IDs())

	f.tr.CreateShader(trace.NoCall, gl.VERTEX_SHADER, 4)
	f.tr.CreateShader(trace.NoCall, gl.VERTEX_SHADER, 0)
	f.tr.ShaderSource(4, [][]byte{[]byte("void main() {}")}, nil)
	shader, ok := f.tr.shaders.Find(4)
	require.True(t, ok)
	a.False(shader.AlreadyCaptured)
	a.Len(shader.Sources, 1)
	a.Equal(1, f.tr.shaders.Len())

	f.tr.CreateProgram(trace.CallNo(5), 6)
	f.tr.AttachShader(6, 4)
	f.tr.BindAttribLocation(6, 0, "position")
	program, ok := f.tr.programs.Find(6)
	require.True(t, ok)
	a.True(program.AlreadyCaptured)
	a.Equal([]uint32{4}, program.Attached)
	a.Equal([]objects.AttribBinding{{Index: 0, Name: "position"}}, program.Bindings)

	// deleted while attached
	f.tr.DeleteShader(4)
	_, ok = f.tr.shaders.Find(4)
	a.True(ok)
	f.tr.DetachShader(6, 4)
	_, ok = f.tr.shaders.Find(4)
	a.False(ok)

	f.tr.DeleteProgram(6)
	_, ok = f.tr.programs.Find(6)
	a.False(ok)
}

func TestTracer_shaderNameReused(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, false)
	f.tr.CreateShader(trace.NoCall, gl.VERTEX_SHADER, 4)
	f.tr.ShaderSource(4, [][]byte{[]byte("void main() {}")}, nil)

	// the driver may hand out the name again once the delete is forwarded
	f.tr.DeleteShader(4)
	f.tr.CreateShader(trace.NoCall, gl.FRAGMENT_SHADER, 4)

	shader, ok := f.tr.shaders.Find(4)
	require.True(t, ok)
	a.Equal(gl.FRAGMENT_SHADER, shader.Type)
	a.Empty(shader.Sources)
	a.False(shader.Deleted)
}

func TestTracer_contexts(t *testing.T) {
	a := assert.New(t)
	f := newFixture(t, false)

	f.tr.CreateContext(0, nil)
	a.Equal(0, f.tr.contexts.Len())

	f.tr.CreateContext(ctxA, []int32{
		gl.GLX_CONTEXT_PROFILE_MASK_ARB, gl.GLX_CONTEXT_ES2_PROFILE_BIT_EXT,
		0,
	})
	ctx, ok := f.tr.contexts.Get(ctxA)
	require.True(t, ok)
	a.Equal(glcontext.ES, ctx.Profile)

	f.tr.MakeCurrent(thread1, ctxA, false)
	_, ok = f.tr.contexts.Current(thread1)
	a.False(ok)
	f.tr.MakeCurrent(thread1, ctxA, true)
	_, ok = f.tr.contexts.Current(thread1)
	a.True(ok)

	f.tr.DestroyContext(ctxA)
	_, ok = f.tr.contexts.Current(thread1)
	a.False(ok)
	a.Equal(0, f.tr.contexts.Len())
}

func TestTracer_Thread(t *testing.T) {
	f := newFixture(t, false)
	assert.Equal(t, uint32(0), f.tr.Thread(thread2))
	assert.Equal(t, uint32(1), f.tr.Thread(thread1))
	assert.Equal(t, uint32(0), f.tr.Thread(thread2))
}

func TestTracer_BindTexImage(t *testing.T) {
	withCapture(t, func(f *fixture) {
		a := assert.New(t)
		f.tr.CreateContext(ctxA, nil)
		f.tr.MakeCurrent(thread1, ctxA, true)
		f.d.Drawables[0x42] = uint32(gl.GLX_TEXTURE_2D_EXT)
		f.d.CreateTexture(8)
		f.d.Bindings[0][gl.TEXTURE_2D] = 8
		f.d.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, []byte{1, 2, 3, 4})

		// outside of a window the upload is not recorded
		f.tr.BindTexImage(thread1, 0x1, 0x42)
		a.Empty(f.newCalls(t))

		request(t, 1)
		f.tr.SwapBuffers(thread1)
		f.newCalls(t)
		f.tr.BindTexImage(thread1, 0x1, 0x42)
		calls := f.newCalls(t)
		require.Len(t, calls, 1)
		a.Equal("glTexImage2D", calls[0].Name())
		a.True(calls[0].Fake)
	})
}

func TestTracer_Dlopen(t *testing.T) {
	f := newFixture(t, false)
	_, ok := f.tr.Dlopen("libGL.so.1", 0, 0x10)
	// the path of the tracer is unknown
	assert.False(t, ok)
	assert.Equal(t, uintptr(0x10), f.tr.RealLibGL())
}

func TestOpen(t *testing.T) {
	util.WithTempDir(func() {
		a := assert.New(t)
		tr, err := Open(&config.TracerConfig{
			TraceFile:          "app.trace",
			SingleFrameCapture: true,
			TriggerFile:        triggerFile,
			LogLevel:           "debug",
			LogOutput:          "discard",
		}, gltest.NewDriver(640, 480), "")
		require.NoError(t, err)

		data, err := ioutil.ReadFile(triggerFile)
		require.NoError(t, err)
		a.Equal("0", string(data))

		// GLX calls are recorded outside of a window
		w := tr.Writer()
		call := w.BeginEnter(glapi.Default.Function("glXMakeCurrent", "dpy", "drawable", "ctx"), tr.Thread(thread1), false)
		w.EndEnter()
		w.BeginLeave(call)
		w.EndLeave()
		require.NoError(t, w.Err())
		require.NoError(t, tr.Close())

		_, err = os.Stat(triggerFile)
		a.True(os.IsNotExist(err))
		data, err = ioutil.ReadFile("app.trace")
		require.NoError(t, err)
		calls, err := trace.ParseAll(data)
		require.NoError(t, err)
		require.Len(t, calls, 1)
		a.Equal("glXMakeCurrent", calls[0].Name())
	})
}

func TestOpen_invalidLogLevel(t *testing.T) {
	_, err := Open(&config.TracerConfig{LogLevel: "loud"}, gltest.NewDriver(1, 1), "")
	assert.Error(t, err)
}
