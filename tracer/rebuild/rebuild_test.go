package rebuild

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuuki0xff/glxtrace/tracer/gl"
	"github.com/yuuki0xff/glxtrace/tracer/gl/gltest"
	"github.com/yuuki0xff/glxtrace/tracer/glcontext"
	"github.com/yuuki0xff/glxtrace/tracer/objects"
	"github.com/yuuki0xff/glxtrace/tracer/trace"
)

type fixture struct {
	d        *gltest.Driver
	buf      *bytes.Buffer
	textures *objects.TextureRegistry
	shaders  *objects.ShaderStore
	programs *objects.ProgramStore
	e        *Engine
	profile  glcontext.Profile
	parsed   int
}

func newFixture() *fixture {
	f := &fixture{
		d:        gltest.NewDriver(640, 480),
		buf:      &bytes.Buffer{},
		textures: objects.NewTextureRegistry(0),
		shaders:  objects.NewShaderStore(0),
	}
	f.programs = objects.NewProgramStore(f.shaders, 0)
	f.e = NewEngine(trace.NewLocalWriter(f.buf), f.textures, f.shaders, f.programs)
	return f
}

func (f *fixture) target() Target {
	return Target{
		Handle:  1,
		Profile: f.profile,
		Driver:  f.d,
	}
}

// rebuild runs a pass and returns the calls it wrote.
func (f *fixture) rebuild(t *testing.T) []*trace.Call {
	f.e.Rebuild(f.target())
	return f.newCalls(t)
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

// lines formats calls without their call numbers.
func lines(calls []*trace.Call) []string {
	var out []string
	for _, c := range calls {
		s := trace.FormatCall(c, trace.DumpOptions{})
		out = append(out, strings.SplitN(s, " ", 2)[1])
	}
	return out
}

func names(calls []*trace.Call) []string {
	var out []string
	for _, c := range calls {
		out = append(out, c.Name())
	}
	return out
}

func TestRebuild_defaults(t *testing.T) {
	f := newFixture()
	calls := f.rebuild(t)
	assert.Equal(t, []string{"glViewport(x = 0, y = 0, width = 640, height = 480)"}, lines(calls))
	assert.Empty(t, f.d.Errors)
}

func TestRebuild_scissor(t *testing.T) {
	f := newFixture()
	f.d.Ints[gl.SCISSOR_BOX] = []int32{10, 10, 100, 100}
	calls := f.rebuild(t)
	assert.Equal(t, []string{
		"glViewport(x = 0, y = 0, width = 640, height = 480)",
		"glScissor(x = 10, y = 10, width = 100, height = 100)",
	}, lines(calls))
}

func TestRebuild_capabilities(t *testing.T) {
	f := newFixture()
	f.d.Caps[gl.BLEND] = true
	f.d.Caps[gl.DITHER] = false
	f.d.Caps[gl.VERTEX_ARRAY] = true
	calls := f.rebuild(t)

	l := lines(calls)
	assert.Contains(t, l, "glEnable(cap = GL_BLEND)")
	assert.Contains(t, l, "glDisable(cap = GL_DITHER)")
	assert.Contains(t, l, "glEnableClientState(array = GL_VERTEX_ARRAY)")
	assert.NotContains(t, l, "glDisable(cap = GL_MULTISAMPLE)")
	assert.NotContains(t, l, "glEnable(cap = GL_DEPTH_TEST)")
}

func TestRebuild_clipPlanes(t *testing.T) {
	f := newFixture()
	f.d.Caps[gl.CLIP_PLANE0+2] = true
	f.d.ClipPlanes[2] = [4]float64{0, 1, 0, -0.5}
	calls := f.rebuild(t)
	assert.Equal(t, []string{
		"glViewport(x = 0, y = 0, width = 640, height = 480)",
		"glEnable(cap = GL_CLIP_PLANE2)",
		"glClipPlane(plane = GL_CLIP_PLANE2, equation = {0, 1, 0, -0.5})",
	}, lines(calls))
}

func TestRebuild_lights(t *testing.T) {
	f := newFixture()
	// {0,0,0,1} is not the default of light 0, but it is for light 1
	f.d.Lights[0][gl.DIFFUSE] = []float32{0, 0, 0, 1}
	f.d.Lights[1][gl.DIFFUSE] = []float32{0, 0, 0, 1}
	f.d.Lights[1][gl.SPOT_DIRECTION] = []float32{0, 1, 0}
	calls := f.rebuild(t)
	assert.Equal(t, []string{
		"glViewport(x = 0, y = 0, width = 640, height = 480)",
		"glLightfv(light = GL_LIGHT0, pname = GL_DIFFUSE, params = {0, 0, 0, 1})",
		"glLightfv(light = GL_LIGHT1, pname = GL_SPOT_DIRECTION, params = {0, 1, 0})",
	}, lines(calls))
}

func TestRebuild_matrices(t *testing.T) {
	f := newFixture()
	projection := gltest.Identity
	projection[0] = 2
	f.d.Matrices[gl.PROJECTION] = projection
	calls := f.rebuild(t)
	assert.Equal(t, []string{
		"glViewport(x = 0, y = 0, width = 640, height = 480)",
		"glMatrixMode(mode = GL_PROJECTION)",
		"glLoadMatrixf(m = {2, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1})",
		"glMatrixMode(mode = GL_MODELVIEW)",
	}, lines(calls))
	assert.Equal(t, gl.MODELVIEW, f.d.CurMatrixMode)
}

func TestRebuild_matrixMode(t *testing.T) {
	f := newFixture()
	f.d.CurMatrixMode = gl.PROJECTION
	calls := f.rebuild(t)
	assert.Equal(t, []string{
		"glViewport(x = 0, y = 0, width = 640, height = 480)",
		"glMatrixMode(mode = GL_PROJECTION)",
	}, lines(calls))
}

func TestRebuild_params(t *testing.T) {
	f := newFixture()
	f.d.Ints[gl.DEPTH_FUNC] = []int32{int32(gl.LEQUAL)}
	f.d.Ints[gl.FOG_HINT] = []int32{0x1102}
	f.d.Ints[gl.UNPACK_ALIGNMENT] = []int32{1}
	f.d.Ints[gl.BLEND_DST_RGB] = []int32{0x0303}
	f.d.Floats[gl.COLOR_CLEAR_VALUE] = []float32{0.5, 0.5, 0.5, 1}
	f.d.Floats[gl.CURRENT_TEXTURE_COORDS] = []float32{1, 0, 0, 1}
	calls := f.rebuild(t)
	assert.Equal(t, []string{
		"glViewport(x = 0, y = 0, width = 640, height = 480)",
		"glDepthFunc(func = GL_LEQUAL)",
		"glHint(target = GL_FOG_HINT, mode = 0x1102)",
		"glPixelStorei(pname = GL_UNPACK_ALIGNMENT, param = 1)",
		"glBlendFunc(sfactor = GL_ONE, dfactor = 0x303)",
		"glMultiTexCoord4f(target = GL_TEXTURE0, s = 1, t = 0, r = 0, q = 1)",
		"glClearColor(red = 0.5, green = 0.5, blue = 0.5, alpha = 1)",
	}, lines(calls))
}

func TestRebuild_unsupportedQuery(t *testing.T) {
	f := newFixture()
	color := gltest.Identity
	color[5] = 3
	f.d.Matrices[gl.COLOR] = color
	f.d.Unsupported[gl.COLOR_MATRIX] = true
	f.d.Unsupported[gl.DITHER] = true
	f.d.Unsupported[gl.CULL_FACE_MODE] = true

	calls := f.rebuild(t)
	assert.Equal(t, []string{"glViewport(x = 0, y = 0, width = 640, height = 480)"}, lines(calls))
	assert.Empty(t, f.d.Errors)
}

func TestRebuild_clientArrays(t *testing.T) {
	f := newFixture()
	f.d.Pointers[gl.VERTEX_ARRAY_POINTER] = 0x1000
	f.d.Ints[gl.VERTEX_ARRAY_SIZE] = []int32{3}
	f.d.Ints[gl.VERTEX_ARRAY_STRIDE] = []int32{12}
	calls := f.rebuild(t)
	assert.Contains(t, lines(calls), "glVertexPointer(size = 3, type = GL_FLOAT, stride = 12, pointer = 0x1000)")
	assert.Empty(t, f.rebuild(t))
}

func pixelsOf(n int, seed byte) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = seed + byte(i)
	}
	return p
}

func (f *fixture) texture(id uint32, levels ...[2]int32) [][]byte {
	f.d.CreateTexture(id)
	prev := f.d.Bindings[0][gl.TEXTURE_2D]
	f.d.Bindings[0][gl.TEXTURE_2D] = id
	var images [][]byte
	for i, l := range levels {
		pixels := pixelsOf(gl.TexImage2DSize(gl.RGBA, gl.UNSIGNED_BYTE, l[0], l[1]), byte(id)+byte(i))
		f.d.TexImage2D(gl.TEXTURE_2D, int32(i), gl.RGBA, l[0], l[1], pixels)
		images = append(images, pixels)
	}
	f.d.Bindings[0][gl.TEXTURE_2D] = prev
	return images
}

// replayTextures applies the texture calls of a trace to a new driver.
func replayTextures(calls []*trace.Call) *gltest.Driver {
	d := gltest.NewDriver(640, 480)
	for _, c := range calls {
		switch c.Name() {
		case "glGenTextures":
			d.CreateTexture(uint32(c.Arg(1).Array[0].Uint()))
		case "glActiveTexture":
			d.ActiveTexture(gl.Enum(c.Arg(0).Int()))
		case "glBindTexture":
			d.BindTexture(gl.Enum(c.Arg(0).Int()), uint32(c.Arg(1).Uint()))
		case "glTexParameteri":
			d.TexParameteri(gl.Enum(c.Arg(0).Int()), gl.Enum(c.Arg(1).Int()), int32(c.Arg(2).Int()))
		case "glTexImage2D":
			d.TexImage2D(gl.Enum(c.Arg(0).Int()), int32(c.Arg(1).Int()), gl.Enum(c.Arg(2).Int()),
				int32(c.Arg(3).Int()), int32(c.Arg(4).Int()), c.Arg(8).Blob)
		}
	}
	return d
}

func TestRebuild_texturePixels(t *testing.T) {
	a := assert.New(t)
	f := newFixture()
	images := f.texture(5, [2]int32{2, 2}, [2]int32{1, 1})
	f.d.Textures[5].Params[gl.TEXTURE_MIN_FILTER] = int32(gl.LINEAR)
	require.NoError(t, f.textures.Register([]uint32{5}))

	calls := f.rebuild(t)
	a.Equal([]string{
		"glViewport",
		"glGenTextures",
		"glBindTexture",
		"glTexParameteri",
		"glTexImage2D",
		"glTexImage2D",
		"glBindTexture",
	}, names(calls))
	a.True(calls[1].Fake)
	a.False(calls[2].Fake)
	a.True(calls[4].Fake)
	a.Equal("glTexImage2D(target = GL_TEXTURE_2D, level = 1, internalformat = GL_RGBA, width = 1, height = 1, "+
		"border = 0, format = GL_RGBA, type = GL_UNSIGNED_BYTE, pixels = blob(4)) // fake", lines(calls)[5])
	// the application's binding is restored
	a.Equal("glBindTexture(target = GL_TEXTURE_2D, texture = 0)", lines(calls)[6])
	a.Equal(uint32(0), f.d.Bindings[0][gl.TEXTURE_2D])

	replayed := replayTextures(calls)
	require.Contains(t, replayed.Textures, uint32(5))
	require.Len(t, replayed.Textures[5].Levels, 2)
	a.Equal(images[0], replayed.Textures[5].Levels[0].Pixels)
	a.Equal(images[1], replayed.Textures[5].Levels[1].Pixels)
	a.Equal(int32(gl.LINEAR), replayed.Textures[5].Params[gl.TEXTURE_MIN_FILTER])

	rec, _ := f.textures.Find(5)
	a.True(rec.AlreadyCaptured)
	a.Empty(f.rebuild(t))
}

func TestRebuild_textureMaxLevel(t *testing.T) {
	f := newFixture()
	f.texture(5, [2]int32{4, 4}, [2]int32{2, 2}, [2]int32{1, 1})
	f.d.Textures[5].Params[gl.TEXTURE_MAX_LEVEL] = 1
	require.NoError(t, f.textures.Register([]uint32{5}))

	var levels []int64
	for _, c := range f.rebuild(t) {
		if c.Name() == "glTexImage2D" {
			levels = append(levels, c.Arg(1).Int())
		}
	}
	assert.Equal(t, []int64{0, 1}, levels)
}

func TestRebuild_textureMissingLevel(t *testing.T) {
	f := newFixture()
	f.texture(5, [2]int32{4, 4}, [2]int32{0, 0}, [2]int32{1, 1})
	require.NoError(t, f.textures.Register([]uint32{5}))

	var levels []int64
	for _, c := range f.rebuild(t) {
		if c.Name() == "glTexImage2D" {
			levels = append(levels, c.Arg(1).Int())
		}
	}
	assert.Equal(t, []int64{0}, levels)
}

// unreadableDriver fails every readback of one texture.
type unreadableDriver struct {
	*gltest.Driver
	texture uint32
}

func (d unreadableDriver) GetTexImage(target gl.Enum, level int32, format gl.Enum, typ gl.Enum, pixels []byte) {
	if d.Bindings[d.ActiveUnit][target] == d.texture {
		d.Raise(gl.INVALID_OPERATION)
		return
	}
	d.Driver.GetTexImage(target, level, format, typ, pixels)
}

func TestRebuild_textureReadbackFailure(t *testing.T) {
	a := assert.New(t)
	f := newFixture()
	images := f.texture(5, [2]int32{2, 2})
	f.texture(7, [2]int32{2, 2})
	require.NoError(t, f.textures.Register([]uint32{5, 7}))

	target := f.target()
	target.Driver = unreadableDriver{Driver: f.d, texture: 7}
	a.Empty(f.e.Rebuild(target))

	replayed := replayTextures(f.newCalls(t))
	require.Contains(t, replayed.Textures, uint32(5))
	require.Contains(t, replayed.Textures, uint32(7))
	a.Equal(images[0], replayed.Textures[5].Levels[0].Pixels)
	require.Len(t, replayed.Textures[7].Levels, 1)
	a.Equal(int32(2), replayed.Textures[7].Levels[0].Width)
	a.Equal(make([]byte, 16), replayed.Textures[7].Levels[0].Pixels)
}

func TestRebuild_textureUnits(t *testing.T) {
	a := assert.New(t)
	f := newFixture()
	f.texture(5, [2]int32{1, 1})
	f.texture(7, [2]int32{1, 1})
	require.NoError(t, f.textures.Register([]uint32{5, 7}))
	f.d.Bindings[1][gl.TEXTURE_2D] = 7
	f.d.UnitCaps[1][gl.TEXTURE_2D] = true
	f.d.ActiveUnit = 1

	l := lines(f.rebuild(t))
	a.Equal([]string{
		"glViewport(x = 0, y = 0, width = 640, height = 480)",
		"glGenTextures(n = 1, textures = {5}) // fake",
		"glBindTexture(target = GL_TEXTURE_2D, texture = 5)",
		"glTexImage2D(target = GL_TEXTURE_2D, level = 0, internalformat = GL_RGBA, width = 1, height = 1, " +
			"border = 0, format = GL_RGBA, type = GL_UNSIGNED_BYTE, pixels = blob(4)) // fake",
		"glGenTextures(n = 1, textures = {7}) // fake",
		"glBindTexture(target = GL_TEXTURE_2D, texture = 7)",
		"glTexImage2D(target = GL_TEXTURE_2D, level = 0, internalformat = GL_RGBA, width = 1, height = 1, " +
			"border = 0, format = GL_RGBA, type = GL_UNSIGNED_BYTE, pixels = blob(4)) // fake",
		"glBindTexture(target = GL_TEXTURE_2D, texture = 0)",
		"glActiveTexture(texture = GL_TEXTURE1)",
		"glBindTexture(target = GL_TEXTURE_2D, texture = 7)",
		"glEnable(cap = GL_TEXTURE_2D)",
	}, l)
	a.Equal(1, f.d.ActiveUnit)
	a.Equal(uint32(0), f.d.Bindings[0][gl.TEXTURE_2D])
	a.Equal(uint32(7), f.d.Bindings[1][gl.TEXTURE_2D])
	a.Empty(f.rebuild(t))
}

func TestRebuild_pixelUnpackBuffer(t *testing.T) {
	for _, tc := range []struct {
		profile glcontext.Profile
		pixels  string
	}{
		{glcontext.Desktop, "0x0"},
		{glcontext.ES, "blob(4)"},
	} {
		t.Run(tc.profile.String(), func(t *testing.T) {
			f := newFixture()
			f.profile = tc.profile
			f.d.Ints[gl.PIXEL_UNPACK_BUFFER_BINDING] = []int32{3}
			f.texture(5, [2]int32{1, 1})
			require.NoError(t, f.textures.Register([]uint32{5}))

			for _, c := range f.rebuild(t) {
				if c.Name() == "glTexImage2D" {
					assert.Equal(t, tc.pixels, trace.FormatValue(c.Arg(8)))
					return
				}
			}
			t.Fatal("glTexImage2D is not written")
		})
	}
}

func TestRebuild_shadersAndPrograms(t *testing.T) {
	a := assert.New(t)
	f := newFixture()
	f.d.CreateShader(3, gl.VERTEX_SHADER)
	f.d.CreateShader(4, gl.FRAGMENT_SHADER)
	f.d.CreateProgram(9)
	f.d.Programs[9].Attached = []uint32{3, 4}
	f.d.CurrentProgram = 9

	require.NoError(t, f.shaders.CreateShader(gl.VERTEX_SHADER, 3))
	require.NoError(t, f.shaders.SetSource(3, [][]byte{[]byte("void main(){}")}, nil))
	require.NoError(t, f.shaders.CreateShader(gl.FRAGMENT_SHADER, 4))
	require.NoError(t, f.shaders.SetSource(4, [][]byte{[]byte("void main(){}xx")}, []int32{13}))
	require.NoError(t, f.programs.CreateProgram(9))
	f.programs.AttachShader(9, 3)
	f.programs.AttachShader(9, 4)
	f.programs.BindAttribLocation(9, 0, "position")
	f.shaders.DeleteShader(4)

	l := lines(f.rebuild(t))
	a.Equal([]string{
		"glViewport(x = 0, y = 0, width = 640, height = 480)",
		"glCreateShader(type = GL_VERTEX_SHADER) = 3 // fake",
		`glShaderSource(shader = 3, count = 1, string = {"void main(){}"}, length = NULL) // fake`,
		"glCompileShader(shader = 3)",
		"glCreateShader(type = GL_FRAGMENT_SHADER) = 4 // fake",
		`glShaderSource(shader = 4, count = 1, string = {"void main(){}"}, length = {13}) // fake`,
		"glCompileShader(shader = 4)",
		"glCreateProgram() = 9 // fake",
		"glAttachShader(program = 9, shader = 3)",
		"glAttachShader(program = 9, shader = 4)",
		`glBindAttribLocation(program = 9, index = 0, name = "position") // fake`,
		"glLinkProgram(program = 9)",
		"glDeleteShader(shader = 4) // fake",
		"glUseProgram(program = 9)",
	}, l)

	// attaching shaders twice fails in the driver; the errors are dropped
	a.Empty(f.d.Errors)
	a.Equal(1, f.d.Programs[9].Linked)
	a.True(f.d.Shaders[3].Compiled)
	a.Empty(f.rebuild(t))
}

func TestRebuild_idempotent(t *testing.T) {
	f := newFixture()
	f.d.Caps[gl.BLEND] = true
	f.d.Caps[gl.MULTISAMPLE] = false
	f.d.Lights[2][gl.AMBIENT] = []float32{0.1, 0.1, 0.1, 1}
	f.d.Ints[gl.SCISSOR_BOX] = []int32{1, 2, 3, 4}
	f.d.CurMatrixMode = gl.TEXTURE
	f.d.Floats[gl.COLOR_CLEAR_VALUE] = []float32{1, 1, 1, 1}
	f.texture(5, [2]int32{2, 2})
	require.NoError(t, f.textures.Register([]uint32{5}))
	f.d.Bindings[2][gl.TEXTURE_CUBE_MAP] = 5

	require.NotEmpty(t, f.rebuild(t))
	assert.Empty(t, f.rebuild(t))

	// a change after the previous pass is written by the next one
	f.d.Caps[gl.BLEND] = false
	assert.Equal(t, []string{"glDisable(cap = GL_BLEND)"}, lines(f.rebuild(t)))
}

func TestRebuild_invalidate(t *testing.T) {
	f := newFixture()
	f.d.Caps[gl.BLEND] = true
	f.rebuild(t)
	require.Empty(t, f.rebuild(t))

	f.e.Invalidate(1)
	assert.Equal(t, []string{
		"glViewport(x = 0, y = 0, width = 640, height = 480)",
		"glEnable(cap = GL_BLEND)",
	}, lines(f.rebuild(t)))
}

func TestRebuild_applicationErrors(t *testing.T) {
	f := newFixture()
	f.d.Raise(gl.INVALID_VALUE)
	errs := f.e.Rebuild(f.target())
	assert.Equal(t, []gl.Enum{gl.INVALID_VALUE}, errs)
	assert.Empty(t, f.d.Errors)
}

func TestEngine_BindTexImage(t *testing.T) {
	a := assert.New(t)
	f := newFixture()
	f.d.Drawables[0x42] = uint32(gl.GLX_TEXTURE_2D_EXT)
	f.d.Drawables[0x43] = uint32(gl.GLX_TEXTURE_1D_EXT)
	f.d.CreateTexture(8)
	f.d.Bindings[0][gl.TEXTURE_2D] = 8
	f.d.TexImage2D(gl.TEXTURE_2D, 0, gl.BGRA, 2, 1, pixelsOf(8, 1))

	f.e.BindTexImage(f.target(), 0x1, 0x43)
	a.Empty(f.newCalls(t))

	f.e.BindTexImage(f.target(), 0x1, 0x42)
	calls := f.newCalls(t)
	require.Len(t, calls, 1)
	a.Equal("glTexImage2D(target = GL_TEXTURE_2D, level = 0, internalformat = GL_RGBA, width = 2, height = 1, "+
		"border = 0, format = GL_RGBA, type = GL_UNSIGNED_BYTE, pixels = blob(8)) // fake", lines(calls)[0])
	a.Equal(pixelsOf(8, 1), calls[0].Arg(8).Blob)
}
