// Package gltest provides an in-memory GL driver for tests.
//
// Driver models a freshly created compatibility-profile context and the
// subset of GL state that the tracer queries. Unsupported queries raise
// GL_INVALID_ENUM and leave their output untouched, like a real driver.
package gltest

import (
	"fmt"

	"github.com/yuuki0xff/glxtrace/tracer/gl"
)

const (
	DefaultMaxLights      = 8
	DefaultMaxClipPlanes  = 6
	DefaultMaxTextureUnit = 4
	DefaultMaxLevel       = 1000
)

type Level struct {
	Width, Height, Depth int32
	InternalFormat       gl.Enum
	// Pixels holds RGBA/UNSIGNED_BYTE data.
	Pixels []byte
}

type Texture struct {
	Params map[gl.Enum]int32
	Levels []Level
}

type Shader struct {
	Type     gl.Enum
	Compiled bool
}

type Program struct {
	Attached []uint32
	Linked   int
}

// Driver implements gl.Driver.
type Driver struct {
	Caps          map[gl.Enum]bool
	UnitCaps      []map[gl.Enum]bool
	Ints          map[gl.Enum][]int32
	Floats        map[gl.Enum][]float32
	Pointers      map[gl.Enum]uintptr
	ClipPlanes    [][4]float64
	Lights        []map[gl.Enum][]float32
	Matrices      map[gl.Enum][16]float32
	CurMatrixMode gl.Enum

	ActiveUnit     int
	Bindings       []map[gl.Enum]uint32
	Textures       map[uint32]*Texture
	Shaders        map[uint32]*Shader
	Programs       map[uint32]*Program
	CurrentProgram uint32
	Drawables      map[uintptr]uint32

	// Unsupported makes every query of the listed names fail.
	Unsupported map[gl.Enum]bool
	Errors      []gl.Enum
	// Calls records forwarded setters by name.
	Calls []string
}

var unitCaps = map[gl.Enum]bool{
	gl.TEXTURE_1D:       true,
	gl.TEXTURE_2D:       true,
	gl.TEXTURE_3D:       true,
	gl.TEXTURE_CUBE_MAP: true,
}

var bindingTargets = map[gl.Enum]gl.Enum{
	gl.TEXTURE_BINDING_1D:                   gl.TEXTURE_1D,
	gl.TEXTURE_BINDING_1D_ARRAY:             gl.TEXTURE_1D_ARRAY,
	gl.TEXTURE_BINDING_2D:                   gl.TEXTURE_2D,
	gl.TEXTURE_BINDING_2D_ARRAY:             gl.TEXTURE_2D_ARRAY,
	gl.TEXTURE_BINDING_2D_MULTISAMPLE:       gl.TEXTURE_2D_MULTISAMPLE,
	gl.TEXTURE_BINDING_2D_MULTISAMPLE_ARRAY: gl.TEXTURE_2D_MULTISAMPLE_ARRAY,
	gl.TEXTURE_BINDING_3D:                   gl.TEXTURE_3D,
	gl.TEXTURE_BINDING_BUFFER:               gl.TEXTURE_BUFFER,
	gl.TEXTURE_BINDING_CUBE_MAP:             gl.TEXTURE_CUBE_MAP,
	gl.TEXTURE_BINDING_RECTANGLE:            gl.TEXTURE_RECTANGLE,
}

var matrixNames = map[gl.Enum]gl.Enum{
	gl.MODELVIEW_MATRIX:  gl.MODELVIEW,
	gl.PROJECTION_MATRIX: gl.PROJECTION,
	gl.TEXTURE_MATRIX:    gl.TEXTURE,
	gl.COLOR_MATRIX:      gl.COLOR,
}

// Identity is the 4x4 identity matrix in column-major order.
var Identity = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// DefaultTexParams returns the initial parameters of a texture object.
func DefaultTexParams() map[gl.Enum]int32 {
	return map[gl.Enum]int32{
		gl.DEPTH_STENCIL_TEXTURE_MODE: int32(gl.DEPTH_COMPONENT),
		gl.TEXTURE_MAG_FILTER:         int32(gl.LINEAR),
		gl.TEXTURE_MIN_FILTER:         int32(gl.NEAREST_MIPMAP_LINEAR),
		gl.TEXTURE_MIN_LOD:            -1000,
		gl.TEXTURE_MAX_LOD:            1000,
		gl.TEXTURE_BASE_LEVEL:         0,
		gl.TEXTURE_MAX_LEVEL:          DefaultMaxLevel,
		gl.TEXTURE_SWIZZLE_R:          int32(gl.RED),
		gl.TEXTURE_SWIZZLE_G:          int32(gl.GREEN),
		gl.TEXTURE_SWIZZLE_B:          int32(gl.BLUE),
		gl.TEXTURE_SWIZZLE_A:          int32(gl.ALPHA),
		gl.TEXTURE_WRAP_S:             int32(gl.REPEAT),
		gl.TEXTURE_WRAP_T:             int32(gl.REPEAT),
		gl.TEXTURE_WRAP_R:             int32(gl.REPEAT),
		gl.TEXTURE_PRIORITY:           1,
		gl.TEXTURE_COMPARE_MODE:       int32(gl.NONE),
		gl.TEXTURE_COMPARE_FUNC:       int32(gl.LEQUAL),
		gl.DEPTH_TEXTURE_MODE:         int32(gl.LUMINANCE),
		gl.GENERATE_MIPMAP:            int32(gl.FALSE),
	}
}

// NewDriver returns a driver in the default state of a new context whose
// window is width x height.
func NewDriver(width, height int32) *Driver {
	d := &Driver{
		Caps: map[gl.Enum]bool{
			gl.DITHER:      true,
			gl.MULTISAMPLE: true,
		},
		Ints: map[gl.Enum][]int32{
			gl.VIEWPORT:                        {0, 0, width, height},
			gl.SCISSOR_BOX:                     {0, 0, width, height},
			gl.MAX_LIGHTS:                      {DefaultMaxLights},
			gl.MAX_CLIP_PLANES:                 {DefaultMaxClipPlanes},
			gl.MAX_TEXTURE_UNITS:               {DefaultMaxTextureUnit},
			gl.CULL_FACE_MODE:                  {int32(gl.BACK)},
			gl.DEPTH_FUNC:                      {int32(gl.LESS)},
			gl.FOG_HINT:                        {int32(gl.DONT_CARE)},
			gl.GENERATE_MIPMAP_HINT:            {int32(gl.DONT_CARE)},
			gl.LINE_SMOOTH_HINT:                {int32(gl.DONT_CARE)},
			gl.PERSPECTIVE_CORRECTION_HINT:     {int32(gl.DONT_CARE)},
			gl.POINT_SMOOTH_HINT:               {int32(gl.DONT_CARE)},
			gl.POLYGON_SMOOTH_HINT:             {int32(gl.DONT_CARE)},
			gl.TEXTURE_COMPRESSION_HINT:        {int32(gl.DONT_CARE)},
			gl.FRAGMENT_SHADER_DERIVATIVE_HINT: {int32(gl.DONT_CARE)},
			gl.PACK_ALIGNMENT:                  {4},
			gl.UNPACK_ALIGNMENT:                {4},
			gl.BLEND_SRC_RGB:                   {int32(gl.ONE)},
			gl.BLEND_DST_RGB:                   {int32(gl.ZERO)},
			gl.MODELVIEW_STACK_DEPTH:           {1},
			gl.PROJECTION_STACK_DEPTH:          {1},
			gl.TEXTURE_STACK_DEPTH:             {1},
			gl.COLOR_MATRIX_STACK_DEPTH:        {1},
			gl.VERTEX_ARRAY_SIZE:               {4},
			gl.VERTEX_ARRAY_TYPE:               {int32(gl.FLOAT)},
			gl.VERTEX_ARRAY_STRIDE:             {0},
			gl.COLOR_ARRAY_SIZE:                {4},
			gl.COLOR_ARRAY_TYPE:                {int32(gl.FLOAT)},
			gl.COLOR_ARRAY_STRIDE:              {0},
			gl.TEXTURE_COORD_ARRAY_SIZE:        {4},
			gl.TEXTURE_COORD_ARRAY_TYPE:        {int32(gl.FLOAT)},
			gl.TEXTURE_COORD_ARRAY_STRIDE:      {0},
			gl.PIXEL_UNPACK_BUFFER_BINDING:     {0},
		},
		Floats: map[gl.Enum][]float32{
			gl.CURRENT_TEXTURE_COORDS: {0, 0, 0, 1},
			gl.COLOR_CLEAR_VALUE:      {0, 0, 0, 0},
		},
		Pointers:   map[gl.Enum]uintptr{},
		ClipPlanes: make([][4]float64, DefaultMaxClipPlanes),
		Matrices: map[gl.Enum][16]float32{
			gl.MODELVIEW:  Identity,
			gl.PROJECTION: Identity,
			gl.TEXTURE:    Identity,
			gl.COLOR:      Identity,
		},
		CurMatrixMode: gl.MODELVIEW,
		Textures:      map[uint32]*Texture{},
		Shaders:       map[uint32]*Shader{},
		Programs:      map[uint32]*Program{},
		Drawables:     map[uintptr]uint32{},
		Unsupported:   map[gl.Enum]bool{},
	}
	for i := 0; i < DefaultMaxLights; i++ {
		diffuse := []float32{0, 0, 0, 1}
		specular := []float32{0, 0, 0, 1}
		if i == 0 {
			diffuse = []float32{1, 1, 1, 1}
			specular = []float32{1, 1, 1, 1}
		}
		d.Lights = append(d.Lights, map[gl.Enum][]float32{
			gl.AMBIENT:               {0, 0, 0, 1},
			gl.DIFFUSE:               diffuse,
			gl.SPECULAR:              specular,
			gl.POSITION:              {0, 0, 1, 0},
			gl.SPOT_DIRECTION:        {0, 0, -1},
			gl.SPOT_EXPONENT:         {0},
			gl.SPOT_CUTOFF:           {180},
			gl.CONSTANT_ATTENUATION:  {1},
			gl.LINEAR_ATTENUATION:    {0},
			gl.QUADRATIC_ATTENUATION: {0},
		})
	}
	for i := 0; i < DefaultMaxTextureUnit; i++ {
		d.UnitCaps = append(d.UnitCaps, map[gl.Enum]bool{})
		d.Bindings = append(d.Bindings, map[gl.Enum]uint32{})
	}
	return d
}

// Raise sets a GL error flag. A flag that is already pending is not
// raised twice.
func (d *Driver) Raise(e gl.Enum) {
	for _, pending := range d.Errors {
		if pending == e {
			return
		}
	}
	d.Errors = append(d.Errors, e)
}

func (d *Driver) record(format string, args ...interface{}) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Driver) unsupported(pname gl.Enum) bool {
	if d.Unsupported[pname] {
		d.Raise(gl.INVALID_ENUM)
		return true
	}
	return false
}

func (d *Driver) GetError() gl.Enum {
	if len(d.Errors) == 0 {
		return gl.NO_ERROR
	}
	e := d.Errors[0]
	d.Errors = d.Errors[1:]
	return e
}

func (d *Driver) GetIntegerv(pname gl.Enum, data []int32) {
	if d.unsupported(pname) {
		return
	}
	switch pname {
	case gl.ACTIVE_TEXTURE:
		data[0] = int32(gl.TEXTURE0) + int32(d.ActiveUnit)
		return
	case gl.MATRIX_MODE:
		data[0] = int32(d.CurMatrixMode)
		return
	case gl.CURRENT_PROGRAM:
		data[0] = int32(d.CurrentProgram)
		return
	}
	if target, ok := bindingTargets[pname]; ok {
		data[0] = int32(d.Bindings[d.ActiveUnit][target])
		return
	}
	if v, ok := d.Ints[pname]; ok {
		copy(data, v)
		return
	}
	d.Raise(gl.INVALID_ENUM)
}

func (d *Driver) GetFloatv(pname gl.Enum, data []float32) {
	if d.unsupported(pname) {
		return
	}
	if mode, ok := matrixNames[pname]; ok {
		m := d.Matrices[mode]
		copy(data, m[:])
		return
	}
	if v, ok := d.Floats[pname]; ok {
		copy(data, v)
		return
	}
	if v, ok := d.Ints[pname]; ok {
		for i := range v {
			if i < len(data) {
				data[i] = float32(v[i])
			}
		}
		return
	}
	d.Raise(gl.INVALID_ENUM)
}

func (d *Driver) GetPointerv(pname gl.Enum) uintptr {
	if d.unsupported(pname) {
		return 0
	}
	return d.Pointers[pname]
}

func (d *Driver) IsEnabled(cap gl.Enum) bool {
	if d.unsupported(cap) {
		return false
	}
	if unitCaps[cap] {
		return d.UnitCaps[d.ActiveUnit][cap]
	}
	return d.Caps[cap]
}

func (d *Driver) GetClipPlane(plane gl.Enum, equation []float64) {
	i := int(plane - gl.CLIP_PLANE0)
	if plane < gl.CLIP_PLANE0 || i >= len(d.ClipPlanes) {
		d.Raise(gl.INVALID_ENUM)
		return
	}
	copy(equation, d.ClipPlanes[i][:])
}

func (d *Driver) GetLightfv(light gl.Enum, pname gl.Enum, params []float32) {
	i := int(light - gl.LIGHT0)
	if light < gl.LIGHT0 || i >= len(d.Lights) || d.unsupported(pname) {
		d.Raise(gl.INVALID_ENUM)
		return
	}
	v, ok := d.Lights[i][pname]
	if !ok {
		d.Raise(gl.INVALID_ENUM)
		return
	}
	copy(params, v)
}

func (d *Driver) bound(target gl.Enum) *Texture {
	id := d.Bindings[d.ActiveUnit][target]
	t, ok := d.Textures[id]
	if !ok {
		t = &Texture{Params: DefaultTexParams()}
		d.Textures[id] = t
	}
	return t
}

func (d *Driver) GetTexParameteriv(target gl.Enum, pname gl.Enum, params []int32) {
	if d.unsupported(pname) {
		return
	}
	v, ok := d.bound(target).Params[pname]
	if !ok {
		d.Raise(gl.INVALID_ENUM)
		return
	}
	params[0] = v
}

func (d *Driver) GetTexLevelParameteriv(target gl.Enum, level int32, pname gl.Enum, params []int32) {
	if d.unsupported(pname) {
		return
	}
	if level < 0 || level > DefaultMaxLevel {
		d.Raise(gl.INVALID_VALUE)
		return
	}
	t := d.bound(target)
	var l Level
	if int(level) < len(t.Levels) {
		l = t.Levels[level]
	}
	switch pname {
	case gl.TEXTURE_WIDTH:
		params[0] = l.Width
	case gl.TEXTURE_HEIGHT:
		params[0] = l.Height
	case gl.TEXTURE_DEPTH:
		params[0] = l.Depth
	case gl.TEXTURE_INTERNAL_FORMAT:
		params[0] = int32(l.InternalFormat)
	default:
		d.Raise(gl.INVALID_ENUM)
	}
}

func (d *Driver) GetTexImage(target gl.Enum, level int32, format gl.Enum, typ gl.Enum, pixels []byte) {
	t := d.bound(target)
	if level < 0 || int(level) >= len(t.Levels) {
		d.Raise(gl.INVALID_VALUE)
		return
	}
	if format != gl.RGBA || typ != gl.UNSIGNED_BYTE {
		d.Raise(gl.INVALID_ENUM)
		return
	}
	copy(pixels, t.Levels[level].Pixels)
}

func (d *Driver) GetProgramiv(program uint32, pname gl.Enum, params []int32) {
	p, ok := d.Programs[program]
	if !ok {
		d.Raise(gl.INVALID_VALUE)
		return
	}
	if pname != gl.ATTACHED_SHADERS {
		d.Raise(gl.INVALID_ENUM)
		return
	}
	params[0] = int32(len(p.Attached))
}

func (d *Driver) GetAttachedShaders(program uint32, shaders []uint32) int {
	p, ok := d.Programs[program]
	if !ok {
		d.Raise(gl.INVALID_VALUE)
		return 0
	}
	return copy(shaders, p.Attached)
}

func (d *Driver) QueryDrawable(display, drawable uintptr, attribute int32) uint32 {
	if attribute != gl.GLX_TEXTURE_TARGET_EXT {
		return 0
	}
	return d.Drawables[drawable]
}

func (d *Driver) Viewport(x, y, width, height int32) {
	d.record("glViewport")
	d.Ints[gl.VIEWPORT] = []int32{x, y, width, height}
}

func (d *Driver) Scissor(x, y, width, height int32) {
	d.record("glScissor")
	d.Ints[gl.SCISSOR_BOX] = []int32{x, y, width, height}
}

func (d *Driver) setCap(cap gl.Enum, on bool) {
	if unitCaps[cap] {
		d.UnitCaps[d.ActiveUnit][cap] = on
		return
	}
	d.Caps[cap] = on
}

func (d *Driver) Enable(cap gl.Enum) {
	d.record("glEnable(%s)", cap)
	d.setCap(cap, true)
}

func (d *Driver) Disable(cap gl.Enum) {
	d.record("glDisable(%s)", cap)
	d.setCap(cap, false)
}

func (d *Driver) EnableClientState(array gl.Enum) {
	d.record("glEnableClientState(%s)", array)
	d.Caps[array] = true
}

func (d *Driver) DisableClientState(array gl.Enum) {
	d.record("glDisableClientState(%s)", array)
	d.Caps[array] = false
}

func (d *Driver) ClipPlane(plane gl.Enum, equation []float64) {
	d.record("glClipPlane")
	i := int(plane - gl.CLIP_PLANE0)
	if plane < gl.CLIP_PLANE0 || i >= len(d.ClipPlanes) {
		d.Raise(gl.INVALID_ENUM)
		return
	}
	copy(d.ClipPlanes[i][:], equation)
}

func (d *Driver) Lightfv(light gl.Enum, pname gl.Enum, params []float32) {
	d.record("glLightfv")
	i := int(light - gl.LIGHT0)
	if light < gl.LIGHT0 || i >= len(d.Lights) {
		d.Raise(gl.INVALID_ENUM)
		return
	}
	d.Lights[i][pname] = append([]float32(nil), params...)
}

func (d *Driver) MatrixMode(mode gl.Enum) {
	d.record("glMatrixMode")
	d.CurMatrixMode = mode
}

func (d *Driver) LoadMatrixf(m []float32) {
	d.record("glLoadMatrixf")
	var v [16]float32
	copy(v[:], m)
	d.Matrices[d.CurMatrixMode] = v
}

func (d *Driver) CullFace(mode gl.Enum) {
	d.record("glCullFace")
	d.Ints[gl.CULL_FACE_MODE] = []int32{int32(mode)}
}

func (d *Driver) DepthFunc(fn gl.Enum) {
	d.record("glDepthFunc")
	d.Ints[gl.DEPTH_FUNC] = []int32{int32(fn)}
}

func (d *Driver) Hint(target gl.Enum, mode gl.Enum) {
	d.record("glHint")
	d.Ints[target] = []int32{int32(mode)}
}

func (d *Driver) PixelStorei(pname gl.Enum, param int32) {
	d.record("glPixelStorei")
	d.Ints[pname] = []int32{param}
}

func (d *Driver) BlendFunc(sfactor gl.Enum, dfactor gl.Enum) {
	d.record("glBlendFunc")
	d.Ints[gl.BLEND_SRC_RGB] = []int32{int32(sfactor)}
	d.Ints[gl.BLEND_DST_RGB] = []int32{int32(dfactor)}
}

func (d *Driver) MultiTexCoord4f(target gl.Enum, s, t, r, q float32) {
	d.record("glMultiTexCoord4f")
	d.Floats[gl.CURRENT_TEXTURE_COORDS] = []float32{s, t, r, q}
}

func (d *Driver) ClearColor(r, g, b, a float32) {
	d.record("glClearColor")
	d.Floats[gl.COLOR_CLEAR_VALUE] = []float32{r, g, b, a}
}

func (d *Driver) ActiveTexture(texture gl.Enum) {
	unit := int(texture - gl.TEXTURE0)
	if texture < gl.TEXTURE0 || unit >= len(d.Bindings) {
		d.Raise(gl.INVALID_ENUM)
		return
	}
	d.record("glActiveTexture(%s)", texture)
	d.ActiveUnit = unit
}

func (d *Driver) BindTexture(target gl.Enum, texture uint32) {
	d.record("glBindTexture(%s, %d)", target, texture)
	d.Bindings[d.ActiveUnit][target] = texture
	if _, ok := d.Textures[texture]; !ok {
		d.Textures[texture] = &Texture{Params: DefaultTexParams()}
	}
}

func (d *Driver) TexParameteri(target gl.Enum, pname gl.Enum, param int32) {
	d.record("glTexParameteri")
	d.bound(target).Params[pname] = param
}

func (d *Driver) setArray(pointer gl.Enum, size, typ, stride gl.Enum, s int32, t gl.Enum, st int32, p uintptr) {
	d.Pointers[pointer] = p
	d.Ints[size] = []int32{s}
	d.Ints[typ] = []int32{int32(t)}
	d.Ints[stride] = []int32{st}
}

func (d *Driver) VertexPointer(size int32, typ gl.Enum, stride int32, pointer uintptr) {
	d.record("glVertexPointer")
	d.setArray(gl.VERTEX_ARRAY_POINTER, gl.VERTEX_ARRAY_SIZE, gl.VERTEX_ARRAY_TYPE, gl.VERTEX_ARRAY_STRIDE,
		size, typ, stride, pointer)
}

func (d *Driver) ColorPointer(size int32, typ gl.Enum, stride int32, pointer uintptr) {
	d.record("glColorPointer")
	d.setArray(gl.COLOR_ARRAY_POINTER, gl.COLOR_ARRAY_SIZE, gl.COLOR_ARRAY_TYPE, gl.COLOR_ARRAY_STRIDE,
		size, typ, stride, pointer)
}

func (d *Driver) TexCoordPointer(size int32, typ gl.Enum, stride int32, pointer uintptr) {
	d.record("glTexCoordPointer")
	d.setArray(gl.TEXTURE_COORD_ARRAY_POINTER, gl.TEXTURE_COORD_ARRAY_SIZE, gl.TEXTURE_COORD_ARRAY_TYPE,
		gl.TEXTURE_COORD_ARRAY_STRIDE, size, typ, stride, pointer)
}

func (d *Driver) CompileShader(shader uint32) {
	d.record("glCompileShader(%d)", shader)
	s, ok := d.Shaders[shader]
	if !ok {
		d.Raise(gl.INVALID_VALUE)
		return
	}
	s.Compiled = true
}

func (d *Driver) AttachShader(program uint32, shader uint32) {
	d.record("glAttachShader(%d, %d)", program, shader)
	p, ok := d.Programs[program]
	if !ok {
		d.Raise(gl.INVALID_VALUE)
		return
	}
	for _, s := range p.Attached {
		if s == shader {
			d.Raise(gl.INVALID_OPERATION)
			return
		}
	}
	p.Attached = append(p.Attached, shader)
}

func (d *Driver) LinkProgram(program uint32) {
	d.record("glLinkProgram(%d)", program)
	p, ok := d.Programs[program]
	if !ok {
		d.Raise(gl.INVALID_VALUE)
		return
	}
	p.Linked++
}

func (d *Driver) UseProgram(program uint32) {
	d.record("glUseProgram(%d)", program)
	d.CurrentProgram = program
}

// CreateTexture makes a texture object named id.
func (d *Driver) CreateTexture(id uint32) *Texture {
	t := &Texture{Params: DefaultTexParams()}
	d.Textures[id] = t
	return t
}

// TexImage2D stores an RGBA/UNSIGNED_BYTE image into the texture bound
// to target on the active unit.
func (d *Driver) TexImage2D(target gl.Enum, level int32, internalFormat gl.Enum, width, height int32, pixels []byte) {
	t := d.bound(target)
	for int(level) >= len(t.Levels) {
		t.Levels = append(t.Levels, Level{})
	}
	t.Levels[level] = Level{
		Width:          width,
		Height:         height,
		Depth:          1,
		InternalFormat: internalFormat,
		Pixels:         append([]byte(nil), pixels...),
	}
}

func (d *Driver) CreateShader(id uint32, typ gl.Enum) {
	d.Shaders[id] = &Shader{Type: typ}
}

func (d *Driver) CreateProgram(id uint32) {
	d.Programs[id] = &Program{}
}

var _ gl.Driver = &Driver{}
