package rebuild

import (
	"github.com/yuuki0xff/glxtrace/tracer/gl"
)

// capabilities are the glEnable flags that are off by default. GL_LOGIC_OP
// is GL_INDEX_LOGIC_OP and the texture targets are per texture unit, so they
// are handled with the units.
var capabilities = []gl.Enum{
	gl.ALPHA_TEST,
	gl.AUTO_NORMAL,
	gl.BLEND,
	gl.COLOR_LOGIC_OP,
	gl.COLOR_MATERIAL,
	gl.COLOR_SUM,
	gl.COLOR_TABLE,
	gl.CONVOLUTION_1D,
	gl.CONVOLUTION_2D,
	gl.CULL_FACE,
	gl.DEPTH_TEST,
	gl.FOG,
	gl.HISTOGRAM,
	gl.INDEX_LOGIC_OP,
	gl.LIGHTING,
	gl.LINE_SMOOTH,
	gl.LINE_STIPPLE,
	gl.MAP1_COLOR_4,
	gl.MAP1_INDEX,
	gl.MAP1_NORMAL,
	gl.MAP1_TEXTURE_COORD_1,
	gl.MAP1_TEXTURE_COORD_2,
	gl.MAP1_TEXTURE_COORD_3,
	gl.MAP1_TEXTURE_COORD_4,
	gl.MAP1_VERTEX_3,
	gl.MAP1_VERTEX_4,
	gl.MAP2_COLOR_4,
	gl.MAP2_INDEX,
	gl.MAP2_NORMAL,
	gl.MAP2_TEXTURE_COORD_1,
	gl.MAP2_TEXTURE_COORD_2,
	gl.MAP2_TEXTURE_COORD_3,
	gl.MAP2_TEXTURE_COORD_4,
	gl.MAP2_VERTEX_3,
	gl.MAP2_VERTEX_4,
	gl.MINMAX,
	gl.NORMALIZE,
	gl.POINT_SMOOTH,
	gl.POINT_SPRITE,
	gl.POLYGON_OFFSET_FILL,
	gl.POLYGON_OFFSET_LINE,
	gl.POLYGON_OFFSET_POINT,
	gl.POLYGON_SMOOTH,
	gl.POLYGON_STIPPLE,
	gl.POST_COLOR_MATRIX_COLOR_TABLE,
	gl.POST_CONVOLUTION_COLOR_TABLE,
	gl.RESCALE_NORMAL,
	gl.SAMPLE_ALPHA_TO_COVERAGE,
	gl.SAMPLE_ALPHA_TO_ONE,
	gl.SAMPLE_COVERAGE,
	gl.SEPARABLE_2D,
	gl.SCISSOR_TEST,
	gl.STENCIL_TEST,
	gl.TEXTURE_GEN_Q,
	gl.TEXTURE_GEN_R,
	gl.TEXTURE_GEN_S,
	gl.TEXTURE_GEN_T,
	gl.VERTEX_PROGRAM_POINT_SIZE,
	gl.VERTEX_PROGRAM_TWO_SIDE,
}

// enabledByDefault must be disabled explicitly when they are off.
var enabledByDefault = []gl.Enum{
	gl.DITHER,
	gl.MULTISAMPLE,
}

var clientStates = []gl.Enum{
	gl.COLOR_ARRAY,
	gl.EDGE_FLAG_ARRAY,
	gl.FOG_COORD_ARRAY,
	gl.INDEX_ARRAY,
	gl.NORMAL_ARRAY,
	gl.SECONDARY_COLOR_ARRAY,
	gl.TEXTURE_COORD_ARRAY,
	gl.VERTEX_ARRAY,
}

type lightParam struct {
	pname gl.Enum
	// defaults of GL_LIGHT0 and of the other lights
	light0 []float32
	lightN []float32
}

var lightParams = []lightParam{
	{gl.AMBIENT, []float32{0, 0, 0, 1}, []float32{0, 0, 0, 1}},
	{gl.DIFFUSE, []float32{1, 1, 1, 1}, []float32{0, 0, 0, 1}},
	{gl.SPECULAR, []float32{1, 1, 1, 1}, []float32{0, 0, 0, 1}},
	{gl.POSITION, []float32{0, 0, 1, 0}, []float32{0, 0, 1, 0}},
	{gl.SPOT_DIRECTION, []float32{0, 0, -1}, []float32{0, 0, -1}},
	{gl.SPOT_EXPONENT, []float32{0}, []float32{0}},
	{gl.SPOT_CUTOFF, []float32{180}, []float32{180}},
	{gl.CONSTANT_ATTENUATION, []float32{1}, []float32{1}},
	{gl.LINEAR_ATTENUATION, []float32{0}, []float32{0}},
	{gl.QUADRATIC_ATTENUATION, []float32{0}, []float32{0}},
}

type matrix struct {
	name       gl.Enum
	mode       gl.Enum
	stackDepth gl.Enum
}

// matrices in emission order. The modelview matrix comes last so it is the
// current mode most of the time.
var matrices = []matrix{
	{gl.PROJECTION_MATRIX, gl.PROJECTION, gl.PROJECTION_STACK_DEPTH},
	{gl.TEXTURE_MATRIX, gl.TEXTURE, gl.TEXTURE_STACK_DEPTH},
	{gl.COLOR_MATRIX, gl.COLOR, gl.COLOR_MATRIX_STACK_DEPTH},
	{gl.MODELVIEW_MATRIX, gl.MODELVIEW, gl.MODELVIEW_STACK_DEPTH},
}

var identity = []float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

type setterKind int

const (
	setCullFace setterKind = iota
	setDepthFunc
	setHint
	setPixelStore
	setBlendFunc
	setTexCoord
	setClearColor
)

// param is a piece of state that is set by one call. Float params are
// queried with glGetFloatv, the others with glGetIntegerv.
type param struct {
	kind   setterKind
	pnames []gl.Enum
	ints   []int32
	floats []float32
}

func (p *param) isFloat() bool {
	return p.floats != nil
}

func enumParam(kind setterKind, pname gl.Enum, def gl.Enum) param {
	return param{kind: kind, pnames: []gl.Enum{pname}, ints: []int32{int32(def)}}
}

var params = []param{
	enumParam(setCullFace, gl.CULL_FACE_MODE, gl.BACK),
	enumParam(setDepthFunc, gl.DEPTH_FUNC, gl.LESS),
	enumParam(setHint, gl.FOG_HINT, gl.DONT_CARE),
	enumParam(setHint, gl.GENERATE_MIPMAP_HINT, gl.DONT_CARE),
	enumParam(setHint, gl.LINE_SMOOTH_HINT, gl.DONT_CARE),
	enumParam(setHint, gl.PERSPECTIVE_CORRECTION_HINT, gl.DONT_CARE),
	enumParam(setHint, gl.POINT_SMOOTH_HINT, gl.DONT_CARE),
	enumParam(setHint, gl.POLYGON_SMOOTH_HINT, gl.DONT_CARE),
	enumParam(setHint, gl.TEXTURE_COMPRESSION_HINT, gl.DONT_CARE),
	enumParam(setHint, gl.FRAGMENT_SHADER_DERIVATIVE_HINT, gl.DONT_CARE),
	{kind: setPixelStore, pnames: []gl.Enum{gl.PACK_ALIGNMENT}, ints: []int32{4}},
	{kind: setPixelStore, pnames: []gl.Enum{gl.UNPACK_ALIGNMENT}, ints: []int32{4}},
	{
		kind:   setBlendFunc,
		pnames: []gl.Enum{gl.BLEND_SRC_RGB, gl.BLEND_DST_RGB},
		ints:   []int32{int32(gl.ONE), int32(gl.ZERO)},
	},
	{kind: setTexCoord, pnames: []gl.Enum{gl.CURRENT_TEXTURE_COORDS}, floats: []float32{0, 0, 0, 1}},
	{kind: setClearColor, pnames: []gl.Enum{gl.COLOR_CLEAR_VALUE}, floats: []float32{0, 0, 0, 0}},
}

// bindingPoints maps the binding queries to their texture targets.
var bindingPoints = []struct {
	binding gl.Enum
	target  gl.Enum
}{
	{gl.TEXTURE_BINDING_1D, gl.TEXTURE_1D},
	{gl.TEXTURE_BINDING_1D_ARRAY, gl.TEXTURE_1D_ARRAY},
	{gl.TEXTURE_BINDING_2D, gl.TEXTURE_2D},
	{gl.TEXTURE_BINDING_2D_ARRAY, gl.TEXTURE_2D_ARRAY},
	{gl.TEXTURE_BINDING_2D_MULTISAMPLE, gl.TEXTURE_2D_MULTISAMPLE},
	{gl.TEXTURE_BINDING_2D_MULTISAMPLE_ARRAY, gl.TEXTURE_2D_MULTISAMPLE_ARRAY},
	{gl.TEXTURE_BINDING_3D, gl.TEXTURE_3D},
	{gl.TEXTURE_BINDING_BUFFER, gl.TEXTURE_BUFFER},
	{gl.TEXTURE_BINDING_CUBE_MAP, gl.TEXTURE_CUBE_MAP},
	{gl.TEXTURE_BINDING_RECTANGLE, gl.TEXTURE_RECTANGLE},
}

var unitCapabilities = []gl.Enum{
	gl.TEXTURE_1D,
	gl.TEXTURE_2D,
	gl.TEXTURE_3D,
	gl.TEXTURE_CUBE_MAP,
}

type texParam struct {
	pname gl.Enum
	def   int32
}

// texParams excludes GL_TEXTURE_MAX_LEVEL, which bounds the level loop.
var texParams = []texParam{
	{gl.DEPTH_STENCIL_TEXTURE_MODE, int32(gl.DEPTH_COMPONENT)},
	{gl.TEXTURE_MAG_FILTER, int32(gl.LINEAR)},
	{gl.TEXTURE_MIN_FILTER, int32(gl.NEAREST_MIPMAP_LINEAR)},
	{gl.TEXTURE_MIN_LOD, -1000},
	{gl.TEXTURE_MAX_LOD, 1000},
	{gl.TEXTURE_BASE_LEVEL, 0},
	{gl.TEXTURE_SWIZZLE_R, int32(gl.RED)},
	{gl.TEXTURE_SWIZZLE_G, int32(gl.GREEN)},
	{gl.TEXTURE_SWIZZLE_B, int32(gl.BLUE)},
	{gl.TEXTURE_SWIZZLE_A, int32(gl.ALPHA)},
	{gl.TEXTURE_WRAP_S, int32(gl.REPEAT)},
	{gl.TEXTURE_WRAP_T, int32(gl.REPEAT)},
	{gl.TEXTURE_WRAP_R, int32(gl.REPEAT)},
	{gl.TEXTURE_PRIORITY, 1},
	{gl.TEXTURE_COMPARE_MODE, int32(gl.NONE)},
	{gl.TEXTURE_COMPARE_FUNC, int32(gl.LEQUAL)},
	{gl.DEPTH_TEXTURE_MODE, int32(gl.LUMINANCE)},
	{gl.GENERATE_MIPMAP, int32(gl.FALSE)},
}

const defaultMaxLevel = 1000

type arrayKind int

const (
	texCoordArray arrayKind = iota
	colorArray
	vertexArray
)

// clientArray is a client side vertex array. Arrays whose pointer is null
// are not in use.
type clientArray struct {
	kind    arrayKind
	pointer gl.Enum
	size    gl.Enum
	typ     gl.Enum
	stride  gl.Enum
}

var clientArrays = []clientArray{
	{texCoordArray, gl.TEXTURE_COORD_ARRAY_POINTER, gl.TEXTURE_COORD_ARRAY_SIZE, gl.TEXTURE_COORD_ARRAY_TYPE, gl.TEXTURE_COORD_ARRAY_STRIDE},
	{colorArray, gl.COLOR_ARRAY_POINTER, gl.COLOR_ARRAY_SIZE, gl.COLOR_ARRAY_TYPE, gl.COLOR_ARRAY_STRIDE},
	{vertexArray, gl.VERTEX_ARRAY_POINTER, gl.VERTEX_ARRAY_SIZE, gl.VERTEX_ARRAY_TYPE, gl.VERTEX_ARRAY_STRIDE},
}

// defaults of size, type and stride of every client array
var clientArrayDefaults = []int32{4, int32(gl.FLOAT), 0}
