package gl

import "fmt"

// Enum is a GLenum value.
type Enum uint32

const (
	NONE     Enum = 0
	FALSE    Enum = 0
	TRUE     Enum = 1
	ZERO     Enum = 0
	ONE      Enum = 1
	NO_ERROR Enum = 0

	INVALID_ENUM      Enum = 0x0500
	INVALID_VALUE     Enum = 0x0501
	INVALID_OPERATION Enum = 0x0502
	OUT_OF_MEMORY     Enum = 0x0505

	LESS   Enum = 0x0201
	LEQUAL Enum = 0x0203
	BACK   Enum = 0x0405

	// boolean capabilities
	POINT_SMOOTH                    Enum = 0x0B10
	LINE_SMOOTH                     Enum = 0x0B20
	LINE_STIPPLE                    Enum = 0x0B24
	POLYGON_SMOOTH                  Enum = 0x0B41
	POLYGON_STIPPLE                 Enum = 0x0B42
	CULL_FACE                       Enum = 0x0B44
	LIGHTING                        Enum = 0x0B50
	COLOR_MATERIAL                  Enum = 0x0B57
	FOG                             Enum = 0x0B60
	DEPTH_TEST                      Enum = 0x0B71
	STENCIL_TEST                    Enum = 0x0B90
	NORMALIZE                       Enum = 0x0BA1
	ALPHA_TEST                      Enum = 0x0BC0
	DITHER                          Enum = 0x0BD0
	BLEND                           Enum = 0x0BE2
	INDEX_LOGIC_OP                  Enum = 0x0BF1
	LOGIC_OP                        Enum = 0x0BF1
	COLOR_LOGIC_OP                  Enum = 0x0BF2
	SCISSOR_TEST                    Enum = 0x0C11
	TEXTURE_GEN_S                   Enum = 0x0C60
	TEXTURE_GEN_T                   Enum = 0x0C61
	TEXTURE_GEN_R                   Enum = 0x0C62
	TEXTURE_GEN_Q                   Enum = 0x0C63
	AUTO_NORMAL                     Enum = 0x0D80
	MAP1_COLOR_4                    Enum = 0x0D90
	MAP1_INDEX                      Enum = 0x0D91
	MAP1_NORMAL                     Enum = 0x0D92
	MAP1_TEXTURE_COORD_1            Enum = 0x0D93
	MAP1_TEXTURE_COORD_2            Enum = 0x0D94
	MAP1_TEXTURE_COORD_3            Enum = 0x0D95
	MAP1_TEXTURE_COORD_4            Enum = 0x0D96
	MAP1_VERTEX_3                   Enum = 0x0D97
	MAP1_VERTEX_4                   Enum = 0x0D98
	MAP2_COLOR_4                    Enum = 0x0DB0
	MAP2_INDEX                      Enum = 0x0DB1
	MAP2_NORMAL                     Enum = 0x0DB2
	MAP2_TEXTURE_COORD_1            Enum = 0x0DB3
	MAP2_TEXTURE_COORD_2            Enum = 0x0DB4
	MAP2_TEXTURE_COORD_3            Enum = 0x0DB5
	MAP2_TEXTURE_COORD_4            Enum = 0x0DB6
	MAP2_VERTEX_3                   Enum = 0x0DB7
	MAP2_VERTEX_4                   Enum = 0x0DB8
	TEXTURE_1D                      Enum = 0x0DE0
	TEXTURE_2D                      Enum = 0x0DE1
	POLYGON_OFFSET_POINT            Enum = 0x2A01
	POLYGON_OFFSET_LINE             Enum = 0x2A02
	CONVOLUTION_1D                  Enum = 0x8010
	CONVOLUTION_2D                  Enum = 0x8011
	SEPARABLE_2D                    Enum = 0x8012
	HISTOGRAM                       Enum = 0x8024
	MINMAX                          Enum = 0x802E
	POLYGON_OFFSET_FILL             Enum = 0x8037
	RESCALE_NORMAL                  Enum = 0x803A
	TEXTURE_3D                      Enum = 0x806F
	MULTISAMPLE                     Enum = 0x809D
	SAMPLE_ALPHA_TO_COVERAGE        Enum = 0x809E
	SAMPLE_ALPHA_TO_ONE             Enum = 0x809F
	SAMPLE_COVERAGE                 Enum = 0x80A0
	COLOR_TABLE                     Enum = 0x80D0
	POST_CONVOLUTION_COLOR_TABLE    Enum = 0x80D1
	POST_COLOR_MATRIX_COLOR_TABLE   Enum = 0x80D2
	COLOR_SUM                       Enum = 0x8458
	TEXTURE_CUBE_MAP                Enum = 0x8513
	VERTEX_PROGRAM_POINT_SIZE       Enum = 0x8642
	VERTEX_PROGRAM_TWO_SIDE         Enum = 0x8643
	POINT_SPRITE                    Enum = 0x8861
	CLIP_PLANE0                     Enum = 0x3000
	LIGHT0                          Enum = 0x4000
	FRAGMENT_SHADER_DERIVATIVE_HINT Enum = 0x8B8B

	// client states
	VERTEX_ARRAY          Enum = 0x8074
	NORMAL_ARRAY          Enum = 0x8075
	COLOR_ARRAY           Enum = 0x8076
	INDEX_ARRAY           Enum = 0x8077
	TEXTURE_COORD_ARRAY   Enum = 0x8078
	EDGE_FLAG_ARRAY       Enum = 0x8079
	FOG_COORD_ARRAY       Enum = 0x8457
	SECONDARY_COLOR_ARRAY Enum = 0x845E

	// limits and viewport
	MAX_LIGHTS             Enum = 0x0D31
	MAX_CLIP_PLANES        Enum = 0x0D32
	MAX_TEXTURE_UNITS      Enum = 0x84E2
	VIEWPORT               Enum = 0x0BA2
	SCISSOR_BOX            Enum = 0x0C10
	CURRENT_TEXTURE_COORDS Enum = 0x0B03
	COLOR_CLEAR_VALUE      Enum = 0x0C22

	// lights
	AMBIENT               Enum = 0x1200
	DIFFUSE               Enum = 0x1201
	SPECULAR              Enum = 0x1202
	POSITION              Enum = 0x1203
	SPOT_DIRECTION        Enum = 0x1204
	SPOT_EXPONENT         Enum = 0x1205
	SPOT_CUTOFF           Enum = 0x1206
	CONSTANT_ATTENUATION  Enum = 0x1207
	LINEAR_ATTENUATION    Enum = 0x1208
	QUADRATIC_ATTENUATION Enum = 0x1209

	// matrices
	MATRIX_MODE              Enum = 0x0BA0
	MODELVIEW_STACK_DEPTH    Enum = 0x0BA3
	PROJECTION_STACK_DEPTH   Enum = 0x0BA4
	TEXTURE_STACK_DEPTH      Enum = 0x0BA5
	MODELVIEW_MATRIX         Enum = 0x0BA6
	PROJECTION_MATRIX        Enum = 0x0BA7
	TEXTURE_MATRIX           Enum = 0x0BA8
	COLOR_MATRIX             Enum = 0x80B1
	COLOR_MATRIX_STACK_DEPTH Enum = 0x80B2
	MODELVIEW                Enum = 0x1700
	PROJECTION               Enum = 0x1701
	TEXTURE                  Enum = 0x1702
	COLOR                    Enum = 0x1800

	// parameters with defaults
	CULL_FACE_MODE              Enum = 0x0B45
	DEPTH_FUNC                  Enum = 0x0B74
	PERSPECTIVE_CORRECTION_HINT Enum = 0x0C50
	POINT_SMOOTH_HINT           Enum = 0x0C51
	LINE_SMOOTH_HINT            Enum = 0x0C52
	POLYGON_SMOOTH_HINT         Enum = 0x0C53
	FOG_HINT                    Enum = 0x0C54
	GENERATE_MIPMAP_HINT        Enum = 0x8192
	TEXTURE_COMPRESSION_HINT    Enum = 0x84EF
	DONT_CARE                   Enum = 0x1100
	UNPACK_ALIGNMENT            Enum = 0x0CF5
	PACK_ALIGNMENT              Enum = 0x0D05
	BLEND_DST_RGB               Enum = 0x80C8
	BLEND_SRC_RGB               Enum = 0x80C9

	// texture units and binding points
	TEXTURE0                             Enum = 0x84C0
	ACTIVE_TEXTURE                       Enum = 0x84E0
	TEXTURE_BINDING_1D                   Enum = 0x8068
	TEXTURE_BINDING_2D                   Enum = 0x8069
	TEXTURE_BINDING_3D                   Enum = 0x806A
	TEXTURE_BINDING_RECTANGLE            Enum = 0x84F6
	TEXTURE_BINDING_CUBE_MAP             Enum = 0x8514
	TEXTURE_BINDING_1D_ARRAY             Enum = 0x8C1C
	TEXTURE_BINDING_2D_ARRAY             Enum = 0x8C1D
	TEXTURE_BINDING_BUFFER               Enum = 0x8C2C
	TEXTURE_BINDING_2D_MULTISAMPLE       Enum = 0x9104
	TEXTURE_BINDING_2D_MULTISAMPLE_ARRAY Enum = 0x9105
	TEXTURE_RECTANGLE                    Enum = 0x84F5
	TEXTURE_1D_ARRAY                     Enum = 0x8C18
	TEXTURE_2D_ARRAY                     Enum = 0x8C1A
	TEXTURE_BUFFER                       Enum = 0x8C2A
	TEXTURE_2D_MULTISAMPLE               Enum = 0x9100
	TEXTURE_2D_MULTISAMPLE_ARRAY         Enum = 0x9102

	// texture parameters
	TEXTURE_WIDTH              Enum = 0x1000
	TEXTURE_HEIGHT             Enum = 0x1001
	TEXTURE_INTERNAL_FORMAT    Enum = 0x1003
	TEXTURE_DEPTH              Enum = 0x8071
	TEXTURE_MAG_FILTER         Enum = 0x2800
	TEXTURE_MIN_FILTER         Enum = 0x2801
	TEXTURE_WRAP_S             Enum = 0x2802
	TEXTURE_WRAP_T             Enum = 0x2803
	TEXTURE_WRAP_R             Enum = 0x8072
	TEXTURE_PRIORITY           Enum = 0x8066
	TEXTURE_MIN_LOD            Enum = 0x813A
	TEXTURE_MAX_LOD            Enum = 0x813B
	TEXTURE_BASE_LEVEL         Enum = 0x813C
	TEXTURE_MAX_LEVEL          Enum = 0x813D
	GENERATE_MIPMAP            Enum = 0x8191
	DEPTH_TEXTURE_MODE         Enum = 0x884B
	TEXTURE_COMPARE_MODE       Enum = 0x884C
	TEXTURE_COMPARE_FUNC       Enum = 0x884D
	TEXTURE_SWIZZLE_R          Enum = 0x8E42
	TEXTURE_SWIZZLE_G          Enum = 0x8E43
	TEXTURE_SWIZZLE_B          Enum = 0x8E44
	TEXTURE_SWIZZLE_A          Enum = 0x8E45
	DEPTH_STENCIL_TEXTURE_MODE Enum = 0x90EA
	LINEAR                     Enum = 0x2601
	NEAREST_MIPMAP_LINEAR      Enum = 0x2702
	REPEAT                     Enum = 0x2901

	// client array pointers
	VERTEX_ARRAY_SIZE           Enum = 0x807A
	VERTEX_ARRAY_TYPE           Enum = 0x807B
	VERTEX_ARRAY_STRIDE         Enum = 0x807C
	COLOR_ARRAY_SIZE            Enum = 0x8081
	COLOR_ARRAY_TYPE            Enum = 0x8082
	COLOR_ARRAY_STRIDE          Enum = 0x8083
	TEXTURE_COORD_ARRAY_SIZE    Enum = 0x8088
	TEXTURE_COORD_ARRAY_TYPE    Enum = 0x8089
	TEXTURE_COORD_ARRAY_STRIDE  Enum = 0x808A
	VERTEX_ARRAY_POINTER        Enum = 0x808E
	COLOR_ARRAY_POINTER         Enum = 0x8090
	TEXTURE_COORD_ARRAY_POINTER Enum = 0x8092

	// pixel formats and types
	UNSIGNED_BYTE               Enum = 0x1401
	FLOAT                       Enum = 0x1406
	DEPTH_COMPONENT             Enum = 0x1902
	RED                         Enum = 0x1903
	GREEN                       Enum = 0x1904
	BLUE                        Enum = 0x1905
	ALPHA                       Enum = 0x1906
	RGB                         Enum = 0x1907
	RGBA                        Enum = 0x1908
	LUMINANCE                   Enum = 0x1909
	BGR                         Enum = 0x80E0
	BGRA                        Enum = 0x80E1
	PIXEL_UNPACK_BUFFER_BINDING Enum = 0x88EF

	// shaders and programs
	FRAGMENT_SHADER  Enum = 0x8B30
	VERTEX_SHADER    Enum = 0x8B31
	ATTACHED_SHADERS Enum = 0x8B85
	CURRENT_PROGRAM  Enum = 0x8B8D
)

// GLX tokens.
const (
	GLX_TEXTURE_TARGET_EXT          int32 = 0x20D6
	GLX_TEXTURE_1D_EXT              int32 = 0x20DB
	GLX_TEXTURE_2D_EXT              int32 = 0x20DC
	GLX_TEXTURE_RECTANGLE_EXT       int32 = 0x20DD
	GLX_CONTEXT_PROFILE_MASK_ARB    int32 = 0x9126
	GLX_CONTEXT_ES2_PROFILE_BIT_EXT int32 = 0x0004
)

var enumNames = map[Enum]string{}

// first name wins for aliased values (GL_ZERO, GL_FALSE, ...)
func init() {
	for _, e := range []struct {
		v    Enum
		name string
	}{
		{NONE, "GL_NONE"}, {ONE, "GL_ONE"},
		{INVALID_ENUM, "GL_INVALID_ENUM"}, {INVALID_VALUE, "GL_INVALID_VALUE"},
		{INVALID_OPERATION, "GL_INVALID_OPERATION"}, {OUT_OF_MEMORY, "GL_OUT_OF_MEMORY"},
		{LESS, "GL_LESS"}, {LEQUAL, "GL_LEQUAL"}, {BACK, "GL_BACK"},
		{POINT_SMOOTH, "GL_POINT_SMOOTH"}, {LINE_SMOOTH, "GL_LINE_SMOOTH"},
		{LINE_STIPPLE, "GL_LINE_STIPPLE"}, {POLYGON_SMOOTH, "GL_POLYGON_SMOOTH"},
		{POLYGON_STIPPLE, "GL_POLYGON_STIPPLE"}, {CULL_FACE, "GL_CULL_FACE"},
		{LIGHTING, "GL_LIGHTING"}, {COLOR_MATERIAL, "GL_COLOR_MATERIAL"},
		{FOG, "GL_FOG"}, {DEPTH_TEST, "GL_DEPTH_TEST"}, {STENCIL_TEST, "GL_STENCIL_TEST"},
		{NORMALIZE, "GL_NORMALIZE"}, {ALPHA_TEST, "GL_ALPHA_TEST"}, {DITHER, "GL_DITHER"},
		{BLEND, "GL_BLEND"}, {INDEX_LOGIC_OP, "GL_INDEX_LOGIC_OP"},
		{COLOR_LOGIC_OP, "GL_COLOR_LOGIC_OP"}, {SCISSOR_TEST, "GL_SCISSOR_TEST"},
		{TEXTURE_GEN_S, "GL_TEXTURE_GEN_S"}, {TEXTURE_GEN_T, "GL_TEXTURE_GEN_T"},
		{TEXTURE_GEN_R, "GL_TEXTURE_GEN_R"}, {TEXTURE_GEN_Q, "GL_TEXTURE_GEN_Q"},
		{AUTO_NORMAL, "GL_AUTO_NORMAL"},
		{MAP1_COLOR_4, "GL_MAP1_COLOR_4"}, {MAP1_INDEX, "GL_MAP1_INDEX"},
		{MAP1_NORMAL, "GL_MAP1_NORMAL"}, {MAP1_TEXTURE_COORD_1, "GL_MAP1_TEXTURE_COORD_1"},
		{MAP1_TEXTURE_COORD_2, "GL_MAP1_TEXTURE_COORD_2"}, {MAP1_TEXTURE_COORD_3, "GL_MAP1_TEXTURE_COORD_3"},
		{MAP1_TEXTURE_COORD_4, "GL_MAP1_TEXTURE_COORD_4"}, {MAP1_VERTEX_3, "GL_MAP1_VERTEX_3"},
		{MAP1_VERTEX_4, "GL_MAP1_VERTEX_4"},
		{MAP2_COLOR_4, "GL_MAP2_COLOR_4"}, {MAP2_INDEX, "GL_MAP2_INDEX"},
		{MAP2_NORMAL, "GL_MAP2_NORMAL"}, {MAP2_TEXTURE_COORD_1, "GL_MAP2_TEXTURE_COORD_1"},
		{MAP2_TEXTURE_COORD_2, "GL_MAP2_TEXTURE_COORD_2"}, {MAP2_TEXTURE_COORD_3, "GL_MAP2_TEXTURE_COORD_3"},
		{MAP2_TEXTURE_COORD_4, "GL_MAP2_TEXTURE_COORD_4"}, {MAP2_VERTEX_3, "GL_MAP2_VERTEX_3"},
		{MAP2_VERTEX_4, "GL_MAP2_VERTEX_4"},
		{TEXTURE_1D, "GL_TEXTURE_1D"}, {TEXTURE_2D, "GL_TEXTURE_2D"},
		{POLYGON_OFFSET_POINT, "GL_POLYGON_OFFSET_POINT"}, {POLYGON_OFFSET_LINE, "GL_POLYGON_OFFSET_LINE"},
		{CONVOLUTION_1D, "GL_CONVOLUTION_1D"}, {CONVOLUTION_2D, "GL_CONVOLUTION_2D"},
		{SEPARABLE_2D, "GL_SEPARABLE_2D"}, {HISTOGRAM, "GL_HISTOGRAM"}, {MINMAX, "GL_MINMAX"},
		{POLYGON_OFFSET_FILL, "GL_POLYGON_OFFSET_FILL"}, {RESCALE_NORMAL, "GL_RESCALE_NORMAL"},
		{TEXTURE_3D, "GL_TEXTURE_3D"}, {MULTISAMPLE, "GL_MULTISAMPLE"},
		{SAMPLE_ALPHA_TO_COVERAGE, "GL_SAMPLE_ALPHA_TO_COVERAGE"},
		{SAMPLE_ALPHA_TO_ONE, "GL_SAMPLE_ALPHA_TO_ONE"}, {SAMPLE_COVERAGE, "GL_SAMPLE_COVERAGE"},
		{COLOR_TABLE, "GL_COLOR_TABLE"}, {POST_CONVOLUTION_COLOR_TABLE, "GL_POST_CONVOLUTION_COLOR_TABLE"},
		{POST_COLOR_MATRIX_COLOR_TABLE, "GL_POST_COLOR_MATRIX_COLOR_TABLE"},
		{COLOR_SUM, "GL_COLOR_SUM"}, {TEXTURE_CUBE_MAP, "GL_TEXTURE_CUBE_MAP"},
		{VERTEX_PROGRAM_POINT_SIZE, "GL_VERTEX_PROGRAM_POINT_SIZE"},
		{VERTEX_PROGRAM_TWO_SIDE, "GL_VERTEX_PROGRAM_TWO_SIDE"}, {POINT_SPRITE, "GL_POINT_SPRITE"},
		{FRAGMENT_SHADER_DERIVATIVE_HINT, "GL_FRAGMENT_SHADER_DERIVATIVE_HINT"},
		{VERTEX_ARRAY, "GL_VERTEX_ARRAY"}, {NORMAL_ARRAY, "GL_NORMAL_ARRAY"},
		{COLOR_ARRAY, "GL_COLOR_ARRAY"}, {INDEX_ARRAY, "GL_INDEX_ARRAY"},
		{TEXTURE_COORD_ARRAY, "GL_TEXTURE_COORD_ARRAY"}, {EDGE_FLAG_ARRAY, "GL_EDGE_FLAG_ARRAY"},
		{FOG_COORD_ARRAY, "GL_FOG_COORD_ARRAY"}, {SECONDARY_COLOR_ARRAY, "GL_SECONDARY_COLOR_ARRAY"},
		{MAX_LIGHTS, "GL_MAX_LIGHTS"}, {MAX_CLIP_PLANES, "GL_MAX_CLIP_PLANES"},
		{MAX_TEXTURE_UNITS, "GL_MAX_TEXTURE_UNITS"}, {VIEWPORT, "GL_VIEWPORT"},
		{SCISSOR_BOX, "GL_SCISSOR_BOX"}, {CURRENT_TEXTURE_COORDS, "GL_CURRENT_TEXTURE_COORDS"},
		{COLOR_CLEAR_VALUE, "GL_COLOR_CLEAR_VALUE"},
		{AMBIENT, "GL_AMBIENT"}, {DIFFUSE, "GL_DIFFUSE"}, {SPECULAR, "GL_SPECULAR"},
		{POSITION, "GL_POSITION"}, {SPOT_DIRECTION, "GL_SPOT_DIRECTION"},
		{SPOT_EXPONENT, "GL_SPOT_EXPONENT"}, {SPOT_CUTOFF, "GL_SPOT_CUTOFF"},
		{CONSTANT_ATTENUATION, "GL_CONSTANT_ATTENUATION"},
		{LINEAR_ATTENUATION, "GL_LINEAR_ATTENUATION"},
		{QUADRATIC_ATTENUATION, "GL_QUADRATIC_ATTENUATION"},
		{MATRIX_MODE, "GL_MATRIX_MODE"}, {MODELVIEW_STACK_DEPTH, "GL_MODELVIEW_STACK_DEPTH"},
		{PROJECTION_STACK_DEPTH, "GL_PROJECTION_STACK_DEPTH"},
		{TEXTURE_STACK_DEPTH, "GL_TEXTURE_STACK_DEPTH"}, {MODELVIEW_MATRIX, "GL_MODELVIEW_MATRIX"},
		{PROJECTION_MATRIX, "GL_PROJECTION_MATRIX"}, {TEXTURE_MATRIX, "GL_TEXTURE_MATRIX"},
		{COLOR_MATRIX, "GL_COLOR_MATRIX"}, {COLOR_MATRIX_STACK_DEPTH, "GL_COLOR_MATRIX_STACK_DEPTH"},
		{MODELVIEW, "GL_MODELVIEW"}, {PROJECTION, "GL_PROJECTION"}, {TEXTURE, "GL_TEXTURE"},
		{COLOR, "GL_COLOR"},
		{CULL_FACE_MODE, "GL_CULL_FACE_MODE"}, {DEPTH_FUNC, "GL_DEPTH_FUNC"},
		{PERSPECTIVE_CORRECTION_HINT, "GL_PERSPECTIVE_CORRECTION_HINT"},
		{POINT_SMOOTH_HINT, "GL_POINT_SMOOTH_HINT"}, {LINE_SMOOTH_HINT, "GL_LINE_SMOOTH_HINT"},
		{POLYGON_SMOOTH_HINT, "GL_POLYGON_SMOOTH_HINT"}, {FOG_HINT, "GL_FOG_HINT"},
		{GENERATE_MIPMAP_HINT, "GL_GENERATE_MIPMAP_HINT"},
		{TEXTURE_COMPRESSION_HINT, "GL_TEXTURE_COMPRESSION_HINT"}, {DONT_CARE, "GL_DONT_CARE"},
		{UNPACK_ALIGNMENT, "GL_UNPACK_ALIGNMENT"}, {PACK_ALIGNMENT, "GL_PACK_ALIGNMENT"},
		{BLEND_DST_RGB, "GL_BLEND_DST_RGB"}, {BLEND_SRC_RGB, "GL_BLEND_SRC_RGB"},
		{TEXTURE0, "GL_TEXTURE0"}, {ACTIVE_TEXTURE, "GL_ACTIVE_TEXTURE"},
		{TEXTURE_BINDING_1D, "GL_TEXTURE_BINDING_1D"}, {TEXTURE_BINDING_2D, "GL_TEXTURE_BINDING_2D"},
		{TEXTURE_BINDING_3D, "GL_TEXTURE_BINDING_3D"},
		{TEXTURE_BINDING_RECTANGLE, "GL_TEXTURE_BINDING_RECTANGLE"},
		{TEXTURE_BINDING_CUBE_MAP, "GL_TEXTURE_BINDING_CUBE_MAP"},
		{TEXTURE_BINDING_1D_ARRAY, "GL_TEXTURE_BINDING_1D_ARRAY"},
		{TEXTURE_BINDING_2D_ARRAY, "GL_TEXTURE_BINDING_2D_ARRAY"},
		{TEXTURE_BINDING_BUFFER, "GL_TEXTURE_BINDING_BUFFER"},
		{TEXTURE_BINDING_2D_MULTISAMPLE, "GL_TEXTURE_BINDING_2D_MULTISAMPLE"},
		{TEXTURE_BINDING_2D_MULTISAMPLE_ARRAY, "GL_TEXTURE_BINDING_2D_MULTISAMPLE_ARRAY"},
		{TEXTURE_RECTANGLE, "GL_TEXTURE_RECTANGLE"}, {TEXTURE_1D_ARRAY, "GL_TEXTURE_1D_ARRAY"},
		{TEXTURE_2D_ARRAY, "GL_TEXTURE_2D_ARRAY"}, {TEXTURE_BUFFER, "GL_TEXTURE_BUFFER"},
		{TEXTURE_2D_MULTISAMPLE, "GL_TEXTURE_2D_MULTISAMPLE"},
		{TEXTURE_2D_MULTISAMPLE_ARRAY, "GL_TEXTURE_2D_MULTISAMPLE_ARRAY"},
		{TEXTURE_WIDTH, "GL_TEXTURE_WIDTH"}, {TEXTURE_HEIGHT, "GL_TEXTURE_HEIGHT"},
		{TEXTURE_INTERNAL_FORMAT, "GL_TEXTURE_INTERNAL_FORMAT"}, {TEXTURE_DEPTH, "GL_TEXTURE_DEPTH"},
		{TEXTURE_MAG_FILTER, "GL_TEXTURE_MAG_FILTER"}, {TEXTURE_MIN_FILTER, "GL_TEXTURE_MIN_FILTER"},
		{TEXTURE_WRAP_S, "GL_TEXTURE_WRAP_S"}, {TEXTURE_WRAP_T, "GL_TEXTURE_WRAP_T"},
		{TEXTURE_WRAP_R, "GL_TEXTURE_WRAP_R"}, {TEXTURE_PRIORITY, "GL_TEXTURE_PRIORITY"},
		{TEXTURE_MIN_LOD, "GL_TEXTURE_MIN_LOD"}, {TEXTURE_MAX_LOD, "GL_TEXTURE_MAX_LOD"},
		{TEXTURE_BASE_LEVEL, "GL_TEXTURE_BASE_LEVEL"}, {TEXTURE_MAX_LEVEL, "GL_TEXTURE_MAX_LEVEL"},
		{GENERATE_MIPMAP, "GL_GENERATE_MIPMAP"}, {DEPTH_TEXTURE_MODE, "GL_DEPTH_TEXTURE_MODE"},
		{TEXTURE_COMPARE_MODE, "GL_TEXTURE_COMPARE_MODE"},
		{TEXTURE_COMPARE_FUNC, "GL_TEXTURE_COMPARE_FUNC"},
		{TEXTURE_SWIZZLE_R, "GL_TEXTURE_SWIZZLE_R"}, {TEXTURE_SWIZZLE_G, "GL_TEXTURE_SWIZZLE_G"},
		{TEXTURE_SWIZZLE_B, "GL_TEXTURE_SWIZZLE_B"}, {TEXTURE_SWIZZLE_A, "GL_TEXTURE_SWIZZLE_A"},
		{DEPTH_STENCIL_TEXTURE_MODE, "GL_DEPTH_STENCIL_TEXTURE_MODE"},
		{LINEAR, "GL_LINEAR"}, {NEAREST_MIPMAP_LINEAR, "GL_NEAREST_MIPMAP_LINEAR"},
		{REPEAT, "GL_REPEAT"},
		{VERTEX_ARRAY_SIZE, "GL_VERTEX_ARRAY_SIZE"}, {VERTEX_ARRAY_TYPE, "GL_VERTEX_ARRAY_TYPE"},
		{VERTEX_ARRAY_STRIDE, "GL_VERTEX_ARRAY_STRIDE"}, {COLOR_ARRAY_SIZE, "GL_COLOR_ARRAY_SIZE"},
		{COLOR_ARRAY_TYPE, "GL_COLOR_ARRAY_TYPE"}, {COLOR_ARRAY_STRIDE, "GL_COLOR_ARRAY_STRIDE"},
		{TEXTURE_COORD_ARRAY_SIZE, "GL_TEXTURE_COORD_ARRAY_SIZE"},
		{TEXTURE_COORD_ARRAY_TYPE, "GL_TEXTURE_COORD_ARRAY_TYPE"},
		{TEXTURE_COORD_ARRAY_STRIDE, "GL_TEXTURE_COORD_ARRAY_STRIDE"},
		{VERTEX_ARRAY_POINTER, "GL_VERTEX_ARRAY_POINTER"},
		{COLOR_ARRAY_POINTER, "GL_COLOR_ARRAY_POINTER"},
		{TEXTURE_COORD_ARRAY_POINTER, "GL_TEXTURE_COORD_ARRAY_POINTER"},
		{UNSIGNED_BYTE, "GL_UNSIGNED_BYTE"}, {FLOAT, "GL_FLOAT"},
		{DEPTH_COMPONENT, "GL_DEPTH_COMPONENT"}, {RED, "GL_RED"}, {GREEN, "GL_GREEN"},
		{BLUE, "GL_BLUE"}, {ALPHA, "GL_ALPHA"}, {RGB, "GL_RGB"}, {RGBA, "GL_RGBA"},
		{LUMINANCE, "GL_LUMINANCE"}, {BGR, "GL_BGR"}, {BGRA, "GL_BGRA"},
		{PIXEL_UNPACK_BUFFER_BINDING, "GL_PIXEL_UNPACK_BUFFER_BINDING"},
		{FRAGMENT_SHADER, "GL_FRAGMENT_SHADER"}, {VERTEX_SHADER, "GL_VERTEX_SHADER"},
		{ATTACHED_SHADERS, "GL_ATTACHED_SHADERS"}, {CURRENT_PROGRAM, "GL_CURRENT_PROGRAM"},
	} {
		if _, ok := enumNames[e.v]; !ok {
			enumNames[e.v] = e.name
		}
	}
}

// Name returns the symbolic name of e, or false if e has none.
func (e Enum) Name() (string, bool) {
	switch {
	case e >= CLIP_PLANE0 && e < CLIP_PLANE0+8:
		return fmt.Sprintf("GL_CLIP_PLANE%d", e-CLIP_PLANE0), true
	case e >= LIGHT0 && e < LIGHT0+8:
		return fmt.Sprintf("GL_LIGHT%d", e-LIGHT0), true
	case e > TEXTURE0 && e < TEXTURE0+32:
		return fmt.Sprintf("GL_TEXTURE%d", e-TEXTURE0), true
	}
	name, ok := enumNames[e]
	return name, ok
}

func (e Enum) String() string {
	if name, ok := e.Name(); ok {
		return name
	}
	return fmt.Sprintf("0x%04x", uint32(e))
}

// Names returns a copy of the known enum names, including the numbered
// clip planes, lights and texture units.
func Names() map[Enum]string {
	names := make(map[Enum]string, len(enumNames)+48)
	for v, name := range enumNames {
		names[v] = name
	}
	for i := Enum(0); i < 32; i++ {
		if i < 8 {
			names[CLIP_PLANE0+i], _ = (CLIP_PLANE0 + i).Name()
			names[LIGHT0+i], _ = (LIGHT0 + i).Name()
		}
		names[TEXTURE0+i] = fmt.Sprintf("GL_TEXTURE%d", i)
	}
	return names
}
