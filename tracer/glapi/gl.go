package glapi

// Signatures of the entry points the tracer writes by itself.
var (
	Viewport           = Default.Function("glViewport", "x", "y", "width", "height")
	Scissor            = Default.Function("glScissor", "x", "y", "width", "height")
	Enable             = Default.Function("glEnable", "cap")
	Disable            = Default.Function("glDisable", "cap")
	EnableClientState  = Default.Function("glEnableClientState", "array")
	DisableClientState = Default.Function("glDisableClientState", "array")
	ClipPlane          = Default.Function("glClipPlane", "plane", "equation")
	Lightfv            = Default.Function("glLightfv", "light", "pname", "params")
	MatrixMode         = Default.Function("glMatrixMode", "mode")
	LoadMatrixf        = Default.Function("glLoadMatrixf", "m")
	CullFace           = Default.Function("glCullFace", "mode")
	DepthFunc          = Default.Function("glDepthFunc", "func")
	Hint               = Default.Function("glHint", "target", "mode")
	PixelStorei        = Default.Function("glPixelStorei", "pname", "param")
	BlendFunc          = Default.Function("glBlendFunc", "sfactor", "dfactor")
	MultiTexCoord4f    = Default.Function("glMultiTexCoord4f", "target", "s", "t", "r", "q")
	ClearColor         = Default.Function("glClearColor", "red", "green", "blue", "alpha")
	ActiveTexture      = Default.Function("glActiveTexture", "texture")
	BindTexture        = Default.Function("glBindTexture", "target", "texture")
	TexParameteri      = Default.Function("glTexParameteri", "target", "pname", "param")
	VertexPointer      = Default.Function("glVertexPointer", "size", "type", "stride", "pointer")
	ColorPointer       = Default.Function("glColorPointer", "size", "type", "stride", "pointer")
	TexCoordPointer    = Default.Function("glTexCoordPointer", "size", "type", "stride", "pointer")
	GenTextures        = Default.Function("glGenTextures", "n", "textures")
	TexImage2D         = Default.Function("glTexImage2D", "target", "level", "internalformat", "width", "height", "border", "format", "type", "pixels")
	CreateShader       = Default.Function("glCreateShader", "type")
	ShaderSource       = Default.Function("glShaderSource", "shader", "count", "string", "length")
	CompileShader      = Default.Function("glCompileShader", "shader")
	DeleteShader       = Default.Function("glDeleteShader", "shader")
	CreateProgram      = Default.Function("glCreateProgram")
	AttachShader       = Default.Function("glAttachShader", "program", "shader")
	BindAttribLocation = Default.Function("glBindAttribLocation", "program", "index", "name")
	LinkProgram        = Default.Function("glLinkProgram", "program")
	UseProgram         = Default.Function("glUseProgram", "program")
)
