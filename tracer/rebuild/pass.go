package rebuild

import (
	"github.com/rs/zerolog"
	"github.com/yuuki0xff/glxtrace/tracer/gl"
	"github.com/yuuki0xff/glxtrace/tracer/glapi"
	"github.com/yuuki0xff/glxtrace/tracer/glcontext"
	"github.com/yuuki0xff/glxtrace/tracer/objects"
)

type pass struct {
	e   *Engine
	t   Target
	d   gl.Driver
	m   *model
	log zerolog.Logger
	// pixels is shared by every texture level of the pass.
	pixels []byte
	calls  int
}

func (p *pass) write(c call) {
	write(p.e.w, p.t.Thread, c)
	p.calls++
}

func (p *pass) clearErrors() {
	gl.DrainErrors(p.d, drainLimit)
}

// succeeded reports whether the last query raised no error.
func (p *pass) succeeded() bool {
	if p.d.GetError() == gl.NO_ERROR {
		return true
	}
	p.clearErrors()
	return false
}

func (p *pass) getInts(pname gl.Enum, n int) ([]int32, bool) {
	p.clearErrors()
	v := make([]int32, n)
	p.d.GetIntegerv(pname, v)
	return v, p.succeeded()
}

func (p *pass) getInt(pname gl.Enum, def int32) int32 {
	v, ok := p.getInts(pname, 1)
	if !ok {
		return def
	}
	return v[0]
}

func (p *pass) getFloats(pname gl.Enum, n int) ([]float32, bool) {
	p.clearErrors()
	v := make([]float32, n)
	p.d.GetFloatv(pname, v)
	return v, p.succeeded()
}

func (p *pass) isEnabled(c gl.Enum) (bool, bool) {
	p.clearErrors()
	on := p.d.IsEnabled(c)
	return on, p.succeeded()
}

func (p *pass) getTexParam(pname gl.Enum) (int32, bool) {
	p.clearErrors()
	var v [1]int32
	p.d.GetTexParameteriv(gl.TEXTURE_2D, pname, v[:])
	return v[0], p.succeeded()
}

func (p *pass) getTexLevel(target gl.Enum, level int32, pname gl.Enum) (int32, bool) {
	p.clearErrors()
	var v [1]int32
	p.d.GetTexLevelParameteriv(target, level, pname, v[:])
	return v[0], p.succeeded()
}

func (p *pass) setCap(c gl.Enum, on bool) {
	if on {
		p.write(call{sig: glapi.Enable, in: []arg{enumArg(c)}})
		p.d.Enable(c)
	} else {
		p.write(call{sig: glapi.Disable, in: []arg{enumArg(c)}})
		p.d.Disable(c)
	}
}

func (p *pass) setClientState(a gl.Enum, on bool) {
	if on {
		p.write(call{sig: glapi.EnableClientState, in: []arg{enumArg(a)}})
		p.d.EnableClientState(a)
	} else {
		p.write(call{sig: glapi.DisableClientState, in: []arg{enumArg(a)}})
		p.d.DisableClientState(a)
	}
}

func (p *pass) viewport() {
	vp, ok := p.getInts(gl.VIEWPORT, 4)
	if ok && p.m.changed(stateKey{kind: keyInts, name: gl.VIEWPORT}, intBits(vp...), nil) {
		p.write(call{sig: glapi.Viewport, in: []arg{sintArg(vp[0]), sintArg(vp[1]), sintArg(vp[2]), sintArg(vp[3])}})
		p.d.Viewport(vp[0], vp[1], vp[2], vp[3])
	}

	sc, scOK := p.getInts(gl.SCISSOR_BOX, 4)
	if !scOK {
		return
	}
	var def bits
	if ok {
		def = intBits(vp...)
	}
	if p.m.changed(stateKey{kind: keyInts, name: gl.SCISSOR_BOX}, intBits(sc...), def) {
		p.write(call{sig: glapi.Scissor, in: []arg{sintArg(sc[0]), sintArg(sc[1]), sintArg(sc[2]), sintArg(sc[3])}})
		p.d.Scissor(sc[0], sc[1], sc[2], sc[3])
	}
}

func (p *pass) capability(c gl.Enum, def bool) {
	on, ok := p.isEnabled(c)
	if ok && p.m.changed(stateKey{kind: keyCap, name: c}, boolBits(on), boolBits(def)) {
		p.setCap(c, on)
	}
}

func (p *pass) capabilities() {
	for _, c := range capabilities {
		p.capability(c, false)
	}
	for _, c := range enabledByDefault {
		p.capability(c, true)
	}
	for _, a := range clientStates {
		on, ok := p.isEnabled(a)
		if ok && p.m.changed(stateKey{kind: keyCap, name: a}, boolBits(on), boolBits(false)) {
			p.setClientState(a, on)
		}
	}
}

func (p *pass) clipPlanes() {
	n := p.getInt(gl.MAX_CLIP_PLANES, 0)
	zero := doubleBits(0, 0, 0, 0)
	for i := int32(0); i < n; i++ {
		plane := gl.CLIP_PLANE0 + gl.Enum(i)
		p.capability(plane, false)

		eq := make([]float64, 4)
		p.clearErrors()
		p.d.GetClipPlane(plane, eq)
		if !p.succeeded() {
			continue
		}
		if p.m.changed(stateKey{kind: keyClipPlane, name: plane}, doubleBits(eq...), zero) {
			p.write(call{sig: glapi.ClipPlane, in: []arg{enumArg(plane), doublesArg(eq)}})
			p.d.ClipPlane(plane, eq)
		}
	}
}

func (p *pass) lights() {
	n := p.getInt(gl.MAX_LIGHTS, 0)
	for i := int32(0); i < n; i++ {
		light := gl.LIGHT0 + gl.Enum(i)
		p.capability(light, false)

		for _, lp := range lightParams {
			def := lp.lightN
			if i == 0 {
				def = lp.light0
			}
			v := make([]float32, len(def))
			p.clearErrors()
			p.d.GetLightfv(light, lp.pname, v)
			if !p.succeeded() {
				continue
			}
			if p.m.changed(stateKey{kind: keyLight, name: light, pname: lp.pname}, floatBits(v...), floatBits(def...)) {
				p.write(call{sig: glapi.Lightfv, in: []arg{enumArg(light), enumArg(lp.pname), floatsArg(v)}})
				p.d.Lightfv(light, lp.pname, v)
			}
		}
	}
}

func (p *pass) matrixMode(mode gl.Enum) {
	p.write(call{sig: glapi.MatrixMode, in: []arg{enumArg(mode)}})
	p.d.MatrixMode(mode)
}

// matrices writes the top of every matrix stack. Deeper stack entries are
// not reconstructed.
func (p *pass) matrices() {
	modeKey := stateKey{kind: keyMatrixMode}
	mode := p.m.enumValue(modeKey, gl.MODELVIEW)
	v, liveOK := p.getInts(gl.MATRIX_MODE, 1)
	live := gl.Enum(v[0])
	if liveOK && live != mode {
		// loads below go to the replayed mode
		p.d.MatrixMode(mode)
	}

	for _, mx := range matrices {
		m, ok := p.getFloats(mx.name, 16)
		if !ok {
			continue
		}
		if depth := p.getInt(mx.stackDepth, 1); depth > 1 {
			p.log.Debug().Stringer("matrix", mx.mode).Int32("depth", depth).Msg("matrix stack is not reconstructed")
		}
		if !p.m.changed(stateKey{kind: keyMatrix, name: mx.mode}, floatBits(m...), floatBits(identity...)) {
			continue
		}
		if mode != mx.mode {
			p.matrixMode(mx.mode)
			mode = mx.mode
		}
		p.write(call{sig: glapi.LoadMatrixf, in: []arg{floatsArg(m)}})
		p.d.LoadMatrixf(m)
	}

	if liveOK && mode != live {
		p.matrixMode(live)
		mode = live
	}
	p.m.set(modeKey, intBits(int32(mode)))
}

func (p *pass) params() {
	for i := range params {
		pr := &params[i]
		key := stateKey{kind: keyInts, name: pr.pnames[0]}
		if pr.isFloat() {
			v, ok := p.getFloats(pr.pnames[0], len(pr.floats))
			if ok && p.m.changed(key, floatBits(v...), floatBits(pr.floats...)) {
				p.setParam(pr, nil, v)
			}
			continue
		}

		v := make([]int32, len(pr.pnames))
		ok := true
		for j, pname := range pr.pnames {
			var got []int32
			if got, ok = p.getInts(pname, 1); !ok {
				break
			}
			v[j] = got[0]
		}
		if ok && p.m.changed(key, intBits(v...), intBits(pr.ints...)) {
			p.setParam(pr, v, nil)
		}
	}
}

func (p *pass) setParam(pr *param, v []int32, f []float32) {
	switch pr.kind {
	case setCullFace:
		p.write(call{sig: glapi.CullFace, in: []arg{enumArg(gl.Enum(v[0]))}})
		p.d.CullFace(gl.Enum(v[0]))
	case setDepthFunc:
		p.write(call{sig: glapi.DepthFunc, in: []arg{enumArg(gl.Enum(v[0]))}})
		p.d.DepthFunc(gl.Enum(v[0]))
	case setHint:
		p.write(call{sig: glapi.Hint, in: []arg{enumArg(pr.pnames[0]), enumArg(gl.Enum(v[0]))}})
		p.d.Hint(pr.pnames[0], gl.Enum(v[0]))
	case setPixelStore:
		p.write(call{sig: glapi.PixelStorei, in: []arg{enumArg(pr.pnames[0]), sintArg(v[0])}})
		p.d.PixelStorei(pr.pnames[0], v[0])
	case setBlendFunc:
		p.write(call{sig: glapi.BlendFunc, in: []arg{enumArg(gl.Enum(v[0])), enumArg(gl.Enum(v[1]))}})
		p.d.BlendFunc(gl.Enum(v[0]), gl.Enum(v[1]))
	case setTexCoord:
		p.write(call{sig: glapi.MultiTexCoord4f, in: []arg{
			enumArg(gl.TEXTURE0), floatArg(f[0]), floatArg(f[1]), floatArg(f[2]), floatArg(f[3]),
		}})
		p.d.MultiTexCoord4f(gl.TEXTURE0, f[0], f[1], f[2], f[3])
	case setClearColor:
		p.write(call{sig: glapi.ClearColor, in: []arg{floatArg(f[0]), floatArg(f[1]), floatArg(f[2]), floatArg(f[3])}})
		p.d.ClearColor(f[0], f[1], f[2], f[3])
	default:
		p.log.Error().Int("kind", int(pr.kind)).Msg("unknown parameter setter")
	}
}

type unitState struct {
	bindings  []uint32
	bindingOK []bool
	caps      []bool
	capsOK    []bool
}

type savedUnits struct {
	active   gl.Enum
	activeOK bool
	units    []unitState
}

func (p *pass) replayUnit() gl.Enum {
	return p.m.enumValue(stateKey{kind: keyActiveUnit}, gl.TEXTURE0)
}

func (p *pass) selectUnit(unit gl.Enum) {
	if p.replayUnit() == unit {
		return
	}
	p.write(call{sig: glapi.ActiveTexture, in: []arg{enumArg(unit)}})
	p.d.ActiveTexture(unit)
	p.m.set(stateKey{kind: keyActiveUnit}, intBits(int32(unit)))
}

func (p *pass) bindTexture(target gl.Enum, id uint32) {
	p.write(call{sig: glapi.BindTexture, in: []arg{enumArg(target), uintArg(id)}})
	p.d.BindTexture(target, id)
	unit := int(p.replayUnit() - gl.TEXTURE0)
	p.m.set(stateKey{kind: keyBinding, name: target, unit: unit}, intBits(int32(id)))
}

// saveUnits reads the bindings and enables of every texture unit. The
// driver's active unit is left at the replayed one.
func (p *pass) saveUnits() savedUnits {
	var s savedUnits
	active, ok := p.getInts(gl.ACTIVE_TEXTURE, 1)
	s.active, s.activeOK = gl.Enum(active[0]), ok
	n := p.getInt(gl.MAX_TEXTURE_UNITS, 1)
	if n < 1 {
		n = 1
	}

	s.units = make([]unitState, n)
	for u := range s.units {
		p.d.ActiveTexture(gl.TEXTURE0 + gl.Enum(u))
		us := unitState{
			bindings:  make([]uint32, len(bindingPoints)),
			bindingOK: make([]bool, len(bindingPoints)),
			caps:      make([]bool, len(unitCapabilities)),
			capsOK:    make([]bool, len(unitCapabilities)),
		}
		for j, bp := range bindingPoints {
			if v, ok := p.getInts(bp.binding, 1); ok {
				us.bindings[j], us.bindingOK[j] = uint32(v[0]), true
			}
		}
		for j, c := range unitCapabilities {
			us.caps[j], us.capsOK[j] = p.isEnabled(c)
		}
		s.units[u] = us
	}
	p.d.ActiveTexture(p.replayUnit())
	return s
}

func (p *pass) restoreUnits(s savedUnits) {
	for u, us := range s.units {
		unit := gl.TEXTURE0 + gl.Enum(u)
		for j, bp := range bindingPoints {
			if !us.bindingOK[j] {
				continue
			}
			key := stateKey{kind: keyBinding, name: bp.target, unit: u}
			if p.m.changed(key, intBits(int32(us.bindings[j])), intBits(0)) {
				p.selectUnit(unit)
				p.bindTexture(bp.target, us.bindings[j])
			}
		}
		for j, c := range unitCapabilities {
			if !us.capsOK[j] {
				continue
			}
			key := stateKey{kind: keyUnitCap, name: c, unit: u}
			if p.m.changed(key, boolBits(us.caps[j]), boolBits(false)) {
				p.selectUnit(unit)
				p.setCap(c, us.caps[j])
			}
		}
	}
	if s.activeOK {
		p.selectUnit(s.active)
	} else {
		p.log.Debug().Msg("active texture unit is unknown")
	}
}

func (p *pass) clientArrays() {
	for _, ca := range clientArrays {
		p.clearErrors()
		ptr := p.d.GetPointerv(ca.pointer)
		if !p.succeeded() || ptr == 0 {
			continue
		}
		v := make([]int32, 3)
		for j, pname := range []gl.Enum{ca.size, ca.typ, ca.stride} {
			v[j] = p.getInt(pname, clientArrayDefaults[j])
		}
		live := append(bits{uint64(ptr)}, intBits(v...)...)
		if !p.m.changed(stateKey{kind: keyArray, name: ca.pointer}, live, nil) {
			continue
		}

		args := []arg{sintArg(v[0]), enumArg(gl.Enum(v[1])), sintArg(v[2]), pointerArg(ptr)}
		switch ca.kind {
		case texCoordArray:
			p.write(call{sig: glapi.TexCoordPointer, in: args})
			p.d.TexCoordPointer(v[0], gl.Enum(v[1]), v[2], ptr)
		case colorArray:
			p.write(call{sig: glapi.ColorPointer, in: args})
			p.d.ColorPointer(v[0], gl.Enum(v[1]), v[2], ptr)
		case vertexArray:
			p.write(call{sig: glapi.VertexPointer, in: args})
			p.d.VertexPointer(v[0], gl.Enum(v[1]), v[2], ptr)
		}
	}
}

// textures writes the textures that are not in the trace yet. Textures are
// bound to GL_TEXTURE_2D of the first unit.
func (p *pass) textures() {
	pending := p.e.textures.Pending()
	if len(pending) == 0 {
		return
	}
	p.selectUnit(gl.TEXTURE0)
	unpackBuffer := p.t.Profile == glcontext.Desktop && p.getInt(gl.PIXEL_UNPACK_BUFFER_BINDING, 0) != 0
	if unpackBuffer {
		p.log.Warn().Msg("a pixel unpack buffer is bound; texture images are written as offsets")
	}

	for _, tex := range pending {
		p.texture(tex, unpackBuffer)
		p.e.textures.MarkCaptured(tex.ID)
	}
	p.pixels = nil
}

func (p *pass) texture(tex objects.TextureRecord, unpackBuffer bool) {
	p.write(call{
		sig:  glapi.GenTextures,
		fake: true,
		in:   []arg{sintArg(1)},
		out:  []arg{nil, arrayArg([]arg{uintArg(tex.ID)})},
	})
	p.bindTexture(gl.TEXTURE_2D, tex.ID)

	for _, tp := range texParams {
		if v, ok := p.getTexParam(tp.pname); ok && v != tp.def {
			p.write(call{sig: glapi.TexParameteri, in: []arg{enumArg(gl.TEXTURE_2D), enumArg(tp.pname), sintArg(v)}})
			p.d.TexParameteri(gl.TEXTURE_2D, tp.pname, v)
		}
	}

	maxLevel, ok := p.getTexParam(gl.TEXTURE_MAX_LEVEL)
	if !ok {
		maxLevel = defaultMaxLevel
	}
	levels := 0
	for level := int32(0); level <= maxLevel; level++ {
		if !p.textureLevel(gl.TEXTURE_2D, level, unpackBuffer) {
			break
		}
		levels++
	}
	p.log.Debug().Uint32("texture", tex.ID).Int("levels", levels).Msg("texture captured")
}

// textureLevel writes one level of the texture bound to target. It returns
// false if the level does not exist.
func (p *pass) textureLevel(target gl.Enum, level int32, unpackBuffer bool) bool {
	width, ok := p.getTexLevel(target, level, gl.TEXTURE_WIDTH)
	if !ok || width == 0 {
		return false
	}
	height, _ := p.getTexLevel(target, level, gl.TEXTURE_HEIGHT)
	if format, ok := p.getTexLevel(target, level, gl.TEXTURE_INTERNAL_FORMAT); ok && gl.Enum(format) != gl.RGBA {
		p.log.Debug().Stringer("format", gl.Enum(format)).Msg("internal format is written as GL_RGBA")
	}

	data := p.readPixels(target, level, width, height)
	if unpackBuffer {
		data = pointerArg(0)
	}
	p.write(texImage2D(target, level, gl.RGBA, width, height, data))
	return true
}

func (p *pass) readPixels(target gl.Enum, level, width, height int32) arg {
	size := gl.TexImage2DSize(gl.RGBA, gl.UNSIGNED_BYTE, width, height)
	if cap(p.pixels) < size {
		p.pixels = make([]byte, size)
	}
	pixels := p.pixels[:size]
	p.clearErrors()
	p.d.GetTexImage(target, level, gl.RGBA, gl.UNSIGNED_BYTE, pixels)
	if !p.succeeded() {
		// the buffer still holds the image of the previous level
		clear(pixels)
		p.log.Debug().Int32("level", level).Msg("failed to read texture image")
	}
	return blobArg(pixels)
}

func texImage2D(target gl.Enum, level int32, internalFormat gl.Enum, width, height int32, pixels arg) call {
	return call{
		sig:  glapi.TexImage2D,
		fake: true,
		in: []arg{
			enumArg(target), sintArg(level), enumArg(internalFormat), sintArg(width), sintArg(height),
			sintArg(0), enumArg(gl.RGBA), enumArg(gl.UNSIGNED_BYTE), pixels,
		},
	}
}

func (p *pass) shadersAndPrograms() {
	current, currentOK := p.getInts(gl.CURRENT_PROGRAM, 1)

	var deleted []uint32
	for _, sh := range p.e.shaders.Snapshot() {
		if sh.AlreadyCaptured {
			continue
		}
		p.shader(sh)
		p.e.shaders.MarkCaptured(sh.ID)
		if sh.Deleted {
			deleted = append(deleted, sh.ID)
		}
	}
	for _, pr := range p.e.programs.Snapshot() {
		if pr.AlreadyCaptured {
			continue
		}
		p.program(pr)
		p.e.programs.MarkCaptured(pr.ID)
	}
	// flagged for deletion after the programs hold them
	for _, id := range deleted {
		p.write(call{sig: glapi.DeleteShader, fake: true, in: []arg{uintArg(id)}})
	}

	if currentOK && p.m.changed(stateKey{kind: keyProgram}, intBits(current[0]), intBits(0)) {
		p.write(call{sig: glapi.UseProgram, in: []arg{uintArg(uint32(current[0]))}})
		p.d.UseProgram(uint32(current[0]))
	}
}

func (p *pass) shader(sh objects.ShaderRecord) {
	p.write(call{
		sig:  glapi.CreateShader,
		fake: true,
		in:   []arg{enumArg(sh.Type)},
		ret:  uintArg(sh.ID),
	})
	if len(sh.Sources) == 0 {
		return
	}

	strs := make([]arg, len(sh.Sources))
	lengths := make([]arg, len(sh.Sources))
	for i, f := range sh.Sources {
		if f.Explicit {
			strs[i] = stringArg(string(f.Text))
			lengths[i] = sintArg(int32(f.Length))
		} else {
			strs[i] = stringArg(f.String())
			lengths[i] = sintArg(-1)
		}
	}
	length := nullArg()
	if sh.HasExplicitLengths() {
		length = arrayArg(lengths)
	}
	p.write(call{
		sig:  glapi.ShaderSource,
		fake: true,
		in:   []arg{uintArg(sh.ID), sintArg(int32(len(sh.Sources))), arrayArg(strs), length},
	})
	p.write(call{sig: glapi.CompileShader, in: []arg{uintArg(sh.ID)}})
	p.d.CompileShader(sh.ID)
}

func (p *pass) program(pr objects.ProgramRecord) {
	p.write(call{sig: glapi.CreateProgram, fake: true, ret: uintArg(pr.ID)})

	p.clearErrors()
	var n [1]int32
	p.d.GetProgramiv(pr.ID, gl.ATTACHED_SHADERS, n[:])
	if p.succeeded() && n[0] > 0 {
		shaders := make([]uint32, n[0])
		count := p.d.GetAttachedShaders(pr.ID, shaders)
		for _, id := range shaders[:count] {
			p.write(call{sig: glapi.AttachShader, in: []arg{uintArg(pr.ID), uintArg(id)}})
			p.d.AttachShader(pr.ID, id)
		}
		// the shaders are attached already
		p.clearErrors()
	}

	for _, b := range pr.Bindings {
		p.write(call{
			sig:  glapi.BindAttribLocation,
			fake: true,
			in:   []arg{uintArg(pr.ID), uintArg(uint32(b.Index)), stringArg(b.Name)},
		})
	}
	p.write(call{sig: glapi.LinkProgram, in: []arg{uintArg(pr.ID)}})
	p.d.LinkProgram(pr.ID)
}
