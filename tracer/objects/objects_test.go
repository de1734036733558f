package objects

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuuki0xff/glxtrace/tracer/gl"
)

func TestTextureRegistry_register(t *testing.T) {
	a := assert.New(t)
	r := NewTextureRegistry(0)
	a.NoError(r.Register([]uint32{5, 7, 0, 5}))
	a.Equal([]uint32{5, 7}, r.IDs())
	a.NoError(r.Register([]uint32{7, 9}))
	a.Equal([]uint32{5, 7, 9}, r.IDs())
	a.Equal(GrowSize, r.Cap())

	_, ok := r.Find(0)
	a.False(ok)
	rec, ok := r.Find(9)
	a.True(ok)
	a.False(rec.AlreadyCaptured)
}

func TestTextureRegistry_unregister(t *testing.T) {
	a := assert.New(t)
	r := NewTextureRegistry(0)
	require.NoError(t, r.Register([]uint32{1, 2, 3, 4}))
	r.Unregister([]uint32{2, 4, 100})
	a.Equal([]uint32{1, 3}, r.IDs())
	a.Equal(2, r.Len())
	r.Unregister([]uint32{1, 3})
	a.Equal(0, r.Len())
	a.Equal(GrowSize, r.Cap())
}

func TestTextureRegistry_captured(t *testing.T) {
	a := assert.New(t)
	r := NewTextureRegistry(0)
	require.NoError(t, r.Register([]uint32{1, 2}))
	r.MarkCaptured(2)
	r.MarkCaptured(42)
	a.Equal([]TextureRecord{{ID: 1}}, r.Pending())
	rec, _ := r.Find(2)
	a.True(rec.AlreadyCaptured)
}

func TestTextureRegistry_grow(t *testing.T) {
	a := assert.New(t)
	r := NewTextureRegistry(0)
	ids := make([]uint32, GrowSize+1)
	for i := range ids {
		ids[i] = uint32(i + 1)
	}
	a.NoError(r.Register(ids))
	a.Equal(GrowSize+1, r.Len())
	a.Equal(2*GrowSize, r.Cap())
}

func TestTextureRegistry_growFailed(t *testing.T) {
	a := assert.New(t)
	r := NewTextureRegistry(3)
	a.NoError(r.Register([]uint32{1, 2}))
	err := r.Register([]uint32{3, 4})
	a.True(errors.Is(err, ErrGrowFailed))
	a.Equal([]uint32{1, 2}, r.IDs())
	a.NoError(r.Register([]uint32{3}))
	a.Equal([]uint32{1, 2, 3}, r.IDs())
}

func TestShaderStore_derivedLength(t *testing.T) {
	a := assert.New(t)
	s := NewShaderStore(0)
	require.NoError(t, s.CreateShader(gl.VERTEX_SHADER, 3))
	require.NoError(t, s.SetSource(3, [][]byte{[]byte("void main(){}")}, nil))

	rec, ok := s.Find(3)
	require.True(t, ok)
	require.Len(t, rec.Sources, 1)
	a.Equal(uint32(len("void main(){}")+1), rec.Sources[0].Length)
	a.Equal([]byte("void main(){}\x00"), rec.Sources[0].Text)
	a.Equal("void main(){}", rec.Sources[0].String())
	a.False(rec.HasExplicitLengths())
}

func TestShaderStore_explicitLength(t *testing.T) {
	a := assert.New(t)
	s := NewShaderStore(0)
	require.NoError(t, s.CreateShader(gl.FRAGMENT_SHADER, 4))
	require.NoError(t, s.SetSource(4, [][]byte{
		[]byte("uniform int a;garbage"),
		[]byte("void main(){}\x00tail"),
	}, []int32{14, -1}))

	rec, _ := s.Find(4)
	require.Len(t, rec.Sources, 2)
	a.Equal(Fragment{Text: []byte("uniform int a;"), Length: 14, Explicit: true}, rec.Sources[0])
	a.Equal(uint32(14), rec.Sources[1].Length)
	a.Equal("void main(){}", rec.Sources[1].String())
	a.True(rec.HasExplicitLengths())
}

func TestShaderStore_replaceSource(t *testing.T) {
	a := assert.New(t)
	s := NewShaderStore(0)
	require.NoError(t, s.SetSource(6, [][]byte{[]byte("a"), []byte("b")}, nil))
	require.NoError(t, s.SetSource(6, [][]byte{[]byte("c")}, nil))

	rec, ok := s.Find(6)
	require.True(t, ok)
	a.Equal(gl.Enum(0), rec.Type)
	require.Len(t, rec.Sources, 1)
	a.Equal("c", rec.Sources[0].String())
	a.Equal(1, s.Len())
}

func TestShaderStore_delete(t *testing.T) {
	a := assert.New(t)
	s := NewShaderStore(0)
	p := NewProgramStore(s, 0)
	require.NoError(t, s.CreateShader(gl.VERTEX_SHADER, 1))
	require.NoError(t, s.CreateShader(gl.FRAGMENT_SHADER, 2))
	require.NoError(t, p.CreateProgram(10))
	p.AttachShader(10, 2)

	s.DeleteShader(1)
	_, ok := s.Find(1)
	a.False(ok)

	s.DeleteShader(2)
	rec, ok := s.Find(2)
	a.True(ok)
	a.True(rec.Deleted)

	p.DetachShader(10, 2)
	_, ok = s.Find(2)
	a.False(ok)
	a.Equal(0, s.Len())
}

func TestShaderStore_deleteWithProgram(t *testing.T) {
	a := assert.New(t)
	s := NewShaderStore(0)
	p := NewProgramStore(s, 0)
	require.NoError(t, s.CreateShader(gl.VERTEX_SHADER, 1))
	require.NoError(t, p.CreateProgram(10))
	require.NoError(t, p.CreateProgram(11))
	p.AttachShader(10, 1)
	p.AttachShader(11, 1)
	s.DeleteShader(1)

	p.DeleteProgram(10)
	_, ok := s.Find(1)
	a.True(ok)
	p.DeleteProgram(11)
	_, ok = s.Find(1)
	a.False(ok)
}

func TestProgramStore_bindings(t *testing.T) {
	a := assert.New(t)
	p := NewProgramStore(NewShaderStore(0), 0)
	require.NoError(t, p.CreateProgram(1))
	require.NoError(t, p.CreateProgram(0))
	a.Equal(1, p.Len())

	p.BindAttribLocation(1, 0, "position")
	p.BindAttribLocation(1, 1, "normal")
	p.BindAttribLocation(1, 0, "color")
	p.BindAttribLocation(2, 0, "unknown")

	snapshot := p.Snapshot()
	p.BindAttribLocation(1, 2, "uv")
	require.Len(t, snapshot, 1)
	a.Equal([]AttribBinding{
		{Index: 0, Name: "position"},
		{Index: 1, Name: "normal"},
		{Index: 0, Name: "color"},
	}, snapshot[0].Bindings)

	rec, _ := p.Find(1)
	a.Len(rec.Bindings, 4)

	p.DeleteProgram(1)
	p.DeleteProgram(1)
	a.Equal(0, p.Len())
}

func TestProgramStore_attach(t *testing.T) {
	a := assert.New(t)
	s := NewShaderStore(0)
	p := NewProgramStore(s, 0)
	require.NoError(t, s.CreateShader(gl.VERTEX_SHADER, 1))
	require.NoError(t, p.CreateProgram(5))
	p.AttachShader(5, 1)
	p.AttachShader(5, 1)
	p.AttachShader(5, 99)

	rec, _ := p.Find(5)
	a.Equal([]uint32{1}, rec.Attached)
	p.MarkCaptured(5)
	rec, _ = p.Find(5)
	a.True(rec.AlreadyCaptured)
}

func TestProgramStore_growFailed(t *testing.T) {
	a := assert.New(t)
	p := NewProgramStore(NewShaderStore(0), 1)
	a.NoError(p.CreateProgram(1))
	a.True(errors.Is(p.CreateProgram(2), ErrGrowFailed))
	a.Equal(1, p.Len())
}

func TestStores_concurrent(t *testing.T) {
	const (
		workers = 8
		cycles  = 200
	)
	textures := NewTextureRegistry(0)
	shaders := NewShaderStore(0)
	programs := NewProgramStore(shaders, 0)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(base uint32) {
			defer wg.Done()
			for i := uint32(0); i < cycles; i++ {
				id := base + i*2 + 1
				assert.NoError(t, textures.Register([]uint32{id, id + 1}))
				assert.NoError(t, shaders.CreateShader(gl.VERTEX_SHADER, id))
				assert.NoError(t, shaders.SetSource(id, [][]byte{[]byte("void main() {}")}, nil))
				assert.NoError(t, programs.CreateProgram(id))
				programs.AttachShader(id, id)
				programs.BindAttribLocation(id, 0, "position")

				shaders.DeleteShader(id)
				programs.DeleteProgram(id)
				textures.Unregister([]uint32{id, id + 1})
			}
		}(uint32(w) * cycles * 4)
	}
	// readers run while the stores change
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < cycles; i++ {
			textures.Pending()
			shaders.Snapshot()
			programs.Snapshot()
		}
	}()
	wg.Wait()

	assert.Equal(t, 0, textures.Len())
	assert.Equal(t, 0, shaders.Len())
	assert.Equal(t, 0, programs.Len())
}
