package objects

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/yuuki0xff/glxtrace/tracer/tlog"
)

// AttribBinding is an explicit glBindAttribLocation call.
type AttribBinding struct {
	Index int32
	Name  string
}

type ProgramRecord struct {
	ID uint32
	// Bindings are kept in call order. The same index or name may appear
	// more than once.
	Bindings []AttribBinding
	// Attached lists the tracked shaders attached by the application.
	Attached        []uint32
	AlreadyCaptured bool
}

// ProgramStore tracks program objects. It keeps the attachment counts of
// the shader store up to date, so its lock is always taken before the
// shader store's.
type ProgramStore struct {
	lock    sync.Mutex
	records []ProgramRecord
	alloc   capacity
	shaders *ShaderStore
	log     zerolog.Logger
}

func NewProgramStore(shaders *ShaderStore, maxRecords int) *ProgramStore {
	return &ProgramStore{
		alloc:   capacity{maxRecords: maxRecords},
		shaders: shaders,
		log:     tlog.WithComponent("objects"),
	}
}

func (p *ProgramStore) index(id uint32) int {
	for i := range p.records {
		if p.records[i].ID == id {
			return i
		}
	}
	return -1
}

// CreateProgram adds a program without bindings. Name 0 and known names are
// ignored.
func (p *ProgramStore) CreateProgram(id uint32) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if id == 0 || p.index(id) >= 0 {
		return nil
	}
	size, err := p.alloc.reserve(len(p.records) + 1)
	if err != nil {
		p.log.Warn().Err(err).Uint32("program", id).Msg("program is not tracked")
		return err
	}
	if cap(p.records) < size {
		records := make([]ProgramRecord, len(p.records), size)
		copy(records, p.records)
		p.records = records
	}
	p.records = append(p.records, ProgramRecord{ID: id})
	return nil
}

// BindAttribLocation appends a binding to a known program.
func (p *ProgramStore) BindAttribLocation(program uint32, index int32, name string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	i := p.index(program)
	if program == 0 || i < 0 {
		return
	}
	rec := &p.records[i]
	bindings := make([]AttribBinding, len(rec.Bindings), len(rec.Bindings)+1)
	copy(bindings, rec.Bindings)
	rec.Bindings = append(bindings, AttribBinding{Index: index, Name: name})
}

// DeleteProgram removes a program with its bindings and attachments.
func (p *ProgramStore) DeleteProgram(id uint32) {
	p.lock.Lock()
	defer p.lock.Unlock()
	i := p.index(id)
	if id == 0 || i < 0 {
		return
	}
	for _, shader := range p.records[i].Attached {
		p.shaders.release(shader)
	}
	p.records = append(p.records[:i], p.records[i+1:]...)
}

// AttachShader records an attachment of a tracked shader.
func (p *ProgramStore) AttachShader(program, shader uint32) {
	p.lock.Lock()
	defer p.lock.Unlock()
	i := p.index(program)
	if i < 0 || containsID(p.records[i].Attached, shader) {
		return
	}
	if !p.shaders.attach(shader) {
		return
	}
	rec := &p.records[i]
	attached := make([]uint32, len(rec.Attached), len(rec.Attached)+1)
	copy(attached, rec.Attached)
	rec.Attached = append(attached, shader)
}

func (p *ProgramStore) DetachShader(program, shader uint32) {
	p.lock.Lock()
	defer p.lock.Unlock()
	i := p.index(program)
	if i < 0 || !containsID(p.records[i].Attached, shader) {
		return
	}
	var attached []uint32
	for _, id := range p.records[i].Attached {
		if id != shader {
			attached = append(attached, id)
		}
	}
	p.records[i].Attached = attached
	p.shaders.release(shader)
}

func (p *ProgramStore) Find(id uint32) (ProgramRecord, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if i := p.index(id); i >= 0 {
		return p.records[i], true
	}
	return ProgramRecord{}, false
}

// Snapshot returns a copy of all records in creation order.
func (p *ProgramStore) Snapshot() []ProgramRecord {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]ProgramRecord(nil), p.records...)
}

func (p *ProgramStore) MarkCaptured(id uint32) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if i := p.index(id); i >= 0 {
		p.records[i].AlreadyCaptured = true
	}
}

func (p *ProgramStore) Len() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.records)
}
