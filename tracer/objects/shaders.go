package objects

import (
	"bytes"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yuuki0xff/glxtrace/tracer/gl"
	"github.com/yuuki0xff/glxtrace/tracer/tlog"
)

// Fragment is one source string of a shader.
type Fragment struct {
	// Text holds Length bytes.
	Text   []byte
	Length uint32
	// Explicit is true if the application supplied the length. Otherwise the
	// text was NUL terminated and Length includes the terminator.
	Explicit bool
}

// String returns the source text without the NUL terminator.
func (f Fragment) String() string {
	if !f.Explicit && len(f.Text) > 0 && f.Text[len(f.Text)-1] == 0 {
		return string(f.Text[:len(f.Text)-1])
	}
	return string(f.Text)
}

type ShaderRecord struct {
	ID      uint32
	Type    gl.Enum
	Sources []Fragment
	// AlreadyCaptured is never cleared.
	AlreadyCaptured bool
	// Deleted is set when the application deleted the shader while it was
	// still attached to a program. The record goes away with the last
	// attachment.
	Deleted bool

	attachments int
}

// HasExplicitLengths reports whether any fragment has an application
// supplied length.
func (r *ShaderRecord) HasExplicitLengths() bool {
	for _, f := range r.Sources {
		if f.Explicit {
			return true
		}
	}
	return false
}

// ShaderStore tracks shader objects and their latest source.
type ShaderStore struct {
	lock    sync.Mutex
	records []ShaderRecord
	alloc   capacity
	log     zerolog.Logger
}

func NewShaderStore(maxRecords int) *ShaderStore {
	return &ShaderStore{
		alloc: capacity{maxRecords: maxRecords},
		log:   tlog.WithComponent("objects"),
	}
}

func (s *ShaderStore) index(id uint32) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// add appends a record. The lock must be held.
func (s *ShaderStore) add(rec ShaderRecord) (int, error) {
	size, err := s.alloc.reserve(len(s.records) + 1)
	if err != nil {
		s.log.Warn().Err(err).Uint32("shader", rec.ID).Msg("shader is not tracked")
		return -1, err
	}
	if cap(s.records) < size {
		records := make([]ShaderRecord, len(s.records), size)
		copy(records, s.records)
		s.records = records
	}
	s.records = append(s.records, rec)
	return len(s.records) - 1, nil
}

// CreateShader adds a shader without source. Name 0 and known names are
// ignored.
func (s *ShaderStore) CreateShader(typ gl.Enum, id uint32) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if id == 0 || s.index(id) >= 0 {
		return nil
	}
	_, err := s.add(ShaderRecord{ID: id, Type: typ})
	return err
}

// SetSource replaces the source of a shader. A fragment without length
// (lengths is nil or the entry is negative) is read up to its NUL
// terminator and keeps it, so its length is strlen+1. An unknown shader is
// added with type 0.
func (s *ShaderStore) SetSource(id uint32, strings [][]byte, lengths []int32) error {
	if id == 0 {
		return nil
	}
	sources := make([]Fragment, len(strings))
	for i, str := range strings {
		if lengths != nil && i < len(lengths) && lengths[i] >= 0 {
			n := int(lengths[i])
			if n > len(str) {
				n = len(str)
			}
			sources[i] = Fragment{
				Text:     append([]byte(nil), str[:n]...),
				Length:   uint32(lengths[i]),
				Explicit: true,
			}
			continue
		}
		if n := bytes.IndexByte(str, 0); n >= 0 {
			str = str[:n]
		}
		text := make([]byte, len(str)+1)
		copy(text, str)
		sources[i] = Fragment{
			Text:   text,
			Length: uint32(len(text)),
		}
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	i := s.index(id)
	if i < 0 {
		var err error
		if i, err = s.add(ShaderRecord{ID: id}); err != nil {
			return err
		}
	}
	s.records[i].Sources = sources
	return nil
}

// DeleteShader removes a shader. A shader that is still attached is only
// flagged as deleted.
func (s *ShaderStore) DeleteShader(id uint32) {
	s.lock.Lock()
	defer s.lock.Unlock()
	i := s.index(id)
	if i < 0 {
		return
	}
	if s.records[i].attachments > 0 {
		s.records[i].Deleted = true
		return
	}
	s.remove(i)
}

func (s *ShaderStore) remove(i int) {
	s.records = append(s.records[:i], s.records[i+1:]...)
}

// attach counts an attachment and reports whether the shader is known.
func (s *ShaderStore) attach(id uint32) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.records[i].attachments++
	return true
}

// release drops an attachment and evicts a deleted shader when it was the
// last one.
func (s *ShaderStore) release(id uint32) {
	s.lock.Lock()
	defer s.lock.Unlock()
	i := s.index(id)
	if i < 0 {
		return
	}
	if s.records[i].attachments > 0 {
		s.records[i].attachments--
	}
	if s.records[i].attachments == 0 && s.records[i].Deleted {
		s.remove(i)
	}
}

func (s *ShaderStore) Find(id uint32) (ShaderRecord, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if i := s.index(id); i >= 0 {
		return s.records[i], true
	}
	return ShaderRecord{}, false
}

// Snapshot returns a copy of all records in creation order. Sources are
// shared with the store and must not be modified.
func (s *ShaderStore) Snapshot() []ShaderRecord {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]ShaderRecord(nil), s.records...)
}

func (s *ShaderStore) MarkCaptured(id uint32) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if i := s.index(id); i >= 0 {
		s.records[i].AlreadyCaptured = true
	}
}

func (s *ShaderStore) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.records)
}
