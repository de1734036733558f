package objects

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/yuuki0xff/glxtrace/tracer/tlog"
)

// TextureRecord is a texture name known to the application.
type TextureRecord struct {
	ID uint32
	// AlreadyCaptured is set once the texture was written into the trace.
	// It is never cleared.
	AlreadyCaptured bool
}

// TextureRegistry holds the live texture names in creation order.
type TextureRegistry struct {
	lock    sync.Mutex
	records []TextureRecord
	alloc   capacity
	log     zerolog.Logger
}

// NewTextureRegistry returns an empty registry. maxRecords limits the number
// of records; 0 means no limit.
func NewTextureRegistry(maxRecords int) *TextureRegistry {
	return &TextureRegistry{
		alloc: capacity{maxRecords: maxRecords},
		log:   tlog.WithComponent("objects"),
	}
}

func (r *TextureRegistry) index(id uint32) int {
	for i := range r.records {
		if r.records[i].ID == id {
			return i
		}
	}
	return -1
}

// Register adds ids that are not known yet. Name 0 and duplicates are
// skipped. If the registry cannot grow, nothing is added.
func (r *TextureRegistry) Register(ids []uint32) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	var added []uint32
	for _, id := range ids {
		if id == 0 || r.index(id) >= 0 || containsID(added, id) {
			continue
		}
		added = append(added, id)
	}
	if len(added) == 0 {
		return nil
	}

	size, err := r.alloc.reserve(len(r.records) + len(added))
	if err != nil {
		r.log.Warn().Err(err).Int("textures", len(added)).Msg("textures are not tracked")
		return err
	}
	if cap(r.records) < size {
		records := make([]TextureRecord, len(r.records), size)
		copy(records, r.records)
		r.records = records
	}
	for _, id := range added {
		r.records = append(r.records, TextureRecord{ID: id})
	}
	return nil
}

// Unregister removes ids. The remaining records keep their order.
func (r *TextureRegistry) Unregister(ids []uint32) {
	r.lock.Lock()
	defer r.lock.Unlock()

	kept := r.records[:0]
	for _, rec := range r.records {
		if !containsID(ids, rec.ID) {
			kept = append(kept, rec)
		}
	}
	r.records = kept
}

func (r *TextureRegistry) Find(id uint32) (TextureRecord, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if i := r.index(id); i >= 0 {
		return r.records[i], true
	}
	return TextureRecord{}, false
}

// Pending returns the textures that were not captured yet.
func (r *TextureRegistry) Pending() []TextureRecord {
	r.lock.Lock()
	defer r.lock.Unlock()
	var pending []TextureRecord
	for _, rec := range r.records {
		if !rec.AlreadyCaptured {
			pending = append(pending, rec)
		}
	}
	return pending
}

func (r *TextureRegistry) MarkCaptured(id uint32) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if i := r.index(id); i >= 0 {
		r.records[i].AlreadyCaptured = true
	}
}

// IDs returns the registered names in creation order.
func (r *TextureRegistry) IDs() []uint32 {
	r.lock.Lock()
	defer r.lock.Unlock()
	ids := make([]uint32, len(r.records))
	for i := range r.records {
		ids[i] = r.records[i].ID
	}
	return ids
}

func (r *TextureRegistry) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.records)
}

// Cap returns the number of allocated records.
func (r *TextureRegistry) Cap() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.alloc.size
}

func containsID(ids []uint32, id uint32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
