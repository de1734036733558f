// Package objects keeps the GL objects that the single-frame capture has to
// recreate: textures, shaders and programs.
package objects

import (
	"github.com/pkg/errors"
)

// GrowSize is the number of records added each time a store runs out of
// capacity.
const GrowSize = 2048

// ErrGrowFailed is returned when a store cannot allocate more records.
// The store is left unchanged.
var ErrGrowFailed = errors.New("failed to grow the object store")

// capacity tracks the allocated size of a store. Stores grow in GrowSize
// chunks and never shrink.
type capacity struct {
	size int
	// maxRecords limits the size. 0 means no limit.
	maxRecords int
}

// reserve makes room for n records in total and returns the new size.
func (c *capacity) reserve(n int) (int, error) {
	if n <= c.size {
		return c.size, nil
	}
	if c.maxRecords > 0 && n > c.maxRecords {
		return c.size, errors.Wrapf(ErrGrowFailed, "%d records requested, limit is %d", n, c.maxRecords)
	}
	size := c.size
	for size < n {
		size += GrowSize
	}
	if c.maxRecords > 0 && size > c.maxRecords {
		size = c.maxRecords
	}
	c.size = size
	return size, nil
}
