package storage

import (
	"github.com/pkg/errors"
	"github.com/yuuki0xff/glxtrace/tracer/util"
)

const DefaultBufferSize = 1 << 20

// WriteBuffer buffers writes to a trace file. Writes larger than the buffer
// bypass it.
type WriteBuffer struct {
	W          FileWriter
	BufferSize int

	buf []byte
}

func NewWriteBuffer(w FileWriter) *WriteBuffer {
	return &WriteBuffer{
		W:          w,
		BufferSize: DefaultBufferSize,
	}
}

// Buffered returns the number of bytes that are not written yet.
func (b *WriteBuffer) Buffered() int {
	return len(b.buf)
}

func (b *WriteBuffer) Write(data []byte) (int, error) {
	if len(b.buf)+len(data) > b.BufferSize {
		if err := b.Flush(); err != nil {
			return 0, err
		}
	}
	if len(data) >= b.BufferSize {
		if err := b.write(data); err != nil {
			return 0, err
		}
		return len(data), nil
	}
	if b.buf == nil {
		b.buf = make([]byte, 0, b.BufferSize)
	}
	b.buf = append(b.buf, data...)
	return len(data), nil
}

// Flush writes the buffered data.
func (b *WriteBuffer) Flush() error {
	if len(b.buf) == 0 {
		return nil
	}
	err := b.write(b.buf)
	b.buf = b.buf[:0]
	return err
}

func (b *WriteBuffer) write(data []byte) error {
	n, err := b.W.Write(data)
	if err != nil {
		return errors.Wrap(err, "failed to write the trace")
	}
	if n != len(data) {
		return util.ErrPartialWrite
	}
	return nil
}

// Close flushes the buffer and closes the file.
func (b *WriteBuffer) Close() error {
	flushErr := b.Flush()
	if err := b.W.Close(); err != nil {
		return errors.Wrap(err, "failed to close the trace")
	}
	return flushErr
}
