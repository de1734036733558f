package storage

import (
	"bytes"
	"io/ioutil"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuuki0xff/glxtrace/tracer/util"
)

type wbTestHelper struct {
	t    *testing.T
	name string
	fn   func(helper *wbTestHelperArgs)
}
type wbTestHelperArgs struct {
	t       *testing.T
	a       *assert.Assertions
	writer  FileWriter
	readAll func() []byte
}

func (h wbTestHelper) Run() {
	util.WithTempDir(func() {
		const tmpfile = "buffer.out"
		w, err := File(tmpfile).OpenWriteOnly()
		if err != nil {
			panic(err)
		}

		h.t.Run(h.name, func(t *testing.T) {
			h.fn(&wbTestHelperArgs{
				t:      t,
				a:      assert.New(t),
				writer: w,
				readAll: func() []byte {
					data, err := ioutil.ReadFile(tmpfile)
					if err != nil {
						panic(err)
					}
					return data
				},
			})
		})
	})
}

func TestWriteBuffer_Write(t *testing.T) {
	wbTestHelper{
		t:    t,
		name: "buffered",
		fn: func(helper *wbTestHelperArgs) {
			a := helper.a
			wb := &WriteBuffer{
				W:          helper.writer,
				BufferSize: 8,
			}
			n, err := wb.Write([]byte{1, 2, 3})
			a.NoError(err)
			a.Equal(3, n)
			a.Equal(3, wb.Buffered())
			a.Empty(helper.readAll())

			// does not fit into the buffer
			_, err = wb.Write([]byte{4, 5, 6, 7, 8, 9})
			a.NoError(err)
			a.Equal([]byte{1, 2, 3}, helper.readAll())
			a.Equal(6, wb.Buffered())

			a.NoError(wb.Close())
			a.Equal([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9}, helper.readAll())
		},
	}.Run()
	wbTestHelper{
		t:    t,
		name: "large write",
		fn: func(helper *wbTestHelperArgs) {
			a := helper.a
			wb := &WriteBuffer{
				W:          helper.writer,
				BufferSize: 4,
			}
			_, err := wb.Write([]byte{1})
			a.NoError(err)
			_, err = wb.Write([]byte{2, 3, 4, 5, 6})
			a.NoError(err)
			a.Equal(0, wb.Buffered())
			a.Equal([]byte{1, 2, 3, 4, 5, 6}, helper.readAll())
			a.NoError(wb.Close())
		},
	}.Run()
}

type shortWriter struct {
	bytes.Buffer
	closed bool
}

func (w *shortWriter) Write(data []byte) (int, error) {
	return w.Buffer.Write(data[:len(data)/2])
}

func (w *shortWriter) Close() error {
	w.closed = true
	return nil
}

func TestWriteBuffer_partialWrite(t *testing.T) {
	w := &shortWriter{}
	wb := NewWriteBuffer(w)
	_, err := wb.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	err = wb.Close()
	assert.True(t, errors.Is(err, util.ErrPartialWrite))
	assert.True(t, w.closed)
}
