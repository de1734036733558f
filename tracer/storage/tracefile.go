package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/yuuki0xff/glxtrace/info"
	"github.com/yuuki0xff/glxtrace/tracer/tlog"
)

// TracePath returns the file a trace is written to. An explicit path is used
// as is. Otherwise it is the first of <dir>/<process>.trace,
// <dir>/<process>.1.trace, <dir>/<process>.2.trace ... that does not exist.
func TracePath(explicit, dir, process string) File {
	if explicit != "" {
		return File(explicit)
	}
	prefix := filepath.Join(dir, filepath.Base(process))
	for n := 0; ; n++ {
		var f File
		if n == 0 {
			f = File(prefix + info.DefaultTraceFileSuffix)
		} else {
			f = File(fmt.Sprintf("%s.%d%s", prefix, n, info.DefaultTraceFileSuffix))
		}
		if !f.Exists() {
			return f
		}
	}
}

// OpenTrace creates the trace file of the current process. It is used as
// the lazy output of the trace writer, so the file is only created when the
// first call is recorded.
func OpenTrace(explicit string) (*WriteBuffer, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get the current directory")
	}
	f := TracePath(explicit, dir, info.ProcessName)
	w, err := f.OpenWriteOnly()
	if err != nil {
		tlog.Error().Err(err).Str("file", string(f)).Msg("failed to open the trace")
		return nil, err
	}
	tlog.Info().Str("file", string(f)).Msg("tracing")
	return NewWriteBuffer(w), nil
}
