// Package dlopen redirects applications that load libGL with dlopen to the
// tracer.
//
// Symbols that an application looks up with dlsym on a handle of the real
// libGL are not intercepted by LD_PRELOAD. The dlopen hook asks the
// Redirector whether the handle must be replaced by a handle of the tracer's
// own shared object.
package dlopen

import (
	"sync"

	mapset "github.com/deckarep/golang-set"
	"github.com/rs/zerolog"
	"github.com/yuuki0xff/glxtrace/tracer/tlog"
)

// DefaultNames are the library names that are redirected. Absolute paths and
// other sonames are not.
var DefaultNames = []string{"libGL.so", "libGL.so.1"}

type Redirector struct {
	lock sync.Mutex
	// libGL is the library named by TRACE_LIBGL. Redirection is disabled
	// when it is set.
	libGL string
	// self is the path of the tracer's shared object.
	self  string
	names mapset.Set
	real  uintptr
	log   zerolog.Logger
}

// NewRedirector returns a redirector. self is the file name of the tracer's
// shared object, or empty if it could not be determined.
func NewRedirector(libGL, self string) *Redirector {
	names := mapset.NewSet()
	for _, name := range DefaultNames {
		names.Add(name)
	}
	return &Redirector{
		libGL: libGL,
		self:  self,
		names: names,
		log:   tlog.WithComponent("dlopen"),
	}
}

// Resolve is called after the real dlopen(filename, flag) returned handle.
// It returns the file that must be opened instead, and true if the handle
// must be replaced.
func (r *Redirector) Resolve(filename string, flag int, handle uintptr) (string, bool) {
	if filename == "" || handle == 0 || r.libGL != "" {
		return "", false
	}
	if !r.names.Contains(filename) {
		return "", false
	}

	r.lock.Lock()
	// GL entry points are resolved on the real libGL from now on
	r.real = handle
	r.lock.Unlock()

	if r.self == "" {
		r.log.Warn().Str("file", filename).Msg("cannot find the tracer library; dlopen is not redirected")
		return "", false
	}
	r.log.Info().Str("file", filename).Int("flag", flag).Msg("redirecting dlopen")
	return r.self, true
}

// RealHandle returns the handle of the real libGL, or 0 if the application
// did not open it with dlopen.
func (r *Redirector) RealHandle() uintptr {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.real
}

// Disabled reports whether TRACE_LIBGL disabled the redirection.
func (r *Redirector) Disabled() bool {
	return r.libGL != ""
}

// Library returns the file that provides the real GL entry points.
func (r *Redirector) Library() string {
	if r.libGL != "" {
		return r.libGL
	}
	return DefaultNames[1]
}
