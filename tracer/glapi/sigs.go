// Package glapi holds the call and enum signatures written into traces.
package glapi

import (
	"sort"
	"sync"

	"github.com/yuuki0xff/glxtrace/tracer/gl"
)

// SigID identifies a signature inside one trace.
type SigID uint32

// FunctionSig describes the name and argument names of an entry point.
type FunctionSig struct {
	ID       SigID
	Name     string
	ArgNames []string
}

type EnumValue struct {
	Name  string
	Value int64
}

// EnumSig is the symbol table used to print an enum argument.
type EnumSig struct {
	ID     SigID
	Values []EnumValue
}

// Lookup returns the symbolic name of v.
func (s *EnumSig) Lookup(v int64) (string, bool) {
	for _, ev := range s.Values {
		if ev.Value == v {
			return ev.Name, true
		}
	}
	return "", false
}

// Registry assigns signature IDs. The zero value is ready to use.
type Registry struct {
	lock  sync.RWMutex
	funcs []*FunctionSig
	names map[string]*FunctionSig
	enums []*EnumSig
}

// Function returns the signature of name, creating it on first use.
// Argument names of an existing signature are not changed.
func (r *Registry) Function(name string, argNames ...string) *FunctionSig {
	r.lock.RLock()
	sig, ok := r.names[name]
	r.lock.RUnlock()
	if ok {
		return sig
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if sig, ok := r.names[name]; ok {
		return sig
	}
	if r.names == nil {
		r.names = map[string]*FunctionSig{}
	}
	sig = &FunctionSig{
		ID:       SigID(len(r.funcs)),
		Name:     name,
		ArgNames: argNames,
	}
	r.funcs = append(r.funcs, sig)
	r.names[name] = sig
	return sig
}

// Lookup returns the signature registered for name.
func (r *Registry) Lookup(name string) (*FunctionSig, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	sig, ok := r.names[name]
	return sig, ok
}

// Enum registers a new enum symbol table.
func (r *Registry) Enum(values []EnumValue) *EnumSig {
	r.lock.Lock()
	defer r.lock.Unlock()
	sig := &EnumSig{
		ID:     SigID(len(r.enums)),
		Values: values,
	}
	r.enums = append(r.enums, sig)
	return sig
}

// Default is the process-wide signature registry.
var Default = &Registry{}

// GLenum is the symbol table of GLenum arguments.
var GLenum = Default.Enum(glenumValues())

func glenumValues() []EnumValue {
	var values []EnumValue
	for v, name := range gl.Names() {
		values = append(values, EnumValue{Name: name, Value: int64(v)})
	}
	sort.Slice(values, func(i, j int) bool {
		return values[i].Value < values[j].Value
	})
	return values
}
