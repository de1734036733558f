// Package storage names, opens and buffers trace files.
package storage

import (
	"io"
	"io/ioutil"
	"math/rand"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/yuuki0xff/glxtrace/config"
)

type FileWriter interface {
	io.Writer
	io.Closer
}

// File is a path of a file.
type File string

func (f File) Remove() error {
	return os.Remove(string(f))
}

// Exists reports whether the file exists.
func (f File) Exists() bool {
	_, err := os.Stat(string(f))
	return err == nil
}

// Size returns the size of the file, or 0 if it does not exist.
func (f File) Size() (int64, error) {
	stat, err := os.Stat(string(f))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	return stat.Size(), nil
}

// OpenWriteOnly opens the file for writing. Existing data is truncated.
func (f File) OpenWriteOnly() (FileWriter, error) {
	file, err := os.OpenFile(string(f), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, config.DefaultFilePerm)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s for writing", string(f))
	}
	return file, nil
}

func (f File) ReadAll() ([]byte, error) {
	data, err := ioutil.ReadFile(string(f))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", string(f))
	}
	return data, nil
}

// WriteAll replaces the contents of the file atomically.
func (f File) WriteAll(data []byte) error {
	newf := f.new()
	if err := ioutil.WriteFile(string(newf), data, config.DefaultFilePerm); err != nil {
		return errors.Wrapf(err, "cannot write %s", string(newf))
	}
	return os.Rename(string(newf), string(f))
}

func (f File) new() File {
	return File(string(f) + ".new." + strconv.FormatUint(rand.Uint64(), 10))
}
