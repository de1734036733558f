package util

import (
	"io/ioutil"
	"os"
)

// WithTempDir create a temporary directory and chdir into it.
func WithTempDir(fn func()) {
	dir, err := ioutil.TempDir("", ".glxtrace.test")
	if err != nil {
		panic(err)
	}
	defer func() {
		err = os.Chdir("/")
		if err != nil {
			panic(err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			panic(err)
		}
	}()

	err = os.Chdir(dir)
	if err != nil {
		panic(err)
	}

	fn()
}
