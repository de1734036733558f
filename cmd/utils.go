// Copyright © 2017 yuuki0xff <yuuki0xff@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yuuki0xff/glxtrace/config"
	"github.com/yuuki0xff/glxtrace/info"
)

// errors returned by func(*handlerOpt) error
var (
	errGeneral     = errors.New("general error")
	errInvalidArgs = errors.New("invalid args")
	errIo          = errors.New("io error")
)

func Execute() int {
	err := RootCmd.Execute()
	switch errors.Cause(err) {
	case nil:
		return 0
	case errGeneral:
		return 1
	case errInvalidArgs:
		// EX_USAGE 64
		return 64
	case errIo:
		// EX_IOERR 74
		return 74
	default:
		// Unknown error
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
}

type cobraHandler func(cmd *cobra.Command, args []string) error
type handlerOpt struct {
	Conf   *config.TracerConfig
	Cmd    *cobra.Command
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
	ErrLog *log.Logger
}

func wrap(fn func(*handlerOpt) error) cobraHandler {
	return func(cmd *cobra.Command, args []string) error {
		errLog := log.New(cmd.ErrOrStderr(), "ERROR: ", 0)
		c, err := getConfig()
		if err != nil {
			errLog.Println(err)
			return errGeneral
		}

		ha := handlerOpt{
			Conf:   c,
			Cmd:    cmd,
			Args:   args,
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
			ErrLog: errLog,
		}
		return fn(&ha)
	}
}

// getConfig loads the configuration the traced processes see, so the
// commands agree with them on file names.
func getConfig() (*config.TracerConfig, error) {
	file := cfgFile
	if file == "" {
		file = os.Getenv(info.DefaultConfigEnv)
	}
	return config.Load(viper.New(), file)
}
