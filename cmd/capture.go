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
	"strconv"

	"github.com/spf13/cobra"
	"github.com/yuuki0xff/glxtrace/tracer/capture"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:                   "capture [<frames>]",
	DisableFlagsInUseLine: true,
	Short:                 "Request a capture from traced processes",
	Long: `Request a capture of the next frames from the processes that are traced in
single-frame capture mode. The request is picked up at the next buffer swap.`,
	RunE: wrap(runCapture),
}

func runCapture(opt *handlerOpt) error {
	if len(opt.Args) > 1 {
		opt.ErrLog.Println("too many arguments")
		return errInvalidArgs
	}
	frames := 1
	if len(opt.Args) == 1 {
		var err error
		frames, err = strconv.Atoi(opt.Args[0])
		if err != nil || frames <= 0 {
			opt.ErrLog.Printf("invalid frame count: %s", opt.Args[0])
			return errInvalidArgs
		}
	}

	triggerFile, err := opt.Cmd.Flags().GetString("trigger-file")
	if err != nil {
		opt.ErrLog.Println(err)
		return errGeneral
	}
	if triggerFile == "" {
		triggerFile = opt.Conf.TriggerFile
	}
	if err := capture.Request(triggerFile, frames); err != nil {
		opt.ErrLog.Println(err)
		return errIo
	}
	return nil
}

func init() {
	RootCmd.AddCommand(captureCmd)
	captureCmd.Flags().String("trigger-file", "", "trigger file of the traced processes (default is the configured one)")
}
