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
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the configuration of traced processes",
	Long: `Show the configuration that a process started from this environment would
use. Values are read from the config file and the environment variables.`,
	RunE: wrap(runConfig),
}

func runConfig(opt *handlerOpt) error {
	c := opt.Conf
	tbl := defaultTable(opt.Stdout)
	tbl.SetHeader([]string{
		"name",
		"value",
	})
	tbl.AppendBulk([][]string{
		{"trace_file", c.TraceFile},
		{"libgl", c.LibGL},
		{"single_frame_capture", strconv.FormatBool(c.SingleFrameCapture)},
		{"trigger_file", c.TriggerFile},
		{"max_objects", strconv.Itoa(c.MaxObjects)},
		{"log_level", c.LogLevel},
		{"log_output", c.LogOutput},
	})
	tbl.Render()
	return nil
}

func init() {
	RootCmd.AddCommand(configCmd)
}
