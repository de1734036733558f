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
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yuuki0xff/glxtrace/tracer/storage"
	"github.com/yuuki0xff/glxtrace/tracer/trace"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:                   "dump [flags] <trace-file>",
	DisableFlagsInUseLine: true,
	Short:                 "Print the calls of a trace",
	RunE:                  wrap(runDump),
}

type funcStats struct {
	Name  string
	Calls int
	Fake  int
}

func runDump(opt *handlerOpt) error {
	if len(opt.Args) != 1 {
		opt.ErrLog.Println("missing trace file")
		return errInvalidArgs
	}
	opts, stats := dumpOptions(opt.Cmd.Flags())

	data, err := storage.File(opt.Args[0]).ReadAll()
	if err != nil {
		opt.ErrLog.Println(err)
		return errIo
	}
	calls, parseErr := trace.ParseAll(data)
	if parseErr != nil && len(calls) == 0 {
		opt.ErrLog.Println(parseErr)
		return errGeneral
	}

	if stats {
		renderStats(opt, calls)
	} else if err := trace.Dump(opt.Stdout, calls, opts); err != nil {
		opt.ErrLog.Println(err)
		return errIo
	}
	if parseErr != nil {
		// the process may have been killed while writing
		opt.ErrLog.Printf("trace is truncated after %d calls: %s", len(calls), parseErr)
		return errGeneral
	}
	return nil
}

func dumpOptions(flags *pflag.FlagSet) (trace.DumpOptions, bool) {
	threadIDs, _ := flags.GetBool("thread-ids")
	noArgNames, _ := flags.GetBool("no-arg-names")
	stats, _ := flags.GetBool("stats")
	return trace.DumpOptions{
		ThreadIDs:  threadIDs,
		NoArgNames: noArgNames,
	}, stats
}

// countCalls returns the number of calls per function, most called first.
func countCalls(calls []*trace.Call) []funcStats {
	m := map[string]*funcStats{}
	for _, c := range calls {
		s, ok := m[c.Name()]
		if !ok {
			s = &funcStats{Name: c.Name()}
			m[c.Name()] = s
		}
		s.Calls++
		if c.Fake {
			s.Fake++
		}
	}

	list := make([]funcStats, 0, len(m))
	for _, s := range m {
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Calls != list[j].Calls {
			return list[i].Calls > list[j].Calls
		}
		return list[i].Name < list[j].Name
	})
	return list
}

func renderStats(opt *handlerOpt, calls []*trace.Call) {
	tbl := defaultTable(opt.Stdout)
	tbl.SetHeader([]string{
		"function",
		"calls",
		"fake",
	})
	for _, s := range countCalls(calls) {
		tbl.Append([]string{
			s.Name,
			strconv.Itoa(s.Calls),
			strconv.Itoa(s.Fake),
		})
	}
	tbl.Render()
}

func init() {
	RootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Bool("thread-ids", false, "print the thread of each call")
	dumpCmd.Flags().Bool("no-arg-names", false, "omit argument names")
	dumpCmd.Flags().Bool("stats", false, "print the number of calls per function instead of the calls")
}
