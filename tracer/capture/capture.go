// Package capture decides which calls are recorded in single-frame capture
// mode.
//
// Outside of a capture window only calls that a replay can not do without
// are recorded: GLX calls and display list compilation. A window is requested
// by writing a frame count into the trigger file. The request is picked up at
// the next buffer swap, the contexts are rebuilt, and the calls of the next
// frames are recorded.
package capture

import (
	"io/ioutil"
	"os"
	"strconv"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/yuuki0xff/glxtrace/tracer/tlog"
)

const (
	swapBuffers = "glXSwapBuffers"
	// requests larger than this are truncated when the file is read
	maxRequestSize = 256
)

type Config struct {
	Enabled     bool
	TriggerFile string
}

// Controller implements trace.Gate.
type Controller struct {
	lock   sync.Mutex
	config Config
	// mtime of the trigger file in seconds when the last request was seen
	lastMod int64
	// frames left in the current window, including the swap that opened
	// it. -1 outside of a window.
	remaining    int
	displayLists int
	rebuilt      mapset.Set
	log          zerolog.Logger
}

func New(config Config) *Controller {
	return &Controller{
		config:    config,
		remaining: -1,
		rebuilt:   mapset.NewSet(),
		log:       tlog.WithComponent("capture"),
	}
}

func (c *Controller) Enabled() bool {
	return c.config.Enabled
}

// Init resets the trigger file. It does nothing if capture mode is disabled.
func (c *Controller) Init() error {
	if !c.config.Enabled {
		return nil
	}
	if err := ioutil.WriteFile(c.config.TriggerFile, []byte("0"), 0666); err != nil {
		return errors.Wrap(err, "failed to reset the trigger file")
	}
	st, err := os.Stat(c.config.TriggerFile)
	if err != nil {
		return errors.Wrap(err, "failed to stat the trigger file")
	}

	c.lock.Lock()
	c.lastMod = st.ModTime().Unix()
	c.lock.Unlock()
	c.log.Info().Str("trigger", c.config.TriggerFile).Msg("single-frame capture mode")
	return nil
}

// Close removes the trigger file.
func (c *Controller) Close() error {
	if !c.config.Enabled {
		return nil
	}
	if err := os.Remove(c.config.TriggerFile); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove the trigger file")
	}
	return nil
}

// ShouldWrite reports whether the call named name is recorded.
func (c *Controller) ShouldWrite(name string) bool {
	if !c.config.Enabled {
		return true
	}
	c.lock.Lock()
	defer c.lock.Unlock()

	swap := name == swapBuffers
	if name == "glGenLists" {
		c.displayLists++
	}
	forced := c.displayLists > 0
	if strings.HasPrefix(name, "glX") && !(swap && c.remaining < 0) {
		forced = name != "glXWaitGL" && name != "glXWaitX"
	}
	if forced && name == "glEndList" {
		c.displayLists--
	}
	return forced || c.remaining > 0
}

// EndSwap counts a finished buffer swap. It returns true if a capture window
// was opened by the swap; the contexts must be rebuilt before their next
// call.
func (c *Controller) EndSwap() bool {
	if !c.config.Enabled {
		return false
	}
	c.lock.Lock()
	defer c.lock.Unlock()

	// a request is accepted only after the previous window was closed
	opened := c.remaining < 0 && c.checkRequest()
	if opened {
		c.rebuilt.Clear()
	}
	if c.remaining >= 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.remaining = -1
		c.log.Info().Msg("capture window closed")
	}
	return opened
}

func (c *Controller) checkRequest() bool {
	st, err := os.Stat(c.config.TriggerFile)
	if err != nil {
		return false
	}
	mod := st.ModTime().Unix()
	if mod-c.lastMod < 1 {
		return false
	}
	c.lastMod = mod

	data, err := ioutil.ReadFile(c.config.TriggerFile)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to read the trigger file")
		return false
	}
	if len(data) > maxRequestSize {
		data = data[:maxRequestSize]
	}
	frames := parseFrames(data)
	if frames <= 0 {
		return false
	}
	c.remaining = frames + 1
	c.log.Info().Int("frames", frames).Msg("capture window opened")
	return true
}

// parseFrames reads the leading integer of data. Anything else is 0.
func parseFrames(data []byte) int {
	s := strings.TrimLeft(string(data), " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// Capturing reports whether the calls of the current frame are recorded.
func (c *Controller) Capturing() bool {
	if !c.config.Enabled {
		return true
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.remaining > 0
}

// NeedsRebuild reports whether the context has not been rebuilt in the
// current window.
func (c *Controller) NeedsRebuild(handle uintptr) bool {
	return c.config.Enabled && c.Capturing() && !c.rebuilt.Contains(handle)
}

func (c *Controller) MarkRebuilt(handle uintptr) {
	c.rebuilt.Add(handle)
}

// Forget drops a destroyed context.
func (c *Controller) Forget(handle uintptr) {
	c.rebuilt.Remove(handle)
}

// Request asks a traced process to capture frames by writing the trigger
// file.
func Request(triggerFile string, frames int) error {
	if frames <= 0 {
		return errors.Errorf("invalid frame count: %d", frames)
	}
	data := []byte(strconv.Itoa(frames))
	if err := ioutil.WriteFile(triggerFile, data, 0666); err != nil {
		return errors.Wrap(err, "failed to write the trigger file")
	}
	return nil
}
