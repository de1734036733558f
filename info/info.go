package info

import (
	"os"
	"path/filepath"
)

const (
	AppName = "glxtrace"
	Version = "0.1.0"

	DefaultConfigEnv       = "GLXTRACE_CONFIG"
	DefaultTraceFileEnv    = "TRACE_FILE"
	DefaultLibGLEnv        = "TRACE_LIBGL"
	DefaultCaptureModeEnv  = "GLXTRACE_SINGLE_FRAME_CAPTURE_MODE"
	DefaultTriggerFileEnv  = "GLXTRACE_TRIGGER_FILE"
	DefaultMaxObjectsEnv   = "GLXTRACE_MAX_OBJECTS"
	DefaultLogLevelEnv     = "GLXTRACE_LOG_LEVEL"
	DefaultTriggerFile     = "/tmp/glxtrace_capture_frame_now.txt"
	DefaultTraceFileSuffix = ".trace"
)

var (
	// ProcessName is the base name of the running executable.
	ProcessName = filepath.Base(os.Args[0])
)
