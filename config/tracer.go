package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/yuuki0xff/glxtrace/info"
)

const DefaultFilePerm = 0666

// TracerConfig is the configuration of the tracer inside of the traced
// process.
type TracerConfig struct {
	// TraceFile overrides the trace file name.
	TraceFile string `mapstructure:"trace_file"`
	// LibGL disables the dlopen redirection of libGL when it is not empty.
	LibGL              string `mapstructure:"libgl"`
	SingleFrameCapture bool   `mapstructure:"single_frame_capture"`
	TriggerFile        string `mapstructure:"trigger_file"`
	// MaxObjects limits the records of each object store. 0 is unlimited.
	MaxObjects int    `mapstructure:"max_objects"`
	LogLevel   string `mapstructure:"log_level"`
	LogOutput  string `mapstructure:"log_output"`
}

// Load reads the configuration from the environment and from file, if file
// is not empty. Environment variables take precedence over the file.
func Load(v *viper.Viper, file string) (*TracerConfig, error) {
	v.SetDefault("trace_file", "")
	v.SetDefault("libgl", "")
	v.SetDefault("single_frame_capture", false)
	v.SetDefault("trigger_file", info.DefaultTriggerFile)
	v.SetDefault("max_objects", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_output", "stderr")

	for key, env := range map[string]string{
		"trace_file":   info.DefaultTraceFileEnv,
		"libgl":        info.DefaultLibGLEnv,
		"trigger_file": info.DefaultTriggerFileEnv,
		"max_objects":  info.DefaultMaxObjectsEnv,
		"log_level":    info.DefaultLogLevelEnv,
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Wrapf(err, "failed to bind %s", env)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", file)
		}
	}

	c := &TracerConfig{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	// the capture mode is enabled by the presence of the variable
	if _, ok := os.LookupEnv(info.DefaultCaptureModeEnv); ok {
		c.SingleFrameCapture = true
	}
	if c.MaxObjects < 0 {
		return nil, errors.Errorf("max_objects must not be negative: %d", c.MaxObjects)
	}
	return c, nil
}

// LoadDefault loads the configuration of a traced process. The config file
// is named by GLXTRACE_CONFIG.
func LoadDefault() (*TracerConfig, error) {
	return Load(viper.New(), os.Getenv(info.DefaultConfigEnv))
}
