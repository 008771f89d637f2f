package cli

import (
	"io"
	"time"
)

// RunOptions holds the settings of the run and serve commands. Pointer
// fields are nil when the flag was not given, so the system file applies.
type RunOptions struct {
	// Source is a preset name or the path of a YAML system file.
	Source string

	Ticks     *int
	Seed      *uint64
	StartHour *int
	Order     string
	Sleep     *time.Duration
	MinEvents *int

	// RedisAddr enables publishing to a Redis channel.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Channel       string
	// NoStdout disables the JSON lines stream on Out.
	NoStdout bool
	// Vectorize writes per-burst event counts per node on Out instead of
	// one line per event.
	Vectorize bool

	// Addr is the listen address of serve.
	Addr string

	LogLevel string
	Quiet    bool

	Out io.Writer
	Err io.Writer
}
