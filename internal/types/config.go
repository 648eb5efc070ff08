package types

type RunMode string

const (
	// ModeLocal is for running scripts and one-off tooling on a developer machine
	ModeLocal RunMode = "local"
	// ModeAPI is for running the application as a long lived process
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
