package dispatch

import (
	"log/slog"
	"os"
)

var logLevel = new(slog.LevelVar)

// ConfigureLogging sets up the global default logger with a TextHandler and
// configures the log level based on the DISPATCH_LOG_LEVEL environment
// variable, defaulting to Info. Call this once at process startup to get
// the package's default logging configuration; skip it to use whatever
// default slog.Logger is already installed.
func ConfigureLogging() {
	logLevel.Set(slog.LevelInfo)

	switch os.Getenv("DISPATCH_LOG_LEVEL") {
	case "DEBUG", "TRACE":
		// The core's trace-level lines (insert/remove/check_args/set_ret,
		// mirroring the source's DBE_DEBUG calls) log at slog.LevelDebug;
		// there's no separate TRACE level in slog.
		logLevel.Set(slog.LevelDebug)
	case "WARN":
		logLevel.Set(slog.LevelWarn)
	case "ERROR":
		logLevel.Set(slog.LevelError)
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// SetLogLevel sets the logging level for the logger configured by ConfigureLogging.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}
