// Package log wraps go-kit/log with the level filtering the ambient
// LOG_LEVEL environment variable drives.
package log

import (
	"os"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New builds a logfmt logger writing to stderr, timestamped and filtered to
// levelName (one of DEBUG, INFO, WARNING, ERROR; unrecognized values fall
// back to INFO).
func New(levelName string) kitlog.Logger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	return level.NewFilter(logger, parseLevel(levelName))
}

func parseLevel(name string) level.Option {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return level.AllowDebug()
	case "INFO":
		return level.AllowInfo()
	case "ERROR":
		return level.AllowError()
	case "WARNING", "WARN":
		return level.AllowWarn()
	default:
		return level.AllowInfo()
	}
}
