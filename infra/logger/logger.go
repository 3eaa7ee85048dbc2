package logger

import (
	"os"

	corelogger "github.com/kilianp07/dellve/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// New returns a Logger for the given component writing to stdout. The output
// format is selected with APP_ENV and the level with LOG_LEVEL.
func New(component string) Logger {
	return NewZerologLogger(component, os.Stdout)
}
