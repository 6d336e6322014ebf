package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var _log = logrus.New()

// Init configures the shared logger. Debug mode switches to a human-readable
// formatter at debug level; otherwise JSON at info.
func Init(debug bool, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	_log.SetOutput(out)
	if debug {
		_log.SetLevel(logrus.DebugLevel)
		_log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		_log.SetLevel(logrus.InfoLevel)
		_log.SetFormatter(&logrus.JSONFormatter{})
	}
}

// Log returns an entry bound to the shared logger.
func Log() *logrus.Entry {
	return logrus.NewEntry(_log)
}

// WithFields returns an entry with the provided fields attached.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Log().WithFields(fields)
}
