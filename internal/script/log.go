package script

import (
	"os"

	"charm.land/log/v2"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "script",
	Level:           log.WarnLevel,
})

// SetLogLevel sets the logging level for the script package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}
