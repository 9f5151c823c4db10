package driver

import (
	"os"

	"charm.land/log/v2"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "driver",
	Level:           log.WarnLevel,
})

// SetLogLevel sets the logging level for the driver package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}
