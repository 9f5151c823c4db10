package layout

import (
	"os"

	"charm.land/log/v2"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "layout",
	Level:           log.WarnLevel,
})

// SetLogLevel sets the logging level for the layout package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}
