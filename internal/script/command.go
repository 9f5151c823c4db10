package script

import (
	"fmt"
	"strings"
	"time"
)

// CommandType represents the type of a script command
type CommandType string

const (
	CommandType_Screen CommandType = "Screen"
	CommandType_Set    CommandType = "Set"

	CommandType_Open   CommandType = "Open"
	CommandType_Close  CommandType = "Close"
	CommandType_Retile CommandType = "Retile"

	CommandType_Insert      CommandType = "Insert"
	CommandType_Resize      CommandType = "Resize"
	CommandType_Drag        CommandType = "Drag"
	CommandType_Swap        CommandType = "Swap"
	CommandType_SwapSibling CommandType = "SwapSibling"
	CommandType_SwapHalves  CommandType = "SwapHalves"
	CommandType_ToggleSplit CommandType = "ToggleSplit"
	CommandType_Rotate      CommandType = "Rotate"

	CommandType_Focus CommandType = "Focus"
	CommandType_Next  CommandType = "Next"
	CommandType_Prev  CommandType = "Prev"

	CommandType_Sleep CommandType = "Sleep"
	CommandType_Print CommandType = "Print"
)

// Command represents a parsed script command. Window commands store the
// window id in Args[0]; an empty id means the focused window.
type Command struct {
	Type   CommandType
	Args   []string      // Command arguments
	Delay  time.Duration // Sleep duration
	Line   int           // Source line number
	Column int           // Source column number
	Raw    string        // Command text as written
}

// String returns a string representation of the command
func (c *Command) String() string {
	if c.Raw != "" {
		return c.Raw
	}
	args := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		if a != "" {
			args = append(args, a)
		}
	}
	if len(args) == 0 {
		return string(c.Type)
	}
	return fmt.Sprintf("%s %s", c.Type, strings.Join(args, " "))
}

// Arg returns the i-th argument, or "" when missing.
func (c *Command) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// ParseDuration parses a duration string (e.g., "500ms", "1s")
func ParseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
