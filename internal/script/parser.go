package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Gaurav-Gosain/dwindle/internal/driver"
)

// Parser parses layout scripts into commands
type Parser struct {
	lexer   *Lexer
	curTok  Token
	peekTok Token
	errors  []string
}

// NewParser creates a new parser from a lexer
func NewParser(l *Lexer) *Parser {
	p := &Parser{
		lexer:  l,
		errors: []string{},
	}
	p.nextToken()
	p.nextToken()
	return p
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.lexer.NextToken()
}

// Parse parses the entire script and returns all commands
func (p *Parser) Parse() []Command {
	var commands []Command

	for p.curTok.Type != TOKEN_EOF {
		// Skip newlines
		if p.curTok.Type == TOKEN_NEWLINE {
			p.nextToken()
			continue
		}

		cmd, ok := p.parseCommand()
		if !ok {
			continue
		}

		commands = append(commands, cmd)
	}

	return commands
}

// parseCommand parses a single command. It always leaves the parser at the
// end of the line.
func (p *Parser) parseCommand() (Command, bool) {
	switch tt := p.curTok.Type; tt {
	case TOKEN_SCREEN:
		return p.parseScreenCommand()
	case TOKEN_SET:
		return p.parseSetCommand()
	case TOKEN_OPEN:
		return p.parseOpenCommand()
	case TOKEN_CLOSE:
		return p.parseWindowCommand(CommandType_Close)
	case TOKEN_RETILE:
		return p.parseWindowCommand(CommandType_Retile)
	case TOKEN_SWAP_SIBLING:
		return p.parseWindowCommand(CommandType_SwapSibling)
	case TOKEN_SWAP_HALVES:
		return p.parseWindowCommand(CommandType_SwapHalves)
	case TOKEN_TOGGLE_SPLIT:
		return p.parseWindowCommand(CommandType_ToggleSplit)
	case TOKEN_NEXT:
		return p.parseWindowCommand(CommandType_Next)
	case TOKEN_PREV:
		return p.parseWindowCommand(CommandType_Prev)
	case TOKEN_INSERT:
		return p.parseWindowDirCommand(CommandType_Insert)
	case TOKEN_RESIZE:
		return p.parseWindowDirCommand(CommandType_Resize)
	case TOKEN_SWAP:
		return p.parseWindowDirCommand(CommandType_Swap)
	case TOKEN_FOCUS:
		return p.parseWindowDirCommand(CommandType_Focus)
	case TOKEN_DRAG:
		return p.parseDragCommand()
	case TOKEN_SLEEP:
		return p.parseSleepCommand()
	case TOKEN_ROTATE:
		return p.parseBasicCommand(CommandType_Rotate)
	case TOKEN_PRINT:
		return p.parseBasicCommand(CommandType_Print)
	default:
		p.addError(fmt.Sprintf("unexpected token: %v %q", tt, p.curTok.Literal))
		p.skipToNextLine()
		return Command{}, false
	}
}

// begin consumes the command keyword and returns the rest of the line.
func (p *Parser) begin(cmdType CommandType) (Command, []Token) {
	cmd := Command{
		Type:   cmdType,
		Line:   p.curTok.Line,
		Column: p.curTok.Column,
	}
	p.nextToken()

	var args []Token
	for p.curTok.Type != TOKEN_NEWLINE && p.curTok.Type != TOKEN_EOF {
		args = append(args, p.curTok)
		p.nextToken()
	}
	return cmd, args
}

// fail records an error for the command being parsed.
func (p *Parser) fail(cmd Command, format string, args ...any) (Command, bool) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s: %s", cmd.Line, cmd.Type, fmt.Sprintf(format, args...)))
	return cmd, false
}

func isWindowID(tok Token) bool {
	return tok.Type == TOKEN_IDENTIFIER || tok.Type == TOKEN_NUMBER || tok.Type == TOKEN_STRING
}

func raw(cmd Command, args []Token) string {
	parts := []string{string(cmd.Type)}
	for _, a := range args {
		if a.Type == TOKEN_STRING {
			parts = append(parts, strconv.Quote(a.Literal))
		} else {
			parts = append(parts, a.Literal)
		}
	}
	return strings.Join(parts, " ")
}

// parseBasicCommand parses commands without arguments
func (p *Parser) parseBasicCommand(cmdType CommandType) (Command, bool) {
	cmd, args := p.begin(cmdType)
	if len(args) > 0 {
		return p.fail(cmd, "takes no arguments, got %q", args[0].Literal)
	}
	cmd.Raw = string(cmdType)
	return cmd, true
}

// parseScreenCommand parses Screen <name> <width> <height>
func (p *Parser) parseScreenCommand() (Command, bool) {
	cmd, args := p.begin(CommandType_Screen)
	if len(args) != 3 || !isWindowID(args[0]) {
		return p.fail(cmd, "expects a name, a width and a height")
	}
	for _, tok := range args[1:] {
		n, err := strconv.Atoi(tok.Literal)
		if tok.Type != TOKEN_NUMBER || err != nil || n <= 0 {
			return p.fail(cmd, "invalid size %q", tok.Literal)
		}
	}
	cmd.Args = []string{args[0].Literal, args[1].Literal, args[2].Literal}
	cmd.Raw = raw(cmd, args)
	return cmd, true
}

// parseSetCommand parses Set <section.key> <value>
func (p *Parser) parseSetCommand() (Command, bool) {
	cmd, args := p.begin(CommandType_Set)
	if len(args) != 2 || args[0].Type != TOKEN_IDENTIFIER {
		return p.fail(cmd, "expects a key and a value")
	}
	switch args[1].Type {
	case TOKEN_IDENTIFIER, TOKEN_STRING, TOKEN_NUMBER, TOKEN_DURATION:
	default:
		return p.fail(cmd, "invalid value %q", args[1].Literal)
	}
	cmd.Args = []string{args[0].Literal, args[1].Literal}
	cmd.Raw = raw(cmd, args)
	return cmd, true
}

// parseOpenCommand parses Open <id> ["class"]
func (p *Parser) parseOpenCommand() (Command, bool) {
	cmd, args := p.begin(CommandType_Open)
	if len(args) == 0 || len(args) > 2 || !isWindowID(args[0]) {
		return p.fail(cmd, "expects a window id and an optional class")
	}
	cmd.Args = []string{args[0].Literal, args[0].Literal}
	if len(args) == 2 {
		if args[1].Type != TOKEN_STRING && args[1].Type != TOKEN_IDENTIFIER {
			return p.fail(cmd, "invalid class %q", args[1].Literal)
		}
		cmd.Args[1] = args[1].Literal
	}
	cmd.Raw = raw(cmd, args)
	return cmd, true
}

// parseWindowCommand parses <Command> [id]
func (p *Parser) parseWindowCommand(cmdType CommandType) (Command, bool) {
	cmd, args := p.begin(cmdType)
	if len(args) > 1 || (len(args) == 1 && !isWindowID(args[0])) {
		return p.fail(cmd, "expects an optional window id")
	}
	cmd.Args = []string{""}
	if len(args) == 1 {
		cmd.Args[0] = args[0].Literal
	}
	cmd.Raw = raw(cmd, args)
	return cmd, true
}

// parseWindowDirCommand parses <Command> [id] <direction>
func (p *Parser) parseWindowDirCommand(cmdType CommandType) (Command, bool) {
	cmd, args := p.begin(cmdType)
	if len(args) == 0 || len(args) > 2 {
		return p.fail(cmd, "expects an optional window id and a direction")
	}
	id := ""
	if len(args) == 2 {
		if !isWindowID(args[0]) {
			return p.fail(cmd, "invalid window id %q", args[0].Literal)
		}
		id = args[0].Literal
	}
	dirTok := args[len(args)-1]
	dir, err := driver.ParseDirection(dirTok.Literal)
	if err != nil || dirTok.Type != TOKEN_IDENTIFIER {
		return p.fail(cmd, "invalid direction %q", dirTok.Literal)
	}
	cmd.Args = []string{id, dir.String()}
	cmd.Raw = raw(cmd, args)
	return cmd, true
}

// parseDragCommand parses Drag [id] <ratio>
func (p *Parser) parseDragCommand() (Command, bool) {
	cmd, args := p.begin(CommandType_Drag)
	if len(args) == 0 || len(args) > 2 {
		return p.fail(cmd, "expects an optional window id and a ratio")
	}
	id := ""
	if len(args) == 2 {
		if !isWindowID(args[0]) {
			return p.fail(cmd, "invalid window id %q", args[0].Literal)
		}
		id = args[0].Literal
	}
	ratioTok := args[len(args)-1]
	ratio, err := strconv.ParseFloat(ratioTok.Literal, 64)
	if ratioTok.Type != TOKEN_NUMBER || err != nil || ratio <= 0 || ratio >= 1 {
		return p.fail(cmd, "ratio must be between 0 and 1, got %q", ratioTok.Literal)
	}
	cmd.Args = []string{id, ratioTok.Literal}
	cmd.Raw = raw(cmd, args)
	return cmd, true
}

// parseSleepCommand parses Sleep <duration>
func (p *Parser) parseSleepCommand() (Command, bool) {
	cmd, args := p.begin(CommandType_Sleep)
	if len(args) != 1 || args[0].Type != TOKEN_DURATION {
		return p.fail(cmd, "expects a duration")
	}
	d, err := ParseDuration(args[0].Literal)
	if err != nil {
		return p.fail(cmd, "invalid duration: %s", args[0].Literal)
	}
	cmd.Args = []string{args[0].Literal}
	cmd.Delay = d
	cmd.Raw = raw(cmd, args)
	return cmd, true
}

// skipToNextLine skips tokens until the next newline
func (p *Parser) skipToNextLine() {
	for p.curTok.Type != TOKEN_NEWLINE && p.curTok.Type != TOKEN_EOF {
		p.nextToken()
	}
}

// addError adds an error to the parser's error list
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.curTok.Line, msg))
}

// Errors returns the list of parser errors
func (p *Parser) Errors() []string {
	return p.errors
}

// ParseFile parses a layout script from a string
func ParseFile(content string) ([]Command, []string) {
	l := New(content)
	p := NewParser(l)
	commands := p.Parse()
	return commands, p.Errors()
}
