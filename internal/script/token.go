package script

// TokenType represents the type of a token in a layout script
type TokenType string

const (
	// Special tokens
	TOKEN_EOF     TokenType = "EOF"
	TOKEN_ILLEGAL TokenType = "ILLEGAL"
	TOKEN_NEWLINE TokenType = "NEWLINE"

	// Literals
	TOKEN_STRING     TokenType = "STRING"
	TOKEN_NUMBER     TokenType = "NUMBER"
	TOKEN_DURATION   TokenType = "DURATION"
	TOKEN_IDENTIFIER TokenType = "IDENTIFIER"

	// Commands - Setup
	TOKEN_SCREEN TokenType = "Screen"
	TOKEN_SET    TokenType = "Set"

	// Commands - Windows
	TOKEN_OPEN   TokenType = "Open"
	TOKEN_CLOSE  TokenType = "Close"
	TOKEN_RETILE TokenType = "Retile"

	// Commands - Layout
	TOKEN_INSERT       TokenType = "Insert"
	TOKEN_RESIZE       TokenType = "Resize"
	TOKEN_DRAG         TokenType = "Drag"
	TOKEN_SWAP         TokenType = "Swap"
	TOKEN_SWAP_SIBLING TokenType = "SwapSibling"
	TOKEN_SWAP_HALVES  TokenType = "SwapHalves"
	TOKEN_TOGGLE_SPLIT TokenType = "ToggleSplit"
	TOKEN_ROTATE       TokenType = "Rotate"

	// Commands - Focus
	TOKEN_FOCUS TokenType = "Focus"
	TOKEN_NEXT  TokenType = "Next"
	TOKEN_PREV  TokenType = "Prev"

	// Commands - Other
	TOKEN_SLEEP TokenType = "Sleep"
	TOKEN_PRINT TokenType = "Print"
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// IsCommand returns true if the token type starts a command
func (tt TokenType) IsCommand() bool {
	_, ok := commandTokens[tt]
	return ok
}

var commandTokens = map[TokenType]struct{}{
	TOKEN_SCREEN: {}, TOKEN_SET: {},
	TOKEN_OPEN: {}, TOKEN_CLOSE: {}, TOKEN_RETILE: {},
	TOKEN_INSERT: {}, TOKEN_RESIZE: {}, TOKEN_DRAG: {},
	TOKEN_SWAP: {}, TOKEN_SWAP_SIBLING: {}, TOKEN_SWAP_HALVES: {},
	TOKEN_TOGGLE_SPLIT: {}, TOKEN_ROTATE: {},
	TOKEN_FOCUS: {}, TOKEN_NEXT: {}, TOKEN_PREV: {},
	TOKEN_SLEEP: {}, TOKEN_PRINT: {},
}

// KeywordTokenMap maps string keywords to token types
var KeywordTokenMap = map[string]TokenType{
	"Screen": TOKEN_SCREEN,
	"Set":    TOKEN_SET,

	"Open":   TOKEN_OPEN,
	"Close":  TOKEN_CLOSE,
	"Retile": TOKEN_RETILE,

	"Insert":      TOKEN_INSERT,
	"Resize":      TOKEN_RESIZE,
	"Drag":        TOKEN_DRAG,
	"Swap":        TOKEN_SWAP,
	"SwapSibling": TOKEN_SWAP_SIBLING,
	"SwapHalves":  TOKEN_SWAP_HALVES,
	"ToggleSplit": TOKEN_TOGGLE_SPLIT,
	"Rotate":      TOKEN_ROTATE,

	"Focus": TOKEN_FOCUS,
	"Next":  TOKEN_NEXT,
	"Prev":  TOKEN_PREV,

	"Sleep": TOKEN_SLEEP,
	"Print": TOKEN_PRINT,
}

// LookupKeyword returns the token type for a keyword, or TOKEN_IDENTIFIER if not a keyword
func LookupKeyword(ident string) TokenType {
	if tt, ok := KeywordTokenMap[ident]; ok {
		return tt
	}
	return TOKEN_IDENTIFIER
}
