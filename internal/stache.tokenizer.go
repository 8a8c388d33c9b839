package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Delimiters holds the open/close pair the tokenizer scans with. The
// pair is mutable during a single tokenize run: a set-delimiter tag
// swaps it for the remainder of the scan.
type Delimiters struct {
	Open  string
	Close string
}

// DefaultDelimiters returns the standard {{ }} pair.
func DefaultDelimiters() Delimiters {
	return Delimiters{Open: DefaultOpenDelim, Close: DefaultCloseDelim}
}

// validDelimiter reports whether s may serve as a delimiter: non-empty,
// no whitespace, no '='.
func validDelimiter(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, "= \t\r\n")
}

// Tokenizer transforms template source into a flat token stream. It
// tracks line/column positions and reconfigures its own delimiters when
// it encounters a set-delimiter tag.
type Tokenizer struct {
	source string
	delims Delimiters
	pos    int
	line   int
	column int
	logger *zap.Logger
}

// NewTokenizer creates a tokenizer with the default delimiter pair.
func NewTokenizer(source string, logger *zap.Logger) *Tokenizer {
	return NewTokenizerWithDelimiters(source, DefaultDelimiters(), logger)
}

// NewTokenizerWithDelimiters creates a tokenizer with a custom initial
// delimiter pair.
func NewTokenizerWithDelimiters(source string, delims Delimiters, logger *zap.Logger) *Tokenizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgTokenizerCreated, zap.Int(LogFieldSource, len(source)))
	return &Tokenizer{
		source: source,
		delims: delims,
		pos:    0,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Tokenize processes the source and returns the token stream.
func (t *Tokenizer) Tokenize() ([]Token, error) {
	t.logger.Debug(LogMsgTokenizeStart)
	var tokens []Token

	for t.pos < len(t.source) {
		if t.matchStr(t.delims.Open) {
			tok, err := t.scanTag()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			continue
		}
		tokens = append(tokens, t.scanText()...)
	}

	t.logger.Debug(LogMsgTokenizeEnd, zap.Int(LogFieldTokens, len(tokens)))
	return tokens, nil
}

// scanText consumes literal text up to the next open delimiter or end of
// input, emitting one token per line segment. Splitting after each '\n'
// keeps text tokens line-aligned for the standalone pass.
func (t *Tokenizer) scanText() []Token {
	end := len(t.source)
	if idx := strings.Index(t.source[t.pos:], t.delims.Open); idx >= 0 {
		end = t.pos + idx
	}

	var tokens []Token
	for t.pos < end {
		segEnd := end
		if nl := strings.IndexByte(t.source[t.pos:end], '\n'); nl >= 0 {
			segEnd = t.pos + nl + 1
		}
		pos := t.position()
		start := t.pos
		t.advanceN(segEnd - t.pos)
		tokens = append(tokens, Token{
			Type:     TokenText,
			Value:    t.source[start:segEnd],
			Span:     Span{Start: start, End: segEnd},
			Position: pos,
		})
	}
	return tokens
}

// scanTag consumes a full tag starting at the open delimiter and returns
// its token. A set-delimiter tag updates the tokenizer state before
// returning, so the new pair applies from the next token on.
func (t *Tokenizer) scanTag() (Token, error) {
	start := t.pos
	startPos := t.position()
	t.advanceN(len(t.delims.Open))
	t.skipPadding()

	if t.pos >= len(t.source) {
		return Token{}, t.newTokenizeError(ErrMsgUnterminatedTag, startPos)
	}

	kind := TagInterpolation
	switch t.source[t.pos] {
	case '{':
		return t.scanTripleTag(start, startPos)
	case '=':
		return t.scanSetDelimitersTag(start, startPos)
	case '&':
		kind = TagUnescaped
		t.advanceN(1)
	case '!':
		kind = TagComment
		t.advanceN(1)
	case '#':
		kind = TagSectionOpen
		t.advanceN(1)
	case '^':
		kind = TagInvertedOpen
		t.advanceN(1)
	case '/':
		kind = TagSectionClose
		t.advanceN(1)
	case '>':
		kind = TagPartial
		t.advanceN(1)
	case '<':
		kind = TagParent
		t.advanceN(1)
	case '$':
		kind = TagBlock
		t.advanceN(1)
	}

	idx := strings.Index(t.source[t.pos:], t.delims.Close)
	if idx < 0 {
		return Token{}, t.newTokenizeError(ErrMsgUnterminatedTag, startPos)
	}
	content := t.source[t.pos : t.pos+idx]
	t.advanceN(idx + len(t.delims.Close))

	name := strings.Trim(content, " \t\r\n")
	if name == "" && kind != TagComment {
		return Token{}, t.newTokenizeError(ErrMsgEmptyTagName, startPos)
	}

	return t.finishTag(kind, name, start, startPos), nil
}

// scanTripleTag handles {{{name}}}: the content runs until '}' followed
// by the current close delimiter.
func (t *Tokenizer) scanTripleTag(start int, startPos Position) (Token, error) {
	t.advanceN(1) // consume '{'
	closeSeq := "}" + t.delims.Close
	idx := strings.Index(t.source[t.pos:], closeSeq)
	if idx < 0 {
		return Token{}, t.newTokenizeError(ErrMsgBadTripleClose, startPos)
	}
	content := t.source[t.pos : t.pos+idx]
	t.advanceN(idx + len(closeSeq))

	name := strings.Trim(content, " \t\r\n")
	if name == "" {
		return Token{}, t.newTokenizeError(ErrMsgEmptyTagName, startPos)
	}
	return t.finishTag(TagUnescaped, name, start, startPos), nil
}

// scanSetDelimitersTag handles {{=<% %>=}}: exactly two whitespace-free
// fields between the '=' markers become the new pair, effective
// immediately.
func (t *Tokenizer) scanSetDelimitersTag(start int, startPos Position) (Token, error) {
	t.advanceN(1) // consume '='
	closeSeq := "=" + t.delims.Close
	idx := strings.Index(t.source[t.pos:], closeSeq)
	if idx < 0 {
		return Token{}, t.newTokenizeError(ErrMsgBadSetDelimiters, startPos)
	}
	content := t.source[t.pos : t.pos+idx]
	t.advanceN(idx + len(closeSeq))

	fields := strings.Fields(content)
	if len(fields) != 2 || !validDelimiter(fields[0]) || !validDelimiter(fields[1]) {
		return Token{}, t.newTokenizeError(ErrMsgBadSetDelimiters, startPos)
	}

	tok := t.finishTag(TagSetDelimiters, strings.TrimSpace(content), start, startPos)
	t.delims = Delimiters{Open: fields[0], Close: fields[1]}
	t.logger.Debug(LogMsgDelimsChanged,
		zap.String(LogFieldOpen, t.delims.Open),
		zap.String(LogFieldClose, t.delims.Close))
	return tok, nil
}

// finishTag assembles the tag token, computing the line-leading and
// line-trailing flags from the surrounding source.
func (t *Tokenizer) finishTag(kind TagKind, name string, start int, startPos Position) Token {
	return Token{
		Type:         TokenTag,
		Kind:         kind,
		Name:         name,
		Span:         Span{Start: start, End: t.pos},
		Position:     startPos,
		LineLeading:  t.lineLeading(start),
		LineTrailing: t.lineTrailing(t.pos),
	}
}

// lineLeading reports whether only spaces and tabs separate offset from
// the previous line terminator or the start of input.
func (t *Tokenizer) lineLeading(offset int) bool {
	for i := offset - 1; i >= 0; i-- {
		switch t.source[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return true
}

// lineTrailing reports whether only spaces and tabs separate offset from
// the next line terminator or the end of input.
func (t *Tokenizer) lineTrailing(offset int) bool {
	for i := offset; i < len(t.source); i++ {
		switch t.source[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return true
}

// Helper methods

func (t *Tokenizer) position() Position {
	return Position{Offset: t.pos, Line: t.line, Column: t.column}
}

func (t *Tokenizer) matchStr(s string) bool {
	return strings.HasPrefix(t.source[t.pos:], s)
}

// advanceN advances by n bytes, maintaining line and column counters.
func (t *Tokenizer) advanceN(n int) {
	for i := 0; i < n && t.pos < len(t.source); i++ {
		if t.source[t.pos] == '\n' {
			t.line++
			t.column = 1
		} else {
			t.column++
		}
		t.pos++
	}
}

// skipPadding skips spaces and tabs between the open delimiter and the
// sigil.
func (t *Tokenizer) skipPadding() {
	for t.pos < len(t.source) {
		ch := t.source[t.pos]
		if ch != ' ' && ch != '\t' {
			break
		}
		t.advanceN(1)
	}
}

func (t *Tokenizer) newTokenizeError(msg string, pos Position) error {
	return &TokenizeError{Message: msg, Position: pos}
}

// TokenizeError represents a tokenizer error with position.
type TokenizeError struct {
	Message  string
	Position Position
}

func (e *TokenizeError) Error() string {
	return e.Message + " at " + e.Position.String()
}

// Tokenizer error message constants
const (
	ErrMsgUnterminatedTag  = "unterminated tag"
	ErrMsgEmptyTagName     = "tag name cannot be empty"
	ErrMsgBadSetDelimiters = "malformed set-delimiters tag"
	ErrMsgBadTripleClose   = "unterminated triple-mustache tag"
)
