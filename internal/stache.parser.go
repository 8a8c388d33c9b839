package internal

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Parser folds a token stream into a node tree. It applies the
// standalone-line whitespace rules first, then balances section, parent
// and block scopes.
type Parser struct {
	tokens []Token
	source string
	logger *zap.Logger
}

// NewParser creates a parser for the given token stream. The source is
// kept so section nodes can record the literal text between their tags.
func NewParser(tokens []Token, source string, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgParserCreated, zap.Int(LogFieldTokens, len(tokens)))
	return &Parser{
		tokens: tokens,
		source: source,
		logger: logger,
	}
}

// Parse produces the tree root from the token stream.
func (p *Parser) Parse() (*RootNode, error) {
	p.logger.Debug(LogMsgParseStart)

	tokens := applyStandalone(p.tokens)
	root, err := p.buildTree(tokens)
	if err != nil {
		return nil, err
	}

	p.logger.Debug(LogMsgParseEnd, zap.Int(LogFieldNodes, len(root.Children)))
	return root, nil
}

// applyStandalone removes the surrounding whitespace and line terminator
// of standalone lines. A line qualifies when it holds at least one
// strippable tag and otherwise only whitespace; interpolations on the
// line disqualify it. The stripped leading whitespace of a standalone
// partial or parent line is preserved as the tag's indent.
//
// Tokens between a parent open tag and its close do not count against
// the line they share with the parent tag: block overrides render at
// the parent template's block positions, not at the call site, so a
// parent call whose line carries only whitespace around it is still
// standalone. Whitespace-only text on a standalone line is removed
// wherever it sits; override content survives.
//
// Text tokens are line-aligned (the tokenizer splits after every '\n'),
// so a line group runs up to and including the text token that carries
// the terminator.
func applyStandalone(tokens []Token) []Token {
	inside := markParentSpans(tokens)
	out := make([]Token, 0, len(tokens))

	for i := 0; i < len(tokens); {
		j := i
		for j < len(tokens) {
			tk := tokens[j]
			j++
			if tk.Type == TokenText && strings.HasSuffix(tk.Value, "\n") {
				break
			}
		}
		group := tokens[i:j]

		if !standaloneLine(group, inside[i:j]) {
			out = append(out, group...)
			i = j
			continue
		}

		indent := ""
		for _, tk := range group {
			if tk.Type == TokenText {
				if whitespaceOnly(tk.Value) {
					indent += tk.Value
					continue
				}
				out = append(out, tk)
				continue
			}
			if tk.Kind == TagPartial || tk.Kind == TagParent {
				tk.Indent = indent
			}
			out = append(out, tk)
			indent = ""
		}
		i = j
	}

	return out
}

// markParentSpans flags every token that sits strictly between a parent
// open tag and its matching close. Unbalanced input is tolerated here;
// the tree builder reports it.
func markParentSpans(tokens []Token) []bool {
	inside := make([]bool, len(tokens))
	var scopes []TagKind
	parents := 0

	for i, tk := range tokens {
		if tk.Type != TokenTag {
			inside[i] = parents > 0
			continue
		}
		switch tk.Kind {
		case TagSectionClose:
			if n := len(scopes); n > 0 {
				if scopes[n-1] == TagParent {
					parents--
				}
				scopes = scopes[:n-1]
			}
			inside[i] = parents > 0
		case TagSectionOpen, TagInvertedOpen, TagParent, TagBlock:
			inside[i] = parents > 0
			scopes = append(scopes, tk.Kind)
			if tk.Kind == TagParent {
				parents++
			}
		default:
			inside[i] = parents > 0
		}
	}
	return inside
}

// standaloneLine reports whether a line group is eligible for trimming.
// Tokens inside a parent span are invisible to the check.
func standaloneLine(group []Token, inside []bool) bool {
	hasStrippable := false
	for i, tk := range group {
		if tk.Type == TokenText {
			if !whitespaceOnly(tk.Value) && !inside[i] {
				return false
			}
			continue
		}
		if inside[i] {
			continue
		}
		if !tk.Kind.strippable() {
			return false
		}
		hasStrippable = true
	}
	return hasStrippable
}

func whitespaceOnly(s string) bool {
	return strings.Trim(s, " \t\r\n") == ""
}

// parseFrame tracks one open scope (the root, a section, a parent or a
// block) while building the tree.
type parseFrame struct {
	openTok    Token
	children   []Node
	sliceStart int
	sliceEnd   int
}

// noteSpan extends the frame's literal content range with a token span.
func (f *parseFrame) noteSpan(s Span) {
	if f.sliceStart < 0 {
		f.sliceStart = s.Start
	}
	if s.End > f.sliceEnd {
		f.sliceEnd = s.End
	}
}

func newParseFrame(openTok Token) *parseFrame {
	return &parseFrame{openTok: openTok, sliceStart: -1}
}

// buildTree assembles nodes from the standalone-processed token stream,
// balancing open and close tags.
func (p *Parser) buildTree(tokens []Token) (*RootNode, error) {
	stack := []*parseFrame{newParseFrame(Token{})}

	for _, tk := range tokens {
		cur := stack[len(stack)-1]

		if tk.Type == TokenText {
			cur.children = append(cur.children, &TextNode{Content: tk.Value, position: tk.Position})
			cur.noteSpan(tk.Span)
			continue
		}

		switch tk.Kind {
		case TagComment, TagSetDelimiters:
			// No node; the literal bytes still belong to the enclosing
			// section's source text.
			cur.noteSpan(tk.Span)

		case TagInterpolation, TagUnescaped:
			cur.children = append(cur.children, &InterpolationNode{
				Name:     ParseDottedName(tk.Name),
				Escape:   tk.Kind == TagInterpolation,
				position: tk.Position,
			})
			cur.noteSpan(tk.Span)

		case TagPartial:
			name, dynamic := splitDynamicName(tk.Name)
			cur.children = append(cur.children, &PartialNode{
				Name:     ParseDottedName(name),
				Dynamic:  dynamic,
				Indent:   tk.Indent,
				position: tk.Position,
			})
			cur.noteSpan(tk.Span)

		case TagSectionOpen, TagInvertedOpen, TagParent, TagBlock:
			stack = append(stack, newParseFrame(tk))

		case TagSectionClose:
			if len(stack) == 1 {
				return nil, p.newMismatchedCloseError("", tk.Name, tk.Position)
			}
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if frame.openTok.Name != tk.Name {
				return nil, p.newMismatchedCloseError(frame.openTok.Name, tk.Name, tk.Position)
			}

			node := p.closeFrame(frame)
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
			parent.noteSpan(frame.openTok.Span)
			parent.noteSpan(tk.Span)
		}
	}

	if len(stack) > 1 {
		open := stack[len(stack)-1].openTok
		return nil, p.newUnclosedSectionError(open.Name, open.Position)
	}

	return &RootNode{Children: stack[0].children}, nil
}

// closeFrame turns a completed scope into its node.
func (p *Parser) closeFrame(frame *parseFrame) Node {
	open := frame.openTok

	switch open.Kind {
	case TagParent:
		// Only block children matter at a parent call site; anything
		// else between the tags is default content of the parent
		// template itself and is discarded here.
		overrides := make(map[string][]Node)
		for _, child := range frame.children {
			if b, ok := child.(*BlockNode); ok {
				overrides[b.Name] = b.Children
			}
		}
		name, dynamic := splitDynamicName(open.Name)
		return &ParentNode{
			Name:      ParseDottedName(name),
			Dynamic:   dynamic,
			Indent:    open.Indent,
			Overrides: overrides,
			position:  open.Position,
		}

	case TagBlock:
		return &BlockNode{
			Name:     open.Name,
			Children: frame.children,
			position: open.Position,
		}

	default:
		start, end := frame.sliceStart, frame.sliceEnd
		if start < 0 {
			start = open.Span.End
			end = open.Span.End
		}
		return &SectionNode{
			Name:       ParseDottedName(open.Name),
			RawName:    open.Name,
			Inverted:   open.Kind == TagInvertedOpen,
			Children:   frame.children,
			SourceText: p.source[start:end],
			SliceStart: start,
			SliceEnd:   end,
			position:   open.Position,
		}
	}
}

// splitDynamicName strips a single leading '*' marking a dynamic partial
// or parent name. A second '*' stays in the stored name, so the lookup
// only succeeds against a key spelled with the '*'; otherwise it renders
// empty.
func splitDynamicName(name string) (string, bool) {
	if strings.HasPrefix(name, DynamicPrefix) {
		return name[len(DynamicPrefix):], true
	}
	return name, false
}

// Error helpers

func (p *Parser) newMismatchedCloseError(expected, actual string, pos Position) error {
	return &ParseError{
		Message:  ErrMsgMismatchedClose,
		Position: pos,
		Expected: expected,
		Actual:   actual,
	}
}

func (p *Parser) newUnclosedSectionError(name string, pos Position) error {
	return &ParseError{
		Message:  ErrMsgUnclosedSection,
		Position: pos,
		Expected: name,
	}
}

// ParseError represents a parser error with position context.
type ParseError struct {
	Message  string
	Position Position
	Expected string
	Actual   string
}

func (e *ParseError) Error() string {
	if e.Expected != "" || e.Actual != "" {
		return fmt.Sprintf("%s (expected %q, got %q) at %s", e.Message, e.Expected, e.Actual, e.Position)
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Position)
}

// Parser error message constants
const (
	ErrMsgMismatchedClose = "mismatched section close"
	ErrMsgUnclosedSection = "section open at end of input"
)
