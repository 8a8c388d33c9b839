package internal

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// PartialResolver maps a partial name to its template source. A missing
// name renders as empty output.
type PartialResolver interface {
	Partial(name string) (string, bool)
}

// RenderConfig holds renderer configuration options.
type RenderConfig struct {
	// MaxDepth bounds nested partial and parent expansion.
	MaxDepth int
	// StrictLookup surfaces failed lookups as errors instead of empty
	// output.
	StrictLookup bool
}

// DefaultRenderConfig returns the default renderer configuration.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{MaxDepth: DefaultMaxDepth}
}

// Renderer walks a node tree against a context stack and produces
// output. A renderer is stateless across calls; all per-render state is
// threaded through the walk.
type Renderer struct {
	config RenderConfig
	logger *zap.Logger
}

// NewRenderer creates a renderer with the given configuration.
func NewRenderer(config RenderConfig, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultMaxDepth
	}
	return &Renderer{config: config, logger: logger}
}

// Render walks the tree with data as the root context frame and returns
// the rendered output. Partial and parent tags are resolved through
// partials; a nil resolver renders every partial as empty.
func (r *Renderer) Render(root *RootNode, data Value, partials PartialResolver) (string, error) {
	r.logger.Debug(LogMsgRenderStart, zap.Int(LogFieldNodes, len(root.Children)))

	w := newIndentWriter()
	st := NewStack(data)
	if err := r.renderNodes(root.Children, st, nil, "", 0, partials, w); err != nil {
		return "", err
	}

	out := w.String()
	r.logger.Debug(LogMsgRenderEnd, zap.Int(LogFieldOutput, len(out)))
	return out, nil
}

// renderNodes renders a node sequence in order.
func (r *Renderer) renderNodes(nodes []Node, st *Stack, sc *overrideScope, indent string, depth int, partials PartialResolver, w *indentWriter) error {
	for _, node := range nodes {
		if err := r.renderNode(node, st, sc, indent, depth, partials, w); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderNode(node Node, st *Stack, sc *overrideScope, indent string, depth int, partials PartialResolver, w *indentWriter) error {
	switch n := node.(type) {
	case *TextNode:
		w.writeText(n.Content, indent)
		return nil

	case *InterpolationNode:
		return r.renderInterpolation(n, st, indent, w)

	case *SectionNode:
		if n.Inverted {
			return r.renderInverted(n, st, sc, indent, depth, partials, w)
		}
		return r.renderSection(n, st, sc, indent, depth, partials, w)

	case *PartialNode:
		return r.renderPartial(n, st, sc, indent, depth, partials, w)

	case *ParentNode:
		return r.renderParent(n, st, sc, indent, depth, partials, w)

	case *BlockNode:
		if nodes, ok := sc.lookup(n.Name); ok {
			return r.renderNodes(nodes, st, sc, indent, depth, partials, w)
		}
		return r.renderNodes(n.Children, st, sc, indent, depth, partials, w)

	default:
		return &RenderError{Message: ErrMsgUnknownNodeType}
	}
}

func (r *Renderer) renderInterpolation(n *InterpolationNode, st *Stack, indent string, w *indentWriter) error {
	v, ok := st.Lookup(n.Name)
	if !ok {
		if r.config.StrictLookup {
			return r.newStrictLookupError(n.Name)
		}
		return nil
	}
	if v == nil || v.Kind() == KindNull {
		return nil
	}

	s, err := v.Render()
	if err != nil {
		return &RenderError{Message: ErrMsgValueRenderFailed, Name: n.Name.String(), Cause: err}
	}
	if n.Escape {
		s = escapeHTML(s)
	}
	w.writeValue(s, indent)
	return nil
}

// renderSection resolves the section subject and dispatches on its kind.
func (r *Renderer) renderSection(n *SectionNode, st *Stack, sc *overrideScope, indent string, depth int, partials PartialResolver, w *indentWriter) error {
	v, ok := st.Lookup(n.Name)
	if !ok {
		if r.config.StrictLookup {
			return r.newStrictLookupError(n.Name)
		}
		return nil
	}
	return r.renderSectionValue(n, v, st, sc, indent, depth, partials, w)
}

// renderSectionValue dispatches a section over a resolved value. It is
// separate from renderSection so the result of a callable-context
// invocation can be re-dispatched.
func (r *Renderer) renderSectionValue(n *SectionNode, v Value, st *Stack, sc *overrideScope, indent string, depth int, partials PartialResolver, w *indentWriter) error {
	if v == nil {
		return nil
	}

	switch v.Kind() {
	case KindNull:
		return nil

	case KindSequence:
		for _, item := range itemsOf(v) {
			if err := r.renderNodes(n.Children, st.Push(item), sc, indent, depth, partials, w); err != nil {
				return err
			}
		}
		return nil

	case KindCallable:
		caller, ok := v.(SectionCaller)
		if !ok {
			return nil
		}
		if depth+1 > r.config.MaxDepth {
			return r.newDepthError(depth + 1)
		}
		result := caller.CallSection(n.SourceText, st)
		return r.renderSectionValue(n, result, st, sc, indent, depth+1, partials, w)

	default:
		if !v.Truthy() {
			return nil
		}
		return r.renderNodes(n.Children, st.Push(v), sc, indent, depth, partials, w)
	}
}

// renderInverted renders the children only when the subject is missing
// or falsy. No frame is pushed.
func (r *Renderer) renderInverted(n *SectionNode, st *Stack, sc *overrideScope, indent string, depth int, partials PartialResolver, w *indentWriter) error {
	v, ok := st.Lookup(n.Name)
	if ok && v != nil && v.Truthy() {
		return nil
	}
	return r.renderNodes(n.Children, st, sc, indent, depth, partials, w)
}

func (r *Renderer) renderPartial(n *PartialNode, st *Stack, sc *overrideScope, indent string, depth int, partials PartialResolver, w *indentWriter) error {
	root, nextIndent, ok, err := r.expandTarget(n.Name, n.Dynamic, n.Indent, st, indent, depth, partials)
	if err != nil || !ok {
		return err
	}
	return r.renderNodes(root.Children, st, sc, nextIndent, depth+1, partials, w)
}

func (r *Renderer) renderParent(n *ParentNode, st *Stack, sc *overrideScope, indent string, depth int, partials PartialResolver, w *indentWriter) error {
	root, nextIndent, ok, err := r.expandTarget(n.Name, n.Dynamic, n.Indent, st, indent, depth, partials)
	if err != nil || !ok {
		return err
	}
	scope := &overrideScope{outer: sc, blocks: n.Overrides}
	return r.renderNodes(root.Children, st, scope, nextIndent, depth+1, partials, w)
}

// expandTarget resolves a partial or parent target name (through the
// context stack when dynamic), fetches its source and parses it with
// default delimiters. Delimiter changes therefore never leak across
// inclusion boundaries. Returns ok=false when the target is absent.
func (r *Renderer) expandTarget(name DottedName, dynamic bool, tagIndent string, st *Stack, indent string, depth int, partials PartialResolver) (*RootNode, string, bool, error) {
	target := name.String()
	if dynamic {
		v, ok := st.Lookup(name)
		if !ok {
			if r.config.StrictLookup {
				return nil, "", false, r.newStrictLookupError(name)
			}
			return nil, "", false, nil
		}
		s, err := v.Render()
		if err != nil {
			return nil, "", false, &RenderError{Message: ErrMsgValueRenderFailed, Name: target, Cause: err}
		}
		target = s
	}

	if partials == nil {
		return nil, "", false, nil
	}
	source, ok := partials.Partial(target)
	if !ok {
		r.logger.Debug(LogMsgPartialMissing, zap.String(LogFieldPartial, target))
		return nil, "", false, nil
	}

	if depth+1 > r.config.MaxDepth {
		return nil, "", false, r.newDepthError(depth + 1)
	}
	r.logger.Debug(LogMsgPartialExpand,
		zap.String(LogFieldPartial, target),
		zap.Int(LogFieldDepth, depth+1))

	tokenizer := NewTokenizer(source, r.logger)
	tokens, err := tokenizer.Tokenize()
	if err != nil {
		return nil, "", false, err
	}
	root, err := NewParser(tokens, source, r.logger).Parse()
	if err != nil {
		return nil, "", false, err
	}
	return root, indent + tagIndent, true, nil
}

// overrideScope layers block overrides across nested parent expansions.
// Lookups consult the enclosing scope first, so the outermost call site
// wins when several parents override the same block name.
type overrideScope struct {
	outer  *overrideScope
	blocks map[string][]Node
}

func (s *overrideScope) lookup(name string) ([]Node, bool) {
	if s == nil {
		return nil, false
	}
	if nodes, ok := s.outer.lookup(name); ok {
		return nodes, ok
	}
	nodes, ok := s.blocks[name]
	return nodes, ok
}

// htmlEscaper rewrites the five HTML-significant characters.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// indentWriter accumulates output while tracking line starts so partial
// expansions can prefix their lines with the call-site indentation.
// Indentation is inserted at line starts produced by literal text and at
// the start of an interpolated value, never inside one: line breaks that
// arrive inside interpolated data do not pick up the prefix.
type indentWriter struct {
	b           strings.Builder
	atLineStart bool
}

func newIndentWriter() *indentWriter {
	return &indentWriter{atLineStart: true}
}

// writeText emits literal template text, prefixing each started line
// with indent. The final segment after the last newline of an expansion
// is only prefixed once something is written to it.
func (w *indentWriter) writeText(s, indent string) {
	for len(s) > 0 {
		line := s
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			line = s[:i+1]
			s = s[i+1:]
		} else {
			s = ""
		}
		if w.atLineStart && indent != "" {
			w.b.WriteString(indent)
		}
		w.b.WriteString(line)
		w.atLineStart = strings.HasSuffix(line, "\n")
	}
}

// writeValue emits an interpolated value verbatim, prefixing only its
// first line when it begins a line.
func (w *indentWriter) writeValue(s, indent string) {
	if s == "" {
		return
	}
	if w.atLineStart && indent != "" {
		w.b.WriteString(indent)
	}
	w.b.WriteString(s)
	w.atLineStart = strings.HasSuffix(s, "\n")
}

func (w *indentWriter) String() string {
	return w.b.String()
}

// Error helpers

func (r *Renderer) newStrictLookupError(name DottedName) error {
	return &RenderError{Message: ErrMsgStrictLookupFailed, Name: name.String()}
}

func (r *Renderer) newDepthError(depth int) error {
	return &RenderError{Message: ErrMsgMaxDepthExceeded, Depth: depth}
}

// RenderError represents a renderer error.
type RenderError struct {
	Message string
	Name    string
	Depth   int
	Cause   error
}

func (e *RenderError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Name)
	}
	if e.Depth > 0 {
		msg = fmt.Sprintf("%s (depth %d)", msg, e.Depth)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error.
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Renderer error message constants
const (
	ErrMsgMaxDepthExceeded   = "maximum expansion depth exceeded"
	ErrMsgStrictLookupFailed = "name not found in context"
	ErrMsgValueRenderFailed  = "value stringification failed"
	ErrMsgUnknownNodeType    = "unknown node type"
)
