package stache

import (
	"strings"

	"github.com/itsatony/go-stache/internal"
)

// Template is a parsed template ready for rendering. A Template is
// immutable and safe for concurrent rendering with independent data.
type Template struct {
	source string
	root   *internal.RootNode
	engine *Engine
}

// newTemplate creates a Template bound to the engine that parsed it.
func newTemplate(source string, root *internal.RootNode, engine *Engine) *Template {
	return &Template{
		source: source,
		root:   root,
		engine: engine,
	}
}

// Source returns the original template source.
func (t *Template) Source() string {
	return t.source
}

// Render renders the template against data using the engine's
// configured partial resolver.
func (t *Template) Render(data Value) (string, error) {
	return t.RenderWithPartials(data, t.engine.config.partials)
}

// RenderWithPartials renders the template against data, resolving
// partial and parent tags through the given resolver. A nil resolver
// renders every partial as empty.
func (t *Template) RenderWithPartials(data Value, partials PartialResolver) (string, error) {
	if data == nil {
		data = Null()
	}

	renderer := internal.NewRenderer(internal.RenderConfig{
		MaxDepth:     t.engine.config.maxDepth,
		StrictLookup: t.engine.config.strictLookup,
	}, t.engine.logger)

	out, err := renderer.Render(t.root, data, partials)
	if err != nil {
		return "", wrapEngineError(err)
	}
	return out, nil
}

// SectionLocation returns the byte range of the literal content of the
// section addressed by path. The path is a dot-separated chain of
// section names from the template root, where each link may itself be a
// dotted section name; standalone trimming is reflected in the range.
// Returns ok=false when no such section exists.
func (t *Template) SectionLocation(path string) (start, end int, ok bool) {
	return findSection(t.root.Children, path)
}

// findSection scans nodes at one nesting level for a section matching
// path, descending when a section name is a strict prefix of it.
func findSection(nodes []internal.Node, path string) (int, int, bool) {
	for _, node := range nodes {
		section, isSection := node.(*internal.SectionNode)
		if !isSection || section.Inverted {
			continue
		}
		if section.RawName == path {
			return section.SliceStart, section.SliceEnd, true
		}
		if strings.HasPrefix(path, section.RawName+".") {
			if start, end, ok := findSection(section.Children, path[len(section.RawName)+1:]); ok {
				return start, end, ok
			}
		}
	}
	return 0, 0, false
}
