package stache

import (
	"go.uber.org/zap"

	"github.com/itsatony/go-stache/internal"
)

// Engine is the main entry point for the stache templating system. It
// holds configuration shared by every template it parses.
type Engine struct {
	config *engineConfig
	logger *zap.Logger
}

// New creates a new stache Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		config: config,
		logger: logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Parse parses a template source string and returns a Template. The
// returned Template can be rendered multiple times with different data.
func (e *Engine) Parse(source string) (*Template, error) {
	tokenizer := internal.NewTokenizer(source, e.logger)
	tokens, err := tokenizer.Tokenize()
	if err != nil {
		return nil, wrapEngineError(err)
	}

	parser := internal.NewParser(tokens, source, e.logger)
	root, err := parser.Parse()
	if err != nil {
		return nil, wrapEngineError(err)
	}

	return newTemplate(source, root, e), nil
}

// Render is a convenience method that parses and renders in one step.
// For templates that will be rendered multiple times, use Parse()
// instead.
func (e *Engine) Render(source string, data Value) (string, error) {
	tmpl, err := e.Parse(source)
	if err != nil {
		return "", err
	}
	return tmpl.Render(data)
}

// Render parses source and renders it against data with the given
// partial resolver, applying any options on a throwaway engine. It is
// the one-call entry point.
func Render(source string, data Value, partials PartialResolver, opts ...Option) (string, error) {
	engine, err := New(opts...)
	if err != nil {
		return "", err
	}
	tmpl, err := engine.Parse(source)
	if err != nil {
		return "", err
	}
	if partials == nil {
		return tmpl.Render(data)
	}
	return tmpl.RenderWithPartials(data, partials)
}
