// Package stache is a Mustache template engine.
//
// The engine implements the full core template syntax — interpolation
// with HTML escaping, sections and inverted sections, comments, partials
// with standalone-line indentation, and in-template delimiter changes —
// plus the dynamic-names and inheritance (parent/block) extensions.
//
// # Basic Usage
//
// Create an engine, parse a template and render it against data:
//
//	engine := stache.MustNew()
//	tmpl, err := engine.Parse("Hello, {{name}}!")
//	out, err := tmpl.Render(stache.Map(map[string]stache.Value{
//	    "name": stache.String("world"),
//	}))
//	// out: "Hello, world!"
//
// The package-level Render helper parses and renders in one step:
//
//	out, err := stache.Render("Hello, {{name}}!", data, nil)
//
// # Data
//
// Templates render against the Value contract: every value reports its
// kind, truthiness and text form, mappings support keyed child lookup,
// and sequences iterate. Build values directly with Null, Bool, Number,
// String, List, Map and Lambda, or adapt existing data:
//
//	data, err := stache.FromJSON([]byte(`{"items": ["a", "b"]}`))
//	data, err := stache.FromYAML([]byte("items: [a, b]"))
//	data := stache.FromGo(map[string]any{"items": []any{"a", "b"}})
//
// # Partials
//
// Partials are resolved by name through a PartialResolver. PartialMap
// serves them from memory; storage-backed resolvers (filesystem,
// PostgreSQL) are available through OpenStorage and StorageResolver.
//
//	partials := stache.PartialMap{"greeting": "Hi {{name}}"}
//	out, err := stache.Render("{{>greeting}}", data, partials)
//
// # Sections backed by code
//
// A Lambda value backs a section with code. It receives the literal
// template text between the section tags and the live context stack, and
// returns a fresh Value that the renderer dispatches in its place:
//
//	wrapped := stache.Lambda(func(raw string, stack *stache.ContextStack) stache.Value {
//	    return stache.String("[" + raw + "]")
//	})
//
// The raw text is never re-parsed by the engine.
//
// # Configuration
//
// Customize an engine with functional options:
//
//	engine, err := stache.New(
//	    stache.WithMaxDepth(64),
//	    stache.WithStrictLookup(true),
//	    stache.WithPartials(partials),
//	    stache.WithLogger(logger),
//	)
package stache
