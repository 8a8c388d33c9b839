package stache

import "github.com/itsatony/go-stache/internal"

// Default delimiters and limits
const (
	DefaultOpenDelim  = internal.DefaultOpenDelim
	DefaultCloseDelim = internal.DefaultCloseDelim

	// DefaultMaxDepth bounds nested partial and parent expansion.
	DefaultMaxDepth = internal.DefaultMaxDepth
)

// Error code constants for categorization
const (
	ErrCodeTokenize = "STACHE_TOKENIZE"
	ErrCodeParse    = "STACHE_PARSE"
	ErrCodeRender   = "STACHE_RENDER"
	ErrCodeStorage  = "STACHE_STORAGE"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Tokenize/parse errors
	ErrMsgTokenizeFailed = "template tokenization failed"
	ErrMsgParseFailed    = "template parsing failed"

	// Render errors
	ErrMsgRenderFailed  = "template rendering failed"
	ErrMsgNameNotFound  = "name not found in context"
	ErrMsgDepthExceeded = "maximum expansion depth exceeded"
	ErrMsgValueRender   = "value stringification failed"
	ErrMsgNilData       = "data root cannot be nil"

	// Adapter errors
	ErrMsgJSONDecode = "json decoding failed"
	ErrMsgYAMLDecode = "yaml decoding failed"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyLine     = "line"
	MetaKeyColumn   = "column"
	MetaKeyOffset   = "offset"
	MetaKeyName     = "name"
	MetaKeyExpected = "expected"
	MetaKeyActual   = "actual"
	MetaKeyDepth    = "depth"
	MetaKeyPartial  = "partial"
)
