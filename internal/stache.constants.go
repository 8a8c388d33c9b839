package internal

// Default delimiter and engine limits
const (
	DefaultOpenDelim  = "{{"
	DefaultCloseDelim = "}}"
	DefaultMaxDepth   = 256
)

// Name syntax markers
const (
	ImplicitIterator = "."
	NameSeparator    = "."
	DynamicPrefix    = "*"
)

// Log message constants
const (
	LogMsgTokenizerCreated = "tokenizer created"
	LogMsgTokenizeStart    = "tokenize start"
	LogMsgTokenizeEnd      = "tokenize complete"
	LogMsgParserCreated    = "parser created"
	LogMsgParseStart       = "parse start"
	LogMsgParseEnd         = "parse complete"
	LogMsgRenderStart      = "render start"
	LogMsgRenderEnd        = "render complete"
	LogMsgPartialExpand    = "expanding partial"
	LogMsgPartialMissing   = "partial not found"
	LogMsgDelimsChanged    = "delimiters changed"
)

// Log field name constants
const (
	LogFieldSource  = "source_bytes"
	LogFieldTokens  = "tokens"
	LogFieldNodes   = "nodes"
	LogFieldPartial = "partial"
	LogFieldDepth   = "depth"
	LogFieldOutput  = "output_bytes"
	LogFieldOpen    = "open"
	LogFieldClose   = "close"
)

// StringValueEmpty is the canonical empty string value.
const StringValueEmpty = ""
