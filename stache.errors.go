package stache

import (
	"errors"
	"strconv"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-stache/internal"
)

// Position is a location in the source template.
type Position = internal.Position

// NewTokenizeError creates a tokenization error with position context.
func NewTokenizeError(msg string, pos Position, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeTokenize, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeTokenize, msg)
	}
	return withPosition(err, pos)
}

// NewParseError creates a parse error with position context.
func NewParseError(msg string, pos Position, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeParse, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeParse, msg)
	}
	return withPosition(err, pos)
}

// NewRenderError creates a render error.
func NewRenderError(msg string, cause error) error {
	if cause != nil {
		return cuserr.WrapStdError(cause, ErrCodeRender, msg)
	}
	return cuserr.NewInternalError(ErrCodeRender, nil)
}

// NewNameNotFoundError creates a strict-lookup failure error.
func NewNameNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyName, ErrMsgNameNotFound).
		WithMetadata(MetaKeyName, name)
}

// NewDepthExceededError creates an expansion depth overflow error.
func NewDepthExceededError(depth int) error {
	return cuserr.NewValidationError(ErrCodeRender, ErrMsgDepthExceeded).
		WithMetadata(MetaKeyDepth, strconv.Itoa(depth))
}

func withPosition(err *cuserr.CustomError, pos Position) error {
	return err.
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// wrapEngineError translates internal tokenizer, parser and renderer
// errors into the public error taxonomy, carrying position and name
// metadata across the boundary.
func wrapEngineError(err error) error {
	if err == nil {
		return nil
	}

	var tokErr *internal.TokenizeError
	if errors.As(err, &tokErr) {
		return NewTokenizeError(tokErr.Message, tokErr.Position, err)
	}

	var parseErr *internal.ParseError
	if errors.As(err, &parseErr) {
		wrapped := cuserr.WrapStdError(err, ErrCodeParse, parseErr.Message).
			WithMetadata(MetaKeyExpected, parseErr.Expected).
			WithMetadata(MetaKeyActual, parseErr.Actual)
		return withPosition(wrapped, parseErr.Position)
	}

	var renderErr *internal.RenderError
	if errors.As(err, &renderErr) {
		switch renderErr.Message {
		case internal.ErrMsgStrictLookupFailed:
			return NewNameNotFoundError(renderErr.Name)
		case internal.ErrMsgMaxDepthExceeded:
			return NewDepthExceededError(renderErr.Depth)
		default:
			return cuserr.WrapStdError(err, ErrCodeRender, renderErr.Message).
				WithMetadata(MetaKeyName, renderErr.Name)
		}
	}

	return err
}
