package stache

import (
	"bytes"
	"encoding/json"

	"github.com/itsatony/go-cuserr"
)

// FromJSON decodes a JSON document into a Value tree. Objects become
// mappings, arrays become sequences, and numbers keep their source
// notation, so 1.21 interpolates as "1.21" rather than a re-formatted
// float.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeParse, ErrMsgJSONDecode)
	}
	return fromJSONValue(raw), nil
}

// MustFromJSON decodes a JSON document and panics on error.
func MustFromJSON(data []byte) Value {
	v, err := FromJSON(data)
	if err != nil {
		panic(err)
	}
	return v
}

func fromJSONValue(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case json.Number:
		return numberValue(t.String())
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			items = append(items, fromJSONValue(item))
		}
		return listValue(items)
	case map[string]any:
		entries := make(map[string]Value, len(t))
		for k, v := range t {
			entries[k] = fromJSONValue(v)
		}
		return Map(entries)
	default:
		return FromGo(raw)
	}
}
