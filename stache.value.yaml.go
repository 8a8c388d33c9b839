package stache

import (
	"github.com/itsatony/go-cuserr"
	"gopkg.in/yaml.v3"
)

// FromYAML decodes a YAML document into a Value tree. Mappings require
// string keys; scalars map onto the null/bool/number/string kinds.
func FromYAML(data []byte) (Value, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeParse, ErrMsgYAMLDecode)
	}
	return FromGo(raw), nil
}

// MustFromYAML decodes a YAML document and panics on error.
func MustFromYAML(data []byte) Value {
	v, err := FromYAML(data)
	if err != nil {
		panic(err)
	}
	return v
}
