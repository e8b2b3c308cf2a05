// Package decode maps loosely typed JSON payloads onto caller structs.
// Event payloads arrive as map[string]interface{} after json.Unmarshal;
// handlers want their own typed view of them.
package decode

import (
	"github.com/mitchellh/mapstructure"
)

// Map decodes a generic payload into out. Field names follow json tags and
// numeric strings are coerced, which matches what a browser client sends.
func Map(payload interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(payload)
}
