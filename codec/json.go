package codec

import "encoding/json"

// JSON is the standard-library JSON codec.
//
// It exists for debugging and interoperability: a JSON-encoded container can
// be inspected with standard tooling at the cost of size. Persisted
// containers record the codec name, so files written with either codec
// always open correctly.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }
