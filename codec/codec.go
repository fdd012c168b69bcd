// Package codec centralizes container payload encoding.
//
// Codec selection is a compatibility boundary: serialized containers record
// the codec name in their envelope header, and deserialization selects the
// codec by that name. Changing the default only affects newly written
// containers.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "msgpack":
		return Msgpack{}, true
	case "json":
		return JSON{}, true
	default:
		return nil, false
	}
}

// Default is the codec used for newly written containers. Existing
// containers are self-describing and are opened by codec name.
var Default Codec = Msgpack{}
