package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack is a binary codec backed by github.com/vmihailenco/msgpack.
//
// It is the default: container payloads are float-heavy and MessagePack
// encodes them far more compactly than JSON, which matters in a format whose
// whole point is size.
type Msgpack struct{}

// Marshal encodes the value to MessagePack.
func (Msgpack) Marshal(v any) ([]byte, error) { return msgpack.Marshal(v) }

// Unmarshal decodes the MessagePack data into v.
func (Msgpack) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

// Name returns the unique name of the codec ("msgpack").
func (Msgpack) Name() string { return "msgpack" }
