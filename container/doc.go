// Package container defines the serialized envelope that aggregates the
// outputs of a compression run: the state arena, the entanglement pair
// table, interference descriptors, run metadata and a content checksum.
//
// A container is created once at the end of compression and is immutable
// afterwards; the only operations are inspection, integrity verification and
// serialization. Serialized containers are self-describing: the frame header
// records the format version and the codec that encoded the payload, so any
// supported codec can be decoded regardless of the current default.
package container
