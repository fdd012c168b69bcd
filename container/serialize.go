package container

import (
	"encoding/binary"
	"fmt"

	"github.com/qfold/qfold/codec"
	"github.com/qfold/qfold/interference"
	"github.com/qfold/qfold/internal/hash"
	"github.com/qfold/qfold/quantum"
)

// Frame layout, all integers little endian:
//
//	offset size field
//	0      4    magic "QFLD"
//	4      2    format version
//	6      2    flags (reserved)
//	8      4    payload CRC-32C
//	12     4    payload length
//	16     1    codec name length
//	17     n    codec name
//	17+n   m    payload
var frameMagic = [4]byte{'Q', 'F', 'L', 'D'}

const frameFixedLen = 16 // excludes variable codec name bytes

// IsFrame reports whether data starts with a container frame header. It
// lets callers distinguish archives from other artifacts without running a
// full Deserialize.
func IsFrame(data []byte) bool {
	if len(data) < len(frameMagic) {
		return false
	}

	var magic [4]byte
	copy(magic[:], data[:4])

	return magic == frameMagic
}

// document is the codec-facing shape of a container. Pair members are not
// stored twice: each pair record carries arena indices and the members are
// rebuilt from the arena on load.
type document struct {
	Meta     Metadata               `json:"meta" msgpack:"meta"`
	States   []stateRecord          `json:"states" msgpack:"states"`
	Pairs    []pairRecord           `json:"pairs,omitempty" msgpack:"pairs,omitempty"`
	Patterns []interference.Pattern `json:"patterns,omitempty" msgpack:"patterns,omitempty"`
	Checksum uint32                 `json:"checksum" msgpack:"checksum"`
}

type stateRecord struct {
	Amplitudes     []quantum.Amplitude `json:"amplitudes" msgpack:"amplitudes"`
	Phase          float64             `json:"phase" msgpack:"phase"`
	EntanglementID string              `json:"entanglement_id,omitempty" msgpack:"entanglement_id,omitempty"`
}

type pairRecord struct {
	ID          string  `json:"id" msgpack:"id"`
	A           int     `json:"a" msgpack:"a"`
	B           int     `json:"b" msgpack:"b"`
	Correlation float64 `json:"correlation" msgpack:"correlation"`
	Shared      []byte  `json:"shared,omitempty" msgpack:"shared,omitempty"`
}

// Serialize encodes the container into a self-describing frame using the
// default codec.
func (c *Container) Serialize() ([]byte, error) {
	return c.SerializeWith(codec.Default)
}

// SerializeWith encodes the container with the given codec. The frame
// records the codec name, so Deserialize does not depend on the default.
func (c *Container) SerializeWith(cdc codec.Codec) ([]byte, error) {
	name := cdc.Name()
	if len(name) == 0 || len(name) > 255 {
		return nil, &ErrInvalidParameter{Param: "codec name", Value: name, Constraint: "between 1 and 255 bytes"}
	}

	doc := document{
		Meta:     c.meta,
		States:   make([]stateRecord, len(c.states)),
		Patterns: c.patterns,
		Checksum: c.checksum,
	}

	for i, s := range c.states {
		doc.States[i] = stateRecord{
			Amplitudes:     s.Amplitudes(),
			Phase:          s.Phase(),
			EntanglementID: s.EntanglementID(),
		}
	}

	for _, p := range c.pairs {
		m := c.members[p.ID()]
		doc.Pairs = append(doc.Pairs, pairRecord{
			ID:          p.ID(),
			A:           m[0],
			B:           m[1],
			Correlation: p.Correlation(),
			Shared:      p.SharedInformation(),
		})
	}

	payload, err := cdc.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal container: %w", err)
	}

	out := make([]byte, frameFixedLen+1+len(name)+len(payload))
	copy(out[0:4], frameMagic[:])
	binary.LittleEndian.PutUint16(out[4:6], uint16(c.meta.FormatVersion))
	// out[6:8] reserved
	binary.LittleEndian.PutUint32(out[8:12], hash.CRC32C(payload))
	binary.LittleEndian.PutUint32(out[12:16], uint32(len(payload)))
	out[frameFixedLen] = byte(len(name))
	copy(out[frameFixedLen+1:], name)
	copy(out[frameFixedLen+1+len(name):], payload)

	return out, nil
}

// Deserialize rebuilds a container from a serialized frame. The frame
// checksum guards the payload bytes and the content checksum recorded in the
// payload is verified against the rebuilt aggregate.
func Deserialize(data []byte) (*Container, error) {
	if len(data) < frameFixedLen+1 {
		return nil, &ErrDeserialization{Reason: fmt.Sprintf("frame too short: %d bytes", len(data))}
	}

	var magic [4]byte
	copy(magic[:], data[0:4])
	if magic != frameMagic {
		return nil, &ErrDeserialization{Reason: "invalid header magic"}
	}

	version := int(binary.LittleEndian.Uint16(data[4:6]))
	if version != CurrentVersion {
		return nil, &ErrUnsupportedVersion{Have: version, Want: CurrentVersion}
	}

	wantSum := binary.LittleEndian.Uint32(data[8:12])
	payloadLen := int(binary.LittleEndian.Uint32(data[12:16]))

	nameLen := int(data[frameFixedLen])
	nameEnd := frameFixedLen + 1 + nameLen
	if nameEnd > len(data) {
		return nil, &ErrDeserialization{Reason: "truncated codec name"}
	}

	name := string(data[frameFixedLen+1 : nameEnd])
	cdc, ok := codec.ByName(name)
	if !ok {
		return nil, &ErrDeserialization{Reason: fmt.Sprintf("unknown codec %q", name)}
	}

	payload := data[nameEnd:]
	if len(payload) != payloadLen {
		return nil, &ErrDeserialization{Reason: fmt.Sprintf("payload length mismatch: header says %d, frame has %d", payloadLen, len(payload))}
	}

	if got := hash.CRC32C(payload); got != wantSum {
		return nil, &ErrDeserialization{Reason: "frame corrupted", cause: &ErrChecksumMismatch{Expected: wantSum, Actual: got}}
	}

	var doc document
	if err := cdc.Unmarshal(payload, &doc); err != nil {
		return nil, &ErrDeserialization{Reason: "decode payload", cause: err}
	}

	return fromDocument(doc)
}

func fromDocument(doc document) (*Container, error) {
	if doc.Meta.FormatVersion != CurrentVersion {
		return nil, &ErrUnsupportedVersion{Have: doc.Meta.FormatVersion, Want: CurrentVersion}
	}

	if len(doc.States) == 0 {
		return nil, &ErrDeserialization{Reason: "no states", cause: ErrNoStates}
	}

	c := &Container{
		states:    make([]*quantum.StateVector, len(doc.States)),
		pairs:     make([]*quantum.EntanglementPair, 0, len(doc.Pairs)),
		pairIndex: make(map[string]int, len(doc.Pairs)),
		members:   make(map[string][2]int, len(doc.Pairs)),
		patterns:  doc.Patterns,
		meta:      doc.Meta,
		checksum:  doc.Checksum,
	}

	for i, r := range doc.States {
		c.states[i] = quantum.RestoreStateVector(r.Amplitudes, r.Phase, r.EntanglementID)
	}

	for _, r := range doc.Pairs {
		if r.A < 0 || r.A >= len(c.states) || r.B < 0 || r.B >= len(c.states) {
			return nil, &ErrDeserialization{Reason: fmt.Sprintf("pair %s references states out of range", r.ID)}
		}

		a := c.states[r.A].WithEntanglementID(r.ID)
		b := c.states[r.B].WithEntanglementID(r.ID)

		c.pairIndex[r.ID] = len(c.pairs)
		c.members[r.ID] = [2]int{r.A, r.B}
		c.pairs = append(c.pairs, quantum.RestoreEntanglementPair(r.ID, a, b, r.Correlation, r.Shared))
	}

	if sum := c.contentChecksum(); sum != c.checksum {
		return nil, &ErrDeserialization{Reason: "content checksum mismatch", cause: &ErrChecksumMismatch{Expected: c.checksum, Actual: sum}}
	}

	return c, nil
}
