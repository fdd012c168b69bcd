package container

import (
	"encoding/binary"
	"io"
	"math"
	"sort"

	"github.com/qfold/qfold/internal/hash"
)

// contentChecksum hashes every field that defines the container's content in
// a fixed order. Pair members are not hashed separately: they are derived
// from the arena states and the pair table, which are both covered.
func (c *Container) contentChecksum() uint32 {
	h := hash.NewCRC32C()

	var buf [8]byte

	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}

	writeString := func(s string) {
		writeInt(len(s))
		io.WriteString(h, s)
	}

	writeInt(c.meta.OriginalSize)
	writeInt(c.meta.CompressedSize)
	writeFloat(c.meta.Ratio)
	writeInt(c.meta.FormatVersion)
	writeInt(int(c.meta.CreatedAt.UnixNano()))

	keys := make([]string, 0, len(c.meta.Config))
	for k := range c.meta.Config {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		writeString(k)
		writeString(c.meta.Config[k])
	}

	writeInt(len(c.states))
	for _, s := range c.states {
		writeFloat(s.Phase())
		writeString(s.EntanglementID())
		writeInt(s.Len())

		for i := 0; i < s.Len(); i++ {
			a := s.Amplitude(i)
			writeFloat(a.Re)
			writeFloat(a.Im)
		}
	}

	writeInt(len(c.pairs))
	for _, p := range c.pairs {
		writeString(p.ID())

		m := c.members[p.ID()]
		writeInt(m[0])
		writeInt(m[1])

		writeFloat(p.Correlation())

		shared := p.SharedInformation()
		writeInt(len(shared))
		h.Write(shared)
	}

	writeInt(len(c.patterns))
	for _, p := range c.patterns {
		writeInt(int(p.Kind))
		writeFloat(p.Probability)
		writeFloat(p.Amplitude)
		writeFloat(p.Phase)
		writeFloat(p.Frequency)
		writeInt(p.StateA)
		writeInt(p.StateB)
	}

	return h.Sum32()
}
