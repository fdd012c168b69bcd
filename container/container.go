package container

import (
	"time"

	"github.com/qfold/qfold/entangle"
	"github.com/qfold/qfold/interference"
	"github.com/qfold/qfold/quantum"
)

// CurrentVersion is the container format version written by this package.
const CurrentVersion = 1

// Decompression time model, measured on commodity hardware. The estimate is
// linear in the container dimensions.
const (
	decodeBaseCost      = 500 * time.Microsecond
	decodeStateCost     = 2 * time.Microsecond
	decodeAmplitudeCost = 50 * time.Nanosecond
	decodePairCost      = 1 * time.Microsecond
)

// Metadata describes a compression run. It is stamped once at creation.
type Metadata struct {
	OriginalSize   int               `json:"original_size" msgpack:"original_size"`
	CompressedSize int               `json:"compressed_size" msgpack:"compressed_size"`
	Ratio          float64           `json:"ratio" msgpack:"ratio"`
	StateCount     int               `json:"state_count" msgpack:"state_count"`
	PairCount      int               `json:"pair_count" msgpack:"pair_count"`
	PatternCount   int               `json:"pattern_count" msgpack:"pattern_count"`
	CreatedAt      time.Time         `json:"created_at" msgpack:"created_at"`
	FormatVersion  int               `json:"format_version" msgpack:"format_version"`
	Config         map[string]string `json:"config,omitempty" msgpack:"config,omitempty"`
}

// Stats summarizes the size outcome of a compression run.
type Stats struct {
	OriginalSize      int
	CompressedSize    int
	Ratio             float64
	SpaceSavedPercent float64
}

// Stats derives the size summary from the stamped metadata.
func (m Metadata) Stats() Stats {
	s := Stats{
		OriginalSize:   m.OriginalSize,
		CompressedSize: m.CompressedSize,
		Ratio:          m.Ratio,
	}

	if m.OriginalSize > 0 {
		s.SpaceSavedPercent = (1 - float64(m.CompressedSize)/float64(m.OriginalSize)) * 100
	}

	return s
}

// Container aggregates the outputs of one compression run. It is immutable
// after creation.
type Container struct {
	states    []*quantum.StateVector
	pairs     []*quantum.EntanglementPair
	pairIndex map[string]int
	members   map[string][2]int
	patterns  []interference.Pattern
	meta      Metadata
	checksum  uint32
}

// New assembles a container from the compression pipeline outputs. The
// compressed size recorded in the metadata is a length-based estimate of all
// inputs, not the byte length of any particular serialization.
func New(states []*quantum.StateVector, matches []entangle.Match, patterns []interference.Pattern, originalSize int, config map[string]string) (*Container, error) {
	if originalSize <= 0 {
		return nil, &ErrInvalidParameter{Param: "original size", Value: originalSize, Constraint: "positive"}
	}

	if len(states) == 0 {
		return nil, ErrNoStates
	}

	c := &Container{
		states:    append([]*quantum.StateVector(nil), states...),
		pairIndex: make(map[string]int, len(matches)),
		members:   make(map[string][2]int, len(matches)),
		patterns:  append([]interference.Pattern(nil), patterns...),
	}

	for _, m := range matches {
		if m.Pair == nil {
			return nil, &ErrInvalidParameter{Param: "pair", Value: nil, Constraint: "non-nil"}
		}

		if m.A < 0 || m.A >= len(states) || m.B < 0 || m.B >= len(states) {
			return nil, &ErrInvalidParameter{Param: "pair indices", Value: [2]int{m.A, m.B}, Constraint: "within the state arena"}
		}

		id := m.Pair.ID()

		// The arena entries carry the pair identifier as a back-reference,
		// the same way fromDocument re-tags them on load.
		c.states[m.A] = c.states[m.A].WithEntanglementID(id)
		c.states[m.B] = c.states[m.B].WithEntanglementID(id)

		c.pairIndex[id] = len(c.pairs)
		c.members[id] = [2]int{m.A, m.B}
		c.pairs = append(c.pairs, m.Pair)
	}

	compressedSize := c.estimateSize(config)

	c.meta = Metadata{
		OriginalSize:   originalSize,
		CompressedSize: compressedSize,
		Ratio:          float64(originalSize) / float64(compressedSize),
		StateCount:     len(c.states),
		PairCount:      len(c.pairs),
		PatternCount:   len(c.patterns),
		CreatedAt:      time.Now().UTC(),
		FormatVersion:  CurrentVersion,
		Config:         cloneConfig(config),
	}

	c.checksum = c.contentChecksum()

	return c, nil
}

// Per-component serialized size accounting used for the compressed-size
// estimate.
const (
	envelopeOverhead = 64
	phaseSize        = 8
	amplitudeSize    = 16
	pairFixedSize    = 24
	patternSize      = 56
)

func (c *Container) estimateSize(config map[string]string) int {
	size := envelopeOverhead

	for _, s := range c.states {
		size += phaseSize + amplitudeSize*s.Len() + len(s.EntanglementID())
	}

	for _, p := range c.pairs {
		size += pairFixedSize + len(p.ID()) + len(p.SharedInformation())
	}

	size += patternSize * len(c.patterns)

	for k, v := range config {
		size += len(k) + len(v) + 2
	}

	return size
}

func cloneConfig(config map[string]string) map[string]string {
	if config == nil {
		return nil
	}

	out := make(map[string]string, len(config))
	for k, v := range config {
		out[k] = v
	}

	return out
}

// States returns the state arena in original order.
func (c *Container) States() []*quantum.StateVector {
	return append([]*quantum.StateVector(nil), c.states...)
}

// Patterns returns the interference descriptors recorded at creation.
func (c *Container) Patterns() []interference.Pattern {
	return append([]interference.Pattern(nil), c.patterns...)
}

// Metadata returns the stamped run metadata.
func (c *Container) Metadata() Metadata {
	m := c.meta
	m.Config = cloneConfig(c.meta.Config)
	return m
}

// GetCompressionStats derives the size summary of this run.
func (c *Container) GetCompressionStats() Stats {
	return c.meta.Stats()
}

// GetEntanglementPairs returns all pairs in creation order.
func (c *Container) GetEntanglementPairs() []*quantum.EntanglementPair {
	return append([]*quantum.EntanglementPair(nil), c.pairs...)
}

// FindEntanglementPair looks up a pair by its entanglement identifier.
func (c *Container) FindEntanglementPair(id string) (*quantum.EntanglementPair, bool) {
	i, ok := c.pairIndex[id]
	if !ok {
		return nil, false
	}

	return c.pairs[i], true
}

// GetEntangledStates returns the arena states joined by the identified pair,
// or nil when the identifier is unknown.
func (c *Container) GetEntangledStates(id string) []*quantum.StateVector {
	m, ok := c.members[id]
	if !ok {
		return nil
	}

	return []*quantum.StateVector{c.states[m[0]], c.states[m[1]]}
}

// VerifyIntegrity recomputes the content checksum and compares it to the
// stored one.
func (c *Container) VerifyIntegrity() bool {
	return c.contentChecksum() == c.checksum
}

// Checksum returns the stored content checksum.
func (c *Container) Checksum() uint32 {
	return c.checksum
}

// EstimateDecompressionTime predicts how long Decompress will take for this
// container using the linear cost model.
func (c *Container) EstimateDecompressionTime() time.Duration {
	var amplitudes int
	for _, s := range c.states {
		amplitudes += s.Len()
	}

	return decodeBaseCost +
		time.Duration(len(c.states))*decodeStateCost +
		time.Duration(amplitudes)*decodeAmplitudeCost +
		time.Duration(len(c.pairs))*decodePairCost
}
