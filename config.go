package qfold

import (
	"fmt"
	"sort"
	"strconv"
)

// maxConfigProduct caps the combined work factor of a configuration.
// The product of bit depth, entanglement level and superposition
// complexity drives the cost of the pairing and optimization phases.
const maxConfigProduct = 512

// QuantumConfig holds the tunable parameters of the quantum pipeline.
//
// All four fields are range checked, and three cross-field constraints
// keep the combination feasible: the entanglement level may not exceed
// half the bit depth, the superposition complexity may not exceed the
// bit depth, and the product of the three integer fields may not exceed
// maxConfigProduct.
type QuantumConfig struct {
	// QuantumBitDepth is the number of bits represented per state
	// vector. Range [2,16].
	QuantumBitDepth int

	// MaxEntanglementLevel bounds how aggressively states are paired.
	// Range [1,8].
	MaxEntanglementLevel int

	// SuperpositionComplexity bounds how many states contribute to a
	// combined superposition during analysis. Range [1,10].
	SuperpositionComplexity int

	// InterferenceThreshold is the base probability threshold for the
	// interference optimization passes. Range [0.1,0.9].
	InterferenceThreshold float64
}

// DefaultQuantumConfig returns a balanced configuration suitable for
// mixed input data.
func DefaultQuantumConfig() QuantumConfig {
	return QuantumConfig{
		QuantumBitDepth:         8,
		MaxEntanglementLevel:    4,
		SuperpositionComplexity: 5,
		InterferenceThreshold:   0.5,
	}
}

// Validate checks every field range and the cross-field constraints.
// The returned error names the violated constraint.
func (c QuantumConfig) Validate() error {
	if c.QuantumBitDepth < 2 || c.QuantumBitDepth > 16 {
		return &ErrInvalidParameter{Param: "quantum bit depth", Value: c.QuantumBitDepth, Constraint: "in range [2,16]"}
	}

	if c.MaxEntanglementLevel < 1 || c.MaxEntanglementLevel > 8 {
		return &ErrInvalidParameter{Param: "max entanglement level", Value: c.MaxEntanglementLevel, Constraint: "in range [1,8]"}
	}

	if c.SuperpositionComplexity < 1 || c.SuperpositionComplexity > 10 {
		return &ErrInvalidParameter{Param: "superposition complexity", Value: c.SuperpositionComplexity, Constraint: "in range [1,10]"}
	}

	if c.InterferenceThreshold < 0.1 || c.InterferenceThreshold > 0.9 {
		return &ErrInvalidParameter{Param: "interference threshold", Value: c.InterferenceThreshold, Constraint: "in range [0.1,0.9]"}
	}

	if max := c.QuantumBitDepth / 2; c.MaxEntanglementLevel > max {
		return &ErrInvalidParameter{
			Param:      "max entanglement level",
			Value:      c.MaxEntanglementLevel,
			Constraint: fmt.Sprintf("at most half the quantum bit depth (%d)", max),
		}
	}

	if c.SuperpositionComplexity > c.QuantumBitDepth {
		return &ErrInvalidParameter{
			Param:      "superposition complexity",
			Value:      c.SuperpositionComplexity,
			Constraint: fmt.Sprintf("at most the quantum bit depth (%d)", c.QuantumBitDepth),
		}
	}

	if product := c.QuantumBitDepth * c.MaxEntanglementLevel * c.SuperpositionComplexity; product > maxConfigProduct {
		return &ErrInvalidParameter{
			Param:      "config work factor",
			Value:      product,
			Constraint: fmt.Sprintf("at most %d (bit depth * entanglement level * superposition complexity)", maxConfigProduct),
		}
	}

	return nil
}

// Config map keys used by Map and ConfigFromMap. Container metadata
// stores configurations in this form.
const (
	configKeyBitDepth     = "quantum_bit_depth"
	configKeyEntanglement = "max_entanglement_level"
	configKeyComplexity   = "superposition_complexity"
	configKeyInterference = "interference_threshold"
)

// Map renders the configuration as a flat string map, suitable for
// container metadata. ConfigFromMap reverses it.
func (c QuantumConfig) Map() map[string]string {
	return map[string]string{
		configKeyBitDepth:     strconv.Itoa(c.QuantumBitDepth),
		configKeyEntanglement: strconv.Itoa(c.MaxEntanglementLevel),
		configKeyComplexity:   strconv.Itoa(c.SuperpositionComplexity),
		configKeyInterference: strconv.FormatFloat(c.InterferenceThreshold, 'g', -1, 64),
	}
}

// ConfigFromMap parses a configuration from its Map form and validates
// it. Keys the configuration does not define are ignored, so the map
// may carry additional metadata entries.
func ConfigFromMap(m map[string]string) (QuantumConfig, error) {
	var c QuantumConfig

	intField := func(key string, dst *int) error {
		raw, ok := m[key]
		if !ok {
			return &ErrInvalidParameter{Param: key, Value: "<missing>", Constraint: "present"}
		}

		v, err := strconv.Atoi(raw)
		if err != nil {
			return &ErrInvalidParameter{Param: key, Value: raw, Constraint: "an integer"}
		}

		*dst = v

		return nil
	}

	if err := intField(configKeyBitDepth, &c.QuantumBitDepth); err != nil {
		return QuantumConfig{}, err
	}

	if err := intField(configKeyEntanglement, &c.MaxEntanglementLevel); err != nil {
		return QuantumConfig{}, err
	}

	if err := intField(configKeyComplexity, &c.SuperpositionComplexity); err != nil {
		return QuantumConfig{}, err
	}

	raw, ok := m[configKeyInterference]
	if !ok {
		return QuantumConfig{}, &ErrInvalidParameter{Param: configKeyInterference, Value: "<missing>", Constraint: "present"}
	}

	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return QuantumConfig{}, &ErrInvalidParameter{Param: configKeyInterference, Value: raw, Constraint: "a float"}
	}

	c.InterferenceThreshold = threshold

	if err := c.Validate(); err != nil {
		return QuantumConfig{}, err
	}

	return c, nil
}

// presets maps preset names to configurations tuned for a class of
// input data. Every preset satisfies Validate.
var presets = map[string]QuantumConfig{
	// Text has long-range repetition and a narrow byte alphabet, so it
	// rewards deeper pairing at a moderate bit depth.
	"text": {
		QuantumBitDepth:         8,
		MaxEntanglementLevel:    4,
		SuperpositionComplexity: 5,
		InterferenceThreshold:   0.55,
	},
	// Binary data mixes structured headers with high-entropy regions.
	"binary": {
		QuantumBitDepth:         10,
		MaxEntanglementLevel:    5,
		SuperpositionComplexity: 6,
		InterferenceThreshold:   0.65,
	},
	// Image-like data carries smooth gradients worth a wide state.
	"image": {
		QuantumBitDepth:         12,
		MaxEntanglementLevel:    6,
		SuperpositionComplexity: 7,
		InterferenceThreshold:   0.6,
	},
	// Throughput over ratio.
	"high-performance": {
		QuantumBitDepth:         6,
		MaxEntanglementLevel:    3,
		SuperpositionComplexity: 3,
		InterferenceThreshold:   0.7,
	},
	// Minimal working set for constrained hosts.
	"low-resource": {
		QuantumBitDepth:         4,
		MaxEntanglementLevel:    2,
		SuperpositionComplexity: 2,
		InterferenceThreshold:   0.5,
	},
}

// PresetConfig returns the named preset configuration. The second
// return value reports whether the name is known.
func PresetConfig(name string) (QuantumConfig, bool) {
	c, ok := presets[name]

	return c, ok
}

// PresetNames returns the available preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
