// Package quantum defines the core data model of the qfold engine: complex
// amplitudes, normalized state vectors, weighted superpositions and
// correlation-based entanglement pairs.
//
// All types are value-oriented and immutable after construction;
// transformations return new instances. "Quantum" here is domain vocabulary
// for classical numeric techniques - amplitudes are plain complex numbers
// whose squared magnitudes act as probability masses.
package quantum
