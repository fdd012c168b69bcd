// Package pattern mines recurring amplitude subsequences out of state
// vectors.
//
// The recognizer slides windows of every configured length over the
// concatenated amplitude sequence, groups identical windows, and ranks the
// resulting patterns by a significance score blending frequency, length and
// complexity. Supporting analyses (probability distributions, interference
// detection, compression efficiency, similarity grouping) feed the
// compression pipeline's parameter choices.
//
// Patterns are products of a single analysis pass; they are not persisted
// across calls.
package pattern
