// Package interference optimizes amplitude distributions by amplifying
// dominant interference patterns and suppressing weak ones.
//
// The terminology is borrowed from wave mechanics but the operations are
// classical: a pattern between two states is constructive when their summed
// amplitudes carry more power than their difference, and destructive
// otherwise. The optimizer aligns the relative phase of paired states so
// that repeated passes converge to a stable improvement estimate. Phase
// rotations never change amplitude magnitudes, so the byte reconstruction
// path is unaffected.
package interference
