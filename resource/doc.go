// Package resource enforces process-wide budgets for compression work.
//
// A Controller tracks three budgets: a memory budget reserved by the engine
// for amplitude working sets, a job budget gating concurrent compression and
// decompression calls, and an IO budget pacing archive writes. All budgets
// are optional; a zero Config (or a nil Controller) disables enforcement and
// keeps only usage tracking.
package resource
