package qfold

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/qfold/qfold/blobstore"
	"github.com/qfold/qfold/codec"
	"github.com/qfold/qfold/container"
	"github.com/qfold/qfold/convert"
	"github.com/qfold/qfold/ecc"
	"github.com/qfold/qfold/entangle"
	"github.com/qfold/qfold/fallback"
	"github.com/qfold/qfold/interference"
	"github.com/qfold/qfold/pattern"
	"github.com/qfold/qfold/probability"
	"github.com/qfold/qfold/quantum"
	"github.com/qfold/qfold/resource"
)

// pairsPerLevel scales the configured entanglement level into the pair cap
// of the pairing phase.
const pairsPerLevel = 16

// minStateIntegrity is the lowest structural integrity score a stored state
// may have before decompression refuses to reconstruct from it. It matches
// the boundary below which the ecc package recommends discarding the state.
const minStateIntegrity = 0.6

// Engine runs the compression pipeline. It is stateless across operations
// and safe for concurrent use; attached collaborators are shared.
type Engine struct {
	config           QuantumConfig
	logger           *Logger
	metrics          MetricsCollector
	controller       *resource.Controller
	session          *SessionTracker
	codec            codec.Codec
	profile          string
	redundancyCopies int
	fallbackOpts     []fallback.Option
}

// New creates an Engine. The zero option set runs DefaultQuantumConfig with
// no logging, no metrics and no resource budgets. Configuration problems
// fail here, never mid-pipeline.
func New(optFns ...Option) (*Engine, error) {
	opts := options{
		config:           DefaultQuantumConfig(),
		logger:           NoopLogger(),
		metrics:          NoopMetricsCollector{},
		codec:            codec.Default,
		redundancyCopies: ecc.DefaultCopies,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.presetName != "" {
		preset, ok := PresetConfig(opts.presetName)
		if !ok {
			return nil, &DetailedError{
				Code:    CodeInvalidConfig,
				Message: fmt.Sprintf("new: unknown preset %q", opts.presetName),
				Suggestions: []string{
					"use one of: " + strings.Join(PresetNames(), ", "),
				},
			}
		}

		opts.config = preset
	}

	if err := opts.config.Validate(); err != nil {
		return nil, &DetailedError{
			Code:    CodeInvalidConfig,
			Message: "new: configuration rejected",
			Suggestions: []string{
				"check the named parameter against its documented range",
				"start from DefaultQuantumConfig or a preset and adjust one field at a time",
			},
			cause: err,
		}
	}

	e := &Engine{
		config:           opts.config,
		logger:           opts.logger,
		metrics:          opts.metrics,
		controller:       opts.controller,
		session:          opts.session,
		codec:            opts.codec,
		profile:          opts.profile,
		redundancyCopies: opts.redundancyCopies,
		fallbackOpts:     opts.fallbackOpts,
	}

	if _, err := ecc.New(ecc.WithCopies(e.redundancyCopies)); err != nil {
		return nil, &DetailedError{
			Code:    CodeInvalidConfig,
			Message: "new: redundancy copies rejected",
			Suggestions: []string{
				fmt.Sprintf("use between %d and %d copies", ecc.MinCopies, ecc.MaxCopies),
			},
			cause: err,
		}
	}

	if _, err := e.newOptimizer(); err != nil {
		return nil, &DetailedError{
			Code:    CodeInvalidConfig,
			Message: "new: interference settings rejected",
			Suggestions: []string{
				"use a profile name returned by interference.ProfileNames",
			},
			cause: err,
		}
	}

	return e, nil
}

// Config returns the engine's validated configuration.
func (e *Engine) Config() QuantumConfig {
	return e.config
}

// CompressResult is the outcome of a successful Compress call. Exactly one
// of Container and Fallback is set: Container when the quantum pipeline
// completed, Fallback when the engine degraded to a classical strategy.
type CompressResult struct {
	Container *container.Container
	Fallback  *fallback.Result

	// Checksum digests the original input bytes, including the phase and
	// distribution sub-digests.
	Checksum ecc.Checksum

	// Timings breaks the run down by phase. Fallback runs carry Total only.
	Timings PhaseTimings

	// Efficiency reports the quantum transform effectiveness. It is zero
	// for fallback runs.
	Efficiency EfficiencyMetrics
}

// UsedFallback reports whether the output came from a classical strategy.
func (r *CompressResult) UsedFallback() bool {
	return r.Fallback != nil
}

// Ratio returns the achieved compression ratio regardless of path.
func (r *CompressResult) Ratio() float64 {
	switch {
	case r.Container != nil:
		return r.Container.Metadata().Ratio
	case r.Fallback != nil:
		return r.Fallback.Ratio
	default:
		return 0
	}
}

// Compress runs the quantum pipeline over data and packs the outcome into a
// container. Processing failures, including an exhausted memory budget, are
// routed through exactly one classical degradation attempt before the
// operation fails; context cancellation and empty input fail immediately.
func (e *Engine) Compress(ctx context.Context, data []byte) (*CompressResult, error) {
	start := time.Now()

	fail := func(err error) (*CompressResult, error) {
		err = translateError("compress", err)
		e.metrics.RecordCompress(len(data), 0, time.Since(start), err)
		e.logger.LogCompress(ctx, len(data), 0, 0, time.Since(start), err)

		return nil, err
	}

	if len(data) == 0 {
		return fail(convert.ErrEmptyInput)
	}

	if err := e.controller.AcquireJob(ctx); err != nil {
		return fail(err)
	}
	defer e.controller.ReleaseJob()

	budget := compressWorkingSet(len(data))
	if err := e.controller.TryAcquireMemory(budget); err != nil {
		// Memory pressure degrades to a classical strategy instead of
		// failing the operation.
		return e.degrade(ctx, data, start, "memory budget exhausted", err)
	}
	defer e.controller.ReleaseMemory(budget)

	result, err := e.quantumCompress(ctx, data)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fail(err)
		}

		return e.degrade(ctx, data, start, fmt.Sprintf("quantum pipeline failed: %v", err), err)
	}

	result.Timings.Total = time.Since(start)

	meta := result.Container.Metadata()
	e.metrics.RecordCompress(meta.OriginalSize, meta.CompressedSize, result.Timings.Total, nil)
	if e.session != nil {
		e.session.Record(meta.Ratio)
	}
	e.logger.LogCompress(ctx, meta.OriginalSize, meta.CompressedSize, meta.Ratio, result.Timings.Total, nil)

	return result, nil
}

// quantumCompress is the happy path of Compress: conversion, analysis,
// pairing, interference, redundancy verification, packing.
func (e *Engine) quantumCompress(ctx context.Context, data []byte) (*CompressResult, error) {
	var timings PhaseTimings

	// Conversion. Chunking follows the measured byte structure, the bit
	// depth follows the configuration.
	phase := time.Now()

	profile := convert.AnalyzeDataPatterns(data)

	conv, err := convert.New(
		convert.WithBitDepth(e.config.QuantumBitDepth),
		convert.WithChunkSize(profile.RecommendedChunkSize),
	)
	if err != nil {
		return nil, err
	}

	states, err := conv.ToStates(data)
	if err != nil {
		return nil, err
	}

	timings.Convert = time.Since(phase)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Analysis. Pattern mining and probability profiling parameterize the
	// pairing phase.
	phase = time.Now()

	recognizer, err := pattern.New()
	if err != nil {
		return nil, err
	}

	patterns := recognizer.RecognizePatterns(states)
	patternEff := recognizer.CalculatePatternCompressionEfficiency(patterns, amplitudeCount(states))

	analyzer, err := probability.New()
	if err != nil {
		return nil, err
	}

	dist := analyzer.AnalyzeProbabilityDistributions(states)
	potential := analyzer.EstimateCompressionPotential(dist)

	timings.Analysis = time.Since(phase)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Pairing. The more structure the analysis found, the lower the
	// correlation bar, so more pairs are accepted.
	phase = time.Now()

	structure := math.Max(potential, patternEff.Score)

	pairer, err := entangle.New(
		entangle.WithCorrelationThreshold(pairingThreshold(e.config.InterferenceThreshold, structure)),
		entangle.WithMaxPairs(e.config.MaxEntanglementLevel*pairsPerLevel),
	)
	if err != nil {
		return nil, err
	}

	matches, err := pairer.FindEntangledPatterns(states)
	if err != nil {
		return nil, err
	}

	timings.Entanglement = time.Since(phase)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Interference.
	phase = time.Now()

	optimizer, err := e.newOptimizer()
	if err != nil {
		return nil, err
	}

	iter := optimizer.PerformIterativeOptimization(states)

	timings.Interference = time.Since(phase)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Redundancy. Every optimized state must survive the error correction
	// codec before it is committed to the container.
	phase = time.Now()

	encoder, err := ecc.New(ecc.WithCopies(e.redundancyCopies))
	if err != nil {
		return nil, err
	}

	for i, s := range iter.States {
		encoded, err := encoder.EncodeWithErrorCorrection(s)
		if err != nil {
			return nil, fmt.Errorf("failed to encode state %d: %w", i, err)
		}

		decoded, err := encoder.DecodeWithErrorCorrection(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode state %d: %w", i, err)
		}

		if !decoded.CorrectionSuccess {
			return nil, fmt.Errorf("state %d failed redundancy verification", i)
		}
	}

	sum := ecc.GenerateQuantumChecksum(data, ecc.WithPhaseChecksum(), ecc.WithDistributionChecksum())

	timings.Redundancy = time.Since(phase)

	// Packing.
	phase = time.Now()

	c, err := container.New(iter.States, matches, iter.Patterns, len(data), e.config.Map())
	if err != nil {
		return nil, err
	}

	timings.Container = time.Since(phase)

	return &CompressResult{
		Container:  c,
		Checksum:   sum,
		Timings:    timings,
		Efficiency: e.efficiency(states, matches, iter),
	}, nil
}

// degrade runs the single classical degradation attempt Compress allows.
func (e *Engine) degrade(ctx context.Context, data []byte, start time.Time, reason string, cause error) (*CompressResult, error) {
	fb := fallback.AttemptGracefulDegradation(data, reason, e.fallbackOpts...)
	e.metrics.RecordFallback(string(fb.Strategy), fb.Success, fb.ProcessingTime)
	e.logger.LogFallback(ctx, string(fb.Strategy), fb.Success, reason)

	total := time.Since(start)

	if !fb.Success {
		err := &DetailedError{
			Code:    CodeProcessingFailure,
			Message: "compress: quantum pipeline and classical fallback both failed",
			Suggestions: []string{
				"retry with the low-resource preset",
				"inspect the wrapped cause for the original failure",
			},
			cause: cause,
		}

		e.metrics.RecordCompress(len(data), 0, total, err)
		e.logger.LogCompress(ctx, len(data), 0, 0, total, err)

		return nil, err
	}

	e.metrics.RecordCompress(fb.OriginalSize, fb.CompressedSize, total, nil)
	if e.session != nil {
		e.session.Record(fb.Ratio)
	}
	e.logger.LogCompress(ctx, fb.OriginalSize, fb.CompressedSize, fb.Ratio, total, nil)

	return &CompressResult{
		Fallback: &fb,
		Checksum: ecc.GenerateQuantumChecksum(data, ecc.WithPhaseChecksum(), ecc.WithDistributionChecksum()),
		Timings:  PhaseTimings{Total: total},
	}, nil
}

// Decompress reconstructs the byte sequence a container was compressed
// from. The result has exactly the original length; individual byte values
// are approximate within the documented deviation bound.
func (e *Engine) Decompress(ctx context.Context, c *container.Container) ([]byte, error) {
	start := time.Now()

	fail := func(err error) ([]byte, error) {
		err = translateError("decompress", err)
		e.metrics.RecordDecompress(0, time.Since(start), err)
		e.logger.LogDecompress(ctx, 0, time.Since(start), err)

		return nil, err
	}

	if c == nil {
		return fail(&ErrInvalidParameter{Param: "container", Value: nil, Constraint: "non-nil"})
	}

	if err := e.controller.AcquireJob(ctx); err != nil {
		return fail(err)
	}
	defer e.controller.ReleaseJob()

	meta := c.Metadata()

	budget := decompressWorkingSet(meta)
	if err := e.controller.TryAcquireMemory(budget); err != nil {
		return fail(err)
	}
	defer e.controller.ReleaseMemory(budget)

	if !c.VerifyIntegrity() {
		return fail(&DetailedError{
			Code:    CodeIntegrityFailure,
			Message: "decompress: container failed its integrity check",
			Suggestions: []string{
				"reload the archive from storage",
				"restore the archive from a replica",
			},
		})
	}

	states := c.States()

	for i, s := range states {
		report := ecc.VerifyStateIntegrity(s, nil)
		if report.Score < minStateIntegrity {
			return fail(&DetailedError{
				Code:        CodeIntegrityFailure,
				Message:     fmt.Sprintf("decompress: state %d scored %.2f, below the %.2f integrity floor", i, report.Score, minStateIntegrity),
				Suggestions: []string{report.Recommendation},
			})
		}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	// Archives stamp the configuration they were written with, so an engine
	// configured differently can still reconstruct them.
	cfg := e.config
	if stored, err := ConfigFromMap(meta.Config); err == nil {
		cfg = stored
	}

	conv, err := convert.New(convert.WithBitDepth(cfg.QuantumBitDepth))
	if err != nil {
		return fail(err)
	}

	data, err := conv.FromStates(states)
	if err != nil {
		return fail(err)
	}

	if len(data) < meta.OriginalSize {
		return fail(&DetailedError{
			Code:    CodeIntegrityFailure,
			Message: fmt.Sprintf("decompress: reconstructed %d of %d bytes", len(data), meta.OriginalSize),
			Suggestions: []string{
				"the archive lost states; restore it from a replica",
			},
		})
	}

	if meta.OriginalSize > 0 && len(data) > meta.OriginalSize {
		data = data[:meta.OriginalSize]
	}

	e.metrics.RecordDecompress(len(data), time.Since(start), nil)
	e.logger.LogDecompress(ctx, len(data), time.Since(start), nil)

	return data, nil
}

// AnalysisReport is the outcome of Analyze.
type AnalysisReport struct {
	// Data profiles the raw byte structure of the input.
	Data convert.Analysis

	// Distribution profiles the probability structure of the derived
	// states.
	Distribution probability.DistributionAnalysis

	// Patterns holds the recurring amplitude patterns found, strongest
	// first, and PatternEfficiency scores them.
	Patterns          []*pattern.Pattern
	PatternEfficiency pattern.Efficiency

	// CompressionPotential estimates the achievable redundancy reduction
	// in [0,1].
	CompressionPotential float64

	// Superposition profiles a combined superposition over the leading
	// states.
	Superposition probability.QuantumProbabilities

	// RecommendedConfig is a validated configuration tuned to the input.
	RecommendedConfig QuantumConfig
}

// Analyze profiles data through the analysis half of the pipeline without
// compressing it and recommends a configuration for the input.
func (e *Engine) Analyze(ctx context.Context, data []byte) (*AnalysisReport, error) {
	start := time.Now()

	fail := func(err error) (*AnalysisReport, error) {
		err = translateError("analyze", err)
		e.metrics.RecordAnalyze(len(data), time.Since(start), err)
		e.logger.LogAnalyze(ctx, len(data), 0, time.Since(start), err)

		return nil, err
	}

	if len(data) == 0 {
		return fail(convert.ErrEmptyInput)
	}

	if err := e.controller.AcquireJob(ctx); err != nil {
		return fail(err)
	}
	defer e.controller.ReleaseJob()

	report := &AnalysisReport{Data: convert.AnalyzeDataPatterns(data)}

	conv, err := convert.New(
		convert.WithBitDepth(e.config.QuantumBitDepth),
		convert.WithChunkSize(report.Data.RecommendedChunkSize),
	)
	if err != nil {
		return fail(err)
	}

	states, err := conv.ToStates(data)
	if err != nil {
		return fail(err)
	}

	recognizer, err := pattern.New()
	if err != nil {
		return fail(err)
	}

	report.Patterns = recognizer.RecognizePatterns(states)
	report.PatternEfficiency = recognizer.CalculatePatternCompressionEfficiency(report.Patterns, amplitudeCount(states))

	analyzer, err := probability.New()
	if err != nil {
		return fail(err)
	}

	report.Distribution = analyzer.AnalyzeProbabilityDistributions(states)
	report.CompressionPotential = analyzer.EstimateCompressionPotential(report.Distribution)

	if k := min(e.config.SuperpositionComplexity, len(states)); k > 0 {
		weights := make([]float64, k)
		for i := range weights {
			weights[i] = 1
		}

		if sp, err := quantum.NewSuperposition(states[:k], weights); err == nil {
			report.Superposition = analyzer.CalculateQuantumProbabilities(sp)
		}
	}

	report.RecommendedConfig = e.recommendConfig(report.Data, report.CompressionPotential)

	e.metrics.RecordAnalyze(len(data), time.Since(start), nil)
	e.logger.LogAnalyze(ctx, len(data), report.Data.Entropy, time.Since(start), nil)

	return report, nil
}

// Save serializes the container with the engine codec and writes it to the
// store under name. The .qf extension is conventional, not enforced.
func (e *Engine) Save(ctx context.Context, store blobstore.Store, name string, c *container.Container) error {
	if store == nil {
		return translateError("save", &ErrInvalidParameter{Param: "store", Value: nil, Constraint: "non-nil"})
	}

	if c == nil {
		return translateError("save", &ErrInvalidParameter{Param: "container", Value: nil, Constraint: "non-nil"})
	}

	frame, err := c.SerializeWith(e.codec)
	if err != nil {
		return translateError("save", err)
	}

	if err := store.Put(ctx, name, frame); err != nil {
		return translateError("save", err)
	}

	e.logger.WithArchive(name).InfoContext(ctx, "archive saved", "bytes", len(frame))

	return nil
}

// Load reads an archive from the store and deserializes it. The frame
// records its own codec, so Load accepts archives written with any
// registered codec, not just the engine's.
func (e *Engine) Load(ctx context.Context, store blobstore.Store, name string) (*container.Container, error) {
	if store == nil {
		return nil, translateError("load", &ErrInvalidParameter{Param: "store", Value: nil, Constraint: "non-nil"})
	}

	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, translateError("load", err)
	}

	c, err := container.Deserialize(data)
	if err != nil {
		return nil, translateError("load", err)
	}

	e.logger.WithArchive(name).InfoContext(ctx, "archive loaded", "states", c.Metadata().StateCount)

	return c, nil
}

// newOptimizer builds the interference optimizer for one run: thresholds
// derive from the configuration, then a named profile overrides them.
func (e *Engine) newOptimizer() (*interference.Optimizer, error) {
	optimizer, err := interference.New(
		interference.WithConstructiveThreshold(e.config.InterferenceThreshold),
		interference.WithDestructiveThreshold(e.config.InterferenceThreshold/2),
	)
	if err != nil {
		return nil, err
	}

	if e.profile != "" {
		if err := optimizer.LoadProfile(e.profile); err != nil {
			return nil, err
		}
	}

	return optimizer, nil
}

// efficiency assembles the per-run transform effectiveness numbers.
func (e *Engine) efficiency(states []*quantum.StateVector, matches []entangle.Match, iter interference.IterativeResult) EfficiencyMetrics {
	m := EfficiencyMetrics{
		StatesCreated:           len(states),
		EntanglementPairsFound:  len(matches),
		SuperpositionComplexity: e.config.SuperpositionComplexity,
	}

	if len(matches) > 0 {
		var total float64
		for _, match := range matches {
			total += match.Pair.Correlation()
		}

		m.AverageCorrelation = total / float64(len(matches))
	}

	if n := len(iter.Improvements); n > 0 {
		m.InterferenceEffectiveness = iter.Improvements[n-1]
	}

	if k := min(e.config.SuperpositionComplexity, len(iter.States)); k > 0 {
		weights := make([]float64, k)
		for i := range weights {
			weights[i] = 1
		}

		if sp, err := quantum.NewSuperposition(iter.States[:k], weights); err == nil {
			m.CoherenceTime = sp.CoherenceTime()
		}
	}

	return m
}

// recommendConfig derives a validated configuration from the measured byte
// structure, keeping the engine's pairing and complexity settings where
// they remain feasible.
func (e *Engine) recommendConfig(a convert.Analysis, potential float64) QuantumConfig {
	c := QuantumConfig{
		QuantumBitDepth:         clampInt(a.RecommendedBitDepth, 2, 16),
		MaxEntanglementLevel:    e.config.MaxEntanglementLevel,
		SuperpositionComplexity: e.config.SuperpositionComplexity,
		InterferenceThreshold:   clampFloat(0.9-0.5*potential, 0.1, 0.9),
	}

	c.MaxEntanglementLevel = clampInt(c.MaxEntanglementLevel, 1, max(c.QuantumBitDepth/2, 1))
	c.SuperpositionComplexity = clampInt(c.SuperpositionComplexity, 1, min(c.QuantumBitDepth, 10))

	for c.QuantumBitDepth*c.MaxEntanglementLevel*c.SuperpositionComplexity > maxConfigProduct {
		switch {
		case c.SuperpositionComplexity > 1:
			c.SuperpositionComplexity--
		case c.MaxEntanglementLevel > 1:
			c.MaxEntanglementLevel--
		default:
			c.QuantumBitDepth--
		}
	}

	return c
}

// pairingThreshold lowers the configured threshold as the measured
// structure rises, clamped to the pairing analyzer's accepted range.
func pairingThreshold(base, structure float64) float64 {
	return clampFloat(base*(1-0.5*structure), 0.05, 0.95)
}

// compressWorkingSet approximates the peak allocation of a compression run:
// the original and optimized amplitude sets plus the redundancy copies made
// during verification.
func compressWorkingSet(n int) int64 {
	return int64(n)*48 + 4096
}

// decompressWorkingSet approximates the peak allocation of a decompression
// run: the amplitude set plus the reconstructed bytes.
func decompressWorkingSet(m container.Metadata) int64 {
	return int64(m.OriginalSize)*24 + int64(m.CompressedSize) + 4096
}

func amplitudeCount(states []*quantum.StateVector) int {
	var n int
	for _, s := range states {
		n += s.Len()
	}

	return n
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
