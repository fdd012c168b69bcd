package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/qfold/qfold"
)

func runAnalyze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)

	var (
		preset  = fs.String("preset", "", "configuration preset: "+strings.Join(qfold.PresetNames(), ", "))
		memSpec = fs.String("mem", "auto", `memory budget: "auto", "off" or a size like 512MB`)
		quiet   = fs.Bool("q", false, "suppress progress bars")
		verbose = fs.Bool("v", false, "verbose engine logging")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()

		return errors.New("analyze requires exactly one input file")
	}

	input := fs.Arg(0)

	controller, err := newController(*memSpec, "off")
	if err != nil {
		return err
	}

	engine, err := buildEngine(engineFlags{preset: *preset, verbose: *verbose}, controller)
	if err != nil {
		return err
	}

	data, err := readInput(input, *quiet)
	if err != nil {
		return err
	}

	report, err := engine.Analyze(ctx, data)
	if err != nil {
		return err
	}

	color.New(color.FgCyan, color.Bold).Printf("analysis: %s (%s)\n", input, humanize.Bytes(uint64(len(data))))

	fmt.Println("  bytes:")
	fmt.Printf("    entropy:         %.3f bits/byte (8 max)\n", report.Data.Entropy)
	fmt.Printf("    repetition rate: %.1f%%\n", report.Data.RepetitionRate*100)
	fmt.Printf("    unique values:   %d\n", report.Data.UniqueBytes)

	fmt.Println("  states:")
	fmt.Printf("    derived:         %s (%d sampled)\n",
		humanize.Comma(int64(report.Distribution.TotalStates)), report.Distribution.SampledStates)
	fmt.Printf("    mean entropy:    %.3f bits (%.1f%% of maximum)\n",
		report.Distribution.MeanEntropy, report.Distribution.NormalizedEntropy*100)

	fmt.Println("  patterns:")
	fmt.Printf("    found:           %s\n", humanize.Comma(int64(len(report.Patterns))))
	fmt.Printf("    coverage:        %.1f%%\n", report.PatternEfficiency.Coverage*100)
	fmt.Printf("    est. saving:     %s amplitudes\n", humanize.Comma(int64(report.PatternEfficiency.EstimatedSaving)))
	fmt.Printf("    score:           %.3f\n", report.PatternEfficiency.Score)

	fmt.Printf("  compression potential: %.1f%%\n", report.CompressionPotential*100)

	if report.Superposition.Normalized {
		fmt.Println("  superposition:   coherent (probabilities sum to 1)")
	} else {
		fmt.Printf("  superposition:   probability sum %.6f\n", report.Superposition.Sum)
	}

	rec := report.RecommendedConfig

	fmt.Println("  recommended config:")
	fmt.Printf("    bit depth:       %d\n", rec.QuantumBitDepth)
	fmt.Printf("    entanglement:    %d\n", rec.MaxEntanglementLevel)
	fmt.Printf("    superposition:   %d\n", rec.SuperpositionComplexity)
	fmt.Printf("    interference:    %.2f\n", rec.InterferenceThreshold)

	if name, ok := matchPreset(rec); ok {
		color.New(color.FgGreen).Printf("  matches preset %q; run compress with -preset %s\n", name, name)
	}

	return nil
}

// matchPreset reports which named preset, if any, equals the recommended
// configuration.
func matchPreset(cfg qfold.QuantumConfig) (string, bool) {
	for _, name := range qfold.PresetNames() {
		preset, ok := qfold.PresetConfig(name)
		if ok && preset == cfg {
			return name, true
		}
	}

	return "", false
}
