package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/qfold/qfold"
	"github.com/qfold/qfold/blobstore"
)

func runCompress(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compress", flag.ExitOnError)

	var (
		out       = fs.String("o", "", "output archive path (default: <file>"+archiveExt+")")
		preset    = fs.String("preset", "", "configuration preset: "+strings.Join(qfold.PresetNames(), ", "))
		profile   = fs.String("profile", "", "interference profile, e.g. text, image, aggressive")
		codecName = fs.String("codec", "", "payload codec: msgpack or json")
		copies    = fs.Int("copies", 0, "redundancy copies per state (1-9)")
		memSpec   = fs.String("mem", "auto", `memory budget: "auto", "off" or a size like 512MB`)
		ioSpec    = fs.String("io-rate", "off", `archive write rate per second, e.g. 10MB, or "off"`)
		quiet     = fs.Bool("q", false, "suppress progress bars")
		verbose   = fs.Bool("v", false, "verbose engine logging")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()

		return errors.New("compress requires exactly one input file")
	}

	input := fs.Arg(0)

	outPath := *out
	if outPath == "" {
		outPath = input + archiveExt
	}

	controller, err := newController(*memSpec, *ioSpec)
	if err != nil {
		return err
	}

	engine, err := buildEngine(engineFlags{
		preset:    *preset,
		profile:   *profile,
		codecName: *codecName,
		copies:    *copies,
		verbose:   *verbose,
	}, controller)
	if err != nil {
		return err
	}

	data, err := readInput(input, *quiet)
	if err != nil {
		return err
	}

	result, err := engine.Compress(ctx, data)
	if err != nil {
		return err
	}

	var storeOpts []blobstore.LocalOption
	if controller != nil {
		storeOpts = append(storeOpts, blobstore.WithResourceController(controller))
	}

	store, err := blobstore.NewLocalStore(filepath.Dir(outPath), storeOpts...)
	if err != nil {
		return err
	}

	name := filepath.Base(outPath)

	if result.UsedFallback() {
		if err := store.Put(ctx, name, result.Fallback.Compressed); err != nil {
			return err
		}

		printFallbackSummary(input, outPath, result)

		return nil
	}

	if err := engine.Save(ctx, store, name, result.Container); err != nil {
		return err
	}

	printCompressSummary(input, outPath, result)

	return nil
}

func printCompressSummary(input, output string, result *qfold.CompressResult) {
	stats := result.Container.Metadata().Stats()
	meta := result.Container.Metadata()

	color.New(color.FgGreen, color.Bold).Printf("compressed %s -> %s\n", input, output)
	fmt.Printf("  original:    %s\n", humanize.Bytes(uint64(stats.OriginalSize)))
	fmt.Printf("  compressed:  %s\n", humanize.Bytes(uint64(stats.CompressedSize)))
	fmt.Printf("  ratio:       %.2fx (%.1f%% saved)\n", stats.Ratio, stats.SpaceSavedPercent)
	fmt.Printf("  states:      %s\n", humanize.Comma(int64(meta.StateCount)))
	fmt.Printf("  pairs:       %s\n", humanize.Comma(int64(meta.PairCount)))
	fmt.Printf("  patterns:    %s\n", humanize.Comma(int64(meta.PatternCount)))
	fmt.Printf("  checksum:    %x\n", result.Checksum.Digest[:8])
	fmt.Printf("  time:        %s\n", result.Timings.Total.Round(time.Millisecond))

	if result.Efficiency.EntanglementPairsFound > 0 {
		fmt.Printf("  correlation: %.3f mean across %s pairs\n",
			result.Efficiency.AverageCorrelation,
			humanize.Comma(int64(result.Efficiency.EntanglementPairsFound)))
	}

	color.New(color.FgYellow).Println("  note: quantum archives reconstruct approximately")
}

func printFallbackSummary(input, output string, result *qfold.CompressResult) {
	fb := result.Fallback

	color.New(color.FgYellow, color.Bold).Printf("classical fallback engaged: %s\n", fb.Strategy)
	fmt.Printf("  reason:      %s\n", fb.FailureReason)
	fmt.Printf("  archive:     %s -> %s\n", input, output)
	fmt.Printf("  original:    %s\n", humanize.Bytes(uint64(fb.OriginalSize)))
	fmt.Printf("  compressed:  %s\n", humanize.Bytes(uint64(fb.CompressedSize)))
	fmt.Printf("  ratio:       %.2fx\n", fb.Ratio)
	fmt.Printf("  time:        %s\n", result.Timings.Total.Round(time.Millisecond))

	if fb.IntegrityVerified {
		color.New(color.FgGreen).Println("  note: classical artifacts reconstruct exactly")
	}
}
