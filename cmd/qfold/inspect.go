package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/qfold/qfold/container"
	"github.com/qfold/qfold/fallback"
)

func runInspect(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()

		return errors.New("inspect requires exactly one archive")
	}

	input := fs.Arg(0)

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	if !container.IsFrame(data) {
		return inspectClassical(input, data)
	}

	c, err := container.Deserialize(data)
	if err != nil {
		return err
	}

	meta := c.Metadata()
	stats := meta.Stats()

	color.New(color.FgCyan, color.Bold).Printf("quantum archive: %s\n", input)
	fmt.Printf("  format:      v%d\n", meta.FormatVersion)
	fmt.Printf("  created:     %s\n", humanize.Time(meta.CreatedAt))
	fmt.Printf("  original:    %s\n", humanize.Bytes(uint64(stats.OriginalSize)))
	fmt.Printf("  compressed:  %s\n", humanize.Bytes(uint64(stats.CompressedSize)))
	fmt.Printf("  ratio:       %.2fx (%.1f%% saved)\n", stats.Ratio, stats.SpaceSavedPercent)
	fmt.Printf("  states:      %s\n", humanize.Comma(int64(meta.StateCount)))
	fmt.Printf("  pairs:       %s\n", humanize.Comma(int64(meta.PairCount)))
	fmt.Printf("  patterns:    %s\n", humanize.Comma(int64(meta.PatternCount)))
	fmt.Printf("  checksum:    %08x\n", c.Checksum())
	fmt.Printf("  est. decompression: %s\n", c.EstimateDecompressionTime().Round(time.Millisecond))

	if len(meta.Config) > 0 {
		fmt.Println("  config:")

		keys := make([]string, 0, len(meta.Config))
		for k := range meta.Config {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Printf("    %s = %s\n", k, meta.Config[k])
		}
	}

	if c.VerifyIntegrity() {
		color.New(color.FgGreen).Println("  integrity:   ok")
	} else {
		color.New(color.FgRed, color.Bold).Println("  integrity:   FAILED")
	}

	return nil
}

func inspectClassical(input string, data []byte) error {
	meta, err := fallback.ExtractMetadata(data)
	if err != nil {
		return fmt.Errorf("%s is not a qfold archive: %w", input, err)
	}

	color.New(color.FgYellow, color.Bold).Printf("classical artifact: %s\n", input)
	fmt.Printf("  created:      %s\n", humanize.Time(meta.CreatedAt))
	fmt.Printf("  original:     %s\n", humanize.Bytes(uint64(meta.OriginalSize)))
	fmt.Printf("  stored:       %s\n", humanize.Bytes(uint64(len(data))))
	fmt.Printf("  entropy:      %.3f bits/byte\n", meta.Entropy)
	fmt.Printf("  unique bytes: %d\n", meta.UniqueBytes)

	if meta.FailureReason != "" {
		fmt.Printf("  degraded because: %s\n", meta.FailureReason)
	}

	return nil
}
