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

	"github.com/qfold/qfold/blobstore"
	"github.com/qfold/qfold/container"
	"github.com/qfold/qfold/fallback"
)

func runDecompress(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("decompress", flag.ExitOnError)

	var (
		out     = fs.String("o", "", "output path (default: archive name without "+archiveExt+")")
		memSpec = fs.String("mem", "auto", `memory budget: "auto", "off" or a size like 512MB`)
		quiet   = fs.Bool("q", false, "suppress progress bars")
		verbose = fs.Bool("v", false, "verbose engine logging")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()

		return errors.New("decompress requires exactly one archive")
	}

	input := fs.Arg(0)

	outPath := *out
	if outPath == "" {
		outPath = strings.TrimSuffix(input, archiveExt)
		if outPath == input {
			outPath = input + ".out"
		}
	}

	controller, err := newController(*memSpec, "off")
	if err != nil {
		return err
	}

	var storeOpts []blobstore.LocalOption
	if controller != nil {
		storeOpts = append(storeOpts, blobstore.WithResourceController(controller))
	}

	store, err := blobstore.NewLocalStore(filepath.Dir(input), storeOpts...)
	if err != nil {
		return err
	}

	start := time.Now()

	data, err := blobstore.ReadAll(ctx, store, filepath.Base(input))
	if err != nil {
		return err
	}

	var (
		restored []byte
		exact    bool
	)

	if container.IsFrame(data) {
		c, err := container.Deserialize(data)
		if err != nil {
			return err
		}

		engine, err := buildEngine(engineFlags{verbose: *verbose}, controller)
		if err != nil {
			return err
		}

		restored, err = engine.Decompress(ctx, c)
		if err != nil {
			return err
		}
	} else {
		// Not a quantum frame; try the self-describing classical envelope
		// written by degraded compression runs.
		restored, err = fallback.Recover(data, fallback.StrategyWithMetadata)
		if err != nil {
			return fmt.Errorf("%s is not a qfold archive: %w", input, err)
		}

		exact = true
	}

	if err := writeOutput(outPath, restored, *quiet); err != nil {
		return err
	}

	color.New(color.FgGreen, color.Bold).Printf("decompressed %s -> %s\n", input, outPath)
	fmt.Printf("  restored: %s\n", humanize.Bytes(uint64(len(restored))))
	fmt.Printf("  time:     %s\n", time.Since(start).Round(time.Millisecond))

	if exact {
		color.New(color.FgGreen).Println("  note: classical artifact, reconstruction is exact")
	} else {
		color.New(color.FgYellow).Println("  note: quantum archive, reconstruction is approximate")
	}

	return nil
}
