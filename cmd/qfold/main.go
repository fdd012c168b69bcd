// Command qfold compresses files through a quantum-inspired pipeline and
// manages the resulting .qf archives.
//
// Usage:
//
//	qfold compress   [flags] <file>
//	qfold decompress [flags] <archive>
//	qfold inspect    <archive>
//	qfold analyze    [flags] <file>
//
// Quantum archives reconstruct approximately; when the pipeline degrades to
// a classical strategy the artifact is exact and self-describing, and
// decompress handles both transparently.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/qfold/qfold"
	"github.com/qfold/qfold/codec"
	"github.com/qfold/qfold/fallback"
	"github.com/qfold/qfold/resource"
)

const archiveExt = ".qf"

// version is stamped by the release build.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error

	switch os.Args[1] {
	case "compress":
		err = runCompress(ctx, os.Args[2:])
	case "decompress":
		err = runDecompress(ctx, os.Args[2:])
	case "inspect":
		err = runInspect(ctx, os.Args[2:])
	case "analyze":
		err = runAnalyze(ctx, os.Args[2:])
	case "version":
		fmt.Println("qfold", version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fail(err)
	}
}

func usage() {
	header := color.New(color.FgCyan, color.Bold)

	header.Println("qfold - quantum-inspired file compression")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  compress   [flags] <file>     compress a file into a .qf archive")
	fmt.Println("  decompress [flags] <archive>  reconstruct the original bytes")
	fmt.Println("  inspect    <archive>          print archive metadata and integrity")
	fmt.Println("  analyze    [flags] <file>     profile a file without compressing")
	fmt.Println("  version                       print the build version")
	fmt.Println()
	fmt.Println("presets:", strings.Join(qfold.PresetNames(), ", "))
	fmt.Println()
	fmt.Println("run 'qfold <command> -h' for command flags")
}

// fail prints the error and, for engine errors, the recovery suggestions.
func fail(err error) {
	color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "error:", err)

	var detailed *qfold.DetailedError
	if errors.As(err, &detailed) && len(detailed.Suggestions) > 0 {
		fmt.Fprintln(os.Stderr, "try:")
		for _, s := range detailed.Suggestions {
			fmt.Fprintln(os.Stderr, "  -", s)
		}
	}

	os.Exit(1)
}

// engineFlags holds the flags shared by the commands that build an engine.
type engineFlags struct {
	preset    string
	profile   string
	codecName string
	copies    int
	verbose   bool
}

// newController assembles resource budgets from the -mem and -io-rate
// specs. "auto" budgets half the memory currently available on the host;
// "off" disables the budget. A nil controller means no budgets at all.
func newController(memSpec, ioSpec string) (*resource.Controller, error) {
	var cfg resource.Config

	switch memSpec {
	case "", "off":
	case "auto":
		vm, err := mem.VirtualMemory()
		if err != nil {
			return nil, fmt.Errorf("failed to read system memory: %w", err)
		}

		cfg.MemoryLimitBytes = int64(vm.Available / 2)
	default:
		n, err := humanize.ParseBytes(memSpec)
		if err != nil {
			return nil, fmt.Errorf("invalid memory limit %q: %w", memSpec, err)
		}

		cfg.MemoryLimitBytes = int64(n)
	}

	if ioSpec != "" && ioSpec != "off" {
		n, err := humanize.ParseBytes(ioSpec)
		if err != nil {
			return nil, fmt.Errorf("invalid io rate %q: %w", ioSpec, err)
		}

		cfg.IOLimitBytesPerSec = int64(n)
	}

	if cfg == (resource.Config{}) {
		return nil, nil
	}

	return resource.NewController(cfg), nil
}

// buildEngine turns the shared flags into an engine. Fallback artifacts are
// always written with the metadata envelope so decompress can recognize
// them without being told the strategy.
func buildEngine(f engineFlags, controller *resource.Controller) (*qfold.Engine, error) {
	opts := []qfold.Option{
		qfold.WithFallbackOptions(fallback.WithPreserveMetadata()),
	}

	if f.preset != "" {
		opts = append(opts, qfold.WithPreset(f.preset))
	}

	if f.profile != "" {
		opts = append(opts, qfold.WithInterferenceProfile(f.profile))
	}

	if f.codecName != "" {
		cdc, ok := codec.ByName(f.codecName)
		if !ok {
			return nil, fmt.Errorf("unknown codec %q", f.codecName)
		}

		opts = append(opts, qfold.WithCodec(cdc))
	}

	if f.copies > 0 {
		opts = append(opts, qfold.WithRedundancyCopies(f.copies))
	}

	if controller != nil {
		opts = append(opts, qfold.WithResourceController(controller))
	}

	if f.verbose {
		opts = append(opts, qfold.WithLogger(qfold.NewTextLogger(slog.LevelDebug)))
	}

	return qfold.New(opts...)
}

// readInput loads a file, drawing a byte progress bar on stderr unless
// quiet.
func readInput(path string, quiet bool) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if quiet {
		return io.ReadAll(f)
	}

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	bar := pb.New(int(info.Size()))
	bar.Set(pb.Bytes, true)
	bar.SetWriter(os.Stderr)
	bar.Start()
	defer bar.Finish()

	return io.ReadAll(bar.NewProxyReader(f))
}

// writeOutput writes data to path, drawing a byte progress bar on stderr
// unless quiet. A failed write removes the partial file.
func writeOutput(path string, data []byte, quiet bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if quiet {
		_, err = f.Write(data)
	} else {
		bar := pb.New(len(data))
		bar.Set(pb.Bytes, true)
		bar.SetWriter(os.Stderr)
		bar.Start()

		_, err = io.Copy(bar.NewProxyWriter(f), bytes.NewReader(data))

		bar.Finish()
	}

	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		os.Remove(path)

		return err
	}

	return nil
}
