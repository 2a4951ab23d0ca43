// Command checkgraph matches CHECK-style assertions embedded in source
// files against a C1visualizer-format compiler CFG dump. See spec.md (and
// SPEC_FULL.md) in the project root for the full assertion language and
// matching semantics; this file is the thin CLI shell around the core
// engine in internal/.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/checkgraph/checkgraph/internal/diagnostic"
	"github.com/checkgraph/checkgraph/internal/dump"
	"github.com/checkgraph/checkgraph/internal/engine"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

// errAlreadyReported marks a failure whose detail has already been written
// to stdout/stderr via the sink, so main's top-level handler doesn't print
// it a second time.
var errAlreadyReported = errors.New("checkgraph: run failed")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		checkPrefix string
		listGroups  bool
		dumpGroup   string
		quiet       bool
		noColor     bool
		debug       bool
	)

	exitCode := exitSuccess

	rootCmd := &cobra.Command{
		Use:           "checkgraph <dump-file> [source-path]",
		Short:         "Match CHECK assertions against a C1visualizer CFG dump",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pal := newPalette(shouldUseColor(noColor))

			dumpFile := args[0]
			f, err := os.Open(dumpFile)
			if err != nil {
				exitCode = exitFailure
				return err
			}
			defer f.Close()

			dumpDoc, err := dump.Parse(dumpFile, f)
			if err != nil {
				exitCode = exitFailure
				var diagErr *diagnostic.Error
				if errors.As(err, &diagErr) {
					formatError(cmd.ErrOrStderr(), diagErr, pal)
					return errAlreadyReported
				}
				return err
			}

			if debug {
				pal.cyan.Fprintf(cmd.ErrOrStderr(), "parsed %d pass group(s) from %s\n", len(dumpDoc.Groups), dumpFile)
			}

			switch {
			case listGroups:
				for _, name := range dumpDoc.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil

			case dumpGroup != "":
				group := dumpDoc.Find(dumpGroup)
				if group == nil {
					exitCode = exitFailure
					return fmt.Errorf("pass group %q not found in dump", dumpGroup)
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(group.Body, "\n"))
				return nil
			}

			if len(args) < 2 {
				exitCode = exitUsage
				return fmt.Errorf("a source file or directory is required unless --list-groups or --dump-group is given")
			}

			sources, err := discoverSources(args[1])
			if err != nil {
				exitCode = exitFailure
				return err
			}
			if len(sources) == 0 {
				exitCode = exitFailure
				return fmt.Errorf("no .java source files found under %s", args[1])
			}

			sink := newWriterSink(cmd.OutOrStdout(), pal, quiet)
			cfg := engine.Config{CheckPrefix: checkPrefix, Quiet: quiet}

			failed, err := checkAll(sources, dumpDoc, cfg, sink)
			if err != nil {
				exitCode = exitFailure
				return err
			}
			if failed > 0 {
				exitCode = exitFailure
				return errAlreadyReported
			}
			return nil
		},
	}

	rootCmd.Flags().StringVar(&checkPrefix, "check-prefix", "CHECK", "prefix of assertions in source files")
	rootCmd.Flags().BoolVar(&listGroups, "list-groups", false, "print the names of all pass groups in the dump and exit")
	rootCmd.Flags().StringVar(&dumpGroup, "dump-group", "", "print the body of a pass group and exit")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "print pipeline diagnostics to stderr")

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errAlreadyReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if exitCode == exitSuccess {
			// RunE sets a code on every error it returns, so an error
			// without one comes from cobra's argument or flag checks.
			exitCode = exitUsage
		}
	}
	return exitCode
}

// checkAll matches every source file against dumpDoc, bounding concurrency
// to GOMAXPROCS since the underlying *dump.Document is read-only and safe
// to share across goroutines (per the engine's concurrency model). It
// returns the number of files that failed to match.
func checkAll(sources []string, dumpDoc *dump.Document, cfg engine.Config, sink diagnostic.Sink) (int, error) {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	var mu sync.Mutex
	failed := 0

	for _, src := range sources {
		src := src
		g.Go(func() error {
			f, err := os.Open(src)
			if err != nil {
				return err
			}
			defer f.Close()

			driver := engine.New(cfg, sink)
			if err := driver.Check(src, f, dumpDoc); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return failed, err
	}
	return failed, nil
}
