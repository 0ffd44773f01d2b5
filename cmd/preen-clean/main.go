// preen-clean is a standalone CLI tool for testing and developing the
// cleaning pipeline.
//
// Usage:
//
//	preen-clean [options] [file]
//
// Examples:
//
//	# Clean a CSV from stdin to stdout
//	preen-clean < dirty.csv > clean.csv
//
//	# Clean a file
//	preen-clean -f data.csv -o cleaned.csv
//
//	# Only show the audit, don't output data
//	preen-clean -stats-only data.csv
//
//	# Audit as JSON
//	preen-clean -stats-only -json data.csv
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/preenlabs/preen/internal/loader"
	"github.com/preenlabs/preen/internal/output"
	"github.com/preenlabs/preen/pkg/cleaner"
	"github.com/preenlabs/preen/pkg/report"
)

var (
	// Input options
	fileInput = flag.String("f", "", "Read input from file instead of stdin")
	format    = flag.String("format", "auto", "Input format: auto, csv, json, xlsx, html")

	// Output options
	outputFile = flag.String("o", "", "Write cleaned CSV to file")
	statsOnly  = flag.Bool("stats-only", false, "Only show the audit, don't output data")
	jsonStats  = flag.Bool("json", false, "Output the audit as JSON")
	quiet      = flag.Bool("q", false, "Quiet mode (no audit, only data)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "preen-clean - Test tool for the cleaning pipeline\n\n")
		fmt.Fprintf(os.Stderr, "Usage: preen-clean [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  preen-clean < dirty.csv > clean.csv\n")
		fmt.Fprintf(os.Stderr, "  preen-clean -f data.csv -o cleaned.csv\n")
		fmt.Fprintf(os.Stderr, "  preen-clean -stats-only -json data.csv\n")
	}

	flag.Parse()

	path := *fileInput
	if path == "" && flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	var body []byte
	var err error
	if path != "" {
		body, err = os.ReadFile(path) //#nosec G304 -- CLI tool reads a user-specified file
	} else {
		body, err = io.ReadAll(os.Stdin)
		path = "stdin"
	}
	if err != nil {
		fatal("reading input: %v", err)
	}
	if len(body) == 0 {
		fatal("empty input")
	}

	l := loader.New()
	ds, err := l.LoadBytes(body, loader.Format(*format))
	if err != nil {
		fatal("loading %s: %v", path, err)
	}

	ds, audit, err := cleaner.Default().Run(ds)
	if err != nil {
		fatal("cleaning %s: %v", path, err)
	}

	// Output audit
	if !*quiet {
		if *jsonStats {
			outputJSONAudit(audit, path)
		} else {
			outputTextAudit(audit, path)
		}
	}

	// Output cleaned data
	if !*statsOnly {
		out := os.Stdout
		if *outputFile != "" {
			f, err := os.Create(*outputFile) //#nosec G304 -- CLI tool writes to a user-specified file
			if err != nil {
				fatal("creating output file: %v", err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}

		w, err := output.NewDatasetWriter(out, output.FormatCSV)
		if err != nil {
			fatal("%v", err)
		}
		if err := w.WriteDataset(ds); err != nil {
			fatal("writing output: %v", err)
		}
		if err := w.Close(); err != nil {
			fatal("writing output: %v", err)
		}

		if *outputFile != "" && !*quiet {
			fmt.Fprintf(os.Stderr, "\nWritten to %s\n", *outputFile)
		}
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func outputTextAudit(a *cleaner.Audit, source string) {
	q := report.Assess(a)
	fmt.Fprintf(os.Stderr, "\n=== Cleaning Audit ===\n")
	fmt.Fprintf(os.Stderr, "Source:     %s\n", source)
	fmt.Fprintf(os.Stderr, "Rows:       %d -> %d\n", a.RowsBefore, a.RowsAfter)
	fmt.Fprintf(os.Stderr, "Duplicates: %d removed\n", a.DuplicatesRemoved)
	fmt.Fprintf(os.Stderr, "Quality:    %d/100\n", q.Score)
	if len(a.Issues) > 0 {
		fmt.Fprintf(os.Stderr, "\nIssues:\n")
		for _, issue := range a.Issues {
			fmt.Fprintf(os.Stderr, "  %s\n", issue)
		}
	}
}

func outputJSONAudit(a *cleaner.Audit, source string) {
	stats := struct {
		Source string         `json:"source"`
		Audit  *cleaner.Audit `json:"audit"`
		Score  int            `json:"quality_score"`
	}{
		Source: source,
		Audit:  a,
		Score:  report.Assess(a).Score,
	}

	enc := json.NewEncoder(os.Stderr)
	enc.SetIndent("", "  ")
	_ = enc.Encode(stats)
}
