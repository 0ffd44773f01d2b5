package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/preenlabs/preen/internal/fetch"
	"github.com/preenlabs/preen/internal/logger"
	"github.com/preenlabs/preen/internal/output"
	"github.com/preenlabs/preen/pkg/preen"
	"github.com/preenlabs/preen/pkg/profile"
	"github.com/preenlabs/preen/pkg/report"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <source> [source...]",
	Short: "Clean tabular data files or URLs",
	Long: `Clean one or more tabular sources through the full pipeline and
write the cleaned data plus an optional audit.

A source is a local file or an http(s) URL holding CSV, Excel, JSON
records or an HTML table. With a single source the cleaned dataset goes
to --output (default stdout); with several sources --output must be an
existing directory and each source is written there as
<name>.cleaned.<ext>.

Examples:
  # Clean to stdout
  preen clean data.csv

  # Clean to a file with a machine-readable audit
  preen clean data.csv -o cleaned.csv --audit audit.json

  # Clean into Excel with a custom profile
  preen clean data.csv -o cleaned.xlsx --format xlsx --profile profile.yaml

  # Clean several files into a directory
  preen clean a.csv b.csv c.csv -o cleaned/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	flags := cleanCmd.Flags()

	// Output settings
	flags.StringP("output", "o", "", "output file, or directory for multiple sources (default: stdout)")
	flags.String("format", "csv", "output format: csv, json, jsonl, yaml, xlsx")
	flags.String("audit", "", "write the audit as JSON to this file")
	flags.String("report", "", "write a markdown change report to this file")

	// Pipeline settings
	flags.String("profile", "", "cleaning profile file (YAML or JSON)")

	// Input settings
	flags.String("delimiter", ",", "CSV field delimiter")
	flags.String("sheet", "", "Excel sheet to read (default: first)")
	flags.StringSlice("na", nil, "extra missing-value markers")
	flags.String("max-input-size", "0", "max input size (e.g. 10MB, 0=unlimited)")

	// Fetch settings
	flags.Duration("timeout", 30*time.Second, "request timeout for URL sources")
	flags.IntP("concurrency", "c", 3, "concurrent sources")
}

func runClean(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	maxSizeStr, _ := cmd.Flags().GetString("max-input-size")
	var maxSize uint64
	if strings.TrimSpace(maxSizeStr) != "" && maxSizeStr != "0" {
		maxSize, err = humanize.ParseBytes(maxSizeStr)
		if err != nil {
			return fmt.Errorf("invalid max-input-size: %w", err)
		}
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	p, err := buildPreen(cmd, false, concurrency)
	if err != nil {
		return err
	}

	sources := args
	for _, src := range sources {
		if err := checkInputSize(src, maxSize); err != nil {
			return err
		}
	}

	outPath, _ := cmd.Flags().GetString("output")
	if len(sources) > 1 {
		return cleanManyToDir(ctx, p, sources, outPath, format)
	}

	return cleanOne(ctx, cmd, p, sources[0], outPath, format)
}

// buildPreen assembles the facade. Enhancement pulls the provider
// settings from viper so they work from flags, config file and env.
func buildPreen(cmd *cobra.Command, enhance bool, concurrency int) (*preen.Preen, error) {
	timeout, _ := cmd.Flags().GetDuration("timeout")

	opts := []preen.Option{preen.WithTimeout(timeout)}
	if concurrency > 0 {
		opts = append(opts, preen.WithConcurrency(concurrency))
	}

	if delim, _ := cmd.Flags().GetString("delimiter"); delim != "" && delim != "," {
		r := []rune(delim)
		if len(r) != 1 {
			return nil, fmt.Errorf("delimiter must be a single character, got %q", delim)
		}
		opts = append(opts, preen.WithDelimiter(r[0]))
	}
	if sheet, _ := cmd.Flags().GetString("sheet"); sheet != "" {
		opts = append(opts, preen.WithSheet(sheet))
	}
	if na, _ := cmd.Flags().GetStringSlice("na"); len(na) > 0 {
		opts = append(opts, preen.WithExtraNA(na...))
	}

	if profilePath, _ := cmd.Flags().GetString("profile"); profilePath != "" {
		prof, err := profile.FromFile(profilePath)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded profile", "path", profilePath, "name", prof.Name)
		opts = append(opts, preen.WithProfile(prof))
	}

	if enhance {
		opts = append(opts,
			preen.WithEnhancement(true),
			preen.WithProvider(viper.GetString("provider")),
			preen.WithModel(viper.GetString("model")),
			preen.WithAPIKey(viper.GetString("api_key")),
			preen.WithBaseURL(viper.GetString("base_url")))
	}

	return preen.New(opts...)
}

// checkInputSize rejects oversized local files before loading them.
// URL sources are bounded by the fetch timeout instead.
func checkInputSize(src string, maxSize uint64) error {
	if maxSize == 0 || fetch.IsURL(src) {
		return nil
	}
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if uint64(info.Size()) > maxSize {
		return fmt.Errorf("%s is %s, over the %s limit",
			src, humanize.Bytes(uint64(info.Size())), humanize.Bytes(maxSize))
	}
	return nil
}

func cleanOne(ctx context.Context, cmd *cobra.Command, p *preen.Preen, source, outPath string, format output.Format) error {
	logger.Info("cleaning", "source", source)

	res, err := p.CleanSource(ctx, source)
	if err != nil {
		logger.Error("cleaning failed", "source", source, "error", err)
		return err
	}

	if err := writeDataset(res, outPath, format); err != nil {
		return err
	}

	if auditPath, _ := cmd.Flags().GetString("audit"); auditPath != "" {
		if err := writeAudit(res, auditPath); err != nil {
			return err
		}
	}
	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		if err := os.WriteFile(reportPath, []byte(report.Markdown(res.Audit)), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	logInfo("Cleaned %d rows to %d (%d duplicates removed) in %v",
		res.Audit.RowsBefore, res.Audit.RowsAfter, res.Audit.DuplicatesRemoved,
		(res.LoadDuration + res.CleanDuration).Round(time.Millisecond))
	return nil
}

func cleanManyToDir(ctx context.Context, p *preen.Preen, sources []string, dir string, format output.Format) error {
	if dir == "" {
		return fmt.Errorf("multiple sources need --output pointing at a directory")
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("output %s is not a directory", dir)
	}

	var ok, failed int
	for res := range p.CleanMany(ctx, sources) {
		if res.Error != nil {
			failed++
			logger.Error("cleaning failed", "source", res.Source, "error", res.Error)
			continue
		}
		outPath := filepath.Join(dir, cleanedName(res.Source, format))
		if err := writeDataset(res, outPath, format); err != nil {
			return err
		}
		ok++
		logInfo("%s: %d -> %d rows", res.Source, res.Audit.RowsBefore, res.Audit.RowsAfter)
	}

	logger.Info("clean complete", "ok", ok, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(sources))
	}
	return nil
}

// cleanedName maps a source path or URL to an output file name.
func cleanedName(source string, format output.Format) string {
	base := filepath.Base(strings.TrimRight(source, "/"))
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "dataset"
	}
	return fmt.Sprintf("%s.cleaned.%s", stem, format)
}

func writeDataset(res *preen.Result, outPath string, format output.Format) error {
	outFile := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		outFile = f
	}

	w, err := output.NewDatasetWriter(outFile, format)
	if err != nil {
		return err
	}
	if err := w.WriteDataset(res.Dataset); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return w.Close()
}

func writeAudit(res *preen.Result, path string) error {
	data, err := json.MarshalIndent(res.Audit, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode audit: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write audit: %w", err)
	}
	return nil
}
