package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/preenlabs/preen/internal/logger"
	"github.com/preenlabs/preen/pkg/cleaner"
	"github.com/preenlabs/preen/pkg/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <source>",
	Short: "Clean a source and narrate what changed",
	Long: `Clean a tabular source and print a human-readable account of the
run instead of the cleaned data.

The default output is a markdown change report. --story renders a
narrative in a given style instead, and --quality appends a data
quality assessment. With --enhance the story is expanded by an LLM;
set a provider via --provider or the ANTHROPIC_API_KEY / OPENAI_API_KEY
environment variables.

Examples:
  # Markdown change report
  preen report data.csv

  # Executive narrative with quality scores
  preen report data.csv --story executive --quality

  # Casual narrative expanded by a local Ollama model
  preen report data.csv --story casual --enhance -p ollama -m llama3.2`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	flags := reportCmd.Flags()

	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("story", "", "narrative style: executive, technical, casual")
	flags.Bool("quality", false, "append a data quality assessment")
	flags.Bool("from-audit", false, "treat the source as a saved audit JSON instead of data")
	flags.String("profile", "", "cleaning profile file (YAML or JSON)")
	flags.Duration("timeout", 30*time.Second, "request timeout for URL sources")

	// LLM settings
	flags.Bool("enhance", false, "expand the story with an LLM")
	flags.StringP("provider", "p", "", "LLM provider: anthropic, openai, ollama (auto-detects from env vars)")
	flags.StringP("model", "m", "", "model name (provider-specific)")
	flags.StringP("api-key", "k", "", "API key (or use env var)")
	flags.String("base-url", "", "custom API base URL")

	_ = viper.BindPFlag("provider", flags.Lookup("provider"))
	_ = viper.BindPFlag("model", flags.Lookup("model"))
	_ = viper.BindPFlag("api_key", flags.Lookup("api-key"))
	_ = viper.BindPFlag("base_url", flags.Lookup("base-url"))
}

func runReport(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	styleStr, _ := cmd.Flags().GetString("story")
	enhance, _ := cmd.Flags().GetBool("enhance")

	p, err := buildPreen(cmd, enhance, 0)
	if err != nil {
		return err
	}

	source := args[0]
	var audit *cleaner.Audit
	if fromAudit, _ := cmd.Flags().GetBool("from-audit"); fromAudit {
		data, err := os.ReadFile(source) //#nosec G304 -- CLI tool reads a user-specified file
		if err != nil {
			return fmt.Errorf("failed to read audit: %w", err)
		}
		audit = &cleaner.Audit{}
		if err := json.Unmarshal(data, audit); err != nil {
			return fmt.Errorf("failed to parse audit: %w", err)
		}
	} else {
		logger.Info("cleaning", "source", source)
		res, err := p.CleanSource(ctx, source)
		if err != nil {
			logger.Error("cleaning failed", "source", source, "error", err)
			return err
		}
		audit = res.Audit
	}

	var body string
	if styleStr != "" {
		body = p.Story(ctx, audit, report.ParseStyle(styleStr))
	} else {
		body = p.Report(audit)
	}

	if withQuality, _ := cmd.Flags().GetBool("quality"); withQuality {
		q := p.Quality(audit)
		body += fmt.Sprintf("\n\n## Data Quality Assessment\n\n"+
			"- **Overall Score**: %d/100\n"+
			"- **Completeness**: %.1f%%\n"+
			"- **Consistency**: %.1f%%\n"+
			"- **Accuracy**: %.1f%%\n",
			q.Score, q.Completeness, q.Consistency, q.Accuracy)
		for _, issue := range report.MajorIssues(audit) {
			body += fmt.Sprintf("- ⚠️ %s\n", issue)
		}
	}

	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		return os.WriteFile(outPath, []byte(body), 0o644)
	}
	fmt.Println(body)
	return nil
}
