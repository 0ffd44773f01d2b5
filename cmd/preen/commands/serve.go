package commands

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/preenlabs/preen/internal/logger"
	"github.com/preenlabs/preen/internal/server"
	"github.com/preenlabs/preen/pkg/preen"
	"github.com/preenlabs/preen/pkg/profile"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the cleaning HTTP API",
	Long: `Serve the cleaning pipeline over HTTP.

Upload a file to POST /api/v1/runs and get back an audit; the cleaned
data, a markdown report and narrative stories stay available under the
returned run ID. Runs persist in a local SQLite database.

Examples:
  # Serve on the default address
  preen serve

  # Custom address and database location
  preen serve --addr :9090 --db /var/lib/preen/runs.db

  # Enable LLM story enhancement for the story endpoint
  preen serve --enhance -p anthropic`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()

	flags.String("addr", ":8080", "listen address")
	flags.String("db", "preen.db", "SQLite database for persisted runs")
	flags.String("max-upload-size", "16MB", "max upload size (e.g. 16MB)")
	flags.String("profile", "", "default cleaning profile file (YAML or JSON)")

	// LLM settings for the story endpoint
	flags.Bool("enhance", false, "expand stories with an LLM")
	flags.StringP("provider", "p", "", "LLM provider: anthropic, openai, ollama (auto-detects from env vars)")
	flags.StringP("model", "m", "", "model name (provider-specific)")

	_ = viper.BindPFlag("addr", flags.Lookup("addr"))
	_ = viper.BindPFlag("db", flags.Lookup("db"))
}

func runServe(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	maxUploadStr, _ := cmd.Flags().GetString("max-upload-size")
	var maxUpload uint64
	if strings.TrimSpace(maxUploadStr) != "" {
		var err error
		maxUpload, err = humanize.ParseBytes(maxUploadStr)
		if err != nil {
			return fmt.Errorf("invalid max-upload-size: %w", err)
		}
	}

	opts := []preen.Option{}
	if profilePath, _ := cmd.Flags().GetString("profile"); profilePath != "" {
		prof, err := profile.FromFile(profilePath)
		if err != nil {
			return err
		}
		opts = append(opts, preen.WithProfile(prof))
	}
	if enhance, _ := cmd.Flags().GetBool("enhance"); enhance {
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")
		opts = append(opts,
			preen.WithEnhancement(true),
			preen.WithProvider(provider),
			preen.WithModel(model),
			preen.WithAPIKey(viper.GetString("api_key")))
	}

	p, err := preen.New(opts...)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		DBPath:        viper.GetString("db"),
		MaxUploadSize: int64(maxUpload), //#nosec G115 -- bounded by flag parsing
		Preen:         p,
	})
	if err != nil {
		logger.Error("failed to start server", "error", err)
		return err
	}
	defer func() { _ = srv.Close() }()

	return srv.ListenAndServe(ctx, viper.GetString("addr"))
}
