package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-portfolio/pkg/portfolio/config"
)

type globalOptions struct {
	storageURL  string
	documentKey string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "portfolioctl",
		Short: "Inspect and edit the portfolio document",
		Long: `portfolioctl reads and edits the markdown document that backs the
portfolio API, using the same storage configuration as the server.

Configuration comes from the environment (and a .env file in the current
directory): STORAGE_URL, DOCUMENT_KEY, ADMIN_JWT_SECRET, ...

Examples:
  # Show the configuration and the section titles
  portfolioctl show

  # Print one section
  portfolioctl get "Work Experience"

  # Replace a section from a file, or from stdin with -
  portfolioctl set-section About --file about.md
  cat about.md | portfolioctl set-section About --file -

  # Update the hero title
  portfolioctl set-config --hero-title "Hi, I'm Ada"

  # Export parsed content for a static build
  portfolioctl export --out content.json

  # Mint an admin token for the write API
  portfolioctl token --subject deploy --ttl 24h`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.storageURL, "storage-url", "", "storage location (overrides STORAGE_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.documentKey, "document-key", "", "document key (overrides DOCUMENT_KEY)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(
		newShowCmd(opts),
		newGetCmd(opts),
		newSetConfigCmd(opts),
		newSetSectionCmd(opts),
		newExportCmd(opts),
		newTokenCmd(opts),
	)
	return rootCmd
}

func (o *globalOptions) loadConfig() (*config.ServerConfig, error) {
	options := []config.Option{config.WithEnv()}
	if o.storageURL != "" {
		options = append(options, config.WithStorageURL(o.storageURL))
	}
	if o.documentKey != "" {
		options = append(options, config.WithDocumentKey(o.documentKey))
	}
	return config.Load(options...)
}

func (o *globalOptions) runtime(ctx context.Context) (*config.Runtime, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.BuildService(ctx)
}
