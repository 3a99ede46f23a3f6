package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkarlsson/cvscreen/internal/config"
	"github.com/mkarlsson/cvscreen/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the screening HTTP API server",
	Long:  "Start the REST API: resume uploads, job requirement CRUD, match scoring and the recruiting dashboard, backed by PostgreSQL.",
	RunE:  runServe,
}

var (
	serveAddr       string
	serveConfigFile string
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config and CVSCREEN_ADDR)")
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	envCfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	cfg := *envCfg
	if serveConfigFile != "" {
		fileCfg, err := config.LoadConfig(serveConfigFile)
		if err != nil {
			return err
		}
		cfg = envCfg.MergeWithDefaults(*fileCfg)
	} else {
		cfg = cfg.MergeWithDefaults(config.Config{})
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL or the config file's database_url)")
	}

	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	return srv.Start()
}
