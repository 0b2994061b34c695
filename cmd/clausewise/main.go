// Package main is the clausewise CLI entry point.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/clausewise/internal/analysis"
	"github.com/hyperjump/clausewise/internal/audit"
	"github.com/hyperjump/clausewise/internal/cli"
	"github.com/hyperjump/clausewise/internal/config"
	"github.com/hyperjump/clausewise/internal/keyword"
	"github.com/hyperjump/clausewise/internal/rules"
	"github.com/hyperjump/clausewise/internal/service"
	"github.com/hyperjump/clausewise/internal/storage"
	"github.com/hyperjump/clausewise/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/clausewise/config.yaml"

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	debug      bool
	format     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "clausewise",
		Short: "Contract clause segmentation and risk analysis",
		Long: `clausewise splits contracts into clauses, classifies each clause,
flags risky and ambiguous wording and suggests mitigations.

Reports are stored locally and every clause is searchable.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "config file path")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&opts.format, "format", "text", "output format: text or json")

	root.AddCommand(
		newServerCmd(opts),
		newAnalyzeCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newDeleteCmd(opts),
		newSearchCmd(opts),
		newStatusCmd(opts),
		newWatchCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the clausewise version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "clausewise version %s\n", version)
		},
	}
}

// loadConfig loads config from path. When path is the default, config.yaml in
// the working directory wins if present, and a missing default file means
// built-in defaults. Returns the config and the path it belongs to.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, path, nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func (o *rootOptions) outputFormat() (cli.OutputFormat, error) {
	return cli.ParseOutputFormat(o.format)
}

// components holds the opened stores and the service built on them.
type components struct {
	cfg     *config.Config
	store   storage.Storage
	index   keyword.ClauseIndex
	audit   *audit.Logger
	service *service.Service
}

func (c *components) Close() {
	if c.index != nil {
		_ = c.index.Close()
	}
	if c.store != nil {
		_ = c.store.Close()
	}
}

func newAnalyzer(cfg *config.Config, logger *zap.Logger) (*analysis.Analyzer, error) {
	var r *rules.Rules
	if cfg.Analysis.RulesPath != "" {
		loaded, err := rules.Load(cfg.Analysis.RulesPath)
		if err != nil {
			return nil, err
		}
		r = loaded
	}
	leading := analysis.DropLeadingText
	if cfg.Analysis.PreserveLeadingText {
		leading = analysis.PrependLeadingText
	}
	return analysis.NewAnalyzer(r,
		analysis.WithMinSentenceLength(cfg.Analysis.MinSentenceLength),
		analysis.WithLeadingText(leading),
		analysis.WithLogger(logger),
	)
}

func openComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	an, err := newAnalyzer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis rules: %w", err)
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	index, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize clause index: %w", err)
	}
	auditLog := audit.New(cfg.Storage.AuditLogPath, audit.WithLogger(logger))
	svc := service.New(an, store, index,
		service.WithLogger(logger),
		service.WithAuditLog(auditLog),
	)
	return &components{
		cfg:     cfg,
		store:   store,
		index:   index,
		audit:   auditLog,
		service: svc,
	}, nil
}

// openLocal loads config and opens components for a one-shot command. The
// returned cleanup closes stores and flushes the logger.
func (o *rootOptions) openLocal() (*components, func(), error) {
	cfg, _, err := loadConfig(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewCLILogger(cfg.Debug || o.debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	c, err := openComponents(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return c, func() {
		c.Close()
		_ = logger.Sync()
	}, nil
}
