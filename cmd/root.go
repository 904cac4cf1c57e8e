package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ocscaffold/ocscaffold/app_errors"
	"github.com/ocscaffold/ocscaffold/config"
	"github.com/ocscaffold/ocscaffold/constants/lipgloss"
	"github.com/ocscaffold/ocscaffold/logger"
	"github.com/ocscaffold/ocscaffold/structure_indexer"
	"github.com/ocscaffold/ocscaffold/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootDependencies is everything a command needs. It is built once per process, so the
// index survives between actions of the interactive menu.
type RootDependencies struct {
	Cwd      string
	Config   *config.Config
	Logger   *zap.Logger
	Indexer  *structure_indexer.StructureIndexer
	Prompter utils.Prompter
	Out      io.Writer

	// LoadConfig re-reads the settings at the start of an action; nil keeps Config.
	LoadConfig func() (*config.Config, error)

	// Interactive enables spinners; tests run without them.
	Interactive bool
}

var rootCmd = &cobra.Command{
	Use:   "ocscaffold",
	Short: "Scaffold OpenCart extensions and index an OpenCart source tree.",
	Long: `ocscaffold generates boilerplate for OpenCart extensions: admin and catalog modules,
OCMod manifests, Twig and TPL layouts and snippets. It indexes a local copy of the
OpenCart source to find its version and the controllers, models, views and language
files it ships. Run it without a subcommand to open the interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			fmt.Println(lipgloss.BlueSky.Render(fmt.Sprintf("ocscaffold version %s", config.DefaultConfig.Version)))
			return nil
		}

		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		return runMenuLoop(cmd.Context(), rootDependencies)
	},
}

// handleRootCommand loads the configuration and wires the shared services.
func handleRootCommand(cmd *cobra.Command) (*RootDependencies, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("error getting current working directory: %w", err)
	}

	root := cmd.Root()
	loadConfig := func() (*config.Config, error) {
		return config.LoadConfigs(root, cwd)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.ConfigFileUsed != "" {
		log.Debug("loaded configuration", zap.String("file", cfg.ConfigFileUsed))
	}

	return &RootDependencies{
		Cwd:         cwd,
		Config:      cfg,
		LoadConfig:  loadConfig,
		Logger:      log,
		Indexer:     structure_indexer.NewStructureIndexer(sourceRootResolver(loadConfig, log), log),
		Prompter:    utils.NewPtermPrompter(),
		Out:         os.Stdout,
		Interactive: true,
	}, nil
}

// sourceRootResolver re-reads the configuration on every index run, so a changed
// oc_source_path is picked up inside a long-running menu session.
func sourceRootResolver(loadConfig func() (*config.Config, error), log *zap.Logger) structure_indexer.RootResolver {
	return func() (string, error) {
		cfg, err := loadConfig()
		if err != nil {
			return "", err
		}
		log.Debug("resolving source root", zap.String("oc_source_path", cfg.OcSourcePath))
		return cfg.SourceRoot()
	}
}

// currentConfig re-reads the settings at the start of an action and keeps the
// result in Config for the rest of it.
func (rootDependencies *RootDependencies) currentConfig() (*config.Config, error) {
	if rootDependencies.LoadConfig == nil {
		return rootDependencies.Config, nil
	}
	cfg, err := rootDependencies.LoadConfig()
	if err != nil {
		return nil, err
	}
	rootDependencies.Config = cfg
	return cfg, nil
}

// reportError prints the single toast a failed command ends with. Cancellations stay silent.
func reportError(w io.Writer, log *zap.Logger, err error) {
	if err == nil || app_errors.IsCancelled(err) || errors.Is(err, context.Canceled) {
		return
	}
	if log != nil {
		log.Debug("command failed", zap.Error(err))
	}
	fmt.Fprintln(w, lipgloss.Red.Render(fmt.Sprintf("✗ %v", err)))
}

// Execute runs the root command.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if app_errors.IsCancelled(err) || errors.Is(err, context.Canceled) {
			return
		}
		reportError(os.Stderr, nil, err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}
