package cli

import (
	"context"
	"time"

	"resumeforge/internal/ai"
	"resumeforge/internal/archive"
	"resumeforge/internal/ats"
	"resumeforge/internal/common"
	"resumeforge/internal/config"
	"resumeforge/internal/errors"
	"resumeforge/internal/jobfetch"
	"resumeforge/internal/observability"
	"resumeforge/internal/storage"
	"resumeforge/internal/tailor"

	"github.com/spf13/cobra"
)

// components are the collaborators a command works with
type components struct {
	cfg      *config.Config
	logger   *errors.Logger
	obs      *observability.Manager
	prompts  *config.PromptStore
	provider ai.Provider
	store    storage.Store
	archive  archive.Store
	service  *tailor.Service
}

// buildComponents wires the tailoring service. The database is opened and
// migrated only when withStore is set.
func buildComponents(ctx context.Context, cfg *config.Config, logger *errors.Logger, withStore bool) (_ *components, err error) {
	c := &components{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			c.close()
		}
	}()

	method, err := ats.ParseMethod(cfg.Scoring.DefaultMethod)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, err.Error(), nil)
	}

	if c.obs, err = observability.NewManager(cfg.Observability, Version, logger); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "Failed to initialize observability", err)
	}

	if c.prompts, err = config.NewPromptStore(cfg.AI.PromptsDir, logger); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "Failed to load prompt files", err)
	}

	if c.provider, err = ai.NewProvider(cfg, c.prompts, logger, c.obs.Metrics()); err != nil {
		return nil, err
	}

	if c.archive, err = archive.New(cfg.Export, logger); err != nil {
		return nil, err
	}

	if withStore {
		c.store, err = storage.Open(ctx, storage.Options{
			Driver:   cfg.Database.Driver,
			DSN:      cfg.Database.DSN,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "Failed to open database", err)
		}
		if err = c.store.Migrate(ctx); err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "Failed to migrate database", err)
		}
	}

	c.service = tailor.New(tailor.Options{
		Store:         c.store,
		Provider:      c.provider,
		Fetcher:       jobfetch.New(jobfetch.Options{}, logger),
		Archive:       c.archive,
		DefaultMethod: method,
		Metrics:       c.obs.Metrics(),
		Logger:        logger,
	})
	return c, nil
}

// close releases everything buildComponents opened
func (c *components) close() {
	if c.provider != nil {
		if err := c.provider.Close(); err != nil {
			c.logger.Warn("Failed to close AI provider", "error", err.Error())
		}
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			c.logger.Warn("Failed to close database", "error", err.Error())
		}
	}
	if c.obs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.obs.Shutdown(ctx); err != nil {
			c.logger.Warn("Failed to shut down observability", "error", err.Error())
		}
	}
}

// runner returns the file command runner for cmd
func runner(cmd *cobra.Command, cfg *config.Config, logger *errors.Logger) common.Runner {
	return common.Runner{Logger: logger, Stdout: cmd.OutOrStdout(), MaxFileSize: cfg.App.MaxFileSize}
}

// outputFlags registers --output and --format on cmd
func outputFlags(cmd *cobra.Command, target *common.CommandConfig) {
	cmd.Flags().StringVarP(&target.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&target.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveFormat applies the configured default format and validates it
func resolveFormat(cmd *cobra.Command, target *common.CommandConfig) error {
	cfg := getConfigFromContext(cmd.Context())
	if target.OutputFormat == "" {
		target.OutputFormat = cfg.App.DefaultFormat
	}
	return common.ValidateOutputFormat(target.OutputFormat, cfg.App.SupportedFormats)
}
