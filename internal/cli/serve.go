package cli

import (
	"time"

	"resumeforge/internal/auth"
	"resumeforge/internal/errors"
	"resumeforge/internal/server"

	"github.com/spf13/cobra"
)

// promptWatchDebounce collapses editor save bursts into one reload
const promptWatchDebounce = 500 * time.Millisecond

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP server that exposes the résumé tailoring API.

Routes under /api require a bearer token from /api/auth/register or
/api/auth/login. /health and /stats are public. Prometheus metrics are served on
observability.prometheus.port when enabled.

TLS is enabled when server.tls.certFile and server.tls.keyFile are set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	overrides := map[string]*string{
		"port":      &cfg.Server.Port,
		"host":      &cfg.Server.Host,
		"cert-file": &cfg.Server.TLS.CertFile,
		"key-file":  &cfg.Server.TLS.KeyFile,
	}
	for name, target := range overrides {
		if cmd.Flags().Changed(name) {
			*target, _ = cmd.Flags().GetString(name)
		}
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Expiration(), cfg.Auth.Issuer)
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "Invalid auth configuration", err)
	}
	passwords := auth.Passwords{Cost: cfg.Auth.BcryptCost, Pepper: cfg.Auth.Pepper}
	if err := passwords.Validate(); err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "Invalid auth configuration", err)
	}

	c, err := buildComponents(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer c.close()

	if err := c.obs.StartMetricsServer(); err != nil {
		return err
	}
	if cfg.AI.WatchPrompts {
		if err := c.prompts.Watch(ctx, promptWatchDebounce); err != nil {
			logger.LogError(err, "Prompt hot reload disabled")
		}
	}

	srv := server.New(server.Options{
		Config:        cfg,
		Version:       Version,
		Service:       c.service,
		Store:         c.store,
		Tokens:        tokens,
		Passwords:     passwords,
		Observability: c.obs,
		Logger:        logger,
	})
	return srv.Start(ctx)
}
