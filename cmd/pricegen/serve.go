package main

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-pricegen/pkg/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve both forms over HTTP",
	Long: `Serves the training and prediction forms side by side. Without --api-url
the prediction service URL is derived from each browser's origin: loopback
origins use port 8000 on the same host, anything else the origin itself.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("addr") {
		cfg.Addr = serveAddr
	}

	srv, err := server.New(serverOptions()...)
	if err != nil {
		return err
	}
	logger.Info("starting pricegen", zap.String("addr", cfg.Addr), zap.String("api", cfg.APIURL))
	return srv.Run(cmd.Context(), cfg.Addr)
}

func serverOptions() []server.Option {
	return []server.Option{
		server.WithLogger(logger),
		server.WithAPIURL(cfg.APIURL),
		server.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		server.WithSequencing(cfg.SequencePredictions),
		server.WithMaxSessions(cfg.MaxSessions),
		server.WithAllowedOrigins(cfg.AllowedOrigins),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
	}
}
