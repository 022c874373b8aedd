package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for uploading, analyzing and matching resumes.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to load JWT config: %w", err)
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.openStorage(ctx); err != nil {
		return err
	}

	srv, err := newServer(a, jwtConfig)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

func newServer(a *app, jwtConfig *config.JWTConfig) (*server.Server, error) {
	maxUpload, err := a.cfg.MaxUploadBytes()
	if err != nil {
		return nil, err
	}

	port := a.cfg.Port
	if servePort != 0 {
		port = servePort
	}

	opts := []server.Option{server.WithLogger(a.logger)}
	if a.files != nil {
		opts = append(opts, server.WithFileSource(a.files))
	}
	if a.health != nil {
		opts = append(opts, server.WithHealthCheck(a.health))
	}

	cfg := server.Config{Port: port, MaxUploadBytes: maxUpload}
	return server.New(cfg, a.store, a.newPipeline(), server.NewJWTService(jwtConfig), opts...), nil
}
