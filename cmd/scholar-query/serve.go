// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-query/internal/httpserver"
	"github.com/pdiddy/scholar-query/internal/logger"
	"github.com/pdiddy/scholar-query/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve exposes the query compiler and the persistence store over HTTP:
compile, search history (including a server-sent-events watch stream), and
favorites. The server acts for this installation's device identity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := serverConfig(cmd)

		log := logger.New(cfg.LogLevel, cfg.Pretty)
		defer log.Sync()

		s, owner, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		srv := httpserver.New(cfg, httpserver.Deps{
			Store:  s,
			Owner:  owner,
			Logger: log,
		})

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-sigCh:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(ctx)
	},
}

func serverConfig(cmd *cobra.Command) types.ServerConfig {
	cfg := types.ServerConfig{
		ListenAddr: viper.GetString("server.listen_addr"),
		LogLevel:   viper.GetString("server.log_level"),
		Pretty:     viper.GetBool("server.pretty"),
	}

	if v, _ := cmd.Flags().GetString("listen"); v != "" {
		cfg.ListenAddr = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if set, _ := cmd.Flags().GetBool("pretty"); set {
		cfg.Pretty = true
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (default :8080)")
	serveCmd.Flags().String("log-level", "", "log level: debug, info, warn, error")
	serveCmd.Flags().Bool("pretty", false, "human-readable console logs")

	rootCmd.AddCommand(serveCmd)
}
