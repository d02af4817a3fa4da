package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheServer string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the API server's snapshot cache",
}

// The cache lives in the serve process, so clearing goes over HTTP.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached sheet and snapshot on a running server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		base := cacheServer
		if base == "" {
			base = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
		}
		if err := clearRemoteCache(cmd.Context(), &http.Client{Timeout: 10 * time.Second}, base); err != nil {
			return err
		}
		zap.L().Info("cache cleared", zap.String("server", base))
		return nil
	},
}

func clearRemoteCache(ctx context.Context, hc *http.Client, base string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, strings.TrimRight(base, "/")+"/api/cache", nil)
	if err != nil {
		return eris.Wrap(err, "cache clear: build request")
	}
	resp, err := hc.Do(req)
	if err != nil {
		return eris.Wrap(err, "cache clear")
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("cache clear: server returned %d", resp.StatusCode)
	}
	return nil
}

func init() {
	cacheClearCmd.Flags().StringVar(&cacheServer, "server", "", "server base URL (default http://localhost:<server.port>)")
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
