package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/inkline/internal/appconfig"
	"pkt.systems/inkline/internal/release"
	"pkt.systems/inkline/internal/version"
)

func newUpdateCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check whether a newer release is available",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(*cfgPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Update.URL) == "" {
				return errors.New("update.url is not configured")
			}
			timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
			status, err := release.Check(cmd.Context(), cfg.Update.URL, version.Current(), timeout)
			if err != nil {
				return fmt.Errorf("update check failed: %w", err)
			}
			out := cmd.OutOrStdout()
			if !status.UpdateAvailable {
				_, _ = fmt.Fprintf(out, "up to date (%s)\n", status.Current)
				return nil
			}
			_, _ = fmt.Fprintf(out, "update available: %s (running %s)\n", status.Latest, status.Current)
			if status.DownloadURL != "" {
				_, _ = fmt.Fprintf(out, "download: %s\n", status.DownloadURL)
			}
			return nil
		},
	}
}
