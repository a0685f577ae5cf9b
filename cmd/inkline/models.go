package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/inkline/internal/appconfig"
	"pkt.systems/inkline/internal/keystore"
	"pkt.systems/inkline/schema"
	"pkt.systems/pslog"
)

func newModelsCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage provider model lists",
	}

	cmd.AddCommand(newModelsRefreshCmd(cfgPath))

	return cmd
}

func newModelsRefreshCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <provider>",
		Short: "Fetch the provider's advertised models and merge new ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := openRegistry(cmd, cfgPath)
			if err != nil {
				return err
			}
			apiKey, err := storedAPIKey(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
			added, err := store.RefreshModels(cmd.Context(), args[0], apiKey, timeout)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %d new models for %s\n", added, args[0])
			return nil
		},
	}
}

// storedAPIKey returns the provider's stored API key when a keystore bundle
// already exists. Refresh works anonymously otherwise; the stat gate avoids
// creating a bundle as a side effect of a read-only command.
func storedAPIKey(cmd *cobra.Command, cfg appconfig.Config, provider string) (string, error) {
	if _, err := os.Stat(cfg.Keystore.File); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	keys, err := keystore.NewStoreWithLogger(cfg.Keystore.File, cfg.Keystore.Dir, pslog.Ctx(cmd.Context()))
	if err != nil {
		return "", err
	}
	cred, err := keys.Get(provider)
	if err != nil {
		if errors.Is(err, schema.ErrAPIKeyNotFound) {
			return "", nil
		}
		return "", err
	}
	return cred.APIKey, nil
}
