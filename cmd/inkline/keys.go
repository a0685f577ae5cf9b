package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/inkline/internal/appconfig"
	"pkt.systems/inkline/internal/keystore"
	"pkt.systems/kryptograf/keymgmt"
	"pkt.systems/pslog"
)

func newKeysCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage provider API keys",
	}

	cmd.AddCommand(newKeysSetCmd(cfgPath))
	cmd.AddCommand(newKeysShowCmd(cfgPath))
	cmd.AddCommand(newKeysDeleteCmd(cfgPath))
	cmd.AddCommand(newKeysListCmd(cfgPath))

	return cmd
}

func openKeystore(cmd *cobra.Command, cfgPath *string) (*keystore.Store, error) {
	cfg, err := appconfig.Load(*cfgPath)
	if err != nil {
		return nil, err
	}
	logger := pslog.Ctx(cmd.Context())
	return keystore.NewStoreWithLogger(cfg.Keystore.File, cfg.Keystore.Dir, logger)
}

func newKeysSetCmd(cfgPath *string) *cobra.Command {
	var keyFromStdin bool
	var baseURL string
	cmd := &cobra.Command{
		Use:   "set <provider>",
		Short: "Store an API key for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey, err := resolveAPIKey(cmd, keyFromStdin)
			if err != nil {
				return err
			}
			store, err := openKeystore(cmd, cfgPath)
			if err != nil {
				return err
			}
			if err := store.Set(args[0], keystore.Credential{APIKey: apiKey, BaseURL: baseURL}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stored key for %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&keyFromStdin, "key-from-stdin", false, "read the api key from stdin")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "override the provider base url for this key")
	return cmd
}

func newKeysShowCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <provider>",
		Short: "Print the stored API key for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openKeystore(cmd, cfgPath)
			if err != nil {
				return err
			}
			cred, err := store.Get(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "provider: %s\n", args[0])
			_, _ = fmt.Fprintf(out, "api_key: %s\n", cred.APIKey)
			if cred.BaseURL != "" {
				_, _ = fmt.Fprintf(out, "base_url: %s\n", cred.BaseURL)
			}
			return nil
		},
	}
}

func newKeysDeleteCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <provider>",
		Short: "Delete the stored API key for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openKeystore(cmd, cfgPath)
			if err != nil {
				return err
			}
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted key for %s\n", args[0])
			return nil
		},
	}
}

func newKeysListCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List providers with a stored API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openKeystore(cmd, cfgPath)
			if err != nil {
				return err
			}
			ids, err := store.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				_, _ = fmt.Fprintln(out, "no stored keys")
				return nil
			}
			for _, id := range ids {
				_, _ = fmt.Fprintln(out, id)
			}
			return nil
		},
	}
}

func resolveAPIKey(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		key := strings.TrimSpace(string(data))
		if key == "" {
			return "", errors.New("api key from stdin is empty")
		}
		return key, nil
	}
	key, err := keymgmt.PromptPassphrase(cmd.InOrStdin(), "API key: ", cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	if len(key) == 0 {
		return "", errors.New("api key is empty")
	}
	return string(key), nil
}
