package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/inkline/internal/appconfig"
	"pkt.systems/inkline/internal/registry"
	"pkt.systems/pslog"
)

func newProvidersCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Manage the provider registry",
	}

	cmd.AddCommand(newProvidersListCmd(cfgPath))
	cmd.AddCommand(newProvidersAddCmd(cfgPath))
	cmd.AddCommand(newProvidersRemoveCmd(cfgPath))
	cmd.AddCommand(newProvidersEnableCmd(cfgPath))
	cmd.AddCommand(newProvidersDisableCmd(cfgPath))
	cmd.AddCommand(newProvidersSelectCmd(cfgPath))

	return cmd
}

func openRegistry(cmd *cobra.Command, cfgPath *string) (*registry.Store, appconfig.Config, error) {
	cfg, err := appconfig.Load(*cfgPath)
	if err != nil {
		return nil, appconfig.Config{}, err
	}
	logger := pslog.Ctx(cmd.Context())
	store, err := registry.NewStoreWithLogger(cfg.Registry.File, logger)
	if err != nil {
		return nil, appconfig.Config{}, err
	}
	return store, cfg, nil
}

func newProvidersListCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List providers and their models",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openRegistry(cmd, cfgPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range store.Providers() {
				_, _ = fmt.Fprintf(out, "%s (%s) %s\n", p.ID, p.Name, p.BaseURL)
				for _, m := range p.Models {
					marker := " "
					if m.Selected {
						marker = "*"
					}
					status := ""
					if !m.Enabled {
						status = " (disabled)"
					}
					_, _ = fmt.Fprintf(out, "  %s %s%s\n", marker, m.ID, status)
				}
			}
			return nil
		},
	}
}

func newProvidersAddCmd(cfgPath *string) *cobra.Command {
	var name string
	var baseURL string
	cmd := &cobra.Command{
		Use:   "add <provider>",
		Short: "Add a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openRegistry(cmd, cfgPath)
			if err != nil {
				return err
			}
			if err := store.AddProvider(args[0], name, baseURL); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added provider: %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name, defaults to the provider id")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "provider api base url")
	return cmd
}

func newProvidersRemoveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <provider>",
		Short: "Remove a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openRegistry(cmd, cfgPath)
			if err != nil {
				return err
			}
			if err := store.RemoveProvider(args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed provider: %s\n", args[0])
			return nil
		},
	}
}

func newProvidersEnableCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "enable <provider> <model>",
		Short: "Enable a model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openRegistry(cmd, cfgPath)
			if err != nil {
				return err
			}
			if err := store.EnableModel(args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "enabled %s/%s\n", args[0], args[1])
			return nil
		},
	}
}

func newProvidersDisableCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "disable <provider> <model>",
		Short: "Disable a model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openRegistry(cmd, cfgPath)
			if err != nil {
				return err
			}
			if err := store.DisableModel(args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "disabled %s/%s\n", args[0], args[1])
			return nil
		},
	}
}

func newProvidersSelectCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "select <provider> <model>",
		Short: "Select a provider's active model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openRegistry(cmd, cfgPath)
			if err != nil {
				return err
			}
			if err := store.SelectModel(args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "selected %s/%s\n", args[0], args[1])
			return nil
		},
	}
}
