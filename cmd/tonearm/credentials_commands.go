package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tonearm/internal/distributor"
)

func newCredentialsCommand(ctx *commandContext) *cobra.Command {
	credentialsCmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage saved partner credentials",
	}

	credentialsCmd.AddCommand(newCredentialsSetCommand(ctx))
	credentialsCmd.AddCommand(newCredentialsClearCommand(ctx))

	return credentialsCmd
}

func newCredentialsSetCommand(ctx *commandContext) *cobra.Command {
	var (
		apiKey   string
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "set <partner>",
		Short: "Save credentials for a partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds := distributor.Credentials{
				APIKey:   apiKey,
				Username: username,
				Password: password,
			}
			if err := ctx.credentialStore().Save(args[0], creds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved credentials for %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Partner API key")
	cmd.Flags().StringVar(&username, "username", "", "Partner account username")
	cmd.Flags().StringVar(&password, "password", "", "Partner account password")
	return cmd
}

func newCredentialsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <partner>",
		Short: "Delete saved credentials for a partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.credentialStore().Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared credentials for %s\n", args[0])
			return nil
		},
	}
}
