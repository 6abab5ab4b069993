package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tonearm/internal/distributor"
)

func newDeliverCommand(ctx *commandContext) *cobra.Command {
	var (
		partnerID string
		dropDir   string
		apiKey    string
		username  string
		password  string
	)

	cmd := &cobra.Command{
		Use:   "deliver <submission.json>",
		Short: "Validate, package, and deliver a release to a partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, assets, err := loadSubmission(args[0])
			if err != nil {
				return err
			}
			creds, err := resolveCredentials(ctx, partnerID, distributor.Credentials{
				APIKey:   apiKey,
				Username: username,
				Password: password,
			})
			if err != nil {
				return err
			}

			return ctx.withPipeline(dropDir, func(p *pipeline) error {
				result, err := p.orchestrator.Deliver(cmd.Context(), release, assets, partnerID, creds)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !result.Accepted {
					fmt.Fprintln(out, "Delivery rejected:")
					for _, problem := range result.Problems {
						fmt.Fprintf(out, "  - %s\n", problem)
					}
					if result.Submission != nil {
						for _, issue := range result.Submission.Errors {
							fmt.Fprintf(out, "  - [%s] %s\n", issue.Code, issue.Message)
						}
					}
					return fmt.Errorf("delivery to %s rejected", partnerID)
				}

				sub := result.Submission
				rows := [][]string{
					{"Release", sub.ReleaseID},
					{"Partner release", sub.DistributorReleaseID},
					{"Status", string(sub.Status)},
					{"Package", sub.PackageDir},
					{"Degraded", yesNo(result.Package != nil && len(result.Package.Degraded) > 0)},
				}
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows,
					[]columnAlignment{alignLeft, alignLeft}))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&partnerID, "partner", "p", "", "Partner to deliver to (distrokid, tunecore, cdbaby, symphonic)")
	cmd.Flags().StringVar(&dropDir, "drop-dir", "", "Local drop directory that receives the document package")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Partner API key (overrides saved credentials)")
	cmd.Flags().StringVar(&username, "username", "", "Partner account username")
	cmd.Flags().StringVar(&password, "password", "", "Partner account password")
	_ = cmd.MarkFlagRequired("partner")
	return cmd
}

// resolveCredentials prefers explicit flags and falls back to the saved
// credential store.
func resolveCredentials(ctx *commandContext, partnerID string, flags distributor.Credentials) (distributor.Credentials, error) {
	if strings.TrimSpace(flags.APIKey) != "" || strings.TrimSpace(flags.Username) != "" {
		return flags, nil
	}
	if _, err := ctx.ensureConfig(); err != nil {
		return distributor.Credentials{}, err
	}
	saved, found, err := ctx.credentialStore().Load(partnerID)
	if err != nil {
		return distributor.Credentials{}, err
	}
	if !found {
		return distributor.Credentials{}, fmt.Errorf(
			"no credentials for %s; pass --api-key or run `tonearm credentials set %s`", partnerID, partnerID)
	}
	return saved, nil
}
