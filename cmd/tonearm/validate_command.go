package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tonearm/internal/distributor"
	"tonearm/internal/ern"
	"tonearm/internal/metadata"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var partnerID string

	cmd := &cobra.Command{
		Use:   "validate <submission.json>",
		Short: "Validate a release submission before delivery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, assets, err := loadSubmission(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			problems := 0

			canonical := metadata.VerifyCanonical(release)
			if canonical.Valid {
				fmt.Fprintln(out, "Identifiers: linked")
			} else {
				fmt.Fprintf(out, "Identifiers: %s\n", canonical.Err)
				problems++
			}

			return ctx.withPipeline("", func(p *pipeline) error {
				recipient := ern.Party{}
				var reqs *distributor.Requirements
				if strings.TrimSpace(partnerID) != "" {
					adapter, err := p.registry.Get(partnerID)
					if err != nil {
						return err
					}
					recipient = ern.Party{PartyID: adapter.PartyID(), PartyName: adapter.Name()}
					partnerReqs := adapter.Requirements()
					reqs = &partnerReqs

					issues := append(adapter.ValidateMetadata(release), adapter.ValidateAssets(assets)...)
					if len(issues) == 0 {
						fmt.Fprintf(out, "%s requirements: met\n", adapter.Name())
					} else {
						fmt.Fprintf(out, "%s requirements:\n", adapter.Name())
						fmt.Fprintln(out, renderTable(
							[]string{"Severity", "Code", "Field", "Message"},
							buildIssueRows(issues),
							[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
						))
						if !distributor.Clean(issues) {
							problems++
						}
					}
				}

				report, err := p.orchestrator.ValidatePackage(cmd.Context(), release, assets, recipient, reqs)
				if err != nil {
					return err
				}
				if report.Valid() {
					fmt.Fprintln(out, "Document package: valid")
				} else {
					fmt.Fprintln(out, "Document package problems:")
					for _, problem := range report.Problems {
						fmt.Fprintf(out, "  - %s\n", problem)
					}
					problems += len(report.Problems)
				}

				if problems > 0 {
					return fmt.Errorf("validation found %d problem(s)", problems)
				}
				fmt.Fprintln(out, "Submission is ready for delivery")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&partnerID, "partner", "p", "", "Also check a partner's requirements (distrokid, tunecore, cdbaby, symphonic)")
	return cmd
}

func buildIssueRows(issues []distributor.Issue) [][]string {
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, []string{issue.Severity, issue.Code, issue.Field, issue.Message})
	}
	return rows
}
