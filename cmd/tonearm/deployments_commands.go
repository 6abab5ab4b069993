package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tonearm/internal/ledger"
)

func newDeploymentsCommand(ctx *commandContext) *cobra.Command {
	deploymentsCmd := &cobra.Command{
		Use:   "deployments",
		Short: "Inspect the deployment ledger",
	}

	deploymentsCmd.AddCommand(newDeploymentsListCommand(ctx))
	deploymentsCmd.AddCommand(newDeploymentsStatusCommand(ctx))
	deploymentsCmd.AddCommand(newDeploymentsShowCommand(ctx))

	return deploymentsCmd
}

func newDeploymentsListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deployments",
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []ledger.Status
			for _, statusStr := range listStatuses {
				status := ledger.Status(strings.ToLower(strings.TrimSpace(statusStr)))
				if !status.IsValid() {
					return fmt.Errorf("unknown status %q", statusStr)
				}
				statuses = append(statuses, status)
			}

			return ctx.withLedger(func(store *ledger.Store) error {
				deployments, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(deployments) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No deployments")
					return nil
				}
				rows := make([][]string, 0, len(deployments))
				for _, d := range deployments {
					rows = append(rows, []string{
						shortID(d.ID),
						d.ReleaseID,
						d.DistributorID,
						string(d.Status),
						d.ExternalID,
						d.SubmittedAt.Format(time.DateTime),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Release", "Partner", "Status", "External ID", "Submitted"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&listStatuses, "status", nil, "Filter by status (repeatable)")
	return cmd
}

func newDeploymentsStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show a ledger summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				summary, err := store.Summary(cmd.Context())
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Total", strconv.Itoa(summary.Total)},
					{"In flight", strconv.Itoa(summary.InFlight)},
					{"Delivered", strconv.Itoa(summary.Delivered)},
					{"Live", strconv.Itoa(summary.Live)},
					{"Failed", strconv.Itoa(summary.Failed)},
					{"Rejected", strconv.Itoa(summary.Rejected)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"State", "Count"}, rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}

func newDeploymentsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <release-id> <partner>",
		Short: "Show one deployment in detail",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				deployment, err := store.Get(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if deployment == nil {
					return fmt.Errorf("no deployment of %s to %s", args[0], args[1])
				}
				out := cmd.OutOrStdout()
				rows := [][]string{
					{"ID", deployment.ID},
					{"Release", deployment.ReleaseID},
					{"Partner", deployment.DistributorID},
					{"Status", string(deployment.Status)},
					{"External ID", deployment.ExternalID},
					{"Submitted", deployment.SubmittedAt.Format(time.DateTime)},
					{"Last updated", deployment.LastUpdatedAt.Format(time.DateTime)},
					{"Terminal", yesNo(deployment.Status.IsTerminal())},
				}
				if deployment.LastCheckedAt != nil {
					rows = append(rows, []string{"Last checked", deployment.LastCheckedAt.Format(time.DateTime)})
				}
				if deployment.TrackingLink != "" {
					rows = append(rows, []string{"Tracking", deployment.TrackingLink})
				}
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows,
					[]columnAlignment{alignLeft, alignLeft}))
				for _, message := range deployment.Errors {
					fmt.Fprintf(out, "error: %s\n", message)
				}
				return nil
			})
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
