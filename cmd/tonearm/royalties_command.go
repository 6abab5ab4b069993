package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tonearm/internal/dsr"
	"tonearm/internal/metadata"
	"tonearm/internal/royalty"
)

func newRoyaltiesCommand(ctx *commandContext) *cobra.Command {
	var (
		senderID     string
		period       string
		service      string
		catalogFiles []string
		showPayments bool
	)

	cmd := &cobra.Command{
		Use:   "royalties <report.tsv>",
		Short: "Parse a sales report and settle it against the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open report: %w", err)
			}
			defer file.Close()

			report, err := dsr.NewParser(logger).Parse(file, dsr.ParseOptions{
				SenderID: senderID,
				Period:   period,
				Service:  service,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			summary := report.Summarize()
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, [][]string{
				{"Transactions", strconv.Itoa(summary.Transactions)},
				{"Malformed rows", strconv.Itoa(summary.MalformedRows)},
				{"Total units", strconv.FormatInt(summary.TotalUnits, 10)},
				{"Gross revenue", formatAmount(summary.GrossRevenue)},
				{"Currencies", strings.Join(summary.Currencies, ", ")},
				{"Territories", strconv.Itoa(summary.Territories)},
			}, []columnAlignment{alignLeft, alignRight}))

			if len(catalogFiles) == 0 {
				return nil
			}
			catalog, err := loadCatalog(catalogFiles)
			if err != nil {
				return err
			}

			return ctx.withPipeline("", func(p *pipeline) error {
				settlement := royalty.New(p.registry, logger).ComputePayouts(report, catalog)

				rows := make([][]string, 0, len(settlement.Resources))
				for _, resource := range settlement.Resources {
					rows = append(rows, []string{
						resource.ResourceID,
						resource.Title,
						formatAmount(resource.Gross),
						formatAmount(resource.Fee),
						formatAmount(resource.Net),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Resource", "Title", "Gross", "Fee", "Net"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
				))

				if showPayments {
					paymentRows := make([][]string, 0)
					for _, resource := range settlement.Resources {
						for _, payment := range resource.Payments {
							paymentRows = append(paymentRows, []string{
								resource.ResourceID,
								payment.LegalName,
								payment.Role,
								formatAmount(payment.Percentage) + "%",
								formatAmount(payment.Amount),
							})
						}
					}
					fmt.Fprintln(out, renderTable(
						[]string{"Resource", "Contributor", "Role", "Share", "Amount"}, paymentRows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
					))
				}

				fmt.Fprintf(out, "Fee %.1f%%  gross %s  net %s\n",
					settlement.FeePercent, formatAmount(settlement.Totals.Gross), formatAmount(settlement.Totals.Net))
				if settlement.Unallocated > 0 {
					fmt.Fprintf(out, "Unallocated revenue %s across %d unknown resource(s)\n",
						formatAmount(settlement.Unallocated), len(settlement.SkippedResources))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&senderID, "sender", "", "Reporting partner's DDEX party id")
	cmd.Flags().StringVar(&period, "period", "", "Reporting period, e.g. 2026-07")
	cmd.Flags().StringVar(&service, "service", "", "Reporting service name")
	cmd.Flags().StringSliceVar(&catalogFiles, "release", nil, "Submission file to settle against (repeatable)")
	cmd.Flags().BoolVar(&showPayments, "payments", false, "Show per-contributor payments")
	return cmd
}

// loadCatalog indexes submissions by the resource ids a sales report uses.
func loadCatalog(paths []string) (map[string]*metadata.Release, error) {
	catalog := make(map[string]*metadata.Release)
	for _, path := range paths {
		release, _, err := loadSubmission(path)
		if err != nil {
			return nil, err
		}
		for _, track := range release.Tracklist() {
			isrc := strings.TrimSpace(track.ISRC)
			if isrc == "" {
				continue
			}
			catalog[isrc] = release
		}
	}
	return catalog, nil
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
