package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tonearm/internal/distributor"
)

func newPartnersCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "partners",
		Short:       "List supported distribution partners",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := distributor.Profiles()
			rows := make([][]string, 0, len(profiles))
			for _, profile := range profiles {
				req := profile.Requirements
				rows = append(rows, []string{
					profile.ID,
					profile.Name,
					profile.PartyID,
					strconv.FormatFloat(req.Pricing.PayoutPercent, 'f', 0, 64) + "%",
					strconv.Itoa(req.Timing.MinLeadTimeDays),
					strconv.Itoa(req.Timing.ReviewTimeDays),
					fmt.Sprintf("%dpx", req.CoverArt.MinWidth),
					strings.Join(req.Audio.Formats, "/"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "DPID", "Payout", "Lead", "Review", "Cover", "Audio"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}
