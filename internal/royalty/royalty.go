package royalty

import (
	"log/slog"
	"math"
	"sort"

	"tonearm/internal/dsr"
	"tonearm/internal/logging"
	"tonearm/internal/metadata"
)

// PartnerDirectory resolves a reporting party's payout percentage from its
// DDEX party id.
type PartnerDirectory interface {
	PayoutByPartyID(partyID string) (percent float64, ok bool)
}

// Calculation is the fee breakdown for one gross amount.
type Calculation struct {
	Gross      float64
	FeePercent float64
	Fee        float64
	Net        float64
}

// ContributorPayment is one contributor's share of net revenue.
type ContributorPayment struct {
	LegalName  string
	Role       string
	Email      string
	Percentage float64
	Amount     float64
}

// ResourceSettlement is the settled revenue for one reported resource.
type ResourceSettlement struct {
	ResourceID string
	Title      string
	Calculation
	Payments []ContributorPayment
}

// Settlement is the full outcome of settling one sales report.
type Settlement struct {
	SenderID   string
	Period     string
	FeePercent float64
	Totals     Calculation
	Resources  []ResourceSettlement
	// Revenue reported against resource ids absent from the catalog.
	Unallocated      float64
	SkippedResources []string
}

// Engine computes settlements.
type Engine struct {
	directory PartnerDirectory
	logger    *slog.Logger
}

// New returns a settlement engine. A nil directory treats every reporting
// party as unknown (zero fee).
func New(directory PartnerDirectory, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{directory: directory, logger: logger}
}

// CalculateFees deducts the distributor fee implied by a payout percentage:
// a partner paying out 85% keeps a 15% fee.
func CalculateFees(gross, payoutPercent float64) Calculation {
	feePercent := 100 - payoutPercent
	fee := round4(gross * feePercent / 100)
	return Calculation{
		Gross:      round4(gross),
		FeePercent: feePercent,
		Fee:        fee,
		Net:        round4(gross - fee),
	}
}

// SplitRevenue divides net revenue across splits. Each amount is rounded to
// four decimal places on its own; the rounded amounts may not sum exactly to
// the input.
func SplitRevenue(net float64, splits []metadata.Split) []ContributorPayment {
	payments := make([]ContributorPayment, 0, len(splits))
	for _, split := range splits {
		payments = append(payments, ContributorPayment{
			LegalName:  split.LegalName,
			Role:       split.Role,
			Email:      split.Email,
			Percentage: split.Percentage,
			Amount:     round4(net * split.Percentage / 100),
		})
	}
	return payments
}

// ComputePayouts settles a report against the catalog, keyed by resource id
// (ISRC). Resources missing from the catalog are logged and skipped; their
// revenue accumulates as unallocated. The distributor fee is matched by the
// report's sender party id; an unknown sender takes no fee.
func (e *Engine) ComputePayouts(report *dsr.Report, catalog map[string]*metadata.Release) *Settlement {
	payoutPercent := 100.0
	if e.directory != nil {
		if percent, ok := e.directory.PayoutByPartyID(report.SenderID); ok {
			payoutPercent = percent
		} else {
			e.logger.Warn("unknown reporting party, taking no distributor fee",
				logging.String("sender_id", report.SenderID))
		}
	}

	settlement := &Settlement{
		SenderID:   report.SenderID,
		Period:     report.Period,
		FeePercent: 100 - payoutPercent,
	}

	for resourceID, gross := range report.RevenueByResource() {
		release, ok := catalog[resourceID]
		if !ok {
			settlement.Unallocated = round4(settlement.Unallocated + gross)
			settlement.SkippedResources = append(settlement.SkippedResources, resourceID)
			e.logger.Warn("skipping revenue for unknown resource",
				logging.String("resource_id", resourceID),
				logging.Float64("revenue", gross))
			continue
		}

		title, splits := resolveSplits(release, resourceID)
		calculation := CalculateFees(gross, payoutPercent)
		settlement.Resources = append(settlement.Resources, ResourceSettlement{
			ResourceID:  resourceID,
			Title:       title,
			Calculation: calculation,
			Payments:    SplitRevenue(calculation.Net, splits),
		})

		settlement.Totals.Gross = round4(settlement.Totals.Gross + calculation.Gross)
		settlement.Totals.Fee = round4(settlement.Totals.Fee + calculation.Fee)
		settlement.Totals.Net = round4(settlement.Totals.Net + calculation.Net)
	}
	settlement.Totals.FeePercent = settlement.FeePercent
	sortResources(settlement.Resources)
	return settlement
}

// resolveSplits locates the track matching the resource id and returns its
// splits, falling back to release-level splits, then to a single 100% share
// for the display artist.
func resolveSplits(release *metadata.Release, resourceID string) (string, []metadata.Split) {
	title := release.DisplayTitle()
	splits := release.Splits
	for _, track := range release.Tracklist() {
		if track.ISRC == resourceID {
			title = track.Title
			if len(track.Splits) > 0 {
				splits = track.Splits
			}
			break
		}
	}
	if len(splits) == 0 {
		splits = []metadata.Split{{LegalName: release.Artist, Role: "performer", Percentage: 100}}
	}
	return title, splits
}

func sortResources(resources []ResourceSettlement) {
	sort.Slice(resources, func(i, j int) bool {
		return resources[i].ResourceID < resources[j].ResourceID
	})
}

func round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}
