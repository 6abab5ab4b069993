package dsr

import (
	"math"
	"strings"
	"testing"
)

const sampleReport = `TransactionId	ISRC	Title	UsageType	UsageCount	Revenue	Currency	Territory
TX-001	USRC17607839	Midnight Drive	OnDemandStream	15000	45.50	USD	US
TX-002	USRC17607839	Midnight Drive	OnDemandStream	3200	9.10	USD	GB
TX-003	USRC17607840	Dawn Patrol	PermanentDownload	120	118.80	USD	US
`

func parseString(t *testing.T, input string, opts ParseOptions) *Report {
	t.Helper()
	report, err := NewParser(nil).Parse(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return report
}

func TestParseReport(t *testing.T) {
	report := parseString(t, sampleReport, ParseOptions{
		SenderID: "PADPIDA2013021901W",
		Period:   "2026-07",
	})

	if report.SenderID != "PADPIDA2013021901W" || report.Period != "2026-07" {
		t.Errorf("envelope = %+v", report)
	}
	if len(report.Transactions) != 3 {
		t.Fatalf("transactions = %d", len(report.Transactions))
	}
	if report.MalformedRows != 0 {
		t.Errorf("MalformedRows = %d", report.MalformedRows)
	}

	first := report.Transactions[0]
	if first.TransactionID != "TX-001" || first.ResourceID != "USRC17607839" {
		t.Errorf("first = %+v", first)
	}
	if first.UsageCount != 15000 || first.Revenue != 45.50 {
		t.Errorf("first = %+v", first)
	}
	if first.Currency != "USD" || first.Territory != "US" {
		t.Errorf("first = %+v", first)
	}
}

func TestParseSkipsMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		"TransactionId\tISRC\tTitle\tUsageType\tUsageCount\tRevenue\tCurrency\tTerritory",
		"TX-001\tUSRC17607839\tMidnight Drive\tOnDemandStream\t100\t1.00\tUSD\tUS",
		"TX-002\tUSRC17607839\tshort row",
		"TX-003\tUSRC17607839\tMidnight Drive\tOnDemandStream\tmany\t1.00\tUSD\tUS",
		"TX-004\tUSRC17607839\tMidnight Drive\tOnDemandStream\t100\t1.00\tZZZ\tUS",
		"TX-005\t\tMidnight Drive\tOnDemandStream\t100\t1.00\tUSD\tUS",
		"TX-006\tUSRC17607839\tMidnight Drive\tOnDemandStream\t-5\t1.00\tUSD\tUS",
		"TX-007\tUSRC17607840\tDawn Patrol\tPermanentDownload\t2\t1.98\tEUR\tDE",
		"",
	}, "\n")

	report := parseString(t, input, ParseOptions{})
	if len(report.Transactions) != 2 {
		t.Fatalf("transactions = %d, want 2 clean rows", len(report.Transactions))
	}
	if report.MalformedRows != 5 {
		t.Errorf("MalformedRows = %d, want 5", report.MalformedRows)
	}
}

func TestParseEmptyInput(t *testing.T) {
	if _, err := NewParser(nil).Parse(strings.NewReader(""), ParseOptions{}); err == nil {
		t.Fatal("expected error for empty report")
	}
}

func TestRevenueByResource(t *testing.T) {
	report := parseString(t, sampleReport, ParseOptions{})
	totals := report.RevenueByResource()

	if len(totals) != 2 {
		t.Fatalf("totals = %v", totals)
	}
	if math.Abs(totals["USRC17607839"]-54.60) > 1e-9 {
		t.Errorf("USRC17607839 = %v, want 54.60", totals["USRC17607839"])
	}
	if math.Abs(totals["USRC17607840"]-118.80) > 1e-9 {
		t.Errorf("USRC17607840 = %v", totals["USRC17607840"])
	}
}

func TestSummarize(t *testing.T) {
	report := parseString(t, sampleReport, ParseOptions{})
	report.MalformedRows = 1

	summary := report.Summarize()
	if summary.Transactions != 3 || summary.MalformedRows != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.TotalUnits != 18320 {
		t.Errorf("TotalUnits = %d", summary.TotalUnits)
	}
	if math.Abs(summary.GrossRevenue-173.40) > 1e-9 {
		t.Errorf("GrossRevenue = %v", summary.GrossRevenue)
	}
	if len(summary.Currencies) != 1 || summary.Currencies[0] != "USD" {
		t.Errorf("Currencies = %v", summary.Currencies)
	}
	if summary.Territories != 2 {
		t.Errorf("Territories = %d", summary.Territories)
	}
}
