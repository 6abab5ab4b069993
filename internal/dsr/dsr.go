package dsr

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/currency"

	"tonearm/internal/logging"
	"tonearm/internal/services"
)

// Transaction is one reported usage line.
type Transaction struct {
	TransactionID string
	ResourceID    string
	Title         string
	UsageType     string
	UsageCount    int64
	Revenue       float64
	Currency      string
	Territory     string
}

// Report is a parsed sales report for one reporting period.
type Report struct {
	SenderID      string
	Period        string
	Service       string
	Transactions  []Transaction
	MalformedRows int
}

// Summary aggregates a report for display.
type Summary struct {
	Transactions  int
	MalformedRows int
	TotalUnits    int64
	GrossRevenue  float64
	Currencies    []string
	Territories   int
}

// expected column order after the header row.
const columnCount = 8

// Parser reads tab-separated sales reports.
type Parser struct {
	logger *slog.Logger
}

// NewParser returns a report parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Parser{logger: logger}
}

// ParseOptions carries report envelope fields that arrive out of band,
// typically from the delivery the report settles against.
type ParseOptions struct {
	SenderID string
	Period   string
	Service  string
}

// Parse reads a report: one header row, then tab-separated lines of
// [transactionId, ISRC, title, usageType, usageCount, revenue, currency,
// territory]. Rows with the wrong shape, unparseable numbers, or non
// ISO 4217 currency codes are logged, counted, and skipped.
func (p *Parser) Parse(r io.Reader, opts ParseOptions) (*Report, error) {
	report := &Report{
		SenderID: opts.SenderID,
		Period:   opts.Period,
		Service:  opts.Service,
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Text()
		if line == 1 {
			// Header row.
			continue
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}

		transaction, err := parseRow(raw)
		if err != nil {
			report.MalformedRows++
			p.logger.Warn("skipping malformed sales report row",
				logging.Int("line", line),
				logging.Error(err))
			continue
		}
		report.Transactions = append(report.Transactions, transaction)
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrValidation, "dsr", "parse", "failed to read sales report", err)
	}
	if line == 0 {
		return nil, services.Wrap(services.ErrValidation, "dsr", "parse", "sales report is empty", nil)
	}
	return report, nil
}

func parseRow(raw string) (Transaction, error) {
	fields := strings.Split(raw, "\t")
	if len(fields) != columnCount {
		return Transaction{}, fmt.Errorf("expected %d columns, got %d", columnCount, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	usageCount, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return Transaction{}, fmt.Errorf("usage count %q: %w", fields[4], err)
	}
	if usageCount < 0 {
		return Transaction{}, fmt.Errorf("usage count %d is negative", usageCount)
	}
	revenue, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return Transaction{}, fmt.Errorf("revenue %q: %w", fields[5], err)
	}

	unit, err := currency.ParseISO(fields[6])
	if err != nil {
		return Transaction{}, fmt.Errorf("currency %q: %w", fields[6], err)
	}

	if fields[1] == "" {
		return Transaction{}, fmt.Errorf("missing resource id")
	}

	return Transaction{
		TransactionID: fields[0],
		ResourceID:    fields[1],
		Title:         fields[2],
		UsageType:     fields[3],
		UsageCount:    usageCount,
		Revenue:       revenue,
		Currency:      unit.String(),
		Territory:     fields[7],
	}, nil
}

// RevenueByResource sums gross revenue per reported resource id.
func (r *Report) RevenueByResource() map[string]float64 {
	totals := make(map[string]float64, len(r.Transactions))
	for _, transaction := range r.Transactions {
		totals[transaction.ResourceID] += transaction.Revenue
	}
	return totals
}

// Summarize aggregates the report for display.
func (r *Report) Summarize() Summary {
	summary := Summary{
		Transactions:  len(r.Transactions),
		MalformedRows: r.MalformedRows,
	}
	currencies := map[string]bool{}
	territories := map[string]bool{}
	for _, transaction := range r.Transactions {
		summary.TotalUnits += transaction.UsageCount
		summary.GrossRevenue += transaction.Revenue
		currencies[transaction.Currency] = true
		territories[transaction.Territory] = true
	}
	for code := range currencies {
		summary.Currencies = append(summary.Currencies, code)
	}
	sort.Strings(summary.Currencies)
	summary.Territories = len(territories)
	return summary
}
