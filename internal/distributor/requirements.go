package distributor

// CoverArtRequirements bounds acceptable cover images.
type CoverArtRequirements struct {
	MinWidth     int
	MinHeight    int
	MaxWidth     int
	MaxHeight    int
	Formats      []string
	MaxSizeBytes int64
}

// AudioRequirements bounds acceptable audio masters.
type AudioRequirements struct {
	Formats       []string
	MinSampleRate int
	MinBitDepth   int
}

// MetadataRequirements names the fields a partner insists on.
type MetadataRequirements struct {
	MaxTitleLength   int
	MaxArtistLength  int
	ISRCRequired     bool
	UPCRequired      bool
	GenreRequired    bool
	LanguageRequired bool
	LabelRequired    bool
}

// TimingRequirements captures submission lead time and review duration.
type TimingRequirements struct {
	MinLeadTimeDays int
	ReviewTimeDays  int
}

// Pricing models how a partner charges and pays out.
type Pricing struct {
	// subscription, per_release, or revenue_share.
	Model         string
	AnnualFee     float64
	PerReleaseFee float64
	PayoutPercent float64
}

// Requirements is a partner's full declarative profile.
type Requirements struct {
	DistributorID string
	CoverArt      CoverArtRequirements
	Audio         AudioRequirements
	Metadata      MetadataRequirements
	Timing        TimingRequirements
	Pricing       Pricing
}

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue is one validation finding.
type Issue struct {
	Code     string
	Message  string
	Field    string
	Severity string
}

// Clean reports whether the issue list contains no error-severity findings.
func Clean(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Messages flattens error-severity issues into strings for the ledger.
func Messages(issues []Issue) []string {
	var out []string
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			out = append(out, issue.Message)
		}
	}
	return out
}
