package metadata

import (
	"math"
	"strings"
)

// Split is one royalty split entry. Percentages across a release's splits
// must total 100.
type Split struct {
	LegalName  string  `json:"legalName"`
	Role       string  `json:"role"`
	Percentage float64 `json:"percentage"`
	Email      string  `json:"email"`
}

// AIDisclosure captures the AI-generation disclosure block carried through to
// the release document.
type AIDisclosure struct {
	FullyAIGenerated     bool     `json:"isFullyAIGenerated"`
	PartiallyAIGenerated bool     `json:"isPartiallyAIGenerated"`
	ToolsUsed            []string `json:"aiToolsUsed,omitempty"`
	HumanContribution    string   `json:"humanContribution,omitempty"`
}

// Sample records a sampled work and its clearance state.
type Sample struct {
	Description string `json:"description"`
	Cleared     bool   `json:"cleared"`
}

// Track holds per-track metadata for multi-track releases.
type Track struct {
	Title          string       `json:"trackTitle"`
	Artist         string       `json:"artistName"`
	ISRC           string       `json:"isrc"`
	ISWC           string       `json:"iswc,omitempty"`
	Splits         []Split      `json:"splits,omitempty"`
	Explicit       bool         `json:"explicit"`
	IsInstrumental bool         `json:"isInstrumental"`
	Language       string       `json:"language,omitempty"`
	Duration       string       `json:"duration,omitempty"`
	AI             *AIDisclosure `json:"aiGeneratedContent,omitempty"`
}

// Release is the golden metadata record for a release. Immutable once a
// deployment reaches delivered, except for partner-specific amendments.
type Release struct {
	// Identity
	Title       string `json:"releaseTitle"`
	TrackTitle  string `json:"trackTitle,omitempty"`
	Artist      string `json:"artistName"`
	ISRC        string `json:"isrc,omitempty"`
	ISWC        string `json:"iswc,omitempty"`
	UPC         string `json:"upc,omitempty"`
	CatalogNumber string `json:"catalogNumber,omitempty"`

	// Commercial
	ReleaseType          string   `json:"releaseType,omitempty"`
	ReleaseDate          string   `json:"releaseDate"`
	OriginalReleaseDate  string   `json:"originalReleaseDate,omitempty"`
	Territories          []string `json:"territories,omitempty"`
	DistributionChannels []string `json:"distributionChannels,omitempty"`

	// Descriptive
	Label            string `json:"labelName,omitempty"`
	Genre            string `json:"genre,omitempty"`
	SubGenre         string `json:"subGenre,omitempty"`
	Language         string `json:"language,omitempty"`
	Explicit         bool   `json:"explicit"`
	IsInstrumental   bool   `json:"isInstrumental"`
	Duration         string `json:"duration,omitempty"`
	MarketingComment string `json:"marketingComment,omitempty"`
	PLineYear        int    `json:"pLineYear,omitempty"`
	PLineText        string `json:"pLineText,omitempty"`
	CLineYear        int    `json:"cLineYear,omitempty"`
	CLineText        string `json:"cLineText,omitempty"`

	// Rights
	Splits          []Split      `json:"splits,omitempty"`
	AI              *AIDisclosure `json:"aiGeneratedContent,omitempty"`
	ContainsSamples bool         `json:"containsSamples"`
	Samples         []Sample     `json:"samples,omitempty"`

	// Multi-track releases; empty for singles where the release itself
	// carries the track fields.
	Tracks []Track `json:"tracks,omitempty"`

	// Ownership
	UserID string `json:"userId,omitempty"`
	OrgID  string `json:"orgId,omitempty"`
}

// DisplayTitle returns the release title, falling back to the track title.
func (r *Release) DisplayTitle() string {
	if t := strings.TrimSpace(r.Title); t != "" {
		return t
	}
	return strings.TrimSpace(r.TrackTitle)
}

// Tracklist returns the tracks to process: the explicit track list, or the
// release itself treated as a single track when no list is present.
func (r *Release) Tracklist() []Track {
	if len(r.Tracks) > 0 {
		return r.Tracks
	}
	title := strings.TrimSpace(r.TrackTitle)
	if title == "" {
		title = strings.TrimSpace(r.Title)
	}
	return []Track{{
		Title:          title,
		Artist:         r.Artist,
		ISRC:           r.ISRC,
		ISWC:           r.ISWC,
		Splits:         r.Splits,
		Explicit:       r.Explicit,
		IsInstrumental: r.IsInstrumental,
		Language:       r.Language,
		Duration:       r.Duration,
		AI:             r.AI,
	}}
}

// SplitTotal sums the split percentages.
func SplitTotal(splits []Split) float64 {
	total := 0.0
	for _, split := range splits {
		total += split.Percentage
	}
	return total
}

// splitTotalTolerance allows for accumulated floating point error when
// checking that splits sum to 100%.
const splitTotalTolerance = 0.1

// SplitsBalanced reports whether the splits total 100% within tolerance.
// An empty split list is treated as balanced; required-field checks are the
// concern of partner validation.
func SplitsBalanced(splits []Split) bool {
	if len(splits) == 0 {
		return true
	}
	return math.Abs(SplitTotal(splits)-100) <= splitTotalTolerance
}
