package distributor

import (
	"fmt"
	"strings"
	"time"

	"tonearm/internal/metadata"
)

// ValidateMetadata checks a release against a partner's metadata
// requirements. Findings accumulate; nothing short-circuits.
func ValidateMetadata(release *metadata.Release, reqs Requirements, partnerName string) []Issue {
	var issues []Issue
	md := reqs.Metadata

	title := release.DisplayTitle()
	if title == "" {
		issues = append(issues, Issue{
			Code: "MISSING_TITLE", Message: "Track title is required",
			Field: "trackTitle", Severity: SeverityError,
		})
	}
	if release.Artist == "" {
		issues = append(issues, Issue{
			Code: "MISSING_ARTIST", Message: "Artist name is required",
			Field: "artistName", Severity: SeverityError,
		})
	}
	if md.ISRCRequired && release.ISRC == "" && !tracksCarryISRC(release) {
		issues = append(issues, Issue{
			Code: "MISSING_ISRC", Message: fmt.Sprintf("ISRC is required for %s", partnerName),
			Field: "isrc", Severity: SeverityError,
		})
	}
	if md.UPCRequired && release.UPC == "" {
		issues = append(issues, Issue{
			Code: "MISSING_UPC", Message: fmt.Sprintf("UPC is required for %s", partnerName),
			Field: "upc", Severity: SeverityError,
		})
	}
	if md.GenreRequired && release.Genre == "" {
		issues = append(issues, Issue{
			Code: "MISSING_GENRE", Message: "Genre is required",
			Field: "genre", Severity: SeverityError,
		})
	}
	if md.LanguageRequired && release.Language == "" {
		issues = append(issues, Issue{
			Code: "MISSING_LANGUAGE", Message: "Language is required",
			Field: "language", Severity: SeverityError,
		})
	}
	if md.LabelRequired && release.Label == "" {
		issues = append(issues, Issue{
			Code: "MISSING_LABEL", Message: "Label name is required",
			Field: "labelName", Severity: SeverityError,
		})
	}

	if md.MaxTitleLength > 0 && len(title) > md.MaxTitleLength {
		issues = append(issues, Issue{
			Code:    "TITLE_TOO_LONG",
			Message: fmt.Sprintf("Title exceeds %d characters", md.MaxTitleLength),
			Field:   "trackTitle", Severity: SeverityError,
		})
	}
	if md.MaxArtistLength > 0 && len(release.Artist) > md.MaxArtistLength {
		issues = append(issues, Issue{
			Code:    "ARTIST_NAME_TOO_LONG",
			Message: fmt.Sprintf("Artist name exceeds %d characters", md.MaxArtistLength),
			Field:   "artistName", Severity: SeverityError,
		})
	}

	if len(release.Splits) > 0 && !metadata.SplitsBalanced(release.Splits) {
		issues = append(issues, Issue{
			Code:    "INVALID_SPLITS",
			Message: fmt.Sprintf("Royalty splits must sum to 100%% (currently %g%%)", metadata.SplitTotal(release.Splits)),
			Field:   "splits", Severity: SeverityError,
		})
	}

	if release.ContainsSamples {
		uncleared := 0
		for _, sample := range release.Samples {
			if !sample.Cleared {
				uncleared++
			}
		}
		if uncleared > 0 {
			issues = append(issues, Issue{
				Code:    "UNCLEARED_SAMPLES",
				Message: fmt.Sprintf("%d sample(s) not cleared", uncleared),
				Field:   "samples", Severity: SeverityError,
			})
		}
	}

	if issue := checkLeadTime(release.ReleaseDate, reqs.Timing); issue != nil {
		issues = append(issues, *issue)
	}
	return issues
}

// checkLeadTime warns when the release date leaves less runway than the
// partner's minimum lead time. A malformed or empty date is left to other
// checks.
func checkLeadTime(releaseDate string, timing TimingRequirements) *Issue {
	if timing.MinLeadTimeDays <= 0 || releaseDate == "" {
		return nil
	}
	date, err := time.Parse("2006-01-02", releaseDate)
	if err != nil {
		return nil
	}
	earliest := time.Now().UTC().AddDate(0, 0, timing.MinLeadTimeDays)
	if date.Before(earliest) {
		return &Issue{
			Code:    "INSUFFICIENT_LEAD_TIME",
			Message: fmt.Sprintf("Release date is inside the %d-day submission lead time", timing.MinLeadTimeDays),
			Field:   "releaseDate", Severity: SeverityWarning,
		}
	}
	return nil
}

func tracksCarryISRC(release *metadata.Release) bool {
	if len(release.Tracks) == 0 {
		return false
	}
	for _, track := range release.Tracks {
		if track.ISRC == "" {
			return false
		}
	}
	return true
}

// ValidateAssets checks supplied media against a partner's asset
// requirements.
func ValidateAssets(assets *metadata.Assets, reqs Requirements) []Issue {
	var issues []Issue

	cover := (*metadata.CoverArt)(nil)
	if assets != nil {
		cover = assets.CoverArt
	}
	if cover == nil {
		issues = append(issues, Issue{
			Code: "MISSING_COVER", Message: "Cover art is required",
			Field: "coverArt", Severity: SeverityError,
		})
	} else {
		ca := reqs.CoverArt
		if cover.Width < ca.MinWidth {
			issues = append(issues, Issue{
				Code:    "COVER_WIDTH_TOO_SMALL",
				Message: fmt.Sprintf("Cover art width must be at least %dpx (got %dpx)", ca.MinWidth, cover.Width),
				Field:   "coverArt.width", Severity: SeverityError,
			})
		}
		if cover.Height < ca.MinHeight {
			issues = append(issues, Issue{
				Code:    "COVER_HEIGHT_TOO_SMALL",
				Message: fmt.Sprintf("Cover art height must be at least %dpx (got %dpx)", ca.MinHeight, cover.Height),
				Field:   "coverArt.height", Severity: SeverityError,
			})
		}
		if cover.Width != cover.Height {
			issues = append(issues, Issue{
				Code: "COVER_NOT_SQUARE", Message: "Cover art must be square (1:1 aspect ratio)",
				Field: "coverArt", Severity: SeverityError,
			})
		}
		if ca.MaxSizeBytes > 0 && cover.SizeBytes > ca.MaxSizeBytes {
			issues = append(issues, Issue{
				Code:    "COVER_FILE_TOO_LARGE",
				Message: fmt.Sprintf("Cover art file exceeds %dMB", ca.MaxSizeBytes/1024/1024),
				Field:   "coverArt.size", Severity: SeverityError,
			})
		}
		if len(ca.Formats) > 0 && !formatAllowed(cover.Extension(), ca.Formats) {
			issues = append(issues, Issue{
				Code:    "INVALID_COVER_FORMAT",
				Message: fmt.Sprintf("Cover format %s not supported. Use: %s", cover.Extension(), strings.Join(ca.Formats, ", ")),
				Field:   "coverArt.format", Severity: SeverityError,
			})
		}
	}

	if assets == nil || len(assets.AudioFiles) == 0 {
		issues = append(issues, Issue{
			Code: "MISSING_AUDIO", Message: "At least one audio file is required",
			Field: "audioFiles", Severity: SeverityError,
		})
		return issues
	}

	audio := reqs.Audio
	for i, file := range assets.AudioFiles {
		field := fmt.Sprintf("audioFiles[%d]", i)
		if len(audio.Formats) > 0 && !formatAllowed(file.Extension(), audio.Formats) {
			issues = append(issues, Issue{
				Code:    "INVALID_AUDIO_FORMAT",
				Message: fmt.Sprintf("Audio format %s not supported. Use: %s", file.Extension(), strings.Join(audio.Formats, ", ")),
				Field:   field + ".format", Severity: SeverityError,
			})
		}
		if audio.MinSampleRate > 0 && file.SampleRate > 0 && file.SampleRate < audio.MinSampleRate {
			issues = append(issues, Issue{
				Code:    "SAMPLE_RATE_TOO_LOW",
				Message: fmt.Sprintf("Sample rate must be at least %dHz", audio.MinSampleRate),
				Field:   field + ".sampleRate", Severity: SeverityError,
			})
		}
		if audio.MinBitDepth > 0 && file.BitDepth > 0 && file.BitDepth < audio.MinBitDepth {
			issues = append(issues, Issue{
				Code:    "BIT_DEPTH_TOO_LOW",
				Message: fmt.Sprintf("Bit depth must be at least %d-bit", audio.MinBitDepth),
				Field:   field + ".bitDepth", Severity: SeverityError,
			})
		}
	}
	return issues
}

func formatAllowed(format string, allowed []string) bool {
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, format) {
			return true
		}
	}
	return false
}
