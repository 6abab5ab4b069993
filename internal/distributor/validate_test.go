package distributor

import (
	"strings"
	"testing"
	"time"

	"tonearm/internal/metadata"
)

func hasCode(issues []Issue, code string) bool {
	for _, issue := range issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func farFuture() string {
	return time.Now().UTC().AddDate(0, 2, 0).Format("2006-01-02")
}

func validRelease() *metadata.Release {
	return &metadata.Release{
		Title:       "Midnight Drive",
		TrackTitle:  "Midnight Drive",
		Artist:      "The Wanderers",
		ISRC:        "USRC17607839",
		UPC:         "190295851927",
		Genre:       "Electronic",
		Language:    "en",
		Label:       "Night Shift Records",
		ReleaseDate: farFuture(),
		Splits: []metadata.Split{
			{LegalName: "Jane Doe", Role: "songwriter", Percentage: 100},
		},
	}
}

func validAssets() *metadata.Assets {
	return &metadata.Assets{
		AudioFiles: []metadata.AudioFile{
			{URL: "file:///a.wav", Format: "wav", SampleRate: 44100, BitDepth: 16, TrackIndex: 0},
		},
		CoverArt: &metadata.CoverArt{
			URL: "file:///cover.jpg", MIMEType: "image/jpeg",
			Width: 3000, Height: 3000, SizeBytes: 2 << 20,
		},
	}
}

func TestValidateMetadataClean(t *testing.T) {
	for _, profile := range Profiles() {
		t.Run(profile.ID, func(t *testing.T) {
			issues := ValidateMetadata(validRelease(), profile.Requirements, profile.Name)
			if !Clean(issues) {
				t.Errorf("issues = %+v", issues)
			}
		})
	}
}

func TestValidateMetadataSymphonicIdentifiers(t *testing.T) {
	reqs := SymphonicProfile().Requirements

	release := validRelease()
	release.ISRC = ""
	release.UPC = ""
	release.Label = ""
	issues := ValidateMetadata(release, reqs, "Symphonic")

	for _, code := range []string{"MISSING_ISRC", "MISSING_UPC", "MISSING_LABEL"} {
		if !hasCode(issues, code) {
			t.Errorf("missing %s in %+v", code, issues)
		}
	}
	// DistroKid does not require any of them.
	if issues := ValidateMetadata(release, DistroKidProfile().Requirements, "DistroKid"); hasCode(issues, "MISSING_ISRC") || hasCode(issues, "MISSING_UPC") || hasCode(issues, "MISSING_LABEL") {
		t.Errorf("DistroKid issues = %+v", issues)
	}
}

func TestValidateMetadataSplitsAndSamples(t *testing.T) {
	reqs := DistroKidProfile().Requirements

	release := validRelease()
	release.Splits = []metadata.Split{{LegalName: "A", Percentage: 60}, {LegalName: "B", Percentage: 30}}
	if issues := ValidateMetadata(release, reqs, "DistroKid"); !hasCode(issues, "INVALID_SPLITS") {
		t.Errorf("issues = %+v", issues)
	}

	release = validRelease()
	release.ContainsSamples = true
	release.Samples = []metadata.Sample{
		{Description: "drum break", Cleared: true},
		{Description: "vocal chop", Cleared: false},
	}
	issues := ValidateMetadata(release, reqs, "DistroKid")
	if !hasCode(issues, "UNCLEARED_SAMPLES") {
		t.Errorf("issues = %+v", issues)
	}
	for _, issue := range issues {
		if issue.Code == "UNCLEARED_SAMPLES" && !strings.Contains(issue.Message, "1 sample(s)") {
			t.Errorf("message = %q", issue.Message)
		}
	}
}

func TestValidateMetadataLengthCaps(t *testing.T) {
	release := validRelease()
	release.Title = strings.Repeat("x", 300)
	release.TrackTitle = release.Title
	release.Artist = strings.Repeat("y", 300)

	issues := ValidateMetadata(release, DistroKidProfile().Requirements, "DistroKid")
	if !hasCode(issues, "TITLE_TOO_LONG") || !hasCode(issues, "ARTIST_NAME_TOO_LONG") {
		t.Errorf("issues = %+v", issues)
	}
}

func TestValidateMetadataLeadTimeWarning(t *testing.T) {
	release := validRelease()
	release.ReleaseDate = time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")

	issues := ValidateMetadata(release, DistroKidProfile().Requirements, "DistroKid")
	if !hasCode(issues, "INSUFFICIENT_LEAD_TIME") {
		t.Fatalf("issues = %+v", issues)
	}
	// Lead time is advisory, not blocking.
	if !Clean(issues) {
		t.Errorf("warning should not fail validation: %+v", issues)
	}
}

func TestValidateAssetsCoverArt(t *testing.T) {
	reqs := DistroKidProfile().Requirements

	t.Run("compliant", func(t *testing.T) {
		if issues := ValidateAssets(validAssets(), reqs); !Clean(issues) {
			t.Errorf("issues = %+v", issues)
		}
	})

	t.Run("not square", func(t *testing.T) {
		assets := validAssets()
		assets.CoverArt.Height = 2000
		issues := ValidateAssets(assets, reqs)
		if !hasCode(issues, "COVER_NOT_SQUARE") || !hasCode(issues, "COVER_HEIGHT_TOO_SMALL") {
			t.Errorf("issues = %+v", issues)
		}
	})

	t.Run("too small", func(t *testing.T) {
		assets := validAssets()
		assets.CoverArt.Width = 1000
		assets.CoverArt.Height = 1000
		issues := ValidateAssets(assets, reqs)
		if !hasCode(issues, "COVER_WIDTH_TOO_SMALL") || !hasCode(issues, "COVER_HEIGHT_TOO_SMALL") {
			t.Errorf("issues = %+v", issues)
		}
		// 1000x1000 is square; the aspect check should stay quiet.
		if hasCode(issues, "COVER_NOT_SQUARE") {
			t.Errorf("issues = %+v", issues)
		}
	})

	t.Run("bad format", func(t *testing.T) {
		assets := validAssets()
		assets.CoverArt.MIMEType = ""
		assets.CoverArt.URL = "file:///cover.bmp"
		if issues := ValidateAssets(assets, reqs); !hasCode(issues, "INVALID_COVER_FORMAT") {
			t.Errorf("issues = %+v", issues)
		}
	})

	t.Run("too large", func(t *testing.T) {
		assets := validAssets()
		assets.CoverArt.SizeBytes = 30 << 20
		if issues := ValidateAssets(assets, reqs); !hasCode(issues, "COVER_FILE_TOO_LARGE") {
			t.Errorf("issues = %+v", issues)
		}
	})

	t.Run("tunecore accepts smaller art", func(t *testing.T) {
		assets := validAssets()
		assets.CoverArt.Width = 1600
		assets.CoverArt.Height = 1600
		if issues := ValidateAssets(assets, TuneCoreProfile().Requirements); !Clean(issues) {
			t.Errorf("issues = %+v", issues)
		}
	})
}

func TestValidateAssetsAudio(t *testing.T) {
	reqs := DistroKidProfile().Requirements

	t.Run("missing audio", func(t *testing.T) {
		assets := validAssets()
		assets.AudioFiles = nil
		if issues := ValidateAssets(assets, reqs); !hasCode(issues, "MISSING_AUDIO") {
			t.Errorf("issues = %+v", issues)
		}
	})

	t.Run("bad format", func(t *testing.T) {
		assets := validAssets()
		assets.AudioFiles[0].Format = "ogg"
		if issues := ValidateAssets(assets, reqs); !hasCode(issues, "INVALID_AUDIO_FORMAT") {
			t.Errorf("issues = %+v", issues)
		}
	})

	t.Run("low sample rate and depth", func(t *testing.T) {
		assets := validAssets()
		assets.AudioFiles[0].SampleRate = 22050
		assets.AudioFiles[0].BitDepth = 8
		issues := ValidateAssets(assets, reqs)
		if !hasCode(issues, "SAMPLE_RATE_TOO_LOW") || !hasCode(issues, "BIT_DEPTH_TOO_LOW") {
			t.Errorf("issues = %+v", issues)
		}
	})
}
