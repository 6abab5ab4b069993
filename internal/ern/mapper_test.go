package ern

import (
	"strings"
	"testing"
	"time"

	"tonearm/internal/metadata"
)

func sampleRelease() *metadata.Release {
	return &metadata.Release{
		Title:         "Midnight Drive",
		TrackTitle:    "Midnight Drive",
		Artist:        "The Wanderers",
		ISRC:          "USRC17607839",
		ISWC:          "T-034524680-1",
		UPC:           "190295851927",
		CatalogNumber: "CAT-001",
		ReleaseDate:   "2026-10-02",
		Genre:         "Electronic",
		SubGenre:      "Synthwave",
		Label:         "Night Shift Records",
		Duration:      "3:45",
		Splits: []metadata.Split{
			{LegalName: "Jane Doe", Role: "songwriter", Percentage: 50},
			{LegalName: "John Smith", Role: "producer", Percentage: 50},
		},
	}
}

func sampleOptions() MapOptions {
	return MapOptions{
		MessageID: "MSG-1",
		Sender:    Party{PartyID: "PADPIDA2024TONEARM", PartyName: "Tonearm"},
		Recipient: Party{PartyID: "PADPIDA2013021901W", PartyName: "DistroKid"},
		CreatedAt: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
}

func TestMapHeader(t *testing.T) {
	message := Map(sampleRelease(), nil, sampleOptions())

	header := message.MessageHeader
	if header.MessageID != "MSG-1" {
		t.Errorf("MessageID = %q", header.MessageID)
	}
	if header.MessageSender.PartyID != "PADPIDA2024TONEARM" {
		t.Errorf("sender = %+v", header.MessageSender)
	}
	if header.MessageControlType != "LiveMessage" {
		t.Errorf("MessageControlType = %q", header.MessageControlType)
	}
	if message.SchemaVersionID != "4.3" {
		t.Errorf("SchemaVersionID = %q", message.SchemaVersionID)
	}

	opts := sampleOptions()
	opts.TestMessage = true
	if got := Map(sampleRelease(), nil, opts).MessageHeader.MessageControlType; got != "TestMessage" {
		t.Errorf("MessageControlType = %q, want TestMessage", got)
	}
}

func TestMapRelease(t *testing.T) {
	message := Map(sampleRelease(), nil, sampleOptions())
	if len(message.ReleaseList) != 1 {
		t.Fatalf("releases = %d", len(message.ReleaseList))
	}
	release := message.ReleaseList[0]
	if release.ReleaseReference != "R1" {
		t.Errorf("ReleaseReference = %q", release.ReleaseReference)
	}
	if release.ReleaseID.ICPN != "190295851927" || release.ReleaseID.CatalogNumber != "CAT-001" {
		t.Errorf("ReleaseID = %+v", release.ReleaseID)
	}
	if release.ReleaseType != "Single" {
		t.Errorf("ReleaseType = %q, want Single fallback", release.ReleaseType)
	}
	if release.ParentalWarningType != "NotExplicit" {
		t.Errorf("ParentalWarningType = %q", release.ParentalWarningType)
	}
	if release.ReleaseDate.Date != "2026-10-02" || !release.ReleaseDate.IsOriginalReleaseDate {
		t.Errorf("ReleaseDate = %+v", release.ReleaseDate)
	}

	albumMeta := sampleRelease()
	albumMeta.ReleaseType = "AudioAlbum"
	if got := Map(albumMeta, nil, sampleOptions()).ReleaseList[0].ReleaseType; got != "Album" {
		t.Errorf("ReleaseType = %q, want Album", got)
	}
}

func TestMapContributors(t *testing.T) {
	message := Map(sampleRelease(), nil, sampleOptions())
	contributors := message.ReleaseList[0].Contributors

	// Display artist is not in the splits: synthesized MainArtist first,
	// then the two splits numbered from 2.
	if len(contributors) != 3 {
		t.Fatalf("contributors = %+v", contributors)
	}
	if contributors[0].Role != "MainArtist" || contributors[0].Name != "The Wanderers" || contributors[0].SequenceNumber != 1 {
		t.Errorf("contributors[0] = %+v", contributors[0])
	}
	if contributors[1].Role != "Composer" || contributors[1].SequenceNumber != 2 {
		t.Errorf("contributors[1] = %+v", contributors[1])
	}
	if contributors[2].Role != "Producer" || contributors[2].SequenceNumber != 3 {
		t.Errorf("contributors[2] = %+v", contributors[2])
	}
}

func TestMapContributorsArtistInSplits(t *testing.T) {
	release := sampleRelease()
	release.Splits = []metadata.Split{
		{LegalName: "The Wanderers", Role: "performer", Percentage: 60},
		{LegalName: "Jane Doe", Role: "mixer", Percentage: 40},
	}
	contributors := Map(release, nil, sampleOptions()).ReleaseList[0].Contributors

	if len(contributors) != 2 {
		t.Fatalf("contributors = %+v", contributors)
	}
	// The split entry itself becomes the MainArtist; no synthesized one.
	if contributors[0].Name != "The Wanderers" || contributors[0].Role != "MainArtist" {
		t.Errorf("contributors[0] = %+v", contributors[0])
	}
	if contributors[1].Role != "AssociatedPerformer" {
		t.Errorf("unknown role should map to AssociatedPerformer: %+v", contributors[1])
	}
	mains := 0
	for _, contributor := range contributors {
		if contributor.Role == "MainArtist" {
			mains++
		}
	}
	if mains != 1 {
		t.Errorf("MainArtist count = %d, want exactly 1", mains)
	}
}

func TestMapResources(t *testing.T) {
	assets := &metadata.Assets{
		AudioFiles: []metadata.AudioFile{{URL: "file:///audio.flac", Format: "flac", TrackIndex: 0}},
		CoverArt:   &metadata.CoverArt{URL: "file:///cover.png", MIMEType: "image/png"},
	}
	message := Map(sampleRelease(), assets, sampleOptions())

	if len(message.ResourceList) != 2 {
		t.Fatalf("resources = %d", len(message.ResourceList))
	}
	audio := message.ResourceList[0]
	if audio.ResourceReference != "A1" || audio.ResourceType != ResourceSoundRecording {
		t.Errorf("audio = %+v", audio)
	}
	if audio.ResourceID.ISRC != "USRC17607839" {
		t.Errorf("ISRC = %q", audio.ResourceID.ISRC)
	}
	if audio.TechnicalDetails.File.FileName != "A1.flac" {
		t.Errorf("FileName = %q", audio.TechnicalDetails.File.FileName)
	}
	if audio.Duration != "PT3M45S" {
		t.Errorf("Duration = %q", audio.Duration)
	}
	if audio.SoundRecording == nil || audio.SoundRecording.ISWC != "T-034524680-1" {
		t.Errorf("SoundRecording = %+v", audio.SoundRecording)
	}

	image := message.ResourceList[1]
	if image.ResourceReference != "IMG2" || image.ResourceType != ResourceImage {
		t.Errorf("image = %+v", image)
	}
	if image.TechnicalDetails.File.FileName != "IMG2.png" {
		t.Errorf("FileName = %q", image.TechnicalDetails.File.FileName)
	}
	if image.ResourceID.ProprietaryID == nil || image.ResourceID.ProprietaryID.ID != "IMG-USRC17607839" {
		t.Errorf("ProprietaryID = %+v", image.ResourceID.ProprietaryID)
	}

	refs := message.ReleaseList[0].ResourceReferences
	if len(refs) != 2 || refs[0] != "A1" || refs[1] != "IMG2" {
		t.Errorf("ResourceReferences = %v", refs)
	}
}

func TestMapResourcesMultiTrack(t *testing.T) {
	release := sampleRelease()
	release.Tracks = []metadata.Track{
		{Title: "One", ISRC: "USRC10000001"},
		{Title: "Two", ISRC: "USRC10000002"},
		{Title: "Three", ISRC: "USRC10000003"},
	}
	message := Map(release, nil, sampleOptions())

	if len(message.ResourceList) != 4 {
		t.Fatalf("resources = %d", len(message.ResourceList))
	}
	refs := message.ReleaseList[0].ResourceReferences
	want := []string{"A1", "A2", "A3", "IMG4"}
	for i, ref := range want {
		if refs[i] != ref {
			t.Errorf("refs[%d] = %q, want %q", i, refs[i], ref)
		}
	}
	// Missing assets fall back to wav and jpg.
	if got := message.ResourceList[0].TechnicalDetails.File.FileName; got != "A1.wav" {
		t.Errorf("FileName = %q", got)
	}
	if got := message.ResourceList[3].TechnicalDetails.File.FileName; got != "IMG4.jpg" {
		t.Errorf("FileName = %q", got)
	}
}

func TestMapResourcesMatchesFilesByUploadOrder(t *testing.T) {
	release := sampleRelease()
	release.Tracks = []metadata.Track{
		{Title: "Opener", ISRC: "USRC10000001"},
		{Title: "Closer", ISRC: "USRC10000002"},
	}
	// Submissions that omit trackIndex decode every file with index zero;
	// upload order still maps each track to its own file.
	assets := &metadata.Assets{AudioFiles: []metadata.AudioFile{
		{URL: "file:///01-opener.flac", Format: "flac"},
		{URL: "file:///02-closer.flac", Format: "flac"},
	}}

	message := Map(release, assets, sampleOptions())
	if got := message.ResourceList[0].TechnicalDetails.File.FileName; got != "A1.flac" {
		t.Errorf("FileName = %q, want A1.flac", got)
	}
	if got := message.ResourceList[1].TechnicalDetails.File.FileName; got != "A2.flac" {
		t.Errorf("FileName = %q, want A2.flac", got)
	}
}

func TestMapSynthesizedImageID(t *testing.T) {
	release := sampleRelease()
	release.ISRC = ""
	image := Map(release, nil, sampleOptions()).ResourceList[1]
	id := image.ResourceID.ProprietaryID.ID
	if !strings.HasPrefix(id, "IMG-") || len(id) <= len("IMG-") {
		t.Errorf("synthesized id = %q", id)
	}
}

func TestMapDeals(t *testing.T) {
	tests := []struct {
		name     string
		channels []string
		want     int
	}{
		{"streaming", []string{"streaming"}, 4},
		{"download", []string{"download"}, 1},
		{"both", []string{"streaming", "download"}, 5},
		{"physical only falls back", []string{"physical"}, 3},
		{"empty falls back", nil, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			release := sampleRelease()
			release.DistributionChannels = tt.channels
			deals := Map(release, nil, sampleOptions()).DealList
			if len(deals) != tt.want {
				t.Fatalf("deals = %d, want %d", len(deals), tt.want)
			}
			for i, deal := range deals {
				wantRef := "D" + string(rune('1'+i))
				if deal.DealReference != wantRef {
					t.Errorf("deal[%d].DealReference = %q, want %q", i, deal.DealReference, wantRef)
				}
				if deal.DealTerms.ValidityPeriod.StartDate != "2026-10-02" {
					t.Errorf("deal[%d] validity start = %q", i, deal.DealTerms.ValidityPeriod.StartDate)
				}
				if len(deal.DealTerms.TerritoryCode) != 1 || deal.DealTerms.TerritoryCode[0] != "Worldwide" {
					t.Errorf("deal[%d] territories = %v", i, deal.DealTerms.TerritoryCode)
				}
				if deal.DealTerms.TakeDown {
					t.Errorf("deal[%d] takedown set", i)
				}
			}
		})
	}
}

func TestMapDealStreamingShape(t *testing.T) {
	release := sampleRelease()
	release.DistributionChannels = []string{"streaming"}
	deals := Map(release, nil, sampleOptions()).DealList

	type key struct{ model, use string }
	seen := map[key]bool{}
	for _, deal := range deals {
		for _, usage := range deal.DealTerms.Usages {
			seen[key{deal.DealTerms.CommercialModelType, usage.UseType}] = true
			if usage.DistributionChannelType != "Stream" {
				t.Errorf("channel type = %q", usage.DistributionChannelType)
			}
		}
	}
	for _, want := range []key{
		{"SubscriptionModel", "OnDemandStream"},
		{"AdvertisementSupportedModel", "OnDemandStream"},
		{"SubscriptionModel", "NonInteractiveStream"},
		{"AdvertisementSupportedModel", "NonInteractiveStream"},
	} {
		if !seen[want] {
			t.Errorf("missing deal %+v", want)
		}
	}
}
