package ern

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tonearm/internal/metadata"
)

// MapOptions configures the document envelope produced by Map.
type MapOptions struct {
	MessageID   string
	Sender      Party
	Recipient   Party
	CreatedAt   time.Time
	TestMessage bool
}

// Map transforms a golden metadata record and its assets into a complete
// release notification document. The mapping is total: missing optional
// metadata produces omitted elements, never an error.
func Map(release *metadata.Release, assets *metadata.Assets, opts MapOptions) *Message {
	const releaseReference = "R1"

	controlType := "LiveMessage"
	if opts.TestMessage {
		controlType = "TestMessage"
	}
	messageID := opts.MessageID
	if messageID == "" {
		messageID = uuid.NewString()
	}
	createdAt := opts.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	main := buildRelease(release, releaseReference)
	resources, references := buildResources(release, assets)
	main.ResourceReferences = references

	return &Message{
		SchemaVersionID: "4.3",
		MessageHeader: Header{
			MessageID:              messageID,
			MessageSender:          opts.Sender,
			MessageRecipient:       opts.Recipient,
			MessageCreatedDateTime: createdAt.Format(time.RFC3339),
			MessageControlType:     controlType,
		},
		ReleaseList:  []Release{main},
		ResourceList: resources,
		DealList:     buildDeals(release, releaseReference),
	}
}

func buildRelease(release *metadata.Release, reference string) Release {
	out := Release{
		ReleaseReference: reference,
		ReleaseID: ReleaseID{
			ICPN:          release.UPC,
			CatalogNumber: release.CatalogNumber,
		},
		ReleaseType: mapReleaseType(release.ReleaseType),
		ReleaseTitle: Title{
			TitleText: release.DisplayTitle(),
			TitleType: "DisplayTitle",
		},
		DisplayArtistName:   release.Artist,
		Contributors:        mapContributors(release.Splits, release.Artist),
		LabelName:           release.Label,
		Genre:               Genre{GenreText: release.Genre, SubGenre: release.SubGenre},
		ParentalWarningType: parentalWarning(release.Explicit),
		ReleaseDate: ReleaseDate{
			Date:                  release.ReleaseDate,
			IsOriginalReleaseDate: release.OriginalReleaseDate == "" || release.OriginalReleaseDate == release.ReleaseDate,
		},
		OriginalReleaseDate: release.OriginalReleaseDate,
		MarketingComment:    release.MarketingComment,
		AIGeneration:        mapAIGeneration(release.AI),
	}
	if release.PLineYear != 0 {
		out.PLine = &PLine{Year: release.PLineYear, Text: release.PLineText}
	}
	if release.CLineYear != 0 {
		out.CLine = &CLine{Year: release.CLineYear, Text: release.CLineText}
	}
	return out
}

// mapReleaseType narrows internal release type names to document vocabulary,
// defaulting to Single.
func mapReleaseType(releaseType string) string {
	switch releaseType {
	case "":
		return "Single"
	case "AudioAlbum":
		return "Album"
	default:
		return releaseType
	}
}

func buildResources(release *metadata.Release, assets *metadata.Assets) ([]Resource, []string) {
	tracks := release.Tracklist()
	resources := make([]Resource, 0, len(tracks)+1)
	references := make([]string, 0, len(tracks)+1)

	for position, track := range tracks {
		ref := fmt.Sprintf("A%d", position+1)
		references = append(references, ref)

		resource := Resource{
			ResourceReference:   ref,
			ResourceType:        ResourceSoundRecording,
			ResourceID:          ResourceID{ISRC: track.ISRC},
			ResourceTitle:       Title{TitleText: track.Title, TitleType: "DisplayTitle"},
			DisplayArtistName:   track.Artist,
			Contributors:        mapContributors(track.Splits, track.Artist),
			Duration:            isoDuration(track.Duration),
			ParentalWarningType: parentalWarning(track.Explicit),
			SoundRecording: &SoundRecordingDetails{
				SoundRecordingType:    "MusicalWorkSoundRecording",
				IsInstrumental:        track.IsInstrumental,
				LanguageOfPerformance: track.Language,
				ISWC:                  track.ISWC,
			},
			AIGeneration: mapAIGeneration(track.AI),
		}

		ext := "wav"
		if asset := assets.AudioForTrack(position); asset != nil {
			ext = asset.Extension()
		}
		resource.TechnicalDetails = TechnicalDetails{File: File{FileName: ref + "." + ext}}

		resources = append(resources, resource)
	}

	// One front cover image for the release, numbered after the audio refs.
	imageRef := fmt.Sprintf("IMG%d", len(tracks)+1)
	references = append(references, imageRef)

	proprietary := release.ISRC
	if proprietary == "" {
		proprietary = uuid.NewString()
	}
	ext := "jpg"
	if assets != nil && assets.CoverArt != nil {
		ext = assets.CoverArt.Extension()
	}
	resources = append(resources, Resource{
		ResourceReference: imageRef,
		ResourceType:      ResourceImage,
		ResourceID: ResourceID{ProprietaryID: &ProprietaryID{
			Namespace: "PartySpecific",
			ID:        "IMG-" + proprietary,
		}},
		ResourceTitle:     Title{TitleText: "Front Cover Image", TitleType: "DisplayTitle"},
		DisplayArtistName: release.Artist,
		TechnicalDetails:  TechnicalDetails{File: File{FileName: imageRef + "." + ext}},
	})

	return resources, references
}

func buildDeals(release *metadata.Release, releaseReference string) []Deal {
	territories := release.Territories
	if len(territories) == 0 {
		territories = []string{"Worldwide"}
	}

	var deals []Deal
	addDeal := func(commercialModel, useType, channelType string) {
		deals = append(deals, Deal{
			DealReference:        fmt.Sprintf("D%d", len(deals)+1),
			DealReleaseReference: releaseReference,
			DealTerms: DealTerms{
				CommercialModelType:     commercialModel,
				Usages:                  []Usage{{UseType: useType, DistributionChannelType: channelType}},
				TerritoryCode:           territories,
				ValidityPeriod:          ValidityPeriod{StartDate: release.ReleaseDate},
				ReleaseDisplayStartDate: release.ReleaseDate,
				TakeDown:                false,
			},
		})
	}

	channels := make(map[string]bool, len(release.DistributionChannels))
	for _, channel := range release.DistributionChannels {
		channels[strings.ToLower(channel)] = true
	}

	if channels["streaming"] {
		addDeal("SubscriptionModel", "OnDemandStream", "Stream")
		addDeal("AdvertisementSupportedModel", "OnDemandStream", "Stream")
		addDeal("SubscriptionModel", "NonInteractiveStream", "Stream")
		addDeal("AdvertisementSupportedModel", "NonInteractiveStream", "Stream")
	}
	if channels["download"] {
		addDeal("PayAsYouGoModel", "PermanentDownload", "Download")
	}
	// Physical distribution produces no digital deals.

	if len(deals) == 0 {
		addDeal("SubscriptionModel", "OnDemandStream", "Stream")
		addDeal("PayAsYouGoModel", "PermanentDownload", "Download")
		addDeal("AdvertisementSupportedModel", "OnDemandStream", "Stream")
	}
	return deals
}

// mapContributors credits the display artist exactly once as MainArtist and
// maps split roles onto document contributor roles. Split entries keep their
// list order, numbered from 2 so a synthesized main artist can hold 1.
func mapContributors(splits []metadata.Split, displayArtist string) []Contributor {
	var contributors []Contributor

	artistInSplits := false
	for _, split := range splits {
		if split.LegalName == displayArtist {
			artistInSplits = true
			break
		}
	}
	if !artistInSplits && displayArtist != "" {
		contributors = append(contributors, Contributor{
			Name:           displayArtist,
			Role:           "MainArtist",
			SequenceNumber: 1,
		})
	}

	for index, split := range splits {
		role := ""
		switch split.Role {
		case "songwriter":
			role = "Composer"
		case "producer":
			role = "Producer"
		case "performer":
			role = "FeaturedArtist"
		default:
			role = "AssociatedPerformer"
		}
		if split.LegalName == displayArtist {
			role = "MainArtist"
		}
		contributors = append(contributors, Contributor{
			Name:           split.LegalName,
			Role:           role,
			SequenceNumber: index + 2,
		})
	}
	return contributors
}

// mapAIGeneration carries an AI-involvement disclosure into the document.
// Nil disclosures omit the element entirely.
func mapAIGeneration(disclosure *metadata.AIDisclosure) *AIGeneration {
	if disclosure == nil {
		return nil
	}
	return &AIGeneration{
		IsFullyAIGenerated:     disclosure.FullyAIGenerated,
		IsPartiallyAIGenerated: disclosure.PartiallyAIGenerated,
		ToolsUsed:              disclosure.ToolsUsed,
		HumanContribution:      disclosure.HumanContribution,
	}
}

func parentalWarning(explicit bool) string {
	if explicit {
		return "Explicit"
	}
	return "NotExplicit"
}

// isoDuration converts a mm:ss display duration to ISO 8601, passing through
// values that are already ISO formatted.
func isoDuration(duration string) string {
	duration = strings.TrimSpace(duration)
	if duration == "" {
		return ""
	}
	if strings.HasPrefix(duration, "PT") {
		return duration
	}
	parts := strings.SplitN(duration, ":", 2)
	if len(parts) != 2 {
		return duration
	}
	return "PT" + parts[0] + "M" + parts[1] + "S"
}
