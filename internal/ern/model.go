package ern

import "encoding/xml"

// Message is a complete release notification document. The root element
// carries no namespace prefix: encoding/xml treats a prefixed name as
// namespace+local on decode, which would reject our own serialized output.
type Message struct {
	XMLName         xml.Name `xml:"NewReleaseMessage"`
	SchemaVersionID string   `xml:"MessageSchemaVersionId,attr"`

	MessageHeader Header
	ReleaseList   []Release  `xml:"ReleaseList>Release"`
	ResourceList  []Resource `xml:"ResourceList>Resource"`
	DealList      []Deal     `xml:"DealList>Deal"`
}

// Party identifies a message participant by DDEX party id.
type Party struct {
	PartyID   string `xml:"PartyId"`
	PartyName string `xml:"PartyName,omitempty"`
}

// Header carries message identity and routing.
type Header struct {
	MessageID              string `xml:"MessageId"`
	MessageSender          Party
	MessageRecipient       Party
	MessageCreatedDateTime string
	// LiveMessage or TestMessage.
	MessageControlType string `xml:",omitempty"`
}

// ReleaseID holds the commercial identifiers of a release.
type ReleaseID struct {
	ICPN          string `xml:"ICPN,omitempty"`
	CatalogNumber string `xml:",omitempty"`
}

// Title is a typed display title.
type Title struct {
	TitleText string
	TitleType string
}

// Genre pairs a genre with an optional sub-genre.
type Genre struct {
	GenreText string `xml:",omitempty"`
	SubGenre  string `xml:",omitempty"`
}

// Contributor credits one party on a release or resource.
type Contributor struct {
	Name           string
	Role           string
	SequenceNumber int
}

// ReleaseDate is a date flagged as original or re-release.
type ReleaseDate struct {
	Date                  string `xml:",chardata"`
	IsOriginalReleaseDate bool   `xml:"IsOriginalReleaseDate,attr"`
}

// PLine is a phonographic copyright line.
type PLine struct {
	Year int    `xml:"Year"`
	Text string `xml:"PLineText,omitempty"`
}

// CLine is a composition copyright line.
type CLine struct {
	Year int    `xml:"Year"`
	Text string `xml:"CLineText,omitempty"`
}

// AIGeneration is the AI-involvement disclosure attached to releases and
// sound recordings.
type AIGeneration struct {
	IsFullyAIGenerated     bool
	IsPartiallyAIGenerated bool
	ToolsUsed              []string `xml:"AIToolsUsed>AITool,omitempty"`
	HumanContribution      string   `xml:"HumanContributionDescription,omitempty"`
}

// Release is one entry in the release list.
type Release struct {
	ReleaseReference   string
	ReleaseID          ReleaseID `xml:"ReleaseId"`
	ReleaseType        string
	ReleaseTitle       Title
	DisplayArtistName  string
	Contributors       []Contributor `xml:"ContributorList>Contributor,omitempty"`
	LabelName          string        `xml:",omitempty"`
	Genre              Genre
	ParentalWarningType string
	ReleaseDate         ReleaseDate
	OriginalReleaseDate string `xml:",omitempty"`
	MarketingComment    string `xml:",omitempty"`
	PLine               *PLine `xml:",omitempty"`
	CLine               *CLine `xml:",omitempty"`
	AIGeneration        *AIGeneration `xml:"AIGenerationInfo,omitempty"`
	ResourceReferences  []string      `xml:"ReleaseResourceReferenceList>ReleaseResourceReference"`
}

// ProprietaryID identifies a resource by a party-specific scheme.
type ProprietaryID struct {
	Namespace string `xml:"Namespace,attr"`
	ID        string `xml:",chardata"`
}

// ResourceID identifies a resource by ISRC or a proprietary id.
type ResourceID struct {
	ISRC          string         `xml:"ISRC,omitempty"`
	ProprietaryID *ProprietaryID `xml:"ProprietaryId,omitempty"`
}

// SoundRecordingDetails carries recording-level attributes for audio
// resources.
type SoundRecordingDetails struct {
	SoundRecordingType    string
	IsInstrumental        bool
	LanguageOfPerformance string `xml:",omitempty"`
	ISWC                  string `xml:",omitempty"`
}

// File names a delivered media file within the package.
type File struct {
	FileName string
}

// TechnicalDetails links a resource to its package file.
type TechnicalDetails struct {
	File File
}

// Resource types.
const (
	ResourceSoundRecording = "SoundRecording"
	ResourceImage          = "Image"
)

// Resource is one entry in the resource list: a sound recording or a cover
// image.
type Resource struct {
	ResourceReference   string
	ResourceType        string
	ResourceID          ResourceID `xml:"ResourceId"`
	ResourceTitle       Title
	DisplayArtistName   string        `xml:",omitempty"`
	Contributors        []Contributor `xml:"ContributorList>Contributor,omitempty"`
	Duration            string        `xml:",omitempty"`
	ParentalWarningType string        `xml:",omitempty"`
	SoundRecording      *SoundRecordingDetails `xml:"SoundRecordingDetails,omitempty"`
	AIGeneration        *AIGeneration          `xml:"AIGenerationInfo,omitempty"`
	TechnicalDetails    TechnicalDetails
}

// Usage is one permitted use within a deal.
type Usage struct {
	UseType                 string
	DistributionChannelType string `xml:",omitempty"`
}

// ValidityPeriod bounds when a deal applies.
type ValidityPeriod struct {
	StartDate string
	EndDate   string `xml:",omitempty"`
}

// DealTerms are the commercial terms of one deal.
type DealTerms struct {
	CommercialModelType     string
	Usages                  []Usage  `xml:"Usage"`
	TerritoryCode           []string `xml:"TerritoryCode"`
	ValidityPeriod          ValidityPeriod
	ReleaseDisplayStartDate string `xml:",omitempty"`
	TakeDown                bool
}

// Deal grants usage rights for the referenced release.
type Deal struct {
	DealReference        string
	DealReleaseReference string `xml:",omitempty"`
	DealTerms            DealTerms
}
