package distributor

import "tonearm/internal/packaging"

// Partner identifiers.
const (
	DistroKidID = "distrokid"
	TuneCoreID  = "tunecore"
	CDBabyID    = "cdbaby"
	SymphonicID = "symphonic"
)

// DDEX party ids of the supported partners.
const (
	DistroKidPartyID = "PADPIDA2013021901W"
	TuneCorePartyID  = "PADPIDA2009090203U"
	CDBabyPartyID    = "PADPIDA2004080901R"
	SymphonicPartyID = "PADPIDA2015061202S"
)

// DistroKidProfile is the DistroKid bulk-upload integration profile.
func DistroKidProfile() Profile {
	return Profile{
		ID:               DistroKidID,
		Name:             "DistroKid",
		PartyID:          DistroKidPartyID,
		ExternalIDPrefix: "DK",
		CredentialRule:   CredentialAPIKey,
		Layout:           packaging.Layout{CoverFileName: "cover.jpg"},
		Requirements: Requirements{
			DistributorID: DistroKidID,
			CoverArt: CoverArtRequirements{
				MinWidth: 3000, MinHeight: 3000,
				MaxWidth: 6000, MaxHeight: 6000,
				Formats:      []string{"jpg", "png"},
				MaxSizeBytes: 25 * 1024 * 1024,
			},
			Audio: AudioRequirements{
				Formats:       []string{"wav", "flac", "mp3"},
				MinSampleRate: 44100,
				MinBitDepth:   16,
			},
			Metadata: MetadataRequirements{
				MaxTitleLength:   255,
				MaxArtistLength:  255,
				GenreRequired:    true,
				LanguageRequired: true,
			},
			Timing:  TimingRequirements{MinLeadTimeDays: 7, ReviewTimeDays: 2},
			Pricing: Pricing{Model: "subscription", AnnualFee: 19.99, PayoutPercent: 100},
		},
	}
}

// TuneCoreProfile is the TuneCore integration profile.
func TuneCoreProfile() Profile {
	return Profile{
		ID:               TuneCoreID,
		Name:             "TuneCore",
		PartyID:          TuneCorePartyID,
		ExternalIDPrefix: "TC",
		CredentialRule:   CredentialAPIKey,
		Layout:           packaging.Layout{CoverFileName: "Front.jpg"},
		Requirements: Requirements{
			DistributorID: TuneCoreID,
			CoverArt: CoverArtRequirements{
				MinWidth: 1600, MinHeight: 1600,
				MaxWidth: 6000, MaxHeight: 6000,
				Formats:      []string{"jpg", "png"},
				MaxSizeBytes: 20 * 1024 * 1024,
			},
			Audio: AudioRequirements{
				Formats:       []string{"wav", "flac"},
				MinSampleRate: 44100,
				MinBitDepth:   16,
			},
			Metadata: MetadataRequirements{
				MaxTitleLength:  200,
				MaxArtistLength: 200,
				GenreRequired:   true,
			},
			Timing:  TimingRequirements{MinLeadTimeDays: 7, ReviewTimeDays: 3},
			Pricing: Pricing{Model: "subscription", AnnualFee: 14.99, PayoutPercent: 100},
		},
	}
}

// CDBabyProfile is the CD Baby integration profile.
func CDBabyProfile() Profile {
	return Profile{
		ID:               CDBabyID,
		Name:             "CD Baby",
		PartyID:          CDBabyPartyID,
		ExternalIDPrefix: "CDB",
		CredentialRule:   CredentialUsernamePassword,
		Layout:           packaging.Layout{CoverFileName: "front.jpg"},
		Requirements: Requirements{
			DistributorID: CDBabyID,
			CoverArt: CoverArtRequirements{
				MinWidth: 1400, MinHeight: 1400,
				MaxWidth: 6000, MaxHeight: 6000,
				Formats:      []string{"jpg", "png"},
				MaxSizeBytes: 20 * 1024 * 1024,
			},
			Audio: AudioRequirements{
				Formats:       []string{"wav", "flac", "mp3"},
				MinSampleRate: 44100,
				MinBitDepth:   16,
			},
			Metadata: MetadataRequirements{
				MaxTitleLength:  190,
				MaxArtistLength: 190,
				GenreRequired:   true,
			},
			Timing:  TimingRequirements{MinLeadTimeDays: 5, ReviewTimeDays: 5},
			Pricing: Pricing{Model: "per_release", PerReleaseFee: 9.95, PayoutPercent: 91},
		},
	}
}

// SymphonicProfile is the Symphonic integration profile. Symphonic insists
// on label-grade identifiers before accepting a submission.
func SymphonicProfile() Profile {
	return Profile{
		ID:               SymphonicID,
		Name:             "Symphonic",
		PartyID:          SymphonicPartyID,
		ExternalIDPrefix: "SYM",
		CredentialRule:   CredentialAPIKey,
		Layout:           packaging.Layout{CoverMatchesDocumentRef: true},
		Requirements: Requirements{
			DistributorID: SymphonicID,
			CoverArt: CoverArtRequirements{
				MinWidth: 3000, MinHeight: 3000,
				MaxWidth: 6000, MaxHeight: 6000,
				Formats:      []string{"jpg", "png"},
				MaxSizeBytes: 25 * 1024 * 1024,
			},
			Audio: AudioRequirements{
				Formats:       []string{"wav", "flac"},
				MinSampleRate: 44100,
				MinBitDepth:   16,
			},
			Metadata: MetadataRequirements{
				MaxTitleLength:  255,
				MaxArtistLength: 255,
				ISRCRequired:    true,
				UPCRequired:     true,
				GenreRequired:   true,
				LabelRequired:   true,
			},
			Timing:  TimingRequirements{MinLeadTimeDays: 14, ReviewTimeDays: 7},
			Pricing: Pricing{Model: "revenue_share", PayoutPercent: 85},
		},
	}
}

// Profiles returns every supported partner profile.
func Profiles() []Profile {
	return []Profile{
		DistroKidProfile(),
		TuneCoreProfile(),
		CDBabyProfile(),
		SymphonicProfile(),
	}
}

// NewDistroKid returns the DistroKid adapter.
func NewDistroKid(deps Deps) *Partner { return NewPartner(DistroKidProfile(), deps) }

// NewTuneCore returns the TuneCore adapter.
func NewTuneCore(deps Deps) *Partner { return NewPartner(TuneCoreProfile(), deps) }

// NewCDBaby returns the CD Baby adapter.
func NewCDBaby(deps Deps) *Partner { return NewPartner(CDBabyProfile(), deps) }

// NewSymphonic returns the Symphonic adapter.
func NewSymphonic(deps Deps) *Partner { return NewPartner(SymphonicProfile(), deps) }
