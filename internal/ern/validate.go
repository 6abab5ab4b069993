package ern

import "fmt"

// ValidateContent checks the document for content problems a partner would
// bounce: missing message identity, missing releases, releases without an
// identifier or title. It accumulates human-readable findings and never
// fails early.
func ValidateContent(message *Message) []string {
	var problems []string

	if message.MessageHeader.MessageID == "" {
		problems = append(problems, "message id is missing")
	}
	if message.MessageHeader.MessageSender.PartyID == "" {
		problems = append(problems, "message sender party id is missing")
	}
	if len(message.ReleaseList) == 0 {
		problems = append(problems, "document contains no releases")
	}
	for _, release := range message.ReleaseList {
		ref := release.ReleaseReference
		if ref == "" {
			ref = "(unreferenced)"
		}
		if release.ReleaseID.ICPN == "" && release.ReleaseID.CatalogNumber == "" {
			problems = append(problems, fmt.Sprintf("release %s has neither ICPN nor catalog number", ref))
		}
		if release.ReleaseTitle.TitleText == "" {
			problems = append(problems, fmt.Sprintf("release %s has no title", ref))
		}
	}
	return problems
}
