package ern

import (
	"encoding/xml"
	"log/slog"
	"time"

	"tonearm/internal/logging"
	"tonearm/internal/metadata"
	"tonearm/internal/services"
)

// Service builds, serializes, and parses release notification documents.
type Service struct {
	sender Party
	test   bool
	logger *slog.Logger
}

// NewService returns a document service that stamps outgoing documents with
// the given sender identity. When test is true documents carry the
// TestMessage control flag.
func NewService(sender Party, test bool, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{sender: sender, test: test, logger: logger}
}

// BuildMessage maps metadata and assets into a document addressed to the
// given recipient.
func (s *Service) BuildMessage(release *metadata.Release, assets *metadata.Assets, recipient Party) *Message {
	message := Map(release, assets, MapOptions{
		Sender:      s.sender,
		Recipient:   recipient,
		CreatedAt:   time.Now().UTC(),
		TestMessage: s.test,
	})
	s.logger.Debug("built release document",
		logging.String("message_id", message.MessageHeader.MessageID),
		logging.Int("resources", len(message.ResourceList)),
		logging.Int("deals", len(message.DealList)))
	return message
}

// Serialize renders the document as indented XML with the standard
// declaration.
func (s *Service) Serialize(message *Message) ([]byte, error) {
	body, err := xml.MarshalIndent(message, "", "  ")
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "ern", "serialize", "failed to marshal release document", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// Parse decodes a serialized document.
func (s *Service) Parse(data []byte) (*Message, error) {
	var message Message
	if err := xml.Unmarshal(data, &message); err != nil {
		return nil, services.Wrap(services.ErrValidation, "ern", "parse", "failed to parse release document", err)
	}
	return &message, nil
}
