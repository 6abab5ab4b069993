package services

import (
	"errors"
	"testing"

	"tonearm/internal/ledger"
)

func TestWrapTagsMarker(t *testing.T) {
	err := Wrap(ErrValidation, "delivery", "validate package", "cover art below minimum", nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected wrapped error to match ErrValidation, got %v", err)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrTransport, "delivery", "upload", "upload aborted", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped error to match cause, got %v", err)
	}
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected wrapped error to match ErrTransport, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := Wrap(nil, "packaging", "copy asset", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected nil marker to default to ErrTransient, got %v", err)
	}
}

func TestFailureStatus(t *testing.T) {
	if got := FailureStatus(Wrap(ErrValidation, "", "", "bad splits", nil)); got != ledger.StatusRejected {
		t.Errorf("validation failure status = %q, want %q", got, ledger.StatusRejected)
	}
	if got := FailureStatus(Wrap(ErrTransport, "", "", "upload failed", nil)); got != ledger.StatusFailed {
		t.Errorf("transport failure status = %q, want %q", got, ledger.StatusFailed)
	}
}
