package distributor

import (
	"errors"
	"testing"

	"tonearm/internal/services"
)

func TestRegistryGet(t *testing.T) {
	registry := DefaultRegistry(Deps{})

	adapter, err := registry.Get(CDBabyID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if adapter.Name() != "CD Baby" {
		t.Errorf("Name = %q", adapter.Name())
	}

	if _, err := registry.Get("spotify"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRegistryListOrdered(t *testing.T) {
	registry := DefaultRegistry(Deps{})
	adapters := registry.List()
	want := []string{CDBabyID, DistroKidID, SymphonicID, TuneCoreID}
	if len(adapters) != len(want) {
		t.Fatalf("len = %d", len(adapters))
	}
	for i, id := range want {
		if adapters[i].ID() != id {
			t.Errorf("adapters[%d] = %q, want %q", i, adapters[i].ID(), id)
		}
	}
}

func TestRegistryPayoutByPartyID(t *testing.T) {
	registry := DefaultRegistry(Deps{})

	tests := []struct {
		partyID string
		percent float64
		ok      bool
	}{
		{DistroKidPartyID, 100, true},
		{TuneCorePartyID, 100, true},
		{CDBabyPartyID, 91, true},
		{SymphonicPartyID, 85, true},
		{"PADPIDA0000UNKNOWN", 0, false},
	}
	for _, tt := range tests {
		percent, ok := registry.PayoutByPartyID(tt.partyID)
		if percent != tt.percent || ok != tt.ok {
			t.Errorf("PayoutByPartyID(%q) = %v, %v", tt.partyID, percent, ok)
		}
	}
}

func TestProfilePayouts(t *testing.T) {
	want := map[string]float64{
		DistroKidID: 100,
		TuneCoreID:  100,
		CDBabyID:    91,
		SymphonicID: 85,
	}
	for _, profile := range Profiles() {
		if got := profile.Requirements.Pricing.PayoutPercent; got != want[profile.ID] {
			t.Errorf("%s payout = %v, want %v", profile.ID, got, want[profile.ID])
		}
	}
}
