package distributor

import (
	"fmt"
	"sort"

	"tonearm/internal/services"
)

// Registry resolves adapters by distributor id and payout terms by DDEX
// party id.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry returns a registry over the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	registry := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, adapter := range adapters {
		registry.adapters[adapter.ID()] = adapter
	}
	return registry
}

// DefaultRegistry wires all supported partners with shared pipeline
// collaborators.
func DefaultRegistry(deps Deps) *Registry {
	return NewRegistry(
		NewDistroKid(deps),
		NewTuneCore(deps),
		NewCDBaby(deps),
		NewSymphonic(deps),
	)
}

// Get resolves an adapter by distributor id.
func (r *Registry) Get(id string) (Adapter, error) {
	adapter, ok := r.adapters[id]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "distributor", "registry",
			fmt.Sprintf("unknown distributor %q", id), nil)
	}
	return adapter, nil
}

// List returns all registered adapters ordered by id.
func (r *Registry) List() []Adapter {
	ids := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	adapters := make([]Adapter, 0, len(ids))
	for _, id := range ids {
		adapters = append(adapters, r.adapters[id])
	}
	return adapters
}

// PayoutByPartyID resolves a partner's payout percentage from its DDEX
// party id, for settling sales reports against the reporting sender.
func (r *Registry) PayoutByPartyID(partyID string) (float64, bool) {
	for _, adapter := range r.adapters {
		if adapter.PartyID() == partyID {
			return adapter.Requirements().Pricing.PayoutPercent, true
		}
	}
	return 0, false
}
