package reconcile

import (
	"sort"

	"github.com/matteo/boostwatch/internal/history"
	"github.com/matteo/boostwatch/internal/offer"
)

// ActiveSet tracks the offers currently believed visible on the page, in
// first-seen order. The order is part of the contract: removal events fire
// in the order their offers entered the set.
type ActiveSet struct {
	ids    []offer.ID
	offers map[offer.ID]offer.Offer
}

func NewActiveSet() *ActiveSet {
	return &ActiveSet{offers: make(map[offer.ID]offer.Offer)}
}

// ActiveSetFromHistory rebuilds the set from the ledger's active entries.
// Oldest first, identity as tiebreak, so a restart reproduces the order the
// offers originally appeared in.
func ActiveSetFromHistory(h history.History) *ActiveSet {
	ids := make([]offer.ID, 0, len(h))
	for id, o := range h {
		if o.Active {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := h[ids[i]], h[ids[j]]
		if !a.ObservedAt.Equal(b.ObservedAt.Time) {
			return a.ObservedAt.Before(b.ObservedAt.Time)
		}
		return ids[i] < ids[j]
	})

	set := NewActiveSet()
	for _, id := range ids {
		set.Put(id, h[id])
	}
	return set
}

// Put inserts or refreshes an offer. A refresh keeps the original position.
func (s *ActiveSet) Put(id offer.ID, o offer.Offer) {
	if _, exists := s.offers[id]; !exists {
		s.ids = append(s.ids, id)
	}
	s.offers[id] = o
}

func (s *ActiveSet) Delete(id offer.ID) {
	if _, exists := s.offers[id]; !exists {
		return
	}
	delete(s.offers, id)
	for i, known := range s.ids {
		if known == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}

func (s *ActiveSet) Get(id offer.ID) (offer.Offer, bool) {
	o, ok := s.offers[id]
	return o, ok
}

func (s *ActiveSet) Has(id offer.ID) bool {
	_, ok := s.offers[id]
	return ok
}

func (s *ActiveSet) Len() int {
	return len(s.ids)
}

// IDs returns the identities in first-seen order. The slice is a copy, safe
// to iterate while mutating the set.
func (s *ActiveSet) IDs() []offer.ID {
	out := make([]offer.ID, len(s.ids))
	copy(out, s.ids)
	return out
}
