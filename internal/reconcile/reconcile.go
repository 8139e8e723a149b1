package reconcile

import (
	"log"

	"github.com/matteo/boostwatch/internal/history"
	"github.com/matteo/boostwatch/internal/offer"
)

// Event pairs an identity with the record it concerns.
type Event struct {
	ID    offer.ID
	Offer offer.Offer
}

// Result is what one snapshot changed. Added comes in snapshot order,
// Removed in the order the offers had entered the active set. Additions are
// always emitted before removals.
type Result struct {
	Added   []Event
	Removed []Event
}

// Reconcile applies one snapshot to the active set and the ledger, both
// mutated in place, and reports additions and removals.
//
// Candidates missing an essential field are dropped up front. Surviving
// candidates are deduplicated by identity, last write wins: the same boost
// rendered twice on one page is one offer. A known identity is a
// continuation: only its observed_at is refreshed, so repriced odds never
// re-notify. Removals run only when the snapshot is confident; an untrusted
// page keeps every active offer alive rather than mass-deactivating on a
// rendering glitch.
func Reconcile(active *ActiveSet, hist history.History, snap offer.Snapshot) Result {
	dropped := 0
	order := make([]offer.ID, 0, len(snap.Offers))
	current := make(map[offer.ID]offer.Offer, len(snap.Offers))
	for _, o := range snap.Offers {
		if !o.HasEssentials() {
			dropped++
			continue
		}
		id := offer.IdentityOf(o)
		if _, seen := current[id]; !seen {
			order = append(order, id)
		}
		current[id] = o
	}
	if dropped > 0 {
		log.Printf("[reconcile] Dropped %d candidate(s) missing match label or boosted odds", dropped)
	}

	var res Result
	for _, id := range order {
		o := current[id]
		if existing, ok := active.Get(id); ok {
			existing.ObservedAt = o.ObservedAt
			active.Put(id, existing)
			hist[id] = existing
			continue
		}
		o.Active = true
		active.Put(id, o)
		hist[id] = o
		res.Added = append(res.Added, Event{ID: id, Offer: o})
	}

	if !snap.Confident {
		if active.Len() > len(current) {
			log.Printf("[reconcile] Snapshot not trusted for removals, keeping %d active offer(s)", active.Len())
		}
		return res
	}

	for _, id := range active.IDs() {
		if _, present := current[id]; present {
			continue
		}
		last, _ := active.Get(id)
		last.Active = false
		hist[id] = last
		active.Delete(id)
		res.Removed = append(res.Removed, Event{ID: id, Offer: last})
	}
	return res
}
