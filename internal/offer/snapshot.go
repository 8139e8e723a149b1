package offer

// Snapshot is one observation of the listing page. Confident reports whether
// the extractor trusts the page enough for absences to mean real removals;
// a page whose listing section never rendered yields Confident=false so a
// glitch cannot mass-deactivate live offers.
type Snapshot struct {
	Offers    []Offer
	Confident bool
}
