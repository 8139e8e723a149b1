package scrape

import (
	"bytes"
	"fmt"
	"log"
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/matteo/boostwatch/internal/offer"
)

var sportIconID = regexp.MustCompile(`/(\d+)\.svg$`)

// Extractor turns raw listing HTML into offer snapshots.
type Extractor struct {
	selectors *Selectors

	// allowEmptyRemovals trusts a rendered-but-empty listing enough to let
	// the reconciler deactivate everything. Off by default: a listing with
	// zero boost cards usually means the page half-rendered, and guessing
	// wrong mass-notifies removals that never happened.
	allowEmptyRemovals bool
}

func NewExtractor(sel *Selectors, allowEmptyRemovals bool) *Extractor {
	return &Extractor{selectors: sel, allowEmptyRemovals: allowEmptyRemovals}
}

// Extract parses one fetched page. The returned snapshot is marked confident
// when at least one valid boost card was found; an empty page is confident
// only under the allowEmptyRemovals policy and only if the listing section
// itself rendered.
func (e *Extractor) Extract(pageHTML []byte, observedAt offer.Timestamp) (offer.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
	if err != nil {
		return offer.Snapshot{}, fmt.Errorf("parse listing page: %w", err)
	}

	var containers []*goquery.Selection
	var matched string
	for _, cs := range e.selectors.Containers {
		var valid []*goquery.Selection
		doc.Find(cs).Each(func(_ int, s *goquery.Selection) {
			if e.isBoostCard(s) {
				valid = append(valid, s)
			}
		})
		if len(valid) > 0 {
			containers = valid
			matched = cs
			break
		}
	}

	if len(containers) == 0 {
		confident := e.allowEmptyRemovals && doc.Find(e.selectors.Page.Marker).Length() > 0
		if confident {
			log.Printf("[scrape] Listing rendered with zero boosts, treating as confirmed empty")
		} else {
			log.Printf("[scrape] No boost cards found, snapshot not trusted for removals")
		}
		return offer.Snapshot{Confident: confident}, nil
	}

	log.Printf("[scrape] Found %d boost card(s) via %q", len(containers), matched)

	offers := make([]offer.Offer, 0, len(containers))
	for _, c := range containers {
		offers = append(offers, e.extractOffer(c, observedAt))
	}
	return offer.Snapshot{Offers: offers, Confident: true}, nil
}

// isBoostCard keeps only containers that carry both the boost badge and an
// odds element. The container selectors are deliberately wide; this filter
// is what separates boost cards from ordinary promo tiles.
func (e *Extractor) isBoostCard(s *goquery.Selection) bool {
	v := e.selectors.Validity
	return s.Find(v.BoostBadge).Length() > 0 && s.Find(v.Odds).Length() > 0
}

func (e *Extractor) extractOffer(card *goquery.Selection, observedAt offer.Timestamp) offer.Offer {
	f := e.selectors.Fields
	return offer.Offer{
		Sport:       e.sportField(card),
		Detail:      textField(card, f.Detail),
		Match:       textField(card, f.Match),
		Market:      textField(card, f.Market),
		BaseOdds:    oddsField(card, f.BaseOdds),
		BoostedOdds: oddsField(card, f.BoostedOdds),
		ObservedAt:  observedAt,
	}
}

// sportField resolves the numbered sport icon to its label. Unknown numbers
// still produce a value so new sports show up in notifications instead of
// disappearing.
func (e *Extractor) sportField(card *goquery.Selection) offer.Field {
	src, ok := card.Find(e.selectors.Fields.SportIcon).First().Attr("src")
	if !ok {
		return offer.MissingField()
	}
	m := sportIconID.FindStringSubmatch(src)
	if m == nil {
		return offer.MissingField()
	}
	id, _ := strconv.Atoi(m[1])
	if name, known := e.selectors.Sports[id]; known {
		return offer.NewField(name)
	}
	return offer.NewField(fmt.Sprintf("Sport sconosciuto (ID %d)", id))
}

func textField(card *goquery.Selection, sel string) offer.Field {
	node := card.Find(sel).First()
	if node.Length() == 0 {
		return offer.MissingField()
	}
	text := cleanText(node.Text())
	if text == "" {
		return offer.MissingField()
	}
	return offer.NewField(text)
}

func oddsField(card *goquery.Selection, sel string) offer.Field {
	f := textField(card, sel)
	v, ok := f.Value()
	if !ok {
		return f
	}
	return offer.NewField(localizeOdds(v))
}
