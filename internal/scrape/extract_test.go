package scrape

import (
	"testing"

	"github.com/matteo/boostwatch/internal/offer"
)

const listingPage = `
<html><body>
<div class="pbb-PopularBetsList">
  <div>
    <div class="pbb-PopularBet">
      <div class="pbb-SuperBetBoost"></div>
      <img class="pbb-PopularBet_Icon" src="https://assets.example.net/sports/1.svg"/>
      <div class="pbb-PopularBet_Text">Almeno 2 gol nel primo tempo</div>
      <div class="pbb-PopularBet_BetLine">Inter - Juventus</div>
      <div class="pbb-PopularBet_MarketName">Maggiorata del giorno</div>
      <div class="pbb-PopularBet_PreviousOdds">2.50</div>
      <div class="pbb-PopularBet_BoostedOdds">3.00</div>
    </div>
  </div>
  <div>
    <div class="pbb-PopularBet">
      <div class="pbb-SuperBoostChevron"></div>
      <img class="pbb-PopularBet_Icon" src="https://assets.example.net/sports/12.svg"/>
      <div class="pbb-PopularBet_Text">Vince il primo set</div>
      <div class="pbb-PopularBet_BetLine">Sinner - Alcaraz</div>
      <div class="pbb-PopularBet_MarketName">Super Boost</div>
      <div class="pbb-PopularBet_PreviousOdds">1.80</div>
      <div class="pbb-PopularBet_BoostedOdds">2.10</div>
    </div>
  </div>
</div>
</body></html>`

func testExtractor(t *testing.T, allowEmptyRemovals bool) *Extractor {
	t.Helper()
	sel, err := LoadSelectors("")
	if err != nil {
		t.Fatalf("load selectors: %v", err)
	}
	return NewExtractor(sel, allowEmptyRemovals)
}

func TestExtractReadsBoostCards(t *testing.T) {
	snap, err := testExtractor(t, false).Extract([]byte(listingPage), offer.Now())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !snap.Confident {
		t.Error("expected a populated listing to be confident")
	}
	if len(snap.Offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(snap.Offers))
	}

	first := snap.Offers[0]
	tests := []struct {
		name     string
		field    offer.Field
		expected string
	}{
		{name: "sport resolved from icon", field: first.Sport, expected: "Calcio"},
		{name: "detail text", field: first.Detail, expected: "Almeno 2 gol nel primo tempo"},
		{name: "match label", field: first.Match, expected: "Inter - Juventus"},
		{name: "market name", field: first.Market, expected: "Maggiorata del giorno"},
		{name: "base odds localized", field: first.BaseOdds, expected: "2,50"},
		{name: "boosted odds localized", field: first.BoostedOdds, expected: "3,00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}

	if got := snap.Offers[1].Sport.String(); got != "Tennis" {
		t.Errorf("expected Tennis for icon 12, got %q", got)
	}
}

func TestExtractFallsBackThroughContainerSelectors(t *testing.T) {
	page := `
	<html><body>
	<div class="pbb-SuperBetBoost-parent">
	  <div class="pbb-SuperBetBoost"></div>
	  <div class="pbb-PopularBet_BetLine">Roma - Lazio</div>
	  <div class="pbb-PopularBet_BoostedOdds">2.75</div>
	</div>
	</body></html>`

	snap, err := testExtractor(t, false).Extract([]byte(page), offer.Now())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(snap.Offers) != 1 {
		t.Fatalf("expected the fallback selector to find 1 offer, got %d", len(snap.Offers))
	}
	if got := snap.Offers[0].Match.String(); got != "Roma - Lazio" {
		t.Errorf("expected Roma - Lazio, got %q", got)
	}
}

func TestExtractSkipsTilesWithoutBoostBadge(t *testing.T) {
	page := `
	<html><body>
	<div class="pbb-PopularBetsList">
	  <div>
	    <div class="pbb-PopularBet_BetLine">Promo qualunque</div>
	    <div class="pbb-PopularBet_BoostedOdds">1.50</div>
	  </div>
	  <div>
	    <div class="pbb-SuperBetBoost"></div>
	    <div class="pbb-PopularBet_BetLine">Napoli - Torino</div>
	    <div class="pbb-PopularBet_BoostedOdds">3.20</div>
	  </div>
	</div>
	</body></html>`

	snap, err := testExtractor(t, false).Extract([]byte(page), offer.Now())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(snap.Offers) != 1 {
		t.Fatalf("expected 1 offer after filtering plain tiles, got %d", len(snap.Offers))
	}
	if got := snap.Offers[0].Match.String(); got != "Napoli - Torino" {
		t.Errorf("expected the boosted tile to survive, got %q", got)
	}
}

func TestExtractEmptyListingIsNotTrustedByDefault(t *testing.T) {
	page := `<html><body><div class="pbb-PopularBetsList"></div></body></html>`

	snap, err := testExtractor(t, false).Extract([]byte(page), offer.Now())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if snap.Confident {
		t.Error("expected an empty listing to be untrusted under the default policy")
	}
	if len(snap.Offers) != 0 {
		t.Errorf("expected no offers, got %d", len(snap.Offers))
	}
}

func TestExtractEmptyListingTrustedWhenPolicyAllows(t *testing.T) {
	page := `<html><body><div class="pbb-PopularBetsList"></div></body></html>`

	snap, err := testExtractor(t, true).Extract([]byte(page), offer.Now())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !snap.Confident {
		t.Error("expected a rendered empty listing to be trusted when enabled")
	}
}

func TestExtractMissingListingSectionNeverTrusted(t *testing.T) {
	page := `<html><body><div class="hero">loading…</div></body></html>`

	snap, err := testExtractor(t, true).Extract([]byte(page), offer.Now())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if snap.Confident {
		t.Error("expected a page without the listing section to stay untrusted")
	}
}

func TestExtractMissingFieldsBecomePlaceholders(t *testing.T) {
	page := `
	<html><body>
	<div class="pbb-PopularBetsList">
	  <div>
	    <div class="pbb-SuperBetBoost"></div>
	    <div class="pbb-PopularBet_BetLine">Milan - Genoa</div>
	    <div class="pbb-PopularBet_BoostedOdds">2.00</div>
	  </div>
	</div>
	</body></html>`

	snap, err := testExtractor(t, false).Extract([]byte(page), offer.Now())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	o := snap.Offers[0]
	if o.Sport.Ok() || o.Detail.Ok() || o.Market.Ok() || o.BaseOdds.Ok() {
		t.Error("expected absent elements to extract as missing fields")
	}
	if got := o.BaseOdds.String(); got != offer.Missing {
		t.Errorf("expected placeholder rendering, got %q", got)
	}
	if !o.HasEssentials() {
		t.Error("expected match and boosted odds to keep the record viable")
	}
}

func TestExtractUnknownSportKeepsTheID(t *testing.T) {
	page := `
	<html><body>
	<div class="pbb-PopularBetsList">
	  <div>
	    <div class="pbb-SuperBetBoost"></div>
	    <img class="pbb-PopularBet_Icon" src="/sports/99.svg"/>
	    <div class="pbb-PopularBet_BetLine">Qualcosa di nuovo</div>
	    <div class="pbb-PopularBet_BoostedOdds">4.00</div>
	  </div>
	</div>
	</body></html>`

	snap, err := testExtractor(t, false).Extract([]byte(page), offer.Now())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got := snap.Offers[0].Sport.String(); got != "Sport sconosciuto (ID 99)" {
		t.Errorf("expected unknown sport label, got %q", got)
	}
}

func TestExtractSportIconUsesLastPathSegment(t *testing.T) {
	page := `
	<html><body>
	<div class="pbb-PopularBetsList">
	  <div>
	    <div class="pbb-SuperBetBoost"></div>
	    <img class="pbb-PopularBet_Icon" src="https://assets.example.net/5.svg-old/12.svg"/>
	    <div class="pbb-PopularBet_BetLine">Sinner - Alcaraz</div>
	    <div class="pbb-PopularBet_BoostedOdds">2.10</div>
	  </div>
	</div>
	</body></html>`

	snap, err := testExtractor(t, false).Extract([]byte(page), offer.Now())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got := snap.Offers[0].Sport.String(); got != "Tennis" {
		t.Errorf("expected the trailing icon number to win, got %q", got)
	}
}
