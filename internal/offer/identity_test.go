package offer

import (
	"testing"
)

func TestIdentityOfIsDeterministic(t *testing.T) {
	o := Offer{
		Sport:       NewField("Calcio"),
		Detail:      NewField("Almeno 2 gol nel primo tempo"),
		Match:       NewField("Inter - Juventus"),
		Market:      NewField("Maggiorata del giorno"),
		BaseOdds:    NewField("2,50"),
		BoostedOdds: NewField("3,00"),
	}

	first := IdentityOf(o)
	second := IdentityOf(o)
	if first != second {
		t.Fatalf("expected stable identity, got %s then %s", first, second)
	}
	if len(first) != 32 {
		t.Fatalf("expected 32 hex chars, got %d (%s)", len(first), first)
	}
}

func TestIdentityOfIgnoresOddsAndTimestamps(t *testing.T) {
	base := Offer{
		Detail:      NewField("Segna Lautaro"),
		Match:       NewField("Inter - Milan"),
		Market:      NewField("Super Boost"),
		BaseOdds:    NewField("1,80"),
		BoostedOdds: NewField("2,10"),
		ObservedAt:  Now(),
	}
	repriced := base
	repriced.BaseOdds = NewField("1,95")
	repriced.BoostedOdds = NewField("2,45")
	repriced.ObservedAt = Timestamp{}
	repriced.Sport = NewField("Calcio")

	if IdentityOf(base) != IdentityOf(repriced) {
		t.Error("expected identity to survive odds, sport and timestamp changes")
	}
}

func TestIdentityOfSeparatesOffers(t *testing.T) {
	tests := []struct {
		name  string
		left  Offer
		right Offer
	}{
		{
			name:  "different match",
			left:  Offer{Match: NewField("Inter - Milan"), Market: NewField("Boost"), Detail: NewField("X")},
			right: Offer{Match: NewField("Roma - Lazio"), Market: NewField("Boost"), Detail: NewField("X")},
		},
		{
			name:  "different market",
			left:  Offer{Match: NewField("Inter - Milan"), Market: NewField("Boost"), Detail: NewField("X")},
			right: Offer{Match: NewField("Inter - Milan"), Market: NewField("Maggiorata"), Detail: NewField("X")},
		},
		{
			name:  "different detail",
			left:  Offer{Match: NewField("Inter - Milan"), Market: NewField("Boost"), Detail: NewField("Over 2.5")},
			right: Offer{Match: NewField("Inter - Milan"), Market: NewField("Boost"), Detail: NewField("Over 3.5")},
		},
		{
			name:  "missing detail vs present detail",
			left:  Offer{Match: NewField("Inter - Milan"), Market: NewField("Boost")},
			right: Offer{Match: NewField("Inter - Milan"), Market: NewField("Boost"), Detail: NewField("Over 2.5")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IdentityOf(tt.left) == IdentityOf(tt.right) {
				t.Errorf("expected distinct identities, both hashed to %s", IdentityOf(tt.left))
			}
		})
	}
}

func TestIDShortHandlesAnyLength(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{ID("9b2d8f1a3c4e5d6f7a8b9c0d1e2f3a4b"), "9b2d8f1a"},
		{ID("abcdefgh"), "abcdefgh"},
		{ID("abc"), "abc"},
		{ID(""), ""},
	}
	for _, tt := range tests {
		if got := tt.id.Short(); got != tt.want {
			t.Errorf("Short(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestIdentityOfMissingFieldsUsesPlaceholder(t *testing.T) {
	implicit := Offer{Match: NewField("Inter - Milan")}
	explicit := Offer{
		Match:  NewField("Inter - Milan"),
		Market: NewField(Missing),
		Detail: NewField(Missing),
	}

	if IdentityOf(implicit) != IdentityOf(explicit) {
		t.Error("expected a missing field to hash like its placeholder")
	}
}
