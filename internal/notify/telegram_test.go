package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matteo/boostwatch/internal/offer"
)

func sampleOffer() offer.Offer {
	return offer.Offer{
		Sport:       offer.NewField("Calcio"),
		Detail:      offer.NewField("Almeno 2 gol nel primo tempo"),
		Match:       offer.NewField("Inter - Juventus"),
		Market:      offer.NewField("Maggiorata del giorno"),
		BaseOdds:    offer.NewField("2,50"),
		BoostedOdds: offer.NewField("3,00"),
	}
}

func TestFormatAdded(t *testing.T) {
	text := formatAdded(sampleOffer())

	if !strings.HasPrefix(text, "✨ NUOVA Superquota Bet365 ✨\n\n") {
		t.Errorf("expected the new-offer header, got:\n%s", text)
	}
	for _, want := range []string{
		"⚽ *Sport:* Calcio",
		"📝 *Dettaglio:* Almeno 2 gol nel primo tempo",
		"🆚 *Partita:* Inter - Juventus",
		"📊 *Mercato:* Maggiorata del giorno",
		"📉 *Quota Normale:* 2,50",
		"📈 *Quota Maggiorata:* 3,00",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected message to contain %q, got:\n%s", want, text)
		}
	}
}

func TestFormatRemovedUsesDistinctHeader(t *testing.T) {
	text := formatRemoved(sampleOffer())

	if !strings.HasPrefix(text, "❌ *Superquota NON PIÙ DISPONIBILE*\n\n") {
		t.Errorf("expected the removal header, got:\n%s", text)
	}
	if strings.Contains(text, "NUOVA") {
		t.Error("expected removal text to differ from the addition header")
	}
}

func TestFormatRendersPlaceholdersForMissingFields(t *testing.T) {
	o := offer.Offer{
		Match:       offer.NewField("Inter - Juventus"),
		BoostedOdds: offer.NewField("3,00"),
	}
	text := formatAdded(o)
	if !strings.Contains(text, "*Sport:* N/D") {
		t.Errorf("expected missing sport to render as N/D, got:\n%s", text)
	}
}

func TestTelegramBroadcastsToEveryChat(t *testing.T) {
	type sendReq struct {
		ChatID    string `json:"chat_id"`
		Text      string `json:"text"`
		ParseMode string `json:"parse_mode"`
	}
	var got []sendReq

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req sendReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		got = append(got, req)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegram("test-token", []string{"111", "222"})
	tg.apiBase = srv.URL
	tg.OfferAdded(context.Background(), sampleOffer())

	if len(got) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(got))
	}
	if got[0].ChatID != "111" || got[1].ChatID != "222" {
		t.Errorf("expected sends to chats 111 and 222, got %s and %s", got[0].ChatID, got[1].ChatID)
	}
	if got[0].ParseMode != "Markdown" {
		t.Errorf("expected Markdown parse mode, got %q", got[0].ParseMode)
	}
	if !strings.Contains(got[0].Text, "Inter - Juventus") {
		t.Errorf("expected the match label in the message, got:\n%s", got[0].Text)
	}
}

func TestTelegramFailuresDoNotPropagate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusForbidden)
	}))
	defer srv.Close()

	tg := NewTelegram("test-token", []string{"111"})
	tg.apiBase = srv.URL

	// Must not panic or block; errors stay inside the adapter.
	tg.OfferRemoved(context.Background(), sampleOffer())
	tg.System(context.Background(), "notice")
}

func TestTelegramDisabledWithoutConfig(t *testing.T) {
	tg := NewTelegram("", nil)
	if tg.Enabled() {
		t.Error("expected notifier disabled without token and chats")
	}
	// A disabled notifier must be safely callable.
	tg.OfferAdded(context.Background(), sampleOffer())
}
