package notify

import (
	"fmt"

	"github.com/matteo/boostwatch/internal/offer"
)

// Message texts keep the wording and markup the chat subscribers are used
// to, Italian labels included.

func formatAdded(o offer.Offer) string {
	return fmt.Sprintf(
		"✨ NUOVA Superquota Bet365 ✨\n\n"+
			"⚽ *Sport:* %s\n"+
			"📝 *Dettaglio:* %s\n"+
			"🆚 *Partita:* %s\n"+
			"📊 *Mercato:* %s\n"+
			"📉 *Quota Normale:* %s\n"+
			"📈 *Quota Maggiorata:* %s",
		o.Sport, o.Detail, o.Match, o.Market, o.BaseOdds, o.BoostedOdds)
}

func formatRemoved(o offer.Offer) string {
	return fmt.Sprintf(
		"❌ *Superquota NON PIÙ DISPONIBILE*\n\n"+
			"⚽ *Sport:* %s\n"+
			"📝 *Dettaglio:* %s\n"+
			"🆚 *Partita:* %s\n"+
			"📊 *Mercato:* %s\n"+
			"📈 *Quota Normale:* %s\n"+
			"📈 *Quota Maggiorata:* %s",
		o.Sport, o.Detail, o.Match, o.Market, o.BaseOdds, o.BoostedOdds)
}
