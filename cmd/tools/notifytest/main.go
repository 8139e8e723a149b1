package main

import (
	"context"
	"flag"
	"log"

	"github.com/matteo/boostwatch/internal/config"
	"github.com/matteo/boostwatch/internal/notify"
	"github.com/matteo/boostwatch/internal/offer"
)

func main() {
	message := flag.String("message", "👋 Prova notifiche Superquote: funziona!", "system notice to send")
	sample := flag.Bool("sample-offer", false, "send a formatted sample add/remove pair instead")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration: %v", err)
	}

	tg := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatIDs)
	ctx := context.Background()

	if *sample {
		o := offer.Offer{
			Sport:       offer.NewField("Calcio"),
			Detail:      offer.NewField("Almeno 2 gol nel primo tempo"),
			Match:       offer.NewField("Inter - Juventus"),
			Market:      offer.NewField("Maggiorata del giorno"),
			BaseOdds:    offer.NewField("2,50"),
			BoostedOdds: offer.NewField("3,00"),
			ObservedAt:  offer.Now(),
		}
		tg.OfferAdded(ctx, o)
		tg.OfferRemoved(ctx, o)
		log.Printf("Sample offer notifications sent to %d chat(s)", len(cfg.TelegramChatIDs))
		return
	}

	tg.System(ctx, *message)
	log.Printf("System notice sent to %d chat(s)", len(cfg.TelegramChatIDs))
}
