package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matteo/boostwatch/internal/api"
	"github.com/matteo/boostwatch/internal/config"
	"github.com/matteo/boostwatch/internal/heartbeat"
	"github.com/matteo/boostwatch/internal/history"
	"github.com/matteo/boostwatch/internal/monitor"
	"github.com/matteo/boostwatch/internal/notify"
	"github.com/matteo/boostwatch/internal/scrape"
	"github.com/matteo/boostwatch/internal/sheets"
)

func main() {
	log.Printf("🚀 Superquote monitor starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	selectors, err := scrape.LoadSelectors(cfg.SelectorsFile)
	if err != nil {
		log.Fatalf("❌ Selector registry: %v", err)
	}
	extractor := scrape.NewExtractor(selectors, cfg.EmptyPageRemovals)
	factory := scrape.NewFactory(scrape.Config{
		TargetURL: cfg.TargetURL,
		UserAgent: cfg.UserAgent,
	}, extractor)

	opts := monitor.Options{
		Factory:  factory,
		Store:    history.NewStore(cfg.HistoryFile),
		Notifier: notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatIDs),
		PollMin:  cfg.PollMin,
		PollMax:  cfg.PollMax,
	}

	if cfg.SheetsEnabled() {
		sink, err := sheets.New(sheets.Config{
			CredentialsFile: cfg.SheetsCredentialsFile,
			SpreadsheetID:   cfg.SheetsSpreadsheetID,
			Worksheet:       cfg.SheetsWorksheet,
		})
		if err != nil {
			log.Fatalf("❌ Google Sheets: %v", err)
		}
		opts.Sink = sink
		log.Printf("✅ Google Sheets sink enabled (worksheet %q)", cfg.SheetsWorksheet)
	} else {
		log.Printf("ℹ️ Google Sheets sink disabled")
	}

	if hb := heartbeat.NewPinger(cfg.HealthcheckURL); hb.Enabled() {
		opts.Heartbeat = hb
	}

	m := monitor.New(opts)

	var srv *api.Server
	if cfg.StatusAddr != "" {
		srv = api.NewServer(m)
		go func() {
			log.Printf("📡 Status server listening on %s", cfg.StatusAddr)
			if err := srv.Start(cfg.StatusAddr); err != nil && err != http.ErrServerClosed {
				log.Printf("⚠️ Status server: %v", err)
			}
		}()
	}

	runErr := m.Run(ctx)

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("⚠️ Status server shutdown: %v", err)
		}
	}

	if runErr != nil && ctx.Err() == nil {
		log.Fatalf("‼️ Monitor stopped: %v", runErr)
	}
	log.Printf("🏁 Superquote monitor stopped")
}
