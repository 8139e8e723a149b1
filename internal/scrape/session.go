package scrape

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/matteo/boostwatch/internal/offer"
)

// Session is one live connection to the listing page. Snapshot fetches and
// extracts; Reload rebuilds the transport after a bad cycle; Close releases
// it. The monitor restarts a session by closing it and asking the Factory
// for a fresh one.
type Session interface {
	Snapshot(ctx context.Context) (offer.Snapshot, error)
	Reload(ctx context.Context) error
	Close() error
}

// Factory opens a fresh Session, at startup and on every full restart.
type Factory func(ctx context.Context) (Session, error)

// Config describes how to reach the listing page.
type Config struct {
	TargetURL      string
	UserAgent      string
	RequestTimeout time.Duration
	MaxRetries     int
}

// PageSession implements Session over a colly collector. The collector is
// kept across cycles so cookies and the rate limiter carry over, the way a
// pinned browser tab would.
type PageSession struct {
	cfg       Config
	extractor *Extractor

	mu        sync.Mutex
	collector *colly.Collector
	lastBody  []byte
	lastErr   error
}

// NewFactory binds config and extractor into a session factory.
func NewFactory(cfg Config, extractor *Extractor) Factory {
	return func(ctx context.Context) (Session, error) {
		return OpenSession(ctx, cfg, extractor)
	}
}

// OpenSession builds a collector and probes the target once, so an
// unreachable site fails the session start instead of the first poll.
func OpenSession(ctx context.Context, cfg Config, extractor *Extractor) (*PageSession, error) {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	s := &PageSession{cfg: cfg, extractor: extractor}
	s.collector = s.buildCollector()
	if _, err := s.fetch(ctx); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	log.Printf("[scrape] Session ready on %s", cfg.TargetURL)
	return s, nil
}

func (s *PageSession) buildCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(s.cfg.UserAgent),
		colly.MaxBodySize(10*1024*1024),
		colly.AllowURLRevisit(),
		colly.DetectCharset(),
		colly.IgnoreRobotsTxt(),
	)
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		RandomDelay: 2 * time.Second,
	})
	c.SetRequestTimeout(s.cfg.RequestTimeout)

	// Callbacks run inside Visit on the calling goroutine, fetch already
	// holds the lock when they touch lastBody/lastErr.
	c.OnResponse(func(r *colly.Response) {
		s.lastBody = r.Body
		s.lastErr = nil
	})
	c.OnError(func(r *colly.Response, err error) {
		retries := 0
		if r.Request.Ctx.GetAny("retries") != nil {
			retries = r.Request.Ctx.GetAny("retries").(int)
		}
		if retries < s.cfg.MaxRetries {
			r.Request.Ctx.Put("retries", retries+1)
			log.Printf("[scrape] Retry %d/%d for %s: %v", retries+1, s.cfg.MaxRetries, r.Request.URL, err)
			time.Sleep(time.Duration(retries+1) * time.Second)
			r.Request.Retry()
			return
		}
		s.lastErr = err
	})
	return c
}

func (s *PageSession) fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastBody = nil
	s.lastErr = nil

	if err := s.collector.Visit(s.cfg.TargetURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", s.cfg.TargetURL, err)
	}
	s.collector.Wait()

	if s.lastErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.cfg.TargetURL, s.lastErr)
	}
	if s.lastBody == nil {
		return nil, fmt.Errorf("no response from %s", s.cfg.TargetURL)
	}
	return s.lastBody, nil
}

// Snapshot fetches the page and extracts the boosts visible right now.
func (s *PageSession) Snapshot(ctx context.Context) (offer.Snapshot, error) {
	body, err := s.fetch(ctx)
	if err != nil {
		return offer.Snapshot{}, err
	}
	return s.extractor.Extract(body, offer.Now())
}

// Reload drops the collector, cookies included, and probes the page again.
// Called when a cycle failed but the session might still be salvageable.
func (s *PageSession) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.collector = s.buildCollector()
	s.mu.Unlock()

	if _, err := s.fetch(ctx); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	log.Printf("[scrape] Page reloaded")
	return nil
}

// Close releases the session. Nothing to tear down for the HTTP transport,
// but the monitor calls it symmetrically before every restart.
func (s *PageSession) Close() error {
	return nil
}
