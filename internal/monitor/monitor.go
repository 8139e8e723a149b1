package monitor

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matteo/boostwatch/internal/history"
	"github.com/matteo/boostwatch/internal/offer"
	"github.com/matteo/boostwatch/internal/reconcile"
	"github.com/matteo/boostwatch/internal/scrape"
)

// State names the scheduler's position in its recovery ladder.
type State string

const (
	StateStartingSession   State = "STARTING_SESSION"
	StatePolling           State = "POLLING"
	StateRecoveringPage    State = "RECOVERING_PAGE"
	StateRestartingSession State = "RESTARTING_SESSION"
	StateFatal             State = "FATAL"
)

// Notifier announces offer events and operational notices. Implementations
// own their delivery guarantees; the monitor never waits on an outcome.
type Notifier interface {
	OfferAdded(ctx context.Context, o offer.Offer)
	OfferRemoved(ctx context.Context, o offer.Offer)
	System(ctx context.Context, text string)
}

// Sink records each accepted addition, one row per offer.
type Sink interface {
	AppendOffer(ctx context.Context, o offer.Offer)
}

// Heartbeat signals one completed healthy cycle to an external watcher.
type Heartbeat interface {
	Ping(ctx context.Context)
}

type Options struct {
	Factory  scrape.Factory
	Store    *history.Store
	Notifier Notifier

	// Sink and Heartbeat are optional; nil disables them.
	Sink      Sink
	Heartbeat Heartbeat

	PollMin time.Duration
	PollMax time.Duration

	// Recovery knobs. Zero values fall back to the defaults the loop has
	// always run with: 5 start attempts, 20s page-recovery pause, 60s
	// restart backoff step.
	MaxStartAttempts int
	RecoveryPause    time.Duration
	RestartBackoff   time.Duration
}

// Status is a point-in-time copy for the ops endpoint. The live ActiveSet
// and History never leave the monitor's goroutine.
type Status struct {
	State        State     `json:"state"`
	ActiveOffers int       `json:"active_offers"`
	TrackedTotal int       `json:"tracked_total"`
	Cycles       int       `json:"cycles"`
	Additions    int       `json:"additions"`
	Removals     int       `json:"removals"`
	StartedAt    time.Time `json:"started_at"`
	LastCycleAt  time.Time `json:"last_cycle_at,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
}

// Monitor owns the watch loop: scrape, reconcile, dispatch, persist, sleep.
// All offer state is confined to the goroutine running Run; concurrent
// readers get copies through Status.
type Monitor struct {
	opts   Options
	active *reconcile.ActiveSet
	hist   history.History

	mu     sync.Mutex
	status Status
}

func New(opts Options) *Monitor {
	if opts.MaxStartAttempts <= 0 {
		opts.MaxStartAttempts = 5
	}
	if opts.RecoveryPause <= 0 {
		opts.RecoveryPause = 20 * time.Second
	}
	if opts.RestartBackoff <= 0 {
		opts.RestartBackoff = 60 * time.Second
	}
	return &Monitor{opts: opts, status: Status{State: StateStartingSession}}
}

// Run drives the loop until ctx is cancelled or the session restart budget
// runs out. The last successful history save is the recovery point: at most
// one cycle of state is lost on a crash. A panic escaping the loop is
// converted into a terminal error, after a best-effort fatal notice.
func (m *Monitor) Run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = m.unexpected(ctx, recovered)
		}
	}()

	m.hist = m.opts.Store.Load()
	m.active = reconcile.ActiveSetFromHistory(m.hist)
	log.Printf("[monitor] History loaded: %d offers tracked, %d still active", len(m.hist), m.active.Len())

	m.mu.Lock()
	m.status.StartedAt = time.Now()
	m.status.ActiveOffers = m.active.Len()
	m.status.TrackedTotal = len(m.hist)
	m.mu.Unlock()

	attempts := 0
	for {
		m.setState(StateStartingSession)
		log.Printf("[monitor] 🔄 Opening scrape session (attempt %d/%d)...", attempts+1, m.opts.MaxStartAttempts)
		session, err := m.opts.Factory(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return m.shutdown(ctx)
			}
			attempts++
			if rerr := m.restart(ctx, attempts, err); rerr != nil {
				return rerr
			}
			continue
		}
		attempts = 0
		log.Printf("[monitor] ✅ Session open")

		err = m.poll(ctx, session)
		session.Close()
		if ctx.Err() != nil {
			return m.shutdown(ctx)
		}
		attempts++
		if rerr := m.restart(ctx, attempts, err); rerr != nil {
			return rerr
		}
	}
}

// Status returns a copy safe for concurrent readers.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// poll runs check cycles until the session becomes unusable. A cycle-level
// failure first gets the page-recovery treatment; only when the reload also
// fails does the session go back to Run for a restart.
func (m *Monitor) poll(ctx context.Context, session scrape.Session) error {
	m.setState(StatePolling)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		runID := uuid.New().String()[:8]
		if err := m.cycle(ctx, runID, session); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[monitor] 🚨 [%s] Cycle failed: %v", runID, err)
			m.setLastError(err)
			if rerr := m.recoverPage(ctx, session); rerr != nil {
				return fmt.Errorf("page recovery: %w", rerr)
			}
			m.setState(StatePolling)
			continue
		}

		wait := m.jitter()
		log.Printf("[monitor] ⏳ [%s] Next check in %s", runID, wait.Round(100*time.Millisecond))
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// cycle is one pass: snapshot, reconcile, dispatch events, save, heartbeat.
// Dispatch and persistence are best-effort and never fail the cycle; only a
// snapshot error does.
func (m *Monitor) cycle(ctx context.Context, runID string, session scrape.Session) error {
	log.Printf("[monitor] ===== [%s] Checking boosted offers =====", runID)

	snap, err := session.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	result := reconcile.Reconcile(m.active, m.hist, snap)

	for _, ev := range result.Added {
		log.Printf("[monitor] ✨ [%s] New offer %s: %s @ %s", runID, ev.ID.Short(), ev.Offer.Match, ev.Offer.BoostedOdds)
		m.opts.Notifier.OfferAdded(ctx, ev.Offer)
		if m.opts.Sink != nil {
			m.opts.Sink.AppendOffer(ctx, ev.Offer)
		}
	}
	for _, ev := range result.Removed {
		log.Printf("[monitor] ❌ [%s] Offer gone %s: %s", runID, ev.ID.Short(), ev.Offer.Match)
		m.opts.Notifier.OfferRemoved(ctx, ev.Offer)
	}

	if err := m.opts.Store.Save(m.hist); err != nil {
		log.Printf("[monitor] ⚠️ [%s] History save failed, continuing on in-memory state: %v", runID, err)
	}
	if m.opts.Heartbeat != nil {
		m.opts.Heartbeat.Ping(ctx)
	}

	m.mu.Lock()
	m.status.Cycles++
	m.status.Additions += len(result.Added)
	m.status.Removals += len(result.Removed)
	m.status.ActiveOffers = m.active.Len()
	m.status.TrackedTotal = len(m.hist)
	m.status.LastCycleAt = time.Now()
	m.status.LastError = ""
	m.mu.Unlock()

	log.Printf("[monitor] 📊 [%s] Cycle done: %d active (+%d/-%d)", runID, m.active.Len(), len(result.Added), len(result.Removed))
	return nil
}

// recoverPage waits out transient page trouble, then reloads in place. An
// error here means the session itself is gone.
func (m *Monitor) recoverPage(ctx context.Context, session scrape.Session) error {
	m.setState(StateRecoveringPage)
	log.Printf("[monitor] 🔧 Recovering page, pausing %s before reload...", m.opts.RecoveryPause)
	if err := sleep(ctx, m.opts.RecoveryPause); err != nil {
		return err
	}
	if err := session.Reload(ctx); err != nil {
		return err
	}
	log.Printf("[monitor] ✅ Page reloaded")
	return nil
}

// restart burns one attempt from the budget and backs off. It returns a
// terminal error once the budget is gone, nil when Run should try a fresh
// session.
func (m *Monitor) restart(ctx context.Context, attempt int, cause error) error {
	m.setLastError(cause)
	if attempt >= m.opts.MaxStartAttempts {
		return m.fatal(ctx, cause)
	}
	m.setState(StateRestartingSession)
	wait := time.Duration(attempt) * m.opts.RestartBackoff
	log.Printf("[monitor] 🚨 Session lost (%v). Restarting in %s (attempt %d/%d)", cause, wait, attempt, m.opts.MaxStartAttempts)
	if err := sleep(ctx, wait); err != nil {
		return m.shutdown(ctx)
	}
	return nil
}

func (m *Monitor) shutdown(ctx context.Context) error {
	log.Printf("[monitor] 🛑 Stop requested, shutting down")
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	m.opts.Notifier.System(nctx, "ℹ️ Script Superquote Interrotto Manualmente.")
	return ctx.Err()
}

func (m *Monitor) fatal(ctx context.Context, cause error) error {
	m.setState(StateFatal)
	log.Printf("[monitor] ‼️ Restart budget exhausted, giving up: %v", cause)
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	m.opts.Notifier.System(nctx, fmt.Sprintf(
		"ERRORE CRITICO: Lo script non è riuscito ad avviare/mantenere la sessione dopo %d tentativi. Intervento manuale necessario.",
		m.opts.MaxStartAttempts))
	return fmt.Errorf("session restart budget exhausted after %d attempts: %w", m.opts.MaxStartAttempts, cause)
}

// unexpected turns a panic that escaped the loop into a terminal error, so
// the process still exits through main with the operator notified.
func (m *Monitor) unexpected(ctx context.Context, recovered any) error {
	m.setState(StateFatal)
	log.Printf("[monitor] ‼️ Unhandled failure: %v", recovered)
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	m.opts.Notifier.System(nctx, fmt.Sprintf("🚨 ERRORE FATALE Script Superquote: %v", recovered))
	return fmt.Errorf("unhandled failure: %v", recovered)
}

func (m *Monitor) setState(s State) {
	m.mu.Lock()
	m.status.State = s
	m.mu.Unlock()
}

func (m *Monitor) setLastError(err error) {
	m.mu.Lock()
	m.status.LastError = err.Error()
	m.mu.Unlock()
}

// jitter draws the next wait uniformly from [PollMin, PollMax) so checks
// never land on a fixed period.
func (m *Monitor) jitter() time.Duration {
	span := m.opts.PollMax - m.opts.PollMin
	if span <= 0 {
		return m.opts.PollMin
	}
	return m.opts.PollMin + time.Duration(rand.Int63n(int64(span)))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
