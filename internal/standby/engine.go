package standby

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/lumenhost/standbyd/internal/domain"
)

// task is one unit of work on the engine's single-threaded queue. Every
// public Engine method builds a task, submits it, and blocks on done —
// from the caller's side it reads like an ordinary method call, but
// every mutation of the engine's state actually happens on the one
// goroutine run by Engine.Run (§5: "the engine itself never blocks on
// I/O, and never runs two mutations concurrently").
type task struct {
	id   uuid.UUID
	run  func()
	done chan struct{}
}

// Engine is the cooperative, single-goroutine App Standby Controller.
// Everything it touches — the history store, the parole controller, the
// current thresholds — is only ever mutated from the goroutine running
// Run; every other goroutine only ever submits tasks.
type Engine struct {
	injector domain.Injector
	store    *HistoryStore
	parole   *ParoleController

	thMu       sync.RWMutex
	thresholds Thresholds

	queue  chan task
	closed chan struct{}
	once   sync.Once

	// screen-on-only clock (§3's dual-clock accounting): accumulated
	// only while the display is on, caught up lazily whenever it's
	// read and on every display-state flip. Touched only from the
	// engine goroutine, so it needs no lock of its own.
	lastSampleElapsed uint64
	screenOnAccum     uint64
	displayOn         bool
}

// NewEngine constructs an Engine. It does not start the run loop —
// call Run in a goroutine once the caller is ready to receive
// submissions.
func NewEngine(injector domain.Injector, onChange func(domain.Change)) *Engine {
	e := &Engine{
		injector:          injector,
		store:             NewHistoryStore(onChange),
		parole:            NewParoleController(),
		thresholds:        ParseSettings(injector.AppIdleSettings()),
		queue:             make(chan task, 64),
		closed:            make(chan struct{}),
		lastSampleElapsed: injector.ElapsedRealtime(),
		displayOn:         injector.IsDefaultDisplayOn(),
	}
	injector.RegisterDisplayListener(func() {
		_ = e.submit(func() {
			e.catchUpScreenClock()
			e.displayOn = e.injector.IsDefaultDisplayOn()
		})
	})
	return e
}

// Run drains the task queue until ctx is canceled or Close is called.
// Exactly one call to Run should ever be active for a given Engine.
func (e *Engine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			e.Close()
			return
		case t, ok := <-e.queue:
			if !ok {
				return
			}
			t.run()
			close(t.done)
		}
	}
}

// Close stops accepting new submissions. Tasks already queued still
// run; submissions after Close fail with ErrEngineClosed.
func (e *Engine) Close() {
	e.once.Do(func() {
		close(e.closed)
	})
}

// submit enqueues fn to run on the engine goroutine and blocks until it
// has. It never blocks forever: a closed engine returns immediately.
func (e *Engine) submit(fn func()) error {
	done := make(chan struct{})
	t := task{id: uuid.New(), run: fn, done: done}

	select {
	case <-e.closed:
		return domain.ErrEngineClosed
	default:
	}

	select {
	case e.queue <- t:
	case <-e.closed:
		return domain.ErrEngineClosed
	}

	select {
	case <-done:
		return nil
	case <-e.closed:
		// The task may still run if it was already dequeued; we just
		// stop waiting on it.
		return domain.ErrEngineClosed
	}
}

func (e *Engine) key(user int, pkg string) domain.Key {
	return domain.Key{User: user, Package: pkg}
}

func (e *Engine) elapsed() uint64 {
	return e.injector.ElapsedRealtime()
}

// ReportEvent is the entry point for C7: an event affecting the given
// package's bucket (§4.2's event mapping). Unknown event kinds are
// recorded via the injector's noteEvent but never change a bucket.
func (e *Engine) ReportEvent(user int, pkg string, kind domain.EventKind) error {
	return e.submit(func() {
		e.injector.NoteEvent(kind, pkg, user)

		elapsed := e.elapsed()
		screenOn := e.screenOnElapsed()
		key := e.key(user, pkg)

		switch kind {
		case domain.UserInteraction:
			e.store.Update(key, func(h domain.AppHistory) domain.AppHistory {
				return ApplyUserInteraction(h, elapsed, screenOn)
			})
		case domain.NotificationSeen:
			e.store.Update(key, func(h domain.AppHistory) domain.AppHistory {
				return ApplyNotificationSeen(h, elapsed)
			})
		}
	})
}

// GetAppStandbyBucket answers a query for a single package's current
// bucket (§6). It never changes an existing record; a package seen for
// the first time gets a default Never/Default record stored (see
// HistoryStore.Get).
func (e *Engine) GetAppStandbyBucket(user int, pkg string, includeScreenTime bool) (domain.Bucket, error) {
	var result domain.Bucket
	err := e.submit(func() {
		h := e.store.Get(e.key(user, pkg))
		th := e.currentThresholds()
		result = Query(h, e.elapsed(), e.screenOnElapsed(), th, includeScreenTime)
	})
	return result, err
}

// SetAppStandbyBucket implements set_app_standby_bucket, the
// source-arbitrated write used by callers external to the engine
// (prediction services, the CLI, administrative tooling). newBucket
// and reason must already be validated by the caller — an invalid
// value is a caller programming error, not a runtime condition the
// engine tolerates silently (§7).
func (e *Engine) SetAppStandbyBucket(user int, pkg string, newBucket domain.Bucket, reason domain.Tagged, now uint64) error {
	if !newBucket.Valid() {
		return domain.ErrInvalidBucket
	}
	return e.submit(func() {
		e.store.Update(e.key(user, pkg), func(h domain.AppHistory) domain.AppHistory {
			updated, _ := ApplySetBucket(h, newBucket, reason, now)
			return updated
		})
	})
}

// ForceIdleState implements force_idle_state (§4.2).
func (e *Engine) ForceIdleState(user int, pkg string, idle bool) error {
	return e.submit(func() {
		elapsed := e.elapsed()
		e.store.Update(e.key(user, pkg), func(h domain.AppHistory) domain.AppHistory {
			return ApplyForceIdleState(h, idle, elapsed)
		})
	})
}

// IsAppIdleFiltered reports whether pkg's current bucket and exemption
// status should cause the caller to filter background access for it —
// independent of parole (§4.3: "filtered" and "paroled" compose, they
// don't replace one another).
func (e *Engine) IsAppIdleFiltered(user int, pkg string) (bool, error) {
	var result bool
	err := e.submit(func() {
		h := e.store.Get(e.key(user, pkg))
		th := e.currentThresholds()
		bucket := Query(h, e.elapsed(), e.screenOnElapsed(), th, true)
		result = e.idleFiltered(user, pkg, bucket)
	})
	return result, err
}

// IsAppIdleFilteredOrParoled reports IsAppIdleFiltered short-circuited
// by the device-wide parole state (§4.3).
func (e *Engine) IsAppIdleFilteredOrParoled(user int, pkg string) (bool, error) {
	var result bool
	err := e.submit(func() {
		if e.parole.Paroled() {
			result = false
			return
		}
		h := e.store.Get(e.key(user, pkg))
		th := e.currentThresholds()
		bucket := Query(h, e.elapsed(), e.screenOnElapsed(), th, true)
		result = e.idleFiltered(user, pkg, bucket)
	})
	return result, err
}

func (e *Engine) idleFiltered(user int, pkg string, bucket domain.Bucket) bool {
	if bucket == domain.Active || bucket == domain.WorkingSet {
		return false
	}
	if e.injector.IsPowerSaveWhitelistExceptIdle(pkg) {
		return false
	}
	if e.injector.IsPackageEphemeral(user, pkg) {
		return false
	}
	if e.injector.IsBoundWidgetPackage(pkg, user) {
		return false
	}
	if e.injector.ActiveNetworkScorer() == pkg {
		return false
	}
	return true
}

// CheckIdleStates runs the periodic scan (C6) over every package
// tracked for user.
func (e *Engine) CheckIdleStates(user int) error {
	return e.submit(func() {
		elapsed := e.elapsed()
		screenOn := e.screenOnElapsed()
		th := e.currentThresholds()

		var keys []domain.Key
		e.store.IterUser(user, func(h domain.AppHistory) {
			keys = append(keys, h.KeyOf())
		})
		for _, key := range keys {
			e.store.Update(key, func(h domain.AppHistory) domain.AppHistory {
				updated, _ := ScanOne(h, elapsed, screenOn, th)
				return updated
			})
		}
	})
}

// SetChargingState feeds the charging input into the parole
// controller. It is cheap enough to apply without going through the
// task queue — parole state is independently guarded — but is routed
// through submit anyway so its ordering relative to other engine
// operations is observable and deterministic in tests.
func (e *Engine) SetChargingState(charging bool) error {
	return e.submit(func() {
		e.parole.SetCharging(charging)
	})
}

// OnBootPhase advances the engine's view of device boot progress.
func (e *Engine) OnBootPhase(phase domain.BootPhase) error {
	return e.submit(func() {
		e.parole.OnBootPhase(phase)
	})
}

// ReloadSettings re-parses the threshold settings string from the
// injector. Call after a settings-change notification.
func (e *Engine) ReloadSettings() error {
	return e.submit(func() {
		th := ParseSettings(e.injector.AppIdleSettings())
		e.thMu.Lock()
		e.thresholds = th
		e.thMu.Unlock()
		log.Printf("[standby] thresholds reloaded: %s", th)
	})
}

func (e *Engine) currentThresholds() Thresholds {
	e.thMu.RLock()
	defer e.thMu.RUnlock()
	return e.thresholds
}

// catchUpScreenClock folds the real time elapsed since the last sample
// into screenOnAccum, but only for the portion spent with the display
// on. Must only run on the engine goroutine.
func (e *Engine) catchUpScreenClock() {
	now := e.injector.ElapsedRealtime()
	if e.displayOn {
		e.screenOnAccum += satSub(now, e.lastSampleElapsed)
	}
	e.lastSampleElapsed = now
}

// screenOnElapsed returns the screen-on-only clock (§3), caught up to
// the current moment.
func (e *Engine) screenOnElapsed() uint64 {
	e.catchUpScreenClock()
	return e.screenOnAccum
}

// Store exposes the underlying history store for the debug API and
// the checkpoint writer. Both only ever read or snapshot; neither
// submits mutations outside the task queue.
func (e *Engine) Store() *HistoryStore { return e.store }

// Parole exposes the parole controller for metrics.
func (e *Engine) Parole() *ParoleController { return e.parole }

// Thresholds exposes the current thresholds for the debug API.
func (e *Engine) Thresholds() Thresholds { return e.currentThresholds() }
