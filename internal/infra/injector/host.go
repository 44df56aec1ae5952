// Package injector provides the production and fake implementations of
// domain.Injector: the engine's only window onto the device.
package injector

import (
	"log"
	"sync"
	"time"

	"github.com/lumenhost/standbyd/internal/domain"
	"github.com/lumenhost/standbyd/internal/infra/resilience"
)

// Host is the production domain.Injector. It wraps the handful of
// platform queries the engine needs behind plain field reads that
// change only through the setters — this binary has no AIDL/binder
// surface to call into, so "the platform" here is whatever the
// surrounding daemon wires in via the setters.
//
// The three exemption queries (whitelist, widget, network scorer) are
// the ones spec.md §6/§7 calls out as platform RPCs that can fail; an
// optional RPC hook can be set for each, and a circuit breaker guards
// every call so a flaky platform backend degrades to the conservative
// "not exempted" answer instead of blocking the engine task queue.
type Host struct {
	mu sync.RWMutex

	charging            bool
	appIdleEnabled      bool
	powerSaveExceptIdle map[string]bool
	ephemeral           map[string]bool
	boundWidget         map[string]bool
	activeScorer        string
	displayOn           bool
	displayListeners    []func()
	runningUsers        []int
	settings            string
	dataDir             string

	// WhitelistRPC, WidgetRPC, and ScorerRPC, if set, replace the local
	// map lookups with a call to an external platform backend. A
	// returned error is treated as "not exempted" (§7) and recorded
	// against the matching circuit breaker.
	WhitelistRPC func(pkg string) (bool, error)
	WidgetRPC    func(pkg string, user int) (bool, error)
	ScorerRPC    func() (string, error)

	whitelistBreaker *resilience.CircuitBreaker
	widgetBreaker    *resilience.CircuitBreaker
	scorerBreaker    *resilience.CircuitBreaker

	bootTime time.Time
}

// NewHost returns a Host with conservative defaults: idle enforcement
// on, nothing exempted, single user 0 running, display on.
func NewHost(dataDir string) *Host {
	return &Host{
		appIdleEnabled:      true,
		powerSaveExceptIdle: make(map[string]bool),
		ephemeral:           make(map[string]bool),
		boundWidget:         make(map[string]bool),
		displayOn:           true,
		runningUsers:        []int{0},
		dataDir:             dataDir,
		bootTime:            time.Now(),
		whitelistBreaker:    resilience.NewCircuitBreaker("injector.whitelist", resilience.DefaultCircuitBreakerConfig()),
		widgetBreaker:       resilience.NewCircuitBreaker("injector.widget", resilience.DefaultCircuitBreakerConfig()),
		scorerBreaker:       resilience.NewCircuitBreaker("injector.scorer", resilience.DefaultCircuitBreakerConfig()),
	}
}

// Breakers exposes the three RPC-guarding circuit breakers for the
// debug API and metrics.
func (h *Host) Breakers() []*resilience.CircuitBreaker {
	return []*resilience.CircuitBreaker{h.whitelistBreaker, h.widgetBreaker, h.scorerBreaker}
}

func (h *Host) ElapsedRealtime() uint64 {
	return uint64(time.Since(h.bootTime).Milliseconds())
}

func (h *Host) CurrentTimeMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}

func (h *Host) IsCharging() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.charging
}

// SetCharging updates the charging state; call from whatever platform
// hook detects power-supply changes.
func (h *Host) SetCharging(charging bool) {
	h.mu.Lock()
	h.charging = charging
	h.mu.Unlock()
}

func (h *Host) IsAppIdleEnabled() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.appIdleEnabled
}

// SetAppIdleEnabled updates the master idle-enforcement switch.
func (h *Host) SetAppIdleEnabled(enabled bool) {
	h.mu.Lock()
	h.appIdleEnabled = enabled
	h.mu.Unlock()
}

func (h *Host) IsPowerSaveWhitelistExceptIdle(pkg string) bool {
	h.mu.RLock()
	rpc := h.WhitelistRPC
	local := h.powerSaveExceptIdle[pkg]
	h.mu.RUnlock()

	if rpc == nil {
		return local
	}
	if err := h.whitelistBreaker.Allow(); err != nil {
		return false // conservative default while the breaker is open (§7)
	}
	exempt, err := rpc(pkg)
	if err != nil {
		h.whitelistBreaker.RecordFailure()
		log.Printf("[injector] whitelist RPC failed for %s: %v, treating as not whitelisted", pkg, err)
		return false
	}
	h.whitelistBreaker.RecordSuccess()
	return exempt
}

// SetPowerSaveWhitelistExceptIdle toggles pkg's whitelist exemption.
func (h *Host) SetPowerSaveWhitelistExceptIdle(pkg string, exempt bool) {
	h.mu.Lock()
	h.powerSaveExceptIdle[pkg] = exempt
	h.mu.Unlock()
}

func (h *Host) IsPackageEphemeral(user int, pkg string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ephemeral[pkg]
}

// SetPackageEphemeral marks pkg as an instant app.
func (h *Host) SetPackageEphemeral(pkg string, ephemeral bool) {
	h.mu.Lock()
	h.ephemeral[pkg] = ephemeral
	h.mu.Unlock()
}

func (h *Host) IsBoundWidgetPackage(pkg string, user int) bool {
	h.mu.RLock()
	rpc := h.WidgetRPC
	local := h.boundWidget[pkg]
	h.mu.RUnlock()

	if rpc == nil {
		return local
	}
	if err := h.widgetBreaker.Allow(); err != nil {
		return false
	}
	bound, err := rpc(pkg, user)
	if err != nil {
		h.widgetBreaker.RecordFailure()
		log.Printf("[injector] widget RPC failed for %s: %v, treating as not widget-bound", pkg, err)
		return false
	}
	h.widgetBreaker.RecordSuccess()
	return bound
}

// SetBoundWidgetPackage marks pkg as having a bound home-screen widget.
func (h *Host) SetBoundWidgetPackage(pkg string, bound bool) {
	h.mu.Lock()
	h.boundWidget[pkg] = bound
	h.mu.Unlock()
}

func (h *Host) ActiveNetworkScorer() string {
	h.mu.RLock()
	rpc := h.ScorerRPC
	local := h.activeScorer
	h.mu.RUnlock()

	if rpc == nil {
		return local
	}
	if err := h.scorerBreaker.Allow(); err != nil {
		return "" // conservative default: no package exempted as scorer
	}
	scorer, err := rpc()
	if err != nil {
		h.scorerBreaker.RecordFailure()
		log.Printf("[injector] network-scorer RPC failed: %v, treating as none active", err)
		return ""
	}
	h.scorerBreaker.RecordSuccess()
	return scorer
}

// SetActiveNetworkScorer records the active network-scorer package.
func (h *Host) SetActiveNetworkScorer(pkg string) {
	h.mu.Lock()
	h.activeScorer = pkg
	h.mu.Unlock()
}

func (h *Host) IsDefaultDisplayOn() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.displayOn
}

// SetDisplayOn flips the tracked display state and fires every
// registered listener.
func (h *Host) SetDisplayOn(on bool) {
	h.mu.Lock()
	changed := h.displayOn != on
	h.displayOn = on
	listeners := append([]func(){}, h.displayListeners...)
	h.mu.Unlock()

	if changed {
		for _, cb := range listeners {
			cb()
		}
	}
}

func (h *Host) RegisterDisplayListener(cb func()) {
	h.mu.Lock()
	h.displayListeners = append(h.displayListeners, cb)
	h.mu.Unlock()
}

func (h *Host) RunningUserIDs() []int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]int, len(h.runningUsers))
	copy(out, h.runningUsers)
	return out
}

// SetRunningUserIDs replaces the set of running users.
func (h *Host) SetRunningUserIDs(users []int) {
	h.mu.Lock()
	h.runningUsers = append([]int{}, users...)
	h.mu.Unlock()
}

func (h *Host) AppIdleSettings() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settings
}

// SetAppIdleSettings replaces the raw threshold-settings string.
func (h *Host) SetAppIdleSettings(settings string) {
	h.mu.Lock()
	h.settings = settings
	h.mu.Unlock()
}

func (h *Host) NoteEvent(kind domain.EventKind, pkg string, uid int) {
	// Observability only; a real host would forward to the platform's
	// usage-stats log. standbyd has none of its own to forward to.
}

func (h *Host) DataSystemDirectory() string {
	return h.dataDir
}

var _ domain.Injector = (*Host)(nil)
