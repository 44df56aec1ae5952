package standby

import (
	"sync"

	"github.com/lumenhost/standbyd/internal/domain"
)

// ParoleController tracks the handful of device-wide conditions that
// suspend idle enforcement entirely (C5, §4.3): an app is paroled
// whenever the device is charging, app-idle enforcement is switched
// off, or boot hasn't reached BootPhaseCompleted yet. Charging state
// and boot phase change out-of-band from the display/settings
// listeners, so the inputs are held behind a read/write mutex and the
// flag is derived from them on each read.
type ParoleController struct {
	mu sync.RWMutex

	charging       bool
	appIdleEnabled bool
	bootPhase      domain.BootPhase
}

// NewParoleController starts paroled: the boot phase is unknown until
// OnBootPhase(BootPhaseCompleted) is called. Charging starts false and
// app-idle enforcement starts on.
func NewParoleController() *ParoleController {
	return &ParoleController{
		appIdleEnabled: true,
		bootPhase:      domain.BootPhaseUnknown,
	}
}

// Paroled reports whether idle enforcement is currently suspended.
func (p *ParoleController) Paroled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.paroledLocked()
}

func (p *ParoleController) paroledLocked() bool {
	return p.charging || !p.appIdleEnabled || p.bootPhase < domain.BootPhaseCompleted
}

// SetCharging updates the charging-state input.
func (p *ParoleController) SetCharging(charging bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.charging = charging
}

// SetAppIdleEnabled updates the master idle-enforcement switch.
func (p *ParoleController) SetAppIdleEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.appIdleEnabled = enabled
}

// OnBootPhase advances the tracked boot phase. Phases only move
// forward; a phase lower than the one already recorded is ignored.
func (p *ParoleController) OnBootPhase(phase domain.BootPhase) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if phase > p.bootPhase {
		p.bootPhase = phase
	}
}

// Charging reports the last charging state observed.
func (p *ParoleController) Charging() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.charging
}
