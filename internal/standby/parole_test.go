package standby

import (
	"testing"

	"github.com/lumenhost/standbyd/internal/domain"
)

func TestParoleController_StartsParoledUntilBootCompletes(t *testing.T) {
	p := NewParoleController()
	if !p.Paroled() {
		t.Error("a fresh ParoleController should start paroled (boot phase unknown)")
	}
}

func TestParoleController_ParoledWhenCharging(t *testing.T) {
	p := NewParoleController()
	p.OnBootPhase(domain.BootPhaseCompleted)
	if p.Paroled() {
		t.Fatal("should not be paroled once boot completed and not charging")
	}
	p.SetCharging(true)
	if !p.Paroled() {
		t.Error("should be paroled while charging regardless of boot phase")
	}
}

func TestParoleController_ParoledWhenIdleEnforcementDisabled(t *testing.T) {
	p := NewParoleController()
	p.OnBootPhase(domain.BootPhaseCompleted)
	p.SetAppIdleEnabled(false)
	if !p.Paroled() {
		t.Error("should be paroled whenever app-idle enforcement is switched off")
	}
}

func TestParoleController_NotParoledOnceAllConditionsClear(t *testing.T) {
	p := NewParoleController()
	p.OnBootPhase(domain.BootPhaseCompleted)
	p.SetCharging(false)
	if p.Paroled() {
		t.Error("should not be paroled once booted, not charging, and idle enforcement is on")
	}
}

func TestParoleController_BootPhaseNeverMovesBackward(t *testing.T) {
	p := NewParoleController()
	p.OnBootPhase(domain.BootPhaseCompleted)
	p.OnBootPhase(domain.BootPhaseSystemServicesReady)
	if p.Paroled() {
		t.Error("boot phase regression should be ignored, not un-complete the boot")
	}
}

func TestParoleController_ChargingReflectsLastSetValue(t *testing.T) {
	p := NewParoleController()
	p.SetCharging(true)
	if !p.Charging() {
		t.Error("Charging() should reflect the last SetCharging call")
	}
	p.SetCharging(false)
	if p.Charging() {
		t.Error("Charging() should reflect the last SetCharging call")
	}
}
