package standby

import (
	"testing"

	"github.com/lumenhost/standbyd/internal/domain"
)

func TestApplyUserInteraction_OverridesForcedIdle(t *testing.T) {
	h := domain.AppHistory{
		CurrentBucket: domain.Rare,
		CurrentReason: domain.Tagged{Reason: domain.ReasonForced},
		ForcedIdle:    true,
	}
	got := ApplyUserInteraction(h, 1000, 500)
	if got.CurrentBucket != domain.Active || got.CurrentReason.Reason != domain.ReasonUsage {
		t.Errorf("ApplyUserInteraction() = %+v, want Active/Usage", got)
	}
	if got.ForcedIdle {
		t.Error("ApplyUserInteraction() should clear ForcedIdle")
	}
	if !got.Used || got.LastUsedElapsed != 1000 || got.LastUsedScreenOnElapsed != 500 {
		t.Errorf("usage timestamps not recorded: %+v", got)
	}
}

func TestApplyNotificationSeen_PromotesFromRareToWorkingSet(t *testing.T) {
	h := domain.AppHistory{CurrentBucket: domain.Rare, CurrentReason: domain.Tagged{Reason: domain.ReasonTimeout}}
	got := ApplyNotificationSeen(h, 1000)
	if got.CurrentBucket != domain.WorkingSet {
		t.Errorf("CurrentBucket = %v, want WorkingSet", got.CurrentBucket)
	}
}

func TestApplyNotificationSeen_BypassesForcedIdle(t *testing.T) {
	h := domain.AppHistory{CurrentBucket: domain.Rare, CurrentReason: domain.Tagged{Reason: domain.ReasonForced}, ForcedIdle: true}
	got := ApplyNotificationSeen(h, 1000)
	if got.CurrentBucket != domain.WorkingSet || got.CurrentReason.Reason != domain.ReasonUsage {
		t.Errorf("ApplyNotificationSeen() = %+v, want WorkingSet/Usage even over a FORCED record", got)
	}
	if got.ForcedIdle {
		t.Error("ApplyNotificationSeen() should clear ForcedIdle")
	}
}

func TestApplyNotificationSeen_NeverDemotesAnAlreadyActiveApp(t *testing.T) {
	h := domain.AppHistory{CurrentBucket: domain.Active, CurrentReason: domain.Tagged{Reason: domain.ReasonUsage}}
	got := ApplyNotificationSeen(h, 1000)
	if got != h {
		t.Errorf("ApplyNotificationSeen() = %+v, want no-op on an already-Active app", got)
	}
}

func TestApplyNotificationSeen_NoopAtWorkingSet(t *testing.T) {
	h := domain.AppHistory{CurrentBucket: domain.WorkingSet, CurrentReason: domain.Tagged{Reason: domain.ReasonTimeout}}
	got := ApplyNotificationSeen(h, 1000)
	if got != h {
		t.Errorf("ApplyNotificationSeen() = %+v, want no-op already at WorkingSet", got)
	}
}

func TestApplyForceIdleState_PinsToRare(t *testing.T) {
	h := domain.AppHistory{CurrentBucket: domain.Active, CurrentReason: domain.Tagged{Reason: domain.ReasonUsage}}
	got := ApplyForceIdleState(h, true, 1000)
	if got.CurrentBucket != domain.Rare || got.CurrentReason.Reason != domain.ReasonForced || !got.ForcedIdle {
		t.Errorf("ApplyForceIdleState(true) = %+v, want Rare/Forced/ForcedIdle", got)
	}
}

func TestApplyForceIdleState_ClearingReclassifiesAsActive(t *testing.T) {
	h := domain.AppHistory{CurrentBucket: domain.Rare, CurrentReason: domain.Tagged{Reason: domain.ReasonForced}, ForcedIdle: true}
	got := ApplyForceIdleState(h, false, 1000)
	if got.CurrentBucket != domain.Active || got.CurrentReason.Reason != domain.ReasonUsage || got.ForcedIdle {
		t.Errorf("ApplyForceIdleState(false) = %+v, want Active/Usage/!ForcedIdle", got)
	}
}
