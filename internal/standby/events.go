package standby

import "github.com/lumenhost/standbyd/internal/domain"

// ApplyUserInteraction is the USER_INTERACTION event mapping (§4.2). It
// always takes effect — unlike ApplySetBucket, it does not go through
// the source-precedence matrix: a real interaction with the app wins
// over any administrative state, including a forced-idle pin.
func ApplyUserInteraction(h domain.AppHistory, elapsed, elapsedScreenOn uint64) domain.AppHistory {
	h.CurrentBucket = domain.Active
	h.CurrentReason = domain.Tagged{Reason: domain.ReasonUsage}
	h.BucketSetAtElapsed = elapsed

	h.Used = true
	h.LastUsedElapsed = elapsed
	h.LastUsedScreenOnElapsed = elapsedScreenOn

	h.ForcedIdle = false
	return h
}

// ApplyNotificationSeen is the NOTIFICATION_SEEN event mapping (§4.2):
// it promotes an app sitting in Frequent, Rare, or Never up to
// WorkingSet, but never touches an app already at WorkingSet or more
// active. Like ApplyUserInteraction this bypasses the precedence
// matrix — a notification can wake even a forced-idle app — but it
// only ever produces WorkingSet, never Active, so it cannot mask a
// real interaction.
func ApplyNotificationSeen(h domain.AppHistory, elapsed uint64) domain.AppHistory {
	if h.CurrentBucket <= domain.WorkingSet {
		return h
	}
	h.CurrentBucket = domain.WorkingSet
	h.CurrentReason = domain.Tagged{Reason: domain.ReasonUsage}
	h.BucketSetAtElapsed = elapsed
	h.ForcedIdle = false
	return h
}

// ApplyForceIdleState implements force_idle_state (§4.2): an
// unconditional administrative write, also outside the precedence
// matrix. Setting idle=true pins the app to Rare with reason Forced;
// clearing it reclassifies the app as Active with reason Usage, the
// same terminal state a fresh interaction would produce.
func ApplyForceIdleState(h domain.AppHistory, idle bool, elapsed uint64) domain.AppHistory {
	h.ForcedIdle = idle
	if idle {
		h.CurrentBucket = domain.Rare
		h.CurrentReason = domain.Tagged{Reason: domain.ReasonForced}
	} else {
		h.CurrentBucket = domain.Active
		h.CurrentReason = domain.Tagged{Reason: domain.ReasonUsage}
	}
	h.BucketSetAtElapsed = elapsed
	return h
}
