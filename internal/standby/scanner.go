package standby

import "github.com/lumenhost/standbyd/internal/domain"

// ScanOne runs the idle-timeout step of the periodic scan (C6, §4.4) for
// a single history record and returns the possibly-updated record plus
// whether it changed. It never mutates h's storage — callers apply the
// result through the history store so bucket-change notifications fire
// exactly once per actual transition.
//
// A PREDICTED assignment is handled as its own branch: while it hasn't
// aged past PredictionTimeoutMS it is left alone entirely (a live
// prediction is never second-guessed by elapsed-time accounting), and
// once it has, it is replaced unconditionally by a fresh
// timeout-classification — not demoted one rank from the stale
// predicted bucket, which a predicted bucket far out of step with real
// usage would get wrong in either direction. Every other reason is
// demoted only when the timeout-driven candidate is strictly more idle
// than the stored bucket.
func ScanOne(h domain.AppHistory, elapsed, elapsedScreenOn uint64, th Thresholds) (domain.AppHistory, bool) {
	if h.CurrentReason.Reason == domain.ReasonForced {
		return h, false
	}
	if h.CurrentBucket == domain.Never && h.CurrentReason.Reason != domain.ReasonPredicted {
		return h, false
	}

	if h.CurrentReason.Reason == domain.ReasonPredicted {
		if !PredictionExpired(h, elapsed) {
			return h, false
		}
		cand := Classify(h, elapsed, elapsedScreenOn, th)
		return ApplySetBucket(h, cand, domain.Tagged{Reason: domain.ReasonTimeout}, elapsed)
	}

	cand := Classify(h, elapsed, elapsedScreenOn, th)
	if cand <= h.CurrentBucket {
		return h, false
	}
	return ApplySetBucket(h, cand, domain.Tagged{Reason: domain.ReasonTimeout}, elapsed)
}
