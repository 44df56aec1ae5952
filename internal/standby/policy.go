// Package standby implements the App Standby Controller engine: the
// per-(user, package) classification state machine (C1-C7). Nothing in
// this package touches a database, the network, or the filesystem —
// every external fact comes through domain.Injector (§5: "the engine
// itself never blocks on I/O").
package standby

import "github.com/lumenhost/standbyd/internal/domain"

// PredictionTimeoutMS is the age at which a PREDICTED assignment
// decays. Resolved from original_source's AppStandbyControllerTests
// (testPredictionTimedout): it is its own constant, not one of the
// four rank thresholds — spec.md §4.2's "(i.e., one day in defaults)"
// aside is coincidental to that test's WORKING_SET threshold also
// being 12h. See DESIGN.md, Open Question decisions.
const PredictionTimeoutMS = 12 * hourMS

// Classify computes the timeout-driven candidate bucket for h given the
// current elapsed/screen-on clocks and thresholds (§4.2).
func Classify(h domain.AppHistory, elapsed, elapsedScreenOn uint64, th Thresholds) domain.Bucket {
	elapsedSinceUse := satSub(elapsed, h.LastUsedElapsed)
	screenOnSinceUse := satSub(elapsedScreenOn, h.LastUsedScreenOnElapsed)

	best := domain.Active
	for _, b := range []domain.Bucket{domain.WorkingSet, domain.Frequent, domain.Rare} {
		r := b.Rank()
		if elapsedSinceUse >= th.Elapsed[r] && screenOnSinceUse >= th.Screen[r] {
			best = b
		}
	}
	return best
}

// satSub returns a-b, or 0 if b > a (clocks only move forward, but
// defensive against a stale timestamp observed before a clock reset).
func satSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// PredictionExpired reports whether h's PREDICTED assignment has aged
// past PredictionTimeoutMS and should be abandoned in favor of a fresh
// timeout-driven classification.
func PredictionExpired(h domain.AppHistory, elapsed uint64) bool {
	if h.CurrentReason.Reason != domain.ReasonPredicted {
		return false
	}
	return satSub(elapsed, h.LastPredictedAtElapsed) > PredictionTimeoutMS
}

// Query answers get_app_standby_bucket (§6): a pure read of history +
// clocks, with one grace-window exception carried from original_source
// (testTimeout): an app used more recently than the WorkingSet
// threshold always reads back as Active, regardless of any stale
// stored bucket from an earlier prediction — but only once it has
// actually been used at least once; a never-used package simply
// reports its stored bucket (I7: no hidden mutation either way). When
// includeScreenTime is set, the screen-on time since that use must also
// be under the rank-0 screen threshold; with the default threshold of 0
// that never holds, so the stored bucket is returned.
func Query(h domain.AppHistory, elapsed, elapsedScreenOn uint64, th Thresholds, includeScreenTime bool) domain.Bucket {
	if h.Used {
		elapsedSinceUse := satSub(elapsed, h.LastUsedElapsed)
		fresh := elapsedSinceUse < th.Elapsed[domain.WorkingSet.Rank()]
		if includeScreenTime {
			screenOnSinceUse := satSub(elapsedScreenOn, h.LastUsedScreenOnElapsed)
			fresh = fresh && screenOnSinceUse < th.Screen[domain.WorkingSet.Rank()]
		}
		if fresh {
			return domain.Active
		}
	}
	return h.CurrentBucket
}

// canAccept is the 5x5 source-precedence acceptance matrix (§4.2).
// Rows are the incoming reason, columns the current reason.
func canAccept(newReason, curReason domain.Reason) bool {
	if newReason == domain.ReasonForced {
		return true
	}
	if curReason == domain.ReasonForced {
		return false
	}
	if newReason == domain.ReasonDefault {
		return curReason == domain.ReasonDefault
	}
	// USAGE, PREDICTED, and TIMEOUT all accept over any non-FORCED
	// current reason.
	return true
}

// ApplySetBucket applies the source-arbitrated assignment rule to h
// (§4.2's "source-arbitrated assignment"), used by set_app_standby_bucket
// and by the scanner's TIMEOUT writes. It returns the possibly updated
// history and whether the write was accepted. Rejections — including
// the PREDICTED side-conditions and precedence violations — are silent
// no-ops per §7, not errors: the caller already validated that
// newBucket/newReason are individually well-formed before reaching here.
func ApplySetBucket(h domain.AppHistory, newBucket domain.Bucket, newReason domain.Tagged, now uint64) (domain.AppHistory, bool) {
	if !canAccept(newReason.Reason, h.CurrentReason.Reason) {
		return h, false
	}

	if newReason.Reason == domain.ReasonPredicted {
		if newBucket == domain.Never || h.CurrentBucket == domain.Never {
			return h, false
		}
	}

	h.CurrentBucket = newBucket
	h.CurrentReason = newReason
	h.BucketSetAtElapsed = now

	if newReason.Reason == domain.ReasonPredicted {
		b := newBucket
		h.LastPredictedBucket = &b
		h.LastPredictedAtElapsed = now
	}

	return h, true
}
