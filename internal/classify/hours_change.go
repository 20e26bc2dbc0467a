package classify

import (
	"fmt"

	"storebot/internal/domain"
)

// buildHoursChange evaluates the hour-change preconditions after the
// clarity gate has already passed. Any failed precondition resolves to
// NoChange with a traceable reason; this is a policy reject, never an
// error.
func (e *Engine) buildHoursChange(ev *rowEvidence) domain.ClassificationResult {
	reject := func(reason, category string) domain.ClassificationResult {
		return domain.ClassificationResult{
			Action:          domain.ActionNoChange,
			Reason:          reason,
			SummaryCategory: category,
			Confidence:      scaledConfidence(ev.posted, ev.clarity),
		}
	}

	if e.det.IsHoursHallucinated(ev.text, ev.posted) {
		return reject(
			fmt.Sprintf("extracted hours flagged as hallucinated (days=%d)", len(ev.posted)),
			"Hours extraction untrusted")
	}
	if e.det.HasSevereQualityIssue(ev.text) || e.det.HasSignSizeIssue(ev.text, ev.clarity) {
		return reject(
			"severe image quality issue blocks hour changes",
			"Image quality issues for hour extraction")
	}

	posted := broadcastUniformPair(ev.posted)
	complete := posted.CompleteDays()
	if complete < e.policy.MinCompleteDays {
		return reject(
			fmt.Sprintf("too few complete days extracted (%d < %d)", complete, e.policy.MinCompleteDays),
			"Too few days extracted to safely change hours")
	}

	differing := e.countDifferingDays(posted, ev.baseline)
	conf := 0.6*(float64(complete)/7.0) + 0.4*ev.clarity

	if differing < e.policy.MinDifferingDays {
		return reject(
			fmt.Sprintf("only %d days differ beyond %d min tolerance (min %d)",
				differing, e.policy.ToleranceMinutes, e.policy.MinDifferingDays),
			"Only minor time difference")
	}
	// A lone differing day is likely OCR noise unless the blended
	// confidence clears the secondary bar.
	if differing == 1 && conf < e.policy.SingleDayConfidenceBar {
		return reject(
			fmt.Sprintf("single differing day below confidence bar (%.2f < %.2f)",
				conf, e.policy.SingleDayConfidenceBar),
			"Single-day difference treated as noise")
	}

	return domain.ClassificationResult{
		Action:          domain.ActionChangeHours,
		Reason:          ev.text,
		SummaryCategory: "Posted hours differ from hours of record",
		Confidence:      conf,
		Schedule:        fullWeekSchedule(posted),
	}
}

// broadcastUniformPair handles "every day 9am-9pm" style signs: when
// at most two distinct days were extracted but all share one start and
// one end, that single pair applies to all seven canonical days.
func broadcastUniformPair(posted domain.WeekHours) domain.WeekHours {
	complete := domain.WeekHours{}
	for day, d := range posted {
		if d.Complete() {
			complete[day] = d
		}
	}
	if len(complete) == 0 || len(complete) > 2 {
		return posted
	}

	starts := map[string]bool{}
	ends := map[string]bool{}
	var pair domain.DayHours
	for _, d := range complete {
		starts[d.Start] = true
		ends[d.End] = true
		pair = d
	}
	if len(starts) != 1 || len(ends) != 1 {
		return posted
	}

	out := domain.WeekHours{}
	for _, day := range domain.Weekdays {
		out[day] = pair
	}
	return out
}

// countDifferingDays compares complete posted days against the
// baseline using circular wall-clock distance. A posted day whose
// baseline counterpart is missing or incomplete counts as differing;
// incomplete days on either side are never paired bound-by-bound.
func (e *Engine) countDifferingDays(posted, baseline domain.WeekHours) int {
	tol := e.policy.ToleranceMinutes
	n := 0
	for day, p := range posted {
		if !p.Complete() {
			continue
		}
		b, ok := baseline[day]
		if !ok || !b.Complete() {
			n++
			continue
		}
		startDiff, err1 := domain.CircularMinutes(p.Start, b.Start)
		endDiff, err2 := domain.CircularMinutes(p.End, b.End)
		if err1 != nil || err2 != nil {
			n++
			continue
		}
		if startDiff > tol || endDiff > tol {
			n++
		}
	}
	return n
}

// scaledConfidence is the confidence attached to hour-related policy
// rejects: coverage-weighted, so sparse extractions score low.
func scaledConfidence(posted domain.WeekHours, clarity float64) float64 {
	return 0.6*(float64(posted.CompleteDays())/7.0) + 0.4*clarity
}

// fullWeekSchedule returns all seven canonical days, with empty
// strings for days the sign did not cover.
func fullWeekSchedule(posted domain.WeekHours) domain.WeekHours {
	out := domain.WeekHours{}
	for _, day := range domain.Weekdays {
		if d, ok := posted[day]; ok && d.Complete() {
			out[day] = d
		} else {
			out[day] = domain.DayHours{}
		}
	}
	return out
}
