// Package classify maps one free-form vision-model response to exactly
// one business action with a calibrated confidence. The decision
// procedure is a strict priority cascade: an ordered rule list walked
// by a single first-match driver. The first rule whose predicate
// matches ends the walk — either with its action, or demoted to
// NoChange when the reported clarity sits below the rule's gate.
package classify

import (
	"fmt"
	"strings"

	"storebot/internal/config"
	"storebot/internal/domain"
	"storebot/internal/evidence"
	"storebot/internal/signal"
)

type Engine struct {
	ex     *evidence.Extractor
	det    *signal.Detector
	gates  config.Gates
	policy config.HoursPolicy
	reloc  []string
}

func NewEngine(lex config.Lexicons, gates config.Gates, policy config.HoursPolicy) *Engine {
	return &Engine{
		ex:     evidence.New(lex, gates.HolidayHours),
		det:    signal.New(lex),
		gates:  gates,
		policy: policy,
		reloc:  lex.Relocation,
	}
}

// rowEvidence carries everything extracted for one observation. Built
// once per row; rules only read it.
type rowEvidence struct {
	obs      domain.StoreObservation
	text     string
	lower    string
	clarity  float64
	posted   domain.WeekHours
	baseline domain.WeekHours
}

// rule is one step of the cascade. gate is the minimum clarity needed
// to accept the rule's action once its predicate matches.
type rule struct {
	name  string
	gate  float64
	match func(ev *rowEvidence) bool
	build func(ev *rowEvidence) domain.ClassificationResult
}

// Classify runs the full cascade for one observation and response.
func (e *Engine) Classify(obs domain.StoreObservation, responseText string) domain.ClassificationResult {
	ev := &rowEvidence{
		obs:      obs,
		text:     responseText,
		lower:    strings.ToLower(responseText),
		posted:   e.ex.Hours(responseText),
		baseline: e.ex.Hours(obs.StoreHours),
	}
	ev.clarity = e.ex.Clarity(responseText)
	ev.clarity = e.det.AdjustClarityForReflection(responseText, ev.clarity, ev.posted)

	result := e.run(ev)

	// Holiday-hours extraction rides along with whichever action wins,
	// under its own clarity gate independent of the winner's.
	if ev.clarity >= e.gates.HolidayHours {
		result.HolidayHours = e.ex.SpecialHours(responseText, ev.clarity)
	}
	return result
}

func (e *Engine) run(ev *rowEvidence) domain.ClassificationResult {
	for _, r := range e.rules() {
		if !r.match(ev) {
			continue
		}
		if ev.clarity < r.gate {
			return e.demote(r, ev)
		}
		return r.build(ev)
	}
	// Fallback: nothing actionable in the response.
	return domain.ClassificationResult{
		Action:          domain.ActionNoChange,
		Reason:          ev.text,
		SummaryCategory: "No change required",
		Confidence:      ev.clarity,
	}
}

// demote records which gate failed and at what measured clarity; the
// traceable reason is required for operator audit.
func (e *Engine) demote(r rule, ev *rowEvidence) domain.ClassificationResult {
	return domain.ClassificationResult{
		Action:          domain.ActionNoChange,
		Reason:          fmt.Sprintf("clarity gate not met: rule=%s required=%.2f clarity=%.2f", r.name, r.gate, ev.clarity),
		SummaryCategory: "Low clarity image",
		Confidence:      ev.clarity,
	}
}

func (e *Engine) rules() []rule {
	return []rule{
		{
			// Any voiced uncertainty forces NoChange regardless of the
			// self-reported clarity score.
			name: "uncertainty",
			match: func(ev *rowEvidence) bool {
				return e.ex.HasUncertainty(ev.text)
			},
			build: func(ev *rowEvidence) domain.ClassificationResult {
				return domain.ClassificationResult{
					Action:          domain.ActionNoChange,
					Reason:          "model expressed uncertainty: " + ev.text,
					SummaryCategory: "Model uncertain",
					Confidence:      0.20,
				}
			},
		},
		{
			name: "relocation",
			gate: e.gates.Relocation,
			match: func(ev *rowEvidence) bool {
				sig, redirected := e.det.IsRelocation(ev.text)
				if !sig || redirected {
					return false
				}
				return e.ex.NewAddress(ev.text, e.reloc) != "" || e.det.HasExplicitRelocation(ev.text)
			},
			build: func(ev *rowEvidence) domain.ClassificationResult {
				conf := ev.clarity
				if conf < 0.85 {
					conf = 0.85
				}
				return domain.ClassificationResult{
					Action:          domain.ActionAddressChange,
					Reason:          ev.text,
					SummaryCategory: "Relocation detected",
					Confidence:      conf,
					NewAddress:      e.ex.NewAddress(ev.text, e.reloc),
				}
			},
		},
		{
			name: "long_term_closure",
			gate: e.gates.LongTermClosure,
			match: func(ev *rowEvidence) bool {
				return e.det.IsLongTermTemporaryClosure(ev.text)
			},
			build: func(ev *rowEvidence) domain.ClassificationResult {
				conf := ev.clarity
				if conf < 0.85 {
					conf = 0.85
				}
				return domain.ClassificationResult{
					Action:                 domain.ActionTemporaryClosure,
					Reason:                 ev.text,
					SummaryCategory:        "Long-term closure (manual review)",
					DeactivationReasonCode: domain.DeactivationReasonTemporary,
					IsTemporary:            true,
					TempDurationHours:      domain.LongTermReviewHours,
					Confidence:             conf,
				}
			},
		},
		{
			// Belt and suspenders: the detector and the literal
			// substring must both agree before a store is closed for
			// good.
			name: "permanent_closure",
			gate: e.gates.PermanentClosure,
			match: func(ev *rowEvidence) bool {
				return strings.Contains(ev.lower, "permanently close") && e.det.IsPermanentClosure(ev.text)
			},
			build: func(ev *rowEvidence) domain.ClassificationResult {
				return domain.ClassificationResult{
					Action:                 domain.ActionPermanentClosure,
					Reason:                 ev.text,
					SummaryCategory:        "Permanent closure detected",
					DeactivationReasonCode: domain.DeactivationReasonPermanent,
					Confidence:             0.95,
				}
			},
		},
		{
			name: "payment_issue",
			gate: e.gates.PaymentIssue,
			match: func(ev *rowEvidence) bool {
				return e.det.IsPaymentSystemIssue(ev.text)
			},
			build: func(ev *rowEvidence) domain.ClassificationResult {
				return domain.ClassificationResult{
					Action:                 domain.ActionTemporaryClosure,
					Reason:                 ev.text,
					SummaryCategory:        "Payment system issue",
					DeactivationReasonCode: domain.DeactivationReasonTemporary,
					IsTemporary:            true,
					TempDurationHours:      domain.DayClosureHours,
					Confidence:             maxFloat(0.80, ev.clarity),
				}
			},
		},
		{
			name: "temporary_closure",
			gate: e.gates.TemporaryClosure,
			match: func(ev *rowEvidence) bool {
				if got, _ := e.det.TemporaryClosure(ev.text); got {
					return true
				}
				sig, redirected := e.det.IsRelocation(ev.text)
				return sig && redirected
			},
			build: func(ev *rowEvidence) domain.ClassificationResult {
				category := "General closure"
				if got, label := e.det.TemporaryClosure(ev.text); got {
					category = label
				} else if sig, redirected := e.det.IsRelocation(ev.text); sig && redirected {
					category = "Directing customers elsewhere"
				}
				return domain.ClassificationResult{
					Action:                 domain.ActionTemporaryClosure,
					Reason:                 ev.text,
					SummaryCategory:        category,
					DeactivationReasonCode: domain.DeactivationReasonTemporary,
					IsTemporary:            true,
					TempDurationHours:      domain.DayClosureHours,
					Confidence:             maxFloat(0.80, ev.clarity),
				}
			},
		},
		{
			name: "change_hours",
			gate: e.gates.ChangeHours,
			match: func(ev *rowEvidence) bool {
				return ev.posted.CompleteDays() > 0
			},
			build: e.buildHoursChange,
		},
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
