package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ClosureCategory labels one family of temporary-closure phrases.
// Categories are evaluated in order; the first match names the closure.
type ClosureCategory struct {
	Label   string   `yaml:"label"`
	Phrases []string `yaml:"phrases"`
}

// Lexicons holds every phrase set the detectors and extractors match
// against. The sets are deliberately distinct even where they overlap
// in spirit (uncertainty vs severe-quality vs redirect) so tuning one
// never silently changes another. Loaded once at startup and treated
// as immutable for the run.
type Lexicons struct {
	Uncertainty        []string          `yaml:"uncertainty"`
	SevereQuality      []string          `yaml:"severe_quality"`
	SignDescription    []string          `yaml:"sign_description"`
	Negations          []string          `yaml:"negations"`
	PermanentClosure   []string          `yaml:"permanent_closure"`
	LongTermClosure    []string          `yaml:"long_term_closure"`
	PaymentIssue       []string          `yaml:"payment_issue"`
	Attribution        []string          `yaml:"attribution"`
	Relocation         []string          `yaml:"relocation"`
	RelocationExplicit []string          `yaml:"relocation_explicit"`
	RelocationRedirect []string          `yaml:"relocation_redirect"`
	HoursDenial        []string          `yaml:"hours_denial"`
	LocationCues       []string          `yaml:"location_cues"`
	Unreadable         []string          `yaml:"unreadable"`
	Reflection         []string          `yaml:"reflection"`
	ClosureCategories  []ClosureCategory `yaml:"closure_categories"`
}

// DefaultLexicons returns the production phrase sets.
func DefaultLexicons() Lexicons {
	return Lexicons{
		Uncertainty: []string{
			"i cannot determine", "cannot determine", "unable to determine",
			"i can't tell", "can't tell", "hard to tell", "not sure", "unsure",
			"uncertain", "unclear", "too blurry", "blurry",
			"cannot confirm", "can't confirm", "difficult to determine",
			"cannot be determined", "not possible to determine",
		},
		SevereQuality: []string{
			"difficult to read", "hard to read", "hard to make out",
			"difficult to see clearly", "small text", "too small", "tiny",
			"far away", "far from the camera", "in the background",
			"unreadable", "illegible",
		},
		SignDescription: []string{
			"sign says", "sign reads", "sign states", "the sign", "a sign",
			"posted sign", "sign posted", "sign on the", "sign in the window",
			"notice on", "posted on the door", "handwritten sign",
			"printed sign", "digital display", "posted notice",
		},
		Negations: []string{
			"no ", "not ", "without", "there is no", "there are no",
			"isn't", "aren't", "doesn't", "does not", "absence of",
		},
		PermanentClosure: []string{
			"permanently close", "permanently closed", "permanently closing",
			"closed permanently", "permanent closure",
		},
		LongTermClosure: []string{
			"until further notice", "closed indefinitely", "indefinitely closed",
			"for the foreseeable future", "closed until further",
			"extended closure",
		},
		PaymentIssue: []string{
			"payment system", "card system", "register system", "cash only",
			"card reader", "credit card machine", "payment processing",
			"pos system", "cards are down",
		},
		Attribution: []string{
			"sign says", "sign reads", "sign states", "per the sign",
			"according to the sign", "posted notice", "notice says",
		},
		Relocation: []string{
			"we have moved", "we've moved", "we are moving", "we're moving",
			"has moved to", "moving to", "relocated", "relocating",
			"new location", "new address", "now located",
		},
		RelocationExplicit: []string{
			"we have moved to", "we've moved to", "relocated to",
			"our new address is", "new address:", "now located at",
		},
		RelocationRedirect: []string{
			"visit another store", "store locator", "will reopen",
			"visit our other", "nearest location", "other locations",
			"another location near",
		},
		HoursDenial: []string{
			"no hours posted", "no hours are posted", "no hours visible",
			"no hours are visible", "no posted hours", "no store hours",
			"cannot see hours", "cannot see the hours", "can't see hours",
			"hours are not visible", "hours are not posted",
			"unable to read the hours", "no visible hours",
		},
		LocationCues: []string{
			"on the door", "on the window", "in the window", "at the entrance",
			"on the storefront", "posted on", "on the glass", "above the door",
			"next to the door", "front door", "storefront",
		},
		Unreadable: []string{
			"too small to read", "too far to read", "too far away to read",
			"cannot make out", "can't make out", "illegible", "unreadable",
			"too distant to read",
		},
		Reflection: []string{
			"glare", "reflection", "reflective", "behind glass",
			"through window", "through the window", "through the glass",
		},
		ClosureCategories: []ClosureCategory{
			{Label: "Power outage", Phrases: []string{
				"no power", "power out", "power outage", "lost power"}},
			{Label: "Weather", Phrases: []string{
				"weather", "storm", "snow", "flood", "hurricane"}},
			{Label: "Maintenance", Phrases: []string{
				"maintenance", "repairs", "renovation", "remodel", "cleaning"}},
			{Label: "Staffing", Phrases: []string{
				"staffing", "short staffed", "no staff", "staff shortage"}},
			{Label: "System issue", Phrases: []string{
				"system down", "systems are down", "register down",
				"technical difficulties"}},
			{Label: "General closure", Phrases: []string{
				"closed for the day", "closed today", "closed due to",
				"store is closed", "temporarily closed", "temporarily close"}},
		},
	}
}

// LoadLexicons reads a YAML overlay. Any set present and non-empty in
// the file replaces the default set wholesale; absent sets keep their
// defaults. This is the test-time and ops substitution point.
func LoadLexicons(path string) (Lexicons, error) {
	lex := DefaultLexicons()
	data, err := os.ReadFile(path)
	if err != nil {
		return lex, fmt.Errorf("read lexicons: %w", err)
	}
	var overlay Lexicons
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return lex, fmt.Errorf("parse lexicons yaml: %w", err)
	}
	merge := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	merge(&lex.Uncertainty, overlay.Uncertainty)
	merge(&lex.SevereQuality, overlay.SevereQuality)
	merge(&lex.SignDescription, overlay.SignDescription)
	merge(&lex.Negations, overlay.Negations)
	merge(&lex.PermanentClosure, overlay.PermanentClosure)
	merge(&lex.LongTermClosure, overlay.LongTermClosure)
	merge(&lex.PaymentIssue, overlay.PaymentIssue)
	merge(&lex.Attribution, overlay.Attribution)
	merge(&lex.Relocation, overlay.Relocation)
	merge(&lex.RelocationExplicit, overlay.RelocationExplicit)
	merge(&lex.RelocationRedirect, overlay.RelocationRedirect)
	merge(&lex.HoursDenial, overlay.HoursDenial)
	merge(&lex.LocationCues, overlay.LocationCues)
	merge(&lex.Unreadable, overlay.Unreadable)
	merge(&lex.Reflection, overlay.Reflection)
	if len(overlay.ClosureCategories) > 0 {
		lex.ClosureCategories = overlay.ClosureCategories
	}
	return lex, nil
}
