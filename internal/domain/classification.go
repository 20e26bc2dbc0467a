package domain

// Action is the single business action selected for a store observation.
type Action string

const (
	ActionNoChange         Action = "No Change"
	ActionChangeHours      Action = "Change Store Hours"
	ActionTemporaryClosure Action = "Temporarily Close For Day"
	ActionPermanentClosure Action = "Permanently Close Store"
	ActionAddressChange    Action = "Change Store Address"
	ActionError            Action = "Error"
)

// Deactivation reason codes consumed by the bulk-upload tool.
const (
	DeactivationReasonPermanent = 23
	DeactivationReasonTemporary = 67
)

// Temp-deactivation durations in hours. LongTermReviewHours is a
// placeholder meaning "deactivated until manually reviewed", not a
// measured duration.
const (
	LongTermReviewHours = 700
	DayClosureHours     = 12
)

// HolidayHoursEntry is one holiday line read off a posted sign.
// Start/End are empty when the store is closed for the holiday, and may
// also be empty for "regular hours" style announcements.
type HolidayHoursEntry struct {
	Holiday string
	IsOpen  bool
	Start   string
	End     string
}

// ClassificationResult is the engine's verdict for one observation.
// Constructed once, immutable thereafter.
type ClassificationResult struct {
	Action                 Action
	Reason                 string
	SummaryCategory        string
	DeactivationReasonCode int // 0 when no deactivation applies
	IsTemporary            bool
	Confidence             float64
	NewAddress             string
	TempDurationHours      int
	HolidayHours           []HolidayHoursEntry

	// Schedule is populated only when Action is ActionChangeHours.
	// All seven canonical days are present; untouched days carry empty
	// strings.
	Schedule WeekHours
}
