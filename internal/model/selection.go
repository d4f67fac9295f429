package model

import "time"

// All is the sentinel dimension value meaning "no filter". Matching is
// case-insensitive throughout.
const All = "ALL"

// Selection is the frozen snapshot of global segmentation choices for one
// analysis run. It is never mutated mid-pipeline; the breakdown loop copies
// it per segment value.
type Selection struct {
	ExperimentID     string
	StartDate        time.Time
	EndDate          time.Time
	Device           string
	Culture          string
	FlowType         string
	TripType         string
	BundleProfile    string
	TravelGroup      string
	PaxAdultCount    string
	ConversionWindow int // seconds
}
