package model

// ExperimentVariant is one arm of an experiment as reported by the
// management API.
type ExperimentVariant struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Experiment is the management API's view of an A/B/N experiment.
type Experiment struct {
	Key       string              `json:"key"`
	Name      string              `json:"name"`
	State     string              `json:"state"`
	StartDate string              `json:"startDate"`
	EndDate   string              `json:"endDate"`
	Variants  []ExperimentVariant `json:"variants"`
}
