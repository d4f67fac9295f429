package model

// Step is one funnel event together with the filters the metric itself
// declares for it.
type Step struct {
	Event   string
	Filters []Predicate
}

// Metric is a named, ordered funnel definition. A funnel needs at least a
// starting and an ending event, so a valid Metric has two or more steps.
//
// HiddenFirstStep marks metrics whose real first event cannot be segment
// filtered: the catalog prepends a synthetic anchor event as step 0 and the
// anchor is excluded from reporting.
type Metric struct {
	Name            string
	Category        string
	Steps           []Step
	HiddenFirstStep bool
}

// FirstEvent returns the name of the metric's entry step, skipping the
// synthetic anchor when one is present.
func (m Metric) FirstEvent() string {
	if m.HiddenFirstStep && len(m.Steps) > 1 {
		return m.Steps[1].Event
	}
	if len(m.Steps) > 0 {
		return m.Steps[0].Event
	}
	return ""
}

// FinalEvent returns the name of the metric's terminal step.
func (m Metric) FinalEvent() string {
	if len(m.Steps) == 0 {
		return ""
	}
	return m.Steps[len(m.Steps)-1].Event
}
