// Package query builds the per-step filter sets sent to the external funnel
// API from a metric definition and a segmentation selection.
package query

import (
	"fmt"
	"strings"

	"experiment-funnel-service/internal/catalog"
	"experiment-funnel-service/internal/model"
)

// StepQuery is one fully-resolved funnel step: the event plus every filter
// that applies to it, global and metric-declared, in application order.
type StepQuery struct {
	Event   string
	Filters []model.Predicate
}

// ConfigError reports a malformed metric definition. It is never retried.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// declared records which dimensions the metric already filters explicitly on
// some step. A metric-declared dimension suppresses the matching global
// filter for the whole query so the dimension is never applied twice.
type declared struct {
	flowType bool
	tripType bool
	bundle   bool
	pax      bool
}

// Build resolves the ordered per-step filter sets for one (metric, selection)
// pair. Step order is preserved exactly: funnels are strictly sequential and
// the order defines the conversion path.
//
// Device and culture filters are applied identically to every step: they
// define the cohort's identity, and dropping them mid-funnel makes the step
// counts incomparable. Flow-type, trip-type, bundle and traveler-group
// filters are contextual and subject to two exemptions:
//
//   - the terminal revenue event never receives flow-type or bundle filters,
//     because its event schema lacks usable properties for them;
//   - under a ghost anchor (HiddenFirstStep), only step 0 receives contextual
//     filters. The anchor scopes the cohort and the funnel's sequential
//     nature carries that scope forward, so later steps are left unfiltered
//     rather than silently zeroed by a missing property. Traveler-group is
//     the one exception: the revenue event is the authoritative source of
//     final passenger composition and is always checked.
func Build(metric model.Metric, sel model.Selection) ([]StepQuery, error) {
	if len(metric.Steps) < 2 {
		return nil, &ConfigError{Message: fmt.Sprintf(
			"metric %q has %d steps, a funnel needs at least 2", metric.Name, len(metric.Steps))}
	}

	segmentation := segmentationFilters(sel)
	sup := declaredDimensions(metric)

	steps := make([]StepQuery, 0, len(metric.Steps))
	for i, step := range metric.Steps {
		filters := make([]model.Predicate, 0, len(segmentation)+len(step.Filters))
		filters = append(filters, segmentation...)

		revenue := catalog.IsRevenueEvent(step.Event)
		skipContext := metric.HiddenFirstStep && i > 0

		if active(sel.FlowType) && !sup.flowType && !revenue && !skipContext {
			filters = append(filters, catalog.FlowTypeFilter(sel.FlowType)...)
		}
		if active(sel.TripType) && !sup.tripType && !skipContext {
			filters = append(filters, catalog.TripTypeFilter(sel.TripType)...)
		}
		if active(sel.BundleProfile) && !sup.bundle && !revenue && !skipContext {
			filters = append(filters, catalog.BundleFilters(sel.BundleProfile)...)
		}
		switch {
		case active(sel.TravelGroup):
			if !sup.pax && (!skipContext || revenue) {
				filters = append(filters, catalog.TravelGroupFilters(sel.TravelGroup, step.Event)...)
			}
		case active(sel.PaxAdultCount):
			if !sup.pax && (!skipContext || revenue) {
				filters = append(filters, catalog.PaxAdultCountFilter(sel.PaxAdultCount)...)
			}
		}

		// Metric-declared filters always come last and unmodified; they
		// compose with the global ones by concatenation (logical AND).
		filters = append(filters, step.Filters...)

		steps = append(steps, StepQuery{Event: step.Event, Filters: filters})
	}
	return steps, nil
}

// segmentationFilters resolves the cohort-identity filters. An unrecognized
// value resolves to no filter.
func segmentationFilters(sel model.Selection) []model.Predicate {
	var filters []model.Predicate
	if active(sel.Culture) {
		filters = append(filters, catalog.CultureFilter(sel.Culture)...)
	}
	if active(sel.Device) {
		filters = append(filters, catalog.DeviceFilter(sel.Device)...)
	}
	return filters
}

func declaredDimensions(metric model.Metric) declared {
	var d declared
	for _, step := range metric.Steps {
		for _, f := range step.Filters {
			key := strings.ToLower(f.Key)
			switch {
			case key == "flow_type":
				d.flowType = true
			case key == "trip_type":
				d.tripType = true
			case strings.Contains(key, "bundle"):
				d.bundle = true
			case strings.Contains(key, "pax"):
				d.pax = true
			}
		}
	}
	return d
}

func active(value string) bool {
	return value != "" && !strings.EqualFold(value, model.All)
}
