package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"experiment-funnel-service/internal/model"
)

// Metric definition surface: every immediate subdirectory of the metrics
// root is a category, and every *_metrics.yaml file inside it contributes
// metrics. Adding a funnel is adding a manifest entry, no code changes.
const manifestSuffix = "_metrics.yaml"

// AnchorMap names the synthetic anchor event for first events that lack the
// properties segmentation filters bind to. Metrics starting with one of
// these events get the anchor prepended as a ghost first step.
var AnchorMap = map[string]string{
	"extra_selected": "extras_dom_loaded",

	"modal_ancillary_clicked": "baggage_dom_loaded",
	"baggage_selected":        "baggage_dom_loaded",
	"cabin_bag_selected":      "baggage_dom_loaded",
	"checked_bag_selected":    "baggage_dom_loaded",

	"dc_modal_dom_loaded":             "flight_dom_loaded_flight",
	"inbound_flight_selected_flight":  "flight_dom_loaded_flight",
	"outbound_flight_selected_flight": "flight_dom_loaded_flight",

	"inbound_seat_selected":  "seatmap_dom_loaded",
	"outbound_seat_selected": "seatmap_dom_loaded",
}

// Registry maps category -> metric name -> metric. It is rebuilt from disk
// on every load; there is no cache to go stale.
type Registry map[string]map[string]model.Metric

type manifest struct {
	Metrics map[string]metricSpec `yaml:"metrics"`
}

type metricSpec struct {
	HiddenFirstStep bool       `yaml:"hidden_first_step"`
	Events          []stepSpec `yaml:"events" validate:"required,min=2,dive"`
}

type stepSpec struct {
	Event   string            `yaml:"event" validate:"required"`
	Filters []model.Predicate `yaml:"filters" validate:"dive"`
}

// Loader reads and validates metric manifests.
type Loader struct {
	validate *validator.Validate
	log      zerolog.Logger
}

// NewLoader builds a Loader.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// LoadAll scans the metrics root and returns the full registry. A missing
// root yields an empty registry. Entries that fail validation are skipped
// with a warning; the load itself only fails on filesystem errors.
func (l *Loader) LoadAll(root string) (Registry, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Registry{}, nil
		}
		return nil, fmt.Errorf("read metrics root: %w", err)
	}

	registry := Registry{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		category := entry.Name()
		metrics, err := l.loadCategory(filepath.Join(root, category), category)
		if err != nil {
			return nil, err
		}
		if len(metrics) > 0 {
			registry[category] = metrics
		}
	}
	return registry, nil
}

func (l *Loader) loadCategory(dir, category string) (map[string]model.Metric, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read category %s: %w", category, err)
	}

	metrics := map[string]model.Metric{}
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), manifestSuffix) {
			continue
		}
		path := filepath.Join(dir, file.Name())
		if err := l.loadFile(path, category, metrics); err != nil {
			// A bad manifest must not take down the rest of the catalog.
			l.log.Warn().Err(err).Str("file", path).Msg("skipping metric manifest")
		}
	}
	return metrics, nil
}

func (l *Loader) loadFile(path, category string, out map[string]model.Metric) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	var m manifest
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}

	for name, spec := range m.Metrics {
		if err := l.validate.Struct(spec); err != nil {
			l.log.Warn().Err(err).Str("metric", name).Str("file", path).Msg("skipping malformed metric")
			continue
		}
		out[name] = l.applyAnchor(buildMetric(name, category, spec))
	}
	return nil
}

func buildMetric(name, category string, spec metricSpec) model.Metric {
	steps := make([]model.Step, 0, len(spec.Events))
	for _, ev := range spec.Events {
		steps = append(steps, model.Step{Event: ev.Event, Filters: ev.Filters})
	}
	return model.Metric{
		Name:            name,
		Category:        category,
		Steps:           steps,
		HiddenFirstStep: spec.HiddenFirstStep,
	}
}

// applyAnchor prepends the ghost anchor step when the metric's first event
// cannot carry segmentation filters.
func (l *Loader) applyAnchor(metric model.Metric) model.Metric {
	if len(metric.Steps) == 0 {
		return metric
	}
	anchor, ok := AnchorMap[metric.Steps[0].Event]
	if !ok || anchor == metric.Steps[0].Event {
		return metric
	}
	steps := make([]model.Step, 0, len(metric.Steps)+1)
	steps = append(steps, model.Step{Event: anchor})
	steps = append(steps, metric.Steps...)
	metric.Steps = steps
	metric.HiddenFirstStep = true
	return metric
}

// Flatten merges all categories into one name -> metric map. Name collisions
// across categories resolve last-write-wins in category name order; unique
// names are the catalog convention, not an enforced contract.
func Flatten(registry Registry) map[string]model.Metric {
	categories := make([]string, 0, len(registry))
	for category := range registry {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	flat := map[string]model.Metric{}
	for _, category := range categories {
		for name, metric := range registry[category] {
			flat[name] = metric
		}
	}
	return flat
}

// MetricInfo is a display summary of one metric, served by the catalog
// endpoint.
type MetricInfo struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	FirstEvent      string `json:"first_event"`
	FinalEvent      string `json:"final_event"`
	Steps           int    `json:"steps"`
	Filters         string `json:"filters"`
	HiddenFirstStep bool   `json:"hidden_first_step,omitempty"`
}

// Info summarizes a registry for display, sorted by category then name.
func Info(registry Registry) []MetricInfo {
	var infos []MetricInfo
	for category, metrics := range registry {
		for name, metric := range metrics {
			infos = append(infos, MetricInfo{
				Name:            name,
				Category:        category,
				FirstEvent:      metric.FirstEvent(),
				FinalEvent:      metric.FinalEvent(),
				Steps:           len(metric.Steps),
				Filters:         describeFilters(metric),
				HiddenFirstStep: metric.HiddenFirstStep,
			})
		}
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Category != infos[j].Category {
			return infos[i].Category < infos[j].Category
		}
		return infos[i].Name < infos[j].Name
	})
	return infos
}

func describeFilters(metric model.Metric) string {
	var parts []string
	for _, step := range metric.Steps {
		for _, f := range step.Filters {
			parts = append(parts, fmt.Sprintf("%s %s", f.Key, f.Op))
		}
	}
	if len(parts) == 0 {
		return "Ninguno"
	}
	return strings.Join(parts, ", ")
}
