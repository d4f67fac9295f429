package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"experiment-funnel-service/internal/amplitude"
	"experiment-funnel-service/internal/catalog"
	"experiment-funnel-service/internal/config"
	"experiment-funnel-service/internal/model"
	"experiment-funnel-service/internal/normalize"
	"experiment-funnel-service/internal/query"
)

// AnalysisService runs funnel analyses: one query per variant, issued and
// awaited sequentially, normalized and concatenated in resolver order.
type AnalysisService interface {
	Catalog() ([]catalog.MetricInfo, error)
	RunDaily(ctx context.Context, metricName string, sel model.Selection) ([]model.DailyRow, error)
	RunCumulative(ctx context.Context, metricName string, sel model.Selection) ([]model.CumulativeRow, error)
	Breakdown(ctx context.Context, req BreakdownRequest) (*BreakdownReport, error)
}

type analysisService struct {
	funnels       amplitude.FunnelClient
	resolver      ExperimentResolver
	loader        *catalog.Loader
	metricsRoot   string
	defaultWindow int
	log           zerolog.Logger
}

// NewAnalysisService builds an AnalysisService.
func NewAnalysisService(
	funnels amplitude.FunnelClient,
	resolver ExperimentResolver,
	loader *catalog.Loader,
	cfg *config.Config,
	log zerolog.Logger,
) AnalysisService {
	return &analysisService{
		funnels:       funnels,
		resolver:      resolver,
		loader:        loader,
		metricsRoot:   cfg.MetricsRoot,
		defaultWindow: cfg.ConversionWindow,
		log:           log,
	}
}

// Catalog loads the metric registry fresh from disk and summarizes it.
func (s *analysisService) Catalog() ([]catalog.MetricInfo, error) {
	registry, err := s.loader.LoadAll(s.metricsRoot)
	if err != nil {
		return nil, err
	}
	return catalog.Info(registry), nil
}

// RunDaily executes the full pipeline in daily mode. Fail-fast: any
// variant's failure aborts the run.
func (s *analysisService) RunDaily(ctx context.Context, metricName string, sel model.Selection) ([]model.DailyRow, error) {
	metric, err := s.metric(metricName)
	if err != nil {
		return nil, err
	}
	return s.runDailyMetric(ctx, metric, sel)
}

// RunCumulative executes the full pipeline in cumulative mode.
func (s *analysisService) RunCumulative(ctx context.Context, metricName string, sel model.Selection) ([]model.CumulativeRow, error) {
	metric, err := s.metric(metricName)
	if err != nil {
		return nil, err
	}
	return s.runCumulativeMetric(ctx, metric, sel)
}

func (s *analysisService) runDailyMetric(ctx context.Context, metric model.Metric, sel model.Selection) ([]model.DailyRow, error) {
	sel = s.withDefaults(sel)
	if err := validateSelection(sel); err != nil {
		return nil, err
	}

	steps, err := query.Build(metric, sel)
	if err != nil {
		return nil, err
	}
	variants, err := s.resolver.VariantNames(ctx, sel.ExperimentID)
	if err != nil {
		return nil, err
	}

	rows := []model.DailyRow{}
	for _, variant := range variants {
		resp, err := s.fetch(ctx, steps, sel, variant)
		if err != nil {
			return nil, err
		}
		variantRows, err := normalize.Daily(resp, s.queryContext(sel, variant))
		if err != nil {
			return nil, err
		}
		rows = append(rows, variantRows...)
	}
	return rows, nil
}

func (s *analysisService) runCumulativeMetric(ctx context.Context, metric model.Metric, sel model.Selection) ([]model.CumulativeRow, error) {
	sel = s.withDefaults(sel)
	if err := validateSelection(sel); err != nil {
		return nil, err
	}

	steps, err := query.Build(metric, sel)
	if err != nil {
		return nil, err
	}
	variants, err := s.resolver.VariantNames(ctx, sel.ExperimentID)
	if err != nil {
		return nil, err
	}

	rows := []model.CumulativeRow{}
	for _, variant := range variants {
		resp, err := s.fetch(ctx, steps, sel, variant)
		if err != nil {
			return nil, err
		}
		variantRows, err := normalize.Cumulative(resp, s.queryContext(sel, variant))
		if err != nil {
			return nil, err
		}
		rows = append(rows, variantRows...)
	}
	return rows, nil
}

func (s *analysisService) fetch(ctx context.Context, steps []query.StepQuery, sel model.Selection, variant string) (*amplitude.FunnelResponse, error) {
	return s.funnels.FetchFunnel(ctx, amplitude.FunnelRequest{
		Steps:            steps,
		ExperimentID:     sel.ExperimentID,
		Variant:          variant,
		Start:            sel.StartDate,
		End:              sel.EndDate,
		ConversionWindow: sel.ConversionWindow,
	})
}

func (s *analysisService) queryContext(sel model.Selection, variant string) normalize.QueryContext {
	return normalize.QueryContext{
		ExperimentID: sel.ExperimentID,
		Culture:      sel.Culture,
		Device:       sel.Device,
		Variant:      variant,
		Start:        sel.StartDate,
		End:          sel.EndDate,
	}
}

func (s *analysisService) metric(name string) (model.Metric, error) {
	registry, err := s.loader.LoadAll(s.metricsRoot)
	if err != nil {
		return model.Metric{}, err
	}
	metric, ok := catalog.Flatten(registry)[name]
	if !ok {
		return model.Metric{}, &ValidationError{Message: fmt.Sprintf("unknown metric %q", name)}
	}
	return metric, nil
}

func (s *analysisService) withDefaults(sel model.Selection) model.Selection {
	if sel.ConversionWindow == 0 {
		sel.ConversionWindow = s.defaultWindow
	}
	return sel
}

func validateSelection(sel model.Selection) error {
	if sel.ExperimentID == "" {
		return &ValidationError{Message: "experiment_id is required"}
	}
	if sel.StartDate.IsZero() || sel.EndDate.IsZero() {
		return &ValidationError{Message: "start_date and end_date are required"}
	}
	if sel.StartDate.After(sel.EndDate) {
		return &ValidationError{Message: "start_date must be before end_date"}
	}
	return nil
}
