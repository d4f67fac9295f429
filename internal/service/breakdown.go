package service

import (
	"context"
	"fmt"

	"experiment-funnel-service/internal/catalog"
	"experiment-funnel-service/internal/model"
	"experiment-funnel-service/internal/stats"
)

// BreakdownRequest asks for one cumulative analysis per (metric, segment
// value) pair. An empty Values slice means every known value of the
// dimension.
type BreakdownRequest struct {
	Metrics   []string
	Dimension string
	Values    []string
	Selection model.Selection
}

// SegmentResult is one cell of the breakdown grid.
type SegmentResult struct {
	Metric    string                 `json:"metric"`
	Segment   string                 `json:"segment"`
	Rows      []model.CumulativeRow  `json:"rows"`
	Variants  []stats.VariantCounts  `json:"variants"`
	ChiSquare *stats.ChiSquareResult `json:"chi_square,omitempty"`
	Lift      *float64               `json:"lift,omitempty"`
}

// BreakdownReport collects every segment cell that produced data, plus a
// diagnostic line for each cell that was skipped.
type BreakdownReport struct {
	Dimension   string          `json:"dimension"`
	Results     []SegmentResult `json:"results"`
	Diagnostics []string        `json:"diagnostics"`
}

// Breakdown runs cumulative analyses across segment values of one
// dimension. Failures of individual (metric, segment) cells are logged
// and skipped; only a fully empty report is an error.
func (s *analysisService) Breakdown(ctx context.Context, req BreakdownRequest) (*BreakdownReport, error) {
	if len(req.Metrics) == 0 {
		return nil, &ValidationError{Message: "at least one metric is required"}
	}
	values := req.Values
	if len(values) == 0 {
		known, ok := catalog.DimensionValues(req.Dimension)
		if !ok {
			return nil, &ValidationError{Message: fmt.Sprintf("unknown dimension %q", req.Dimension)}
		}
		values = known
	}

	report := &BreakdownReport{Dimension: req.Dimension}
	for _, metricName := range req.Metrics {
		metric, err := s.metric(metricName)
		if err != nil {
			return nil, err
		}
		for _, value := range values {
			sel, ok := catalog.ApplySegment(req.Selection, req.Dimension, value)
			if !ok {
				report.Diagnostics = append(report.Diagnostics,
					fmt.Sprintf("%s / %s: value not valid for dimension %s, skipped", metricName, value, req.Dimension))
				continue
			}
			rows, err := s.runCumulativeMetric(ctx, metric, sel)
			if err != nil {
				s.log.Warn().
					Str("metric", metricName).
					Str("dimension", req.Dimension).
					Str("segment", value).
					Err(err).
					Msg("breakdown segment failed, skipping")
				report.Diagnostics = append(report.Diagnostics,
					fmt.Sprintf("%s / %s: %v", metricName, value, err))
				continue
			}
			report.Results = append(report.Results, s.segmentResult(metric, metricName, value, rows))
		}
	}
	return report, nil
}

func (s *analysisService) segmentResult(metric model.Metric, metricName, segment string, rows []model.CumulativeRow) SegmentResult {
	result := SegmentResult{Metric: metricName, Segment: segment, Rows: rows}
	result.Variants = variantCounts(metric, rows)
	if len(result.Variants) == 2 {
		if cs, err := stats.ChiSquare(result.Variants); err == nil {
			result.ChiSquare = &cs
			lift := stats.Lift(result.Variants[0], result.Variants[1])
			result.Lift = &lift
		}
	}
	return result
}

// variantCounts reduces cumulative rows to entered/converted counts per
// variant. Entry is the first visible step: when the funnel carries a
// ghost anchor the anchor rows are ignored.
func variantCounts(metric model.Metric, rows []model.CumulativeRow) []stats.VariantCounts {
	entryEvent := metric.FirstEvent()
	finalEvent := metric.FinalEvent()

	order := []string{}
	byVariant := map[string]*stats.VariantCounts{}
	for _, row := range rows {
		vc, ok := byVariant[row.Variant]
		if !ok {
			vc = &stats.VariantCounts{Variant: row.Variant}
			byVariant[row.Variant] = vc
			order = append(order, row.Variant)
		}
		switch row.FunnelStage {
		case entryEvent:
			vc.Entered += row.EventCount
		case finalEvent:
			vc.Converted += row.EventCount
		}
	}

	counts := make([]stats.VariantCounts, 0, len(order))
	for _, variant := range order {
		counts = append(counts, *byVariant[variant])
	}
	return counts
}
