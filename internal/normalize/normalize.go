// Package normalize flattens funnel API responses into tabular result rows.
package normalize

import (
	"fmt"
	"time"

	"experiment-funnel-service/internal/amplitude"
	"experiment-funnel-service/internal/model"
)

// QueryContext carries the run metadata stamped onto every output row,
// including the exact date range that was queried.
type QueryContext struct {
	ExperimentID string
	Culture      string
	Device       string
	Variant      string
	Start        time.Time
	End          time.Time
}

// ResponseError reports a response that lacks the expected data shape. Raw
// carries the undecoded payload; a well-formed empty response is not an
// error and yields an empty table instead.
type ResponseError struct {
	Message string
	Details string
	Raw     []byte
}

func (e *ResponseError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// Daily emits one row per (date, step), iterating the response's per-day
// series in lockstep with its date and step-name axes.
func Daily(resp *amplitude.FunnelResponse, qctx QueryContext) ([]model.DailyRow, error) {
	if err := checkData(resp, qctx); err != nil {
		return nil, err
	}

	rows := []model.DailyRow{}
	for _, funnel := range resp.Data {
		dates := funnel.DayFunnels.XValues
		series := funnel.DayFunnels.Series
		for di := 0; di < len(dates) && di < len(series); di++ {
			date, err := parseDay(dates[di])
			if err != nil {
				return nil, &ResponseError{
					Message: fmt.Sprintf("unparseable date %q in day axis", dates[di]),
					Raw:     resp.Raw,
				}
			}
			counts := series[di]
			for si := 0; si < len(funnel.Events) && si < len(counts); si++ {
				rows = append(rows, model.DailyRow{
					Date:         date,
					ExperimentID: qctx.ExperimentID,
					FunnelStage:  string(funnel.Events[si]),
					Culture:      qctx.Culture,
					Device:       qctx.Device,
					Variant:      qctx.Variant,
					EventCount:   int64(counts[si]),
				})
			}
		}
	}
	return rows, nil
}

// Cumulative emits one row per step from the cumulative-count array. The
// Start/End dates on every row are the caller's queried range, never dates
// embedded in the response, so the reported window always matches what was
// actually queried. Funnels with empty axes are skipped.
func Cumulative(resp *amplitude.FunnelResponse, qctx QueryContext) ([]model.CumulativeRow, error) {
	if err := checkData(resp, qctx); err != nil {
		return nil, err
	}

	rows := []model.CumulativeRow{}
	for _, funnel := range resp.Data {
		if len(funnel.Events) == 0 || len(funnel.CumulativeRaw) == 0 {
			continue
		}
		for si := 0; si < len(funnel.Events) && si < len(funnel.CumulativeRaw); si++ {
			rows = append(rows, model.CumulativeRow{
				StartDate:    qctx.Start,
				EndDate:      qctx.End,
				ExperimentID: qctx.ExperimentID,
				Culture:      qctx.Culture,
				Device:       qctx.Device,
				Variant:      qctx.Variant,
				FunnelStage:  string(funnel.Events[si]),
				EventCount:   int64(funnel.CumulativeRaw[si]),
			})
		}
	}
	return rows, nil
}

func checkData(resp *amplitude.FunnelResponse, qctx QueryContext) error {
	if resp == nil {
		return &ResponseError{
			Message: fmt.Sprintf("no response for variant %q of experiment %q", qctx.Variant, qctx.ExperimentID),
		}
	}
	if resp.ErrorMessage != "" {
		return &ResponseError{
			Message: fmt.Sprintf("API error for variant %q of experiment %q: %s",
				qctx.Variant, qctx.ExperimentID, resp.ErrorMessage),
			Details: resp.ErrorDetails,
			Raw:     resp.Raw,
		}
	}
	if !resp.DataPresent {
		return &ResponseError{
			Message: fmt.Sprintf("response missing data key for variant %q of experiment %q",
				qctx.Variant, qctx.ExperimentID),
			Raw: resp.Raw,
		}
	}
	return nil
}

var dayLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

func parseDay(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dayLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
