package amplitude

import (
	"bytes"
	"encoding/json"
)

// FunnelResponse is the funnel API's reply. A success carries a data key
// whose shape varies between an array of funnels and a single funnel object;
// a failure carries error/errorDetails. Raw keeps the undecoded body for
// diagnostics.
type FunnelResponse struct {
	Data         []Funnel
	DataPresent  bool
	ErrorMessage string
	ErrorDetails string
	Raw          []byte
}

// Funnel is one funnel series in a response.
type Funnel struct {
	Events        []StepName `json:"events"`
	DayFunnels    DaySeries  `json:"dayFunnels"`
	CumulativeRaw []float64  `json:"cumulativeRaw"`
}

// DaySeries is the per-day axis of a funnel: one count row per date, one
// column per step.
type DaySeries struct {
	XValues []string    `json:"xValues"`
	Series  [][]float64 `json:"series"`
}

// StepName is a funnel step identifier. The API sends either a plain string
// or a structured object; structured identifiers reduce to their event_type
// field.
type StepName string

func (s *StepName) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			EventType string `json:"event_type"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		*s = StepName(obj.EventType)
		return nil
	}
	var name string
	if err := json.Unmarshal(trimmed, &name); err != nil {
		return err
	}
	*s = StepName(name)
	return nil
}

func (r *FunnelResponse) UnmarshalJSON(data []byte) error {
	r.Raw = append([]byte(nil), data...)

	var probe struct {
		Data         json.RawMessage `json:"data"`
		Error        string          `json:"error"`
		ErrorDetails string          `json:"errorDetails"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	r.ErrorMessage = probe.Error
	r.ErrorDetails = probe.ErrorDetails

	if probe.Data == nil {
		return nil
	}
	r.DataPresent = true

	trimmed := bytes.TrimSpace(probe.Data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &r.Data)
	}
	var single Funnel
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	r.Data = []Funnel{single}
	return nil
}
