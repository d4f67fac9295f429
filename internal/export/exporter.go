package export

import "experiment-funnel-service/internal/model"

// Excel renders result tables as xlsx bytes. Zero value is ready to use.
type Excel struct{}

func (Excel) Daily(rows []model.DailyRow) ([]byte, error) {
	buf, err := WriteDaily(rows)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Excel) Cumulative(rows []model.CumulativeRow) ([]byte, error) {
	buf, err := WriteCumulative(rows)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
