// Package export renders result tables as Excel workbooks.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"experiment-funnel-service/internal/model"
)

const (
	sheetName  = "Report"
	dateLayout = "2006-01-02 15:04:05"
)

// WriteDaily renders daily result rows to an xlsx workbook.
func WriteDaily(rows []model.DailyRow) (*bytes.Buffer, error) {
	header := []any{"Date", "ExperimentID", "Funnel Stage", "Culture", "Device", "Variant", "Event Count"}
	return write(header, len(rows), func(i int) []any {
		r := rows[i]
		return []any{
			r.Date.Format("2006-01-02"),
			r.ExperimentID,
			r.FunnelStage,
			r.Culture,
			r.Device,
			r.Variant,
			r.EventCount,
		}
	})
}

// WriteCumulative renders cumulative result rows to an xlsx workbook.
func WriteCumulative(rows []model.CumulativeRow) (*bytes.Buffer, error) {
	header := []any{"Start Date", "End Date", "ExperimentID", "Culture", "Device", "Variant", "Funnel Stage", "Event Count"}
	return write(header, len(rows), func(i int) []any {
		r := rows[i]
		return []any{
			r.StartDate.Format(dateLayout),
			r.EndDate.Format(dateLayout),
			r.ExperimentID,
			r.Culture,
			r.Device,
			r.Variant,
			r.FunnelStage,
			r.EventCount,
		}
	})
}

func write(header []any, count int, row func(i int) []any) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < count; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := row(i)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf, nil
}
