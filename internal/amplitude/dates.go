package amplitude

import "time"

// apiDateLayout is the funnel API's timestamp form, YYYYMMDDHHMMSS.
const apiDateLayout = "20060102150405"

// FormatDate renders a timestamp for the funnel API. End-of-range timestamps
// that sit exactly at midnight are pushed to 23:59:59 so the closing day is
// included in full.
func FormatDate(t time.Time, isEnd bool) string {
	if isEnd && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t.Format(apiDateLayout)
}
