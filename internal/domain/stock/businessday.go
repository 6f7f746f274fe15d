package stock

import "time"

// BusinessDay maps an instant to its reporting date. The day rolls
// over at the cutover hour in the given location, not at midnight, so
// late-night shifts book onto the evening's date.
func BusinessDay(t time.Time, loc *time.Location, cutoverHour int) string {
	local := t.In(loc)
	if local.Hour() < cutoverHour {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format("2006-01-02")
}
