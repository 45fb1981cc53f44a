package view

import "time"

// Timeframe is a preset date window for the records list.
type Timeframe int

const (
	TimeframeAll Timeframe = iota
	TimeframeLast7Days
	TimeframeThisMonth
	TimeframeLastMonth

	timeframeCount
)

const isoDate = "2006-01-02"

func (t Timeframe) String() string {
	switch t {
	case TimeframeAll:
		return "All Time"
	case TimeframeLast7Days:
		return "Last 7 Days"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	}

	return "Unknown"
}

func (t Timeframe) Next() Timeframe {
	return (t + 1) % timeframeCount
}

// Bounds returns inclusive ISO date bounds relative to now.
// Both are nil for TimeframeAll.
func (t Timeframe) Bounds(now time.Time) (start, end *string) {
	var s, e time.Time

	switch t {
	case TimeframeLast7Days:
		s = now.AddDate(0, 0, -6)
		e = now
	case TimeframeThisMonth:
		s = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		e = now
	case TimeframeLastMonth:
		s = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		e = s.AddDate(0, 1, -1)
	default:
		return nil, nil
	}

	return new(s.Format(isoDate)), new(e.Format(isoDate))
}
