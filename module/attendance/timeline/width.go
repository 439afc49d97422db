package timeline

import "time"

// overtimeThreshold is the elapsed/scheduled fraction at which a live meeting
// is considered to be running into its scheduled end.
const overtimeThreshold = 0.95

// Policy converts interval durations into percentages of a fixed-width bar.
// Three regimes: meeting ended (99%, the last 1% is a visual tail so the bar
// never looks flush), live within schedule (100% of scheduled duration), and
// live at or past 95% of schedule (95%, with elapsed time as the denominator
// so the bar keeps advancing instead of pinning at full).
type Policy struct {
	MeetingStart      time.Time
	ScheduledDuration time.Duration
	MeetingEnd        *time.Time // nil while the meeting is live

	// Clock is the "now" source; defaults to time.Now. Tests inject it.
	Clock func() time.Time
}

func (p Policy) now() time.Time {
	if p.Clock != nil {
		return p.Clock()
	}
	return time.Now()
}

// ActiveWidth returns the percentage of the bar representing elapsed time.
func (p Policy) ActiveWidth() float64 {
	if p.MeetingEnd != nil {
		return 99
	}
	if p.withinSchedule() {
		return 100
	}
	return 95
}

// IntervalPercent maps one interval onto the bar, using the denominator of
// the current regime.
func (p Policy) IntervalPercent(interval time.Duration) float64 {
	width := p.ActiveWidth()
	if p.MeetingEnd != nil {
		total := p.MeetingEnd.Sub(p.MeetingStart)
		if total <= 0 {
			return 0
		}
		return width * float64(interval) / float64(total)
	}
	if p.withinSchedule() {
		return width * float64(interval) / float64(p.ScheduledDuration)
	}
	elapsed := p.now().Sub(p.MeetingStart)
	if elapsed <= 0 {
		return 0
	}
	return width * float64(interval) / float64(elapsed)
}

// withinSchedule reports regime 2: live and strictly under the overtime
// threshold. A zero scheduled duration counts as overtime so the elapsed
// denominator applies.
func (p Policy) withinSchedule() bool {
	if p.ScheduledDuration <= 0 {
		return false
	}
	elapsed := p.now().Sub(p.MeetingStart)
	return float64(elapsed)/float64(p.ScheduledDuration) < overtimeThreshold
}
