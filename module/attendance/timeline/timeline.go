package timeline

import (
	"sort"
	"time"
)

// Event is one presence-state transition. State is the number of open
// sessions after the transition; it never goes negative.
type Event struct {
	Time  time.Time
	State int
}

// Build reconstructs the ordered presence history from the unordered join and
// leave sets. Ties at the same instant resolve join before leave, so a
// reconnect at the exact moment of a disconnect never reads as absent.
// A leave with no matching join floors the state at zero.
func Build(joins, leaves []time.Time, meetingStart time.Time) []Event {
	type tagged struct {
		t    time.Time
		join bool
	}
	merged := make([]tagged, 0, len(joins)+len(leaves))
	for _, t := range joins {
		merged = append(merged, tagged{t: t, join: true})
	}
	for _, t := range leaves {
		merged = append(merged, tagged{t: t, join: false})
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].t.Equal(merged[j].t) {
			return merged[i].join && !merged[j].join
		}
		return merged[i].t.Before(merged[j].t)
	})

	out := make([]Event, 0, len(merged)+1)
	out = append(out, Event{Time: meetingStart, State: 0})
	state := 0
	for _, m := range merged {
		if m.join {
			state++
		} else if state--; state < 0 {
			state = 0
		}
		out = append(out, Event{Time: m.t, State: state})
	}
	return out
}
