package timeline

import (
	"time"

	"AProject/module/attendance/model"
)

// Time formats for segment tooltips: the opening time drops the zone name
// since the closing time right next to it carries it.
const (
	tooltipTimeNoZone = "3:04 PM"
	tooltipTime       = "3:04 PM MST"
)

// RenderSegments turns an ordered timeline into bar segments. Each segment
// spans from its transition to the next one; the final segment closes at the
// meeting end if known, otherwise at the policy's current time. Present
// segments carry a tooltip, closed "entered - left" when a next transition
// exists, open "Entered: ..." when the participant is still in the meeting.
func RenderSegments(events []Event, p Policy, loc *time.Location) []model.ProgressSegment {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]model.ProgressSegment, 0, len(events))
	for i, ev := range events {
		var end time.Time
		switch {
		case i+1 < len(events):
			end = events[i+1].Time
		case p.MeetingEnd != nil:
			end = *p.MeetingEnd
		default:
			end = p.now()
		}

		seg := model.ProgressSegment{
			WidthPercent: p.IntervalPercent(end.Sub(ev.Time)),
			Present:      ev.State > 0,
		}
		if seg.Present {
			if i+1 < len(events) {
				seg.Tooltip = ev.Time.In(loc).Format(tooltipTimeNoZone) + " - " + end.In(loc).Format(tooltipTime)
			} else {
				seg.Tooltip = "Entered: " + ev.Time.In(loc).Format(tooltipTime)
			}
		}
		out = append(out, seg)
	}
	return out
}
