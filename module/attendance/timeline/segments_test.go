package timeline

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestRenderSegmentsCoverageEqualsActiveWidth(t *testing.T) {
	// arbitrary in-and-out history in an overtime live meeting
	joins := []time.Time{base, base.Add(50 * time.Minute)}
	leaves := []time.Time{base.Add(20 * time.Minute)}
	p := Policy{
		MeetingStart:      base,
		ScheduledDuration: time.Hour,
		Clock:             fixedClock(base.Add(80 * time.Minute)),
	}

	segs := RenderSegments(Build(joins, leaves, base), p, time.UTC)

	total := 0.0
	for _, s := range segs {
		total += s.WidthPercent
	}
	if math.Abs(total-p.ActiveWidth()) > 1e-9 {
		t.Errorf("segment widths sum to %v, want %v", total, p.ActiveWidth())
	}
}

func TestRenderSegmentsStillPresentAtScheduleEnd(t *testing.T) {
	// joined at meeting start, never left, evaluated when elapsed == scheduled
	p := Policy{
		MeetingStart:      base,
		ScheduledDuration: 2 * time.Hour,
		Clock:             fixedClock(base.Add(2 * time.Hour)),
	}

	segs := RenderSegments(Build([]time.Time{base}, nil, base), p, time.UTC)

	if len(segs) != 2 {
		t.Fatalf("expected seed + present segment, got %d", len(segs))
	}
	if segs[0].WidthPercent != 0 || segs[0].Present {
		t.Errorf("seed segment should be zero-width absent: %+v", segs[0])
	}
	got := segs[1]
	if !got.Present {
		t.Error("final segment should be present")
	}
	if math.Abs(got.WidthPercent-95) > 1e-9 {
		t.Errorf("present segment width = %v, want 95", got.WidthPercent)
	}
	if !strings.HasPrefix(got.Tooltip, "Entered: ") {
		t.Errorf("open segment tooltip = %q, want Entered prefix", got.Tooltip)
	}
}

func TestRenderSegmentsHalfwayLeave(t *testing.T) {
	// join at start, leave at 1h, 2h scheduled, live, elapsed == scheduled
	p := Policy{
		MeetingStart:      base,
		ScheduledDuration: 2 * time.Hour,
		Clock:             fixedClock(base.Add(2 * time.Hour)),
	}

	segs := RenderSegments(Build([]time.Time{base}, []time.Time{base.Add(time.Hour)}, base), p, time.UTC)

	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if segs[0].Present || segs[0].WidthPercent != 0 {
		t.Errorf("segment 0: %+v, want zero-width absent", segs[0])
	}
	if !segs[1].Present || math.Abs(segs[1].WidthPercent-47.5) > 1e-9 {
		t.Errorf("segment 1: %+v, want present 47.5", segs[1])
	}
	if segs[2].Present || math.Abs(segs[2].WidthPercent-47.5) > 1e-9 {
		t.Errorf("segment 2: %+v, want absent 47.5", segs[2])
	}
	if segs[2].Tooltip != "" {
		t.Errorf("absent segment carries tooltip %q", segs[2].Tooltip)
	}
}

func TestRenderSegmentsClosedTooltipFormat(t *testing.T) {
	pst := time.FixedZone("PST", -8*3600)
	end := base.Add(time.Hour)
	p := Policy{
		MeetingStart:      base,
		ScheduledDuration: time.Hour,
		MeetingEnd:        &end,
		Clock:             fixedClock(end),
	}

	segs := RenderSegments(Build([]time.Time{base}, []time.Time{base.Add(30 * time.Minute)}, base), p, pst)

	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	want := "10:00 AM - 10:30 AM PST" // 18:00 UTC is 10:00 in PST
	if segs[1].Tooltip != want {
		t.Errorf("closed tooltip = %q, want %q", segs[1].Tooltip, want)
	}
}

func TestRenderSegmentsEndedMeetingClosesAtEnd(t *testing.T) {
	end := base.Add(time.Hour)
	p := Policy{
		MeetingStart:      base,
		ScheduledDuration: time.Hour,
		MeetingEnd:        &end,
		Clock:             fixedClock(base.Add(24 * time.Hour)), // now is long after, must not matter
	}

	segs := RenderSegments(Build([]time.Time{base}, nil, base), p, time.UTC)

	total := 0.0
	for _, s := range segs {
		total += s.WidthPercent
	}
	if math.Abs(total-99) > 1e-9 {
		t.Errorf("ended meeting widths sum to %v, want 99", total)
	}
}
