package service

import (
	"context"
	"testing"
	"time"

	"AProject/module/attendance/ledger"
	"AProject/module/attendance/model"
)

var meetingStart = time.Date(2024, 3, 12, 18, 0, 0, 0, time.UTC)

func apply(t *testing.T, w *ledger.Writer, ev *model.AttendanceEvent) {
	t.Helper()
	if _, err := w.Apply(context.Background(), ev); err != nil {
		t.Fatalf("Apply: %v", err)
	}
}

func mkEvent(participant string, kind model.EventKind, at time.Time, identity int64) *model.AttendanceEvent {
	return &model.AttendanceEvent{
		MeetingID:        "86123456789",
		MeetingTitle:     "All Hands",
		MeetingStartTime: meetingStart,
		MeetingDuration:  120,
		ParticipantID:    participant,
		ParticipantName:  participant,
		SessionID:        "s-" + participant,
		Kind:             kind,
		Time:             at,
		EventIdentity:    identity,
	}
}

func newTestService(store ledger.Store, now time.Time) *Attendance {
	svc := NewAttendance(store, "UTC", "Acme")
	svc.clock = func() time.Time { return now }
	return svc
}

func TestParticipantsViewSplitsOnlineOffline(t *testing.T) {
	store := ledger.NewMemStore()
	w := ledger.NewWriter(store)

	apply(t, w, mkEvent("alice", model.KindJoin, meetingStart, 1))
	apply(t, w, mkEvent("bob", model.KindJoin, meetingStart.Add(5*time.Minute), 2))
	apply(t, w, mkEvent("bob", model.KindLeave, meetingStart.Add(30*time.Minute), 3))

	svc := newTestService(store, meetingStart.Add(time.Hour))
	page, err := svc.ParticipantsView(context.Background(), "86123456789")
	if err != nil {
		t.Fatalf("ParticipantsView: %v", err)
	}

	if len(page.Online) != 1 || page.Online[0].Name != "alice" {
		t.Errorf("online = %+v, want alice only", page.Online)
	}
	if len(page.Offline) != 1 || page.Offline[0].Name != "bob" {
		t.Errorf("offline = %+v, want bob only", page.Offline)
	}
	if page.Meeting.MeetingEndTime != nil {
		t.Error("meeting with someone online must not have an end time")
	}
	if page.Meeting.ParticipantCount != 2 || page.Meeting.CurrentCount != 1 {
		t.Errorf("counts = %d/%d, want 2 participants 1 current",
			page.Meeting.ParticipantCount, page.Meeting.CurrentCount)
	}
	if len(page.Online[0].Segments) == 0 {
		t.Error("online participant should carry presence segments")
	}
}

func TestParticipantsViewMeetingEndFromLastLeave(t *testing.T) {
	store := ledger.NewMemStore()
	w := ledger.NewWriter(store)

	lastLeave := meetingStart.Add(90 * time.Minute)
	apply(t, w, mkEvent("alice", model.KindJoin, meetingStart, 1))
	apply(t, w, mkEvent("alice", model.KindLeave, meetingStart.Add(time.Hour), 2))
	apply(t, w, mkEvent("bob", model.KindJoin, meetingStart, 3))
	apply(t, w, mkEvent("bob", model.KindLeave, lastLeave, 4))

	svc := newTestService(store, meetingStart.Add(3*time.Hour))
	page, err := svc.ParticipantsView(context.Background(), "86123456789")
	if err != nil {
		t.Fatalf("ParticipantsView: %v", err)
	}

	if page.Meeting.MeetingEndTime == nil {
		t.Fatal("all-offline meeting should have an end time")
	}
	if !page.Meeting.MeetingEndTime.Equal(lastLeave) {
		t.Errorf("end = %v, want the latest leave %v", page.Meeting.MeetingEndTime, lastLeave)
	}
	// offline sorted latest leave first
	if page.Offline[0].Name != "bob" {
		t.Errorf("offline[0] = %s, want bob (left last)", page.Offline[0].Name)
	}
}

func TestParticipantsViewUnknownMeeting(t *testing.T) {
	svc := newTestService(ledger.NewMemStore(), meetingStart)
	page, err := svc.ParticipantsView(context.Background(), "nope")
	if err != nil {
		t.Fatalf("ParticipantsView: %v", err)
	}
	if page.Meeting.ParticipantCount != 0 || len(page.Online)+len(page.Offline) != 0 {
		t.Errorf("unknown meeting should render empty, got %+v", page)
	}
	if page.Meeting.MeetingTitle == "" {
		t.Error("unknown meeting still needs a display title")
	}
}

func TestMeetingsViewGroupsAndSums(t *testing.T) {
	store := ledger.NewMemStore()
	w := ledger.NewWriter(store)

	apply(t, w, mkEvent("alice", model.KindJoin, meetingStart, 1))
	apply(t, w, mkEvent("bob", model.KindJoin, meetingStart, 2))

	other := mkEvent("carol", model.KindJoin, meetingStart.Add(-48*time.Hour), 3)
	other.MeetingID = "79999999999"
	other.MeetingTitle = "Planning"
	other.MeetingStartTime = meetingStart.Add(-48 * time.Hour)
	apply(t, w, other)
	otherLeave := mkEvent("carol", model.KindLeave, meetingStart.Add(-47*time.Hour), 4)
	otherLeave.MeetingID = "79999999999"
	otherLeave.MeetingTitle = "Planning"
	otherLeave.MeetingStartTime = meetingStart.Add(-48 * time.Hour)
	apply(t, w, otherLeave)

	svc := newTestService(store, meetingStart.Add(time.Hour))
	page, err := svc.MeetingsView(context.Background(), 7)
	if err != nil {
		t.Fatalf("MeetingsView: %v", err)
	}

	if len(page.Active) != 1 {
		t.Fatalf("active = %d, want 1", len(page.Active))
	}
	got := page.Active[0]
	if got.MeetingID != "86123456789" || got.ParticipantCount != 2 || got.CurrentCount != 2 {
		t.Errorf("active summary = %+v", got)
	}
	if len(page.Ended) != 1 || page.Ended[0].MeetingID != "79999999999" {
		t.Errorf("ended = %+v, want the planning meeting", page.Ended)
	}
	if page.Ended[0].CurrentCount != 0 {
		t.Errorf("ended CurrentCount = %d, want 0", page.Ended[0].CurrentCount)
	}
}

func TestSitemapEntriesNewestFirst(t *testing.T) {
	store := ledger.NewMemStore()
	w := ledger.NewWriter(store)

	apply(t, w, mkEvent("alice", model.KindJoin, meetingStart, 1))
	old := mkEvent("bob", model.KindJoin, meetingStart.Add(-time.Hour), 2)
	old.MeetingID = "70000000000"
	apply(t, w, old)

	svc := newTestService(store, meetingStart.Add(time.Hour))
	entries, err := svc.SitemapEntries(context.Background())
	if err != nil {
		t.Fatalf("SitemapEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].LastUpdatedAt.Before(entries[1].LastUpdatedAt) {
		t.Error("entries should be ordered by freshness")
	}
}
