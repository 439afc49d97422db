package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"AProject/module/attendance/model"
)

var meetingStart = time.Date(2024, 3, 12, 18, 0, 0, 0, time.UTC)

func joinEvent(identity int64, at time.Time) *model.AttendanceEvent {
	return &model.AttendanceEvent{
		MeetingID:        "86123456789",
		MeetingTitle:     "All Hands",
		MeetingStartTime: meetingStart,
		MeetingDuration:  120,
		ParticipantID:    "u-100",
		ParticipantName:  "Alice",
		ParticipantEmail: "alice@example.com",
		SessionID:        "s-1",
		Kind:             model.KindJoin,
		Time:             at,
		EventIdentity:    identity,
	}
}

func leaveEvent(identity int64, at time.Time) *model.AttendanceEvent {
	ev := joinEvent(identity, at)
	ev.Kind = model.KindLeave
	ev.SessionID = "s-2"
	return ev
}

func mustGet(t *testing.T, s Store, ev *model.AttendanceEvent) *model.AttendanceRecord {
	t.Helper()
	rec, err := s.GetRecord(context.Background(), ev.MeetingID, ev.ParticipantID)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	return rec
}

func TestApplyFirstEventCreates(t *testing.T) {
	store := NewMemStore()
	w := NewWriter(store)

	out, err := w.Apply(context.Background(), joinEvent(1001, meetingStart))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out != OutcomeCreated {
		t.Errorf("outcome = %v, want created", out)
	}

	rec := mustGet(t, store, joinEvent(1001, meetingStart))
	if rec.ParticipationCount != 1 {
		t.Errorf("ParticipationCount = %d, want 1", rec.ParticipationCount)
	}
	if len(rec.JoinTimes) != 1 || len(rec.EventTimestamps) != 1 {
		t.Errorf("seed record sets wrong: joins=%d identities=%d", len(rec.JoinTimes), len(rec.EventTimestamps))
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	store := NewMemStore()
	w := NewWriter(store)
	ev := joinEvent(1001, meetingStart)

	if _, err := w.Apply(context.Background(), ev); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	out, err := w.Apply(context.Background(), ev)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if out != OutcomeDuplicate {
		t.Errorf("redelivery outcome = %v, want duplicate", out)
	}

	rec := mustGet(t, store, ev)
	if rec.ParticipationCount != 1 {
		t.Errorf("duplicate bumped counter: %d", rec.ParticipationCount)
	}
	if len(rec.EventTimestamps) != 1 {
		t.Errorf("duplicate grew identity set: %d", len(rec.EventTimestamps))
	}
	if len(rec.JoinTimes) != 1 {
		t.Errorf("duplicate grew join set: %d", len(rec.JoinTimes))
	}
}

func TestApplySecondDistinctEventUpdates(t *testing.T) {
	store := NewMemStore()
	w := NewWriter(store)

	if _, err := w.Apply(context.Background(), joinEvent(1001, meetingStart)); err != nil {
		t.Fatalf("join: %v", err)
	}
	out, err := w.Apply(context.Background(), leaveEvent(1002, meetingStart.Add(time.Hour)))
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if out != OutcomeApplied {
		t.Errorf("outcome = %v, want applied", out)
	}

	rec := mustGet(t, store, joinEvent(0, meetingStart))
	if rec.ParticipationCount != 0 {
		t.Errorf("ParticipationCount = %d, want 0 after join+leave", rec.ParticipationCount)
	}
	if len(rec.JoinTimes) != 1 || len(rec.LeaveTimes) != 1 {
		t.Errorf("time sets: joins=%d leaves=%d, want 1/1", len(rec.JoinTimes), len(rec.LeaveTimes))
	}
	if len(rec.ParticipantSessionIDs) != 2 {
		t.Errorf("sessions = %d, want both reconnect ids", len(rec.ParticipantSessionIDs))
	}
	if len(rec.EventTimestamps) != 2 {
		t.Errorf("identities = %d, want 2", len(rec.EventTimestamps))
	}
}

func TestApplyLeaveFirstSeedsZeroCount(t *testing.T) {
	store := NewMemStore()
	w := NewWriter(store)

	out, err := w.Apply(context.Background(), leaveEvent(1001, meetingStart))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out != OutcomeCreated {
		t.Errorf("outcome = %v, want created", out)
	}
	rec := mustGet(t, store, leaveEvent(0, meetingStart))
	if rec.ParticipationCount != 0 {
		t.Errorf("leave-first seed count = %d, want 0", rec.ParticipationCount)
	}
}

func TestApplyIdenticalTimestampDistinctIdentity(t *testing.T) {
	// a genuine re-join at the same clock second still counts once per set,
	// but both identities are recorded and the counter moves twice
	store := NewMemStore()
	w := NewWriter(store)

	if _, err := w.Apply(context.Background(), joinEvent(1001, meetingStart)); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Apply(context.Background(), joinEvent(1002, meetingStart)); err != nil {
		t.Fatal(err)
	}

	rec := mustGet(t, store, joinEvent(0, meetingStart))
	if len(rec.JoinTimes) != 1 {
		t.Errorf("identical timestamps should collapse in the set, got %d", len(rec.JoinTimes))
	}
	if rec.ParticipationCount != 2 {
		t.Errorf("ParticipationCount = %d, want 2", rec.ParticipationCount)
	}
	if len(rec.EventTimestamps) != 2 {
		t.Errorf("identities = %d, want 2", len(rec.EventTimestamps))
	}
}

// failStore fails every write with a non-condition error.
type failStore struct{ Store }

var errDown = errors.New("store down")

func (f *failStore) UpdateExisting(context.Context, *model.AttendanceEvent) error { return errDown }
func (f *failStore) InsertNew(context.Context, *model.AttendanceEvent) error      { return errDown }

func TestApplyStoreUnavailable(t *testing.T) {
	w := NewWriter(&failStore{Store: NewMemStore()})
	if _, err := w.Apply(context.Background(), joinEvent(1001, meetingStart)); err == nil {
		t.Fatal("expected error when the store is down")
	}
}

func TestApplyConcurrentDuplicates(t *testing.T) {
	store := NewMemStore()
	w := NewWriter(store)
	ev := joinEvent(1001, meetingStart)

	const n = 16
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := w.Apply(context.Background(), ev)
			done <- err
		}()
	}
	for i := 0; i < n; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent Apply: %v", err)
		}
	}

	rec := mustGet(t, store, ev)
	if rec.ParticipationCount != 1 {
		t.Errorf("racing duplicates applied more than once: count=%d", rec.ParticipationCount)
	}
	if len(rec.EventTimestamps) != 1 {
		t.Errorf("racing duplicates grew identity set: %d", len(rec.EventTimestamps))
	}
}

func TestCounterTimelineDrift(t *testing.T) {
	// A lost join (never delivered) leaves the counter at zero even though a
	// leave was recorded. The counter and the timestamp sets are two
	// representations that are deliberately not reconciled: the counter
	// drives the online/offline split, the sets drive the rendered timeline.
	store := NewMemStore()
	w := NewWriter(store)

	if _, err := w.Apply(context.Background(), leaveEvent(2001, meetingStart.Add(time.Hour))); err != nil {
		t.Fatal(err)
	}
	rec := mustGet(t, store, leaveEvent(0, meetingStart))

	if rec.Online() {
		t.Error("counter says online after an unmatched leave")
	}
	if len(rec.LeaveTimes) != 1 {
		t.Errorf("leave set = %d entries, want the leave recorded regardless", len(rec.LeaveTimes))
	}
}
