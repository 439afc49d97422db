package ledger

import (
	"context"
	"sync"
	"time"

	"AProject/module/attendance/model"
	"AProject/tools/errs"
)

// MemStore is an in-process Store with the same conditional-write semantics
// as the Mongo one. Used by tests and local runs without a backing store.
type MemStore struct {
	mu      sync.Mutex
	records map[[2]string]*model.AttendanceRecord
}

func NewMemStore() *MemStore {
	return &MemStore{records: make(map[[2]string]*model.AttendanceRecord)}
}

func key(ev *model.AttendanceEvent) [2]string {
	return [2]string{ev.MeetingID, ev.ParticipantID}
}

func (s *MemStore) UpdateExisting(_ context.Context, ev *model.AttendanceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key(ev)]
	if !ok {
		return ErrConditionFailed
	}
	for _, id := range rec.EventTimestamps {
		if id == ev.EventIdentity {
			return ErrConditionFailed
		}
	}

	rec.MeetingTitle = ev.MeetingTitle
	rec.MeetingStartTime = ev.MeetingStartTime
	rec.MeetingDuration = ev.MeetingDuration
	rec.ParticipantName = ev.ParticipantName
	rec.ParticipantEmail = ev.ParticipantEmail
	rec.ParticipantSessionIDs = addString(rec.ParticipantSessionIDs, ev.SessionID)
	if ev.Kind == model.KindJoin {
		rec.JoinTimes = addTime(rec.JoinTimes, ev.Time)
		rec.ParticipationCount++
	} else {
		rec.LeaveTimes = addTime(rec.LeaveTimes, ev.Time)
		rec.ParticipationCount--
	}
	rec.EventTimestamps = append(rec.EventTimestamps, ev.EventIdentity)
	rec.LastUpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemStore) InsertNew(_ context.Context, ev *model.AttendanceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[key(ev)]; ok {
		return ErrConditionFailed
	}
	s.records[key(ev)] = seedRecord(ev, time.Now().UTC())
	return nil
}

func (s *MemStore) GetRecord(_ context.Context, meetingID, participantID string) (*model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[[2]string{meetingID, participantID}]
	if !ok {
		return nil, errs.ErrRecordNotFound.WrapMsg("no record", "meeting", meetingID, "participant", participantID)
	}
	cp := *rec
	return &cp, nil
}

func (s *MemStore) MeetingRecords(_ context.Context, meetingID string) ([]model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.AttendanceRecord
	for k, rec := range s.records {
		if k[0] == meetingID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (s *MemStore) RecentRecords(_ context.Context, since time.Time) ([]model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.AttendanceRecord
	for _, rec := range s.records {
		if rec.LastUpdatedAt.After(since) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

// set-union append, matching the store-side $addToSet semantics

func addString(set []string, v string) []string {
	for _, s := range set {
		if s == v {
			return set
		}
	}
	return append(set, v)
}

func addTime(set []time.Time, v time.Time) []time.Time {
	for _, t := range set {
		if t.Equal(v) {
			return set
		}
	}
	return append(set, v)
}
