package ledger

import (
	"context"
	"errors"
	"time"

	"AProject/module/attendance/model"
)

// ErrConditionFailed is how a Store reports that a conditional write's
// predicate did not hold: the record was absent (or already existed, for
// inserts), or the event identity was already applied. It is the only store
// error the two-phase protocol treats as a control-flow signal; everything
// else is store unavailability.
var ErrConditionFailed = errors.New("conditional write predicate failed")

// Store is the key-value collaborator the ledger writer runs against. Each
// write method is a single atomic conditional write on one record; that
// per-record atomicity is the protocol's only mutual-exclusion mechanism.
type Store interface {
	// UpdateExisting applies the event to the record for (meeting,
	// participant), conditioned on the record existing and the event
	// identity not being present yet. ErrConditionFailed when either
	// condition does not hold.
	UpdateExisting(ctx context.Context, ev *model.AttendanceEvent) error

	// InsertNew creates a record seeded with this event, conditioned on
	// the record not existing. ErrConditionFailed when it already does.
	InsertNew(ctx context.Context, ev *model.AttendanceEvent) error

	// GetRecord fetches one record; errs.ErrRecordNotFound when absent.
	GetRecord(ctx context.Context, meetingID, participantID string) (*model.AttendanceRecord, error)

	// MeetingRecords returns every record of one meeting. Implementations
	// page through the store's cursors internally and return the full set.
	MeetingRecords(ctx context.Context, meetingID string) ([]model.AttendanceRecord, error)

	// RecentRecords returns every record updated after the given time.
	RecentRecords(ctx context.Context, since time.Time) ([]model.AttendanceRecord, error)
}

// seedRecord builds the brand-new record an insert writes: the event's own
// values, with a participation count of 1 for a join and 0 for a leave (a
// leave-first record must not start negative).
func seedRecord(ev *model.AttendanceEvent, now time.Time) *model.AttendanceRecord {
	rec := &model.AttendanceRecord{
		MeetingID:             ev.MeetingID,
		ParticipantID:         ev.ParticipantID,
		MeetingTitle:          ev.MeetingTitle,
		MeetingStartTime:      ev.MeetingStartTime,
		MeetingDuration:       ev.MeetingDuration,
		ParticipantName:       ev.ParticipantName,
		ParticipantEmail:      ev.ParticipantEmail,
		ParticipantSessionIDs: []string{ev.SessionID},
		LastUpdatedAt:         now,
		EventTimestamps:       []int64{ev.EventIdentity},
	}
	if ev.Kind == model.KindJoin {
		rec.JoinTimes = []time.Time{ev.Time}
		rec.ParticipationCount = 1
	} else {
		rec.LeaveTimes = []time.Time{ev.Time}
		rec.ParticipationCount = 0
	}
	return rec
}
