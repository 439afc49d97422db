package model

import "time"

// EventKind discriminates the two webhook event families we apply to the ledger.
type EventKind int

const (
	KindJoin EventKind = iota + 1
	KindLeave
)

func (k EventKind) String() string {
	switch k {
	case KindJoin:
		return "join"
	case KindLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// AttendanceRecord is the ledger row for one (meeting, participant) pair.
// It is owned by the ledger writer and mutated only through the two-phase
// conditional-write protocol; everything else reads it as a snapshot.
type AttendanceRecord struct {
	// —— identity ——
	MeetingID     string `bson:"meeting_id" json:"meeting_id"`
	ParticipantID string `bson:"participant_id" json:"participant_id"`

	// —— denormalized meeting metadata, latest event wins ——
	MeetingTitle     string    `bson:"meeting_title" json:"meeting_title"`
	MeetingStartTime time.Time `bson:"meeting_start_time" json:"meeting_start_time"`
	MeetingDuration  int64     `bson:"meeting_duration" json:"meeting_duration"` // scheduled minutes

	// —— participant metadata, latest event wins ——
	ParticipantName  string `bson:"participant_name" json:"participant_name"`
	ParticipantEmail string `bson:"participant_email,omitempty" json:"participant_email"`

	// ParticipantSessionIDs collects every provider session the participant
	// reconnected with. Set semantics: dedup on insert, order not meaningful.
	ParticipantSessionIDs []string `bson:"participant_session_ids" json:"participant_session_ids"`

	JoinTimes  []time.Time `bson:"join_times,omitempty" json:"join_times"`
	LeaveTimes []time.Time `bson:"leave_times,omitempty" json:"leave_times"`

	// ParticipationCount is a running +1/-1 counter of open sessions. It can
	// drift from the join/leave sets if an event is lost (not merely
	// duplicated); the render layer trusts it only for the online/offline
	// split and re-derives presence segments from the timestamp sets.
	ParticipationCount int `bson:"participation_count" json:"participation_count"`

	LastUpdatedAt time.Time `bson:"last_updated_at" json:"last_updated_at"`

	// EventTimestamps holds every event identity already applied to this
	// record. Membership here is the sole de-duplication mechanism.
	EventTimestamps []int64 `bson:"event_timestamps" json:"event_timestamps"`
}

// Online reports whether the counter says the participant still has an open session.
func (r *AttendanceRecord) Online() bool { return r.ParticipationCount > 0 }

// LatestJoin returns the most recent join time, zero if none recorded.
func (r *AttendanceRecord) LatestJoin() time.Time { return latest(r.JoinTimes) }

// LatestLeave returns the most recent leave time, zero if none recorded.
func (r *AttendanceRecord) LatestLeave() time.Time { return latest(r.LeaveTimes) }

func latest(ts []time.Time) time.Time {
	var max time.Time
	for _, t := range ts {
		if t.After(max) {
			max = t
		}
	}
	return max
}

// AttendanceEvent is one normalized join/leave, consumed exactly once by the
// ledger writer and never persisted on its own.
type AttendanceEvent struct {
	MeetingID        string
	MeetingTitle     string
	MeetingStartTime time.Time
	MeetingDuration  int64 // scheduled minutes

	ParticipantID    string
	ParticipantName  string
	ParticipantEmail string
	SessionID        string

	Kind EventKind
	Time time.Time

	// EventIdentity is the provider's event_ts (epoch millis); a snowflake
	// id is generated when the provider omits it.
	EventIdentity int64
}
