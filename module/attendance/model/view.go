package model

import "time"

// ProgressSegment is one chunk of a participant's presence bar. WidthPercent
// values are proportions of the whole bar; the consumer lays segments out by
// concatenation in the order given.
type ProgressSegment struct {
	WidthPercent float64 `json:"width_percent"`
	Present      bool    `json:"present"`
	Tooltip      string  `json:"tooltip,omitempty"`
}

// ParticipantView is one rendered row of the participants page, consumed
// verbatim by the external template layer.
type ParticipantView struct {
	Name     string            `json:"name"`
	Email    string            `json:"email,omitempty"`
	Online   bool              `json:"online"`
	LastTime time.Time         `json:"last_time"` // latest join if online, latest leave otherwise
	Segments []ProgressSegment `json:"segments"`
}

// MeetingView is the header block of the participants page.
type MeetingView struct {
	MeetingID        string     `json:"meeting_id"`
	MeetingTitle     string     `json:"meeting_title"`
	MeetingStartTime time.Time  `json:"meeting_start_time"`
	MeetingDuration  int64      `json:"meeting_duration"`
	MeetingEndTime   *time.Time `json:"meeting_end_time,omitempty"`
	ParticipantCount int        `json:"participant_count"`
	CurrentCount     int        `json:"current_count"`
}

// MeetingSummary is one row of the meetings list, grouped over ledger records.
type MeetingSummary struct {
	MeetingID        string    `json:"meeting_id"`
	MeetingTitle     string    `json:"meeting_title"`
	MeetingStartTime time.Time `json:"meeting_start_time"`
	MeetingDuration  int64     `json:"meeting_duration"`
	ParticipantCount int       `json:"participant_count"`
	CurrentCount     int       `json:"current_count"`
	LastUpdatedAt    time.Time `json:"last_updated_at"`
}
