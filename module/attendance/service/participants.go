package service

import (
	"context"
	"sort"
	"time"

	"AProject/module/attendance/ledger"
	"AProject/module/attendance/model"
	"AProject/module/attendance/timeline"
)

// Attendance serves the render-time views over ledger records. All
// computation here is pure per call; concurrent renders share nothing.
type Attendance struct {
	store ledger.Store
	loc   *time.Location
	org   string
	clock func() time.Time
}

func NewAttendance(store ledger.Store, tzName, orgName string) *Attendance {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		loc = time.UTC
	}
	return &Attendance{store: store, loc: loc, org: orgName, clock: time.Now}
}

// ParticipantsPage is the full per-meeting render payload consumed by the
// external template layer.
type ParticipantsPage struct {
	Org     string                  `json:"org,omitempty"`
	Meeting model.MeetingView       `json:"meeting"`
	Online  []model.ParticipantView `json:"online"`
	Offline []model.ParticipantView `json:"offline"`
}

// ParticipantsView assembles one meeting's attendance page: online/offline
// split from the participation counter, presence segments re-derived from the
// join/leave sets, meeting end inferred once nobody is left online.
func (s *Attendance) ParticipantsView(ctx context.Context, meetingID string) (*ParticipantsPage, error) {
	records, err := s.store.MeetingRecords(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &ParticipantsPage{
			Org: s.org,
			Meeting: model.MeetingView{
				MeetingID:        meetingID,
				MeetingTitle:     "This meeting does not exist",
				MeetingStartTime: s.clock(),
			},
		}, nil
	}

	meetingStart := records[0].MeetingStartTime
	for _, rec := range records[1:] {
		if rec.MeetingStartTime.Before(meetingStart) {
			meetingStart = rec.MeetingStartTime
		}
	}

	var online, offline []model.AttendanceRecord
	for _, rec := range records {
		if rec.Online() {
			online = append(online, rec)
		} else {
			offline = append(offline, rec)
		}
	}
	// latest activity first
	sort.Slice(online, func(i, j int) bool {
		return online[i].LatestJoin().After(online[j].LatestJoin())
	})
	sort.Slice(offline, func(i, j int) bool {
		return offline[i].LatestLeave().After(offline[j].LatestLeave())
	})

	// the meeting has ended once nobody is online; its end is the latest leave
	var meetingEnd *time.Time
	if len(online) == 0 {
		end := s.clock()
		if len(offline) > 0 {
			end = offline[0].LatestLeave()
		}
		meetingEnd = &end
	}

	policy := timeline.Policy{
		MeetingStart:      meetingStart,
		ScheduledDuration: time.Duration(records[0].MeetingDuration) * time.Minute,
		MeetingEnd:        meetingEnd,
		Clock:             s.clock,
	}

	page := &ParticipantsPage{
		Org: s.org,
		Meeting: model.MeetingView{
			MeetingID:        meetingID,
			MeetingTitle:     records[0].MeetingTitle,
			MeetingStartTime: meetingStart,
			MeetingDuration:  records[0].MeetingDuration,
			MeetingEndTime:   meetingEnd,
			ParticipantCount: len(records),
			CurrentCount:     len(online),
		},
	}
	for _, rec := range online {
		page.Online = append(page.Online, s.participantView(rec, true, policy))
	}
	for _, rec := range offline {
		page.Offline = append(page.Offline, s.participantView(rec, false, policy))
	}
	return page, nil
}

func (s *Attendance) participantView(rec model.AttendanceRecord, online bool, policy timeline.Policy) model.ParticipantView {
	events := timeline.Build(rec.JoinTimes, rec.LeaveTimes, policy.MeetingStart)
	last := rec.LatestLeave()
	if online {
		last = rec.LatestJoin()
	}
	return model.ParticipantView{
		Name:     rec.ParticipantName,
		Email:    rec.ParticipantEmail,
		Online:   online,
		LastTime: last,
		Segments: timeline.RenderSegments(events, policy, s.loc),
	}
}
