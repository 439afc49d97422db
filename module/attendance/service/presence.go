package service

import (
	"AProject/logger"
	"AProject/module/attendance/ledger"
	"AProject/module/attendance/model"
	"AProject/service/storage"

	"go.uber.org/zap"
)

// NotePresence mirrors a settled event into the Redis live-presence cache.
// The cache is advisory: failures are logged and never fail the apply, and
// duplicates must not bump counters twice.
func NotePresence(ev *model.AttendanceEvent, outcome ledger.Outcome) {
	if !storage.Enabled() || outcome == ledger.OutcomeDuplicate {
		return
	}
	var err error
	if ev.Kind == model.KindJoin {
		err = storage.PresenceJoin(ev.MeetingID, ev.ParticipantID)
	} else {
		err = storage.PresenceLeave(ev.MeetingID, ev.ParticipantID)
	}
	if err != nil {
		logger.Warn("presence cache update failed",
			zap.String("meeting", ev.MeetingID),
			zap.String("participant", ev.ParticipantID),
			zap.Error(err),
		)
		return
	}
	// last one out drops the meeting hash instead of waiting for the TTL
	if ev.Kind == model.KindLeave {
		if n, ok := LiveCount(ev.MeetingID); ok && n == 0 {
			if err := storage.PresenceClear(ev.MeetingID); err != nil {
				logger.Debug("presence cache clear failed", zap.Error(err))
			}
		}
	}
}

// LiveCount reads the cached live-participant count for a meeting; ok=false
// when the cache is disabled or unavailable and the caller must fall back to
// the ledger.
func LiveCount(meetingID string) (int, bool) {
	if !storage.Enabled() {
		return 0, false
	}
	n, err := storage.PresenceCount(meetingID)
	if err != nil {
		logger.Debug("presence cache read failed", zap.Error(err))
		return 0, false
	}
	return n, true
}
