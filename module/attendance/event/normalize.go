package event

import (
	"time"

	"AProject/module/attendance/model"
	"AProject/tools/errs"
	"AProject/tools/ids"
)

// Normalize maps a raw provider notification onto one AttendanceEvent with a
// stable identity. Structurally incomplete bodies and unknown discriminators
// are rejected here so nothing malformed ever reaches the ledger writer.
func Normalize(body *model.WebhookBody) (*model.AttendanceEvent, error) {
	if body == nil || body.Event == "" || body.Payload == nil {
		return nil, errs.ErrArgs.WrapMsg("body must contain an event and a payload")
	}

	var kind model.EventKind
	switch body.Event {
	case model.EventWebinarJoined, model.EventMeetingJoined:
		kind = model.KindJoin
	case model.EventWebinarLeft, model.EventMeetingLeft:
		kind = model.KindLeave
	default:
		return nil, errs.ErrUnknownEvent.WrapMsg("unexpected event type", "event", body.Event)
	}

	obj := body.Payload.Object
	if obj == nil || obj.Participant == nil {
		return nil, errs.ErrArgs.WrapMsg("payload object or participant missing", "event", body.Event)
	}
	part := obj.Participant

	participantID := part.ParticipantUserID
	if participantID == "" {
		// guests carry no account id; the display name is the only identity
		participantID = part.UserName
	}
	if obj.ID == "" || participantID == "" {
		return nil, errs.ErrArgs.WrapMsg("meeting or participant identity missing", "meeting", obj.ID)
	}

	var when time.Time
	var err error
	if kind == model.KindJoin {
		when, err = parseTime(part.JoinTime)
	} else {
		when, err = parseTime(part.LeaveTime)
	}
	if err != nil {
		return nil, errs.ErrArgs.WrapMsg("bad join/leave timestamp", "event", body.Event)
	}

	startTime, _ := parseTime(obj.StartTime) // zero start is tolerated, render seeds from it as-is

	identity := body.EventTS
	if identity == 0 {
		identity = ids.Generate()
	}

	return &model.AttendanceEvent{
		MeetingID:        obj.ID,
		MeetingTitle:     obj.Topic,
		MeetingStartTime: startTime,
		MeetingDuration:  obj.Duration,
		ParticipantID:    participantID,
		ParticipantName:  part.UserName,
		ParticipantEmail: part.Email,
		SessionID:        part.UserID,
		Kind:             kind,
		Time:             when,
		EventIdentity:    identity,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errs.ErrArgs.Wrap()
	}
	return time.Parse(time.RFC3339, s)
}
