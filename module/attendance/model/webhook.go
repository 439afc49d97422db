package model

// Provider event discriminators we accept on the webhook.
const (
	EventWebinarJoined = "webinar.participant_joined"
	EventWebinarLeft   = "webinar.participant_left"
	EventMeetingJoined = "meeting.participant_joined"
	EventMeetingLeft   = "meeting.participant_left"
	EventURLValidation = "endpoint.url_validation"
)

// WebhookBody is the raw provider notification as delivered on the webhook.
type WebhookBody struct {
	Event   string          `json:"event"`
	EventTS int64           `json:"event_ts"` // epoch millis, doubles as event identity
	Payload *WebhookPayload `json:"payload"`
}

type WebhookPayload struct {
	AccountID  string         `json:"account_id,omitempty"`
	PlainToken string         `json:"plainToken,omitempty"` // url_validation only
	Object     *WebhookObject `json:"object,omitempty"`
}

type WebhookObject struct {
	ID          string              `json:"id"`
	UUID        string              `json:"uuid,omitempty"`
	Topic       string              `json:"topic"`
	StartTime   string              `json:"start_time"` // RFC3339
	Duration    int64               `json:"duration"`   // scheduled minutes
	Participant *WebhookParticipant `json:"participant"`
}

type WebhookParticipant struct {
	// ParticipantUserID is the stable account-level id; empty for guests,
	// in which case UserName is the fallback identity.
	ParticipantUserID string `json:"participant_user_id"`
	// UserID is the per-connection session id; changes on every reconnect.
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Email     string `json:"email,omitempty"`
	JoinTime  string `json:"join_time,omitempty"`
	LeaveTime string `json:"leave_time,omitempty"`
}
