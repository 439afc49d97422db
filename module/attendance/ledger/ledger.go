package ledger

import (
	"context"
	"errors"

	"AProject/logger"
	"AProject/module/attendance/model"
	"AProject/tools/errs"
	"AProject/tools/safe"

	"go.uber.org/zap"
)

// Outcome is the terminal state of one Apply. The three cases are
// independently observable so tests can pin each protocol path.
type Outcome int

const (
	OutcomeApplied   Outcome = iota + 1 // update hit an existing record
	OutcomeCreated                      // insert created the first record
	OutcomeDuplicate                    // both phases refused: confirmed redelivery
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeCreated:
		return "created"
	case OutcomeDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Writer applies attendance events with at-most-once effect per event
// identity. It holds no state of its own; all coordination is delegated to
// the store's per-record conditional writes, so concurrent duplicate
// deliveries need no locking here.
type Writer struct {
	store Store
}

func NewWriter(store Store) *Writer {
	safe.MustNotNil(store, "ledger store")
	return &Writer{store: store}
}

// Apply runs the two-phase protocol:
//  1. conditional update of the existing record; refused when the record is
//     absent or the event identity was already applied,
//  2. conditional insert of a fresh record; refused when the record exists.
//
// Both refused means the event is a confirmed redelivery. That is the
// expected steady-state for an at-least-once provider, so it is logged and
// absorbed, never surfaced as an error. Store unavailability on either phase
// fails the whole Apply; each phase is one atomic write, so no partial state
// is left behind.
func (w *Writer) Apply(ctx context.Context, ev *model.AttendanceEvent) (Outcome, error) {
	err := w.store.UpdateExisting(ctx, ev)
	if err == nil {
		return OutcomeApplied, nil
	}
	if !errors.Is(err, ErrConditionFailed) {
		return 0, errs.ErrStore.WrapMsg("update phase failed", "meeting", ev.MeetingID, "participant", ev.ParticipantID, "cause", err)
	}

	err = w.store.InsertNew(ctx, ev)
	if err == nil {
		return OutcomeCreated, nil
	}
	if !errors.Is(err, ErrConditionFailed) {
		return 0, errs.ErrStore.WrapMsg("insert phase failed", "meeting", ev.MeetingID, "participant", ev.ParticipantID, "cause", err)
	}

	logger.Info("duplicate event; ignoring",
		zap.String("meeting", ev.MeetingID),
		zap.String("participant", ev.ParticipantID),
		zap.Int64("identity", ev.EventIdentity),
	)
	return OutcomeDuplicate, nil
}
