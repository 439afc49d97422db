package intake

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"AProject/logger"
	"AProject/module/attendance/event"
	"AProject/module/attendance/ledger"
	"AProject/module/attendance/model"
	"AProject/module/attendance/service"
	"AProject/service/natsx"

	"go.uber.org/zap"
)

// BizAttendance is the natsx route name for the provider event relay.
const BizAttendance = "attendance.events"

const idemTTL = 10 * time.Minute

// RegisterRoute binds the relay subject as a durable JetStream push route
// consumed by a shared queue group, so multiple replicas split the stream.
func RegisterRoute(c *natsx.NatsxClient, subject, durable string) error {
	return c.RegisterRoute(natsx.NatsxRoute{
		Biz:     BizAttendance,
		Subject: subject,
		Mode:    natsx.JetStreamPush,
		Queue:   "attendance-ledger",
		Durable: durable,
	})
}

// StartConsumer applies relayed provider events to the ledger. The idem
// middleware is only a fast-path; redeliveries that slip past it are absorbed
// by the ledger's conditional writes.
func StartConsumer(c *natsx.NatsxClient, w *ledger.Writer) error {
	cons := natsx.NewNatsxConsumer(c,
		natsx.NatsxIdemMiddleware(natsx.NewMemIdem(idemTTL), idemTTL),
	)
	return cons.Subscribe(BizAttendance, func(ctx context.Context, msg natsx.NatsxMessage) error {
		var body model.WebhookBody
		if err := json.Unmarshal(msg.Data, &body); err != nil {
			// poison message; ack it away instead of redelivering forever
			logger.Warn("relay: undecodable event dropped", zap.Error(err))
			return nil
		}
		ev, err := event.Normalize(&body)
		if err != nil {
			logger.Warn("relay: rejected event", zap.String("event", body.Event), zap.Error(err))
			return nil
		}
		outcome, err := w.Apply(ctx, ev)
		if err != nil {
			return err // NAK, the provider relay redelivers
		}
		service.NotePresence(ev, outcome)
		logger.Debug("relay: event settled",
			zap.String("meeting", ev.MeetingID),
			zap.String("outcome", outcome.String()),
		)
		return nil
	})
}

// Relay publishes raw webhook bodies onto the intake subject, carrying the
// event identity as the message id so consumer-side dedup can key on it.
type Relay struct {
	producer *natsx.NatsxProducer
}

func NewRelay(c *natsx.NatsxClient) *Relay {
	return &Relay{producer: natsx.NewNatsxProducer(c)}
}

func (r *Relay) Publish(ctx context.Context, raw []byte, identity int64) error {
	return r.producer.Publish(ctx, BizAttendance, raw, map[string]string{
		"Nats-Msg-Id": strconv.FormatInt(identity, 10),
	})
}
