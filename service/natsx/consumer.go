package natsx

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

type NatsxConsumer struct {
	c   *NatsxClient
	mws []NatsxMiddleware
}

func NewNatsxConsumer(c *NatsxClient, mws ...NatsxMiddleware) *NatsxConsumer {
	return &NatsxConsumer{c: c, mws: mws}
}

// Subscribe consumes a registered route. Core subscriptions auto-ack;
// JetStream push subscriptions ack on handler success and NAK on error, so
// failed events are redelivered (the ledger absorbs the duplicates).
func (cs *NatsxConsumer) Subscribe(biz string, h NatsxHandler) error {
	r, ok := cs.c.route(biz)
	if !ok {
		return fmt.Errorf("route not found: %s", biz)
	}
	h = NatsxChain(h, cs.mws...)

	switch r.Mode {
	case Core:
		cb := func(m *nats.Msg) {
			_ = h(context.Background(), NatsxMessage{
				Subject: m.Subject,
				Data:    append([]byte(nil), m.Data...),
				Header:  headerToMap(m.Header),
			})
		}
		var (
			sub *nats.Subscription
			err error
		)
		if r.Queue == "" {
			sub, err = cs.c.nc.Subscribe(r.Subject, cb)
		} else {
			sub, err = cs.c.nc.QueueSubscribe(r.Subject, r.Queue, cb)
		}
		if err != nil {
			return err
		}
		cs.c.mu.Lock()
		cs.c.subs[biz] = sub
		cs.c.mu.Unlock()
		return nil

	case JetStreamPush:
		if cs.c.js == nil {
			return errors.New("jetstream not initialized")
		}
		opts := []nats.SubOpt{
			nats.ManualAck(),
			nats.AckWait(r.AckWait),
			nats.MaxAckPending(r.MaxAckPending),
		}
		if r.Durable != "" {
			opts = append(opts, nats.Durable(r.Durable))
		}
		cb := func(m *nats.Msg) {
			msg := NatsxMessage{
				Subject: m.Subject,
				Data:    append([]byte(nil), m.Data...),
				Header:  headerToMap(m.Header),
			}
			if err := h(context.Background(), msg); err == nil {
				_ = m.Ack()
			} else {
				_ = m.Nak()
			}
		}
		var (
			sub *nats.Subscription
			err error
		)
		if r.Queue == "" {
			sub, err = cs.c.js.Subscribe(r.Subject, cb, opts...)
		} else {
			sub, err = cs.c.js.QueueSubscribe(r.Subject, r.Queue, cb, opts...)
		}
		if err != nil {
			return err
		}
		cs.c.mu.Lock()
		cs.c.subs[biz] = sub
		cs.c.mu.Unlock()
		return nil

	default:
		return fmt.Errorf("mode not supported in Subscribe: %v", r.Mode)
	}
}
