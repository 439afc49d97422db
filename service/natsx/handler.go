package natsx

import "golang.org/x/net/context"

// NatsxMessage is the transport-neutral message handed to handlers.
type NatsxMessage struct {
	Subject string
	Data    []byte
	Header  map[string]string
}

// NatsxHandler processes one message; a non-nil error NAKs it on JetStream.
type NatsxHandler func(ctx context.Context, msg NatsxMessage) error

// NatsxMiddleware wraps handlers (dedup, logging, metrics).
type NatsxMiddleware func(NatsxHandler) NatsxHandler

// NatsxChain applies middlewares outermost-first.
func NatsxChain(h NatsxHandler, mws ...NatsxMiddleware) NatsxHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
