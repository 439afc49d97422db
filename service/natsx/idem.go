package natsx

import (
	"strings"
	"sync"
	"time"

	"AProject/tools/safe"

	"golang.org/x/net/context"
)

// IdemStore answers "was this key seen before" with a TTL. It is only a
// fast-path in front of the ledger's own conditional-write dedup, so a lossy
// in-memory implementation is acceptable.
type IdemStore interface {
	SeenOnce(key string, ttl time.Duration) (seen bool, err error)
}

type memIdem struct {
	mu  sync.Mutex
	m   map[string]int64 // key -> expireUnix
	ttl time.Duration
}

func NewMemIdem(defaultTTL time.Duration) IdemStore {
	mi := &memIdem{m: make(map[string]int64), ttl: defaultTTL}
	safe.SafeGo(func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for range t.C {
			now := time.Now().Unix()
			mi.mu.Lock()
			for k, exp := range mi.m {
				if exp <= now {
					delete(mi.m, k)
				}
			}
			mi.mu.Unlock()
		}
	})
	return mi
}

func (mi *memIdem) SeenOnce(key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = mi.ttl
	}
	exp := time.Now().Add(ttl).Unix()
	mi.mu.Lock()
	defer mi.mu.Unlock()
	if old, ok := mi.m[key]; ok && old > time.Now().Unix() {
		return true, nil
	}
	mi.m[key] = exp
	return false, nil
}

func msgIDFromHeader(h map[string]string) string {
	for _, k := range []string{"Nats-Msg-Id", "nats-msg-id", "X-Msg-Id", "x-msg-id"} {
		if v, ok := h[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

// NatsxIdemMiddleware skips messages whose id was already processed within
// ttl. Messages without an id fall back to a weak subject+body key.
func NatsxIdemMiddleware(store IdemStore, ttl time.Duration) NatsxMiddleware {
	return func(next NatsxHandler) NatsxHandler {
		return func(ctx context.Context, msg NatsxMessage) error {
			id := msgIDFromHeader(msg.Header)
			if id == "" {
				id = msg.Subject + "|" + strings.TrimSpace(string(msg.Data))
			}
			seen, _ := store.SeenOnce(id, ttl)
			if seen {
				return nil
			}
			return next(ctx, msg)
		}
	}
}
