package natsx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NatsxMode selects how a route is consumed.
type NatsxMode int

const (
	Core          NatsxMode = iota // no persistence
	JetStreamPush                  // durable push subscription
)

// NatsxRoute is one biz-keyed subject binding.
type NatsxRoute struct {
	Biz           string
	Subject       string
	Mode          NatsxMode
	Queue         string // queue group (Core / JS push)
	Durable       string // JS durable name
	AckWait       time.Duration
	MaxAckPending int
}

type NatsxConfig struct {
	Servers       []string
	Name          string
	ReconnectWait time.Duration
	Timeout       time.Duration
}

type NatsxClient struct {
	cfg NatsxConfig
	nc  *nats.Conn
	js  nats.JetStreamContext

	mu     sync.RWMutex
	routes map[string]NatsxRoute
	subs   map[string]*nats.Subscription
}

func NewNatsxClient(cfg NatsxConfig) (*NatsxClient, error) {
	if len(cfg.Servers) == 0 {
		return nil, errors.New("nats servers missing")
	}
	if cfg.ReconnectWait == 0 {
		cfg.ReconnectWait = 500 * time.Millisecond
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 3 * time.Second
	}
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.ReconnectJitter(100*time.Millisecond, 500*time.Millisecond),
		nats.Timeout(cfg.Timeout),
	}
	nc, err := nats.Connect(strings.Join(cfg.Servers, ","), opts...)
	if err != nil {
		return nil, err
	}
	return &NatsxClient{
		cfg:    cfg,
		nc:     nc,
		routes: make(map[string]NatsxRoute),
		subs:   make(map[string]*nats.Subscription),
	}, nil
}

// Close drains every subscription, then the connection.
func (c *NatsxClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for biz, sub := range c.subs {
		_ = sub.Drain()
		delete(c.subs, biz)
	}
	if c.nc != nil {
		return c.nc.Drain()
	}
	return nil
}

func (c *NatsxClient) ensureJS() error {
	if c.js != nil {
		return nil
	}
	js, err := c.nc.JetStream()
	if err != nil {
		return err
	}
	c.js = js
	return nil
}

// RegisterRoute binds a biz name to a subject before producing or consuming.
func (c *NatsxClient) RegisterRoute(r NatsxRoute) error {
	if r.Biz == "" || r.Subject == "" {
		return errors.New("invalid route")
	}
	if r.Mode == JetStreamPush {
		if err := c.ensureJS(); err != nil {
			return fmt.Errorf("init jetstream: %w", err)
		}
		if r.AckWait == 0 {
			r.AckWait = 30 * time.Second
		}
		if r.MaxAckPending == 0 {
			r.MaxAckPending = 1024
		}
	}
	c.mu.Lock()
	c.routes[r.Biz] = r
	c.mu.Unlock()
	return nil
}

func (c *NatsxClient) route(biz string) (NatsxRoute, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.routes[biz]
	return r, ok
}

func (c *NatsxClient) sendCore(subject string, data []byte, hdr map[string]string) error {
	msg := &nats.Msg{Subject: subject, Data: data, Header: mapToHeader(hdr)}
	return c.nc.PublishMsg(msg)
}

func (c *NatsxClient) sendJS(ctx context.Context, subject string, data []byte, hdr map[string]string) error {
	if err := c.ensureJS(); err != nil {
		return err
	}
	msg := &nats.Msg{Subject: subject, Data: data, Header: mapToHeader(hdr)}
	_, err := c.js.PublishMsg(msg, nats.Context(ctx))
	return err
}

func headerToMap(h nats.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func mapToHeader(m map[string]string) nats.Header {
	if len(m) == 0 {
		return nil
	}
	h := make(nats.Header, len(m))
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}
