package global

import (
	"os"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// AppConfig is everything the service reads from the environment. Fields are
// decoded weakly typed so numeric knobs can arrive as plain env strings.
type AppConfig struct {
	ListenAddr    string `mapstructure:"LISTEN_ADDR"`
	WebhookSecret string `mapstructure:"WEBHOOK_SECRET"`
	OrgName       string `mapstructure:"ORGANIZATION_NAME"`
	Timezone      string `mapstructure:"DISPLAY_TIMEZONE"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	NatsServers string `mapstructure:"NATS_SERVERS"` // comma separated, empty disables the relay intake
	NatsSubject string `mapstructure:"NATS_SUBJECT"`
	NatsDurable string `mapstructure:"NATS_DURABLE"`

	MeetingListDays int   `mapstructure:"MEETING_LIST_DAYS"`
	NodeID          int64 `mapstructure:"NODE_ID"`
}

var (
	appCfg  *AppConfig
	cfgOnce sync.Once
)

// Config returns the process-wide configuration, loading it on first use.
func Config() *AppConfig {
	cfgOnce.Do(func() {
		appCfg = load()
	})
	return appCfg
}

func load() *AppConfig {
	raw := map[string]string{
		"LISTEN_ADDR":       ":8080",
		"DISPLAY_TIMEZONE":  "America/Los_Angeles",
		"MONGO_URI":         "mongodb://localhost:27017",
		"MONGO_DATABASE":    "attendance",
		"NATS_SUBJECT":      "attendance.events",
		"NATS_DURABLE":      "attendance-ledger",
		"MEETING_LIST_DAYS": "30",
		"NODE_ID":           "1",
	}
	for _, key := range []string{
		"LISTEN_ADDR", "WEBHOOK_SECRET", "ORGANIZATION_NAME", "DISPLAY_TIMEZONE",
		"MONGO_URI", "MONGO_DATABASE",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"NATS_SERVERS", "NATS_SUBJECT", "NATS_DURABLE",
		"MEETING_LIST_DAYS", "NODE_ID",
	} {
		if v, ok := os.LookupEnv(key); ok {
			raw[key] = v
		}
	}

	var out AppConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err == nil {
		_ = dec.Decode(raw)
	}
	return &out
}

// NatsServerList splits the configured server string; empty slice means the
// relay intake is disabled.
func (c *AppConfig) NatsServerList() []string {
	if strings.TrimSpace(c.NatsServers) == "" {
		return nil
	}
	parts := strings.Split(c.NatsServers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
