package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

var (
	rdb *redis.Client
	ctx = context.Background()
)

func InitRedis(c Config) error {
	rdb = redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})
	return rdb.Ping(ctx).Err()
}

// Enabled reports whether the presence cache was initialized; every call is a
// no-op without it, the ledger is the source of truth either way.
func Enabled() bool { return rdb != nil }

// presence key: att:presence:<meeting>, hash field per participant holding
// the open-session count. TTL keeps dead meetings from lingering.
func presenceKey(meetingID string) string { return "att:presence:" + meetingID }

const presenceTTL = 6 * time.Hour

// PresenceJoin bumps the participant's open-session count and renews the TTL.
func PresenceJoin(meetingID, participantID string) error {
	return presenceIncr(meetingID, participantID, 1)
}

// PresenceLeave decrements the participant's open-session count.
func PresenceLeave(meetingID, participantID string) error {
	return presenceIncr(meetingID, participantID, -1)
}

func presenceIncr(meetingID, participantID string, delta int64) error {
	if rdb == nil {
		return fmt.Errorf("redis not initialized")
	}
	key := presenceKey(meetingID)
	pipe := rdb.TxPipeline()
	pipe.HIncrBy(ctx, key, participantID, delta)
	pipe.Expire(ctx, key, presenceTTL)
	_, err := pipe.Exec(ctx)
	return errors.Wrap(err, "presence incr")
}

// PresenceCount returns how many participants currently hold at least one
// open session in the meeting. Counts below zero (lost joins) read as absent.
func PresenceCount(meetingID string) (int, error) {
	if rdb == nil {
		return 0, fmt.Errorf("redis not initialized")
	}
	vals, err := rdb.HGetAll(ctx, presenceKey(meetingID)).Result()
	if err != nil {
		return 0, errors.Wrap(err, "presence read")
	}
	n := 0
	for _, v := range vals {
		var c int
		if _, err := fmt.Sscanf(v, "%d", &c); err == nil && c > 0 {
			n++
		}
	}
	return n, nil
}

// PresenceClear drops the meeting hash, used when a meeting ends.
func PresenceClear(meetingID string) error {
	if rdb == nil {
		return fmt.Errorf("redis not initialized")
	}
	return rdb.Del(ctx, presenceKey(meetingID)).Err()
}
