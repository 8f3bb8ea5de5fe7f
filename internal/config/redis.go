package config

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var (
	rdb    *redis.Client
	locker *redislock.Client
)

// GetRedisDB is nil when REDIS_ADDRESS is not configured.
func GetRedisDB() *redis.Client {
	return rdb
}

func GetRedisLock() *redislock.Client {
	return locker
}

// ConnectRedis connects when REDIS_ADDRESS is set. Redis is optional: without
// it the analytics cache is bypassed and the notifier runs unlocked.
func ConnectRedis(ctx context.Context) {
	addr := GetEnv("REDIS_ADDRESS", "")
	if addr == "" {
		logg.Info("REDIS_ADDRESS not set; running without redis")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: GetEnv("REDIS_PASSWORD", ""),
		DB:       IntFromEnv("REDIS_DB", 0),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		LogError(logg, "config", "ConnectRedis", addr, nil, err)
		return
	}
	rdb = client
	locker = redislock.New(rdb)
	logg.WithField("addr", addr).Info("redis connected")
}

func GetRedisObject(ctx context.Context, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func SetRedisObject(ctx context.Context, key string, obj any, exp time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, exp).Err()
}
