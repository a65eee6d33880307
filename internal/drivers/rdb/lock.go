package rdb

import (
	"context"
	"time"
)

type RedisLock struct {
	rdb   *Service
	key   string // should be unique to the resource being locked
	value string // should be unique to the request doing the lock
	ttl   time.Duration
}

func (s *Service) NewLock(key, value string, ttl time.Duration) *RedisLock {
	return &RedisLock{
		rdb:   s,
		key:   key,
		value: value,
		ttl:   ttl,
	}
}

// TryLock only tries to aquire a lock,
// and informs the caller if it was successful or not.
// It sets key-value ONLY if the key doesn't exist.
func (l *RedisLock) TryLock(ctx context.Context) (bool, error) {
	return l.rdb.Client.SetNX(ctx, l.key, l.value, l.ttl).Result()
}

// Unlock deletes the key-value from Redis
// ONLY if the value is the correct value using LUA atomic script.
func (l *RedisLock) Unlock(ctx context.Context) error {
	script := `
        if redis.call("get", KEYS[1]) == ARGV[1] then
            return redis.call("del", KEYS[1])
        else
            return 0
        end
    `
	_, err := l.rdb.Client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}
