package passcode

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "passcode:v1:"

// RedisStore keeps each issued passcode under its own key with a TTL equal to
// the expiry window, so expired codes disappear without a reaper. Keys are
// namespaced per phone number and code, which is what lets multiple live
// codes coexist for the same number.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a Redis-backed passcode store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func passcodeKey(phoneNumber, code string) string {
	return keyPrefix + phoneNumber + ":" + code
}

// Put persists the passcode until its expiry.
func (s *RedisStore) Put(ctx context.Context, p Passcode) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode passcode: %w", err)
	}

	ttl := time.Until(p.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("passcode already expired at %v", p.ExpiresAt)
	}

	if err := s.client.Set(ctx, passcodeKey(p.PhoneNumber, p.Code), payload, ttl).Err(); err != nil {
		return fmt.Errorf("persist passcode: %w", err)
	}
	return nil
}

// Active returns every unexpired passcode for the phone number, most recent
// first.
func (s *RedisStore) Active(ctx context.Context, phoneNumber string) ([]Passcode, error) {
	var out []Passcode

	iter := s.client.Scan(ctx, 0, keyPrefix+phoneNumber+":*", 0).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Result()
		if err == redis.Nil {
			continue // expired between scan and get
		}
		if err != nil {
			return nil, fmt.Errorf("load passcode %s: %w", iter.Val(), err)
		}

		var p Passcode
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode passcode %s: %w", iter.Val(), err)
		}
		out = append(out, p)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan passcodes: %w", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	return out, nil
}
