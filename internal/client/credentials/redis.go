package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisValueField = "value"
	redisPathField  = "path"
)

// ErrReadInBatch is returned by Get on a store bound to a Redis batch.
var ErrReadInBatch = errors.New("credentials: read inside redis batch")

// RedisStore keeps each credential as a hash {value, path} under
// "<prefix>:<key>" and lets Redis expire it.
type RedisStore struct {
	rdb    *redis.Client
	cmd    redis.Cmdable
	prefix string
	inTx   bool
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, cmd: rdb, prefix: prefix}
}

func (s *RedisStore) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.inTx {
		return "", false, ErrReadInBatch
	}

	v, err := s.cmd.HGet(ctx, s.key(key), redisValueField).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get credential[%s]: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, opts SetOptions) error {
	k := s.key(key)
	write := func(p redis.Pipeliner) error {
		p.Del(ctx, k)
		p.HSet(ctx, k, redisValueField, value, redisPathField, normPath(opts.Path))
		if opts.ExpiresInDays > 0 {
			p.PExpire(ctx, k, expiryDuration(opts.ExpiresInDays))
		}
		return nil
	}

	var err error
	if p, ok := s.cmd.(redis.Pipeliner); ok {
		err = write(p)
	} else {
		_, err = s.rdb.TxPipelined(ctx, write)
	}
	if err != nil {
		return fmt.Errorf("failed to set credential[%s]: %w", key, err)
	}
	return nil
}

// Remove deletes key when its stored path matches. Inside a batch the path
// cannot be read back, so the key is deleted unconditionally.
func (s *RedisStore) Remove(ctx context.Context, key string, opts RemoveOptions) error {
	k := s.key(key)
	if s.inTx {
		s.cmd.Del(ctx, k)
		return nil
	}

	path, err := s.cmd.HGet(ctx, k, redisPathField).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove credential[%s]: %w", key, err)
	}
	if path != normPath(opts.Path) {
		return nil
	}

	if err := s.cmd.Del(ctx, k).Err(); err != nil {
		return fmt.Errorf("failed to remove credential[%s]: %w", key, err)
	}
	return nil
}

// Batch queues every write made by fn into one MULTI/EXEC block.
func (s *RedisStore) Batch(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		return fn(ctx, &RedisStore{rdb: s.rdb, cmd: p, prefix: s.prefix, inTx: true})
	})
	if err != nil {
		return fmt.Errorf("credential batch failed: %w", err)
	}
	return nil
}
