package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore implements Store over two Redis logical databases: one for
// the log family and one for the list family. Separate databases keep
// the families disjoint, so RANDOMKEY against the list database can
// never hand back a log entry.
type RedisStore struct {
	log   *zap.Logger
	logs  *redis.Client // log family: <domain>:<item>:<timestamp> → action, with TTL
	lists *redis.Client // list family: <domain>:<item> → list of timestamps
}

// NewRedisStore connects two clients against addr, one per logical
// database. logsDB and listsDB must differ.
func NewRedisStore(addr string, logsDB, listsDB int, log *zap.Logger) (*RedisStore, error) {
	if logsDB == listsDB {
		return nil, fmt.Errorf("log and list families must use distinct databases (got %d for both)", logsDB)
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("journalstore")

	s := &RedisStore{
		log:   log,
		logs:  redis.NewClient(redisOptions(addr, logsDB)),
		lists: redis.NewClient(redisOptions(addr, listsDB)),
	}
	s.ping(context.TODO())
	return s, nil
}

// NewRedisStoreFromClients wraps pre-built clients. Both must point at
// disjoint keyspaces.
func NewRedisStoreFromClients(logs, lists *redis.Client, log *zap.Logger) *RedisStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisStore{log: log.Named("journalstore"), logs: logs, lists: lists}
}

func redisOptions(addr string, db int) *redis.Options {
	return &redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	}
}

// ping logs connection diagnostics for both clients.
func (s *RedisStore) ping(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	for _, c := range []*redis.Client{s.logs, s.lists} {
		opts := c.Options()
		log := s.log.With(zap.String("addr", opts.Addr), zap.Int("db", opts.DB))

		start := time.Now()
		err := c.Ping(ctx).Err()
		elapsed := time.Since(start)

		if err != nil {
			log.Warn("connection failed", zap.Error(err), zap.Duration("ping_rtt", elapsed))
		} else {
			log.Info("connection established", zap.Duration("ping_rtt", elapsed))
		}
	}
}

// Close closes both underlying clients.
func (s *RedisStore) Close() error {
	return errors.Join(s.logs.Close(), s.lists.Close())
}

func (s *RedisStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.logs.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.logs.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("get: %w", err)
	}
	return value, nil
}

func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.logs.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("ttl: %w", err)
	}
	return ttl, nil
}

func (s *RedisStore) ListAppend(ctx context.Context, key, element string) error {
	if err := s.lists.RPush(ctx, key, element).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	return nil
}

func (s *RedisStore) ListRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	elements, err := s.lists.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange: %w", err)
	}
	return elements, nil
}

func (s *RedisStore) ListRemove(ctx context.Context, key, element string, count int64) error {
	if err := s.lists.LRem(ctx, key, count, element).Err(); err != nil {
		return fmt.Errorf("lrem: %w", err)
	}
	return nil
}

func (s *RedisStore) ListDelete(ctx context.Context, key string) error {
	if err := s.lists.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("del: %w", err)
	}
	return nil
}

func (s *RedisStore) ListLength(ctx context.Context, key string) (int64, error) {
	n, err := s.lists.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("llen: %w", err)
	}
	return n, nil
}

func (s *RedisStore) RandomListKey(ctx context.Context) (string, error) {
	key, err := s.lists.RandomKey(ctx).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("randomkey: %w", err)
	}
	return key, nil
}
