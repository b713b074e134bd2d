package querylog

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKey        = "ratoneando:queries"
	defaultCandidates = 500
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps search terms in a sorted set scored by search count.
type RedisStore struct {
	client     *redis.Client
	ownsClient bool
	key        string
	candidates int
}

type RedisStoreOption func(*RedisStore)

// WithKey sets the sorted set key.
func WithKey(key string) RedisStoreOption {
	return func(s *RedisStore) { s.key = key }
}

// WithCandidates sets how many of the most popular terms Suggest ranks.
func WithCandidates(n int) RedisStoreOption {
	return func(s *RedisStore) { s.candidates = n }
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(cfg RedisConfig, opts ...RedisStoreOption) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	s := NewRedisStoreWithClient(client, opts...)
	s.ownsClient = true
	return s, nil
}

// NewRedisStoreWithClient wraps an existing client. The caller keeps
// ownership of it.
func NewRedisStoreWithClient(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client:     client,
		key:        defaultKey,
		candidates: defaultCandidates,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Record(ctx context.Context, query string) error {
	q := Normalize(query)
	if q == "" {
		return nil
	}
	if err := s.client.ZIncrBy(ctx, s.key, 1, q).Err(); err != nil {
		return fmt.Errorf("record query: %w", err)
	}
	return nil
}

func (s *RedisStore) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return []Entry{}, nil
	}
	zs, err := s.client.ZRevRangeWithScores(ctx, s.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("top queries: %w", err)
	}
	out := make([]Entry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		out = append(out, Entry{Query: member, Count: z.Score})
	}
	return out, nil
}

func (s *RedisStore) Suggest(ctx context.Context, prefix string, n int) ([]Entry, error) {
	entries, err := s.Top(ctx, s.candidates)
	if err != nil {
		return nil, err
	}
	return Rank(prefix, entries, n), nil
}

// Close closes the client if the store created it.
func (s *RedisStore) Close() error {
	if s.ownsClient && s.client != nil {
		return s.client.Close()
	}
	return nil
}
