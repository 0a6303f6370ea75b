package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"talent-catalog-backend/internal/catalog"
	"talent-catalog-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// casAttempts bounds the optimistic-transaction retry on contention.
// This is not a store-failure retry: a failed store call still aborts.
const casAttempts = 5

// RedisStore is the document-store adapter: one JSON value per key,
// read-modify-written whole. It implements catalog.DocumentStore.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:         cfg.Host,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     10,
			MinIdleConns: 5,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
	}
}

func (r *RedisStore) Connect(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Get unmarshals the stored JSON value into dest. Returns found=false
// when the key does not exist; dest is left untouched.
func (r *RedisStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get document %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode document %q: %w", key, err)
	}
	return true, nil
}

func (r *RedisStore) Put(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode document %q: %w", key, err)
	}
	if err := r.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to put document %q: %w", key, err)
	}
	return nil
}

// Update runs one read-modify-write cycle inside a WATCH/MULTI/EXEC
// transaction, so a concurrent writer invalidates this write instead of
// being silently overwritten. Contention retries a bounded number of
// times; mutate sees raw=nil when the key does not exist yet.
func (r *RedisStore) Update(ctx context.Context, key string, mutate func(raw []byte) ([]byte, error)) error {
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			raw = nil
		} else if err != nil {
			return fmt.Errorf("failed to get document %q: %w", key, err)
		}

		next, err := mutate(raw)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < casAttempts; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == redis.TxFailedErr {
			continue
		}
		return err
	}
	return fmt.Errorf("%w: %q", catalog.ErrDocumentBusy, key)
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
