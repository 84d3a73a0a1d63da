package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "bloomgen:session:"

// RedisStore keeps sessions as JSON values with a sliding TTL, so several
// server instances can share them.
type RedisStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb, ttl: opts.TTL}, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("redis get: %w", err)
	}
	return decode(raw)
}

func (r *RedisStore) Put(ctx context.Context, s Session) error {
	s.UpdatedAt = time.Now().UTC()
	raw, err := encode(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, keyPrefix+s.ID, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Update(ctx context.Context, s Session) error {
	s.UpdatedAt = time.Now().UTC()
	raw, err := encode(s)
	if err != nil {
		return err
	}
	ok, err := r.rdb.SetXX(ctx, keyPrefix+s.ID, raw, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis set xx: %w", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

func encode(s Session) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return raw, nil
}

func decode(raw []byte) (Session, error) {
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	if s.ID == "" {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}
