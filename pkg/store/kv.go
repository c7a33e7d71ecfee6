// Package store provides the client's two local stores: a redis-backed
// key-value store for the session token and preferences, and a
// sqlite-backed relational cache for the four offline collections.
package store

import (
	"context"
	"encoding/json"

	"github.com/example/quickbite/pkg/config"
	"github.com/go-redis/redis/v8"
)

const (
	tokenKey   = "session:access_token"
	prefPrefix = "pref:"
)

type KV struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewKV(cfg *config.RedisConfig) *KV {
	return &KV{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (k *KV) Ping(ctx context.Context) error {
	return k.client.Ping(ctx).Err()
}

func (k *KV) Close() error {
	return k.client.Close()
}

// Session token persistence; implements session.TokenStore.

func (k *KV) SaveToken(ctx context.Context, token string) error {
	return k.client.Set(ctx, tokenKey, token, 0).Err()
}

func (k *KV) LoadToken(ctx context.Context) (string, error) {
	token, err := k.client.Get(ctx, tokenKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	return token, err
}

func (k *KV) DeleteToken(ctx context.Context) error {
	return k.client.Del(ctx, tokenKey).Err()
}

// Preferences (language, generic flags).

func (k *KV) SetPref(ctx context.Context, name, value string) error {
	return k.client.Set(ctx, prefPrefix+name, value, 0).Err()
}

func (k *KV) GetPref(ctx context.Context, name string) (string, error) {
	value, err := k.client.Get(ctx, prefPrefix+name).Result()
	if err == redis.Nil {
		return "", nil
	}
	return value, err
}

func (k *KV) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return k.client.Set(ctx, key, data, 0).Err()
}

func (k *KV) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := k.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}
