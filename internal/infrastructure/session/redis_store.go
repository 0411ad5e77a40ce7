package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// RedisStore sesiones en Redis con TTL; la cookie solo lleva el ID.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore conecta a redisURL y verifica la conexión.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient construye el almacén sobre un cliente existente.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "sess:"}
}

func (s *RedisStore) key(token string) string {
	return s.prefix + token
}

// Load lee la sesión; redis.Nil equivale a no tener sesión.
func (s *RedisStore) Load(ctx context.Context, token string) (*Data, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, nil
	}
	return &d, nil
}

// Save escribe la sesión y renueva su TTL. Con token vacío genera un ID nuevo.
func (s *RedisStore) Save(ctx context.Context, token string, data *Data, ttl time.Duration) (string, error) {
	if token == "" {
		token = newToken()
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), raw, ttl).Err(); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

// Destroy elimina la sesión.
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// Ping verifica que Redis responde.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close cierra la conexión.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// newToken 244 bits aleatorios (dos UUID v4) sin guiones.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
