package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jwebster45206/dialogue-engine/pkg/dialogue"
	"github.com/jwebster45206/dialogue-engine/pkg/storage"
	"github.com/redis/go-redis/v9"
)

// RedisStorage implements the Storage interface using Redis for transcripts
// and the filesystem for static resources (sources, scripts, portraits)
type RedisStorage struct {
	*FileStorage
	client *redis.Client
	ttl    time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance. redisURL is either a
// redis:// URL or a host:port address.
func NewRedisStorage(redisURL string, dataDir string, ttl time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	opts, err := redisOptions(redisURL)
	if err != nil {
		return nil, err
	}
	files := NewFileStorage(dataDir, logger)
	return &RedisStorage{
		FileStorage: files,
		client:      redis.NewClient(opts),
		ttl:         ttl,
	}, nil
}

// Client exposes the Redis client for publishers sharing the connection.
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

func redisOptions(redisURL string) (*redis.Options, error) {
	if strings.Contains(redisURL, "://") {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: redisURL}, nil
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Transcript operations (Redis-backed)

// TranscriptKey is the Redis key holding a session's transcript.
func TranscriptKey(sessionID string) string {
	return "transcript:" + sessionID
}

func (r *RedisStorage) SaveTranscript(ctx context.Context, t *dialogue.Transcript) error {
	data, err := json.Marshal(t)
	if err != nil {
		r.logger.Error("Failed to marshal transcript", "session_id", t.SessionID, "error", err)
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	if err := r.client.Set(ctx, TranscriptKey(t.SessionID), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save transcript", "session_id", t.SessionID, "error", err)
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadTranscript(ctx context.Context, sessionID string) (*dialogue.Transcript, error) {
	data, err := r.client.Get(ctx, TranscriptKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("Transcript not found", "session_id", sessionID)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load transcript", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	var t dialogue.Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		r.logger.Error("Failed to unmarshal transcript", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return &t, nil
}

func (r *RedisStorage) DeleteTranscript(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, TranscriptKey(sessionID)).Err(); err != nil {
		r.logger.Error("Failed to delete transcript", "session_id", sessionID, "error", err)
		return fmt.Errorf("failed to delete transcript: %w", err)
	}
	return nil
}
