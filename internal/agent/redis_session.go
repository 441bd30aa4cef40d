package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"lifeops/internal/models"
)

const (
	redisTaskKeyPrefix     = "lifeops:tasks:"
	redisActivityKeyPrefix = "lifeops:activity:"
)

// RedisSessionStore persists per-user session state in Redis, making
// tasks and activity notes survive process restarts. Opt-in via the
// session backend config.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a RedisSessionStore on top of an
// established client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Tasks returns the user's current task list, or an empty list if none
// was stored yet.
func (s *RedisSessionStore) Tasks(ctx context.Context, userID string) ([]models.Task, error) {
	data, err := s.client.Get(ctx, redisTaskKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks from redis: %w", err)
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode stored tasks: %w", err)
	}
	return tasks, nil
}

// ReplaceTasks overwrites the user's task list wholesale.
func (s *RedisSessionStore) ReplaceTasks(ctx context.Context, userID string, tasks []models.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := s.client.Set(ctx, redisTaskKeyPrefix+userID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store tasks in redis: %w", err)
	}
	return nil
}

// Activities returns the user's activity notes in append order.
func (s *RedisSessionStore) Activities(ctx context.Context, userID string) ([]string, error) {
	notes, err := s.client.LRange(ctx, redisActivityKeyPrefix+userID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load activities from redis: %w", err)
	}
	return notes, nil
}

// AppendActivity records one activity note for the user.
func (s *RedisSessionStore) AppendActivity(ctx context.Context, userID, note string) error {
	if err := s.client.RPush(ctx, redisActivityKeyPrefix+userID, note).Err(); err != nil {
		return fmt.Errorf("failed to append activity to redis: %w", err)
	}
	return nil
}
