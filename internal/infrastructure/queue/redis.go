package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mohammadpnp/math-server/internal/domain/calculation"
	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "mathserver:calculations"

// RedisQueue keeps dispatches in a Redis list so queued work survives a
// server restart and can be shared by several server processes.
type RedisQueue struct {
	client *redis.Client
	key    string
	// poll bounds each BRPOP so Dequeue notices cancellation.
	poll time.Duration
}

func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisQueue{client: client, key: key, poll: time.Second}
}

func (q *RedisQueue) Enqueue(ctx context.Context, d calculation.Dispatch) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode dispatch: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push dispatch: %w", err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context) (calculation.Dispatch, error) {
	for {
		if err := ctx.Err(); err != nil {
			return calculation.Dispatch{}, err
		}

		result, err := q.client.BRPop(ctx, q.poll, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return calculation.Dispatch{}, ctxErr
			}
			return calculation.Dispatch{}, fmt.Errorf("pop dispatch: %w", err)
		}

		// BRPOP replies with the key followed by the value.
		var d calculation.Dispatch
		if err := json.Unmarshal([]byte(result[1]), &d); err != nil {
			return calculation.Dispatch{}, fmt.Errorf("decode dispatch: %w", err)
		}
		return d, nil
	}
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
