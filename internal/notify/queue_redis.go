package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	redisQueueKey = "agenda:notify:queue"
	redisDeadKey  = "agenda:notify:dead"
	maxDeadRedis  = 1000
	popTimeout    = 2 * time.Second
)

// RedisQueue usa uma lista: LPUSH na entrada, BRPOP nos workers.
// Mensagens sobrevivem a restart do processo.
type RedisQueue struct {
	rdb *redis.Client
}

func NewRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func NewRedisQueue(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{rdb: rdb}
}

func (q *RedisQueue) Push(ctx context.Context, msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return q.rdb.LPush(ctx, redisQueueKey, b).Err()
}

func (q *RedisQueue) Pop(ctx context.Context) (Message, error) {
	for {
		res, err := q.rdb.BRPop(ctx, popTimeout, redisQueueKey).Result()
		if errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return Message{}, ctx.Err()
			}
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return Message{}, ctx.Err()
			}
			return Message{}, err
		}

		// res = [chave, valor]
		var msg Message
		if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
			_ = q.rdb.LPush(ctx, redisDeadKey, res[1]).Err()
			continue
		}
		return msg, nil
	}
}

func (q *RedisQueue) DeadLetter(ctx context.Context, msg Message, reason string) error {
	b, err := json.Marshal(DeadMessage{Message: msg, Reason: reason})
	if err != nil {
		return err
	}

	pipe := q.rdb.TxPipeline()
	pipe.LPush(ctx, redisDeadKey, b)
	pipe.LTrim(ctx, redisDeadKey, 0, maxDeadRedis-1)
	_, err = pipe.Exec(ctx)
	return err
}
