package resumeinfra

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/go-redis/redis/v8"
)

// RedisQueue implements resume.JobQueue with a Redis list for ready jobs and
// a sorted set, scored by due time, for delayed retries.
type RedisQueue struct {
	client    *redis.Client
	queueName string
	now       func() time.Time
}

func NewRedisQueue(client *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{
		client:    client,
		queueName: queueName,
		now:       time.Now,
	}
}

func (q *RedisQueue) delayedKey() string { return q.queueName + ":delayed" }

func (q *RedisQueue) Enqueue(ctx context.Context, job *resume.ParseJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return resume.ErrQueueEnqueueFailed().WithCause(err).WithDetail("job_id", job.ID)
	}
	if err := q.client.LPush(ctx, q.queueName, data).Err(); err != nil {
		return resume.ErrQueueEnqueueFailed().WithCause(err).WithDetail("job_id", job.ID)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*resume.ParseJob, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, resume.ErrQueueDequeueFailed().WithCause(err)
	}
	if len(result) < 2 {
		return nil, resume.ErrQueueDequeueFailed().WithDetail("elements", len(result))
	}

	var job resume.ParseJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, resume.ErrQueueDequeueFailed().WithCause(err).WithDetail("payload", result[1])
	}
	return &job, nil
}

func (q *RedisQueue) EnqueueDelayed(ctx context.Context, job *resume.ParseJob, delay time.Duration) error {
	data, err := json.Marshal(job)
	if err != nil {
		return resume.ErrJobRetryFailed().WithCause(err).WithDetail("job_id", job.ID)
	}
	due := float64(q.now().Add(delay).Unix())
	if err := q.client.ZAdd(ctx, q.delayedKey(), &redis.Z{Score: due, Member: data}).Err(); err != nil {
		return resume.ErrJobRetryFailed().WithCause(err).WithDetail("job_id", job.ID)
	}
	return nil
}

// moveDueScript moves due members atomically so two movers never push the
// same job twice.
var moveDueScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
for _, job in ipairs(due) do
	redis.call('ZREM', KEYS[1], job)
	redis.call('LPUSH', KEYS[2], job)
end
return #due
`)

func (q *RedisQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	now := strconv.FormatInt(q.now().Unix(), 10)
	moved, err := moveDueScript.Run(ctx, q.client, []string{q.delayedKey(), q.queueName}, now).Int()
	if err != nil {
		return 0, resume.ErrQueueDequeueFailed().WithCause(err).WithDetail("op", "move_delayed")
	}
	return moved, nil
}

func (q *RedisQueue) Stats(ctx context.Context) (resume.QueueStats, error) {
	pipe := q.client.Pipeline()
	ready := pipe.LLen(ctx, q.queueName)
	delayed := pipe.ZCard(ctx, q.delayedKey())
	if _, err := pipe.Exec(ctx); err != nil {
		return resume.QueueStats{}, resume.ErrQueueDequeueFailed().WithCause(err).WithDetail("op", "stats")
	}
	return resume.QueueStats{Ready: ready.Val(), Delayed: delayed.Val()}, nil
}

func (q *RedisQueue) Clear(ctx context.Context) error {
	if err := q.client.Del(ctx, q.queueName, q.delayedKey()).Err(); err != nil {
		return resume.ErrQueueDequeueFailed().WithCause(err).WithDetail("op", "clear")
	}
	return nil
}

// Ping checks the Redis connection.
func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}
