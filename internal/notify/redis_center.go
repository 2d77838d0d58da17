package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	redis "github.com/go-redis/redis/v8"
)

const defaultRedisPrefix = "pitchlog:notifications"

// RedisCenter keeps pending notifications in Redis: a hash of JSON payloads
// by identifier and a sorted set of identifiers scored by trigger time in
// milliseconds. Several processes may share one center; PopDue claims each
// entry for exactly one of them.
type RedisCenter struct {
	conn       *redis.Client
	granted    bool
	payloadKey string
	dueKey     string
}

// NewRedisCenter connects to the Redis URL and checks the connection.
func NewRedisCenter(ctx context.Context, addr string, granted bool) (*RedisCenter, error) {
	opt, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return NewRedisCenterFromClient(client, granted, defaultRedisPrefix), nil
}

func NewRedisCenterFromClient(client *redis.Client, granted bool, prefix string) *RedisCenter {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisCenter{
		conn:       client,
		granted:    granted,
		payloadKey: prefix,
		dueKey:     prefix + ":due",
	}
}

func (center *RedisCenter) Close() error {
	return center.conn.Close()
}

func (center *RedisCenter) RequestAuthorization(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return center.granted, nil
}

func (center *RedisCenter) Schedule(ctx context.Context, notification Notification) error {
	if err := validate(notification); err != nil {
		return err
	}
	notification.TriggerAt = notification.TriggerAt.UTC()

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshaling notification %q: %w", notification.Identifier, err)
	}

	_, err = center.conn.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, center.payloadKey, notification.Identifier, string(payload))
		pipe.ZAdd(ctx, center.dueKey, &redis.Z{
			Score:  float64(notification.TriggerAt.UnixMilli()),
			Member: notification.Identifier,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("scheduling notification %q: %w", notification.Identifier, err)
	}
	return nil
}

func (center *RedisCenter) Cancel(ctx context.Context, identifiers ...string) error {
	if len(identifiers) == 0 {
		return nil
	}

	members := make([]interface{}, 0, len(identifiers))
	for _, identifier := range identifiers {
		members = append(members, identifier)
	}
	_, err := center.conn.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, center.payloadKey, identifiers...)
		pipe.ZRem(ctx, center.dueKey, members...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cancelling notifications: %w", err)
	}
	return nil
}

func (center *RedisCenter) ListPending(ctx context.Context) ([]Notification, error) {
	raw, err := center.conn.HGetAll(ctx, center.payloadKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}

	result := make([]Notification, 0, len(raw))
	for identifier, payload := range raw {
		notification, err := decodeNotification(identifier, payload)
		if err != nil {
			return nil, err
		}
		result = append(result, notification)
	}
	sortByTrigger(result)
	return result, nil
}

// popDueScript reads and removes due entries in one step, so an entry
// rescheduled concurrently is never half claimed.
var popDueScript = redis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[2], '-inf', ARGV[1])
local out = {}
for _, id in ipairs(ids) do
  local payload = redis.call('HGET', KEYS[1], id)
  redis.call('ZREM', KEYS[2], id)
  redis.call('HDEL', KEYS[1], id)
  if payload then
    table.insert(out, payload)
  end
end
return out
`)

func (center *RedisCenter) PopDue(ctx context.Context, now time.Time) ([]Notification, error) {
	raw, err := popDueScript.Run(ctx, center.conn,
		[]string{center.payloadKey, center.dueKey},
		strconv.FormatInt(now.UnixMilli(), 10),
	).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("popping due notifications: %w", err)
	}

	payloads, _ := raw.([]interface{})
	due := make([]Notification, 0, len(payloads))
	for _, item := range payloads {
		payload, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("popping due notifications: unexpected payload %T", item)
		}
		notification, err := decodeNotification("", payload)
		if err != nil {
			return nil, err
		}
		due = append(due, notification)
	}
	sortByTrigger(due)
	return due, nil
}

func decodeNotification(identifier string, payload string) (Notification, error) {
	var notification Notification
	if err := json.Unmarshal([]byte(payload), &notification); err != nil {
		return Notification{}, fmt.Errorf("unmarshaling notification %q: %w", identifier, err)
	}
	return notification, nil
}
