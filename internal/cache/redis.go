// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup; while it is nil the
// historian is disabled and rooms skip publishing.
var Rdb *redis.Client

// DefaultQueueName is the Redis list (queue) name for room action logs.
const DefaultQueueName = "cardhub_actions"

// QueueName is the list actions are pushed to. ConnectRedis sets it.
var QueueName = DefaultQueueName

// RoomActionRecord is one entry of a room's action log, consumed by the historian.
type RoomActionRecord struct {
	RoomID        uuid.UUID              `json:"room_id"`
	ActionIndex   int                    `json:"action_index"`
	ActorID       uuid.UUID              `json:"actor_id"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

// ConnectRedis initializes the global client and checks the connection.
func ConnectRedis(addr string, db int, queue string) error {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	if queue != "" {
		QueueName = queue
	}
	Rdb = client
	return nil
}

// PublishRoomAction serializes the record to JSON and pushes it onto the queue.
func PublishRoomAction(ctx context.Context, record RoomActionRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal RoomActionRecord: %w", err)
	}
	if err := Rdb.RPush(ctx, QueueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", QueueName, err)
	}
	return nil
}

// Close releases the client.
func Close() error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Close()
}
