package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ItemStateTTL is the time-to-live for cached item state.
	ItemStateTTL = 24 * time.Hour

	itemStateKeyPrefix = "item_state"
)

// ItemState is the denormalized presence read model stored in Redis.
// Optional fields are omitted from the hash when nil.
type ItemState struct {
	ItemID        int64
	Name          string
	IsPresent     bool
	CurrentWeight *float64
	Plate         *int32
	Row           *int32
	Col           *int32
	LastEventID   int64
	UpdatedAtMs   int64
}

// ItemStateCache stores one hash per item.
// Key format: "item_state:{itemID}"
type ItemStateCache struct {
	client *RedisClient
}

// NewItemStateCache creates a new ItemStateCache backed by the given RedisClient.
func NewItemStateCache(r *RedisClient) *ItemStateCache {
	return &ItemStateCache{client: r}
}

// Get retrieves the cached state of an item.
// Returns redis.Nil when the key does not exist or has expired.
func (c *ItemStateCache) Get(ctx context.Context, itemID int64) (*ItemState, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(itemID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	return decodeItemState(vals)
}

// setIfNewerScript replaces the hash only when ARGV[1] (the event id) is
// newer than the cached last_event_id. ARGV[2] is the TTL in seconds and the
// remaining arguments are field/value pairs.
var setIfNewerScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'last_event_id')
if cur and tonumber(cur) >= tonumber(ARGV[1]) then
  return 0
end
redis.call('DEL', KEYS[1])
for i = 3, #ARGV, 2 do
  redis.call('HSET', KEYS[1], ARGV[i], ARGV[i + 1])
end
redis.call('EXPIRE', KEYS[1], ARGV[2])
return 1
`)

// SetIfNewer writes st unless the cached entry already reflects the same or a
// later event. The compare and write run as one script, so concurrent
// subscribers and read-through fills cannot move an entry backwards.
func (c *ItemStateCache) SetIfNewer(ctx context.Context, st *ItemState) error {
	fields := encodeItemState(st)
	args := make([]any, 0, len(fields)+2)
	args = append(args, st.LastEventID, int64(ItemStateTTL/time.Second))
	args = append(args, fields...)

	if err := setIfNewerScript.Run(ctx, c.client.Client(), []string{c.key(st.ItemID)}, args...).Err(); err != nil {
		return fmt.Errorf("cache set if newer: %w", err)
	}
	return nil
}

// Delete removes a cached item state.
func (c *ItemStateCache) Delete(ctx context.Context, itemID int64) error {
	if err := c.client.Client().Del(ctx, c.key(itemID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (c *ItemStateCache) key(itemID int64) string {
	return fmt.Sprintf("%s:%d", itemStateKeyPrefix, itemID)
}

// encodeItemState flattens st into field/value pairs. Nil fields are left out;
// the write script drops the old hash first, so they never linger.
func encodeItemState(st *ItemState) []any {
	fields := []any{
		"item_id", strconv.FormatInt(st.ItemID, 10),
		"name", st.Name,
		"is_present", strconv.FormatBool(st.IsPresent),
		"last_event_id", strconv.FormatInt(st.LastEventID, 10),
		"updated_at", strconv.FormatInt(st.UpdatedAtMs, 10),
	}
	if st.CurrentWeight != nil {
		fields = append(fields, "current_weight", strconv.FormatFloat(*st.CurrentWeight, 'f', -1, 64))
	}
	for _, f := range []struct {
		name string
		v    *int32
	}{{"plate", st.Plate}, {"row", st.Row}, {"col", st.Col}} {
		if f.v != nil {
			fields = append(fields, f.name, strconv.FormatInt(int64(*f.v), 10))
		}
	}
	return fields
}

func decodeItemState(vals map[string]string) (*ItemState, error) {
	st := &ItemState{Name: vals["name"]}
	var err error

	if st.ItemID, err = strconv.ParseInt(vals["item_id"], 10, 64); err != nil {
		return nil, fmt.Errorf("cache parse item_id: %w", err)
	}
	if st.IsPresent, err = strconv.ParseBool(vals["is_present"]); err != nil {
		return nil, fmt.Errorf("cache parse is_present: %w", err)
	}
	if st.LastEventID, err = strconv.ParseInt(vals["last_event_id"], 10, 64); err != nil {
		return nil, fmt.Errorf("cache parse last_event_id: %w", err)
	}
	if st.UpdatedAtMs, err = strconv.ParseInt(vals["updated_at"], 10, 64); err != nil {
		return nil, fmt.Errorf("cache parse updated_at: %w", err)
	}
	if s, ok := vals["current_weight"]; ok {
		w, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("cache parse current_weight: %w", err)
		}
		st.CurrentWeight = &w
	}
	for name, dst := range map[string]**int32{"plate": &st.Plate, "row": &st.Row, "col": &st.Col} {
		s, ok := vals[name]
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("cache parse %s: %w", name, err)
		}
		n := int32(v)
		*dst = &n
	}
	return st, nil
}
