package cache

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrNilClient = errors.New("redis store: nil client")

// scanBatch is the COUNT hint for SCAN and the MGET batch size.
const scanBatch = 100

// RedisStore keeps each entry as a msgpack blob under its own key. Keys are
// written without a Redis TTL so expiry semantics match the other backends.
//
// ScanAll walks the keyspace matching KeyPrefix with SCAN. Against a cluster
// client only the node the command lands on is scanned.
type RedisStore struct {
	rdb goredis.UniversalClient
}

type redisEntry struct {
	Data []byte `msgpack:"data"`
	TTL  int64  `msgpack:"ttl"`
}

func NewRedisStore(rdb goredis.UniversalClient) (*RedisStore, error) {
	if rdb == nil {
		return nil, ErrNilClient
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, storeErr("get", key, err)
	}
	e, err := decodeRedis(key, b)
	if err != nil {
		return Entry{}, false, storeErr("get", key, err)
	}
	return e, true, nil
}

func (s *RedisStore) Put(ctx context.Context, e Entry) error {
	b, err := msgpack.Marshal(redisEntry{Data: e.Payload, TTL: e.ExpiresAt})
	if err != nil {
		return storeErr("put", e.Key, err)
	}
	if err := s.rdb.Set(ctx, e.Key, b, 0).Err(); err != nil {
		return storeErr("put", e.Key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return storeErr("delete", key, err)
	}
	return nil
}

func (s *RedisStore) ScanAll(ctx context.Context) ([]Entry, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, KeyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, storeErr("scan", "", err)
	}

	out := make([]Entry, 0, len(keys))
	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		vals, err := s.rdb.MGet(ctx, keys[start:end]...).Result()
		if err != nil {
			return nil, storeErr("scan", "", err)
		}
		for i, v := range vals {
			// deleted between SCAN and MGET
			if v == nil {
				continue
			}
			// Unreadable values are returned keyed and already expired so
			// invalidation still removes them.
			str, ok := v.(string)
			if !ok {
				out = append(out, Entry{Key: keys[start+i]})
				continue
			}
			e, err := decodeRedis(keys[start+i], []byte(str))
			if err != nil {
				e = Entry{Key: keys[start+i]}
			}
			out = append(out, e)
		}
	}
	return out, nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
		return err
	}
	return nil
}

func decodeRedis(key string, b []byte) (Entry, error) {
	var re redisEntry
	if err := msgpack.Unmarshal(b, &re); err != nil {
		return Entry{}, err
	}
	return Entry{Key: key, Payload: re.Data, ExpiresAt: re.TTL}, nil
}

var _ Store = (*RedisStore)(nil)
