package analytics

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
)

// StoredPayload is a raw upload as persisted for other instances.
type StoredPayload struct {
	Kind        enums.PayloadKind `msgpack:"kind"`
	Name        string            `msgpack:"name"`
	Marketplace enums.Marketplace `msgpack:"marketplace,omitempty"`
	Data        []byte            `msgpack:"data"`
	Version     uint64            `msgpack:"version"`
	Fingerprint uint64            `msgpack:"fingerprint"`
	StoredAt    time.Time         `msgpack:"stored_at"`
}

// PayloadStore shares raw payloads between the API instances and the refresh
// worker. Versions come from one shared counter so they order across writers.
type PayloadStore interface {
	// Publish allocates one version, stamps it on every payload and stores them.
	Publish(ctx context.Context, payloads ...StoredPayload) (uint64, error)
	// Latest returns the last allocated version, 0 when nothing was published.
	Latest(ctx context.Context) (uint64, error)
	// Load returns the stored payload of kind, nil when absent.
	Load(ctx context.Context, kind enums.PayloadKind) (*StoredPayload, error)
}

type redisKV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GetBytes(ctx context.Context, key string) ([]byte, error)
	Incr(ctx context.Context, key string) (int64, error)
	PayloadKey(kind string) string
	SnapshotVersionKey() string
}

// RedisPayloadStore keeps msgpack-encoded payloads in Redis.
type RedisPayloadStore struct {
	kv redisKV
}

// NewRedisPayloadStore wraps a redis client.
func NewRedisPayloadStore(kv redisKV) *RedisPayloadStore {
	return &RedisPayloadStore{kv: kv}
}

func (r *RedisPayloadStore) Publish(ctx context.Context, payloads ...StoredPayload) (uint64, error) {
	if len(payloads) == 0 {
		return 0, errors.New("no payloads to publish")
	}
	next, err := r.kv.Incr(ctx, r.kv.SnapshotVersionKey())
	if err != nil {
		return 0, fmt.Errorf("allocate snapshot version: %w", err)
	}
	version := uint64(next)
	for _, p := range payloads {
		p.Version = version
		raw, err := msgpack.Marshal(&p)
		if err != nil {
			return 0, fmt.Errorf("encode %s payload: %w", p.Kind, err)
		}
		if err := r.kv.Set(ctx, r.kv.PayloadKey(p.Kind.String()), raw, 0); err != nil {
			return 0, fmt.Errorf("store %s payload: %w", p.Kind, err)
		}
	}
	return version, nil
}

func (r *RedisPayloadStore) Latest(ctx context.Context) (uint64, error) {
	raw, err := r.kv.Get(ctx, r.kv.SnapshotVersionKey())
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read snapshot version: %w", err)
	}
	version, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse snapshot version %q: %w", raw, err)
	}
	return version, nil
}

func (r *RedisPayloadStore) Load(ctx context.Context, kind enums.PayloadKind) (*StoredPayload, error) {
	raw, err := r.kv.GetBytes(ctx, r.kv.PayloadKey(kind.String()))
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s payload: %w", kind, err)
	}
	var p StoredPayload
	if err := msgpack.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return &p, nil
}
