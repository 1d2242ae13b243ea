package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/quiz"
)

// Open connects to Redis and verifies the connection with a ping.
func Open(conf *core.Config) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        conf.Redis.Addr,
		Password:    conf.Redis.Password,
		DB:          conf.Redis.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	return rdb, nil
}

type blueprintCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

var _ quiz.BlueprintCache = (*blueprintCache)(nil) // interface compliance check

func NewBlueprintCache(rdb *goredis.Client, ttl time.Duration) *blueprintCache {
	return &blueprintCache{rdb: rdb, ttl: ttl}
}

func blueprintKey(hash string) string { return "quiz:blueprint:" + hash }

func (c *blueprintCache) GetBlueprint(ctx context.Context, hash string) (quiz.Blueprint, error) {
	val, err := c.rdb.Get(ctx, blueprintKey(hash)).Bytes()
	if err == goredis.Nil {
		return quiz.Blueprint{}, quiz.ErrBlueprintNotCached
	} else if err != nil {
		return quiz.Blueprint{}, errors.Wrap(err, "redis get")
	}

	var bp quiz.Blueprint
	if err := json.Unmarshal(val, &bp); err != nil {
		return quiz.Blueprint{}, errors.Wrap(err, "unmarshalling blueprint")
	}
	return bp, nil
}

func (c *blueprintCache) SetBlueprint(ctx context.Context, bp quiz.Blueprint) error {
	val, err := json.Marshal(bp)
	if err != nil {
		return errors.Wrap(err, "marshalling blueprint")
	}
	if err := c.rdb.Set(ctx, blueprintKey(bp.ContentHash), val, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}
