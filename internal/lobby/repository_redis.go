package lobby

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	rdb *redis.Client
}

// NewRedisRepo stores the directory in redis so a lobby survives behind a
// restarting frontend and multiple server instances can share it.
//
// key layout:
//
//	set: lobby:open             -> Set(roomID, ...)
//	kv : lobby:room:{roomID}    -> OpenRoom JSON, with TTL
func NewRedisRepo(rdb *redis.Client) Repo {
	return &redisRepo{rdb: rdb}
}

const openSetKey = "lobby:open"

func roomKey(roomID string) string {
	return fmt.Sprintf("lobby:room:%s", roomID)
}

func (r *redisRepo) Add(ctx context.Context, room OpenRoom, ttlSeconds int) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	p := r.rdb.Pipeline()
	p.SAdd(ctx, openSetKey, room.ID)
	p.Set(ctx, roomKey(room.ID), data, time.Duration(ttlSeconds)*time.Second)
	_, err = p.Exec(ctx)
	return err
}

func (r *redisRepo) Remove(ctx context.Context, roomID string) error {
	p := r.rdb.Pipeline()
	p.SRem(ctx, openSetKey, roomID)
	p.Del(ctx, roomKey(roomID))
	_, err := p.Exec(ctx)
	return err
}

func (r *redisRepo) List(ctx context.Context) ([]OpenRoom, error) {
	ids, err := r.rdb.SMembers(ctx, openSetKey).Result()
	if err != nil {
		return nil, err
	}

	out := make([]OpenRoom, 0, len(ids))
	for _, id := range ids {
		val, err := r.rdb.Get(ctx, roomKey(id)).Result()
		if err == redis.Nil {
			// entry expired, clean the stale set member
			_ = r.rdb.SRem(ctx, openSetKey, id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		var room OpenRoom
		if err := json.Unmarshal([]byte(val), &room); err != nil {
			_ = r.rdb.SRem(ctx, openSetKey, id).Err()
			continue
		}
		out = append(out, room)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *redisRepo) Count(ctx context.Context) (int64, error) {
	return r.rdb.SCard(ctx, openSetKey).Result()
}
