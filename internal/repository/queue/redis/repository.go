package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
}

// NewRepo stores entries as hashes keyed per room. Every key is refreshed to
// expireDuration on write and on read.
func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
	}
}

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}
