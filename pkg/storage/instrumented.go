// Copyright © 2018 One Concern

package storage

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Instrument a bucket, logging every call with its duration at debug level
func Instrument(l *zap.Logger, bucket Bucket) Bucket {
	if l == nil {
		l = zap.NewNop()
	}
	return &instrumentedBucket{
		bucket: bucket,
		l:      l.With(zap.String("bucket", bucket.String())),
	}
}

type instrumentedBucket struct {
	bucket Bucket
	l      *zap.Logger
}

func (i *instrumentedBucket) String() string {
	return i.bucket.String()
}

func (i *instrumentedBucket) List(ctx context.Context, token string, max int) (Page, error) {
	start := time.Now()
	page, err := i.bucket.List(ctx, token, max)
	i.l.Debug("storage list",
		zap.String("token", token),
		zap.Int("max", max),
		zap.Int("objects", len(page.Objects)),
		zap.Bool("truncated", page.Truncated),
		zap.Duration("took", time.Since(start)),
		zap.Error(err),
	)
	return page, err
}

func (i *instrumentedBucket) DeleteBatch(ctx context.Context, keys []string) (int, error) {
	start := time.Now()
	n, err := i.bucket.DeleteBatch(ctx, keys)
	i.l.Debug("storage delete batch",
		zap.Int("keys", len(keys)),
		zap.Int("deleted", n),
		zap.Duration("took", time.Since(start)),
		zap.Error(err),
	)
	return n, err
}
