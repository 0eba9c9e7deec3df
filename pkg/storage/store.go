// Copyright © 2018 One Concern

package storage

import (
	"context"
)

// MaxPageSize is the largest number of keys returned by a single listing,
// and the largest batch accepted by a single batch delete.
//
// This is the hard limit of the S3 ListObjectsV2 and DeleteObjects APIs.
const MaxPageSize = 1000

// Object is an entry listed from a bucket
type Object struct {
	Key  string
	Size int64
}

// Page is the result of one listing call.
//
// When Truncated is true, NextToken must be passed to the next List call.
type Page struct {
	Objects   []Object
	NextToken string
	Truncated bool
}

// Keys of the objects in this page
func (p Page) Keys() []string {
	keys := make([]string, 0, len(p.Objects))
	for _, obj := range p.Objects {
		keys = append(keys, obj.Key)
	}
	return keys
}

// Size of all objects in this page, in bytes
func (p Page) Size() int64 {
	var total int64
	for _, obj := range p.Objects {
		total += obj.Size
	}
	return total
}

// Bucket implementations know how to list and delete objects by pages.
//
// Implementations of this interface are assumed to be fairly simple:
// they never retry and they never delete more than they are asked to.
type Bucket interface {
	String() string

	// List at most max objects, starting after the position described by token.
	// An empty token starts from the beginning of the bucket.
	List(ctx context.Context, token string, max int) (Page, error)

	// DeleteBatch removes the given keys and returns the number of keys actually removed.
	// On error, the count reflects the keys removed before the failure.
	DeleteBatch(ctx context.Context, keys []string) (int, error)
}

// ClampPageSize returns a page size usable with any Bucket
func ClampPageSize(size int) int {
	if size <= 0 || size > MaxPageSize {
		return MaxPageSize
	}
	return size
}
