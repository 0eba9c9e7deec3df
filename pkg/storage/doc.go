// Copyright © 2018 One Concern

// Package storage provides the interface to handle buckets of objects
// that must be drained.
//
// This package supports the following backends:
//   - S3 and S3-compatible stores such as Cloudflare R2 (sthree)
//   - local file system (localfs)
package storage
