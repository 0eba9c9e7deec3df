// Copyright © 2018 One Concern

// Package localfs implements a storage.Bucket on a local directory.
//
// Object keys are slash-separated paths relative to the bucket directory.
package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oneconcern/datareset/pkg/storage"
	"github.com/oneconcern/datareset/pkg/storage/status"
	"github.com/spf13/afero"
)

// New creates a new local file system backed bucket, rooted at dir
func New(fs afero.Fs, dir string) storage.Bucket {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &localFS{
		fs:  afero.NewBasePathFs(fs, dir),
		dir: dir,
	}
}

type localFS struct {
	fs  afero.Fs
	dir string
}

func (l *localFS) keys() ([]storage.Object, error) {
	const root = "."
	var res []storage.Object
	exists, err := afero.DirExists(l.fs, root)
	if err != nil {
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	if !exists {
		// a bucket that was never written to is empty
		return nil, nil
	}
	e := afero.Walk(l.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root || info.IsDir() {
			return nil
		}
		res = append(res, storage.Object{Key: filepath.ToSlash(path), Size: info.Size()})
		return nil
	})
	if e != nil {
		return nil, status.ErrStorageAPI.Wrap(e)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Key < res[j].Key })
	return res, nil
}

// List pages through keys in lexical order. The token is the last key of the previous page.
func (l *localFS) List(ctx context.Context, token string, max int) (storage.Page, error) {
	max = storage.ClampPageSize(max)
	all, err := l.keys()
	if err != nil {
		return storage.Page{}, err
	}

	start := sort.Search(len(all), func(i int) bool { return all[i].Key > token })
	remaining := all[start:]

	var page storage.Page
	if len(remaining) > max {
		page.Objects = remaining[:max]
		page.Truncated = true
		page.NextToken = page.Objects[max-1].Key
		return page, nil
	}
	page.Objects = remaining
	return page, nil
}

func (l *localFS) DeleteBatch(ctx context.Context, keys []string) (int, error) {
	var deleted int
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		if strings.Contains(key, "..") {
			return deleted, status.ErrInvalidResource.WrapMessage(fmt.Sprintf("invalid key %q", key))
		}
		if err := l.fs.Remove(filepath.FromSlash(key)); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return deleted, status.ErrStorageAPI.Wrap(fmt.Errorf("removing %q: %w", key, err))
		}
		deleted++
	}
	return deleted, nil
}

func (l *localFS) String() string {
	return "localfs@" + l.dir
}
