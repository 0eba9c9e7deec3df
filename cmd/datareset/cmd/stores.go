package cmd

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/oneconcern/datareset/pkg/credentials"
	"github.com/oneconcern/datareset/pkg/reset"
	"github.com/oneconcern/datareset/pkg/storage"
	"github.com/oneconcern/datareset/pkg/storage/localfs"
	"github.com/oneconcern/datareset/pkg/storage/sthree"
	"github.com/oneconcern/datareset/pkg/vcs"
	"github.com/oneconcern/datareset/pkg/vcs/gitcli"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// fileScheme marks an endpoint served from a local directory, each bucket being a subdirectory
const fileScheme = "file://"

// used to patch over the file system during test
var appFs = afero.NewOsFs()

func openRepository(fs afero.Fs, timeout time.Duration, l *zap.Logger) reset.RepositoryOpener {
	return func(dir string) (vcs.Repository, error) {
		if ok, _ := afero.Exists(fs, filepath.Join(dir, ".git")); !ok {
			return nil, fmt.Errorf("%s is not a git repository", dir)
		}
		return gitcli.New(gitcli.Dir(dir), gitcli.Timeout(timeout), gitcli.Logger(l)), nil
	}
}

func openBucket(fs afero.Fs, timeout time.Duration, l *zap.Logger) reset.BucketOpener {
	return func(_ context.Context, creds credentials.Record, bucket string) (storage.Bucket, error) {
		if strings.HasPrefix(creds.Endpoint, fileScheme) {
			root := strings.TrimPrefix(creds.Endpoint, fileScheme)
			if !path.IsAbs(root) {
				return nil, fmt.Errorf("endpoint %s: expected an absolute path", creds.Endpoint)
			}
			return storage.Instrument(l, localfs.New(fs, filepath.Join(filepath.FromSlash(root), bucket))), nil
		}
		b, err := sthree.New(
			sthree.Bucket(bucket),
			sthree.AWSConfig(sthree.Config(creds.Endpoint, creds.Region, creds.AccessKeyID, creds.SecretAccessKey, timeout)),
		)
		if err != nil {
			return nil, err
		}
		return storage.Instrument(l, b), nil
	}
}

func writeReport(fs afero.Fs, file string, summary *reset.Summary, at time.Time) error {
	b, err := summary.MarshalReport(at)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(file); dir != "." {
		if err = fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return afero.WriteFile(fs, file, b, 0644)
}
