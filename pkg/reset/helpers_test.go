package reset

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/oneconcern/datareset/pkg/credentials"
	"github.com/oneconcern/datareset/pkg/storage"
	"github.com/oneconcern/datareset/pkg/storage/localfs"
	"github.com/oneconcern/datareset/pkg/vcs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testRoot      = "/srv/thumbnails/dataset"
	testBuckets   = "/buckets"
	baselineHash  = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"
	collectedHash = "9fceb02d0ae598e95dc970b74767f19372d61af8"
)

// fakeRepo is an in-memory repository with a remote
type fakeRepo struct {
	commits    map[string]vcs.Commit
	head       string
	tags       map[string]bool
	remoteTags map[string]bool
	failLocal  map[string]bool
	failRemote map[string]bool
	tagsErr    error
	resetErr   error
	publishErr error
	published  [][2]string
	calls      []string
}

func newFakeRepo(tags ...string) *fakeRepo {
	r := &fakeRepo{
		commits: map[string]vcs.Commit{
			baselineHash:  {Hash: baselineHash, Subject: "Initial dataset layout"},
			collectedHash: {Hash: collectedHash, Subject: "Collect batch_004"},
		},
		head:       collectedHash,
		tags:       map[string]bool{},
		remoteTags: map[string]bool{},
		failLocal:  map[string]bool{},
		failRemote: map[string]bool{},
	}
	for _, tag := range tags {
		r.tags[tag] = true
		r.remoteTags[tag] = true
	}
	return r
}

func (r *fakeRepo) Tags(context.Context) ([]string, error) {
	r.calls = append(r.calls, "tags")
	if r.tagsErr != nil {
		return nil, r.tagsErr
	}
	return sortedKeys(r.tags), nil
}

func (r *fakeRepo) DeleteTag(_ context.Context, tag string) error {
	r.calls = append(r.calls, "delete-tag "+tag)
	if r.failLocal[tag] {
		return vcs.ErrCommand.WrapMessage("cannot lock ref")
	}
	if !r.tags[tag] {
		return vcs.ErrCommand.WrapMessage("tag not found")
	}
	delete(r.tags, tag)
	return nil
}

func (r *fakeRepo) DeleteRemoteTag(_ context.Context, remote, tag string) error {
	r.calls = append(r.calls, "delete-remote-tag "+tag)
	if r.failRemote[tag] {
		return vcs.ErrCommand.WrapMessage("could not read from remote repository")
	}
	if !r.remoteTags[tag] {
		return vcs.ErrRemoteRefMissing.WrapMessage(tag)
	}
	delete(r.remoteTags, tag)
	return nil
}

func (r *fakeRepo) ResolveCommit(_ context.Context, revision string) (vcs.Commit, error) {
	r.calls = append(r.calls, "resolve "+revision)
	if revision == "HEAD" {
		return r.commits[r.head], nil
	}
	for hash, commit := range r.commits {
		if len(revision) >= 7 && strings.HasPrefix(hash, revision) {
			return commit, nil
		}
	}
	return vcs.Commit{}, vcs.ErrUnknownRevision.WrapMessage(revision)
}

func (r *fakeRepo) ResetHard(_ context.Context, commit string) error {
	r.calls = append(r.calls, "reset "+commit)
	if r.resetErr != nil {
		return r.resetErr
	}
	r.head = commit
	return nil
}

func (r *fakeRepo) Publish(_ context.Context, remote, branch string) error {
	r.calls = append(r.calls, "publish")
	if r.publishErr != nil {
		return r.publishErr
	}
	r.published = append(r.published, [2]string{remote, branch})
	r.remoteTags = make(map[string]bool, len(r.tags))
	for tag := range r.tags {
		r.remoteTags[tag] = true
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type mockConfirmer struct {
	mock.Mock
}

func (m *mockConfirmer) Confirm(prompt string) (bool, error) {
	args := m.Called(prompt)
	return args.Bool(0), args.Error(1)
}

// failingBucket fails the nth batch delete
type failingBucket struct {
	storage.Bucket
	failOn  int
	deletes int
}

func (f *failingBucket) DeleteBatch(ctx context.Context, keys []string) (int, error) {
	f.deletes++
	if f.deletes == f.failOn {
		return 0, fmt.Errorf("503 Service Unavailable")
	}
	return f.Bucket.DeleteBatch(ctx, keys)
}

const testCredentials = `# R2
R2_ENDPOINT_URL=https://example.r2.cloudflarestorage.com
R2_ACCESS_KEY_ID=id
R2_SECRET_ACCESS_KEY=secret
`

type env struct {
	fs       afero.Fs
	repo     *fakeRepo
	opened   []credentials.Record
	bucket   func(storage.Bucket) storage.Bucket
	confirm  *mockConfirmer
	reported []StageResult
}

// setupEnv builds the workspace used throughout the tests:
// current/ with 3 files, batches/ with 2 subfolders, credentials, and a bucket holding n objects.
func setupEnv(t *testing.T, objects int, tags ...string) *env {
	fs := afero.NewMemMapFs()
	for i := 0; i < 3; i++ {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(testRoot, "current", fmt.Sprintf("vid%d.jpg", i)), []byte("jpeg"), 0600))
	}
	for _, batch := range []string{"batch_001", "batch_002"} {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(testRoot, "batches", batch, "metadata.csv"), []byte("video_id\n"), 0600))
	}
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testRoot, "README.md"), []byte("# dataset\n"), 0600))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testRoot, ".env"), []byte(testCredentials), 0600))
	for i := 0; i < objects; i++ {
		key := fmt.Sprintf("files/md5/%02x/%06d", i%256, i)
		require.NoError(t, afero.WriteFile(fs, filepath.Join(testBuckets, DefaultBucket, key), []byte("0123456789"), 0600))
	}

	return &env{
		fs:      fs,
		repo:    newFakeRepo(tags...),
		bucket:  func(b storage.Bucket) storage.Bucket { return b },
		confirm: new(mockConfirmer),
	}
}

func (e *env) config() Config {
	return Config{
		Workspace:      testRoot,
		BaselineCommit: baselineHash[:10],
		PageSize:       100,
	}
}

func (e *env) orchestrator(cfg Config, opts ...Option) *Orchestrator {
	opts = append([]Option{
		WithConfirmer(e.confirm),
		WithReporter(func(res StageResult) { e.reported = append(e.reported, res) }),
	}, opts...)
	return New(cfg, e.fs,
		func(dir string) (vcs.Repository, error) {
			if dir != testRoot {
				return nil, fmt.Errorf("unexpected repository dir %s", dir)
			}
			return e.repo, nil
		},
		func(_ context.Context, creds credentials.Record, bucket string) (storage.Bucket, error) {
			e.opened = append(e.opened, creds)
			return e.bucket(localfs.New(e.fs, filepath.Join(testBuckets, bucket))), nil
		},
		opts...,
	)
}

func (e *env) bucketKeys(t *testing.T) int {
	page, err := localfs.New(e.fs, filepath.Join(testBuckets, DefaultBucket)).List(context.Background(), "", storage.MaxPageSize)
	require.NoError(t, err)
	return len(page.Objects)
}

func (e *env) exists(t *testing.T, rel string) bool {
	ok, err := afero.Exists(e.fs, filepath.Join(testRoot, rel))
	require.NoError(t, err)
	return ok
}
