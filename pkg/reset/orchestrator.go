// Copyright © 2018 One Concern

package reset

import (
	"context"
	"fmt"
	"strings"

	"github.com/oneconcern/datareset/pkg/credentials"
	"github.com/oneconcern/datareset/pkg/storage"
	"github.com/oneconcern/datareset/pkg/vcs"
	"github.com/oneconcern/datareset/pkg/workspace"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Defaults
const (
	DefaultRemote          = "origin"
	DefaultBranch          = "main"
	DefaultBucket          = "youtube-thumbnails-dataset"
	DefaultCredentialsFile = ".env"
	DefaultWorkspace       = ".."
)

// Config fixes what a reset operates on
type Config struct {
	// Workspace directory. A relative path is resolved against the executable folder.
	Workspace string

	// BaselineCommit is the revision to reset to
	BaselineCommit string

	// BaselineSubject, when set, must match the subject line of the baseline commit
	BaselineSubject string

	Bucket string

	// CredentialsFile holds the object store credentials. A relative path is resolved against the workspace.
	CredentialsFile string

	Remote string
	Branch string

	// PurgePaths are workspace relative paths to remove
	PurgePaths []string

	PageSize int
	DryRun   bool
}

func (c *Config) setDefaults() {
	if c.Workspace == "" {
		c.Workspace = DefaultWorkspace
	}
	if c.Bucket == "" {
		c.Bucket = DefaultBucket
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = DefaultCredentialsFile
	}
	if c.Remote == "" {
		c.Remote = DefaultRemote
	}
	if c.Branch == "" {
		c.Branch = DefaultBranch
	}
	if c.PurgePaths == nil {
		c.PurgePaths = workspace.DefaultPurgePaths
	}
	c.PageSize = storage.ClampPageSize(c.PageSize)
}

// RepositoryOpener opens the repository found in the workspace directory
type RepositoryOpener func(dir string) (vcs.Repository, error)

// BucketOpener connects to the bucket with the loaded credentials
type BucketOpener func(ctx context.Context, creds credentials.Record, bucket string) (storage.Bucket, error)

// Orchestrator runs the reset stages in order
type Orchestrator struct {
	cfg        Config
	fs         afero.Fs
	openRepo   RepositoryOpener
	openBucket BucketOpener
	confirm    Confirmer
	report     func(StageResult)
	l          *zap.Logger
}

// New reset orchestrator
func New(cfg Config, fs afero.Fs, openRepo RepositoryOpener, openBucket BucketOpener, opts ...Option) *Orchestrator {
	cfg.setDefaults()
	o := &Orchestrator{
		cfg:        cfg,
		fs:         fs,
		openRepo:   openRepo,
		openBucket: openBucket,
		confirm:    ConfirmFunc(func(string) (bool, error) { return false, nil }),
		report:     func(StageResult) {},
		l:          zap.NewNop(),
	}
	for _, apply := range opts {
		apply(o)
	}
	return o
}

// Run the reset.
//
// The returned summary is never nil, and reflects what was done even when a mandatory stage failed.
// The error is a *StageError for mandatory stage failures, and nil otherwise.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		DryRun:         o.cfg.DryRun,
		Bucket:         BucketReport{Name: o.cfg.Bucket},
		PublishCommand: fmt.Sprintf("git push --force --tags %s %s", o.cfg.Remote, o.cfg.Branch),
	}
	o.l.Info("starting reset",
		zap.String("workspace", o.cfg.Workspace),
		zap.String("baseline", o.cfg.BaselineCommit),
		zap.String("bucket", o.cfg.Bucket),
		zap.Bool("dry-run", o.cfg.DryRun),
	)

	ws, repo, err := o.locate()
	if err != nil {
		return summary, o.abort(summary, StageLocate, err)
	}
	summary.Workspace = ws.Root()
	o.record(summary, StageResult{Stage: StageLocate, Status: Succeeded, Detail: ws.Root()})

	if err = o.purge(ws, summary); err != nil {
		return summary, o.abort(summary, StagePurge, err)
	}

	o.removeTags(ctx, repo, summary)

	if err = o.hardReset(ctx, repo, summary); err != nil {
		return summary, o.abort(summary, StageReset, err)
	}

	o.emptyBucket(ctx, ws, summary)

	o.publish(ctx, repo, summary)

	o.l.Info("reset complete",
		zap.String("baseline", summary.Baseline.Hash),
		zap.Bool("published", summary.Published),
		zap.Int("deleted objects", summary.Bucket.Deleted),
		zap.Int("failed stages", len(summary.Failed())),
	)
	return summary, nil
}

func (o *Orchestrator) record(summary *Summary, res StageResult) {
	summary.Stages = append(summary.Stages, res)
	fields := []zap.Field{zap.String("stage", string(res.Stage)), zap.String("status", string(res.Status))}
	if res.Detail != "" {
		fields = append(fields, zap.String("detail", res.Detail))
	}
	switch {
	case res.Err != nil && res.Status == Failed:
		o.l.Error("stage failed", append(fields, zap.Error(res.Err))...)
	case res.Err != nil:
		o.l.Warn("stage skipped", append(fields, zap.Error(res.Err))...)
	default:
		o.l.Info("stage done", fields...)
	}
	o.report(res)
}

func (o *Orchestrator) abort(summary *Summary, stage Stage, err error) error {
	o.record(summary, StageResult{Stage: stage, Status: Failed, Err: err})
	return &StageError{Stage: stage, Err: err}
}

func (o *Orchestrator) locate() (*workspace.Workspace, vcs.Repository, error) {
	if strings.TrimSpace(o.cfg.BaselineCommit) == "" {
		return nil, nil, ErrConfiguration.WrapMessage("no baseline commit configured")
	}
	root, err := workspace.Locate(o.fs, o.cfg.Workspace)
	if err != nil {
		return nil, nil, ErrConfiguration.Wrap(err)
	}
	repo, err := o.openRepo(root)
	if err != nil {
		return nil, nil, ErrConfiguration.Wrap(fmt.Errorf("opening repository in %s: %w", root, err))
	}
	return workspace.New(o.fs, root), repo, nil
}

func (o *Orchestrator) purge(ws *workspace.Workspace, summary *Summary) error {
	results, err := ws.Purge(o.cfg.PurgePaths, o.cfg.DryRun)
	if err != nil {
		return ErrLocalCleanup.Wrap(err)
	}

	var removed, absent []string
	for _, res := range results {
		switch {
		case res.Removed || (o.cfg.DryRun && res.Existed):
			removed = append(removed, res.Path)
		default:
			absent = append(absent, res.Path)
		}
	}
	verb := "removed"
	if o.cfg.DryRun {
		verb = "would remove"
	}
	detail := fmt.Sprintf("%s: %s", verb, listOrNone(removed))
	if len(absent) > 0 {
		detail += fmt.Sprintf("; already absent: %s", strings.Join(absent, ", "))
	}
	o.record(summary, StageResult{Stage: StagePurge, Status: Succeeded, Detail: detail})
	return nil
}

func (o *Orchestrator) removeTags(ctx context.Context, repo vcs.Repository, summary *Summary) {
	tags, err := repo.Tags(ctx)
	if err != nil {
		o.record(summary, StageResult{Stage: StageTags, Status: Failed, Detail: "cannot list tags", Err: err})
		return
	}
	if len(tags) == 0 {
		o.record(summary, StageResult{Stage: StageTags, Status: Skipped, Detail: "no tags"})
		return
	}
	if o.cfg.DryRun {
		for _, tag := range tags {
			summary.Tags = append(summary.Tags, TagOutcome{Tag: tag, Local: Skipped, Remote: Skipped})
		}
		o.record(summary, StageResult{Stage: StageTags, Status: Skipped, Detail: "would delete " + strings.Join(tags, ", ")})
		return
	}

	summary.Tags = DeleteTags(ctx, repo, o.cfg.Remote, tags)
	agg := Aggregate(summary.Tags)
	for _, outcome := range summary.Tags {
		if outcome.Err != nil {
			o.l.Warn("tag not fully removed",
				zap.String("tag", outcome.Tag),
				zap.String("local", string(outcome.Local)),
				zap.String("remote", string(outcome.Remote)),
				zap.Error(outcome.Err),
			)
		}
	}

	res := StageResult{Stage: StageTags, Status: Succeeded, Detail: agg.String(), Err: agg.Err()}
	if agg.LocalFailed > 0 {
		res.Status = Failed
	}
	o.record(summary, res)
}

func (o *Orchestrator) hardReset(ctx context.Context, repo vcs.Repository, summary *Summary) error {
	commit, err := repo.ResolveCommit(ctx, o.cfg.BaselineCommit)
	if err != nil {
		return ErrGitReset.Wrap(fmt.Errorf("resolving baseline %s: %w", o.cfg.BaselineCommit, err))
	}
	if want := o.cfg.BaselineSubject; want != "" && commit.Subject != want {
		return ErrGitReset.WrapMessage(fmt.Sprintf("baseline %s has subject %q, expected %q", commit.Short(), commit.Subject, want))
	}
	summary.Baseline = commit

	if o.cfg.DryRun {
		o.record(summary, StageResult{Stage: StageReset, Status: Skipped, Detail: "would reset to " + commit.Short()})
		return nil
	}

	if err = repo.ResetHard(ctx, commit.Hash); err != nil {
		return ErrGitReset.Wrap(err)
	}
	head, err := repo.ResolveCommit(ctx, "HEAD")
	if err != nil {
		return ErrGitReset.Wrap(fmt.Errorf("resolving HEAD after reset: %w", err))
	}
	if head.Hash != commit.Hash {
		return ErrGitReset.WrapMessage(fmt.Sprintf("HEAD is at %s after reset to %s", head.Short(), commit.Short()))
	}

	o.record(summary, StageResult{Stage: StageReset, Status: Succeeded, Detail: fmt.Sprintf("HEAD is now at %s %s", commit.Short(), commit.Subject)})
	return nil
}

func (o *Orchestrator) emptyBucket(ctx context.Context, ws *workspace.Workspace, summary *Summary) {
	path := ws.Path(o.cfg.CredentialsFile)
	creds, err := credentials.Load(o.fs, path)
	if err != nil {
		o.record(summary, StageResult{
			Stage:  StageBucket,
			Status: Skipped,
			Detail: "no usable credentials in " + path,
			Err:    ErrConfiguration.Wrap(err),
		})
		return
	}

	bucket, err := o.openBucket(ctx, creds, o.cfg.Bucket)
	if err != nil {
		o.record(summary, StageResult{Stage: StageBucket, Status: Failed, Detail: "cannot connect", Err: ErrRemoteStore.Wrap(err)})
		return
	}
	summary.Bucket.Store = bucket.String()

	report, err := Drain(ctx, bucket, o.cfg.PageSize, o.cfg.DryRun, o.l)
	report.Name = summary.Bucket.Name
	report.Store = summary.Bucket.Store
	summary.Bucket = report
	if err != nil {
		o.record(summary, StageResult{Stage: StageBucket, Status: Failed, Detail: report.String(o.cfg.DryRun), Err: err})
		return
	}

	status := Succeeded
	if o.cfg.DryRun {
		status = Skipped
	}
	o.record(summary, StageResult{Stage: StageBucket, Status: status, Detail: report.String(o.cfg.DryRun)})
}

func (o *Orchestrator) publish(ctx context.Context, repo vcs.Repository, summary *Summary) {
	if o.cfg.DryRun {
		o.record(summary, StageResult{Stage: StagePublish, Status: Skipped, Detail: "dry run"})
		return
	}

	prompt := fmt.Sprintf("Force-push %s and tags to %s? This rewrites the remote history. [y/N] ", o.cfg.Branch, o.cfg.Remote)
	ok, err := o.confirm.Confirm(prompt)
	if err != nil || !ok {
		o.record(summary, StageResult{
			Stage:  StagePublish,
			Status: Skipped,
			Detail: "not confirmed, publish later with: " + summary.PublishCommand,
			Err:    err,
		})
		return
	}

	if err = repo.Publish(ctx, o.cfg.Remote, o.cfg.Branch); err != nil {
		o.record(summary, StageResult{
			Stage:  StagePublish,
			Status: Failed,
			Detail: "retry with: " + summary.PublishCommand,
			Err:    err,
		})
		return
	}
	summary.Published = true
	o.record(summary, StageResult{Stage: StagePublish, Status: Succeeded, Detail: fmt.Sprintf("%s and tags force-pushed to %s", o.cfg.Branch, o.cfg.Remote)})
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "nothing"
	}
	return strings.Join(items, ", ")
}

// IsMandatory tells if the failure of a stage aborts a reset
func IsMandatory(stage Stage) bool {
	switch stage {
	case StageLocate, StagePurge, StageReset:
		return true
	default:
		return false
	}
}
