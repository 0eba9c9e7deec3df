// Package vcs declares the version control operations needed to rewind a dataset repository.
package vcs

import (
	"context"

	"github.com/oneconcern/datareset/pkg/errors"
)

var (
	// ErrUnknownRevision indicates that a revision does not resolve to a commit
	ErrUnknownRevision = errors.New("unknown revision")

	// ErrRemoteRefMissing indicates that a reference to delete does not exist on the remote
	ErrRemoteRefMissing = errors.New("remote ref does not exist")

	// ErrCommand indicates that the version control command failed
	ErrCommand = errors.New("version control command failed")
)

// Commit identifies a resolved revision
type Commit struct {
	Hash    string `json:"hash" yaml:"hash"`
	Subject string `json:"subject,omitempty" yaml:"subject,omitempty"`
}

// Short commit hash, for display
func (c Commit) Short() string {
	if len(c.Hash) > 12 {
		return c.Hash[:12]
	}
	return c.Hash
}

// Repository knows how to manipulate tags, reset and publish a local repository
type Repository interface {
	// Tags returns the names of all local tags
	Tags(context.Context) ([]string, error)

	// DeleteTag removes a local tag
	DeleteTag(ctx context.Context, tag string) error

	// DeleteRemoteTag removes a tag from the remote
	DeleteRemoteTag(ctx context.Context, remote, tag string) error

	// ResolveCommit resolves a revision to a commit, or fails with ErrUnknownRevision
	ResolveCommit(ctx context.Context, revision string) (Commit, error)

	// ResetHard rewinds the working tree and the current branch to the commit
	ResetHard(ctx context.Context, commit string) error

	// Publish force-pushes the branch and all tags to the remote, in a single push
	Publish(ctx context.Context, remote, branch string) error
}
