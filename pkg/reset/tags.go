package reset

import (
	"context"
	"fmt"

	"github.com/oneconcern/datareset/pkg/errors"
	"github.com/oneconcern/datareset/pkg/vcs"
	"go.uber.org/multierr"
)

// DeleteTags removes every tag locally and on the remote.
//
// It never stops early: each tag gets an outcome, whatever happened to the previous ones.
// A tag missing on the remote is reported as skipped remotely, not as a failure.
func DeleteTags(ctx context.Context, repo vcs.Repository, remote string, tags []string) []TagOutcome {
	outcomes := make([]TagOutcome, 0, len(tags))
	for _, tag := range tags {
		outcomes = append(outcomes, deleteTag(ctx, repo, remote, tag))
	}
	return outcomes
}

func deleteTag(ctx context.Context, repo vcs.Repository, remote, tag string) TagOutcome {
	outcome := TagOutcome{Tag: tag, Local: Succeeded, Remote: Succeeded}

	if err := repo.DeleteTag(ctx, tag); err != nil {
		outcome.Local = Failed
		outcome.Err = multierr.Append(outcome.Err, fmt.Errorf("deleting local tag %s: %w", tag, err))
	}

	if err := repo.DeleteRemoteTag(ctx, remote, tag); err != nil {
		if errors.Is(err, vcs.ErrRemoteRefMissing) {
			outcome.Remote = Skipped
		} else {
			outcome.Remote = Failed
			outcome.Err = multierr.Append(outcome.Err, fmt.Errorf("deleting tag %s on %s: %w", tag, remote, err))
		}
	}
	return outcome
}

// TagAggregate counts tag outcomes
type TagAggregate struct {
	Total         int
	LocalDeleted  int
	LocalFailed   int
	RemoteDeleted int
	RemoteMissing int
	RemoteFailed  int
	errs          []error
}

// Aggregate tag outcomes
func Aggregate(outcomes []TagOutcome) TagAggregate {
	agg := TagAggregate{Total: len(outcomes)}
	for _, outcome := range outcomes {
		switch outcome.Local {
		case Succeeded:
			agg.LocalDeleted++
		case Failed:
			agg.LocalFailed++
		}
		switch outcome.Remote {
		case Succeeded:
			agg.RemoteDeleted++
		case Skipped:
			agg.RemoteMissing++
		case Failed:
			agg.RemoteFailed++
		}
		if outcome.Err != nil {
			agg.errs = append(agg.errs, outcome.Err)
		}
	}
	return agg
}

// Err combines all per-tag errors, or nil
func (a TagAggregate) Err() error {
	return multierr.Combine(a.errs...)
}

func (a TagAggregate) String() string {
	s := fmt.Sprintf("%d/%d tags deleted locally, %d deleted on remote", a.LocalDeleted, a.Total, a.RemoteDeleted)
	if a.RemoteMissing > 0 {
		s += fmt.Sprintf(", %d not on remote", a.RemoteMissing)
	}
	if a.RemoteFailed > 0 {
		s += fmt.Sprintf(", %d remote deletions failed", a.RemoteFailed)
	}
	if a.LocalFailed > 0 {
		s += fmt.Sprintf(", %d local deletions failed", a.LocalFailed)
	}
	return s
}
