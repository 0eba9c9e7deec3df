package reset

import (
	"context"
	"fmt"

	units "github.com/docker/go-units"
	"github.com/oneconcern/datareset/pkg/storage"
	"go.uber.org/zap"
)

// Drain deletes every object in the bucket, one listing page at a time.
//
// The first failing page ends the drain: nothing is retried and pages already deleted stay deleted.
// The report accounts for what was done until then. With dryRun, pages are listed but not deleted.
func Drain(ctx context.Context, bucket storage.Bucket, pageSize int, dryRun bool, l *zap.Logger) (BucketReport, error) {
	if l == nil {
		l = zap.NewNop()
	}
	pageSize = storage.ClampPageSize(pageSize)
	report := BucketReport{Store: bucket.String()}

	var token string
	for {
		if err := ctx.Err(); err != nil {
			return report, ErrRemoteStore.Wrap(err)
		}

		page, err := bucket.List(ctx, token, pageSize)
		if err != nil {
			return report, ErrRemoteStore.Wrap(fmt.Errorf("listing page %d of %s: %w", report.Pages+1, bucket, err))
		}
		if len(page.Objects) == 0 && !page.Truncated {
			return report, nil
		}
		report.Pages++
		report.Listed += len(page.Objects)

		if dryRun {
			report.Bytes += page.Size()
		} else {
			n, err := bucket.DeleteBatch(ctx, page.Keys())
			report.Deleted += n
			if err != nil {
				return report, ErrRemoteStore.Wrap(fmt.Errorf("deleting page %d of %s: %w", report.Pages, bucket, err))
			}
			report.Bytes += page.Size()
			l.Debug("page deleted",
				zap.Int("page", report.Pages),
				zap.Int("objects", n),
				zap.Int("deleted so far", report.Deleted),
			)
		}

		if !page.Truncated {
			return report, nil
		}
		if page.NextToken == "" || page.NextToken == token {
			return report, ErrRemoteStore.WrapMessage(fmt.Sprintf("listing of %s does not progress after page %d", bucket, report.Pages))
		}
		token = page.NextToken
	}
}

// String describes the report for an operator
func (r BucketReport) String(dryRun bool) string {
	if dryRun {
		return fmt.Sprintf("would delete %d objects (%s) from %s", r.Listed, units.HumanSize(float64(r.Bytes)), r.Name)
	}
	return fmt.Sprintf("deleted %d objects (%s) from %s in %d pages", r.Deleted, units.HumanSize(float64(r.Bytes)), r.Name, r.Pages)
}
