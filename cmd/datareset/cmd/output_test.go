package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/oneconcern/datareset/pkg/reset"
	"github.com/oneconcern/datareset/pkg/vcs"
	"github.com/stretchr/testify/assert"
)

var testBaseline = vcs.Commit{Hash: "4b825dc642cb6eb9a060e54bf8d69288fbee4904", Subject: "Initial dataset layout"}

func TestStageLine(t *testing.T) {
	var out bytes.Buffer
	p := newPrinter(&out)

	p.stage(reset.StageResult{Stage: reset.StagePurge, Status: reset.Succeeded, Detail: "removed: current, batches"})
	p.stage(reset.StageResult{Stage: reset.StageBucket, Status: reset.Skipped, Detail: "no usable credentials in /srv/.env", Err: errors.New("credentials file not found")})
	p.stage(reset.StageResult{Stage: reset.StagePublish, Status: reset.Failed})

	assert.Equal(t, `[ok] purge-local-data: removed: current, batches
[skipped] empty-bucket: no usable credentials in /srv/.env
    credentials file not found
[FAILED] publish
`, out.String())
}

func TestSummary(t *testing.T) {
	summary := &reset.Summary{
		Workspace: "/srv/thumbnails/dataset",
		Baseline:  testBaseline,
		Stages: []reset.StageResult{
			{Stage: reset.StageLocate, Status: reset.Succeeded, Detail: "/srv/thumbnails/dataset"},
			{Stage: reset.StageTags, Status: reset.Succeeded, Detail: "2/2 tags deleted locally, 1 deleted on remote, 1 remote deletions failed"},
			{Stage: reset.StageBucket, Status: reset.Failed, Detail: "deleted 200 objects"},
		},
		Tags: []reset.TagOutcome{
			{Tag: "batch_001", Local: reset.Succeeded, Remote: reset.Succeeded},
			{Tag: "batch_002", Local: reset.Succeeded, Remote: reset.Failed, Err: errors.New("could not read from remote repository")},
		},
		PublishCommand: "git push --force --tags origin main",
	}

	var out bytes.Buffer
	newPrinter(&out).summary(summary, nil)
	text := out.String()

	assert.Contains(t, text, "STAGE")
	assert.Contains(t, text, "locate-workspace")
	assert.Contains(t, text, "empty-bucket")
	assert.Contains(t, text, "batch_002")
	assert.NotContains(t, text, "batch_001", "only incomplete tags are listed")
	assert.Contains(t, text, "could not read from remote repository")

	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.Equal(t,
		"workspace reset to 4b825dc642cb Initial dataset layout, not published: git push --force --tags origin main (with failures in empty-bucket)",
		lines[len(lines)-1])
}

func TestFinalLine(t *testing.T) {
	for _, tc := range []struct {
		name     string
		summary  reset.Summary
		err      error
		expected string
	}{
		{
			name:     "published",
			summary:  reset.Summary{Baseline: testBaseline, Published: true},
			expected: "workspace reset to 4b825dc642cb Initial dataset layout, published",
		},
		{
			name:     "not published",
			summary:  reset.Summary{Baseline: testBaseline, PublishCommand: "git push --force --tags origin main"},
			expected: "workspace reset to 4b825dc642cb Initial dataset layout, not published: git push --force --tags origin main",
		},
		{
			name:     "dry run",
			summary:  reset.Summary{Baseline: testBaseline, DryRun: true},
			expected: "dry run: nothing was changed, baseline is 4b825dc642cb Initial dataset layout",
		},
		{
			name:     "aborted",
			err:      &reset.StageError{Stage: reset.StageReset, Err: reset.ErrGitReset.WrapMessage("unknown revision")},
			expected: "reset aborted at hard-reset: git reset error: unknown revision",
		},
		{
			name:     "other error",
			err:      fmt.Errorf("boom"),
			expected: "reset aborted: boom",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			summary := tc.summary
			assert.Equal(t, tc.expected, finalLine(&summary, tc.err))
		})
	}
}
