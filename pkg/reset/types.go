package reset

import (
	"github.com/oneconcern/datareset/pkg/vcs"
)

// Stage of a reset
type Stage string

// Stages, in execution order
const (
	StageLocate  Stage = "locate-workspace"
	StagePurge   Stage = "purge-local-data"
	StageTags    Stage = "remove-tags"
	StageReset   Stage = "hard-reset"
	StageBucket  Stage = "empty-bucket"
	StagePublish Stage = "publish"
)

// Stages lists all stages in execution order
var Stages = []Stage{StageLocate, StagePurge, StageTags, StageReset, StageBucket, StagePublish}

// Status of a stage or of an item processed by a stage
type Status string

// Statuses
const (
	Succeeded Status = "succeeded"
	Skipped   Status = "skipped"
	Failed    Status = "failed"
)

// StageResult is the outcome of one stage
type StageResult struct {
	Stage  Stage
	Status Status
	Detail string
	Err    error
}

// TagOutcome is the outcome of removing one tag
type TagOutcome struct {
	Tag    string
	Local  Status
	Remote Status
	Err    error
}

// BucketReport accounts for the objects removed from the bucket
type BucketReport struct {
	Name    string
	Store   string
	Pages   int
	Listed  int
	Deleted int
	Bytes   int64
}

// Summary of a reset run
type Summary struct {
	Workspace      string
	Baseline       vcs.Commit
	Stages         []StageResult
	Tags           []TagOutcome
	Bucket         BucketReport
	Published      bool
	PublishCommand string
	DryRun         bool
}

// Stage returns the result of a stage, if it ran
func (s *Summary) Stage(stage Stage) (StageResult, bool) {
	for _, res := range s.Stages {
		if res.Stage == stage {
			return res, true
		}
	}
	return StageResult{}, false
}

// Failed stages
func (s *Summary) Failed() []StageResult {
	var failed []StageResult
	for _, res := range s.Stages {
		if res.Status == Failed {
			failed = append(failed, res)
		}
	}
	return failed
}
