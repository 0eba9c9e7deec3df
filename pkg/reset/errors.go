package reset

import (
	"github.com/oneconcern/datareset/pkg/errors"
)

var (
	// ErrConfiguration indicates missing or invalid paths or settings
	ErrConfiguration = errors.New("configuration error")

	// ErrLocalCleanup indicates a failure to remove local working data
	ErrLocalCleanup = errors.New("local cleanup error")

	// ErrGitReset indicates a failure to rewind the repository to the baseline
	ErrGitReset = errors.New("git reset error")

	// ErrRemoteStore indicates a failure of the object store
	ErrRemoteStore = errors.New("remote store error")
)

// StageError is returned when a mandatory stage aborts the run
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}
