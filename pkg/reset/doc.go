// Copyright © 2018 One Concern

/*
Package reset rewinds a thumbnail dataset to its baseline.

A reset reconciles three independent systems with a known clean state, one stage after the other:

 1. locate the workspace, relative to the executable
 2. purge local working data (current/, batches/, DVC cache, rotation marker)
 3. delete every tag, locally and on the remote
 4. hard reset the repository to the baseline commit
 5. empty the object store bucket, page by page
 6. force-push the reset branch and tags, once the operator confirms
 7. summarize

Stages 1, 2 and 4 are mandatory: their failure aborts the run.
Stages 3, 5 and 6 are best effort: failures are reported and the run goes on.

Every stage tolerates an already clean state, so running a reset again
is the way to recover from a partial failure.
*/
package reset
