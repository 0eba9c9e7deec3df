// Package gitcli implements vcs.Repository by running the git command line.
//
// Credentials to reach remotes are taken from the ambient git configuration.
package gitcli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/oneconcern/datareset/pkg/vcs"
	"go.uber.org/zap"
)

// DefaultTimeout applies to each git command
const DefaultTimeout = 2 * time.Minute

var _ vcs.Repository = &Client{}

// Option for the git client
type Option func(*Client)

// Dir sets the repository directory
func Dir(dir string) Option {
	return func(c *Client) {
		c.dir = dir
	}
}

// Timeout sets the timeout applied to each git command. Zero disables it.
func Timeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// Logger sets the logger
func Logger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.l = l
		}
	}
}

// Binary sets the git executable
func Binary(bin string) Option {
	return func(c *Client) {
		c.bin = bin
	}
}

// Env adds KEY=VALUE pairs to the environment of git commands
func Env(env ...string) Option {
	return func(c *Client) {
		c.env = append(c.env, env...)
	}
}

// Client runs git commands in a repository
type Client struct {
	dir     string
	bin     string
	timeout time.Duration
	env     []string
	l       *zap.Logger
}

// New git client
func New(options ...Option) *Client {
	c := &Client{
		bin:     "git",
		timeout: DefaultTimeout,
		l:       zap.NewNop(),
	}
	for _, apply := range options {
		apply(c)
	}
	return c
}

// CommandError is returned when git exits with a failure
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("git %s: %v: %s", strings.Join(e.Args, " "), e.Err, msg)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode of the failed command, or -1 when git did not run to completion
func (e *CommandError) ExitCode() int {
	if ee, ok := e.Err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	return -1
}

// Execute runs a git command and returns its standard output
func (c *Client) Execute(ctx context.Context, args ...string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Dir = c.dir
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.l.Debug("running git", zap.Strings("args", args), zap.String("dir", c.dir))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%v: %w", err, ctx.Err())
		}
		c.l.Debug("git failed",
			zap.Strings("args", args),
			zap.String("stderr", stderr.String()),
			zap.Error(err),
		)
		return stdout.String(), &CommandError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

func (c *Client) Tags(ctx context.Context) ([]string, error) {
	out, err := c.Execute(ctx, "tag", "--list")
	if err != nil {
		return nil, vcs.ErrCommand.Wrap(err)
	}
	return splitLines(strings.NewReader(out)), nil
}

func (c *Client) DeleteTag(ctx context.Context, tag string) error {
	if _, err := c.Execute(ctx, "tag", "--delete", tag); err != nil {
		return vcs.ErrCommand.Wrap(err)
	}
	return nil
}

// DeleteRemoteTag removes a tag from the remote.
//
// Pushing a deletion of a ref the remote does not have succeeds with a mere warning,
// so the remote is queried first.
func (c *Client) DeleteRemoteTag(ctx context.Context, remote, tag string) error {
	ref := "refs/tags/" + tag
	out, err := c.Execute(ctx, "ls-remote", "--tags", remote, ref)
	if err != nil {
		return vcs.ErrCommand.Wrap(err)
	}
	if !hasRef(out, ref) {
		return vcs.ErrRemoteRefMissing.WrapMessage(remote + " has no " + ref)
	}

	_, err = c.Execute(ctx, "push", remote, "--delete", ref)
	if err == nil {
		return nil
	}
	if ce, ok := err.(*CommandError); ok && strings.Contains(ce.Stderr, "remote ref does not exist") {
		return vcs.ErrRemoteRefMissing.Wrap(err)
	}
	return vcs.ErrCommand.Wrap(err)
}

func (c *Client) ResolveCommit(ctx context.Context, revision string) (vcs.Commit, error) {
	if revision == "" || strings.HasPrefix(revision, "-") {
		return vcs.Commit{}, vcs.ErrUnknownRevision.WrapMessage(fmt.Sprintf("invalid revision %q", revision))
	}
	out, err := c.Execute(ctx, "rev-parse", "--verify", "--quiet", revision+"^{commit}")
	if err != nil {
		if ce, ok := err.(*CommandError); ok && ce.ExitCode() == 1 {
			return vcs.Commit{}, vcs.ErrUnknownRevision.WrapMessage(revision)
		}
		return vcs.Commit{}, vcs.ErrCommand.Wrap(err)
	}
	commit := vcs.Commit{Hash: strings.TrimSpace(out)}

	subject, err := c.Execute(ctx, "log", "-1", "--format=%s", commit.Hash)
	if err != nil {
		return vcs.Commit{}, vcs.ErrCommand.Wrap(err)
	}
	commit.Subject = strings.TrimSpace(subject)
	return commit, nil
}

func (c *Client) ResetHard(ctx context.Context, commit string) error {
	if _, err := c.Execute(ctx, "reset", "--hard", commit); err != nil {
		return vcs.ErrCommand.Wrap(err)
	}
	return nil
}

func (c *Client) Publish(ctx context.Context, remote, branch string) error {
	if _, err := c.Execute(ctx, "push", "--force", "--tags", remote, branch); err != nil {
		return vcs.ErrCommand.Wrap(err)
	}
	return nil
}

func splitLines(r io.Reader) []string {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// hasRef tells if ls-remote output lists exactly ref
func hasRef(lsRemote, ref string) bool {
	for _, line := range splitLines(strings.NewReader(lsRemote)) {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[1] == ref {
			return true
		}
	}
	return false
}
