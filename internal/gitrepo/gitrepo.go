// Package gitrepo reads directory listings and file contents out of a git
// checkout, either from the live working tree or from an arbitrary
// historical revision, and exposes the few porcelain operations the
// maintenance commands need (merge-base, checkout, pull).
//
// Revisions are opaque strings passed straight to git; the empty string
// WorkingTree selects the files on disk instead of a committed tree.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"xmage-maintenance/internal/textutil"
)

// WorkingTree is the revision sentinel selecting the live checkout.
const WorkingTree = ""

// ErrNotFound reports that a path does not exist at the requested
// revision. The sets directory is absent in the repository's earliest
// commits, so callers treat this as an empty result rather than a failure.
var ErrNotFound = errors.New("path not found")

// ToolError reports a git invocation that exited non-zero for a reason
// other than a missing path. It carries the captured stderr, which git
// uses for all diagnostics.
type ToolError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git %s: %v: %s", strings.Join(e.Args, " "), e.Err, e.Stderr)
	}
	return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// TreeEntry is a single name within a directory listing.
type TreeEntry struct {
	Name  string
	IsDir bool
}

// Repo is a handle on a local git checkout.
type Repo struct {
	dir string
	log *zap.Logger
}

// Open returns a handle on the checkout rooted at dir. A nil logger
// disables logging.
func Open(dir string, log *zap.Logger) *Repo {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repo{dir: dir, log: log}
}

// Dir returns the checkout root.
func (r *Repo) Dir() string { return r.dir }

// git runs one git command inside the checkout and returns its stdout.
// Failures are wrapped in a *ToolError carrying the captured stderr.
func (r *Repo) git(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir
	out, err := cmd.Output()
	if err != nil {
		stderr := ""
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		r.log.Debug("git invocation failed",
			zap.Strings("args", args),
			zap.String("stderr", stderr))
		return nil, &ToolError{Args: args, Stderr: stderr, Err: err}
	}
	return out, nil
}

// Markers git prints on stderr when a revision:path spec names nothing.
// The wording shifted across git versions, so match loosely.
var notFoundMarkers = []string{
	"not a valid object name",
	"does not exist",
	"exists on disk, but not in",
	"not a tree object",
	"no such path",
}

func isNotFound(stderr string) bool {
	s := strings.ToLower(stderr)
	for _, m := range notFoundMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// ListDir lists the entries of a slash-separated directory path at rev.
// Entries come back in git's tree order (lexicographic by name). Returns
// an error satisfying errors.Is(err, ErrNotFound) when the directory does
// not exist at rev.
func (r *Repo) ListDir(ctx context.Context, rev, path string) ([]TreeEntry, error) {
	if rev == WorkingTree {
		ents, err := os.ReadDir(filepath.Join(r.dir, filepath.FromSlash(path)))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("list %s: %w", path, ErrNotFound)
			}
			return nil, fmt.Errorf("list %s: %w", path, err)
		}
		entries := make([]TreeEntry, 0, len(ents))
		for _, e := range ents {
			entries = append(entries, TreeEntry{Name: e.Name(), IsDir: e.IsDir()})
		}
		return entries, nil
	}

	out, err := r.git(ctx, "ls-tree", rev+":"+path)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) && isNotFound(toolErr.Stderr) {
			return nil, fmt.Errorf("list %s at %s: %w", path, rev, ErrNotFound)
		}
		return nil, err
	}
	return parseLsTree(out), nil
}

// parseLsTree splits "<mode> <type> <object>\t<name>" lines.
func parseLsTree(out []byte) []TreeEntry {
	var entries []TreeEntry
	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		meta, name, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		fields := strings.Fields(meta)
		if len(fields) < 2 {
			continue
		}
		entries = append(entries, TreeEntry{Name: name, IsDir: fields[1] == "tree"})
	}
	return entries
}

// ReadFile returns the content of a slash-separated file path at rev,
// normalized to LF line endings and valid UTF-8. Returns an error
// satisfying errors.Is(err, ErrNotFound) when the file does not exist
// at rev.
func (r *Repo) ReadFile(ctx context.Context, rev, path string) ([]byte, error) {
	if rev == WorkingTree {
		b, err := os.ReadFile(filepath.Join(r.dir, filepath.FromSlash(path)))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("read %s: %w", path, ErrNotFound)
			}
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return textutil.NormalizeUTF8LF(b), nil
	}

	out, err := r.git(ctx, "show", rev+":"+path)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) && isNotFound(toolErr.Stderr) {
			return nil, fmt.Errorf("read %s at %s: %w", path, rev, ErrNotFound)
		}
		return nil, err
	}
	return textutil.NormalizeUTF8LF(out), nil
}

// MergeBase returns the best common ancestor of two revisions.
func (r *Repo) MergeBase(ctx context.Context, a, b string) (string, error) {
	out, err := r.git(ctx, "merge-base", a, b)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Checkout switches the working tree to rev.
func (r *Repo) Checkout(ctx context.Context, rev string) error {
	r.log.Debug("switching checkout", zap.String("rev", rev))
	_, err := r.git(ctx, "checkout", rev)
	return err
}

// Pull updates the current branch from its upstream.
func (r *Repo) Pull(ctx context.Context) error {
	r.log.Debug("pulling", zap.String("dir", r.dir))
	_, err := r.git(ctx, "pull")
	return err
}
