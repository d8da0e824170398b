package engine

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/JustAGod1/fosh/runtime/parser"
)

// ExecConfig is the fd triple handed to every dispatch, plus the node to
// blame when the execution fails. A nil slot means "inherit the
// terminal". Whoever holds a config owns its descriptors; sharing
// requires Clone, which dups every fd.
type ExecConfig struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
	Node   parser.NodeId
}

// Clone duplicates every owned descriptor. On failure the fds duped so
// far are closed, so a failed clone leaks nothing.
func (c *ExecConfig) Clone() (*ExecConfig, error) {
	clone := &ExecConfig{Node: c.Node}
	for _, pair := range []struct {
		src *os.File
		dst **os.File
	}{
		{c.Stdin, &clone.Stdin},
		{c.Stdout, &clone.Stdout},
		{c.Stderr, &clone.Stderr},
	} {
		if pair.src == nil {
			continue
		}
		fd, err := unix.Dup(int(pair.src.Fd()))
		if err != nil {
			clone.Close()
			return nil, err
		}
		*pair.dst = os.NewFile(uintptr(fd), pair.src.Name())
	}
	return clone, nil
}

// WithNode returns a copy of the config blaming a different node. The
// descriptors are shared, not duped; the caller keeps ownership.
func (c *ExecConfig) WithNode(id parser.NodeId) *ExecConfig {
	return &ExecConfig{Stdin: c.Stdin, Stdout: c.Stdout, Stderr: c.Stderr, Node: id}
}

// Close releases every owned descriptor. Safe to call more than once.
func (c *ExecConfig) Close() {
	for _, f := range []**os.File{&c.Stdin, &c.Stdout, &c.Stderr} {
		if *f != nil {
			_ = (*f).Close()
			*f = nil
		}
	}
}

// DupFile duplicates a single descriptor. nil passes through, keeping
// the "inherit the terminal" meaning intact.
func DupFile(f *os.File) (*os.File, error) {
	if f == nil {
		return nil, nil
	}
	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), f.Name()), nil
}

// InputOr returns the config's stdin, or fallback when inheriting.
func (c *ExecConfig) InputOr(fallback *os.File) *os.File {
	if c.Stdin != nil {
		return c.Stdin
	}
	return fallback
}

// OutputOr returns the config's stdout, or fallback when inheriting.
func (c *ExecConfig) OutputOr(fallback *os.File) *os.File {
	if c.Stdout != nil {
		return c.Stdout
	}
	return fallback
}

// ErrOr returns the config's stderr, or fallback when inheriting.
func (c *ExecConfig) ErrOr(fallback *os.File) *os.File {
	if c.Stderr != nil {
		return c.Stderr
	}
	return fallback
}
