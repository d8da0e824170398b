package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustAGod1/fosh/runtime/engine"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "stream"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestCloneDupsDescriptors(t *testing.T) {
	out := tempFile(t)
	cfg := &engine.ExecConfig{Stdout: out}

	clone, err := cfg.Clone()
	require.NoError(t, err)
	require.NotNil(t, clone.Stdout)
	assert.NotEqual(t, out.Fd(), clone.Stdout.Fd())
	assert.Nil(t, clone.Stdin)
	assert.Nil(t, clone.Stderr)

	// Closing the clone leaves the original usable.
	clone.Close()
	_, err = out.WriteString("still open\n")
	assert.NoError(t, err)
}

func TestCloneNilSlotsPassThrough(t *testing.T) {
	cfg := &engine.ExecConfig{}
	clone, err := cfg.Clone()
	require.NoError(t, err)
	assert.Nil(t, clone.Stdin)
	assert.Nil(t, clone.Stdout)
	assert.Nil(t, clone.Stderr)
	clone.Close()
}

func TestCloseIsIdempotent(t *testing.T) {
	out := tempFile(t)
	cfg := &engine.ExecConfig{Stdout: out}
	clone, err := cfg.Clone()
	require.NoError(t, err)
	clone.Close()
	clone.Close()
}

func TestWithNodeSharesDescriptors(t *testing.T) {
	out := tempFile(t)
	cfg := &engine.ExecConfig{Stdout: out, Node: 3}
	other := cfg.WithNode(9)
	assert.Same(t, cfg.Stdout, other.Stdout)
	assert.EqualValues(t, 9, other.Node)
	assert.EqualValues(t, 3, cfg.Node)
}

func TestFallbacks(t *testing.T) {
	out := tempFile(t)
	cfg := &engine.ExecConfig{Stdout: out}
	assert.Same(t, out, cfg.OutputOr(os.Stdout))
	assert.Same(t, os.Stdin, cfg.InputOr(os.Stdin))
	assert.Same(t, os.Stderr, cfg.ErrOr(os.Stderr))
}

func TestPseudoExecutionClosesItsConfig(t *testing.T) {
	out := tempFile(t)
	cfg := &engine.ExecConfig{Stdout: out}
	clone, err := cfg.Clone()
	require.NoError(t, err)

	u := engine.NewUniverse()
	ran := false
	pseudo := engine.NewPseudoExecution(clone, func(comms *engine.Comms) (*engine.Entity, error) {
		ran = true
		_, werr := comms.Stdout.WriteString("from pseudo\n")
		require.NoError(t, werr)
		return u.StatusEntity("pseudo", 0), nil
	})

	result, err := pseudo.Execute()
	require.NoError(t, err)
	require.True(t, ran)
	require.NotNil(t, result)

	// The clone's descriptor is released, the caller's stays open.
	assert.Nil(t, clone.Stdout)
	_, err = out.WriteString("caller still open\n")
	assert.NoError(t, err)
}
