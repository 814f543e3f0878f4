package sandbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// stubDocker writes an executable that pretends to be "docker run ... sh -c
// <script>" by just running the trailing shell script itself, so tests
// never require an actual container runtime.
func stubDocker(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "docker")
	// Runs the trailing "/bin/sh -c <script>" as a waited child (not exec'd
	// in place) so a signal-killed child reports through $? using the
	// shell's 128+signal convention, the same way the real docker CLI
	// reports a segfaulted container process to its own exit status.
	script := `#!/bin/sh
while [ "$1" != "/bin/sh" ]; do shift; done
shift 2
sh -c "$1"
exit $?
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestDockerRunner_Success(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := NewDockerRunner("dummy:latest", Limits{MemoryMiB: 256, CPUShare: 0.5, WallClock: 5 * time.Second})
	r.dockerPath = stubDocker(t)

	res, err := r.Run(context.Background(), []string{"cat"}, "hello", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello", res.Stdout)
}

func TestDockerRunner_Timeout(t *testing.T) {
	r := NewDockerRunner("dummy:latest", Limits{MemoryMiB: 256, CPUShare: 0.5, WallClock: 50 * time.Millisecond})
	r.dockerPath = stubDocker(t)

	res, err := r.Run(context.Background(), []string{"sleep 5"}, "", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ExitTimeout, res.ExitCode)
}

func TestDockerRunner_SegfaultCanonicalized(t *testing.T) {
	r := NewDockerRunner("dummy:latest", Limits{MemoryMiB: 256, CPUShare: 0.5, WallClock: 5 * time.Second})
	r.dockerPath = stubDocker(t)

	res, err := r.Run(context.Background(), []string{"kill -SEGV $$"}, "", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ExitSegfaultDocker, res.ExitCode)
	assert.Equal(t, segfaultStderr, res.Stderr)
}

func TestDockerRunner_ChainShortCircuits(t *testing.T) {
	r := NewDockerRunner("dummy:latest", Limits{MemoryMiB: 256, CPUShare: 0.5, WallClock: 5 * time.Second})
	r.dockerPath = stubDocker(t)

	res, err := r.Run(context.Background(), []string{"false", "echo should-not-run"}, "", t.TempDir())
	require.NoError(t, err)
	assert.NotEqual(t, 0, res.ExitCode)
	assert.NotContains(t, res.Stdout, "should-not-run")
}

func TestWorkspace_CreateAndClose(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	require.NoError(t, err)
	require.DirExists(t, ws.Path)

	path, err := ws.WriteFile("main.c", "int main(){return 0;}")
	require.NoError(t, err)
	assert.FileExists(t, path)

	require.NoError(t, ws.Close())
	assert.NoDirExists(t, ws.Path)
}
