// Package sandbox implements the Container Runner (C1): one-shot execution
// of a compile/run command chain inside an isolated, auto-removed
// container, under resource caps enforced both by docker flags and by a
// host-side wall-clock timeout.
package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result is the (exit_code, stdout, stderr) triple the runner returns. The
// runner never raises on a non-zero exit; every failure mode, including
// timeout and OOM-kill, is expressed through this triple (spec.md §4.1).
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Limits are the resource caps applied to every container invocation.
type Limits struct {
	MemoryMiB int
	CPUShare  float64
	WallClock time.Duration
}

// Runner executes a compile/run command chain inside an isolated
// environment.
type Runner interface {
	Run(ctx context.Context, commands []string, stdin string, workDir string) (Result, error)
}

// DockerRunner runs commands inside a freshly spawned, auto-removed
// container of a single image bundling every language toolchain. Grounded
// on the secure-sandbox docker invocation pattern: --rm, --network=none, a
// hard memory cap, a fractional CPU share, and the job's workspace
// bind-mounted as the only writable surface.
type DockerRunner struct {
	Image  string
	Limits Limits

	// dockerPath lets tests substitute a stub binary; defaults to "docker".
	dockerPath string
}

// NewDockerRunner builds a DockerRunner for image under the given limits.
func NewDockerRunner(image string, limits Limits) *DockerRunner {
	return &DockerRunner{Image: image, Limits: limits, dockerPath: "docker"}
}

const containerWorkDir = "/workspace"

// Run chains commands into a single shell pipeline where stdin feeds the
// first command and an earlier failure short-circuits the rest (spec.md
// §4.1 "all must succeed for the last to run"). It never returns a non-nil
// error for a failing program; a non-nil error means the runner itself
// could not be invoked (e.g. docker missing).
func (r *DockerRunner) Run(ctx context.Context, commands []string, stdin string, workDir string) (Result, error) {
	if len(commands) == 0 {
		return Result{}, fmt.Errorf("no commands given")
	}

	runCtx, cancel := context.WithTimeout(ctx, r.Limits.WallClock)
	defer cancel()

	args := []string{
		"run",
		"--rm",
		"-i",
		"--network=none",
		fmt.Sprintf("--memory=%dm", r.Limits.MemoryMiB),
		fmt.Sprintf("--memory-swap=%dm", r.Limits.MemoryMiB),
		fmt.Sprintf("--cpus=%v", r.Limits.CPUShare),
		"--pids-limit=64",
		"--security-opt=no-new-privileges",
		"--cap-drop=ALL",
		"-v", fmt.Sprintf("%s:%s", workDir, containerWorkDir),
		"-w", containerWorkDir,
		r.Image,
		"/bin/sh", "-c", chain(commands),
	}

	path := r.dockerPath
	if path == "" {
		path = "docker"
	}
	cmd := exec.CommandContext(runCtx, path, args...)

	// stdin is piped to the child's stdin handle rather than embedded into
	// the shell string, so no quote-escaping of its contents is needed
	// (spec.md §9 Open Question "stdin escaping").
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	exitCode := 0
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			exitCode = ExitTimeout
		} else if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return Result{}, fmt.Errorf("invoking container runtime: %w", err)
		}
	}

	code, errOut := canonicalize(exitCode, stderr.String())
	return Result{ExitCode: code, Stdout: stdout.String(), Stderr: errOut}, nil
}

// chain joins commands with "&&" so that any earlier failure
// short-circuits execution of the remainder.
func chain(commands []string) string {
	return strings.Join(commands, " && ")
}
