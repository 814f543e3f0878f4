package sandbox

// Canonical host/container exit codes the runner remaps before returning,
// per spec.md §4.1.
const (
	ExitTimeout  = 124
	ExitOOMKill  = 137
	ExitSegfaultDocker = 139
	ExitSegfaultRaw    = 11
)

const segfaultStderr = "Segmentation Fault"

// canonicalize rewrites a raw exit code/stderr pair into the fixed set the
// rest of the pipeline understands. Segfault exit codes get a synthetic
// stderr so the investigation pipeline never has to special-case an empty
// stderr on crash.
func canonicalize(code int, stderr string) (int, string) {
	switch code {
	case ExitSegfaultDocker, ExitSegfaultRaw:
		return ExitSegfaultDocker, segfaultStderr
	default:
		return code, stderr
	}
}
