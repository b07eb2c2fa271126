// Package toolchain executes the external binaries (ffmpeg, ffprobe and the
// uploader) that every pipeline stage delegates to.
//
// Callers depend on the Runner interface so tests can substitute a recorder
// that never spawns a process. ExecRunner is the production implementation:
// it blocks until the child exits, returns stdout split into lines and wraps
// non-zero exits in an *ExecError carrying the exit status and captured
// output.
package toolchain
