// Package workflow composes the video primitives, title catalogs, cache
// directories, filler index and uploader into the operator-facing jobs.
//
// Each job is a method on Service: Remove, Split, Mark, Transcode, Upload and
// UploadFile. A Service is built once per command from the loaded
// configuration and a toolchain.Runner, which tests replace with a fake that
// creates output files instead of running ffmpeg.
//
// Jobs resolve per-episode settings through the catalog cascade first and
// only then touch the filesystem, so a bad settings document fails before any
// external process runs.
package workflow
