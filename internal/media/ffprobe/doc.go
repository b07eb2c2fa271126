// Package ffprobe runs ffprobe through a toolchain.Runner and decodes the
// handful of stream and container fields the editing pipeline needs: codec,
// picture size and duration.
package ffprobe
