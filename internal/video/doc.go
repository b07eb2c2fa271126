// Package video implements the segment editing pipeline on top of ffmpeg.
//
// The building blocks are small and sequential: Probe reads dimensions,
// codec and duration; Cut extracts one range; ToPacketStream rewraps a clip
// as MPEG-TS so clips can be joined; Concat joins an ordered list through a
// concat demuxer manifest. Split and Remove compose them. Every intermediate
// a composite operation creates is tracked by a Scratch and deleted whether
// the operation succeeds or fails.
//
// All process execution goes through a toolchain.Runner held by Tools.
package video
