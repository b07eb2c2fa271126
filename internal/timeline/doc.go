// Package timeline plans which whole-second ranges of a source survive an edit.
//
// RemoveSegments is the pure complement of exclude intervals against a total
// duration. It trusts its input: callers that accept operator-supplied
// intervals run Validate first. FormatClock renders offsets the way ffmpeg's
// -ss and -t options expect them.
package timeline
