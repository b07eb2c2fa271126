package timeline

import (
	"fmt"
	"strconv"
	"strings"

	"bilistage/internal/services"
)

// Interval is a half-open [Start, End) range in whole seconds.
type Interval struct {
	Start uint64
	End   uint64
}

// Duration returns End-Start, or zero for inverted intervals.
func (i Interval) Duration() uint64 {
	if i.End <= i.Start {
		return 0
	}
	return i.End - i.Start
}

func (i Interval) String() string {
	return fmt.Sprintf("%d,%d", i.Start, i.End)
}

// RemoveSegments returns the ranges of [0, total) not covered by exclude.
// exclude must be sorted and non-overlapping. Ends past total are accepted;
// the trailing keep range is only emitted while the last end is short of total.
func RemoveSegments(total uint64, exclude []Interval) []Interval {
	keep := make([]Interval, 0, len(exclude)+1)
	var lastEnd uint64
	for _, seg := range exclude {
		if seg.Start > lastEnd {
			keep = append(keep, Interval{Start: lastEnd, End: seg.Start})
		}
		lastEnd = seg.End
	}
	if lastEnd < total {
		keep = append(keep, Interval{Start: lastEnd, End: total})
	}
	return keep
}

// Validate reports the first interval that is empty, inverted, out of order
// or overlapping its predecessor.
func Validate(intervals []Interval) error {
	var prevEnd uint64
	for idx, seg := range intervals {
		if seg.End <= seg.Start {
			return services.Wrap(services.ErrValidation, "timeline", "validate", fmt.Sprintf("interval %d (%s) ends before it starts", idx, seg), nil)
		}
		if idx > 0 && seg.Start < prevEnd {
			return services.Wrap(services.ErrValidation, "timeline", "validate", fmt.Sprintf("interval %d (%s) overlaps or precedes the previous interval", idx, seg), nil)
		}
		prevEnd = seg.End
	}
	return nil
}

// FromPairs converts [start, end] pairs as stored in settings files.
func FromPairs(pairs [][2]uint64) []Interval {
	if len(pairs) == 0 {
		return nil
	}
	out := make([]Interval, len(pairs))
	for i, p := range pairs {
		out[i] = Interval{Start: p[0], End: p[1]}
	}
	return out
}

// ParseInterval parses "start,end" in whole seconds.
func ParseInterval(value string) (Interval, error) {
	startRaw, endRaw, ok := strings.Cut(strings.TrimSpace(value), ",")
	if !ok {
		return Interval{}, services.Wrap(services.ErrValidation, "timeline", "parse", fmt.Sprintf("%q is not start,end", value), nil)
	}
	start, err := strconv.ParseUint(strings.TrimSpace(startRaw), 10, 64)
	if err != nil {
		return Interval{}, services.Wrap(services.ErrValidation, "timeline", "parse", fmt.Sprintf("start of %q", value), err)
	}
	end, err := strconv.ParseUint(strings.TrimSpace(endRaw), 10, 64)
	if err != nil {
		return Interval{}, services.Wrap(services.ErrValidation, "timeline", "parse", fmt.Sprintf("end of %q", value), err)
	}
	return Interval{Start: start, End: end}, nil
}

// ParseIntervals parses each value with ParseInterval.
func ParseIntervals(values []string) ([]Interval, error) {
	out := make([]Interval, 0, len(values))
	for _, v := range values {
		seg, err := ParseInterval(v)
		if err != nil {
			return nil, err
		}
		out = append(out, seg)
	}
	return out, nil
}

// Total sums the durations of intervals.
func Total(intervals []Interval) uint64 {
	var sum uint64
	for _, seg := range intervals {
		sum += seg.Duration()
	}
	return sum
}
