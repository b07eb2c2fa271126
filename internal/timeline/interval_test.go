package timeline

import (
	"errors"
	"reflect"
	"testing"

	"bilistage/internal/services"
)

func TestRemoveSegments(t *testing.T) {
	tests := []struct {
		name    string
		total   uint64
		exclude []Interval
		want    []Interval
	}{
		{"both ends", 1000, []Interval{{0, 200}, {800, 1100}}, []Interval{{200, 800}}},
		{"leading", 1000, []Interval{{0, 200}}, []Interval{{200, 1000}}},
		{"trailing past total", 1000, []Interval{{800, 1100}}, []Interval{{0, 800}}},
		{"interior", 1000, []Interval{{15, 200}, {800, 900}}, []Interval{{0, 15}, {200, 800}, {900, 1000}}},
		{"empty", 1000, nil, []Interval{{0, 1000}}},
		{"touching", 1000, []Interval{{100, 200}, {200, 300}}, []Interval{{0, 100}, {300, 1000}}},
		{"everything", 1000, []Interval{{0, 1000}}, []Interval{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoveSegments(tt.total, tt.exclude)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("RemoveSegments(%d, %v) = %v, want %v", tt.total, tt.exclude, got, tt.want)
			}
		})
	}
}

func TestRemoveSegmentsCoversTotal(t *testing.T) {
	const total = 3600
	excludes := [][]Interval{
		nil,
		{{0, 10}},
		{{10, 20}, {30, 40}, {3500, 3600}},
		{{1, 2}, {2, 3}, {1800, 1801}},
	}
	for _, exclude := range excludes {
		keep := RemoveSegments(total, exclude)
		covered := make([]bool, total)
		mark := func(set []Interval, owner string) {
			for _, seg := range set {
				for s := seg.Start; s < seg.End && s < total; s++ {
					if covered[s] {
						t.Fatalf("second %d covered twice (%s) for exclude %v", s, owner, exclude)
					}
					covered[s] = true
				}
			}
		}
		mark(keep, "keep")
		mark(exclude, "exclude")
		for s, ok := range covered {
			if !ok {
				t.Fatalf("second %d uncovered for exclude %v", s, exclude)
			}
		}
		for i := 1; i < len(keep); i++ {
			if keep[i].Start < keep[i-1].End {
				t.Fatalf("keep not sorted/disjoint: %v", keep)
			}
		}
		for _, seg := range keep {
			if seg.Duration() == 0 {
				t.Fatalf("empty keep interval in %v", keep)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate([]Interval{{0, 10}, {10, 20}, {30, 40}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range [][]Interval{
		{{10, 10}},
		{{20, 10}},
		{{0, 30}, {20, 40}},
		{{50, 60}, {0, 10}},
	} {
		err := Validate(bad)
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("Validate(%v) = %v, want validation error", bad, err)
		}
	}
}

func TestParseInterval(t *testing.T) {
	got, err := ParseInterval(" 15, 200 ")
	if err != nil {
		t.Fatalf("ParseInterval returned error: %v", err)
	}
	if got != (Interval{15, 200}) {
		t.Fatalf("got %v", got)
	}
	for _, bad := range []string{"15", "a,2", "1,-2", ""} {
		if _, err := ParseInterval(bad); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("ParseInterval(%q) = %v, want validation error", bad, err)
		}
	}
	list, err := ParseIntervals([]string{"0,1", "2,3"})
	if err != nil || len(list) != 2 || Total(list) != 2 {
		t.Fatalf("ParseIntervals = %v, %v", list, err)
	}
}

func TestFromPairs(t *testing.T) {
	if FromPairs(nil) != nil {
		t.Fatal("expected nil for empty pairs")
	}
	got := FromPairs([][2]uint64{{1, 2}, {5, 9}})
	if !reflect.DeepEqual(got, []Interval{{1, 2}, {5, 9}}) {
		t.Fatalf("got %v", got)
	}
}

func TestFormatClock(t *testing.T) {
	tests := map[float64]string{
		0:      "00:00:00",
		1.1:    "00:00:01",
		67.1:   "00:01:07",
		3671.1: "01:01:11",
		-67.9:  "00:01:07",
		360000: "100:00:00",
	}
	for in, want := range tests {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%v) = %q, want %q", in, got, want)
		}
	}
}
