package cascade_test

import (
	"errors"
	"testing"

	"bilistage/internal/cascade"
	"bilistage/internal/services"
)

type splitOverlay struct {
	cascade.Selector
	Count  *int
	Suffix []string
	Label  *string
}

func (o splitOverlay) Scope() cascade.Selector { return o.Selector }

func (o splitOverlay) Merge(other splitOverlay) splitOverlay {
	o.Selector = other.Selector
	o.Count = cascade.Set(o.Count, other.Count)
	o.Suffix = cascade.SetSlice(o.Suffix, other.Suffix)
	o.Label = cascade.Set(o.Label, other.Label)
	return o
}

func intPtr(v int) *int                { return &v }
func strPtr(v string) *string          { return &v }
func season(s uint32) cascade.Selector { return cascade.Selector{Season: cascade.Uint32(s)} }
func episode(s, e uint32) cascade.Selector {
	return cascade.Selector{Season: cascade.Uint32(s), Episode: cascade.Uint32(e)}
}

func TestResolveTierPrecedence(t *testing.T) {
	overlays := []splitOverlay{
		// Listed most specific first to prove list order does not decide precedence.
		{Selector: episode(1, 2), Count: intPtr(6)},
		{Selector: season(1), Count: intPtr(5), Label: strPtr("season")},
		{Count: intPtr(4), Suffix: []string{"longmen"}, Label: strPtr("default")},
	}

	got, ok := cascade.Resolve(1, 2, overlays)
	if !ok {
		t.Fatal("expected a match")
	}
	if *got.Count != 6 || *got.Label != "season" || len(got.Suffix) != 1 {
		t.Fatalf("unexpected merge %+v", got)
	}

	got, ok = cascade.Resolve(1, 3, overlays)
	if !ok || *got.Count != 5 {
		t.Fatalf("season tier should apply to other episodes: %+v", got)
	}

	got, ok = cascade.Resolve(2, 2, overlays)
	if !ok || *got.Count != 4 || *got.Label != "default" {
		t.Fatalf("default tier should apply to other seasons: %+v", got)
	}
}

func TestResolveUnsetFieldsNeverClear(t *testing.T) {
	overlays := []splitOverlay{
		{Count: intPtr(4), Suffix: []string{"a", "b"}},
		{Selector: season(1)},
		{Selector: episode(1, 1)},
	}
	got, ok := cascade.Resolve(1, 1, overlays)
	if !ok || got.Count == nil || *got.Count != 4 || len(got.Suffix) != 2 {
		t.Fatalf("inherited fields lost: %+v", got)
	}
}

func TestResolveExplicitEmptyListOverrides(t *testing.T) {
	overlays := []splitOverlay{
		{Suffix: []string{"a"}},
		{Selector: season(1), Suffix: []string{}},
	}
	got, _ := cascade.Resolve(1, 1, overlays)
	if got.Suffix == nil || len(got.Suffix) != 0 {
		t.Fatalf("expected explicit empty suffix, got %#v", got.Suffix)
	}
}

func TestResolveNoMatch(t *testing.T) {
	overlays := []splitOverlay{
		{Selector: season(2), Count: intPtr(1)},
		{Selector: episode(1, 9), Count: intPtr(1)},
		{Selector: cascade.Selector{Episode: cascade.Uint32(1)}, Count: intPtr(1)},
	}
	if _, ok := cascade.Resolve(1, 1, overlays); ok {
		t.Fatal("expected no match")
	}
	if _, ok := cascade.Resolve[splitOverlay](1, 1, nil); ok {
		t.Fatal("expected no match for empty list")
	}
	_, err := cascade.MustResolve("split", 1, 1, overlays)
	if !errors.Is(err, cascade.ErrNoMatchingOverlay) || !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrNoMatchingOverlay, got %v", err)
	}
}

func TestResolveMatchedWithDefaultedFields(t *testing.T) {
	got, ok := cascade.Resolve(1, 1, []splitOverlay{{Selector: episode(1, 1)}})
	if !ok {
		t.Fatal("expected match even though no field is set")
	}
	if got.Count != nil {
		t.Fatalf("expected unset count, got %v", *got.Count)
	}
}

func TestResolveSameTierMergesInOrder(t *testing.T) {
	overlays := []splitOverlay{
		{Count: intPtr(1), Label: strPtr("first")},
		{Count: intPtr(2)},
	}
	got, _ := cascade.Resolve(7, 7, overlays)
	if *got.Count != 2 || *got.Label != "first" {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestSelectorValidate(t *testing.T) {
	if err := (cascade.Selector{Episode: cascade.Uint32(3)}).Validate(); err == nil {
		t.Fatal("expected error for episode without season")
	}
	if err := episode(1, 3).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cascade.TierEpisode.String() != "episode" {
		t.Fatal("unexpected tier label")
	}
}
