package engine

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var optionalCmp = cmp.AllowUnexported(Optional[Category]{})

func TestResolveIdentity(t *testing.T) {
	base := meditate()
	got := Resolve(base, Overrides{}, Overrides{})
	if diff := cmp.Diff(base.Fields(), got.Fields); diff != "" {
		t.Fatalf("Resolve identity mismatch (-want +got):\n%s", diff)
	}
	if got.CustomCategory.IsSet() {
		t.Fatalf("CustomCategory set without override")
	}
}

func TestResolvePrecedencePerField(t *testing.T) {
	base := meditate()
	pref := Overrides{Duration: Some("20 min"), Category: Some(CategoryReflection)}

	got := Resolve(base, pref, Overrides{})
	if got.Duration != "20 min" {
		t.Fatalf("Duration=%q, want preference value", got.Duration)
	}
	if got.Points != base.Points || got.Title != base.Title {
		t.Fatalf("unset fields did not fall through: %+v", got.Fields)
	}
	if got.Category != CategoryReflection {
		t.Fatalf("Category=%s, want reflection", got.Category)
	}

	got = Resolve(base, pref, Overrides{Duration: Some("30 min"), Points: Some(-4)})
	if got.Duration != "30 min" {
		t.Fatalf("Duration=%q, want instance value", got.Duration)
	}
	if got.Points != -4 {
		t.Fatalf("Points=%d, want unvalidated instance value -4", got.Points)
	}
	if got.Category != CategoryReflection {
		t.Fatalf("Category=%s, want preference value to survive", got.Category)
	}
}

func TestResolveCustomCategoryMarksExplicitDefault(t *testing.T) {
	base := meditate()
	got := Resolve(base, Overrides{Category: Some(base.Category)}, Overrides{})
	c, ok := got.CustomCategory.Get()
	if !ok || c != base.Category {
		t.Fatalf("CustomCategory=%v,%v want explicit %s", c, ok, base.Category)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	base := meditate()
	pref := Overrides{Title: Some("Sit"), Difficulty: Some(Difficulty(4))}
	inst := Overrides{Icon: Some("🧘")}
	a := Resolve(base, pref, inst)
	b := Resolve(base, pref, inst)
	if diff := cmp.Diff(a, b, optionalCmp); diff != "" {
		t.Fatalf("Resolve not idempotent (-a +b):\n%s", diff)
	}
}

func TestOwnerKeyPrecedence(t *testing.T) {
	cases := []struct {
		owner Owner
		want  string
	}{
		{Owner{UserID: "u1", SessionID: "s1"}, "user:u1"},
		{Owner{SessionID: "s1"}, "session:s1"},
		{Owner{}, SystemOwnerKey},
	}
	for _, tc := range cases {
		if got := tc.owner.OwnerKey(); got != tc.want {
			t.Fatalf("OwnerKey(%+v)=%s, want %s", tc.owner, got, tc.want)
		}
	}
	if SystemOwner.OwnerKey() != SystemOwnerKey {
		t.Fatalf("SystemOwner key=%s", SystemOwner.OwnerKey())
	}
}

func TestPreferenceIndexFiltersOwnerAndActive(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	owner := Owner{UserID: "u1"}
	prefs := []Preference{
		{OwnerKey: "user:u1", ActivityID: "a", Overrides: Overrides{Title: Some("old")}, Active: true, UpdatedAt: now.Add(-time.Hour)},
		{OwnerKey: "user:u1", ActivityID: "a", Overrides: Overrides{Title: Some("new")}, Active: true, UpdatedAt: now},
		{OwnerKey: "user:u1", ActivityID: "b", Overrides: Overrides{Title: Some("gone")}, Active: false, UpdatedAt: now},
		{OwnerKey: "session:s1", ActivityID: "c", Overrides: Overrides{Title: Some("other")}, Active: true, UpdatedAt: now},
	}
	idx := NewPreferenceIndex(owner, prefs)

	if v, _ := idx.Lookup("a").Title.Get(); v != "new" {
		t.Fatalf("Lookup(a).Title=%q, want newest", v)
	}
	if !idx.Lookup("b").IsEmpty() {
		t.Fatalf("inactive preference leaked")
	}
	if !idx.Lookup("c").IsEmpty() {
		t.Fatalf("other owner's preference leaked")
	}
}

func TestOverridesMerge(t *testing.T) {
	old := Overrides{Title: Some("a"), Points: Some(5)}
	got := old.Merge(Overrides{Points: Some(8), Icon: Some("x")})
	if v, _ := got.Title.Get(); v != "a" {
		t.Fatalf("Title=%q, want kept", v)
	}
	if v, _ := got.Points.Get(); v != 8 {
		t.Fatalf("Points=%d, want newer", v)
	}
	if v, _ := got.Icon.Get(); v != "x" {
		t.Fatalf("Icon=%q, want added", v)
	}
	if got.Duration.IsSet() {
		t.Fatalf("Duration set from nowhere")
	}
}
