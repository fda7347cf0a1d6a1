package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	alice  = Owner{UserID: "alice"}
	guest  = Owner{SessionID: "guest-1"}
)

func newTestService(t *testing.T) (*Service, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	svc := NewService(db, WithClock(func() time.Time { return monday.Add(7 * time.Hour) }))
	if _, err := svc.SeedCatalog(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cleanup := func() {
		_ = db.Close()
	}
	return svc, cleanup
}

func mustDay(t *testing.T, svc *Service, owner OwnerStrategy, date time.Time) DailySchedule {
	t.Helper()
	sched, err := svc.Day(context.Background(), owner, date, date.Add(6*time.Hour), 0)
	if err != nil {
		t.Fatalf("Day(%s): %v", FormatDate(date), err)
	}
	return sched
}

func findActivity(sched DailySchedule, activityID string) []ActivityView {
	var out []ActivityView
	for _, v := range sched.Activities {
		if v.ActivityID == activityID {
			out = append(out, v)
		}
	}
	return out
}

func TestSeedCatalogIsIdempotent(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := svc.SeedCatalog(ctx); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	got, err := svc.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	want := BuiltinCatalog()
	if len(got) != len(want) {
		t.Fatalf("len=%d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Fatalf("order[%d]=%s, want %s", i, got[i].ID, want[i].ID)
		}
		if (got[i].Pattern == nil) != (want[i].Pattern == nil) {
			t.Fatalf("%s pattern lost in storage", want[i].ID)
		}
		if got[i].Points == 0 || got[i].RoleModelColor == "" {
			t.Fatalf("%s missing defaults: %+v", got[i].ID, got[i])
		}
	}
}

func TestDayExpandsRecurringCatalog(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	sched := mustDay(t, svc, alice, monday)
	want := []string{
		"marcus-morning-premeditation",
		"curie-deep-work-block",
		"leonardo-observation-sketch",
		"marcus-evening-review",
	}
	if len(sched.Activities) != len(want) {
		t.Fatalf("len=%d, want %d: %+v", len(sched.Activities), len(want), sched.Activities)
	}
	for i, id := range want {
		if sched.Activities[i].ActivityID != id {
			t.Fatalf("Activities[%d]=%s, want %s", i, sched.Activities[i].ActivityID, id)
		}
	}
	if sched.Current != nil {
		t.Fatalf("Current=%+v at 06:00, want none", sched.Current)
	}
	if len(sched.Next) != DefaultNextCount {
		t.Fatalf("Next=%d, want %d", len(sched.Next), DefaultNextCount)
	}
}

func TestCompleteOccurrenceAndUndo(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	id := DayOccurrenceID("marcus-morning-premeditation", "2025-03-10")
	rating := 4
	res, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: id, At: monday.Add(7*time.Hour + 5*time.Minute), Rating: &rating})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if res.PointsAwarded != DefaultPoints(3) {
		t.Fatalf("PointsAwarded=%d, want %d", res.PointsAwarded, DefaultPoints(3))
	}
	if res.Stats.TotalActivitiesCompleted != 1 || res.Stats.CurrentStreakDays != 1 || res.Stats.LastCompletedDate != "2025-03-10" {
		t.Fatalf("Stats=%+v", res.Stats)
	}

	sched := mustDay(t, svc, alice, monday)
	got := findActivity(sched, "marcus-morning-premeditation")
	if len(got) != 1 || !got[0].Completed || got[0].Rating == nil || *got[0].Rating != 4 {
		t.Fatalf("completed view=%+v", got)
	}
	if sched.CompletedCount != 1 || sched.TotalPoints != res.PointsAwarded {
		t.Fatalf("aggregates=%d/%d", sched.CompletedCount, sched.TotalPoints)
	}

	if _, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: id, At: monday.Add(8 * time.Hour)}); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second Complete err=%v, want ErrAlreadyCompleted", err)
	}

	undo, err := svc.Uncomplete(ctx, alice, id)
	if err != nil {
		t.Fatalf("Uncomplete: %v", err)
	}
	if undo.PointsDeducted != res.PointsAwarded {
		t.Fatalf("PointsDeducted=%d, want %d", undo.PointsDeducted, res.PointsAwarded)
	}
	stats, err := svc.Stats(ctx, alice)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalActivitiesCompleted != 0 || stats.TotalPoints != 0 || stats.LongestStreak != 1 {
		t.Fatalf("after undo: %+v", stats)
	}
	if _, err := svc.Uncomplete(ctx, alice, id); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("second Uncomplete err=%v, want ErrNotCompleted", err)
	}
}

func TestCompleteRejectsBadInput(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	rating := 9
	var ve ValidationError
	if _, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: "x", Rating: &rating}); !errors.As(err, &ve) {
		t.Fatalf("err=%v, want ValidationError", err)
	}
	if _, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: "nope"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
	// The monthly letter does not fall on the 10th.
	id := DayOccurrenceID("angelou-letter-to-self", "2025-03-10")
	if _, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: id, At: monday}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestStreakAcrossDays(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		date := monday.AddDate(0, 0, i)
		id := DayOccurrenceID("marcus-evening-review", FormatDate(date))
		if _, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: id, At: date.Add(21 * time.Hour)}); err != nil {
			t.Fatalf("Complete day %d: %v", i, err)
		}
	}
	stats, err := svc.Stats(ctx, alice)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.CurrentStreakDays != 3 || stats.LongestStreak != 3 {
		t.Fatalf("stats=%+v", stats)
	}
	n, err := svc.CompletedSince(ctx, alice, monday.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("CompletedSince: %v", err)
	}
	if n != 2 {
		t.Fatalf("CompletedSince=%d, want 2", n)
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	id := DayOccurrenceID("curie-deep-work-block", "2025-03-10")
	if _, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: id, At: monday.Add(9 * time.Hour)}); err != nil {
		t.Fatalf("Complete alice: %v", err)
	}
	if got := findActivity(mustDay(t, svc, guest, monday), "curie-deep-work-block"); len(got) != 1 || got[0].Completed {
		t.Fatalf("guest sees alice's completion: %+v", got)
	}
	if _, err := svc.Complete(ctx, guest, CompleteInput{InstanceID: id, At: monday.Add(9 * time.Hour)}); err != nil {
		t.Fatalf("Complete guest: %v", err)
	}
	if _, err := svc.Customize(ctx, guest, "curie-deep-work-block", Overrides{Duration: Some("45 min")}); err != nil {
		t.Fatalf("Customize: %v", err)
	}
	if got := findActivity(mustDay(t, svc, alice, monday), "curie-deep-work-block"); got[0].Duration != "90 min" {
		t.Fatalf("alice sees guest's preference: %q", got[0].Duration)
	}
}

func TestCustomizeMergesAndResets(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()
	const activity = "marcus-evening-review"

	if _, err := svc.Customize(ctx, alice, activity, Overrides{Title: Some("Nightly review")}); err != nil {
		t.Fatalf("Customize title: %v", err)
	}
	pref, err := svc.Customize(ctx, alice, activity, Overrides{Points: Some(40)})
	if err != nil {
		t.Fatalf("Customize points: %v", err)
	}
	if v, _ := pref.Overrides.Title.Get(); v != "Nightly review" {
		t.Fatalf("title lost on merge: %+v", pref.Overrides)
	}
	prefs, err := svc.Customizations(ctx, alice)
	if err != nil {
		t.Fatalf("Customizations: %v", err)
	}
	if len(prefs) != 1 {
		t.Fatalf("active preferences=%d, want 1", len(prefs))
	}

	view := findActivity(mustDay(t, svc, alice, monday), activity)[0]
	if view.Title != "Nightly review" || view.Points != 40 || view.Duration != "15 min" {
		t.Fatalf("view=%+v", view)
	}

	res, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: view.ID, At: monday.Add(21 * time.Hour)})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if res.PointsAwarded != 40 {
		t.Fatalf("PointsAwarded=%d, want customized 40", res.PointsAwarded)
	}

	ok, err := svc.ResetCustomization(ctx, alice, activity)
	if err != nil || !ok {
		t.Fatalf("Reset=%v,%v", ok, err)
	}
	view = findActivity(mustDay(t, svc, alice, monday), activity)[0]
	if view.Title != "Evening review" {
		t.Fatalf("Title=%q after reset", view.Title)
	}
	if ok, _ := svc.ResetCustomization(ctx, alice, activity); ok {
		t.Fatalf("second reset reported a preference")
	}
}

func TestCustomizeValidation(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	var ve ValidationError
	if _, err := svc.Customize(ctx, alice, "marcus-evening-review", Overrides{}); !errors.As(err, &ve) {
		t.Fatalf("empty overrides err=%v", err)
	}
	if _, err := svc.Customize(ctx, alice, "marcus-evening-review", Overrides{Difficulty: Some(Difficulty(12))}); !errors.As(err, &ve) {
		t.Fatalf("bad difficulty err=%v", err)
	}
	if _, err := svc.Customize(ctx, alice, "no-such-activity", Overrides{Points: Some(1)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown activity err=%v", err)
	}
}

func TestRescheduleOccurrenceAndDiscard(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()
	const activity = "marcus-morning-premeditation"
	tuesday := monday.AddDate(0, 0, 1)

	stub := DayOccurrenceID(activity, "2025-03-10")
	moved, err := svc.Reschedule(ctx, alice, RescheduleInput{InstanceID: stub, From: monday, Date: tuesday, Time: "8:00"})
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if moved.ParentID == nil || *moved.ParentID != stub || moved.Time != "08:00" || moved.Date != "2025-03-11" {
		t.Fatalf("moved=%+v", moved)
	}

	if got := findActivity(mustDay(t, svc, alice, monday), activity); len(got) != 0 {
		t.Fatalf("occurrence still shown on monday: %+v", got)
	}
	got := findActivity(mustDay(t, svc, alice, tuesday), activity)
	if len(got) != 2 || got[1].ID != moved.ID {
		t.Fatalf("tuesday=%+v", got)
	}

	// Moving the stored copy again updates it in place.
	again, err := svc.Reschedule(ctx, alice, RescheduleInput{InstanceID: moved.ID, Date: tuesday, Time: "12:30"})
	if err != nil {
		t.Fatalf("Reschedule stored: %v", err)
	}
	if again.ID != moved.ID || again.Time != "12:30" {
		t.Fatalf("again=%+v", again)
	}

	if err := svc.RemoveInstance(ctx, alice, moved.ID); err != nil {
		t.Fatalf("RemoveInstance: %v", err)
	}
	if got := findActivity(mustDay(t, svc, alice, monday), activity); len(got) != 1 || got[0].ID != stub {
		t.Fatalf("occurrence not restored: %+v", got)
	}
}

func TestEditOccurrenceCreatesCopy(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()
	const activity = "curie-deep-work-block"

	stub := DayOccurrenceID(activity, "2025-03-10")
	edited, err := svc.EditInstance(ctx, alice, EditInput{InstanceID: stub, Date: monday, Overrides: Overrides{Duration: Some("45 min")}})
	if err != nil {
		t.Fatalf("EditInstance: %v", err)
	}
	got := findActivity(mustDay(t, svc, alice, monday), activity)
	if len(got) != 1 || got[0].ID != edited.ID || got[0].Duration != "45 min" || got[0].Time != "09:00" {
		t.Fatalf("edited view=%+v", got)
	}

	if _, err := svc.EditInstance(ctx, alice, EditInput{InstanceID: edited.ID, Overrides: Overrides{Points: Some(99)}}); err != nil {
		t.Fatalf("EditInstance stored: %v", err)
	}
	got = findActivity(mustDay(t, svc, alice, monday), activity)
	if got[0].Duration != "45 min" || got[0].Points != 99 {
		t.Fatalf("second edit lost fields: %+v", got[0])
	}
}

func TestRemoveInstanceErrors(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	stub := DayOccurrenceID("curie-deep-work-block", "2025-03-10")
	if err := svc.RemoveInstance(ctx, alice, stub); !errors.Is(err, ErrRecurringOccurrence) {
		t.Fatalf("err=%v, want ErrRecurringOccurrence", err)
	}
	if err := svc.RemoveInstance(ctx, alice, "0b6cf7f6-1f0e-4a55-9f39-1b8f5b0c0d3e"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}

	if _, err := svc.Materialize(ctx, alice, monday, monday); err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if err := svc.RemoveInstance(ctx, alice, stub); !errors.Is(err, ErrRecurringOccurrence) {
		t.Fatalf("materialized err=%v, want ErrRecurringOccurrence", err)
	}
	if got := findActivity(mustDay(t, svc, alice, monday), "curie-deep-work-block"); len(got) != 1 || got[0].ID != stub {
		t.Fatalf("materialized occurrence gone: %+v", got)
	}
}

func TestRemoveCompletedOccurrenceKeepsSingleCredit(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	id := DayOccurrenceID("marcus-evening-review", "2025-03-10")
	at := monday.Add(21*time.Hour + 35*time.Minute)
	if _, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: id, At: at}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := svc.RemoveInstance(ctx, alice, id); !errors.Is(err, ErrRecurringOccurrence) {
			t.Fatalf("remove %d err=%v, want ErrRecurringOccurrence", i, err)
		}
		got := findActivity(mustDay(t, svc, alice, monday), "marcus-evening-review")
		if len(got) != 1 || !got[0].Completed {
			t.Fatalf("remove %d: view=%+v", i, got)
		}
		if _, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: id, At: at}); !errors.Is(err, ErrAlreadyCompleted) {
			t.Fatalf("recomplete %d err=%v, want ErrAlreadyCompleted", i, err)
		}
	}

	stats, err := svc.Stats(ctx, alice)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalActivitiesCompleted != 1 || stats.TotalPoints != DefaultPoints(4) {
		t.Fatalf("stats=%+v, want one credit of %d", stats, DefaultPoints(4))
	}
}

func TestRemoveCompletedInstanceRevertsCredit(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	adhoc, err := svc.ScheduleActivity(ctx, alice, ScheduleInput{ActivityID: "angelou-kind-word", Date: monday, Time: "12:00"})
	if err != nil {
		t.Fatalf("ScheduleActivity: %v", err)
	}
	if _, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: adhoc.ID, At: monday.Add(12 * time.Hour)}); err != nil {
		t.Fatalf("Complete ad hoc: %v", err)
	}

	stub := DayOccurrenceID("marcus-evening-review", "2025-03-10")
	moved, err := svc.Reschedule(ctx, alice, RescheduleInput{InstanceID: stub, From: monday, Date: monday, Time: "22:00"})
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if _, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: moved.ID, At: monday.Add(22 * time.Hour)}); err != nil {
		t.Fatalf("Complete moved: %v", err)
	}

	stats, err := svc.Stats(ctx, alice)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if want := DefaultPoints(2) + DefaultPoints(4); stats.TotalActivitiesCompleted != 2 || stats.TotalPoints != want {
		t.Fatalf("before remove: %+v, want 2 completions and %d points", stats, want)
	}

	if err := svc.RemoveInstance(ctx, alice, adhoc.ID); err != nil {
		t.Fatalf("remove ad hoc: %v", err)
	}
	if err := svc.RemoveInstance(ctx, alice, moved.ID); err != nil {
		t.Fatalf("remove moved: %v", err)
	}

	stats, err = svc.Stats(ctx, alice)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalActivitiesCompleted != 0 || stats.TotalPoints != 0 {
		t.Fatalf("after remove: %+v", stats)
	}
	n, err := svc.CompletedSince(ctx, alice, monday)
	if err != nil {
		t.Fatalf("CompletedSince: %v", err)
	}
	if n != 0 {
		t.Fatalf("completion log=%d, want 0", n)
	}

	sched := mustDay(t, svc, alice, monday)
	if got := findActivity(sched, "angelou-kind-word"); len(got) != 0 {
		t.Fatalf("ad hoc still shown: %+v", got)
	}
	got := findActivity(sched, "marcus-evening-review")
	if len(got) != 1 || got[0].ID != stub || got[0].Completed {
		t.Fatalf("occurrence not restored: %+v", got)
	}

	res, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: stub, At: monday.Add(21*time.Hour + 30*time.Minute)})
	if err != nil {
		t.Fatalf("Complete restored: %v", err)
	}
	if res.Stats.TotalActivitiesCompleted != 1 || res.Stats.TotalPoints != DefaultPoints(4) {
		t.Fatalf("after recomplete: %+v", res.Stats)
	}
}

func TestCompleteOccurrenceUsesItsOwnDate(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tuesday := monday.AddDate(0, 0, 1)
	id := DayOccurrenceID("marcus-morning-premeditation", "2025-03-11")
	if _, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: id, Date: monday, At: tuesday.Add(7 * time.Hour)}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	got := findActivity(mustDay(t, svc, alice, tuesday), "marcus-morning-premeditation")
	if len(got) != 1 || got[0].ID != id || !got[0].Completed {
		t.Fatalf("tuesday view=%+v", got)
	}
	if got := findActivity(mustDay(t, svc, alice, monday), "marcus-morning-premeditation"); len(got) != 1 || got[0].Completed {
		t.Fatalf("monday view=%+v", got)
	}
}

func TestTemplateFromRowRejectsUnknownPatternFields(t *testing.T) {
	good := `{"type":"weekly","daysOfWeek":[1,3,5]}`
	if _, err := templateFromRow(storage.Activity{ID: "x", Pattern: &good}); err != nil {
		t.Fatalf("valid pattern: %v", err)
	}
	bad := `{"type":"weekly","daysOfWeek":[1],"skipHolidays":true}`
	if _, err := templateFromRow(storage.Activity{ID: "x", Pattern: &bad}); err == nil {
		t.Fatalf("expected an error for an unknown pattern field")
	}
}

func TestScheduleActivityAdHoc(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	inst, err := svc.ScheduleActivity(ctx, alice, ScheduleInput{ActivityID: "angelou-kind-word", Date: monday, Time: "7:30"})
	if err != nil {
		t.Fatalf("ScheduleActivity: %v", err)
	}
	if inst.Time != "07:30" || inst.Date != "2025-03-10" || inst.OwnerKey != alice.OwnerKey() {
		t.Fatalf("inst=%+v", inst)
	}
	sched := mustDay(t, svc, alice, monday)
	if len(sched.Activities) != 5 || sched.Activities[1].ID != inst.ID {
		t.Fatalf("schedule=%+v", sched.Activities)
	}

	var ve ValidationError
	if _, err := svc.ScheduleActivity(ctx, alice, ScheduleInput{ActivityID: "angelou-kind-word", Date: monday, Time: "7pm"}); !errors.As(err, &ve) {
		t.Fatalf("bad time err=%v", err)
	}
	if _, err := svc.ScheduleActivity(ctx, alice, ScheduleInput{ActivityID: "ghost", Date: monday}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown activity err=%v", err)
	}
}

func TestMaterializeIsIdempotent(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()
	end := monday.AddDate(0, 0, 6)

	want := 0
	for _, tpl := range BuiltinCatalog() {
		if tpl.Pattern != nil {
			want += len(Expand(tpl, tpl.Pattern, monday, end))
		}
	}

	// A moved occurrence must not be materialized back.
	stub := DayOccurrenceID("marcus-evening-review", "2025-03-12")
	if _, err := svc.Reschedule(ctx, alice, RescheduleInput{InstanceID: stub, From: monday.AddDate(0, 0, 2), Date: end}); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}

	n, err := svc.Materialize(ctx, alice, monday, end)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if n != want-1 {
		t.Fatalf("inserted=%d, want %d", n, want-1)
	}
	n, err = svc.Materialize(ctx, alice, monday, end)
	if err != nil {
		t.Fatalf("Materialize again: %v", err)
	}
	if n != 0 {
		t.Fatalf("second Materialize inserted %d", n)
	}

	if got := mustDay(t, svc, alice, monday); len(got.Activities) != 4 {
		t.Fatalf("monday after materialize=%d activities, want 4", len(got.Activities))
	}
	if got := findActivity(mustDay(t, svc, alice, monday.AddDate(0, 0, 2)), "marcus-evening-review"); len(got) != 0 {
		t.Fatalf("moved occurrence resurrected: %+v", got)
	}
}

func TestWeekAndState(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	week, err := svc.Week(ctx, alice, monday, 7, monday)
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("len=%d, want 7", len(week))
	}
	for i, d := range week {
		if want := FormatDate(monday.AddDate(0, 0, i)); d.Date != want {
			t.Fatalf("week[%d].Date=%s, want %s", i, d.Date, want)
		}
		if len(findActivity(d, "marcus-morning-premeditation")) != 1 {
			t.Fatalf("%s missing daily premeditation", d.Date)
		}
	}

	id := DayOccurrenceID("curie-deep-work-block", "2025-03-10")
	now := monday.Add(9*time.Hour + 10*time.Minute)
	if _, err := svc.Complete(ctx, alice, CompleteInput{InstanceID: id, At: now}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	weights := []WeightedAttribute{
		{Attribute: "Perseverance", RoleModel: RoleModelCurie, Weight: 0.8},
		{Attribute: "Equanimity", RoleModel: RoleModelMarcus, Weight: 0.4},
	}
	state, sched, err := svc.State(ctx, alice, monday, now, weights)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.CurrentMood != MoodDetermined {
		t.Fatalf("mood=%s, want determined after deep work", state.CurrentMood)
	}
	if state.TotalPoints != DefaultPoints(8) || state.Level != 1 {
		t.Fatalf("state=%+v", state)
	}
	if sched.CompletedCount != 1 || len(state.DominantRoleModels) != 2 || state.DominantRoleModels[0].Name != RoleModelCurie {
		t.Fatalf("state=%+v sched=%+v", state, sched)
	}
}
