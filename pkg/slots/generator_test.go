package slots

import (
	"testing"
	"time"

	"bookable/pkg/model"
)

func mustSlot(t *testing.T, date, start, end string) (time.Time, time.Time) {
	t.Helper()
	s, err := time.Parse(time.RFC3339, date+"T"+start+":00Z")
	if err != nil {
		t.Fatalf("bad start: %v", err)
	}
	e, err := time.Parse(time.RFC3339, date+"T"+end+":00Z")
	if err != nil {
		t.Fatalf("bad end: %v", err)
	}
	return s, e
}

func TestGenerate_DefaultDay(t *testing.T) {
	got, err := Generate("2025-03-10", time.UTC, "", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 09:00-17:00 in 30 minute steps.
	if len(got) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(got))
	}

	for i, slot := range got {
		if slot.Available {
			t.Errorf("slot %d: generated slots must default to unavailable", i)
		}
		if d := slot.End.Sub(slot.Start); d != 30*time.Minute {
			t.Errorf("slot %d: duration %v, want 30m", i, d)
		}
		if i > 0 && !slot.Start.Equal(got[i-1].End) {
			t.Errorf("slot %d: not contiguous with previous slot", i)
		}
	}

	wantFirst, _ := mustSlot(t, "2025-03-10", "09:00", "09:30")
	if !got[0].Start.Equal(wantFirst) {
		t.Errorf("first slot starts at %v, want %v", got[0].Start, wantFirst)
	}
	_, wantLastEnd := mustSlot(t, "2025-03-10", "16:30", "17:00")
	if !got[len(got)-1].End.Equal(wantLastEnd) {
		t.Errorf("last slot ends at %v, want %v", got[len(got)-1].End, wantLastEnd)
	}
}

func TestGenerate_TwoSlotWindow(t *testing.T) {
	got, err := Generate("2025-03-10", time.UTC, "09:00", "10:00", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(got))
	}

	s0, e0 := mustSlot(t, "2025-03-10", "09:00", "09:30")
	s1, e1 := mustSlot(t, "2025-03-10", "09:30", "10:00")
	if !got[0].Start.Equal(s0) || !got[0].End.Equal(e0) {
		t.Errorf("slot 0 = [%v, %v)", got[0].Start, got[0].End)
	}
	if !got[1].Start.Equal(s1) || !got[1].End.Equal(e1) {
		t.Errorf("slot 1 = [%v, %v)", got[1].Start, got[1].End)
	}
	if got[0].Available || got[1].Available {
		t.Error("generated slots must be unavailable")
	}
}

func TestGenerate_TruncatesPartialSlot(t *testing.T) {
	got, err := Generate("2025-03-10", time.UTC, "09:00", "10:15", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 09:00-10:15 holds two whole 30m slots; [10:00, 10:30) would spill past
	// the window and must be dropped.
	if len(got) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(got))
	}
	_, wantEnd := mustSlot(t, "2025-03-10", "09:30", "10:00")
	if !got[1].End.Equal(wantEnd) {
		t.Errorf("last slot ends at %v, want %v", got[1].End, wantEnd)
	}
}

func TestGenerate_Errors(t *testing.T) {
	cases := []struct {
		name             string
		date, start, end string
	}{
		{"bad date", "10-03-2025", "09:00", "17:00"},
		{"bad start", "2025-03-10", "9am", "17:00"},
		{"bad end", "2025-03-10", "09:00", "25:00"},
		{"inverted window", "2025-03-10", "17:00", "09:00"},
		{"empty window", "2025-03-10", "09:00", "09:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Generate(tc.date, time.UTC, tc.start, tc.end, 30); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestGenerate_SellerTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	got, err := Generate("2025-03-10", loc, "09:00", "10:00", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Start.Location() != loc {
		t.Errorf("slots generated in %v, want %v", got[0].Start.Location(), loc)
	}
	if h := got[0].Start.Hour(); h != 9 {
		t.Errorf("first slot local hour = %d, want 9", h)
	}
}

func TestReconcile_PartialOverlapBlocksBothSlots(t *testing.T) {
	grid, err := Generate("2025-03-10", time.UTC, "09:00", "10:00", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bs, be := mustSlot(t, "2025-03-10", "09:15", "09:45")
	got := Reconcile(grid, []model.BusyInterval{{Start: bs, End: be}})

	if got[0].Available || got[1].Available {
		t.Errorf("busy [09:15, 09:45) must block both slots, got %v %v",
			got[0].Available, got[1].Available)
	}
	// Reconcile must not mutate its input.
	if grid[0].Available || grid[1].Available {
		t.Error("input slots mutated")
	}
}

func TestReconcile_FreeSlotsBecomeAvailable(t *testing.T) {
	grid, err := Generate("2025-03-10", time.UTC, "09:00", "11:00", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bs, be := mustSlot(t, "2025-03-10", "10:00", "10:30")
	got := Reconcile(grid, []model.BusyInterval{{Start: bs, End: be}})

	want := []bool{true, true, false, true}
	for i, w := range want {
		if got[i].Available != w {
			t.Errorf("slot %d available = %v, want %v", i, got[i].Available, w)
		}
	}
}

func TestReconcile_NoBusyOpensEverything(t *testing.T) {
	grid, _ := Generate("2025-03-10", time.UTC, "09:00", "10:00", 30)
	for i, slot := range Reconcile(grid, nil) {
		if !slot.Available {
			t.Errorf("slot %d should be available with no busy intervals", i)
		}
	}
}

func TestOverlaps_Boundaries(t *testing.T) {
	s1, e1 := mustSlot(t, "2025-03-10", "09:00", "09:30")
	s2, e2 := mustSlot(t, "2025-03-10", "09:30", "10:00")
	s3, e3 := mustSlot(t, "2025-03-10", "09:15", "09:45")

	if Overlaps(s1, e1, s2, e2) {
		t.Error("slot ending exactly at another's start must not conflict")
	}
	if Overlaps(s2, e2, s1, e1) {
		t.Error("slot starting exactly at another's end must not conflict")
	}
	if !Overlaps(s1, e1, s3, e3) {
		t.Error("partial overlap must conflict")
	}
	if !Overlaps(s3, e3, s1, e1) {
		t.Error("overlap check must be symmetric")
	}
	if !Overlaps(s1, e1, s1, e1) {
		t.Error("identical intervals must conflict")
	}
}
