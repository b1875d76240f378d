// Package slots generates the canonical slot grid for a seller's day and
// reconciles it against externally sourced busy intervals. It is the only
// place calendar free/busy data influences slot state.
package slots

import (
	"fmt"
	"time"

	"bookable/pkg/model"
)

const (
	DefaultWorkStart   = "09:00"
	DefaultWorkEnd     = "17:00"
	DefaultDurationMin = 30

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Generate produces the contiguous slot grid covering [workStart, workEnd)
// on the given date, every slot durationMin long and unavailable. A seller's
// day is busy until explicitly opened. When the duration does not divide the
// window evenly the trailing partial slot is dropped, never padded.
func Generate(date string, loc *time.Location, workStart, workEnd string, durationMin int) ([]model.TimeSlot, error) {
	if loc == nil {
		loc = time.UTC
	}
	if workStart == "" {
		workStart = DefaultWorkStart
	}
	if workEnd == "" {
		workEnd = DefaultWorkEnd
	}
	if durationMin <= 0 {
		durationMin = DefaultDurationMin
	}

	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	start, err := atTime(day, workStart)
	if err != nil {
		return nil, fmt.Errorf("invalid work start %q: %w", workStart, err)
	}
	end, err := atTime(day, workEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid work end %q: %w", workEnd, err)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("work window end %q must be after start %q", workEnd, workStart)
	}

	duration := time.Duration(durationMin) * time.Minute
	var out []model.TimeSlot
	for cur := start; cur.Add(duration).Compare(end) <= 0; cur = cur.Add(duration) {
		out = append(out, model.TimeSlot{
			Start:     cur,
			End:       cur.Add(duration),
			Available: false,
		})
	}
	return out, nil
}

// Reconcile returns a copy of slots with availability derived from the busy
// intervals: a slot overlapping any busy interval is unavailable, every
// other slot is available.
func Reconcile(in []model.TimeSlot, busy []model.BusyInterval) []model.TimeSlot {
	out := make([]model.TimeSlot, len(in))
	for i, slot := range in {
		slot.Available = true
		for _, b := range busy {
			if Overlaps(slot.Start, slot.End, b.Start, b.End) {
				slot.Available = false
				break
			}
		}
		out[i] = slot
	}
	return out
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching boundaries do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func atTime(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
